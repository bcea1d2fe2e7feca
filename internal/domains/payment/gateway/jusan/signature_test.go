package jusan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-shared-secret"

func legacyParams() map[string]string {
	return map[string]string{
		"mid":        "MID001",
		"tid":        "TID001",
		"order_id":   "100_55",
		"amount":     "1500.00",
		"currency":   "KZT",
		"descriptor": "Mebelschik.kz",
	}
}

func ecomCallbackParams() map[string]string {
	return map[string]string{
		"order":    "100_55",
		"amount":   "1500.00",
		"currency": "KZT",
		"res_code": "0",
		"rrn":      "123456",
	}
}

func ecomRequestParams() map[string]string {
	return map[string]string{
		"ORDER":    "100_55",
		"AMOUNT":   "1500.00",
		"CURRENCY": "KZT",
		"MERCHANT": "MID001",
		"TERMINAL": "TID001",
		"NONCE":    "f47ac10b58cc4372a5670e02b2c3d479",
	}
}

func TestSignRequest_Deterministic(t *testing.T) {
	tests := []struct {
		name   string
		scheme *Scheme
		params map[string]string
	}{
		{"legacy", LegacyScheme(), legacyParams()},
		{"ecom", EcomScheme(), ecomRequestParams()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := tt.scheme.SignRequest(tt.params, testSecret)
			require.NotEmpty(t, first)

			for i := 0; i < 10; i++ {
				assert.Equal(t, first, tt.scheme.SignRequest(tt.params, testSecret))
			}
		})
	}
}

func TestSignRequest_DigestLengths(t *testing.T) {
	// Legacy uses SHA-256 (64 hex chars), ecom SHA-512 (128 hex chars),
	// both lowercase.
	legacy := LegacyScheme().SignRequest(legacyParams(), testSecret)
	assert.Len(t, legacy, 64)
	assert.Equal(t, strings.ToLower(legacy), legacy)

	ecom := EcomScheme().SignRequest(ecomRequestParams(), testSecret)
	assert.Len(t, ecom, 128)
	assert.Equal(t, strings.ToLower(ecom), ecom)
}

func TestSignRequest_SingleValueChangesDigest(t *testing.T) {
	legacy := LegacyScheme()
	base := legacy.SignRequest(legacyParams(), testSecret)

	changed := legacyParams()
	changed["amount"] = "1500.01"
	assert.NotEqual(t, base, legacy.SignRequest(changed, testSecret))

	ecom := EcomScheme()
	baseEcom := ecom.SignCallback(ecomCallbackParams(), testSecret)

	changedEcom := ecomCallbackParams()
	changedEcom["rrn"] = "123457"
	assert.NotEqual(t, baseEcom, ecom.SignCallback(changedEcom, testSecret))
}

func TestSignRequest_EmptySecretSkipsSigning(t *testing.T) {
	assert.Empty(t, LegacyScheme().SignRequest(legacyParams(), ""))
	assert.Empty(t, EcomScheme().SignCallback(ecomCallbackParams(), ""))
}

func TestNamedPairString_Format(t *testing.T) {
	s := LegacyScheme()

	got := s.namedPairString(map[string]string{
		"charlie": "3",
		"alpha":   "1",
		"bravo":   "2",
	}, "sec")

	// Names sort ascending, each pair ends with a separator, secret rides
	// after the final one with no extra punctuation.
	assert.Equal(t, "alpha=1;bravo=2;charlie=3;sec", got)
}

func TestPositionalString_EmptySlotsPreservePositions(t *testing.T) {
	s := EcomScheme()

	got := s.positionalString(s.CallbackOrder, map[string]string{
		"order":    "100_55",
		"amount":   "1500.00",
		"currency": "KZT",
		"res_code": "0",
		"rrn":      "123456",
	}, "sec")

	// merchant and terminal are absent but still contribute empty slots.
	assert.Equal(t, "sec100_55;1500.00;KZT;;;0;123456;", got)
}

func TestPositionalString_IgnoresUnknownFields(t *testing.T) {
	s := EcomScheme()

	base := s.SignCallback(ecomCallbackParams(), testSecret)

	extra := ecomCallbackParams()
	extra["injected"] = "field"
	assert.Equal(t, base, s.SignCallback(extra, testSecret))
}

func TestVerifyCallback_PassesOnlyOnMatch(t *testing.T) {
	s := EcomScheme()

	params := ecomCallbackParams()
	params["sign"] = s.SignCallback(params, testSecret)
	assert.True(t, s.VerifyCallback(params, testSecret))

	tampered := ecomCallbackParams()
	tampered["amount"] = "9999.00"
	tampered["sign"] = params["sign"]
	assert.False(t, s.VerifyCallback(tampered, testSecret))

	wrongSecret := ecomCallbackParams()
	wrongSecret["sign"] = s.SignCallback(wrongSecret, "other-secret")
	assert.False(t, s.VerifyCallback(wrongSecret, testSecret))
}

func TestVerifyCallback_UppercaseHexAccepted(t *testing.T) {
	s := EcomScheme()

	params := ecomCallbackParams()
	params["sign"] = strings.ToUpper(s.SignCallback(params, testSecret))
	assert.True(t, s.VerifyCallback(params, testSecret))
}

func TestVerifyCallback_MissingSignatureFails(t *testing.T) {
	s := EcomScheme()
	assert.False(t, s.VerifyCallback(ecomCallbackParams(), testSecret))

	legacy := LegacyScheme()
	assert.False(t, legacy.VerifyCallback(legacyParams(), testSecret))
}

func TestVerifyCallback_EmptySecretPassesUnconditionally(t *testing.T) {
	s := EcomScheme()

	params := ecomCallbackParams()
	params["sign"] = "complete-garbage"
	assert.True(t, s.VerifyCallback(params, ""))

	delete(params, "sign")
	assert.True(t, s.VerifyCallback(params, ""))
}

func TestVerifyCallback_LegacyExcludesSignatureField(t *testing.T) {
	s := LegacyScheme()

	params := legacyParams()
	params["status"] = "success"
	params["signature"] = s.SignCallback(params, testSecret)

	// The signature field itself must not enter the recomputed sign string,
	// otherwise verification could never pass.
	assert.True(t, s.VerifyCallback(params, testSecret))
}

func TestFoldValue_StripsLineBreaks(t *testing.T) {
	s := LegacyScheme()

	multiline := legacyParams()
	multiline["descriptor"] = "Mebelschik.kz\r\nAlmaty"

	folded := legacyParams()
	folded["descriptor"] = "Mebelschik.kz Almaty"

	assert.Equal(t,
		s.SignRequest(folded, testSecret),
		s.SignRequest(multiline, testSecret),
	)
}
