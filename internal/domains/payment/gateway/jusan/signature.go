package jusan

import (
	"crypto/hmac"
	"encoding/hex"
	"sort"
	"strings"
)

// =====================================================
// SIGNATURE COMPUTATION
// =====================================================

// SignRequest computes the lowercase hex digest over an outbound parameter
// set. An empty secret returns "": signing is skipped entirely for
// unconfigured merchants, it is not an error.
func (s *Scheme) SignRequest(params map[string]string, secret string) string {
	if secret == "" {
		return ""
	}
	if s.NamedPairs {
		return s.digest(s.namedPairString(params, secret))
	}
	return s.digest(s.positionalString(s.RequestOrder, params, secret))
}

// SignCallback recomputes the digest an authentic gateway would have put on
// an inbound notification. For the named-pair dialect the full field set
// minus the signature field itself is folded in; the positional dialect reads
// a fixed slot subset regardless of what extra fields arrived.
func (s *Scheme) SignCallback(params map[string]string, secret string) string {
	if secret == "" {
		return ""
	}
	if s.NamedPairs {
		clean := make(map[string]string, len(params))
		for k, v := range params {
			if k == s.CallbackSignatureField() {
				continue
			}
			clean[k] = v
		}
		return s.digest(s.namedPairString(clean, secret))
	}
	return s.digest(s.positionalString(s.CallbackOrder, params, secret))
}

// VerifyCallback checks the claimed signature on an inbound payload.
//
// An absent or empty secret makes verification pass unconditionally. This is
// the documented escape hatch for merchants without a shared secret
// configured; callers should surface it as a configuration warning, never
// rely on it.
func (s *Scheme) VerifyCallback(params map[string]string, secret string) bool {
	if secret == "" {
		return true
	}

	claimed := params[s.CallbackSignatureField()]
	if claimed == "" {
		return false
	}

	expected := s.SignCallback(params, secret)

	// Constant-time compare. The claimed value is lowercased first so a
	// gateway emitting uppercase hex still verifies.
	return hmac.Equal([]byte(strings.ToLower(claimed)), []byte(expected))
}

// namedPairString builds "name1=value1;name2=value2;...;secret" with names in
// ascending byte order. Matches the legacy dialect exactly: the secret rides
// after the final separator with no extra punctuation.
func (s *Scheme) namedPairString(params map[string]string, secret string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(foldValue(params[name]))
		b.WriteByte(';')
	}
	b.WriteString(secret)
	return b.String()
}

// positionalString builds "secret + v1;v2;...;" over a fixed slot list.
// Every slot contributes, present or not; an absent field is an empty slot,
// not a skipped one, so both sides of the wire agree on positions.
func (s *Scheme) positionalString(order []string, params map[string]string, secret string) string {
	var b strings.Builder
	if s.SecretFirst {
		b.WriteString(secret)
	}
	for _, name := range order {
		b.WriteString(foldValue(params[name]))
		b.WriteByte(';')
	}
	if !s.SecretFirst {
		b.WriteString(secret)
	}
	return b.String()
}

func (s *Scheme) digest(signString string) string {
	h := s.NewHash()
	h.Write([]byte(signString))
	return hex.EncodeToString(h.Sum(nil))
}

// foldValue strips line breaks from free-text fields before they enter the
// sign string. Descriptor and order description can be multi-line; if the
// sender folds newlines and the verifier does not, verification silently
// breaks.
func foldValue(v string) string {
	if !strings.ContainsAny(v, "\r\n") {
		return v
	}
	v = strings.ReplaceAll(v, "\r\n", " ")
	v = strings.ReplaceAll(v, "\n", " ")
	v = strings.ReplaceAll(v, "\r", " ")
	return v
}
