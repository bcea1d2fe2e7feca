package jusan

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"net/http"
)

// =====================================================
// PROTOCOL VARIANTS
// =====================================================

// Variant names one Jusan protocol dialect. Which dialect a merchant terminal
// speaks is fixed by its contract with the bank; it is configuration, not a
// per-request choice.
type Variant string

const (
	// VariantLegacy is the older GET-redirect flow: parameters sorted by
	// name, name=value pairs, SHA-256, secret appended.
	VariantLegacy Variant = "legacy"

	// VariantEcom is the newer POST-form flow: fixed positional field lists,
	// values only, SHA-512, secret prefixed.
	VariantEcom Variant = "ecom"
)

// Scheme captures everything that differs between the two dialects: field
// ordering, hash algorithm, join rule and transport method. The builder and
// verifier consume a Scheme generically, so adding a dialect means adding
// data, not code paths.
type Scheme struct {
	Variant Variant

	// Transport for the initiation request.
	Method string

	// Wire name of the parameter carrying the digest.
	SignatureField string

	// NewHash returns the digest algorithm (SHA-256 or SHA-512).
	NewHash func() hash.Hash

	// SecretFirst prefixes the secret to the sign string; otherwise the
	// secret is appended after the final separator.
	SecretFirst bool

	// NamedPairs selects the legacy join rule: sort all parameters by name
	// and fold "name=value;" per field. When false the positional rule
	// applies: walk a fixed slot list folding "value;" per slot, absent
	// fields contributing an empty slot.
	NamedPairs bool

	// Positional slot lists. Request signing and callback verification use
	// different orderings even within the same dialect, so two lists are
	// kept. Unused for named-pair schemes.
	RequestOrder  []string
	CallbackOrder []string

	// Result-code field of the callback and the values meaning success.
	ResultField   string
	SuccessValues []string
}

// ecomRequestOrder is the documented positional slot list for signing ecom
// initiation and refund requests. Not every request carries every slot;
// absent ones fold in as empty strings. The order itself is the contract.
var ecomRequestOrder = []string{
	"ORDER",
	"AMOUNT",
	"CURRENCY",
	"MERCHANT",
	"TERMINAL",
	"NONCE",
	"LANGUAGE",
	"CLIENT_ID",
	"DESC",
	"DESC_ORDER",
	"EMAIL",
	"BACKREF",
	"Ucaf_Flag",
	"Ucaf_Authentication_Data",
	"MK_TOKEN",
	"MERCH_RN_ID",
	"RECUR_FREQ",
	"RECUR_EXP",
	"RECUR_REF",
	"INT_REF",
}

// ecomCallbackOrder is the separate, shorter slot list for verifying inbound
// ecom notifications. Field names follow the callback's lowercase wire form;
// merchant and terminal are folded in as empty slots when the gateway omits
// them.
var ecomCallbackOrder = []string{
	"order",
	"amount",
	"currency",
	"merchant",
	"terminal",
	"res_code",
	"rrn",
}

// LegacyScheme returns the GET-redirect dialect.
func LegacyScheme() *Scheme {
	return &Scheme{
		Variant:        VariantLegacy,
		Method:         http.MethodGet,
		SignatureField: "signature",
		NewHash:        sha256.New,
		SecretFirst:    false,
		NamedPairs:     true,
		ResultField:    "status",
		SuccessValues:  []string{"success", "approved"},
	}
}

// EcomScheme returns the POST-form dialect.
func EcomScheme() *Scheme {
	return &Scheme{
		Variant:        VariantEcom,
		Method:         http.MethodPost,
		SignatureField: "P_SIGN",
		NewHash:        sha512.New,
		SecretFirst:    true,
		NamedPairs:     false,
		RequestOrder:   ecomRequestOrder,
		CallbackOrder:  ecomCallbackOrder,
		ResultField:    "res_code",
		SuccessValues:  []string{"0"},
	}
}

// SchemeFor maps a configured variant name to its scheme.
func SchemeFor(v Variant) (*Scheme, bool) {
	switch v {
	case VariantLegacy:
		return LegacyScheme(), true
	case VariantEcom:
		return EcomScheme(), true
	default:
		return nil, false
	}
}

// CallbackSignatureField returns the wire name of the signature parameter on
// inbound notifications. The ecom dialect signs requests as P_SIGN but echoes
// callbacks as sign.
func (s *Scheme) CallbackSignatureField() string {
	if s.Variant == VariantEcom {
		return "sign"
	}
	return s.SignatureField
}

// IsSuccessCode reports whether a callback result code means an approved
// payment under this dialect.
func (s *Scheme) IsSuccessCode(code string) bool {
	for _, v := range s.SuccessValues {
		if code == v {
			return true
		}
	}
	return false
}
