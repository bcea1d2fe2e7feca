package gateway

import (
	"fmt"
	"net/url"
	"strings"
)

// =====================================================
// SIGNED PARAMETER SET
// =====================================================

// Param is one (name, value) pair on the wire.
type Param struct {
	Name  string
	Value string
}

// ParamSet is an ordered sequence of parameters. Order is part of the
// protocol contract with the gateway, so insertion order is preserved and
// duplicate names are rejected (Set on an existing name updates in place).
type ParamSet struct {
	pairs []Param
	index map[string]int
}

// NewParamSet creates an empty parameter set.
func NewParamSet() *ParamSet {
	return &ParamSet{index: make(map[string]int)}
}

// Set appends the pair, or overwrites the value if name is already present.
func (p *ParamSet) Set(name, value string) {
	if i, ok := p.index[name]; ok {
		p.pairs[i].Value = value
		return
	}
	p.index[name] = len(p.pairs)
	p.pairs = append(p.pairs, Param{Name: name, Value: value})
}

// Get returns the value for name and whether it is present.
func (p *ParamSet) Get(name string) (string, bool) {
	i, ok := p.index[name]
	if !ok {
		return "", false
	}
	return p.pairs[i].Value, true
}

// Len returns the number of parameters.
func (p *ParamSet) Len() int {
	return len(p.pairs)
}

// Pairs returns the parameters in wire order. The returned slice is a copy.
func (p *ParamSet) Pairs() []Param {
	out := make([]Param, len(p.pairs))
	copy(out, p.pairs)
	return out
}

// Map returns the parameters as a name → value map (order discarded).
func (p *ParamSet) Map() map[string]string {
	m := make(map[string]string, len(p.pairs))
	for _, pair := range p.pairs {
		m[pair.Name] = pair.Value
	}
	return m
}

// Encode serializes the set as application/x-www-form-urlencoded, preserving
// wire order. url.Values would re-sort by name, which breaks gateways that
// read fields positionally.
func (p *ParamSet) Encode() string {
	var b strings.Builder
	for i, pair := range p.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(pair.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(pair.Value))
	}
	return b.String()
}

// String implements fmt.Stringer for debug logging. The signature value is
// truncated so full digests never land in logs.
func (p *ParamSet) String() string {
	parts := make([]string, 0, len(p.pairs))
	for _, pair := range p.pairs {
		v := pair.Value
		if (pair.Name == "signature" || pair.Name == "P_SIGN") && len(v) > 8 {
			v = v[:8] + "..."
		}
		parts = append(parts, fmt.Sprintf("%s=%s", pair.Name, v))
	}
	return strings.Join(parts, "&")
}
