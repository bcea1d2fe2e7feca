package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamSet_PreservesInsertionOrder(t *testing.T) {
	p := NewParamSet()
	p.Set("zulu", "1")
	p.Set("alpha", "2")
	p.Set("mike", "3")

	pairs := p.Pairs()
	require.Len(t, pairs, 3)
	assert.Equal(t, "zulu", pairs[0].Name)
	assert.Equal(t, "alpha", pairs[1].Name)
	assert.Equal(t, "mike", pairs[2].Name)
}

func TestParamSet_SetOverwritesInPlace(t *testing.T) {
	p := NewParamSet()
	p.Set("a", "1")
	p.Set("b", "2")
	p.Set("a", "changed")

	assert.Equal(t, 2, p.Len())

	v, ok := p.Get("a")
	require.True(t, ok)
	assert.Equal(t, "changed", v)

	// Position did not move.
	assert.Equal(t, "a", p.Pairs()[0].Name)
}

func TestParamSet_GetMissing(t *testing.T) {
	p := NewParamSet()
	_, ok := p.Get("nope")
	assert.False(t, ok)
}

func TestParamSet_EncodeKeepsOrderAndEscapes(t *testing.T) {
	p := NewParamSet()
	p.Set("order_id", "100_55")
	p.Set("return_url", "https://shop.example.kz/result?a=b")
	p.Set("amount", "1500.00")

	// url.Values would re-sort alphabetically; wire order must survive.
	assert.Equal(t,
		"order_id=100_55&return_url=https%3A%2F%2Fshop.example.kz%2Fresult%3Fa%3Db&amount=1500.00",
		p.Encode(),
	)
}

func TestParamSet_StringTruncatesSignatures(t *testing.T) {
	p := NewParamSet()
	p.Set("order_id", "100_55")
	p.Set("signature", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	s := p.String()
	assert.Contains(t, s, "signature=aaaaaaaa...")
	assert.NotContains(t, s, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
}

func TestParamSet_PairsReturnsCopy(t *testing.T) {
	p := NewParamSet()
	p.Set("a", "1")

	pairs := p.Pairs()
	pairs[0].Value = "mutated"

	v, _ := p.Get("a")
	assert.Equal(t, "1", v)
}
