package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignature_String(t *testing.T) {
	sig := Signature{0.1, 0.2, 0.1, 0.2, 0.3, 0.4, 0.2, 0.3}
	assert.Equal(t, "0.1000:0.2000:0.1000:0.2000:0.3000:0.4000:0.2000:0.3000", sig.String())

	rounded := Signature{0.123456, 1.99999, 0, 2.5, 0.00004, 0.00005, 10, 0.5}
	assert.Equal(t, "0.1235:2.0000:0.0000:2.5000:0.0000:0.0001:10.0000:0.5000", rounded.String())
}

func TestParseSignature_RoundTrip(t *testing.T) {
	inputs := []Signature{
		{0.1, 0.2, 0.1, 0.2, 0.3, 0.4, 0.2, 0.3},
		{0.509902, 0.509902, 0.460977, 0.460977, 0.6, 0.5, 0.970824, 0.970824},
		{1.23456789, 0, 0.00001, 3.14159, 2.71828, 0.5, 0.25, 7},
	}

	for _, in := range inputs {
		encoded := in.String()

		parsed, err := ParseSignature(encoded)
		require.NoError(t, err)
		assert.Equal(t, encoded, parsed.String())

		for i := range in {
			assert.InDelta(t, in[i], parsed[i], 0.00005)
		}
	}
}

func TestParseSignature_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "too few values", raw: "0.1:0.2:0.3"},
		{name: "too many values", raw: "0.1:0.2:0.1:0.2:0.3:0.4:0.2:0.3:0.9"},
		{name: "non numeric value", raw: "0.1:0.2:abc:0.2:0.3:0.4:0.2:0.3"},
		{name: "empty value", raw: "0.1:0.2::0.2:0.3:0.4:0.2:0.3"},
		{name: "NaN", raw: "0.1:0.2:NaN:0.2:0.3:0.4:0.2:0.3"},
		{name: "infinity", raw: "0.1:0.2:+Inf:0.2:0.3:0.4:0.2:0.3"},
		{name: "wrong delimiter", raw: "0.1,0.2,0.1,0.2,0.3,0.4,0.2,0.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSignature(tt.raw)
			assert.ErrorIs(t, err, ErrMalformedSignature)
		})
	}
}

func TestSignature_Distance(t *testing.T) {
	a := Signature{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
	b := Signature{0.625, 0.5, 0.375, 0.5, 0.5, 0.5, 0.5, 0.5}

	assert.Equal(t, 0.25, a.Distance(b))
	assert.Equal(t, a.Distance(b), b.Distance(a))
	assert.Equal(t, 0.0, a.Distance(a))
}

func TestDistanceUnits(t *testing.T) {
	a, err := ParseSignature("0.3500:0.2000:0.2000:0.2000:0.2000:0.2000:0.2000:0.2000")
	require.NoError(t, err)
	b, err := ParseSignature("0.1000:0.2000:0.2000:0.2000:0.2000:0.2000:0.2000:0.2000")
	require.NoError(t, err)

	assert.NotEqual(t, 0.25, a.Distance(b))
	assert.Equal(t, int64(2500), DistanceUnits(a.Distance(b)))
	assert.Equal(t, int64(2500), DistanceUnits(0.25))
	assert.Equal(t, int64(1), DistanceUnits(0.00011))
	assert.Equal(t, int64(0), DistanceUnits(0))
}

func TestSignature_Slice(t *testing.T) {
	sig := Signature{0.5, 0.25, 0, 1, 2, 3, 4, 5}
	assert.Equal(t, []float32{0.5, 0.25, 0, 1, 2, 3, 4, 5}, sig.Slice())
}

func TestSignature_Canonical(t *testing.T) {
	sig := Signature{0.123456, 1, 2, 3, 4, 5, 6, 7.00004}

	got := sig.Canonical()

	assert.Equal(t, 0.1235, got[0])
	assert.Equal(t, 7.0, got[7])
	assert.Equal(t, sig.String(), got.String())
}
