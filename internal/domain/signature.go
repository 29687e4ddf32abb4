package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// SignatureLength is the number of ratios in a signature.
	SignatureLength = 8

	// SignatureDelimiter separates the ratios in the canonical string form.
	SignatureDelimiter = ":"

	signaturePrecision = 4
)

// ErrMalformedSignature is returned when a string does not decode to exactly
// SignatureLength finite values.
var ErrMalformedSignature = errors.New("malformed signature")

// Signature is a face fingerprint: landmark distances divided by the
// inter-eye distance, in a fixed order.
type Signature [SignatureLength]float64

// String renders the canonical form used as table and store key:
// eight values with 4 fractional digits joined by ":".
func (s Signature) String() string {
	var b strings.Builder
	for i, v := range s {
		if i > 0 {
			b.WriteString(SignatureDelimiter)
		}
		b.WriteString(strconv.FormatFloat(v, 'f', signaturePrecision, 64))
	}
	return b.String()
}

// Canonical rounds every ratio to the precision of the string form, so the
// value compares exactly like its stored key.
func (s Signature) Canonical() Signature {
	out, err := ParseSignature(s.String())
	if err != nil {
		return s
	}
	return out
}

// Distance returns the L1 (Manhattan) distance between two signatures.
func (s Signature) Distance(other Signature) float64 {
	var dist float64
	for i := range s {
		dist += math.Abs(s[i] - other[i])
	}
	return dist
}

// DistanceUnits expresses an L1 distance in units of the last canonical digit
// (1e-4). Canonical keys are exact at that resolution, so comparing units
// keeps float error away from the threshold boundary.
func DistanceUnits(d float64) int64 {
	return int64(math.Round(d * math.Pow10(signaturePrecision)))
}

// Slice returns the ratios as a float32 slice, the layout pgvector expects.
func (s Signature) Slice() []float32 {
	out := make([]float32, SignatureLength)
	for i, v := range s {
		out[i] = float32(v)
	}
	return out
}

// ParseSignature decodes the canonical string form.
func ParseSignature(raw string) (Signature, error) {
	var sig Signature

	parts := strings.Split(raw, SignatureDelimiter)
	if len(parts) != SignatureLength {
		return sig, fmt.Errorf("%w: expected %d values, got %d", ErrMalformedSignature, SignatureLength, len(parts))
	}

	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return sig, fmt.Errorf("%w: value %d: %v", ErrMalformedSignature, i, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return sig, fmt.Errorf("%w: value %d is not finite", ErrMalformedSignature, i)
		}
		sig[i] = v
	}

	return sig, nil
}
