package signature

import (
	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

// DefaultThreshold is the L1 distance below which two signatures are
// considered the same identity.
const DefaultThreshold = 0.25

// Match is an enrolled entry close enough to a candidate.
type Match struct {
	Key      string
	Name     string
	Distance float64
}

// Matcher finds enrolled signatures within a fixed distance budget.
type Matcher struct {
	threshold float64
	limit     int64
}

// NewMatcher creates a Matcher; a non-positive threshold falls back to
// DefaultThreshold.
func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{threshold: threshold, limit: domain.DistanceUnits(threshold)}
}

// Threshold returns the distance budget (exclusive).
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Same reports whether two signatures belong to the same identity.
func (m *Matcher) Same(a, b domain.Signature) bool {
	return domain.DistanceUnits(a.Distance(b)) < m.limit
}

// FindMatch scans table (canonical key -> name) for the entry closest to
// candidate with a distance strictly below the threshold. Ties resolve to the
// lexicographically smallest key. Malformed candidates never match; malformed
// table keys are skipped.
func (m *Matcher) FindMatch(candidate string, table map[string]string) (Match, bool) {
	sig, err := domain.ParseSignature(candidate)
	if err != nil {
		return Match{}, false
	}
	return m.FindSignature(sig, table)
}

// FindSignature is FindMatch for an already decoded candidate.
func (m *Matcher) FindSignature(candidate domain.Signature, table map[string]string) (Match, bool) {
	var best Match
	var bestUnits int64
	found := false

	for key, name := range table {
		entry, err := domain.ParseSignature(key)
		if err != nil {
			continue
		}

		dist := candidate.Distance(entry)
		units := domain.DistanceUnits(dist)
		if units >= m.limit {
			continue
		}

		if !found || units < bestUnits || (units == bestUnits && key < best.Key) {
			best = Match{Key: key, Name: name, Distance: dist}
			bestUnits = units
			found = true
		}
	}

	return best, found
}
