package enrollment

import (
	"sort"
	"sync"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
	"github.com/saturnino-fabrica-de-software/chamada/internal/signature"
)

// Table is the in-memory enrollment table: canonical signature key -> name.
// It is read by the frame worker and written by enrollment requests, so every
// access goes through mu.
type Table struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]string)}
}

// Load merges previously persisted enrollments into the table and returns the
// resulting size.
func (t *Table) Load(enrollments []domain.Enrollment) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range enrollments {
		t.entries[e.SignatureKey] = e.Name
	}
	return len(t.entries)
}

// Insert adds or replaces the name stored under key.
func (t *Table) Insert(key, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[key] = name
}

// Len returns the number of enrolled keys.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Find runs the matcher over the table while holding the read lock, so a
// concurrent Insert can never be observed half way.
func (t *Table) Find(m *signature.Matcher, candidate domain.Signature) (signature.Match, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return m.FindSignature(candidate, t.entries)
}

// Snapshot returns a copy of the table.
func (t *Table) Snapshot() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]string, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}

// Entries lists the table ordered by name, then key.
func (t *Table) Entries() []domain.Enrollment {
	t.mu.RLock()
	out := make([]domain.Enrollment, 0, len(t.entries))
	for k, v := range t.entries {
		out = append(out, domain.Enrollment{SignatureKey: k, Name: v})
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].SignatureKey < out[j].SignatureKey
	})
	return out
}
