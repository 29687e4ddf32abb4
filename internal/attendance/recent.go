package attendance

import "sync"

// RecentSet holds the signature keys that emitted attendance within the
// current cooldown window.
type RecentSet struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewRecentSet() *RecentSet {
	return &RecentSet{keys: make(map[string]struct{})}
}

// TryAdd inserts key and reports whether it was absent. Check and insert
// happen under one lock acquisition.
func (r *RecentSet) TryAdd(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.keys[key]; ok {
		return false
	}
	r.keys[key] = struct{}{}
	return true
}

func (r *RecentSet) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.keys, key)
}

func (r *RecentSet) Contains(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.keys[key]
	return ok
}

func (r *RecentSet) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}
