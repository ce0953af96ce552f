package categorizer

import (
	"strings"
	"time"
	"unicode/utf8"

	"spendlens/internal/cache"
)

// Memo caches results for repeated descriptions, e.g. a suggestion
// recomputed on every keystroke. Results equal Categorize's.
type Memo struct {
	inner *Categorizer
	lru   *cache.LRU[string, Result]
}

// NewMemo wraps c with an LRU of the given size and ttl (0 = no expiry).
func NewMemo(c *Categorizer, size int, ttl time.Duration) *Memo {
	if c == nil {
		c = New()
	}
	return &Memo{inner: c, lru: cache.NewLRU[string, Result](size, ttl)}
}

// Categorize returns the cached result for description, computing it on miss.
func (m *Memo) Categorize(description string) Result {
	// Scoring only sees the lower-cased text.
	key := strings.ToLower(description)
	if r, ok := m.lru.Get(key); ok {
		return clone(r)
	}
	r := m.inner.Categorize(key)
	m.lru.Set(key, r)
	return clone(r)
}

// LiveSuggestion is Categorizer.LiveSuggestion backed by the cache.
func (m *Memo) LiveSuggestion(description string) (Result, bool) {
	if utf8.RuneCountInString(description) < minLiveDescription {
		return Result{}, false
	}
	r := m.Categorize(description)
	if !r.Accepts(AutoAssignThreshold) {
		return Result{}, false
	}
	return r, true
}

// Stats exposes the cache counters.
func (m *Memo) Stats() cache.Stats {
	return m.lru.Stats()
}

// CleanExpired drops expired entries.
func (m *Memo) CleanExpired() int {
	return m.lru.CleanExpired()
}

func clone(r Result) Result {
	r.Suggestions = append(r.Suggestions[:0:0], r.Suggestions...)
	return r
}
