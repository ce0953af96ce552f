// Package categorizer suggests an expense category from its description.
//
// Scoring is lexical: every keyword found as a case-insensitive substring of
// the description adds its length to its category's score. There is no
// tokenization, so "carpet" matches "car".
package categorizer

import (
	"sort"
	"strings"
	"unicode/utf8"

	"spendlens/internal/core"
)

const (
	// MinConfidence is reported when no keyword matched.
	MinConfidence = 0.1
	// MaxConfidence caps the confidence of any match.
	MaxConfidence = 0.95
	// AutoAssignThreshold is the confidence a suggestion must exceed to be
	// applied without the user choosing a category.
	AutoAssignThreshold = 0.3
	// SuggestionCount is the length of Result.Suggestions.
	SuggestionCount = 3
	// minLiveDescription is the shortest description that gets a live suggestion.
	minLiveDescription = 4

	scoreScale = 10.0
)

// Result is the outcome of categorizing one description.
type Result struct {
	Category    core.Category
	Confidence  float64
	Suggestions []core.Category
}

// Accepts reports whether the result is confident enough to exceed threshold.
func (r Result) Accepts(threshold float64) bool {
	return r.Confidence > threshold
}

// Categorizer scores descriptions against a keyword table.
// It holds no mutable state and is safe for concurrent use.
type Categorizer struct {
	rules []Rule
}

// New returns a categorizer over the built-in table.
func New() *Categorizer {
	return &Categorizer{rules: defaultTable}
}

// NewWithTable returns a categorizer over rules. Rule order is the tie-break order.
func NewWithTable(rules []Rule) *Categorizer {
	cp := make([]Rule, len(rules))
	for i, r := range rules {
		kws := make([]string, len(r.Keywords))
		for j, k := range r.Keywords {
			kws[j] = strings.ToLower(k)
		}
		cp[i] = Rule{Category: r.Category, Keywords: kws}
	}
	return &Categorizer{rules: cp}
}

var std = New()

// Categorize scores description with the built-in table.
func Categorize(description string) Result {
	return std.Categorize(description)
}

type scored struct {
	category core.Category
	score    int
}

// Categorize returns the best category, its confidence and the three highest
// scoring categories. Ties keep table order.
func (c *Categorizer) Categorize(description string) Result {
	desc := strings.ToLower(description)

	scores := make([]scored, len(c.rules))
	for i, r := range c.rules {
		s := 0
		for _, kw := range r.Keywords {
			if kw != "" && strings.Contains(desc, kw) {
				s += len(kw)
			}
		}
		scores[i] = scored{category: r.Category, score: s}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	n := SuggestionCount
	if len(scores) < n {
		n = len(scores)
	}
	suggestions := make([]core.Category, n)
	for i := 0; i < n; i++ {
		suggestions[i] = scores[i].category
	}

	if len(scores) == 0 || scores[0].score == 0 {
		return Result{Category: core.CategoryOther, Confidence: MinConfidence, Suggestions: suggestions}
	}

	return Result{
		Category:    scores[0].category,
		Confidence:  confidence(scores[0].score),
		Suggestions: suggestions,
	}
}

// LiveSuggestion returns a suggestion for a description being typed, or false
// when the description is too short or the match too weak to show.
func (c *Categorizer) LiveSuggestion(description string) (Result, bool) {
	if utf8.RuneCountInString(description) < minLiveDescription {
		return Result{}, false
	}
	r := c.Categorize(description)
	if !r.Accepts(AutoAssignThreshold) {
		return Result{}, false
	}
	return r, true
}

func confidence(score int) float64 {
	if score <= 0 {
		return MinConfidence
	}
	v := float64(score) / scoreScale
	if v > MaxConfidence {
		return MaxConfidence
	}
	return v
}
