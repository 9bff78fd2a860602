package match

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"boardctl/internal/board"
)

// Default thresholds. They are configuration on the Matcher rather than
// package state so tests and callers can vary them independently.
const (
	DefaultMinScore       = 0.3
	SuggestionFloor       = 0.1
	DefaultMaxSuggestions = 3
)

// Result is one scored candidate for a query.
type Result struct {
	Item   *board.Item
	Score  float64
	Title  string
	Number int
}

// Matcher ranks board items against free-text queries.
type Matcher struct {
	// MinScore is the floor below which candidates are discarded.
	MinScore float64
}

// NewMatcher returns a Matcher with the default minimum score.
func NewMatcher() *Matcher {
	return &Matcher{MinScore: DefaultMinScore}
}

var numberQueryPattern = regexp.MustCompile(`^#?(\d+)$`)

// ParseNumberQuery extracts an item number from queries like "#12" or
// "12". Returns false for anything else.
func ParseNumberQuery(query string) (int, bool) {
	m := numberQueryPattern.FindStringSubmatch(Normalize(query))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FindByNumber scans items for an exact number match and returns it at
// score 1.0. Numeric references must be exact, so this never falls
// through to fuzzy scoring.
func (m *Matcher) FindByNumber(items []*board.Item, number int) []Result {
	for _, it := range items {
		n, ok := it.Number()
		if !ok || n != number {
			continue
		}
		title, _ := it.Title()
		return []Result{{Item: it, Score: 1.0, Title: title, Number: n}}
	}
	return nil
}

// FindMatches resolves query against items. Numeric queries use exact
// number lookup; everything else is fuzzy-scored against item titles,
// filtered at the matcher's minimum score, and sorted by descending
// score. Ties keep input order. Items without linked content or a
// number are skipped; they cannot be addressed by this mechanism.
func (m *Matcher) FindMatches(items []*board.Item, query string) []Result {
	if n, ok := ParseNumberQuery(query); ok {
		return m.FindByNumber(items, n)
	}
	return m.scoreAll(items, query, m.MinScore)
}

func (m *Matcher) scoreAll(items []*board.Item, query string, minScore float64) []Result {
	var results []Result
	for _, it := range items {
		title, ok := it.Title()
		if !ok {
			continue
		}
		number, ok := it.Number()
		if !ok {
			continue
		}
		s := Score(title, query)
		if s >= minScore {
			results = append(results, Result{Item: it, Score: s, Title: title, Number: number})
		}
	}
	// Stable sort keeps input order on equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Suggestions re-runs matching at a much lower floor purely to offer
// nearest-miss candidates for error messages, formatted "#number:
// title" and capped at max entries.
func (m *Matcher) Suggestions(items []*board.Item, query string, max int) []string {
	if max <= 0 {
		max = DefaultMaxSuggestions
	}
	results := m.scoreAll(items, query, SuggestionFloor)
	if len(results) > max {
		results = results[:max]
	}
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = fmt.Sprintf("#%d: %s", r.Number, r.Title)
	}
	return out
}
