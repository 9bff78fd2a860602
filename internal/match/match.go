// Package match resolves free-text queries against board item titles.
//
// Scoring is tiered: exact and prefix matches rank above substring
// containment, which ranks above partial word overlap, which ranks
// above plain edit-distance similarity. The tiers are constructed so
// their output ranges never overlap, keeping rankings stable and
// explainable.
package match

import (
	"strings"
)

// Normalize lowercases s, trims it, and collapses internal whitespace
// runs to single spaces. Every comparison runs on normalized input so
// matching is case- and whitespace-insensitive.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// EditDistance computes the Levenshtein distance between a and b:
// single-character insertions, deletions, and substitutions, via
// dynamic programming.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(rb); j++ {
		curr := make([]int, len(ra)+1)
		curr[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[i] = min3(curr[i-1]+1, prev[i]+1, prev[i-1]+cost)
		}
		prev = curr
	}
	return prev[len(ra)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// Similarity returns 1 − distance/max(len) over normalized inputs, in
// [0,1]. Equal strings short-circuit to 1; if either side is empty the
// result is 0.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		if na == "" {
			return 0
		}
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}
	la, lb := len([]rune(na)), len([]rune(nb))
	longest := la
	if lb > longest {
		longest = lb
	}
	return 1 - float64(EditDistance(na, nb))/float64(longest)
}

// wordMatchesPartial reports whether a query word and a title word
// should count as matching. Beyond equality, it accepts prefix and
// containment relationships when the shorter word has at least three
// characters, and a shared three-character prefix for longer words.
// This captures common abbreviations ("docs" for "documentation",
// "auth" for "authentication") without a dictionary.
func wordMatchesPartial(queryWord, textWord string) bool {
	if queryWord == textWord {
		return true
	}
	shorter, longer := queryWord, textWord
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) < 3 {
		return false
	}
	if strings.HasPrefix(longer, shorter) {
		return true
	}
	if strings.Contains(longer, shorter) {
		return true
	}
	// Shared 3-char stem: "document" vs "docs" both start with "doc".
	if len(queryWord) >= 3 && len(textWord) >= 3 && queryWord[:3] == textWord[:3] {
		return true
	}
	return false
}

// WordOverlapScore returns the fraction of query words that partially
// match some word of text, after normalization. A query with no words
// scores 0.
func WordOverlapScore(text, query string) float64 {
	queryWords := strings.Fields(Normalize(query))
	if len(queryWords) == 0 {
		return 0
	}
	textWords := strings.Fields(Normalize(text))

	matched := 0
	for _, qw := range queryWords {
		for _, tw := range textWords {
			if wordMatchesPartial(qw, tw) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(queryWords))
}

// Score rates how well query refers to title, in [0,1]. Tiers are
// evaluated in order and the first that applies wins:
//
//	1.0        exact normalized equality
//	0.95       title starts with query
//	0.70–0.90  query is a substring of title, scaled by length ratio
//	0.65       every query word partially matches some title word
//	0.40–0.60  word overlap above one half
//	0.25–0.50  edit-distance similarity above one half
//	0.00–0.30  similarity tail
//
// Prefix and substring hits are far more likely to be deliberate
// abbreviations than coincidental edit-distance closeness, so they
// outrank the typo-tolerant tail.
func Score(title, query string) float64 {
	t, q := Normalize(title), Normalize(query)

	if t == q {
		return 1.0
	}
	if q != "" && strings.HasPrefix(t, q) {
		return 0.95
	}
	if q != "" && strings.Contains(t, q) {
		return 0.7 + 0.2*float64(len(q))/float64(len(t))
	}

	queryWords := strings.Fields(q)
	if len(queryWords) > 0 && allWordsMatch(queryWords, strings.Fields(t)) {
		return 0.65
	}

	if overlap := WordOverlapScore(t, q); overlap > 0.5 {
		return 0.4 + 0.2*overlap
	}

	sim := Similarity(t, q)
	if sim > 0.5 {
		return 0.5 * sim
	}
	return 0.3 * sim
}

func allWordsMatch(queryWords, textWords []string) bool {
	for _, qw := range queryWords {
		found := false
		for _, tw := range textWords {
			if wordMatchesPartial(qw, tw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
