package tester

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// SuggestionCutoff is the minimum similarity for a "did you mean" hint.
const SuggestionCutoff = 0.8

// ErrNoMatch is returned when no tester name is close to the requested one.
var ErrNoMatch = errors.New("no matching tester")

// NormalizeName drops spaces, underscores and dashes and lowercases name, so
// "Get Next Line", "get_next_line" and "get-next-line" compare equal.
func NormalizeName(name string) string {
	return strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(name))
}

// Similarity returns a score in [0, 1] derived from the edit distance of a
// and b. Identical strings score 1.
func Similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// Match is the outcome of resolving a requested tester name.
type Match struct {
	// Name is the tester as listed by the server.
	Name string

	// Exact is false when Name is only a suggestion.
	Exact bool
}

// Resolve finds name among available. Normalized equality is an exact
// match. Otherwise the closest name scoring at least SuggestionCutoff is
// returned as a suggestion; ties go to the earlier entry.
func Resolve(name string, available []string) (Match, error) {
	want := NormalizeName(name)

	for _, candidate := range available {
		if NormalizeName(candidate) == want {
			return Match{Name: candidate, Exact: true}, nil
		}
	}

	best, bestScore := "", 0.0
	for _, candidate := range available {
		score := Similarity(want, NormalizeName(candidate))
		if score >= SuggestionCutoff && score > bestScore {
			best, bestScore = candidate, score
		}
	}

	if best == "" {
		return Match{}, ErrNoMatch
	}
	return Match{Name: best}, nil
}
