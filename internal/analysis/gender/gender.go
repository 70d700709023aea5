// Package gender guesses a gender bucket from free-form profile text.
//
// The heuristic is deliberately crude: indicator words are matched as
// substrings (not whole words) and ties fall back to a small name-suffix
// list. The exact ordering is fixed so voice assignment stays
// reproducible; do not swap in a smarter classifier.
package gender

import "strings"

// Guess outcomes.
const (
	Unknown = ""
	Male    = "male"
	Female  = "female"
)

var femaleIndicators = []string{
	"she", "her", "hers", "woman", "girl", "actress", "mom", "mother",
	"wife", "sister", "daughter", "female",
}

var maleIndicators = []string{
	"he", "him", "his", "man", "guy", "boy", "actor", "dad", "father",
	"husband", "brother", "son", "male",
}

var femaleNameSuffixes = []string{"a", "ie", "ine", "elle", "ette"}

// FromField normalizes an explicit gender field. "female" wins over
// "male" because the former contains the latter as a substring.
func FromField(field string) string {
	normalized := strings.ToLower(strings.TrimSpace(field))
	if normalized == "" {
		return Unknown
	}
	if strings.Contains(normalized, "male") && !strings.Contains(normalized, "female") {
		return Male
	}
	if strings.Contains(normalized, "female") {
		return Female
	}
	return Unknown
}

// FromBio scores indicator words in the bio and breaks an exact tie with
// the name-suffix heuristic. A zero-zero tie with no suffix match is
// Unknown, not Female, so the caller owns the final default.
func FromBio(bio, name string) string {
	bioLower := strings.ToLower(bio)

	femaleScore := scoreIndicators(bioLower, femaleIndicators)
	maleScore := scoreIndicators(bioLower, maleIndicators)

	if femaleScore > maleScore {
		return Female
	}
	if femaleScore == maleScore && hasFemaleNameSuffix(name) {
		return Female
	}
	if maleScore > femaleScore {
		return Male
	}
	return Unknown
}

func scoreIndicators(text string, indicators []string) int {
	score := 0
	for _, word := range indicators {
		if strings.Contains(text, word) {
			score++
		}
	}
	return score
}

func hasFemaleNameSuffix(name string) bool {
	nameLower := strings.ToLower(strings.TrimSpace(name))
	if nameLower == "" {
		return false
	}
	for _, suffix := range femaleNameSuffixes {
		if strings.HasSuffix(nameLower, suffix) {
			return true
		}
	}
	return false
}
