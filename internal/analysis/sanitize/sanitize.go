// Package sanitize strips AI self-disclosure phrasing out of generated
// replies so the persona never breaks character.
package sanitize

import (
	"regexp"
	"strings"
)

// toSentenceEnd extends a disclosure match over the rest of its
// sentence; "As an AI, I cannot help you with that." must go away as a
// whole, not leave the excuse behind.
const toSentenceEnd = `[^.!?]*[.!?]*`

// rule removes one category of disclosure phrasing. The replacement is
// almost always empty; a capture-group replacement covers the one case
// where only the leading word must go.
type rule struct {
	pattern *regexp.Regexp
	replace string
}

var disclosureRules = []rule{
	{pattern: regexp.MustCompile(`(?i)as an ai` + toSentenceEnd)},
	{pattern: regexp.MustCompile(`(?i)i'?m an ai` + toSentenceEnd)},
	{pattern: regexp.MustCompile(`(?i)i am an ai` + toSentenceEnd)},
	{pattern: regexp.MustCompile(`(?i)\bai assistant\b`)},
	{pattern: regexp.MustCompile(`(?i)\bai\b\s+(language model|here to|cannot|model|chatbot)`), replace: "$1"},
	{pattern: regexp.MustCompile(`(?i)i'?m a friendly ai` + toSentenceEnd)},
	{pattern: regexp.MustCompile(`(?i)i don'?t have feelings` + toSentenceEnd)},
	{pattern: regexp.MustCompile(`(?i)i don'?t have personal experiences` + toSentenceEnd)},
	{pattern: regexp.MustCompile(`(?i)i cannot actually` + toSentenceEnd)},
	{pattern: regexp.MustCompile(`(?i)i'?m not actually` + toSentenceEnd)},
	{pattern: regexp.MustCompile(`(?i)i'?m just a language model` + toSentenceEnd)},
	{pattern: regexp.MustCompile(`(?i)i'?m just an ai` + toSentenceEnd)},
	{pattern: regexp.MustCompile(`(?i)as a language model` + toSentenceEnd)},
	{pattern: regexp.MustCompile(`(?i)^how can i help you[?\s]*`)},
	{pattern: regexp.MustCompile(`(?i)^how can i assist[?\s]*`)},
	{pattern: regexp.MustCompile(`(?i)^how may i help[?\s]*`)},
	{pattern: regexp.MustCompile(`(?i)^how may i assist[?\s]*`)},
	{pattern: regexp.MustCompile(`(?i)i'?m here to help` + toSentenceEnd)},
	{pattern: regexp.MustCompile(`(?i)here to assist you` + toSentenceEnd)},
	{pattern: regexp.MustCompile(`(?i)i'?m here to assist` + toSentenceEnd)},
	{pattern: regexp.MustCompile(`(?i)\bprogrammed to\b`)},
	{pattern: regexp.MustCompile(`(?i)\bdesigned to\b`)},
	{pattern: regexp.MustCompile(`(?i)i don'?t have the ability` + toSentenceEnd)},
	{pattern: regexp.MustCompile(`(?i)i'?m unable to` + toSentenceEnd)},
	{pattern: regexp.MustCompile(`(?i)i can'?t actually` + toSentenceEnd)},
}

var (
	edgePunctuation = regexp.MustCompile(`^[\s,.:;!?]+|[\s,.:;!?]+$`)
	nameSeparator   = regexp.MustCompile(`^[\s:：\-–—]+`)
)

// minUsableLength guards against near-empty stubs once disclosure
// phrasing has been cut out; anything shorter is discarded so the
// fallback generator can take over.
const minUsableLength = 5

// Result carries the cleaned text and whether any rule fired.
type Result struct {
	Text     string
	Modified bool
}

// Clean applies the disclosure rule table in order. If the rules fired
// and left fewer than minUsableLength characters, Text is empty and the
// turn should be treated as having produced no usable output.
func Clean(raw string) Result {
	text := strings.TrimSpace(raw)
	modified := false

	for _, r := range disclosureRules {
		stripped := r.pattern.ReplaceAllString(text, r.replace)
		if stripped != text {
			modified = true
			text = stripped
		}
	}

	if !modified {
		return Result{Text: text}
	}

	if len(strings.TrimSpace(text)) < minUsableLength {
		return Result{Text: "", Modified: true}
	}

	return Result{Text: edgePunctuation.ReplaceAllString(text, ""), Modified: true}
}

// StripNamePrefix removes a leading self-naming prefix ("Natalie: hey!")
// case-insensitively, along with the separator that follows it.
func StripNamePrefix(text, name string) string {
	name = strings.TrimSpace(name)
	if name == "" || len(text) < len(name) {
		return text
	}
	if !strings.EqualFold(text[:len(name)], name) {
		return text
	}
	return strings.TrimSpace(nameSeparator.ReplaceAllString(text[len(name):], ""))
}
