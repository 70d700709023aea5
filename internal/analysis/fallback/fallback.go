// Package fallback produces canned replies for turns where generation
// yielded nothing usable. Category selection is deterministic in the
// user message; only the wording within a category is randomized.
package fallback

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

var greetingKeywords = []string{"hi", "hey", "hello", "yo", "sup", "whats up", "what's up"}

var greetingReplies = []string{
	"hey! what's up?",
	"yo! how's it going?",
	"hi there! 👋",
	"yooo what's good!",
	"hey! how are ya?",
}

var genericReplies = []string{
	"lol what?",
	"haha wait what did you say?",
	"hmm can you say that again?",
	"sorry what? 😅",
	"wait what?",
}

const statusReply = "not much! just chillin, you?"

// Picker chooses canned replies. The random source is injectable so
// tests can pin the wording.
type Picker struct {
	intn func(n int) int
}

// NewPicker returns a Picker seeded from the wall clock.
func NewPicker() *Picker {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Picker{intn: rng.Intn}
}

// NewPickerWithSource returns a Picker drawing from the supplied
// index function.
func NewPickerWithSource(intn func(n int) int) *Picker {
	return &Picker{intn: intn}
}

// Pick selects a reply for the user message that produced no usable
// generated text.
func (p *Picker) Pick(userMessage, personaName, personaHandle string) string {
	lower := strings.ToLower(userMessage)

	if strings.Contains(lower, "who are you") || strings.Contains(lower, "who r u") {
		name := personaName
		if name == "" {
			name = personaHandle
		}
		return fmt.Sprintf("im %s! check my insta @%s 😊", name, personaHandle)
	}

	for _, keyword := range greetingKeywords {
		if strings.Contains(lower, keyword) {
			return greetingReplies[p.intn(len(greetingReplies))]
		}
	}

	if strings.Contains(lower, "what") && strings.Contains(lower, "up") {
		return statusReply
	}

	return genericReplies[p.intn(len(genericReplies))]
}
