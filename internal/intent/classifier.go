// Package intent performs keyword-based routing of user messages into the
// greeting / booking / general paths. The rules are declarative tables so
// the policy stays data, not branching code.
package intent

import "strings"

// Intent is the detected conversational intent of one user message.
type Intent string

const (
	Greeting Intent = "greeting"
	Booking  Intent = "booking"
	General  Intent = "general"
)

// greetingWords only classify a message as a greeting when the whole message
// is at most two tokens, so "hi, do you have 2-horse trucks" is not eaten by
// the greeting shortcut.
var greetingWords = []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening"}

// bookingWords signal an appointment request.
var bookingWords = []string{
	"book", "appointment", "schedule", "meeting", "visit", "see trucks",
	"showroom", "come see", "meet", "consultation", "demo", "test drive",
}

// timeWords signal a scheduling time reference. Any one of these is enough;
// the classifier is deliberately permissive and downstream extraction sorts
// out false positives.
var timeWords = []string{
	"tomorrow", "today",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"am", "pm",
}

// timePhrases are multi-word time references matched as substrings.
var timePhrases = []string{"next week"}

// emailIndicators signal that the message carries contact details.
var emailIndicators = []string{"@", ".com", ".net", ".org", ".co.uk", ".be", ".nl", ".de"}

const maxGreetingTokens = 2

// Classify routes a message to an intent. It is pure and total: any input,
// including empty or garbage text, resolves to an intent without error.
func Classify(text string) Intent {
	lower := strings.ToLower(text)
	tokens := strings.Fields(lower)

	if len(tokens) > 0 && len(tokens) <= maxGreetingTokens && containsAny(lower, greetingWords) {
		return Greeting
	}

	if containsAny(lower, bookingWords) || containsAny(lower, timePhrases) ||
		hasTimeWord(tokens) || containsAny(lower, emailIndicators) {
		return Booking
	}

	return General
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// hasTimeWord matches time keywords against whole tokens: "am" must not fire
// inside "amazing".
func hasTimeWord(tokens []string) bool {
	for _, tok := range tokens {
		tok = strings.Trim(tok, ".,!?;:'\"")
		for _, kw := range timeWords {
			if tok == kw {
				return true
			}
		}
		// "2pm" / "10am" style suffixes
		if len(tok) > 2 && (strings.HasSuffix(tok, "am") || strings.HasSuffix(tok, "pm")) {
			if isDigits(tok[:len(tok)-2]) {
				return true
			}
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
