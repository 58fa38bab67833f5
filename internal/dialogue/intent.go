package dialogue

import "strings"

// Intent is what the user wants from the current file.
type Intent string

const (
	IntentProfile  Intent = "PROFILE"
	IntentValidate Intent = "VALIDATE"
	IntentBoth     Intent = "BOTH"
	IntentHelp     Intent = "HELP"
	IntentUnknown  Intent = "UNKNOWN"
)

var profileWords = []string{"profile", "describe", "summar", "stats", "overview"}
var validateWords = []string{"validate", "validation", "check", "quality", "verify"}
var bothWords = []string{"both", "everything", "all of it", "full"}

// ClassifyIntent maps free text onto a closed intent set with keyword
// rules. Mentions of both task families, or an explicit "both", yield
// BOTH; anything unrecognized is UNKNOWN, never a guess.
func ClassifyIntent(input string) Intent {
	text := strings.ToLower(strings.TrimSpace(input))
	if text == "" {
		return IntentUnknown
	}
	if text == "help" || text == "?" || strings.HasPrefix(text, "help ") {
		return IntentHelp
	}

	for _, w := range bothWords {
		if strings.Contains(text, w) {
			return IntentBoth
		}
	}

	wantsProfile := containsAny(text, profileWords)
	wantsValidate := containsAny(text, validateWords)
	switch {
	case wantsProfile && wantsValidate:
		return IntentBoth
	case wantsProfile:
		return IntentProfile
	case wantsValidate:
		return IntentValidate
	}
	return IntentUnknown
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
