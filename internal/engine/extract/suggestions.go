// Package extract pulls structured facts out of unstructured turn content:
// quick-reply suggestions from assistant replies, session facts from free
// text, and session facts from capability results. Extraction never fails a
// turn; anything it cannot parse it leaves alone.
package extract

import (
	"regexp"
	"strings"
)

const (
	suggestionsOpen  = "[SUGGESTIONS]"
	suggestionsClose = "[/SUGGESTIONS]"

	maxSuggestions      = 4
	maxSuggestionLength = 80
)

var (
	suggestionsBlockRe = regexp.MustCompile(`(?s)\[SUGGESTIONS\](.*?)\[/SUGGESTIONS\]`)
	blankRunsRe        = regexp.MustCompile(`\n{3,}`)
)

// ExtractSuggestions splits an assistant reply into the display text and the
// quick-reply options. A well-formed suggestion block is removed from the
// text and parsed; a malformed one (open tag with no close) is stripped so
// raw markup never reaches the user. When the reply carries no usable block,
// fallback options are derived from the reply text; a generic pair covers
// replies no rule matches.
func ExtractSuggestions(raw string) (string, []string) {
	clean := raw
	var suggestions []string

	if m := suggestionsBlockRe.FindStringSubmatchIndex(raw); m != nil {
		for _, line := range strings.Split(raw[m[2]:m[3]], "\n") {
			line = strings.TrimSpace(line)
			if line == "" || len(line) > maxSuggestionLength {
				continue
			}
			suggestions = append(suggestions, line)
			if len(suggestions) == maxSuggestions {
				break
			}
		}
		clean = raw[:m[0]] + raw[m[1]:]
	} else if i := strings.Index(raw, suggestionsOpen); i >= 0 {
		clean = raw[:i]
	}

	clean = strings.TrimSpace(blankRunsRe.ReplaceAllString(clean, "\n\n"))
	if len(suggestions) == 0 {
		suggestions = fallbackSuggestions(clean)
	}
	return clean, suggestions
}

type fallbackRule struct {
	keywords []string
	options  []string
}

// Fallback pairs keyed off the question the assistant is asking. At most
// two options, so generated menus stay visibly distinct from authored ones.
var fallbackRules = []fallbackRule{
	{keywords: []string{"where", "which part", "what area"},
		options: []string{"Back or spine", "Knee or joint"}},
	{keywords: []string{"how long", "when did", "how many weeks"},
		options: []string{"A few weeks", "Several months"}},
	{keywords: []string{"tried", "treatment", "therapy"},
		options: []string{"Physical therapy", "Over-the-counter medication"}},
	{keywords: []string{"denial", "denied", "letter"},
		options: []string{"I have the denial letter", "I don't have it handy"}},
}

func fallbackSuggestions(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lower := strings.ToLower(text)
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return append([]string(nil), rule.options...)
			}
		}
	}
	return []string{"Yes", "Not yet"}
}
