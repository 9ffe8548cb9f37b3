package analyzer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DetectKeywords returns the keywords that occur in text, compared case
// insensitively as substrings. The result keeps the order of keywords and is
// never nil. Blank keywords never match.
func DetectKeywords(text string, keywords []string) []string {
	found := make([]string, 0, len(keywords))
	if len(keywords) == 0 {
		return found
	}

	// Casers are stateful, so each call gets its own.
	lower := cases.Lower(language.Und)
	haystack := lower.String(text)

	for _, kw := range keywords {
		needle := lower.String(strings.TrimSpace(kw))
		if needle == "" {
			continue
		}
		if strings.Contains(haystack, needle) {
			found = append(found, kw)
		}
	}
	return found
}
