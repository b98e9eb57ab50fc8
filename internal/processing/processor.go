package processing

import (
	"html"
	"regexp"
	"strings"
)

var (
	urlRegex    = regexp.MustCompile(`https?://[^\s]+`)
	tagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespace  = regexp.MustCompile(`\s+`)
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
)

// NormalizeTitle canonicalizes a headline for equality comparison across
// runs and sources: lowercase, punctuation replaced by spaces, whitespace
// squeezed, ends trimmed. Total over any input and idempotent.
func NormalizeTitle(title string) string {
	lowered := strings.ToLower(title)
	lowered = punctuation.ReplaceAllString(lowered, " ")
	lowered = whitespace.ReplaceAllString(lowered, " ")
	return strings.TrimSpace(lowered)
}

// CleanText strips HTML tags and entities, removes URLs, and squeezes
// whitespace. Feed descriptions frequently embed markup.
func CleanText(input string) string {
	if input == "" {
		return ""
	}
	decoded := html.UnescapeString(input)
	decoded = tagRegex.ReplaceAllString(decoded, " ")
	decoded = urlRegex.ReplaceAllString(decoded, " ")
	decoded = whitespace.ReplaceAllString(decoded, " ")
	return strings.TrimSpace(decoded)
}

// MatchKeywords returns the subset of keywords present in the title as
// case-insensitive substrings. Order follows the keyword list, not the
// position in the title, and a keyword matches at most once.
func MatchKeywords(title string, keywords []string) []string {
	lowered := strings.ToLower(title)
	seen := make(map[string]struct{}, len(keywords))
	var matched []string
	for _, kw := range keywords {
		k := strings.ToLower(strings.TrimSpace(kw))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		if strings.Contains(lowered, k) {
			seen[k] = struct{}{}
			matched = append(matched, kw)
		}
	}
	return matched
}

// TruncatePost limits post text to max runes, appending an ellipsis
// marker when the text had to be cut.
func TruncatePost(text string, max int) string {
	runes := []rune(text)
	if max <= 0 || len(runes) <= max {
		return text
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
