package conversation

import (
	"strings"
	"time"
	"unicode"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	return t.Format("15:04:05")
}

// normalizeMessage lowercases and collapses a user message for routing.
// Returns "" when nothing intelligible remains.
func normalizeMessage(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))

	var builder strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '-' || r == '$' {
			builder.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(builder.String()), " ")
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
