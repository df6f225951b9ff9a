package domain

import (
	"regexp"
	"strings"
)

// MaxWordLen caps word and translation input, matching the column widths.
const MaxWordLen = 100

// wordPattern accepts latin letters, spaces, hyphens, and apostrophes.
var wordPattern = regexp.MustCompile(`^[a-zA-Z' -]+$`)

// ValidateWord checks that a word typed by the user can become a card.
// Returns a ValidationError wrapping ErrValidation on failure.
func ValidateWord(word string) error {
	trimmed := strings.TrimSpace(word)
	if trimmed == "" {
		return NewValidationError("word", "must not be empty")
	}
	if len(trimmed) > MaxWordLen {
		return NewValidationError("word", "too long")
	}
	if !wordPattern.MatchString(trimmed) {
		return NewValidationError("word", "only letters, spaces, hyphens and apostrophes are allowed")
	}
	return nil
}

// NormalizeText prepares text for comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses multiple spaces into one
//
// Hyphens and apostrophes are preserved.
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)

	// Compress multiple spaces into one.
	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// AnswersEqual compares a submitted quiz answer with the expected one,
// ignoring case and surrounding/repeated whitespace.
func AnswersEqual(submitted, expected string) bool {
	return NormalizeText(submitted) == NormalizeText(expected)
}

// SplitTranslations splits a comma-joined translation list into its
// trimmed alternatives.
func SplitTranslations(joined string) []string {
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// JoinTranslations appends a new alternative to a comma-joined
// translation list.
func JoinTranslations(joined, extra string) string {
	if joined == "" {
		return extra
	}
	return joined + ", " + extra
}
