package llm

import (
	"strings"

	"github.com/pkg/errors"
)

// cleanResponse normalizes model output into bare LaTeX.
func cleanResponse(text string) (cleaned string, err error) {
	cleaned = stripCodeFences(text)
	cleaned = removeEmojis(cleaned)
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		err = errors.New("no content in model response")
		return cleaned, err
	}

	return cleaned, err
}

// stripCodeFences removes a surrounding ``` fence with or without a language tag
// (```latex, ```tex).
func stripCodeFences(text string) (cleaned string) {
	cleaned = strings.TrimSpace(text)

	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	// Drop the opening fence line
	_, rest, found := strings.Cut(cleaned, "\n")
	if !found {
		cleaned = ""
		return cleaned
	}

	rest = strings.TrimRight(rest, " \r\n\t")
	rest = strings.TrimSuffix(rest, "```")

	cleaned = strings.TrimRight(rest, " \r\n\t")
	return cleaned
}

// removeEmojis drops emoji runes (LaTeX can't typeset them).
func removeEmojis(text string) (result string) {
	var builder strings.Builder
	builder.Grow(len(text))

	for _, r := range text {
		if r >= 0x1F300 && r <= 0x1F9FF { // Miscellaneous Symbols and Pictographs, Emoticons, etc.
			continue
		}
		if r >= 0x2600 && r <= 0x26FF { // Miscellaneous Symbols
			continue
		}
		if r >= 0x2700 && r <= 0x27BF { // Dingbats
			continue
		}
		builder.WriteRune(r)
	}

	result = builder.String()
	return result
}
