package rendering

import "strings"

// EscapeMarkdown escapes characters that Markdown (and pipe tables) would
// otherwise interpret: \ ` * _ [ ] < > |
func EscapeMarkdown(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) + len(text)/4)

	for _, r := range text {
		switch r {
		case '\\', '`', '*', '_', '[', ']', '<', '>', '|':
			result.WriteByte('\\')
			result.WriteRune(r)
		case '\n', '\r':
			result.WriteByte(' ')
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// escapeURL makes a URL safe inside a Markdown link target.
func escapeURL(url string) string {
	return strings.NewReplacer(" ", "%20", "(", "%28", ")", "%29", "<", "%3C", ">", "%3E").Replace(strings.TrimSpace(url))
}

// link renders [text](url), or the escaped text alone when url is empty.
func link(text, url string) string {
	text = EscapeMarkdown(text)
	if strings.TrimSpace(url) == "" {
		return text
	}
	return "[" + text + "](" + escapeURL(url) + ")"
}
