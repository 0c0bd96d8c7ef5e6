package bibliography

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Combining marks for the LaTeX accent commands.
var accentMarks = map[string]string{
	"'": "́",
	"`": "̀",
	"^": "̂",
	`"`: "̈",
	"~": "̃",
	"=": "̄",
	".": "̇",
	"c": "̧",
	"v": "̌",
	"u": "̆",
	"H": "̋",
	"r": "̊",
	"k": "̨",
}

var (
	symbolAccent = regexp.MustCompile("\\\\(['`^\"~=.])\\s*\\{?\\s*(\\\\i|[A-Za-z])\\s*\\}?")
	letterAccent = regexp.MustCompile(`\\([cvuHrk])(?:\s*\{\s*(\\i|[A-Za-z])\s*\}|\s+([A-Za-z]))`)
	fontCommand  = regexp.MustCompile(`\\(?:emph|textit|textbf|textsc|textrm|mathrm|it|bf|em|sc|rm)\b\s*`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// letterMacro matches a letter-producing control word only when it ends there,
// so \lambda or \omega never decode as \l or \o followed by text.
var letterMacro = regexp.MustCompile(`\\(ss|ae|AE|aa|AA|oe|o|O|l|L|i)(?:\{\}|\s+|\b)`)

var letterMacros = map[string]string{
	"ss": "ß",
	"ae": "æ",
	"AE": "Æ",
	"aa": "å",
	"AA": "Å",
	"oe": "œ",
	"o":  "ø",
	"O":  "Ø",
	"l":  "ł",
	"L":  "Ł",
	"i":  "ı",
}

var latexSymbols = strings.NewReplacer(
	`\&`, "&",
	`\%`, "%",
	`\$`, "$",
	`\_`, "_",
	`\#`, "#",
	`---`, "—",
	`--`, "–",
)

// DecodeLaTeX turns the LaTeX markup common in BibTeX values into plain Unicode text.
func DecodeLaTeX(s string) string {
	s = symbolAccent.ReplaceAllStringFunc(s, func(m string) string {
		parts := symbolAccent.FindStringSubmatch(m)
		return compose(parts[2], accentMarks[parts[1]])
	})
	s = letterAccent.ReplaceAllStringFunc(s, func(m string) string {
		parts := letterAccent.FindStringSubmatch(m)
		letter := parts[2]
		if letter == "" {
			letter = parts[3]
		}
		return compose(letter, accentMarks[parts[1]])
	})
	s = fontCommand.ReplaceAllString(s, "")
	s = letterMacro.ReplaceAllStringFunc(s, func(m string) string {
		return letterMacros[letterMacro.FindStringSubmatch(m)[1]]
	})
	s = latexSymbols.Replace(s)
	s = strings.NewReplacer("{", "", "}", "", "~", " ").Replace(s)
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func compose(letter, mark string) string {
	if letter == `\i` {
		letter = "i"
	}
	return norm.NFC.String(letter + mark)
}
