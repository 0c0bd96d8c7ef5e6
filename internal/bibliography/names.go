package bibliography

import (
	"regexp"
	"strings"
	"unicode"
)

// Name is one parsed author or editor.
type Name struct {
	Given  string
	Family string
	Suffix string
}

var (
	suffixes = []string{"Jr.", "Jr", "Sr.", "Sr", "III", "II", "IV"}

	particles = []string{"van", "von", "de", "del", "della", "di", "da", "le", "la", "du", "des", "den", "der", "ter", "ten"}

	nameSeparator = regexp.MustCompile(`(?i)\s+and\s+`)
)

// ParseNames splits a BibTeX author or editor list on "and".
func ParseNames(field string) []Name {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}
	var names []Name
	for _, part := range nameSeparator.Split(field, -1) {
		if n, ok := ParseName(part); ok {
			names = append(names, n)
		}
	}
	return names
}

// ParseName handles "Family, Given", "Family, Suffix, Given" and "Given von Family".
func ParseName(raw string) (Name, bool) {
	raw = strings.Join(strings.Fields(raw), " ")
	if raw == "" || strings.EqualFold(raw, "others") {
		return Name{}, false
	}

	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		n := Name{Family: parts[0]}
		switch len(parts) {
		case 2:
			n.Given = parts[1]
		default:
			n.Suffix = parts[1]
			n.Given = strings.Join(parts[2:], " ")
		}
		return n, n.Family != ""
	}

	var n Name
	rest := raw
	for _, suffix := range suffixes {
		if strings.HasSuffix(rest, " "+suffix) {
			n.Suffix = suffix
			rest = strings.TrimSuffix(rest, " "+suffix)
			break
		}
	}

	words := strings.Fields(rest)
	if len(words) == 1 {
		n.Family = words[0]
		return n, true
	}

	familyStart := len(words) - 1
	for familyStart > 1 && isParticle(words[familyStart-1]) {
		familyStart--
	}
	n.Given = strings.Join(words[:familyStart], " ")
	n.Family = strings.Join(words[familyStart:], " ")
	return n, true
}

func isParticle(word string) bool {
	for _, p := range particles {
		if word == p {
			return true
		}
	}
	return false
}

// Initials condenses given names to capital initials, e.g. "Josiah S." to "JS".
// Hyphenated given names keep the hyphen: "Jean-Paul" becomes "J-P".
func (n Name) Initials() string {
	var b strings.Builder
	for _, word := range strings.Fields(n.Given) {
		for i, piece := range strings.Split(word, "-") {
			r := firstLetter(piece)
			if r == 0 {
				continue
			}
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

func firstLetter(s string) rune {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return r
		}
	}
	return 0
}

// Short renders "Family Initials", the form used in reference lists.
func (n Name) Short() string {
	out := n.Family
	if initials := n.Initials(); initials != "" {
		out += " " + initials
	}
	if n.Suffix != "" {
		out += " " + n.Suffix
	}
	return out
}

// MatchesShort reports whether n is the person written in short form, such as
// "Carberry J". Family names compare without case; the short initials must
// prefix n's initials, so "Carberry J" also matches "Carberry JS".
func (n Name) MatchesShort(short string) bool {
	fields := strings.Fields(short)
	if len(fields) == 0 {
		return false
	}
	family, initials := short, ""
	if len(fields) > 1 {
		family = strings.Join(fields[:len(fields)-1], " ")
		initials = fields[len(fields)-1]
	}
	if !strings.EqualFold(n.Family, family) {
		return false
	}
	return strings.HasPrefix(strings.ToUpper(n.Initials()), strings.ToUpper(initials))
}
