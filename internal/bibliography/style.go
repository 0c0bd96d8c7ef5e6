package bibliography

import (
	"strconv"
	"strings"
)

// NeverShown lists fields that no style renders, whatever the configuration says.
var NeverShown = []string{"url", "doi", "eprint", "issn", "isbn", "abstract"}

// Style formats entries as reference-list lines.
type Style struct {
	// Highlight is the short name rendered in bold wherever it appears.
	Highlight string
	// Hidden suppresses fields by their lowercase BibTeX name.
	Hidden map[string]bool
	// Escape is applied to free text before markup is added. Nil means identity.
	Escape func(string) string
}

// NewStyle builds a style from a highlight name and a hidden-field list.
func NewStyle(highlight string, hidden []string, escape func(string) string) *Style {
	h := make(map[string]bool, len(hidden))
	for _, f := range hidden {
		h[strings.ToLower(strings.TrimSpace(f))] = true
	}
	return &Style{Highlight: highlight, Hidden: h, Escape: escape}
}

// Visible reports whether a field may appear in output.
func (s *Style) Visible(field string) bool {
	for _, f := range NeverShown {
		if f == field {
			return false
		}
	}
	return !s.Hidden[field]
}

func (s *Style) escape(text string) string {
	if s.Escape == nil {
		return text
	}
	return s.Escape(text)
}

// Format renders one entry:
//
//	Authors (Year). Title. *Venue*, Volume(Number), Pages.
//
// Books italicise the title and end with the publisher; chapters name the
// editors and the containing book.
func (s *Style) Format(e Entry) string {
	var parts []string

	if people := s.names(e.Authors); people != "" && s.Visible("author") {
		parts = append(parts, people+" "+s.date(e)+".")
	} else {
		parts = append(parts, s.date(e)+".")
	}

	title := s.escape(e.Title)
	switch {
	case title == "" || !s.Visible("title"):
	case e.IsBook():
		parts = append(parts, "*"+title+"*"+terminal(title))
	default:
		parts = append(parts, title+terminal(title))
	}

	switch e.Type {
	case "book":
		if e.Publisher != "" && s.Visible("publisher") {
			parts = append(parts, s.escape(e.Publisher)+".")
		}
	case "incollection", "inbook", "inproceedings", "chapter":
		if piece := s.container(e); piece != "" {
			parts = append(parts, piece)
		}
		if e.Publisher != "" && s.Visible("publisher") {
			parts = append(parts, s.escape(e.Publisher)+".")
		}
	default:
		if piece := s.journal(e); piece != "" {
			parts = append(parts, piece)
		}
	}

	if note := e.Fields["note"]; note != "" && s.Visible("note") {
		parts = append(parts, s.escape(note)+terminal(note))
	}
	return strings.Join(parts, " ")
}

func (s *Style) date(e Entry) string {
	year := "n.d."
	if e.Year > 0 && s.Visible("year") {
		year = strconv.Itoa(e.Year)
	}
	if month := e.Fields["month"]; month != "" && e.Year > 0 && s.Visible("month") {
		year += ", " + month
	}
	return "(" + year + ")"
}

func (s *Style) names(people []Name) string {
	out := make([]string, 0, len(people))
	for _, p := range people {
		short := s.escape(p.Short())
		if s.Highlight != "" && p.MatchesShort(s.Highlight) {
			short = "**" + short + "**"
		}
		out = append(out, short)
	}
	return strings.Join(out, ", ")
}

func (s *Style) journal(e Entry) string {
	if e.Venue == "" || !s.Visible("journal") {
		return ""
	}
	out := "*" + s.escape(e.Venue) + "*"
	if e.Volume != "" && s.Visible("volume") {
		out += ", " + e.Volume
	}
	if e.Number != "" && s.Visible("number") {
		if e.Volume != "" && s.Visible("volume") {
			out += "(" + e.Number + ")"
		} else {
			out += ", (" + e.Number + ")"
		}
	}
	if e.Pages != "" && s.Visible("pages") {
		out += ", " + e.Pages
	}
	return out + "."
}

func (s *Style) container(e Entry) string {
	if e.Venue == "" || !s.Visible("booktitle") {
		return ""
	}
	out := "In "
	if editors := s.names(e.Editors); editors != "" && s.Visible("editor") {
		label := "(Ed.)"
		if len(e.Editors) > 1 {
			label = "(Eds.)"
		}
		out += editors + " " + label + ", "
	}
	out += "*" + s.escape(e.Venue) + "*"
	if e.Pages != "" && s.Visible("pages") {
		out += ", pp. " + e.Pages
	}
	return out + "."
}

// terminal returns the period that ends a sentence unless text already ends
// with punctuation.
func terminal(text string) string {
	if strings.HasSuffix(text, ".") || strings.HasSuffix(text, "?") || strings.HasSuffix(text, "!") {
		return ""
	}
	return "."
}
