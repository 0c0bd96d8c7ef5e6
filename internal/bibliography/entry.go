package bibliography

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/nickng/bibtex"
)

// Entry is one parsed reference.
type Entry struct {
	Key       string
	Type      string
	Authors   []Name
	Editors   []Name
	Title     string
	Venue     string
	Volume    string
	Number    string
	Pages     string
	Publisher string
	Year      int
	Fields    map[string]string
}

// ParseError reports a citation that is not valid BibTeX.
type ParseError struct {
	Index   int
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("citation %d: %s: %v", e.Index, e.Message, e.Cause)
	}
	return fmt.Sprintf("citation %d: %s", e.Index, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// ParseEntry reads a single BibTeX citation.
func ParseEntry(citation string) (Entry, error) {
	text := strings.TrimSpace(citation)
	if !strings.HasPrefix(text, "@") {
		return Entry{}, &ParseError{Message: "not a BibTeX entry"}
	}
	parsed, err := bibtex.Parse(strings.NewReader(text))
	if err != nil {
		return Entry{}, &ParseError{Message: "invalid BibTeX", Cause: err}
	}
	if parsed == nil || len(parsed.Entries) == 0 {
		return Entry{}, &ParseError{Message: "no entries found"}
	}
	return fromBibEntry(parsed.Entries[0]), nil
}

// Parse reads each citation. Citations that are not BibTeX are skipped and
// reported through the returned errors, indexed by position.
func Parse(citations []string) ([]Entry, []error) {
	entries := make([]Entry, 0, len(citations))
	var errs []error
	for i, c := range citations {
		e, err := ParseEntry(c)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Index = i
			}
			errs = append(errs, err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, errs
}

func fromBibEntry(be *bibtex.BibEntry) Entry {
	fields := make(map[string]string, len(be.Fields))
	for k, v := range be.Fields {
		if v == nil {
			continue
		}
		fields[strings.ToLower(k)] = DecodeLaTeX(v.String())
	}

	e := Entry{
		Key:       be.CiteName,
		Type:      strings.ToLower(be.Type),
		Authors:   ParseNames(fields["author"]),
		Editors:   ParseNames(fields["editor"]),
		Title:     fields["title"],
		Volume:    fields["volume"],
		Number:    fields["number"],
		Pages:     fields["pages"],
		Publisher: fields["publisher"],
		Fields:    fields,
	}
	if e.Number == "" {
		e.Number = fields["issue"]
	}
	switch {
	case fields["journal"] != "":
		e.Venue = fields["journal"]
	case fields["journaltitle"] != "":
		e.Venue = fields["journaltitle"]
	case fields["booktitle"] != "":
		e.Venue = fields["booktitle"]
	}
	if y := yearPattern.FindString(fields["year"]); y != "" {
		e.Year, _ = strconv.Atoi(y)
	} else if y := yearPattern.FindString(fields["date"]); y != "" {
		e.Year, _ = strconv.Atoi(y)
	}
	return e
}

// IsBook reports whether the entry is a whole book rather than a part of one.
func (e Entry) IsBook() bool {
	return e.Type == "book"
}

// FirstAuthorFamily returns the first author's family name, or "".
func (e Entry) FirstAuthorFamily() string {
	if len(e.Authors) == 0 {
		return ""
	}
	return e.Authors[0].Family
}

// TitleKey is the duplicate-detection key: the title lowercased with everything
// but letters and digits removed.
func (e Entry) TitleKey() string {
	var b strings.Builder
	for _, r := range strings.ToLower(e.Title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Dedupe drops later entries whose title key repeats an earlier one.
func Dedupe(entries []Entry) []Entry {
	seen := make(map[string]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		key := e.TitleKey()
		if key != "" && seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}

// Sort orders entries newest first, then by first-author family name in
// descending order. Equal keys keep their input order.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Year != entries[j].Year {
			return entries[i].Year > entries[j].Year
		}
		return strings.ToLower(entries[i].FirstAuthorFamily()) > strings.ToLower(entries[j].FirstAuthorFamily())
	})
}

// Prepare runs the full cleanup over raw citation strings: normalize, parse,
// drop duplicates and sort. Parse failures are returned alongside the entries.
func Prepare(n *Normalizer, citations []string) ([]Entry, []error) {
	if n == nil {
		n = NewNormalizer()
	}
	entries, errs := Parse(n.Normalize(citations))
	entries = Dedupe(entries)
	Sort(entries)
	return entries, errs
}
