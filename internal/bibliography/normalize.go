// Package bibliography cleans ORCID citation strings, parses them as BibTeX and
// renders them as a sorted reference list.
package bibliography

import (
	"regexp"
	"strings"
)

// Substitution replaces every match of a pattern. Exactly one of Literal or
// Regexp is set; Replacement may use $1-style groups when Regexp is set.
type Substitution struct {
	Name        string
	Literal     string
	Regexp      *regexp.Regexp
	Replacement string
}

// Apply runs the substitution on s.
func (sub Substitution) Apply(s string) string {
	if sub.Regexp != nil {
		return sub.Regexp.ReplaceAllString(s, sub.Replacement)
	}
	if sub.Literal == "" {
		return s
	}
	return strings.ReplaceAll(s, sub.Literal, sub.Replacement)
}

// Literal builds a plain-text substitution.
func Literal(name, pattern, replacement string) Substitution {
	return Substitution{Name: name, Literal: pattern, Replacement: replacement}
}

// Pattern builds a regular-expression substitution. It panics on a bad expression,
// like regexp.MustCompile.
func Pattern(name, expr, replacement string) Substitution {
	return Substitution{Name: name, Regexp: regexp.MustCompile(expr), Replacement: replacement}
}

// DefaultSubstitutions is the fixed cleanup table for ORCID citation exports.
// Order matters: braced LaTeX macros go before their bare forms.
func DefaultSubstitutions() []Substitution {
	return []Substitution{
		Literal("braced right quote macro", `{\textquoteright}`, "'"),
		Literal("braced left quote macro", `{\textquoteleft}`, "'"),
		Literal("right quote macro", `\textquoteright`, "'"),
		Literal("left quote macro", `\textquoteleft`, "'"),
		Literal("escaped apostrophe with empty group", `\'{}`, "'"),
		Literal("braced apostrophe", `{'}`, "'"),
		Pattern("escaped apostrophe inside a name", `([A-Za-z])\\'([A-Z])`, "$1'$2"),
		Literal("html apostrophe entity", "&apos;", "'"),
		Literal("html decimal apostrophe", "&#39;", "'"),
		Literal("html hex apostrophe", "&#x27;", "'"),
		Literal("right single quotation mark", "’", "'"),
		Literal("left single quotation mark", "‘", "'"),
		Literal("modifier letter apostrophe", "ʼ", "'"),
		Pattern("doubled initial period", `([A-Z])\.\.+`, "$1."),
	}
}

// maxCleanPasses bounds the fixed-point loop in Clean. Nested braces such as
// {{'}} unwrap one level per pass.
const maxCleanPasses = 8

// Normalizer applies an ordered substitution table.
type Normalizer struct {
	subs []Substitution
}

// NewNormalizer returns a normalizer running the default table followed by extra.
func NewNormalizer(extra ...Substitution) *Normalizer {
	return &Normalizer{subs: append(DefaultSubstitutions(), extra...)}
}

// Substitutions returns a copy of the table, in application order.
func (n *Normalizer) Substitutions() []Substitution {
	return append([]Substitution(nil), n.subs...)
}

// Clean applies the table to s in order, repeating until a pass leaves the
// text unchanged.
func (n *Normalizer) Clean(s string) string {
	for i := 0; i < maxCleanPasses; i++ {
		next := n.pass(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func (n *Normalizer) pass(s string) string {
	for _, sub := range n.subs {
		s = sub.Apply(s)
	}
	return s
}

// Normalize cleans each citation independently and returns a new slice.
func (n *Normalizer) Normalize(citations []string) []string {
	out := make([]string, len(citations))
	for i, c := range citations {
		out[i] = n.Clean(c)
	}
	return out
}
