package rendering

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jonathan/academic-cv/internal/config"
	"github.com/jonathan/academic-cv/internal/types"
)

// DefaultFunderAliases are always applied before configured aliases.
var DefaultFunderAliases = []config.FunderAlias{
	{Match: "National Science Foundation", Acronym: "NSF"},
	{Match: "National Institutes of Health", Acronym: "NIH"},
}

// FunderNames canonicalizes funder names through an ordered substring table.
type FunderNames struct {
	aliases []config.FunderAlias
}

// NewFunderNames builds the table from the defaults followed by extra.
func NewFunderNames(extra []config.FunderAlias) *FunderNames {
	aliases := append([]config.FunderAlias(nil), DefaultFunderAliases...)
	return &FunderNames{aliases: append(aliases, extra...)}
}

// Canonical returns the acronym of the first alias whose Match occurs in name,
// ignoring case. Unknown names pass through unchanged.
func (f *FunderNames) Canonical(name string) string {
	lower := strings.ToLower(name)
	for _, a := range f.aliases {
		if a.Match != "" && strings.Contains(lower, strings.ToLower(a.Match)) {
			return a.Acronym
		}
	}
	return name
}

type fundingRow struct {
	Year   string
	Title  string
	Funder string
	Amount string
}

type fundingData struct {
	Total string
	Rows  []fundingRow
}

// RenderFunding renders the funding total and a table of awards, newest first.
func RenderFunding(awards []types.FundingAward, funders *FunderNames) (string, error) {
	if funders == nil {
		funders = NewFunderNames(nil)
	}
	sorted := append([]types.FundingAward(nil), awards...)
	types.SortFunding(sorted)

	data := fundingData{Total: FormatTotal(types.TotalFunding(sorted))}
	for _, a := range sorted {
		row := fundingRow{
			Title:  EscapeMarkdown(a.Title),
			Funder: EscapeMarkdown(funders.Canonical(a.Organization)),
			Amount: FormatAmount(a.Amount),
		}
		if a.StartYear > 0 {
			row.Year = strconv.Itoa(a.StartYear)
		}
		data.Rows = append(data.Rows, row)
	}
	return execute(fundingTemplate, data)
}

// FormatTotal renders a summed amount with thousands separators, e.g. 1,750,000.
// A total with cents always shows two decimals, e.g. 1,751,000.50.
func FormatTotal(total float64) string {
	cents := int64(math.Round(total * 100))
	whole := humanize.Comma(cents / 100)
	if cents%100 == 0 {
		return whole
	}
	return fmt.Sprintf("%s.%02d", whole, cents%100)
}

// FormatAmount renders one award amount as "$1,500,000", keeping the decimal
// digits written in the source. Unparsable amounts are shown as written.
func FormatAmount(raw string) string {
	a := types.FundingAward{Amount: raw}
	if _, ok := a.Value(); !ok {
		return EscapeMarkdown(strings.TrimSpace(raw))
	}
	clean := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	whole, frac, _ := strings.Cut(clean, ".")
	if whole == "" {
		whole = "0"
	}
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return EscapeMarkdown(strings.TrimSpace(raw))
	}
	out := "$" + humanize.Comma(n)
	if frac != "" {
		out += "." + frac
	}
	return out
}
