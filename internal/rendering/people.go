package rendering

import (
	"sort"
	"strings"

	"github.com/jonathan/academic-cv/internal/types"
)

// stageLayout describes how one stage is presented.
type stageLayout struct {
	Title  string
	Column string
}

var stageLayouts = map[types.Stage]stageLayout{
	types.StagePostdoc:   {Title: "Postdoctoral researchers", Column: "Current position"},
	types.StagePhD:       {Title: "PhD students", Column: "Thesis"},
	types.StageUndergrad: {Title: "Undergraduate researchers", Column: "Notes"},
	types.StageCommittee: {Title: "Thesis committees", Column: "Department"},
}

type personRow struct {
	Name  string
	Years string
	Extra string
}

type peopleSection struct {
	Title  string
	Column string
	Rows   []personRow
}

type peopleData struct {
	Sections []peopleSection
}

// GroupByStage buckets people by stage, each bucket sorted by last name.
// Equal last names keep their table order.
func GroupByStage(people []types.PersonRecord) map[types.Stage][]types.PersonRecord {
	groups := make(map[types.Stage][]types.PersonRecord, len(types.Stages))
	for _, p := range people {
		groups[p.Stage] = append(groups[p.Stage], p)
	}
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return strings.ToLower(group[i].Last) < strings.ToLower(group[j].Last)
		})
	}
	return groups
}

// RenderPeople renders one table per stage in the fixed stage order.
// Stages with nobody in them are left out.
func RenderPeople(people []types.PersonRecord) (string, error) {
	groups := GroupByStage(people)

	var data peopleData
	for _, stage := range types.Stages {
		group := groups[stage]
		if len(group) == 0 {
			continue
		}
		layout := stageLayouts[stage]
		section := peopleSection{Title: layout.Title, Column: layout.Column}
		for _, p := range group {
			section.Rows = append(section.Rows, personRow{
				Name:  link(p.FullName(), p.URL),
				Years: p.Duration(),
				Extra: EscapeMarkdown(p.Note),
			})
		}
		data.Sections = append(data.Sections, section)
	}
	return execute(peopleTemplate, data)
}
