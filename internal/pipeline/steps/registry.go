// Package steps declares which inputs each CV section depends on, so a run can
// load only what the requested sections need and skip sections whose inputs failed.
package steps

import (
	"fmt"
	"sort"

	"github.com/jonathan/academic-cv/internal/config"
)

// Input is a data source consumed by section renderers.
type Input string

const (
	// InputProfile is the ORCID record
	InputProfile Input = "profile"
	// InputScholar is the Google Scholar metrics lookup
	InputScholar Input = "scholar"
	// InputImpactStory is the ImpactStory badge lookup
	InputImpactStory Input = "impactstory"
	// InputPeople is the personnel table
	InputPeople Input = "people"
	// InputService is the service table
	InputService Input = "service"
)

// SectionDefinition defines the inputs of one section
type SectionDefinition struct {
	Name         string
	Dependencies []Input
	Optional     []Input
}

// SectionRegistry holds all section definitions
var SectionRegistry = map[string]SectionDefinition{
	config.SectionSummary: {
		Name:         config.SectionSummary,
		Dependencies: []Input{InputProfile, InputPeople},
		Optional:     []Input{InputScholar},
	},
	config.SectionEducation: {
		Name:         config.SectionEducation,
		Dependencies: []Input{InputProfile},
	},
	config.SectionEmployment: {
		Name:         config.SectionEmployment,
		Dependencies: []Input{InputProfile},
	},
	config.SectionFunding: {
		Name:         config.SectionFunding,
		Dependencies: []Input{InputProfile},
	},
	config.SectionPublications: {
		Name:         config.SectionPublications,
		Dependencies: []Input{InputProfile},
		Optional:     []Input{InputScholar, InputImpactStory},
	},
	config.SectionPeople: {
		Name:         config.SectionPeople,
		Dependencies: []Input{InputPeople},
	},
	config.SectionService: {
		Name:         config.SectionService,
		Dependencies: []Input{InputService},
	},
}

// DependencyError represents a section whose required inputs are unavailable
type DependencyError struct {
	Section             string
	MissingDependencies []Input
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("section %s: missing dependencies: %v", e.Section, e.MissingDependencies)
}

// ValidateDependencies checks that every required input of a section is available
func ValidateDependencies(section string, available map[Input]bool) error {
	def, ok := SectionRegistry[section]
	if !ok {
		return fmt.Errorf("unknown section: %s", section)
	}

	var missing []Input
	for _, dep := range def.Dependencies {
		if !available[dep] {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Section:             section,
			MissingDependencies: missing,
		}
	}

	return nil
}

// RequiredInputs returns the union of required and optional inputs of the
// given sections, sorted by name. Unknown sections are ignored.
func RequiredInputs(sections []string) []Input {
	seen := make(map[Input]bool)
	for _, name := range sections {
		def, ok := SectionRegistry[name]
		if !ok {
			continue
		}
		for _, in := range def.Dependencies {
			seen[in] = true
		}
		for _, in := range def.Optional {
			seen[in] = true
		}
	}

	inputs := make([]Input, 0, len(seen))
	for in := range seen {
		inputs = append(inputs, in)
	}
	sort.Slice(inputs, func(i, j int) bool { return inputs[i] < inputs[j] })
	return inputs
}

// Needs reports whether any of the sections uses input.
func Needs(sections []string, input Input) bool {
	for _, in := range RequiredInputs(sections) {
		if in == input {
			return true
		}
	}
	return false
}
