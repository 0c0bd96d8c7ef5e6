package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Stage is the role a person held in the lab.
type Stage string

const (
	// StagePostdoc is a postdoctoral researcher
	StagePostdoc Stage = "Postdoc"
	// StagePhD is a graduate student
	StagePhD Stage = "PhD student"
	// StageUndergrad is an undergraduate researcher
	StageUndergrad Stage = "Undergrad"
	// StageCommittee is a thesis committee membership
	StageCommittee Stage = "Committee"
)

// Stages lists every stage in the order the CV presents them.
var Stages = []Stage{StagePostdoc, StagePhD, StageUndergrad, StageCommittee}

// PersonRecord is one row of the personnel table.
type PersonRecord struct {
	First string `json:"first"`
	Last  string `json:"last" validate:"required"`
	Stage Stage  `json:"stage" validate:"required,stage"`
	Start string `json:"start" validate:"omitempty,numeric,len=4"`
	Stop  string `json:"stop,omitempty" validate:"omitempty,numeric,len=4"`
	URL   string `json:"url,omitempty" validate:"omitempty,url"`
	Note  string `json:"note,omitempty"`
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	for _, known := range Stages {
		if s == known {
			return true
		}
	}
	return false
}

// Validate checks the record using the struct tags.
func (p *PersonRecord) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("stage", func(fl validator.FieldLevel) bool {
		return Stage(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return validate.Struct(p)
}

// FullName joins the first and last names.
func (p PersonRecord) FullName() string {
	return strings.TrimSpace(p.First + " " + p.Last)
}

// Duration renders the years a person was in the lab, e.g. "2019-present".
func (p PersonRecord) Duration() string {
	stop := p.Stop
	if stop == "" {
		stop = "present"
	}
	if p.Start == "" {
		return stop
	}
	return fmt.Sprintf("%s-%s", p.Start, stop)
}

// ServiceEntry is one line of the service table.
type ServiceEntry struct {
	Text string `json:"text"`
}
