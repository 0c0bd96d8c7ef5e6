package rendering

import (
	"embed"
	"strings"
	"text/template"
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

// Template names, one per section.
const (
	summaryTemplate      = "summary.md.tmpl"
	educationTemplate    = "education.md.tmpl"
	employmentTemplate   = "employment.md.tmpl"
	fundingTemplate      = "funding.md.tmpl"
	publicationsTemplate = "publications.md.tmpl"
	peopleTemplate       = "people.md.tmpl"
	serviceTemplate      = "service.md.tmpl"
)

// parseTemplate loads one embedded section template
func parseTemplate(name string) (*template.Template, error) {
	content, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return nil, &TemplateError{
			Template: name,
			Message:  "template not found",
			Cause:    err,
		}
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, &TemplateError{
			Template: name,
			Message:  "failed to parse template",
			Cause:    err,
		}
	}

	return tmpl, nil
}

// execute renders data through the named template
func execute(name string, data any) (string, error) {
	tmpl, err := parseTemplate(name)
	if err != nil {
		return "", err
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{
			Template: name,
			Message:  "failed to execute template",
			Cause:    err,
		}
	}

	return result.String(), nil
}
