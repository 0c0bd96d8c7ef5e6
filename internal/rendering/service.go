package rendering

import (
	"github.com/jonathan/academic-cv/internal/types"
)

// DefaultServiceMarker prefixes each service line when none is configured.
const DefaultServiceMarker = "▸"

type serviceData struct {
	Marker string
	Items  []string
}

// RenderService renders each service entry as "- {marker} {text}".
func RenderService(entries []types.ServiceEntry, marker string) (string, error) {
	if marker == "" {
		marker = DefaultServiceMarker
	}
	data := serviceData{Marker: marker, Items: make([]string, 0, len(entries))}
	for _, e := range entries {
		data.Items = append(data.Items, EscapeMarkdown(e.Text))
	}
	return execute(serviceTemplate, data)
}
