package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/academic-cv/internal/types"
)

func TestRenderService_DefaultMarker(t *testing.T) {
	got, err := RenderService([]types.ServiceEntry{
		{Text: "Reviewer, Journal of Improbable Results"},
		{Text: "Chair, Seminar Committee"},
	}, "")
	require.NoError(t, err)

	want := "## Service\n" +
		"\n" +
		"- ▸ Reviewer, Journal of Improbable Results\n" +
		"- ▸ Chair, Seminar Committee\n"
	assert.Equal(t, want, got)
}

func TestRenderService_CustomMarker(t *testing.T) {
	got, err := RenderService([]types.ServiceEntry{{Text: "Editor"}}, "•")
	require.NoError(t, err)
	assert.Contains(t, got, "- • Editor\n")
}
