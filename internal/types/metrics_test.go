package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcome_Constructors(t *testing.T) {
	ok := OK(ScholarMetrics{Citations: 10, HIndex: 2})
	assert.True(t, ok.Available())
	assert.Equal(t, StatusOK, ok.Status)
	assert.Equal(t, 10, ok.Value.Citations)

	absent := Absent[ScholarMetrics]("not configured")
	assert.False(t, absent.Available())
	assert.Equal(t, StatusAbsent, absent.Status)
	assert.Equal(t, "not configured", absent.Reason)

	failed := Failed[ScholarMetrics](errors.New("boom"))
	assert.False(t, failed.Available())
	assert.Equal(t, StatusFailed, failed.Status)
	assert.EqualError(t, failed.Err, "boom")
}

func TestImpactProfile_Filter(t *testing.T) {
	p := ImpactProfile{Badges: []Badge{
		{Name: "big_hit"},
		{Name: "global_reach"},
		{Name: "wikitastic"},
	}}

	got := p.Filter([]string{"wikitastic", "big_hit"})
	if assert.Len(t, got, 2) {
		assert.Equal(t, "big_hit", got[0].Name)
		assert.Equal(t, "wikitastic", got[1].Name)
	}

	assert.Empty(t, p.Filter(nil))
	assert.Empty(t, p.Filter([]string{"unknown"}))
}
