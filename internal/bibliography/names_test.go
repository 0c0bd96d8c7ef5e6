package bibliography

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		raw  string
		want Name
	}{
		{"Carberry, Josiah S.", Name{Given: "Josiah S.", Family: "Carberry"}},
		{"Josiah S. Carberry", Name{Given: "Josiah S.", Family: "Carberry"}},
		{"Ludwig van Beethoven", Name{Given: "Ludwig", Family: "van Beethoven"}},
		{"King, Jr., Martin Luther", Name{Given: "Martin Luther", Family: "King", Suffix: "Jr."}},
		{"Martin Luther King Jr.", Name{Given: "Martin Luther", Family: "King", Suffix: "Jr."}},
		{"Plato", Name{Family: "Plato"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseName(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseName_Rejects(t *testing.T) {
	_, ok := ParseName("  ")
	assert.False(t, ok)
	_, ok = ParseName("others")
	assert.False(t, ok)
}

func TestParseNames(t *testing.T) {
	names := ParseNames("Carberry, Josiah and Alice B. Smith AND others")
	require.Len(t, names, 2)
	assert.Equal(t, "Carberry", names[0].Family)
	assert.Equal(t, "Smith", names[1].Family)

	assert.Nil(t, ParseNames(""))
}

func TestName_Initials(t *testing.T) {
	assert.Equal(t, "JS", Name{Given: "Josiah S."}.Initials())
	assert.Equal(t, "J-P", Name{Given: "Jean-Paul"}.Initials())
	assert.Equal(t, "É", Name{Given: "émile"}.Initials())
	assert.Equal(t, "", Name{}.Initials())
}

func TestName_Short(t *testing.T) {
	assert.Equal(t, "Carberry JS", Name{Given: "Josiah S.", Family: "Carberry"}.Short())
	assert.Equal(t, "Plato", Name{Family: "Plato"}.Short())
	assert.Equal(t, "King ML Jr.", Name{Given: "Martin Luther", Family: "King", Suffix: "Jr."}.Short())
}

func TestName_MatchesShort(t *testing.T) {
	josiah := Name{Given: "Josiah S.", Family: "Carberry"}

	assert.True(t, josiah.MatchesShort("Carberry J"))
	assert.True(t, josiah.MatchesShort("carberry js"))
	assert.True(t, josiah.MatchesShort("Carberry"))
	assert.False(t, josiah.MatchesShort("Carberry A"))
	assert.False(t, josiah.MatchesShort("Smith J"))
	assert.False(t, josiah.MatchesShort(""))
}
