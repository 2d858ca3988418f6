package airports

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/aster/pkg/models"
)

const sampleCSV = `id,type,name,latitude_deg,longitude_deg,iso_region,municipality,scheduled_service,iata_code
1,large_airport,Austin-Bergstrom International Airport,30.1945,-97.6699,US-TX,Austin,yes,AUS
2,medium_airport,Waco Regional Airport,31.6113,-97.2305,US-TX,Waco,yes,ACT
3,small_airport,Tiny Field,30.0,-97.0,US-TX,Smallville,yes,TNY
4,large_airport,Dyess Air Force Base,32.4208,-99.8546,US-TX,Abilene,yes,DYS
5,medium_airport,Draughon-Miller Central Texas Regional Airport,31.1525,-97.4077,US-TX,Temple,no,TPL
6,medium_airport,No Code Municipal,31.0,-97.0,US-TX,Nowhere,yes,
7,medium_airport,Bad Coords Regional,not-a-number,-97.0,US-TX,Elsewhere,yes,BCR
`

func TestReadCSV_Filters(t *testing.T) {
	airports, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, airports, 2)

	assert.Equal(t, "AUS", airports[0].IataCode)
	assert.Equal(t, "large_airport", airports[0].Size)
	require.NotNil(t, airports[0].City)
	assert.Equal(t, "Austin", *airports[0].City)
	require.NotNil(t, airports[0].State)
	assert.Equal(t, "TX", *airports[0].State)

	assert.Equal(t, "ACT", airports[1].IataCode)
}

func TestReadCSV_MissingColumns(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("id,name\n1,Test\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestHaversineMiles(t *testing.T) {
	t.Run("zero distance", func(t *testing.T) {
		assert.InDelta(t, 0, HaversineMiles(30.0, -97.0, 30.0, -97.0), 1e-9)
	})

	t.Run("known distance", func(t *testing.T) {
		// Austin to Dallas is roughly 182 miles straight line.
		d := HaversineMiles(30.2672, -97.7431, 32.7767, -96.7970)
		assert.InDelta(t, 182, d, 5)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := HaversineMiles(30.2672, -97.7431, 32.7767, -96.7970)
		b := HaversineMiles(32.7767, -96.7970, 30.2672, -97.7431)
		assert.InDelta(t, a, b, 1e-9)
	})
}

func TestNearest(t *testing.T) {
	airports := []models.Airport{
		{IataCode: "AUS", Name: "Austin-Bergstrom", Latitude: 30.1945, Longitude: -97.6699},
		{IataCode: "DFW", Name: "Dallas Fort Worth", Latitude: 32.8998, Longitude: -97.0403},
	}

	// Campus in Austin.
	best, dist := Nearest(30.2849, -97.7341, airports)
	require.NotNil(t, best)
	assert.Equal(t, "AUS", best.IataCode)
	assert.Greater(t, dist, 0.0)
	assert.Less(t, dist, 20.0)
}

func TestNearest_EmptyList(t *testing.T) {
	best, dist := Nearest(30.0, -97.0, nil)
	assert.Nil(t, best)
	assert.Equal(t, 0.0, dist)
}

func TestFormatDriveTime(t *testing.T) {
	tests := []struct {
		name     string
		miles    float64
		expected string
	}{
		{"zero", 0, ""},
		{"negative", -5, ""},
		{"under an hour", 41.25, "~45 min (~41 mi)"},
		{"exactly one hour", 55, "~1 hr (~55 mi)"},
		{"hours and minutes", 82.5, "~1 hr 30 min (~83 mi)"},
		{"multiple hours", 165, "~3 hr (~165 mi)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDriveTime(tt.miles))
		})
	}
}

func TestIsAutoGenerated(t *testing.T) {
	assert.True(t, IsAutoGenerated(""))
	assert.True(t, IsAutoGenerated("   "))
	assert.True(t, IsAutoGenerated("Nearest major airport by straight-line distance (~12 mi)."))
	assert.True(t, IsAutoGenerated("Nearest airport by straight-line distance (~12 mi)."))
	assert.False(t, IsAutoGenerated("Fly into DFW, it has more direct routes."))
}

func TestAutoNotes(t *testing.T) {
	notes := AutoNotes(12.4)
	assert.Contains(t, notes, "(~12 mi)")
	assert.True(t, IsAutoGenerated(notes))
}
