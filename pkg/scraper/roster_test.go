package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cardHTML = `
<html><body>
<ul>
  <li class="sidearm-roster-player">
    <span class="sidearm-roster-player-jersey-number">#4</span>
    <div class="sidearm-roster-player-name"><h3>Jordan Smith</h3></div>
    <span class="sidearm-roster-player-position">Outside Hitter</span>
    <span class="sidearm-roster-player-height">6-1</span>
    <span class="sidearm-roster-player-academic-year">Junior</span>
    <span class="sidearm-roster-player-hometown">Austin, Texas</span>
  </li>
  <li class="sidearm-roster-player">
    <div class="sidearm-roster-player-name"><h3>Casey Nguyen</h3></div>
    <span class="sidearm-roster-player-position">Setter 5'10"</span>
    <span class="sidearm-roster-player-height">5'10"</span>
    <span class="sidearm-roster-player-academic-year">Redshirt Freshman</span>
  </li>
  <li class="sidearm-roster-player">
    <div class="sidearm-roster-player-name"><h3>Pat Doe</h3></div>
    <span class="sidearm-roster-player-position">Team IMPACT</span>
  </li>
</ul>
</body></html>`

const tableHTML = `
<html><body>
<table>
  <thead>
    <tr><th>No.</th><th>Name</th><th>Pos.</th><th>Ht.</th><th>Cl.</th><th>Hometown</th></tr>
  </thead>
  <tbody>
    <tr><td>7</td><td>Riley Park</td><td>Middle Blocker</td><td>6-3</td><td>So.</td><td>Denver, Colo.</td></tr>
    <tr><td>12</td><td>Alex Rivera</td><td>Libero</td><td>5-6</td><td>Gr.</td><td></td></tr>
    <tr><td></td><td></td><td></td><td></td><td></td><td></td></tr>
  </tbody>
</table>
</body></html>`

func TestParseRoster_Cards(t *testing.T) {
	entries, err := ParseRoster(strings.NewReader(cardHTML))
	require.NoError(t, err)
	require.Len(t, entries, 2, "honorary entries are filtered")

	first := entries[0]
	assert.Equal(t, "Jordan Smith", first.Name)
	assert.Equal(t, "Outside Hitter", first.Position)
	assert.Equal(t, "Jr", first.ClassYear)
	assert.Equal(t, "4", first.Number)
	assert.Equal(t, "Austin, Texas", first.Hometown)
	require.NotNil(t, first.HeightInches)
	assert.Equal(t, 73, *first.HeightInches)

	second := entries[1]
	assert.Equal(t, "Casey Nguyen", second.Name)
	assert.Equal(t, "Setter", second.Position, "height noise is stripped")
	assert.Equal(t, "R-Fr", second.ClassYear)
	require.NotNil(t, second.HeightInches)
	assert.Equal(t, 70, *second.HeightInches)
}

func TestParseRoster_TableFallback(t *testing.T) {
	entries, err := ParseRoster(strings.NewReader(tableHTML))
	require.NoError(t, err)
	require.Len(t, entries, 2, "empty rows are skipped")

	assert.Equal(t, "Riley Park", entries[0].Name)
	assert.Equal(t, "Middle Blocker", entries[0].Position)
	assert.Equal(t, "So", entries[0].ClassYear)
	assert.Equal(t, "7", entries[0].Number)
	require.NotNil(t, entries[0].HeightInches)
	assert.Equal(t, 75, *entries[0].HeightInches)

	assert.Equal(t, "Gr", entries[1].ClassYear)
}

func TestParseRosterPage_Staff(t *testing.T) {
	html := `
<html><body>
<table>
  <thead><tr><th>Name</th><th>Title</th></tr></thead>
  <tbody>
    <tr><td>Sam Lee</td><td>Head Coach</td></tr>
    <tr><td>Dana Cruz</td><td>Assistant Coach</td></tr>
    <tr><td>Riley Park</td><td>Middle Blocker</td></tr>
  </tbody>
</table>
</body></html>`

	players, coaches, err := ParseRosterPage(strings.NewReader(html))
	require.NoError(t, err)

	require.Len(t, coaches, 2)
	assert.Equal(t, "Sam Lee", coaches[0].Name)
	assert.Equal(t, "Head Coach", coaches[0].Title)
	assert.Equal(t, "Assistant Coach", coaches[1].Title)

	require.Len(t, players, 1)
	assert.Equal(t, "Riley Park", players[0].Name)
}

func TestParseRoster_Empty(t *testing.T) {
	entries, err := ParseRoster(strings.NewReader("<html><body><p>No roster.</p></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetchRoster(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(cardHTML))
	}))
	defer srv.Close()

	s := New(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
	entries, coaches, err := s.FetchRoster(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Empty(t, coaches)
}

func TestFetchRoster_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := New(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
	_, _, err := s.FetchRoster(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestParseHeightInches(t *testing.T) {
	tests := []struct {
		raw      string
		expected *int
	}{
		{"6-2", intPtr(74)},
		{"5-11", intPtr(71)},
		{"6'2", intPtr(74)},
		{"6'2\"", intPtr(74)},
		{"5′11″", intPtr(71)},
		{"", nil},
		{"Jersey Number", nil},
		{"12-40", nil},
		{"6-15", nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseHeightInches(tt.raw)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func intPtr(v int) *int { return &v }

func TestNormalizeClass(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"Freshman", "Fr"},
		{"Fr.", "Fr"},
		{"fr", "Fr"},
		{"Sophomore", "So"},
		{"So.", "So"},
		{"Redshirt Junior", "R-Jr"},
		{"R-Sr", "R-Sr"},
		{"Graduate Student", "Gr"},
		{"Fifth Year", "Fifth"},
		{"Redshirt Senior", "R-Sr"},
		{"", ""},
		{"Austin Juniors VBC", "Jr"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeClass(tt.raw))
		})
	}
}

func TestNextClass(t *testing.T) {
	assert.Equal(t, "So", NextClass("Freshman"))
	assert.Equal(t, "R-Sr", NextClass("R-Jr"))
	assert.Equal(t, "Gr", NextClass("Senior"))
	assert.Equal(t, "", NextClass("unknown"))
}

func TestIsGraduating(t *testing.T) {
	assert.True(t, IsGraduating("Senior"))
	assert.True(t, IsGraduating("Graduate"))
	assert.False(t, IsGraduating("Freshman"))
}
