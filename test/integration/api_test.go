package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/aster/internal/handlers"
	"github.com/Ramsey-B/aster/pkg/models"
)

// TestAPIHelpers contains helper functions for API testing
type TestAPIHelpers struct {
	t *testing.T
	e *echo.Echo
}

func NewTestAPIHelpers(t *testing.T) *TestAPIHelpers {
	return &TestAPIHelpers{
		t: t,
		e: echo.New(),
	}
}

func (h *TestAPIHelpers) MakeRequest(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func TestTeamAPI_ResponseContract(t *testing.T) {
	t.Run("TeamListResponse_Shape", func(t *testing.T) {
		shortName := "UT"
		resp := models.TeamListResponse{
			Results: []models.Team{
				{ID: 1, Name: "University of Texas at Austin", ShortName: &shortName},
			},
			Total:  1,
			Limit:  100,
			Offset: 0,
		}

		data, err := json.Marshal(resp)
		require.NoError(t, err)

		var parsed map[string]any
		err = json.Unmarshal(data, &parsed)
		require.NoError(t, err)

		assert.EqualValues(t, 1, parsed["total"])
		teams, ok := parsed["results"].([]any)
		require.True(t, ok)
		require.Len(t, teams, 1)

		team := teams[0].(map[string]any)
		assert.Equal(t, "University of Texas at Austin", team["name"])
		assert.Equal(t, "UT", team["short_name"])
	})

	t.Run("Team_NicheRoundTrip", func(t *testing.T) {
		team := models.Team{ID: 2, Name: "Rice University"}
		team.SetNiche(models.NicheRating{
			OverallGrade:   "A",
			AcademicsGrade: "A+",
			ValueGrade:     "B",
		})

		data, err := json.Marshal(team)
		require.NoError(t, err)

		var decoded models.Team
		err = json.Unmarshal(data, &decoded)
		require.NoError(t, err)

		niche := decoded.Niche()
		assert.Equal(t, "A", niche.OverallGrade)
		assert.Equal(t, "A+", niche.AcademicsGrade)
		assert.Equal(t, "B", niche.ValueGrade)
	})

	t.Run("Team_AliasDecoding", func(t *testing.T) {
		team := models.Team{
			ID:          3,
			Name:        "Texas A&M University",
			AliasesJSON: json.RawMessage(`["Texas A&M","TAMU"]`),
		}
		assert.Equal(t, []string{"Texas A&M", "TAMU"}, team.Aliases())

		team.AliasesJSON = nil
		assert.Empty(t, team.Aliases())
	})
}

func TestPlayerAPI_ResponseContract(t *testing.T) {
	t.Run("Player_StatsOmittedWhenAbsent", func(t *testing.T) {
		player := models.Player{ID: 10, TeamID: 1, Name: "Jane Doe", Season: 2026}

		data, err := json.Marshal(player)
		require.NoError(t, err)

		var parsed map[string]any
		err = json.Unmarshal(data, &parsed)
		require.NoError(t, err)

		_, hasStats := parsed["stats"]
		assert.False(t, hasStats)
	})

	t.Run("Player_StatsIncludedWhenLoaded", func(t *testing.T) {
		kills := 312.0
		player := models.Player{
			ID:     10,
			TeamID: 1,
			Name:   "Jane Doe",
			Season: 2026,
			Stats:  &models.PlayerStats{PlayerID: 10, Season: 2026, Kills: &kills},
		}

		data, err := json.Marshal(player)
		require.NoError(t, err)

		var parsed map[string]any
		err = json.Unmarshal(data, &parsed)
		require.NoError(t, err)

		stats, ok := parsed["stats"].(map[string]any)
		require.True(t, ok)
		assert.EqualValues(t, 312, stats["k"])
	})
}

func TestRouting(t *testing.T) {
	h := NewTestAPIHelpers(t)

	// no repositories wired, so routes respond but fall through to the
	// default handler chain; this pins the path layout
	api := h.e.Group("/api/v1")
	api.GET("/teams", func(c echo.Context) error {
		return handlers.SuccessResponse(c, []models.Team{})
	})

	t.Run("KnownRoute", func(t *testing.T) {
		rec := h.MakeRequest(http.MethodGet, "/api/v1/teams")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("UnknownRoute", func(t *testing.T) {
		rec := h.MakeRequest(http.MethodGet, "/api/v1/unknown")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
