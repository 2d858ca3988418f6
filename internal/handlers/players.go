package handlers

import (
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/internal/repositories/player"
	"github.com/Ramsey-B/aster/pkg/models"
)

// PlayersHandler serves player listings and detail views
type PlayersHandler struct {
	playerRepo *player.Repository
	logger     ectologger.Logger
}

// NewPlayersHandler creates a new players handler
func NewPlayersHandler(playerRepo *player.Repository, logger ectologger.Logger) *PlayersHandler {
	return &PlayersHandler{
		playerRepo: playerRepo,
		logger:     logger,
	}
}

// RegisterRoutes registers player routes
func (h *PlayersHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/players", h.ListPlayers)
	g.GET("/players/:id", h.GetPlayer)
}

// ListPlayers returns players filtered by team, season, position, class year
// or search text. Sorting on stat fields joins the stat lines; include_stats
// attaches them to the response.
func (h *PlayersHandler) ListPlayers(c echo.Context) error {
	ctx := c.Request().Context()

	filter := player.Filter{
		TeamID:       QueryInt64Ptr(c, "team_id"),
		Season:       QueryIntPtr(c, "season"),
		Position:     c.QueryParam("position"),
		ClassYear:    c.QueryParam("class_year"),
		Search:       c.QueryParam("search"),
		IncludeStats: QueryBool(c, "include_stats"),
		SortField:    c.QueryParam("sort_field"),
		SortDir:      c.QueryParam("sort_dir"),
		Limit:        QueryInt(c, "limit", 100),
		Offset:       QueryInt(c, "offset", 0),
	}

	players, total, err := h.playerRepo.List(ctx, filter)
	if err != nil {
		return err
	}
	if players == nil {
		players = []models.Player{}
	}

	return SuccessResponse(c, models.PlayerListResponse{
		Results: players,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	})
}

// GetPlayer returns one player with their stat line.
func (h *PlayersHandler) GetPlayer(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	p, err := h.playerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, p)
}
