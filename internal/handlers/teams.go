package handlers

import (
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/internal/repositories/coach"
	"github.com/Ramsey-B/aster/internal/repositories/team"
	"github.com/Ramsey-B/aster/pkg/models"
)

// TeamsHandler serves team listings and detail views
type TeamsHandler struct {
	teamRepo  *team.Repository
	coachRepo *coach.Repository
	logger    ectologger.Logger
}

// NewTeamsHandler creates a new teams handler
func NewTeamsHandler(teamRepo *team.Repository, coachRepo *coach.Repository, logger ectologger.Logger) *TeamsHandler {
	return &TeamsHandler{
		teamRepo:  teamRepo,
		coachRepo: coachRepo,
		logger:    logger,
	}
}

// RegisterRoutes registers team routes
func (h *TeamsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/teams", h.ListTeams)
	g.GET("/teams/:id", h.GetTeam)
	g.GET("/teams/:id/coaches", h.ListTeamCoaches)
}

// ListTeams returns teams filtered by conference, state, tier or search text.
func (h *TeamsHandler) ListTeams(c echo.Context) error {
	ctx := c.Request().Context()

	filter := team.Filter{
		ConferenceID: QueryInt64Ptr(c, "conference_id"),
		State:        c.QueryParam("state"),
		Tier:         c.QueryParam("tier"),
		Search:       c.QueryParam("search"),
		Limit:        QueryInt(c, "limit", 100),
		Offset:       QueryInt(c, "offset", 0),
	}

	teams, total, err := h.teamRepo.List(ctx, filter)
	if err != nil {
		return err
	}
	if teams == nil {
		teams = []models.Team{}
	}

	return SuccessResponse(c, models.TeamListResponse{
		Results: teams,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	})
}

// GetTeam returns one team by id.
func (h *TeamsHandler) GetTeam(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	t, err := h.teamRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, t)
}

// ListTeamCoaches returns a team's coaching staff.
func (h *TeamsHandler) ListTeamCoaches(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.teamRepo.GetByID(ctx, id); err != nil {
		return err
	}

	coaches, err := h.coachRepo.ListByTeam(ctx, id)
	if err != nil {
		return err
	}
	if coaches == nil {
		coaches = []models.Coach{}
	}
	return SuccessResponse(c, coaches)
}
