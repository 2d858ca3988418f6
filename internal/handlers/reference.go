package handlers

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/aster/internal/repositories/airport"
	"github.com/Ramsey-B/aster/internal/repositories/conference"
	"github.com/Ramsey-B/aster/internal/repositories/ingestionrun"
	"github.com/Ramsey-B/aster/internal/repositories/scorecardschool"
	"github.com/Ramsey-B/aster/pkg/models"
)

// ReferenceHandler serves the reference datasets: conferences, airports,
// scorecard schools and ingestion run status.
type ReferenceHandler struct {
	conferenceRepo *conference.Repository
	airportRepo    *airport.Repository
	schoolRepo     *scorecardschool.Repository
	runRepo        *ingestionrun.Repository
	logger         ectologger.Logger
}

// NewReferenceHandler creates a new reference handler
func NewReferenceHandler(
	conferenceRepo *conference.Repository,
	airportRepo *airport.Repository,
	schoolRepo *scorecardschool.Repository,
	runRepo *ingestionrun.Repository,
	logger ectologger.Logger,
) *ReferenceHandler {
	return &ReferenceHandler{
		conferenceRepo: conferenceRepo,
		airportRepo:    airportRepo,
		schoolRepo:     schoolRepo,
		runRepo:        runRepo,
		logger:         logger,
	}
}

// RegisterRoutes registers reference routes
func (h *ReferenceHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/conferences", h.ListConferences)
	g.GET("/conferences/:id", h.GetConference)
	g.GET("/airports", h.ListAirports)
	g.GET("/scorecard/:unitid", h.GetScorecardSchool)
	g.GET("/runs/latest", h.GetLatestRun)
}

// ListConferences returns all conferences.
func (h *ReferenceHandler) ListConferences(c echo.Context) error {
	ctx := c.Request().Context()

	conferences, err := h.conferenceRepo.List(ctx)
	if err != nil {
		return err
	}
	if conferences == nil {
		conferences = []models.Conference{}
	}
	return SuccessResponse(c, conferences)
}

// GetConference returns one conference by id.
func (h *ReferenceHandler) GetConference(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	conf, err := h.conferenceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, conf)
}

// ListAirports returns airports filtered by state or search text.
func (h *ReferenceHandler) ListAirports(c echo.Context) error {
	ctx := c.Request().Context()

	filter := airport.Filter{
		State:  c.QueryParam("state"),
		Search: c.QueryParam("search"),
		Limit:  QueryInt(c, "limit", 200),
	}

	airportList, err := h.airportRepo.List(ctx, filter)
	if err != nil {
		return err
	}
	if airportList == nil {
		airportList = []models.Airport{}
	}
	return SuccessResponse(c, airportList)
}

// GetScorecardSchool returns one scorecard institution by unitid.
func (h *ReferenceHandler) GetScorecardSchool(c echo.Context) error {
	ctx := c.Request().Context()

	unitID, err := ParseID(c, "unitid")
	if err != nil {
		return err
	}

	school, err := h.schoolRepo.GetByUnitID(ctx, unitID)
	if err != nil {
		return err
	}
	return SuccessResponse(c, school)
}

// GetLatestRun returns the most recent ingestion run.
func (h *ReferenceHandler) GetLatestRun(c echo.Context) error {
	ctx := c.Request().Context()

	run, err := h.runRepo.Latest(ctx)
	if err != nil {
		return err
	}
	if run == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "no ingestion runs recorded")
	}
	return SuccessResponse(c, run)
}
