package team

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/aster/internal/platform/database"
	"github.com/Ramsey-B/aster/internal/platform/tracing"
	"github.com/Ramsey-B/aster/pkg/models"
)

var teamColumns = []string{
	"id", "name", "short_name", "conference_id", "city", "state", "zip_code", "county",
	"url", "stats_url", "tier", "latitude", "longitude",
	"airport_code", "airport_name", "airport_drive_time", "airport_notes",
	"aliases_json", "niche_json", "notes",
	"scorecard_unitid", "scorecard_confidence", "scorecard_match_name", "score_explanation",
	"undergrad_enrollment", "acceptance_rate", "graduation_rate", "median_starting_salary", "avg_cost_after_aid",
	"logo_filename", "created_at", "updated_at",
}

// Filter narrows team listings.
type Filter struct {
	ConferenceID *int64
	State        string
	Tier         string
	Search       string
	Limit        int
	Offset       int
}

// Repository handles team persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new team repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// List returns teams matching the filter plus the unpaginated total.
func (r *Repository) List(ctx context.Context, filter Filter) ([]models.Team, int, error) {
	ctx, span := tracing.StartSpan(ctx, "team.Repository.List")
	defer span.End()

	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	where := func(sb *sqlbuilder.SelectBuilder) {
		var conds []string
		if filter.ConferenceID != nil {
			conds = append(conds, sb.Equal("conference_id", *filter.ConferenceID))
		}
		if filter.State != "" {
			conds = append(conds, sb.Equal("state", filter.State))
		}
		if filter.Tier != "" {
			conds = append(conds, sb.Equal("tier", filter.Tier))
		}
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			conds = append(conds, sb.Or(
				sb.ILike("name", pattern),
				sb.ILike("short_name", pattern),
				sb.ILike("city", pattern),
			))
		}
		if len(conds) > 0 {
			sb.Where(conds...)
		}
	}

	countSB := sqlbuilder.PostgreSQL.NewSelectBuilder()
	countSB.Select("COUNT(*)").From("teams")
	where(countSB)
	countQuery, countArgs := countSB.Build()

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count teams")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list teams")
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(teamColumns...).From("teams")
	where(sb)
	sb.OrderBy("name ASC")
	sb.Limit(filter.Limit).Offset(filter.Offset)

	query, args := sb.Build()
	var teams []models.Team
	if err := r.db.SelectContext(ctx, &teams, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list teams")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list teams")
	}
	return teams, total, nil
}

// GetByID retrieves a team by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	ctx, span := tracing.StartSpan(ctx, "team.Repository.GetByID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(teamColumns...).From("teams")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var team models.Team
	if err := r.db.GetContext(ctx, &team, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("team %d not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id}).Error("Failed to get team")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get team")
	}
	return &team, nil
}

// ListWithCoordinates returns teams that have latitude and longitude set.
func (r *Repository) ListWithCoordinates(ctx context.Context) ([]models.Team, error) {
	ctx, span := tracing.StartSpan(ctx, "team.Repository.ListWithCoordinates")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(teamColumns...).From("teams")
	sb.Where(sb.IsNotNull("latitude"), sb.IsNotNull("longitude"))
	sb.OrderBy("id ASC")

	query, args := sb.Build()
	var teams []models.Team
	if err := r.db.SelectContext(ctx, &teams, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list teams with coordinates")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list teams")
	}
	return teams, nil
}

// ListAll returns every team ordered by id.
func (r *Repository) ListAll(ctx context.Context) ([]models.Team, error) {
	ctx, span := tracing.StartSpan(ctx, "team.Repository.ListAll")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(teamColumns...).From("teams")
	sb.OrderBy("id ASC")

	query, args := sb.Build()
	var teams []models.Team
	if err := r.db.SelectContext(ctx, &teams, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list all teams")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list teams")
	}
	return teams, nil
}

// Upsert inserts a team or updates the seed columns on name conflict.
// Enrichment columns are left alone so re-running ingestion does not clobber
// matched data.
func (r *Repository) Upsert(ctx context.Context, team *models.Team) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "team.Repository.Upsert")
	defer span.End()

	query := `
		INSERT INTO teams (name, short_name, conference_id, city, state, url, stats_url, tier, aliases_json, niche_json, notes, scorecard_unitid, logo_filename, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE SET
			short_name = EXCLUDED.short_name,
			conference_id = EXCLUDED.conference_id,
			url = EXCLUDED.url,
			stats_url = EXCLUDED.stats_url,
			tier = EXCLUDED.tier,
			aliases_json = EXCLUDED.aliases_json,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING id
	`

	var id int64
	err := r.db.GetContext(ctx, &id, query,
		team.Name, team.ShortName, team.ConferenceID, team.City, team.State,
		team.URL, team.StatsURL, team.Tier, team.AliasesJSON, team.NicheJSON,
		team.Notes, team.ScorecardUnitID, team.LogoFilename)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"name": team.Name}).Error("Failed to upsert team")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert team")
	}
	return id, nil
}

// EnrichmentUpdate carries the columns written back after scorecard matching.
type EnrichmentUpdate struct {
	ScorecardUnitID      *int64
	ScorecardConfidence  string
	ScorecardMatchName   *string
	ScoreExplanation     *string
	NicheJSON            *string
	City                 *string
	State                *string
	ZipCode              *string
	County               *string
	Latitude             *float64
	Longitude            *float64
	UndergradEnrollment  *int
	AcceptanceRate       *float64
	GraduationRate       *float64
	MedianStartingSalary *float64
	AvgCostAfterAid      *float64
}

// UpdateEnrichment writes scorecard-derived columns for a team. Nil pointer
// fields keep their current values.
func (r *Repository) UpdateEnrichment(ctx context.Context, teamID int64, update EnrichmentUpdate) error {
	ctx, span := tracing.StartSpan(ctx, "team.Repository.UpdateEnrichment")
	defer span.End()

	query := `
		UPDATE teams SET
			scorecard_unitid = COALESCE($2, scorecard_unitid),
			scorecard_confidence = $3,
			scorecard_match_name = COALESCE($4, scorecard_match_name),
			score_explanation = COALESCE($5, score_explanation),
			niche_json = COALESCE($6, niche_json),
			city = COALESCE($7, city),
			state = COALESCE($8, state),
			zip_code = COALESCE($9, zip_code),
			county = COALESCE($10, county),
			latitude = COALESCE($11, latitude),
			longitude = COALESCE($12, longitude),
			undergrad_enrollment = COALESCE($13, undergrad_enrollment),
			acceptance_rate = COALESCE($14, acceptance_rate),
			graduation_rate = COALESCE($15, graduation_rate),
			median_starting_salary = COALESCE($16, median_starting_salary),
			avg_cost_after_aid = COALESCE($17, avg_cost_after_aid),
			updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, teamID,
		update.ScorecardUnitID, update.ScorecardConfidence, update.ScorecardMatchName,
		update.ScoreExplanation, update.NicheJSON,
		update.City, update.State, update.ZipCode, update.County,
		update.Latitude, update.Longitude, update.UndergradEnrollment,
		update.AcceptanceRate, update.GraduationRate, update.MedianStartingSalary, update.AvgCostAfterAid)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"team_id": teamID}).Error("Failed to update team enrichment")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update team enrichment")
	}
	return nil
}

// UpdateAirport writes the nearest-airport columns for a team.
func (r *Repository) UpdateAirport(ctx context.Context, teamID int64, code, name, driveTime, notes string) error {
	ctx, span := tracing.StartSpan(ctx, "team.Repository.UpdateAirport")
	defer span.End()

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("teams")
	ub.Set(
		ub.Assign("airport_code", code),
		ub.Assign("airport_name", name),
		ub.Assign("airport_drive_time", driveTime),
		ub.Assign("airport_notes", notes),
		"updated_at = NOW()",
	)
	ub.Where(ub.Equal("id", teamID))

	query, args := ub.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"team_id": teamID}).Error("Failed to update team airport")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update team airport")
	}
	return nil
}
