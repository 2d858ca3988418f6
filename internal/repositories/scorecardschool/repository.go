package scorecardschool

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

var schoolColumns = []string{
	"unitid", "name", "city", "state", "zip_code", "county", "latitude", "longitude",
	"undergrad_enrollment", "admission_rate", "grad_rate_4yr", "retention_rate",
	"median_earnings", "avg_cost",
}

// Repository handles scorecard school persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new scorecard school repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// GetByUnitID retrieves a school by its federal unit id.
func (r *Repository) GetByUnitID(ctx context.Context, unitID int64) (*models.ScorecardSchool, error) {
	ctx, span := tracing.StartSpan(ctx, "scorecardschool.Repository.GetByUnitID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(schoolColumns...).From("scorecard_schools")
	sb.Where(sb.Equal("unitid", unitID))

	query, args := sb.Build()
	var school models.ScorecardSchool
	if err := r.db.GetContext(ctx, &school, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("scorecard school %d not found", unitID))
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"unitid": unitID}).Error("Failed to get scorecard school")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get scorecard school")
	}
	return &school, nil
}

// ReplaceAll upserts the scorecard reference set inside one transaction.
// Source rows without a unitid are skipped; they cannot be keyed.
func (r *Repository) ReplaceAll(ctx context.Context, schools []models.ScorecardSchool) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "scorecardschool.Repository.ReplaceAll")
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to begin scorecard transaction")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace scorecard schools")
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO scorecard_schools (unitid, name, city, state, zip_code, county, latitude, longitude, undergrad_enrollment, admission_rate, grad_rate_4yr, retention_rate, median_earnings, avg_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (unitid) DO UPDATE SET
			name = EXCLUDED.name,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip_code = EXCLUDED.zip_code,
			county = EXCLUDED.county,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			undergrad_enrollment = EXCLUDED.undergrad_enrollment,
			admission_rate = EXCLUDED.admission_rate,
			grad_rate_4yr = EXCLUDED.grad_rate_4yr,
			retention_rate = EXCLUDED.retention_rate,
			median_earnings = EXCLUDED.median_earnings,
			avg_cost = EXCLUDED.avg_cost
	`

	stored := 0
	for _, s := range schools {
		if s.UnitID == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, query,
			s.UnitID, s.Name, s.City, s.State, s.ZipCode, s.County,
			s.Latitude, s.Longitude, s.UndergradEnrollment,
			s.AdmissionRate, s.GradRate4yr, s.RetentionRate,
			s.MedianEarnings, s.AvgCost); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"unitid": s.UnitID}).Error("Failed to upsert scorecard school")
			return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace scorecard schools")
		}
		stored++
	}

	if err := tx.Commit(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to commit scorecard transaction")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace scorecard schools")
	}
	return stored, nil
}
