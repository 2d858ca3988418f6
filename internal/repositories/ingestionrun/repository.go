package ingestionrun

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/aster/internal/platform/database"
	"github.com/Ramsey-B/aster/internal/platform/tracing"
	"github.com/Ramsey-B/aster/pkg/models"
)

var runColumns = []string{
	"id", "status", "season", "teams_processed", "teams_matched", "players_loaded",
	"error", "started_at", "completed_at",
}

// Repository handles ingestion run persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new ingestion run repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Create records the start of a run and returns it.
func (r *Repository) Create(ctx context.Context, season int) (*models.IngestionRun, error) {
	ctx, span := tracing.StartSpan(ctx, "ingestionrun.Repository.Create")
	defer span.End()

	run := &models.IngestionRun{
		ID:        uuid.New().String(),
		Status:    models.RunStatusRunning,
		Season:    season,
		StartedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO ingestion_runs (id, status, season, teams_processed, teams_matched, players_loaded, started_at)
		VALUES ($1, $2, $3, 0, 0, 0, $4)
	`
	if _, err := r.db.ExecContext(ctx, query, run.ID, run.Status, run.Season, run.StartedAt); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create ingestion run")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create ingestion run")
	}
	return run, nil
}

// Complete marks a run finished with its final counters.
func (r *Repository) Complete(ctx context.Context, run *models.IngestionRun) error {
	return r.finish(ctx, run, models.RunStatusCompleted, nil)
}

// Fail marks a run failed and records the error text.
func (r *Repository) Fail(ctx context.Context, run *models.IngestionRun, runErr error) error {
	msg := runErr.Error()
	return r.finish(ctx, run, models.RunStatusFailed, &msg)
}

func (r *Repository) finish(ctx context.Context, run *models.IngestionRun, status string, errMsg *string) error {
	ctx, span := tracing.StartSpan(ctx, "ingestionrun.Repository.finish")
	defer span.End()

	now := time.Now().UTC()
	query := `
		UPDATE ingestion_runs SET
			status = $2,
			teams_processed = $3,
			teams_matched = $4,
			players_loaded = $5,
			error = $6,
			completed_at = $7
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, run.ID, status,
		run.TeamsProcessed, run.TeamsMatched, run.PlayersLoaded, errMsg, now); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"run_id": run.ID}).Error("Failed to finish ingestion run")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update ingestion run")
	}

	run.Status = status
	run.Error = errMsg
	run.CompletedAt = &now
	return nil
}

// Latest returns the most recently started run, or nil when none exist.
func (r *Repository) Latest(ctx context.Context) (*models.IngestionRun, error) {
	ctx, span := tracing.StartSpan(ctx, "ingestionrun.Repository.Latest")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(runColumns...).From("ingestion_runs")
	sb.OrderBy("started_at DESC")
	sb.Limit(1)

	query, args := sb.Build()
	var run models.IngestionRun
	if err := r.db.GetContext(ctx, &run, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get latest ingestion run")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get latest ingestion run")
	}
	return &run, nil
}
