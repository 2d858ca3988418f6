package coach

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/aster/internal/platform/database"
	"github.com/Ramsey-B/aster/internal/platform/tracing"
	"github.com/Ramsey-B/aster/pkg/models"
)

var coachColumns = []string{"id", "team_id", "name", "title", "email"}

// Repository handles coach persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new coach repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// ListByTeam returns the coaching staff for a team.
func (r *Repository) ListByTeam(ctx context.Context, teamID int64) ([]models.Coach, error) {
	ctx, span := tracing.StartSpan(ctx, "coach.Repository.ListByTeam")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(coachColumns...).From("coaches")
	sb.Where(sb.Equal("team_id", teamID))
	sb.OrderBy("id ASC")

	query, args := sb.Build()
	var coaches []models.Coach
	if err := r.db.SelectContext(ctx, &coaches, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"team_id": teamID}).Error("Failed to list coaches")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list coaches")
	}
	return coaches, nil
}

// ReplaceForTeam swaps out a team's staff list inside one transaction.
func (r *Repository) ReplaceForTeam(ctx context.Context, teamID int64, coaches []models.Coach) error {
	ctx, span := tracing.StartSpan(ctx, "coach.Repository.ReplaceForTeam")
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to begin coach transaction")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace coaches")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM coaches WHERE team_id = $1", teamID); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"team_id": teamID}).Error("Failed to clear coaches")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace coaches")
	}

	for _, c := range coaches {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO coaches (team_id, name, title, email) VALUES ($1, $2, $3, $4)",
			teamID, c.Name, c.Title, c.Email); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"team_id": teamID, "name": c.Name}).Error("Failed to insert coach")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace coaches")
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to commit coach transaction")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace coaches")
	}
	return nil
}
