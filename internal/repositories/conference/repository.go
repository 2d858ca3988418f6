package conference

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

var conferenceColumns = []string{"id", "name", "short_name", "division", "region"}

// Repository handles conference persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new conference repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// List returns all conferences ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Conference, error) {
	ctx, span := tracing.StartSpan(ctx, "conference.Repository.List")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(conferenceColumns...).From("conferences")
	sb.OrderBy("name ASC")

	query, args := sb.Build()
	var conferences []models.Conference
	if err := r.db.SelectContext(ctx, &conferences, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list conferences")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list conferences")
	}
	return conferences, nil
}

// GetByID retrieves a conference by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Conference, error) {
	ctx, span := tracing.StartSpan(ctx, "conference.Repository.GetByID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(conferenceColumns...).From("conferences")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var conference models.Conference
	if err := r.db.GetContext(ctx, &conference, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("conference %d not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id}).Error("Failed to get conference")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get conference")
	}
	return &conference, nil
}

// Upsert inserts a conference or refreshes its metadata on name conflict,
// returning the row id.
func (r *Repository) Upsert(ctx context.Context, conference *models.Conference) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "conference.Repository.Upsert")
	defer span.End()

	query := `
		INSERT INTO conferences (name, short_name, division, region)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
			short_name = EXCLUDED.short_name,
			division = EXCLUDED.division,
			region = EXCLUDED.region
		RETURNING id
	`

	var id int64
	err := r.db.GetContext(ctx, &id, query,
		conference.Name, conference.ShortName, conference.Division, conference.Region)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"name": conference.Name}).Error("Failed to upsert conference")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert conference")
	}
	return id, nil
}
