package airport

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

var airportColumns = []string{"id", "iata_code", "name", "city", "state", "latitude", "longitude", "size"}

// Filter narrows airport listings.
type Filter struct {
	State  string
	Search string
	Limit  int
}

// Repository handles airport persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new airport repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// List returns airports matching the filter ordered by IATA code.
func (r *Repository) List(ctx context.Context, filter Filter) ([]models.Airport, error) {
	ctx, span := tracing.StartSpan(ctx, "airport.Repository.List")
	defer span.End()

	if filter.Limit <= 0 || filter.Limit > 1000 {
		filter.Limit = 200
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(airportColumns...).From("airports")
	var conds []string
	if filter.State != "" {
		conds = append(conds, sb.Equal("state", filter.State))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conds = append(conds, sb.Or(
			sb.ILike("name", pattern),
			sb.ILike("city", pattern),
			sb.ILike("iata_code", pattern),
		))
	}
	if len(conds) > 0 {
		sb.Where(conds...)
	}
	sb.OrderBy("iata_code ASC")
	sb.Limit(filter.Limit)

	query, args := sb.Build()
	var airports []models.Airport
	if err := r.db.SelectContext(ctx, &airports, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list airports")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list airports")
	}
	return airports, nil
}

// ListAll returns every stored airport.
func (r *Repository) ListAll(ctx context.Context) ([]models.Airport, error) {
	ctx, span := tracing.StartSpan(ctx, "airport.Repository.ListAll")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(airportColumns...).From("airports")
	sb.OrderBy("iata_code ASC")

	query, args := sb.Build()
	var airports []models.Airport
	if err := r.db.SelectContext(ctx, &airports, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list all airports")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list airports")
	}
	return airports, nil
}

// ReplaceAll upserts the full airport reference set inside one transaction.
func (r *Repository) ReplaceAll(ctx context.Context, airports []models.Airport) error {
	ctx, span := tracing.StartSpan(ctx, "airport.Repository.ReplaceAll")
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to begin airport transaction")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace airports")
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO airports (iata_code, name, city, state, latitude, longitude, size)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (iata_code) DO UPDATE SET
			name = EXCLUDED.name,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			size = EXCLUDED.size
	`

	for _, a := range airports {
		if _, err := tx.ExecContext(ctx, query,
			a.IataCode, a.Name, a.City, a.State, a.Latitude, a.Longitude, a.Size); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"iata_code": a.IataCode}).Error("Failed to upsert airport")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace airports")
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to commit airport transaction")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to replace airports")
	}
	return nil
}
