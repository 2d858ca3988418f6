package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/aster/internal/platform/database"
	"github.com/Ramsey-B/aster/internal/platform/tracing"
	"github.com/Ramsey-B/aster/pkg/models"
)

var playerColumns = []string{"id", "team_id", "name", "position", "class_year", "height_inches", "season"}

var statColumns = []string{
	"player_id", "season", "ms", "mp", "sp", "pts", "pts_per_set", "k", "k_per_set",
	"ae", "ta", "hit_pct", "assists", "assists_per_set", "sa", "sa_per_set", "se",
	"digs", "digs_per_set", "re", "tre", "rec_pct", "bs", "ba", "tb", "blocks_per_set", "bhe",
}

// sortableStats are the stat columns exposed for API sorting. Sorting on a
// stat implies a stats join; rows without stats sort last.
var sortableStats = map[string]bool{
	"sp": true, "pts": true, "pts_per_set": true, "k": true, "k_per_set": true,
	"hit_pct": true, "assists": true, "assists_per_set": true, "sa": true,
	"digs": true, "digs_per_set": true, "tb": true, "blocks_per_set": true,
}

// Filter narrows player listings.
type Filter struct {
	TeamID       *int64
	Season       *int
	Position     string
	ClassYear    string
	Search       string
	IncludeStats bool
	SortField    string
	SortDir      string
	Limit        int
	Offset       int
}

// Repository handles player and stat persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new player repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// List returns players matching the filter plus the unpaginated total.
func (r *Repository) List(ctx context.Context, filter Filter) ([]models.Player, int, error) {
	ctx, span := tracing.StartSpan(ctx, "player.Repository.List")
	defer span.End()

	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	where := func(sb *sqlbuilder.SelectBuilder) {
		var conds []string
		if filter.TeamID != nil {
			conds = append(conds, sb.Equal("p.team_id", *filter.TeamID))
		}
		if filter.Season != nil {
			conds = append(conds, sb.Equal("p.season", *filter.Season))
		}
		if filter.Position != "" {
			conds = append(conds, sb.ILike("p.position", "%"+filter.Position+"%"))
		}
		if filter.ClassYear != "" {
			conds = append(conds, sb.Equal("p.class_year", filter.ClassYear))
		}
		if filter.Search != "" {
			conds = append(conds, sb.ILike("p.name", "%"+filter.Search+"%"))
		}
		if len(conds) > 0 {
			sb.Where(conds...)
		}
	}

	countSB := sqlbuilder.PostgreSQL.NewSelectBuilder()
	countSB.Select("COUNT(*)").From("players p")
	where(countSB)
	countQuery, countArgs := countSB.Build()

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count players")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list players")
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	cols := make([]string, 0, len(playerColumns))
	for _, c := range playerColumns {
		cols = append(cols, "p."+c)
	}
	sb.Select(cols...).From("players p")

	sortStat := sortableStats[filter.SortField]
	if sortStat {
		sb.JoinWithOption(sqlbuilder.LeftJoin, "player_stats s", "s.player_id = p.id AND s.season = p.season")
	}
	where(sb)
	sb.OrderBy(orderClauses(filter.SortField, filter.SortDir, sortStat)...)
	sb.Limit(filter.Limit).Offset(filter.Offset)

	query, args := sb.Build()
	var players []models.Player
	if err := r.db.SelectContext(ctx, &players, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list players")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list players")
	}

	if filter.IncludeStats {
		if err := r.attachStats(ctx, players); err != nil {
			return nil, 0, err
		}
	}

	return players, total, nil
}

// orderClauses builds the ORDER BY list for a sort request. Stat sorts fall
// back to per-set and then name ordering so ties stay stable.
func orderClauses(field, dir string, statSort bool) []string {
	dir = strings.ToUpper(dir)
	if dir != "ASC" && dir != "DESC" {
		if statSort {
			dir = "DESC"
		} else {
			dir = "ASC"
		}
	}

	if statSort {
		clauses := []string{fmt.Sprintf("s.%s %s NULLS LAST", field, dir)}
		if perSet := field + "_per_set"; sortableStats[perSet] {
			clauses = append(clauses, fmt.Sprintf("s.%s %s NULLS LAST", perSet, dir))
		}
		return append(clauses, "p.name ASC")
	}

	switch field {
	case "", "name":
		return []string{"p.name " + dir}
	case "class_year":
		return []string{"p.class_year " + dir + " NULLS LAST", "p.name ASC"}
	case "height_inches":
		return []string{"p.height_inches " + dir + " NULLS LAST", "p.name ASC"}
	default:
		return []string{"p.name ASC"}
	}
}

// GetByID retrieves a player and their stat line.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Player, error) {
	ctx, span := tracing.StartSpan(ctx, "player.Repository.GetByID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(playerColumns...).From("players")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var player models.Player
	if err := r.db.GetContext(ctx, &player, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("player %d not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id}).Error("Failed to get player")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get player")
	}

	players := []models.Player{player}
	if err := r.attachStats(ctx, players); err != nil {
		return nil, err
	}
	return &players[0], nil
}

// attachStats loads stat lines for the given players in one query.
func (r *Repository) attachStats(ctx context.Context, players []models.Player) error {
	if len(players) == 0 {
		return nil
	}

	ids := make([]interface{}, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(statColumns...).From("player_stats")
	sb.Where(sb.In("player_id", ids...))

	query, args := sb.Build()
	var stats []models.PlayerStats
	if err := r.db.SelectContext(ctx, &stats, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to load player stats")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to load player stats")
	}

	byKey := make(map[string]*models.PlayerStats, len(stats))
	for i := range stats {
		byKey[fmt.Sprintf("%d:%d", stats[i].PlayerID, stats[i].Season)] = &stats[i]
	}
	for i := range players {
		players[i].Stats = byKey[fmt.Sprintf("%d:%d", players[i].ID, players[i].Season)]
	}
	return nil
}

// Upsert inserts a roster entry or refreshes it on (team_id, name, season)
// conflict, returning the row id.
func (r *Repository) Upsert(ctx context.Context, player *models.Player) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "player.Repository.Upsert")
	defer span.End()

	query := `
		INSERT INTO players (team_id, name, position, class_year, height_inches, season)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (team_id, name, season) DO UPDATE SET
			position = COALESCE(EXCLUDED.position, players.position),
			class_year = COALESCE(EXCLUDED.class_year, players.class_year),
			height_inches = COALESCE(EXCLUDED.height_inches, players.height_inches)
		RETURNING id
	`

	var id int64
	err := r.db.GetContext(ctx, &id, query,
		player.TeamID, player.Name, player.Position, player.ClassYear,
		player.HeightInches, player.Season)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"team_id": player.TeamID, "name": player.Name}).Error("Failed to upsert player")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert player")
	}
	return id, nil
}

// UpsertStats writes a player's stat line for a season.
func (r *Repository) UpsertStats(ctx context.Context, stats *models.PlayerStats) error {
	ctx, span := tracing.StartSpan(ctx, "player.Repository.UpsertStats")
	defer span.End()

	setCols := statColumns[2:]
	placeholders := make([]string, 0, len(statColumns))
	for i := range statColumns {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
	}
	updates := make([]string, 0, len(setCols))
	for _, c := range setCols {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}

	query := fmt.Sprintf(`
		INSERT INTO player_stats (%s)
		VALUES (%s)
		ON CONFLICT (player_id, season) DO UPDATE SET %s
	`, strings.Join(statColumns, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "))

	args := []interface{}{
		stats.PlayerID, stats.Season,
		stats.MatchesStart, stats.MatchesPlayed, stats.SetsPlayed,
		stats.Points, stats.PointsPerSet, stats.Kills, stats.KillsPerSet,
		stats.AttackErrors, stats.TotalAttacks, stats.HitPct,
		stats.Assists, stats.AssistsPerSet, stats.ServiceAces, stats.AcesPerSet, stats.ServiceErrors,
		stats.Digs, stats.DigsPerSet, stats.ReceptErrors, stats.TotalRecepts, stats.ReceptPct,
		stats.BlockSolos, stats.BlockAssists, stats.TotalBlocks, stats.BlocksPerSet, stats.BallHandleErr,
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"player_id": stats.PlayerID, "season": stats.Season}).Error("Failed to upsert player stats")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert player stats")
	}
	return nil
}
