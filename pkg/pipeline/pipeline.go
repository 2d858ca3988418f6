// Package pipeline runs the full ingestion sequence: load reference data,
// enrich teams, annotate travel, and refresh rosters and stats.
package pipeline

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/aster/internal/platform/tracing"
	"github.com/Ramsey-B/aster/internal/repositories/airport"
	"github.com/Ramsey-B/aster/internal/repositories/coach"
	"github.com/Ramsey-B/aster/internal/repositories/conference"
	"github.com/Ramsey-B/aster/internal/repositories/ingestionrun"
	"github.com/Ramsey-B/aster/internal/repositories/player"
	"github.com/Ramsey-B/aster/internal/repositories/scorecardschool"
	"github.com/Ramsey-B/aster/internal/repositories/team"
	"github.com/Ramsey-B/aster/pkg/airports"
	"github.com/Ramsey-B/aster/pkg/enrich"
	"github.com/Ramsey-B/aster/pkg/events"
	"github.com/Ramsey-B/aster/pkg/metrics"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/normalizers"
	"github.com/Ramsey-B/aster/pkg/scorecard"
	"github.com/Ramsey-B/aster/pkg/scraper"
)

var validate = validator.New()

// Config holds pipeline inputs.
type Config struct {
	TeamsJSONPath    string
	ScorecardCSVPath string
	AirportsCSVPath  string
	Season           int
	// ScrapeRosters toggles the network-bound roster and stats stages.
	ScrapeRosters bool
}

// Pipeline wires the ingestion stages together.
type Pipeline struct {
	cfg         Config
	logger      ectologger.Logger
	teams       *team.Repository
	conferences *conference.Repository
	schools     *scorecardschool.Repository
	airports    *airport.Repository
	players     *player.Repository
	coaches     *coach.Repository
	runs        *ingestionrun.Repository
	scraper     *scraper.Scraper
	emitter     *events.Emitter
}

// New creates a pipeline.
func New(
	cfg Config,
	logger ectologger.Logger,
	teams *team.Repository,
	conferences *conference.Repository,
	schools *scorecardschool.Repository,
	airportsRepo *airport.Repository,
	players *player.Repository,
	coaches *coach.Repository,
	runs *ingestionrun.Repository,
	rosterScraper *scraper.Scraper,
	emitter *events.Emitter,
) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		logger:      logger,
		teams:       teams,
		conferences: conferences,
		schools:     schools,
		airports:    airportsRepo,
		players:     players,
		coaches:     coaches,
		runs:        runs,
		scraper:     rosterScraper,
		emitter:     emitter,
	}
}

// Run executes the full ingestion sequence. The run row records progress and
// outcome; a failure in any stage fails the run.
func (p *Pipeline) Run(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "pipeline.Run")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.IngestionRunDuration.Observe(time.Since(start).Seconds())
	}()

	run, err := p.runs.Create(ctx, p.cfg.Season)
	if err != nil {
		return err
	}

	log := p.logger.WithContext(ctx).WithFields(map[string]any{"run_id": run.ID, "season": run.Season})
	log.Info("Starting ingestion run")

	if err := p.emitter.EmitRunStarted(ctx, run); err != nil {
		log.WithError(err).Warn("Failed to emit run started event")
	}

	if err := p.execute(ctx, run); err != nil {
		log.WithError(err).Error("Ingestion run failed")
		if failErr := p.runs.Fail(ctx, run, err); failErr != nil {
			log.WithError(failErr).Error("Failed to mark run failed")
		}
		if emitErr := p.emitter.EmitRunFailed(ctx, run, err); emitErr != nil {
			log.WithError(emitErr).Warn("Failed to emit run failed event")
		}
		return err
	}

	if err := p.runs.Complete(ctx, run); err != nil {
		return err
	}
	if err := p.emitter.EmitRunCompleted(ctx, run); err != nil {
		log.WithError(err).Warn("Failed to emit run completed event")
	}

	log.WithFields(map[string]any{
		"teams_processed": run.TeamsProcessed,
		"teams_matched":   run.TeamsMatched,
		"players_loaded":  run.PlayersLoaded,
	}).Info("Ingestion run completed")
	return nil
}

func (p *Pipeline) execute(ctx context.Context, run *models.IngestionRun) error {
	if err := p.seedTeams(ctx); err != nil {
		return err
	}

	index, err := p.loadScorecard(ctx)
	if err != nil {
		return err
	}

	airportList, err := p.loadAirports(ctx)
	if err != nil {
		return err
	}

	if err := p.enrichTeams(ctx, run, index); err != nil {
		return err
	}

	if err := p.annotateAirports(ctx, airportList); err != nil {
		return err
	}

	if p.cfg.ScrapeRosters {
		if err := p.refreshRosters(ctx, run); err != nil {
			return err
		}
	}

	return nil
}

// loadScorecard reads the scorecard extract, persists the reference table and
// builds the in-memory match index.
func (p *Pipeline) loadScorecard(ctx context.Context) (*scorecard.Index, error) {
	ctx, span := tracing.StartSpan(ctx, "pipeline.loadScorecard")
	defer span.End()

	records, err := scorecard.LoadCSV(p.cfg.ScorecardCSVPath)
	if err != nil {
		return nil, err
	}

	stored, err := p.schools.ReplaceAll(ctx, toSchoolModels(records))
	if err != nil {
		return nil, err
	}
	metrics.ReferenceRowsLoaded.WithLabelValues("scorecard").Set(float64(stored))

	p.logger.WithContext(ctx).WithFields(map[string]any{"institutions": len(records)}).Info("Loaded scorecard extract")
	return scorecard.BuildIndex(records, p.logger), nil
}

// loadAirports reads the airports dataset and persists the reference table.
// Without a dataset path the previously stored airports are used as-is.
func (p *Pipeline) loadAirports(ctx context.Context) ([]models.Airport, error) {
	ctx, span := tracing.StartSpan(ctx, "pipeline.loadAirports")
	defer span.End()

	if p.cfg.AirportsCSVPath == "" {
		return p.airports.ListAll(ctx)
	}

	loaded, err := airports.LoadCSV(p.cfg.AirportsCSVPath)
	if err != nil {
		return nil, err
	}

	list := make([]models.Airport, 0, len(loaded))
	for _, a := range loaded {
		if err := validate.Struct(a); err != nil {
			p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"iata_code": a.IataCode}).Warn("Dropping invalid airport row")
			continue
		}
		list = append(list, a)
	}

	if err := p.airports.ReplaceAll(ctx, list); err != nil {
		return nil, err
	}
	metrics.ReferenceRowsLoaded.WithLabelValues("airports").Set(float64(len(list)))

	p.logger.WithContext(ctx).WithFields(map[string]any{"airports": len(list)}).Info("Loaded airports dataset")
	return list, nil
}

// enrichTeams matches every team against the scorecard index.
func (p *Pipeline) enrichTeams(ctx context.Context, run *models.IngestionRun, index *scorecard.Index) error {
	ctx, span := tracing.StartSpan(ctx, "pipeline.enrichTeams")
	defer span.End()

	teams, err := p.teams.ListAll(ctx)
	if err != nil {
		return err
	}

	matcher := scorecard.NewMatcher(index, p.logger)
	service := enrich.NewService(matcher, p.teams, p.emitter, p.logger)

	var unmatched []string
	for i := range teams {
		result, err := service.EnrichTeam(ctx, run.ID, &teams[i])
		if err != nil {
			return errors.Wrapf(err, "failed to enrich team %s", teams[i].Name)
		}
		run.TeamsProcessed++
		if result.Matched {
			run.TeamsMatched++
		} else {
			unmatched = append(unmatched, teams[i].Name)
		}
	}

	if len(unmatched) > 0 {
		p.logger.WithContext(ctx).WithFields(map[string]any{
			"count": len(unmatched),
			"teams": unmatched,
		}).Warn("Teams left unmatched after enrichment")
	}
	return nil
}

// annotateAirports fills nearest-airport columns for teams with coordinates.
// Hand-tuned airport notes are left alone.
func (p *Pipeline) annotateAirports(ctx context.Context, airportList []models.Airport) error {
	ctx, span := tracing.StartSpan(ctx, "pipeline.annotateAirports")
	defer span.End()

	if len(airportList) == 0 {
		return nil
	}

	teams, err := p.teams.ListWithCoordinates(ctx)
	if err != nil {
		return err
	}

	updated := 0
	for i := range teams {
		t := &teams[i]

		notes := ""
		if t.AirportNotes != nil {
			notes = *t.AirportNotes
		}
		if !airports.IsAutoGenerated(notes) {
			continue
		}

		nearest, distance := airports.Nearest(*t.Latitude, *t.Longitude, airportList)
		if nearest == nil {
			continue
		}

		err := p.teams.UpdateAirport(ctx, t.ID,
			nearest.IataCode, nearest.Name,
			airports.FormatDriveTime(distance), airports.AutoNotes(distance))
		if err != nil {
			return err
		}
		updated++
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{"updated": updated}).Info("Annotated nearest airports")
	return nil
}

// refreshRosters scrapes roster and stats pages for teams that have URLs.
func (p *Pipeline) refreshRosters(ctx context.Context, run *models.IngestionRun) error {
	ctx, span := tracing.StartSpan(ctx, "pipeline.refreshRosters")
	defer span.End()

	teams, err := p.teams.ListAll(ctx)
	if err != nil {
		return err
	}

	for i := range teams {
		t := &teams[i]
		if t.URL == nil || *t.URL == "" {
			continue
		}

		log := p.logger.WithContext(ctx).WithFields(map[string]any{"team_id": t.ID, "team": t.Name})

		entries, staff, err := p.scraper.FetchRoster(ctx, *t.URL)
		if err != nil {
			// A single broken site should not sink the whole run.
			log.WithError(err).Warn("Failed to fetch roster, skipping team")
			continue
		}

		byName, err := p.storeRoster(ctx, t.ID, entries)
		if err != nil {
			return err
		}
		run.PlayersLoaded += len(byName)

		if len(staff) > 0 {
			if err := p.storeCoaches(ctx, t.ID, staff); err != nil {
				return err
			}
		}

		if t.StatsURL != nil && *t.StatsURL != "" {
			if err := p.refreshStats(ctx, *t.StatsURL, byName); err != nil {
				log.WithError(err).Warn("Failed to refresh stats, skipping team")
			}
		}
	}
	return nil
}

// storeRoster upserts roster entries and returns player ids keyed by
// normalized name for stat attachment.
func (p *Pipeline) storeRoster(ctx context.Context, teamID int64, entries []scraper.RosterEntry) (map[string]int64, error) {
	byName := make(map[string]int64, len(entries))
	for _, entry := range entries {
		pl := &models.Player{
			TeamID: teamID,
			Name:   entry.Name,
			Season: p.cfg.Season,
		}
		if entry.Position != "" {
			pos := entry.Position
			pl.Position = &pos
		}
		if entry.ClassYear != "" {
			cls := entry.ClassYear
			pl.ClassYear = &cls
		}
		pl.HeightInches = entry.HeightInches

		if err := validate.Struct(pl); err != nil {
			p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"team_id": teamID, "name": entry.Name}).Warn("Dropping invalid roster entry")
			continue
		}

		id, err := p.players.Upsert(ctx, pl)
		if err != nil {
			return nil, err
		}
		byName[normalizers.Apply(entry.Name, "person")] = id
	}
	return byName, nil
}

// storeCoaches replaces a team's coaching staff with the scraped list.
func (p *Pipeline) storeCoaches(ctx context.Context, teamID int64, staff []scraper.CoachEntry) error {
	coachRows := make([]models.Coach, 0, len(staff))
	for _, entry := range staff {
		row := models.Coach{TeamID: teamID, Name: entry.Name}
		if entry.Title != "" {
			title := entry.Title
			row.Title = &title
		}
		coachRows = append(coachRows, row)
	}
	return p.coaches.ReplaceForTeam(ctx, teamID, coachRows)
}

// refreshStats scrapes a team's stats page and attaches lines to known
// players. Stat rows list names as "Last, First", roster rows as "First
// Last", so both orders are tried.
func (p *Pipeline) refreshStats(ctx context.Context, statsURL string, byName map[string]int64) error {
	ctx, span := tracing.StartSpan(ctx, "pipeline.refreshStats")
	defer span.End()

	lines, err := p.scraper.FetchStats(ctx, statsURL)
	if err != nil {
		return err
	}

	for _, line := range lines {
		playerID, ok := matchPlayer(line.Name, byName)
		if !ok {
			p.logger.WithContext(ctx).WithFields(map[string]any{"name": line.Name}).Debug("Stat line has no roster match")
			continue
		}

		stats := statsFromLine(playerID, p.cfg.Season, line)
		if err := p.players.UpsertStats(ctx, stats); err != nil {
			return err
		}
	}
	return nil
}

func matchPlayer(name string, byName map[string]int64) (int64, bool) {
	normalized := normalizers.Apply(name, "person")
	if id, ok := byName[normalized]; ok {
		return id, true
	}

	// "smith jordan" vs "jordan smith"
	if reversed, ok := reverseName(normalized); ok {
		if id, ok := byName[reversed]; ok {
			return id, true
		}
	}
	return 0, false
}

func reverseName(normalized string) (string, bool) {
	i := indexByteSpace(normalized)
	if i < 0 {
		return "", false
	}
	return normalized[i+1:] + " " + normalized[:i], true
}

func indexByteSpace(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return i
		}
	}
	return -1
}

// toSchoolModels converts parsed scorecard records into reference rows.
func toSchoolModels(records []scorecard.Record) []models.ScorecardSchool {
	schools := make([]models.ScorecardSchool, 0, len(records))
	for _, rec := range records {
		school := models.ScorecardSchool{
			UnitID:              int64(rec.UnitID),
			Name:                rec.Name,
			Latitude:            rec.Latitude,
			Longitude:           rec.Longitude,
			UndergradEnrollment: rec.UndergradEnrollment,
			AdmissionRate:       rec.AdmissionRate,
			GradRate4yr:         rec.GradRate4yr,
			RetentionRate:       rec.RetentionRate,
			MedianEarnings:      rec.MedianEarnings,
			AvgCost:             rec.AvgCost,
		}
		if rec.City != "" {
			city := rec.City
			school.City = &city
		}
		if rec.State != "" {
			state := rec.State
			school.State = &state
		}
		if rec.Zip != "" {
			zip := rec.Zip
			school.ZipCode = &zip
		}
		if rec.County != "" {
			county := rec.County
			school.County = &county
		}
		schools = append(schools, school)
	}
	return schools
}

// statsFromLine maps parsed stat values onto the storage row.
func statsFromLine(playerID int64, season int, line scraper.StatLine) *models.PlayerStats {
	stats := &models.PlayerStats{PlayerID: playerID, Season: season}

	fields := map[string]**float64{
		"ms":              &stats.MatchesStart,
		"mp":              &stats.MatchesPlayed,
		"sp":              &stats.SetsPlayed,
		"pts":             &stats.Points,
		"pts_per_set":     &stats.PointsPerSet,
		"k":               &stats.Kills,
		"k_per_set":       &stats.KillsPerSet,
		"ae":              &stats.AttackErrors,
		"ta":              &stats.TotalAttacks,
		"hit_pct":         &stats.HitPct,
		"assists":         &stats.Assists,
		"assists_per_set": &stats.AssistsPerSet,
		"sa":              &stats.ServiceAces,
		"sa_per_set":      &stats.AcesPerSet,
		"se":              &stats.ServiceErrors,
		"digs":            &stats.Digs,
		"digs_per_set":    &stats.DigsPerSet,
		"re":              &stats.ReceptErrors,
		"tre":             &stats.TotalRecepts,
		"rec_pct":         &stats.ReceptPct,
		"bs":              &stats.BlockSolos,
		"ba":              &stats.BlockAssists,
		"tb":              &stats.TotalBlocks,
		"blocks_per_set":  &stats.BlocksPerSet,
		"bhe":             &stats.BallHandleErr,
	}

	for key, target := range fields {
		if v, ok := line.Values[key]; ok {
			value := v
			*target = &value
		}
	}
	return stats
}
