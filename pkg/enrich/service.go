// Package enrich matches teams against the scorecard reference set and writes
// the derived scores, grades and geo data back onto them.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/internal/platform/tracing"
	"github.com/Ramsey-B/aster/internal/repositories/team"
	"github.com/Ramsey-B/aster/pkg/metrics"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/scorecard"
)

// TeamStore is the slice of team persistence the enricher needs.
type TeamStore interface {
	UpdateEnrichment(ctx context.Context, teamID int64, update team.EnrichmentUpdate) error
}

// EventSink receives enrichment outcome events.
type EventSink interface {
	EmitTeamEnriched(ctx context.Context, runID string, team *models.Team, confidence, matchedName string) error
	EmitTeamUnmatched(ctx context.Context, runID string, team *models.Team) error
}

// Result summarizes one team's enrichment.
type Result struct {
	Confidence  string
	MatchedName string
	Matched     bool
}

// Service enriches teams from a scorecard index.
type Service struct {
	matcher *scorecard.Matcher
	teams   TeamStore
	events  EventSink
	logger  ectologger.Logger
}

// NewService creates an enrichment service.
func NewService(matcher *scorecard.Matcher, teams TeamStore, events EventSink, logger ectologger.Logger) *Service {
	return &Service{
		matcher: matcher,
		teams:   teams,
		events:  events,
		logger:  logger,
	}
}

// EnrichTeam resolves one team against the scorecard and persists the
// outcome. A pinned scorecard_unitid is authoritative; otherwise the team
// name, short name and aliases are tried in order. Unmatched teams are marked
// so rather than left stale.
func (s *Service) EnrichTeam(ctx context.Context, runID string, t *models.Team) (Result, error) {
	ctx, span := tracing.StartSpan(ctx, "enrich.Service.EnrichTeam")
	defer span.End()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{"team_id": t.ID, "team": t.Name})

	var override int
	if t.ScorecardUnitID != nil {
		override = int(*t.ScorecardUnitID)
	}

	match := s.matcher.Match(override, candidateNames(t))
	metrics.TeamsEnrichedTotal.WithLabelValues(match.Confidence).Inc()

	if match.Record == nil {
		log.Warn("Team did not match any scorecard institution")
		update := team.EnrichmentUpdate{ScorecardConfidence: scorecard.ConfidenceUnmatched}
		if err := s.teams.UpdateEnrichment(ctx, t.ID, update); err != nil {
			return Result{}, err
		}
		if err := s.events.EmitTeamUnmatched(ctx, runID, t); err != nil {
			log.WithError(err).Warn("Failed to emit unmatched event")
		}
		return Result{Confidence: scorecard.ConfidenceUnmatched}, nil
	}

	rec := match.Record
	scores := scorecard.ComputeScores(rec)

	// Computed grades fill gaps in the published ratings but never overwrite
	// manually entered ones.
	niche := t.Niche()
	if niche.OverallGrade == "" && scores.Overall != nil {
		niche.OverallGrade = scorecard.Grade(*scores.Overall)
	}
	if niche.AcademicsGrade == "" && scores.Academic != nil {
		niche.AcademicsGrade = scorecard.Grade(*scores.Academic)
	}
	if niche.ValueGrade == "" && scores.Value != nil {
		niche.ValueGrade = scorecard.Grade(*scores.Value)
	}

	update := team.EnrichmentUpdate{
		ScorecardConfidence:  match.Confidence,
		ScorecardMatchName:   &rec.Name,
		UndergradEnrollment:  rec.UndergradEnrollment,
		AcceptanceRate:       scores.AdmissionRate,
		GraduationRate:       scores.GradRate,
		MedianStartingSalary: scores.MedianEarnings,
		AvgCostAfterAid:      scores.AvgCost,
	}

	// Pin the unitid so later runs resolve by override instead of by name.
	if rec.UnitID != 0 &&
		(match.Confidence == scorecard.ConfidenceHigh || match.Confidence == scorecard.ConfidenceOverride) {
		unitID := int64(rec.UnitID)
		update.ScorecardUnitID = &unitID
	}

	if explanation := scorecard.Explain(scores, niche); explanation != "" {
		update.ScoreExplanation = &explanation
	}

	if data, err := json.Marshal(niche); err == nil {
		nicheJSON := string(data)
		update.NicheJSON = &nicheJSON
	}

	applyGeo(&update, rec)

	if err := s.teams.UpdateEnrichment(ctx, t.ID, update); err != nil {
		return Result{}, err
	}

	if err := s.events.EmitTeamEnriched(ctx, runID, t, match.Confidence, rec.Name); err != nil {
		log.WithError(err).Warn("Failed to emit enriched event")
	}

	log.WithFields(map[string]any{
		"confidence":   match.Confidence,
		"matched_name": rec.Name,
		"similarity":   fmt.Sprintf("%.2f", match.Similarity),
	}).Info("Enriched team from scorecard")

	return Result{Confidence: match.Confidence, MatchedName: rec.Name, Matched: true}, nil
}

// candidateNames builds the ordered, deduplicated name list for matching:
// team name, short name, then aliases.
func candidateNames(t *models.Team) []string {
	var candidates []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		candidates = append(candidates, name)
	}

	add(t.Name)
	if t.ShortName != nil {
		add(*t.ShortName)
	}
	for _, alias := range t.Aliases() {
		add(alias)
	}
	return candidates
}

// applyGeo copies location columns from the scorecard record when present.
func applyGeo(update *team.EnrichmentUpdate, rec *scorecard.Record) {
	if rec.City != "" {
		city := rec.City
		update.City = &city
	}
	if rec.State != "" {
		state := rec.State
		update.State = &state
	}
	if rec.Zip != "" {
		zip := rec.Zip
		update.ZipCode = &zip
	}
	if rec.County != "" {
		county := rec.County
		update.County = &county
	}
	update.Latitude = rec.Latitude
	update.Longitude = rec.Longitude
}
