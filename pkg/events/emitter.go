// Package events handles event emission for ingestion lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/internal/platform/tracing"
	"github.com/Ramsey-B/aster/pkg/kafka"
	"github.com/Ramsey-B/aster/pkg/models"
)

// Emitter handles event emission for the ingest pipeline. A nil producer
// disables emission, so callers never have to branch on configuration.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitTeamEnriched emits an event after a team is matched and scored.
func (e *Emitter) EmitTeamEnriched(ctx context.Context, runID string, team *models.Team, confidence, matchedName string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitTeamEnriched")
	defer span.End()

	if e.producer == nil {
		return nil
	}

	data, err := json.Marshal(team)
	if err != nil {
		return err
	}

	event := &kafka.TeamEvent{
		EventType:   "team.enriched",
		RunID:       runID,
		TeamID:      team.ID,
		TeamName:    team.Name,
		Confidence:  confidence,
		MatchedName: matchedName,
		Data:        data,
	}

	if err := e.producer.PublishTeamEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit team.enriched event")
		return err
	}
	return nil
}

// EmitTeamUnmatched emits an event when no scorecard record could be found
// for a team.
func (e *Emitter) EmitTeamUnmatched(ctx context.Context, runID string, team *models.Team) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitTeamUnmatched")
	defer span.End()

	if e.producer == nil {
		return nil
	}

	event := &kafka.TeamEvent{
		EventType: "team.unmatched",
		RunID:     runID,
		TeamID:    team.ID,
		TeamName:  team.Name,
	}

	if err := e.producer.PublishTeamEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit team.unmatched event")
		return err
	}
	return nil
}

// EmitRunStarted emits a run lifecycle event at pipeline start.
func (e *Emitter) EmitRunStarted(ctx context.Context, run *models.IngestionRun) error {
	return e.emitRun(ctx, "run.started", run, "")
}

// EmitRunCompleted emits a run lifecycle event with final counters.
func (e *Emitter) EmitRunCompleted(ctx context.Context, run *models.IngestionRun) error {
	return e.emitRun(ctx, "run.completed", run, "")
}

// EmitRunFailed emits a run lifecycle event carrying the failure reason.
func (e *Emitter) EmitRunFailed(ctx context.Context, run *models.IngestionRun, runErr error) error {
	return e.emitRun(ctx, "run.failed", run, runErr.Error())
}

func (e *Emitter) emitRun(ctx context.Context, eventType string, run *models.IngestionRun, errMsg string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.emitRun")
	defer span.End()

	if e.producer == nil {
		return nil
	}

	event := &kafka.RunEvent{
		EventType:      eventType,
		RunID:          run.ID,
		Season:         run.Season,
		TeamsProcessed: run.TeamsProcessed,
		TeamsMatched:   run.TeamsMatched,
		PlayersLoaded:  run.PlayersLoaded,
		Error:          errMsg,
	}

	if err := e.producer.PublishRunEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit run event")
		return err
	}
	return nil
}
