package models

import "time"

// Run statuses recorded on ingestion_runs rows.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// IngestionRun records one execution of the ingest pipeline.
type IngestionRun struct {
	ID             string     `json:"id" db:"id"`
	Status         string     `json:"status" db:"status"`
	Season         int        `json:"season" db:"season"`
	TeamsProcessed int        `json:"teams_processed" db:"teams_processed"`
	TeamsMatched   int        `json:"teams_matched" db:"teams_matched"`
	PlayersLoaded  int        `json:"players_loaded" db:"players_loaded"`
	Error          *string    `json:"error,omitempty" db:"error"`
	StartedAt      time.Time  `json:"started_at" db:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}
