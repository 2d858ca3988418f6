package models

import (
	"encoding/json"
	"time"
)

// Team is a program tracked by the scraper, enriched with reference data.
type Team struct {
	ID                  int64           `json:"id" db:"id"`
	Name                string          `json:"name" db:"name" validate:"required"`
	ShortName           *string         `json:"short_name,omitempty" db:"short_name"`
	ConferenceID        *int64          `json:"conference_id,omitempty" db:"conference_id"`
	City                *string         `json:"city,omitempty" db:"city"`
	State               *string         `json:"state,omitempty" db:"state"`
	ZipCode             *string         `json:"zip_code,omitempty" db:"zip_code"`
	County              *string         `json:"county,omitempty" db:"county"`
	URL                 *string         `json:"url,omitempty" db:"url"`
	StatsURL            *string         `json:"stats_url,omitempty" db:"stats_url"`
	Tier                *string         `json:"tier,omitempty" db:"tier"`
	Latitude            *float64        `json:"latitude,omitempty" db:"latitude"`
	Longitude           *float64        `json:"longitude,omitempty" db:"longitude"`
	AirportCode         *string         `json:"airport_code,omitempty" db:"airport_code"`
	AirportName         *string         `json:"airport_name,omitempty" db:"airport_name"`
	AirportDriveTime    *string         `json:"airport_drive_time,omitempty" db:"airport_drive_time"`
	AirportNotes        *string         `json:"airport_notes,omitempty" db:"airport_notes"`
	AliasesJSON         json.RawMessage `json:"aliases,omitempty" db:"aliases_json"`
	NicheJSON           json.RawMessage `json:"niche,omitempty" db:"niche_json"`
	Notes               *string         `json:"notes,omitempty" db:"notes"`
	ScorecardUnitID     *int64          `json:"scorecard_unitid,omitempty" db:"scorecard_unitid"`
	ScorecardConfidence *string         `json:"scorecard_confidence,omitempty" db:"scorecard_confidence"`
	ScorecardMatchName  *string         `json:"scorecard_match_name,omitempty" db:"scorecard_match_name"`
	ScoreExplanation    *string         `json:"score_explanation,omitempty" db:"score_explanation"`

	// School snapshot columns promoted from the scorecard during enrichment.
	UndergradEnrollment  *int     `json:"undergrad_enrollment,omitempty" db:"undergrad_enrollment"`
	AcceptanceRate       *float64 `json:"acceptance_rate,omitempty" db:"acceptance_rate"`
	GraduationRate       *float64 `json:"graduation_rate,omitempty" db:"graduation_rate"`
	MedianStartingSalary *float64 `json:"median_starting_salary,omitempty" db:"median_starting_salary"`
	AvgCostAfterAid      *float64 `json:"avg_cost_after_aid,omitempty" db:"avg_cost_after_aid"`

	LogoFilename        *string         `json:"logo_filename,omitempty" db:"logo_filename"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at" db:"updated_at"`
}

// Aliases decodes the alias list stored alongside the team.
func (t *Team) Aliases() []string {
	if len(t.AliasesJSON) == 0 {
		return nil
	}
	var aliases []string
	if err := json.Unmarshal(t.AliasesJSON, &aliases); err != nil {
		return nil
	}
	return aliases
}

// NicheRating holds third-party letter grades attached to a team. Grades filled
// in by the enrichment pipeline never overwrite manually entered values.
type NicheRating struct {
	OverallGrade   string `json:"overall_grade,omitempty"`
	AcademicsGrade string `json:"academics_grade,omitempty"`
	ValueGrade     string `json:"value_grade,omitempty"`
}

// Niche decodes the third-party rating block, if present.
func (t *Team) Niche() NicheRating {
	var rating NicheRating
	if len(t.NicheJSON) == 0 {
		return rating
	}
	_ = json.Unmarshal(t.NicheJSON, &rating)
	return rating
}

// SetNiche re-encodes the rating block onto the team.
func (t *Team) SetNiche(rating NicheRating) {
	data, err := json.Marshal(rating)
	if err != nil {
		return
	}
	t.NicheJSON = data
}

// TeamListResponse is the API response for listing teams.
type TeamListResponse struct {
	Results []Team `json:"results"`
	Total   int    `json:"total"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
}
