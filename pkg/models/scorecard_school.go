package models

// ScorecardSchool is one institution row from the federal scorecard extract.
// Pointer fields are nil when the source value was empty, NULL, or suppressed.
type ScorecardSchool struct {
	UnitID              int64    `json:"unitid" db:"unitid"`
	Name                string   `json:"name" db:"name" validate:"required"`
	City                *string  `json:"city,omitempty" db:"city"`
	State               *string  `json:"state,omitempty" db:"state"`
	ZipCode             *string  `json:"zip_code,omitempty" db:"zip_code"`
	County              *string  `json:"county,omitempty" db:"county"`
	Latitude            *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude           *float64 `json:"longitude,omitempty" db:"longitude"`
	UndergradEnrollment *int     `json:"undergrad_enrollment,omitempty" db:"undergrad_enrollment"`
	AdmissionRate       *float64 `json:"admission_rate,omitempty" db:"admission_rate"`
	GradRate4yr         *float64 `json:"grad_rate_4yr,omitempty" db:"grad_rate_4yr"`
	RetentionRate       *float64 `json:"retention_rate,omitempty" db:"retention_rate"`
	MedianEarnings      *float64 `json:"median_earnings,omitempty" db:"median_earnings"`
	AvgCost             *float64 `json:"avg_cost,omitempty" db:"avg_cost"`
}
