// Package scorecard implements institution matching and metric scoring against
// the federal scorecard extract.
package scorecard

// Record is one institution row from the scorecard extract. UnitID 0 means the
// source row had no usable id. Pointer fields are nil when the source value was
// empty, NULL, or privacy suppressed.
type Record struct {
	UnitID              int
	Name                string
	City                string
	State               string
	Zip                 string
	County              string
	Latitude            *float64
	Longitude           *float64
	UndergradEnrollment *int

	// Rates are fractions in [0,1] as published.
	AdmissionRate *float64
	GradRate4yr   *float64
	RetentionRate *float64

	// Dollar figures.
	MedianEarnings *float64
	AvgCost        *float64
}
