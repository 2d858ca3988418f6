package scorecard

// Linear scaling ranges for dollar metrics.
const (
	salaryFloor   = 30000.0
	salaryCeiling = 80000.0
	costFloor     = 10000.0
	costCeiling   = 70000.0
)

// Scores holds the 0-100 metric values computed for a matched institution.
// Nil means the underlying data was missing.
type Scores struct {
	GradRate      *float64
	RetentionRate *float64
	AdmissionRate *float64
	SalaryScore   *float64
	CostScore     *float64
	Academic      *float64
	Value         *float64
	Overall       *float64

	// Raw passthroughs used in explanations.
	MedianEarnings *float64
	AvgCost        *float64
}

// weighted is one component of a weighted average.
type weighted struct {
	value  *float64
	weight float64
}

// SalaryScore scales median earnings linearly from $30k (0) to $80k (100),
// clamped. Nil in, nil out.
func SalaryScore(earnings *float64) *float64 {
	if earnings == nil {
		return nil
	}
	return scaleLinear(*earnings, salaryFloor, salaryCeiling)
}

// CostScore scales average annual cost inversely from $10k (100) to $70k (0),
// clamped. Nil in, nil out.
func CostScore(cost *float64) *float64 {
	if cost == nil {
		return nil
	}
	score := scaleLinear(*cost, costFloor, costCeiling)
	inverted := 100 - *score
	return &inverted
}

func scaleLinear(v, lo, hi float64) *float64 {
	score := (v - lo) / (hi - lo) * 100
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return &score
}

// weightedAverage combines the present components, dividing by the weight sum
// of only those components. All-nil input yields nil.
func weightedAverage(components []weighted) *float64 {
	var sum, weightSum float64
	for _, c := range components {
		if c.value == nil {
			continue
		}
		sum += *c.value * c.weight
		weightSum += c.weight
	}
	if weightSum == 0 {
		return nil
	}
	avg := sum / weightSum
	return &avg
}

// ComputeScores derives the composite scores for a scorecard record. Published
// rates are fractions and are scaled to 0-100; missing inputs propagate as nil
// through each composite independently.
func ComputeScores(rec *Record) Scores {
	s := Scores{
		GradRate:       scaleRate(rec.GradRate4yr),
		RetentionRate:  scaleRate(rec.RetentionRate),
		AdmissionRate:  scaleRate(rec.AdmissionRate),
		SalaryScore:    SalaryScore(rec.MedianEarnings),
		CostScore:      CostScore(rec.AvgCost),
		MedianEarnings: rec.MedianEarnings,
		AvgCost:        rec.AvgCost,
	}

	s.Academic = weightedAverage([]weighted{
		{s.GradRate, 0.4},
		{s.RetentionRate, 0.3},
		{s.SalaryScore, 0.3},
	})
	s.Value = weightedAverage([]weighted{
		{s.SalaryScore, 0.6},
		{s.CostScore, 0.4},
	})
	s.Overall = weightedAverage([]weighted{
		{s.Academic, 0.5},
		{s.Value, 0.4},
		{s.GradRate, 0.1},
	})

	return s
}

func scaleRate(rate *float64) *float64 {
	if rate == nil {
		return nil
	}
	scaled := *rate * 100
	return &scaled
}
