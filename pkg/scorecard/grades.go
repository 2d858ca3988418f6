package scorecard

import "strings"

// gradeScale orders letter grades from best to worst. Rank positions in this
// slice are used to compare computed grades against external ones.
var gradeScale = []string{"A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D+", "D", "D-"}

// gradeCutoffs maps minimum score to letter, checked in order.
var gradeCutoffs = []struct {
	min   float64
	grade string
}{
	{93, "A"},
	{90, "A-"},
	{87, "B+"},
	{83, "B"},
	{80, "B-"},
	{77, "C+"},
	{73, "C"},
	{70, "C-"},
	{67, "D+"},
	{60, "D"},
}

// Grade maps a 0-100 score to a letter grade. Scores below 60 get D-.
func Grade(score float64) string {
	for _, c := range gradeCutoffs {
		if score >= c.min {
			return c.grade
		}
	}
	return "D-"
}

// GradeRank returns the position of a letter grade on the scale, lower being
// better. Unknown grades rank at the scale midpoint so comparisons against
// unparseable external grades stay neutral.
func GradeRank(grade string) int {
	up := strings.ToUpper(strings.TrimSpace(grade))
	for i, g := range gradeScale {
		if g == up {
			return i
		}
	}
	return len(gradeScale) / 2
}
