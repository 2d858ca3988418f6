package scorecard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/aster/pkg/models"
)

func TestExplain_EmptyScores(t *testing.T) {
	assert.Equal(t, "", Explain(Scores{}, models.NicheRating{}))
}

func TestExplain_OverallAndBreakdown(t *testing.T) {
	s := Scores{
		Overall:  floatPtr(85),
		Academic: floatPtr(91),
		Value:    floatPtr(78),
	}

	text := Explain(s, models.NicheRating{})

	assert.Contains(t, text, "rates this school around a B overall.")
	assert.Contains(t, text, "That breaks down to A- for academics and C+ for value.")
}

func TestExplain_NicheComparison(t *testing.T) {
	t.Run("model harsher than niche", func(t *testing.T) {
		// Computed C vs published A-: diff of 5 ranks.
		text := Explain(Scores{Overall: floatPtr(74)}, models.NicheRating{OverallGrade: "A-"})
		assert.Contains(t, text, "Niche lists the overall experience closer to a A-")
		assert.Contains(t, text, "weaker in this model")
	})

	t.Run("model more lenient than niche", func(t *testing.T) {
		// Computed A vs published C+.
		text := Explain(Scores{Overall: floatPtr(95)}, models.NicheRating{OverallGrade: "C+"})
		assert.Contains(t, text, "Niche lists the overall experience around a C+")
		assert.Contains(t, text, "somewhat stronger performance")
	})

	t.Run("harsher at two ranks exactly", func(t *testing.T) {
		// Computed B vs published A-: the smallest gap that reads as harsher.
		text := Explain(Scores{Overall: floatPtr(84)}, models.NicheRating{OverallGrade: "A-"})
		assert.Contains(t, text, "Niche lists the overall experience closer to a A-")
		assert.Contains(t, text, "weaker in this model")
		assert.NotContains(t, text, "broadly in line")
	})

	t.Run("lenient at two ranks exactly", func(t *testing.T) {
		// Computed B vs published C+: the smallest gap that reads as lenient.
		text := Explain(Scores{Overall: floatPtr(84)}, models.NicheRating{OverallGrade: "C+"})
		assert.Contains(t, text, "Niche lists the overall experience around a C+")
		assert.Contains(t, text, "somewhat stronger performance")
		assert.NotContains(t, text, "broadly in line")
	})

	t.Run("broadly in line", func(t *testing.T) {
		// Computed B vs published B+: one rank apart.
		text := Explain(Scores{Overall: floatPtr(84)}, models.NicheRating{OverallGrade: "B+"})
		assert.Contains(t, text, "broadly in line with this Scorecard-based estimate")
	})

	t.Run("exact agreement", func(t *testing.T) {
		text := Explain(Scores{Overall: floatPtr(84)}, models.NicheRating{OverallGrade: "B"})
		assert.Contains(t, text, "broadly in line")
	})

	t.Run("no niche grade skips comparison", func(t *testing.T) {
		text := Explain(Scores{Overall: floatPtr(84)}, models.NicheRating{})
		assert.NotContains(t, text, "Niche")
	})
}

func TestExplain_MetricClauses(t *testing.T) {
	t.Run("graduation tiers", func(t *testing.T) {
		assert.Contains(t, Explain(Scores{GradRate: floatPtr(80)}, models.NicheRating{}),
			"graduation rate is solid at roughly 80%")
		assert.Contains(t, Explain(Scores{GradRate: floatPtr(65)}, models.NicheRating{}),
			"graduation rate is moderate at about 65%")
		assert.Contains(t, Explain(Scores{GradRate: floatPtr(45)}, models.NicheRating{}),
			"which drags down academics")
	})

	t.Run("retention only speaks at extremes", func(t *testing.T) {
		assert.Contains(t, Explain(Scores{RetentionRate: floatPtr(90)}, models.NicheRating{}),
			"first-year retention is strong at about 90%")
		assert.Contains(t, Explain(Scores{RetentionRate: floatPtr(70)}, models.NicheRating{}),
			"first-year retention is somewhat low at about 70%")
		assert.Equal(t, "", Explain(Scores{RetentionRate: floatPtr(80)}, models.NicheRating{}))
	})

	t.Run("salary tiers with dollar formatting", func(t *testing.T) {
		assert.Contains(t, Explain(Scores{MedianEarnings: floatPtr(70000)}, models.NicheRating{}),
			"alumni earnings are high, with median 10-year salaries around $70,000")
		assert.Contains(t, Explain(Scores{MedianEarnings: floatPtr(55000)}, models.NicheRating{}),
			"alumni earnings are decent")
		assert.Contains(t, Explain(Scores{MedianEarnings: floatPtr(42500)}, models.NicheRating{}),
			"relatively modest at about $42,500")
	})

	t.Run("cost tiers", func(t *testing.T) {
		assert.Contains(t, Explain(Scores{AvgCost: floatPtr(18000)}, models.NicheRating{}),
			"helping the value score")
		assert.Contains(t, Explain(Scores{AvgCost: floatPtr(30000)}, models.NicheRating{}),
			"mid-range at about $30,000")
		assert.Contains(t, Explain(Scores{AvgCost: floatPtr(50000)}, models.NicheRating{}),
			"which hurts value")
	})

	t.Run("admission only speaks at extremes", func(t *testing.T) {
		assert.Contains(t, Explain(Scores{AdmissionRate: floatPtr(20)}, models.NicheRating{}),
			"admission is fairly selective with an acceptance rate near 20%")
		assert.Contains(t, Explain(Scores{AdmissionRate: floatPtr(90)}, models.NicheRating{}),
			"admission is relatively open with an acceptance rate around 90%")
		assert.Equal(t, "", Explain(Scores{AdmissionRate: floatPtr(50)}, models.NicheRating{}))
	})
}

func TestExplain_CapsMetricClauses(t *testing.T) {
	s := Scores{
		GradRate:       floatPtr(80),
		RetentionRate:  floatPtr(90),
		MedianEarnings: floatPtr(70000),
		AvgCost:        floatPtr(18000),
		AdmissionRate:  floatPtr(20),
	}

	text := Explain(s, models.NicheRating{})

	// Only the first three metric clauses survive.
	assert.Contains(t, text, "graduation rate")
	assert.Contains(t, text, "first-year retention")
	assert.Contains(t, text, "alumni earnings")
	assert.NotContains(t, text, "annual cost")
	assert.NotContains(t, text, "acceptance rate")
	assert.Equal(t, 2, strings.Count(text, ";"), "three clauses joined by two separators")
}

func TestFormatDollars(t *testing.T) {
	assert.Equal(t, "70,000", formatDollars(70000))
	assert.Equal(t, "1,234,567", formatDollars(1234567))
	assert.Equal(t, "999", formatDollars(999))
	assert.Equal(t, "1,000", formatDollars(999.5))
}
