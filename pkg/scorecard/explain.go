package scorecard

import (
	"fmt"
	"strings"

	"github.com/Ramsey-B/aster/pkg/models"
)

const maxMetricClauses = 3

// Explain produces a human-readable account of why the computed grades look
// the way they do, and how they relate to the externally published Niche
// grades when those are present. Returns the empty string when nothing can be
// said.
func Explain(scores Scores, niche models.NicheRating) string {
	var overallGrade, academicGrade, valueGrade string
	if scores.Overall != nil {
		overallGrade = Grade(*scores.Overall)
	}
	if scores.Academic != nil {
		academicGrade = Grade(*scores.Academic)
	}
	if scores.Value != nil {
		valueGrade = Grade(*scores.Value)
	}

	nicheOverall := strings.TrimSpace(niche.OverallGrade)

	var pieces []string

	if overallGrade != "" {
		pieces = append(pieces, fmt.Sprintf(
			"Our Scorecard-based model rates this school around a %s overall.", overallGrade))
	}

	if academicGrade != "" || valueGrade != "" {
		var subBits []string
		if academicGrade != "" {
			subBits = append(subBits, fmt.Sprintf("%s for academics", academicGrade))
		}
		if valueGrade != "" {
			subBits = append(subBits, fmt.Sprintf("%s for value", valueGrade))
		}
		pieces = append(pieces, "That breaks down to "+strings.Join(subBits, " and ")+".")
	}

	if overallGrade != "" && nicheOverall != "" {
		// Positive diff means our model grades harsher than Niche.
		diff := GradeRank(overallGrade) - GradeRank(nicheOverall)
		switch {
		case diff >= 2:
			pieces = append(pieces, fmt.Sprintf(
				"Niche lists the overall experience closer to a %s, "+
					"but federal outcome data (graduation, cost, and earnings) make it look weaker in this model.",
				nicheOverall))
		case diff <= -2:
			pieces = append(pieces, fmt.Sprintf(
				"Niche lists the overall experience around a %s, "+
					"but based on Scorecard outcomes this model sees somewhat stronger performance.",
				nicheOverall))
		default:
			pieces = append(pieces, fmt.Sprintf(
				"Niche’s overall grade of %s is broadly in line with this Scorecard-based estimate.",
				nicheOverall))
		}
	}

	var metricBits []string

	if grad := scores.GradRate; grad != nil {
		switch {
		case *grad >= 75:
			metricBits = append(metricBits, fmt.Sprintf("graduation rate is solid at roughly %.0f%%", *grad))
		case *grad >= 60:
			metricBits = append(metricBits, fmt.Sprintf("graduation rate is moderate at about %.0f%%", *grad))
		default:
			metricBits = append(metricBits, fmt.Sprintf(
				"graduation rate is on the low side at around %.0f%%, which drags down academics", *grad))
		}
	}

	if retention := scores.RetentionRate; retention != nil {
		if *retention >= 85 {
			metricBits = append(metricBits, fmt.Sprintf("first-year retention is strong at about %.0f%%", *retention))
		} else if *retention < 75 {
			metricBits = append(metricBits, fmt.Sprintf("first-year retention is somewhat low at about %.0f%%", *retention))
		}
	}

	if salary := scores.MedianEarnings; salary != nil {
		switch {
		case *salary >= 65000:
			metricBits = append(metricBits, fmt.Sprintf(
				"alumni earnings are high, with median 10-year salaries around $%s", formatDollars(*salary)))
		case *salary >= 50000:
			metricBits = append(metricBits, fmt.Sprintf(
				"alumni earnings are decent, with median 10-year salaries around $%s", formatDollars(*salary)))
		default:
			metricBits = append(metricBits, fmt.Sprintf(
				"median 10-year earnings are relatively modest at about $%s", formatDollars(*salary)))
		}
	}

	if cost := scores.AvgCost; cost != nil {
		switch {
		case *cost <= 20000:
			metricBits = append(metricBits, fmt.Sprintf(
				"average annual cost after aid is relatively low at roughly $%s, helping the value score", formatDollars(*cost)))
		case *cost <= 35000:
			metricBits = append(metricBits, fmt.Sprintf(
				"average annual cost after aid is mid-range at about $%s", formatDollars(*cost)))
		default:
			metricBits = append(metricBits, fmt.Sprintf(
				"average annual cost after aid is on the higher side at roughly $%s, which hurts value", formatDollars(*cost)))
		}
	}

	if acceptance := scores.AdmissionRate; acceptance != nil {
		if *acceptance <= 30 {
			metricBits = append(metricBits, fmt.Sprintf(
				"admission is fairly selective with an acceptance rate near %.0f%%", *acceptance))
		} else if *acceptance >= 75 {
			metricBits = append(metricBits, fmt.Sprintf(
				"admission is relatively open with an acceptance rate around %.0f%%", *acceptance))
		}
	}

	if len(metricBits) > 0 {
		if len(metricBits) > maxMetricClauses {
			metricBits = metricBits[:maxMetricClauses]
		}
		pieces = append(pieces, "Key drivers behind these grades: "+strings.Join(metricBits, "; ")+".")
	}

	return strings.TrimSpace(strings.Join(pieces, " "))
}

// formatDollars rounds to a whole number and inserts comma separators.
func formatDollars(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}
