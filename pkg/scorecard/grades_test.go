package scorecard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrade(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{100, "A"},
		{93, "A"},
		{92.9, "A-"},
		{90, "A-"},
		{87, "B+"},
		{83, "B"},
		{80, "B-"},
		{77, "C+"},
		{73, "C"},
		{70, "C-"},
		{67, "D+"},
		{60, "D"},
		{59.9, "D-"},
		{0, "D-"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Grade(tt.score))
		})
	}
}

func TestGradeRank(t *testing.T) {
	assert.Equal(t, 0, GradeRank("A"))
	assert.Equal(t, 1, GradeRank("A-"))
	assert.Equal(t, 10, GradeRank("D-"))

	// Ordering is strict across the whole scale.
	for i := 1; i < len(gradeScale); i++ {
		assert.Less(t, GradeRank(gradeScale[i-1]), GradeRank(gradeScale[i]))
	}
}

func TestGradeRank_UnknownGetsMidpoint(t *testing.T) {
	assert.Equal(t, 5, GradeRank(""))
	assert.Equal(t, 5, GradeRank("F"))
	assert.Equal(t, 5, GradeRank("A+"))
}

func TestGradeRank_NormalizesInput(t *testing.T) {
	assert.Equal(t, GradeRank("B+"), GradeRank(" b+ "))
}
