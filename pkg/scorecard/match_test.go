package scorecard

import (
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func testRecords() []Record {
	return []Record{
		{UnitID: 100, Name: "Example State University"},
		{UnitID: 200, Name: "Coastal Institute of Technology"},
		{UnitID: 300, Name: "Northern Plains College"},
	}
}

func TestTokenSetSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical", "example tech", "example tech", 1.0},
		{"disjoint", "alpha beta", "gamma delta", 0.0},
		{"partial overlap", "example north", "example south", 1.0 / 3.0},
		{"empty left", "", "example", 0.0},
		{"empty both", "", "", 0.0},
		{"duplicate tokens collapse", "a a b", "a b", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, TokenSetSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestTokenSetSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"example north", "example south"},
		{"coastal tech", "coastal"},
		{"a b c", "b c d"},
	}
	for _, p := range pairs {
		assert.Equal(t, TokenSetSimilarity(p[0], p[1]), TokenSetSimilarity(p[1], p[0]))
	}
}

func TestMatcher_OverrideUnitID(t *testing.T) {
	idx := BuildIndex(testRecords(), testLogger())
	m := NewMatcher(idx, testLogger())

	result := m.Match(200, []string{"Totally Unrelated Name"})

	require.NotNil(t, result.Record)
	assert.Equal(t, ConfidenceOverride, result.Confidence)
	assert.Equal(t, 200, result.Record.UnitID)
	assert.Empty(t, result.MatchedName)
}

func TestMatcher_OverrideNotFoundFallsThrough(t *testing.T) {
	idx := BuildIndex(testRecords(), testLogger())
	m := NewMatcher(idx, testLogger())

	result := m.Match(999, []string{"Example State University"})

	require.NotNil(t, result.Record)
	assert.Equal(t, ConfidenceHigh, result.Confidence)
	assert.Equal(t, 100, result.Record.UnitID)
}

func TestMatcher_ExactMatch(t *testing.T) {
	idx := BuildIndex(testRecords(), testLogger())
	m := NewMatcher(idx, testLogger())

	// Stopword and punctuation differences still hit the exact path.
	result := m.Match(0, []string{"The Example University"})

	require.NotNil(t, result.Record)
	assert.Equal(t, ConfidenceHigh, result.Confidence)
	assert.Equal(t, 100, result.Record.UnitID)
	assert.Equal(t, "The Example University", result.MatchedName)
	assert.Equal(t, 1.0, result.Similarity)
}

func TestMatcher_ExactMatchNormalizesWhitespace(t *testing.T) {
	idx := BuildIndex(testRecords(), testLogger())
	m := NewMatcher(idx, testLogger())

	result := m.Match(0, []string{"  Example State University \t"})

	require.NotNil(t, result.Record)
	assert.Equal(t, ConfidenceHigh, result.Confidence)
	assert.Equal(t, 100, result.Record.UnitID)
}

func TestMatcher_ExactBeatsFuzzy(t *testing.T) {
	records := []Record{
		{UnitID: 1, Name: "Example University North"},
		{UnitID: 2, Name: "Example University"},
	}
	idx := BuildIndex(records, testLogger())
	m := NewMatcher(idx, testLogger())

	result := m.Match(0, []string{"Example"})

	require.NotNil(t, result.Record)
	assert.Equal(t, ConfidenceHigh, result.Confidence)
	assert.Equal(t, 2, result.Record.UnitID)
}

func TestMatcher_FuzzyTiers(t *testing.T) {
	records := []Record{
		{UnitID: 1, Name: "Alpha Beta Gamma Delta Epsilon"},
	}
	idx := BuildIndex(records, testLogger())
	m := NewMatcher(idx, testLogger())

	t.Run("medium at 0.80", func(t *testing.T) {
		// 4 of 5 tokens shared: similarity 4/5.
		result := m.Match(0, []string{"Alpha Beta Gamma Delta"})
		require.NotNil(t, result.Record)
		assert.Equal(t, ConfidenceMedium, result.Confidence)
		assert.InDelta(t, 0.8, result.Similarity, 1e-9)
	})

	t.Run("low between floor and 0.80", func(t *testing.T) {
		// 3 of 5 tokens shared: similarity 3/5.
		result := m.Match(0, []string{"Alpha Beta Gamma"})
		require.NotNil(t, result.Record)
		assert.Equal(t, ConfidenceLow, result.Confidence)
		assert.InDelta(t, 0.6, result.Similarity, 1e-9)
	})

	t.Run("unmatched below floor", func(t *testing.T) {
		// 2 of 5 tokens shared: similarity 2/5.
		result := m.Match(0, []string{"Alpha Beta"})
		assert.Nil(t, result.Record)
		assert.Equal(t, ConfidenceUnmatched, result.Confidence)
	})
}

func TestMatcher_FuzzyTieKeepsFirst(t *testing.T) {
	records := []Record{
		{UnitID: 1, Name: "Alpha Beta Gamma North"},
		{UnitID: 2, Name: "Alpha Beta Gamma South"},
	}
	idx := BuildIndex(records, testLogger())
	m := NewMatcher(idx, testLogger())

	// 3 of 5 union tokens shared with both records: similarity 0.6 each.
	result := m.Match(0, []string{"Alpha Beta Gamma East"})

	require.NotNil(t, result.Record)
	assert.Equal(t, 1, result.Record.UnitID)
	assert.InDelta(t, 0.6, result.Similarity, 1e-9)
}

func TestMatcher_FuzzyTieAcrossCandidatesKeepsFirstRecord(t *testing.T) {
	records := []Record{
		{UnitID: 1, Name: "Alpha Beta Gamma North"},
		{UnitID: 2, Name: "Alpha Beta Gamma South"},
	}
	idx := BuildIndex(records, testLogger())
	m := NewMatcher(idx, testLogger())

	// Each candidate scores 0.6 against a different record. Candidate order
	// must not decide the tie; record order does.
	result := m.Match(0, []string{"Beta Gamma South East", "Beta Gamma North East"})

	require.NotNil(t, result.Record)
	assert.Equal(t, 1, result.Record.UnitID)
	assert.Equal(t, "Beta Gamma North East", result.MatchedName)
	assert.InDelta(t, 0.6, result.Similarity, 1e-9)
}

func TestMatcher_EmptyIndexNeverMatches(t *testing.T) {
	idx := BuildIndex(nil, testLogger())
	m := NewMatcher(idx, testLogger())

	result := m.Match(100, []string{"Example State University"})

	assert.Nil(t, result.Record)
	assert.Equal(t, ConfidenceUnmatched, result.Confidence)
}

func TestMatcher_NoUsableCandidates(t *testing.T) {
	idx := BuildIndex(testRecords(), testLogger())
	m := NewMatcher(idx, testLogger())

	result := m.Match(0, []string{"", "The University of"})

	assert.Nil(t, result.Record)
	assert.Equal(t, ConfidenceUnmatched, result.Confidence)
}

func TestBuildIndex_SkipsUnnormalizableNames(t *testing.T) {
	records := []Record{
		{UnitID: 1, Name: "The University"},
		{UnitID: 2, Name: "Example Tech"},
	}
	idx := BuildIndex(records, testLogger())

	assert.Equal(t, 1, idx.Size())
	assert.Nil(t, idx.ByNormalizedName(""))
	// Skipped rows do not resolve by unitid either.
	assert.Nil(t, idx.ByUnitID(1))
	assert.NotNil(t, idx.ByUnitID(2))
}

func TestMatcher_OverrideToSkippedRecordUnmatched(t *testing.T) {
	records := []Record{
		{UnitID: 5, Name: "The University"},
	}
	idx := BuildIndex(records, testLogger())
	m := NewMatcher(idx, testLogger())

	result := m.Match(5, []string{"The University"})

	assert.Nil(t, result.Record)
	assert.Equal(t, ConfidenceUnmatched, result.Confidence)
}

func TestBuildIndex_FirstSeenWinsOnCollision(t *testing.T) {
	records := []Record{
		{UnitID: 1, Name: "Example University"},
		{UnitID: 2, Name: "The Example College"},
	}
	idx := BuildIndex(records, testLogger())

	rec := idx.ByNormalizedName("example")
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.UnitID)
}
