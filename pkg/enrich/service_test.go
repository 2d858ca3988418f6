package enrich

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/aster/internal/repositories/team"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/scorecard"
)

type fakeStore struct {
	updates map[int64]team.EnrichmentUpdate
}

func (f *fakeStore) UpdateEnrichment(_ context.Context, teamID int64, update team.EnrichmentUpdate) error {
	if f.updates == nil {
		f.updates = make(map[int64]team.EnrichmentUpdate)
	}
	f.updates[teamID] = update
	return nil
}

type fakeSink struct {
	enriched  []string
	unmatched []string
}

func (f *fakeSink) EmitTeamEnriched(_ context.Context, _ string, t *models.Team, _, _ string) error {
	f.enriched = append(f.enriched, t.Name)
	return nil
}

func (f *fakeSink) EmitTeamUnmatched(_ context.Context, _ string, t *models.Team) error {
	f.unmatched = append(f.unmatched, t.Name)
	return nil
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newService(records []scorecard.Record, store *fakeStore, sink *fakeSink) *Service {
	logger := testLogger()
	idx := scorecard.BuildIndex(records, logger)
	return NewService(scorecard.NewMatcher(idx, logger), store, sink, logger)
}

func strPtr(s string) *string { return &s }

func floatPtr(v float64) *float64 { return &v }

func TestEnrichTeam_HighConfidencePinsUnitID(t *testing.T) {
	records := []scorecard.Record{
		{
			UnitID:         100,
			Name:           "Example State University",
			City:           "Springfield",
			State:          "IL",
			Zip:            "62701",
			GradRate4yr:    floatPtr(0.70),
			RetentionRate:  floatPtr(0.80),
			MedianEarnings: floatPtr(55000),
			AvgCost:        floatPtr(25000),
		},
	}
	store := &fakeStore{}
	sink := &fakeSink{}
	svc := newService(records, store, sink)

	tm := &models.Team{ID: 7, Name: "Example State University"}
	result, err := svc.EnrichTeam(context.Background(), "run-1", tm)
	require.NoError(t, err)

	assert.True(t, result.Matched)
	assert.Equal(t, scorecard.ConfidenceHigh, result.Confidence)
	assert.Equal(t, "Example State University", result.MatchedName)

	update, ok := store.updates[7]
	require.True(t, ok)
	assert.Equal(t, scorecard.ConfidenceHigh, update.ScorecardConfidence)
	require.NotNil(t, update.ScorecardUnitID)
	assert.Equal(t, int64(100), *update.ScorecardUnitID)
	require.NotNil(t, update.City)
	assert.Equal(t, "Springfield", *update.City)
	require.NotNil(t, update.GraduationRate)
	assert.InDelta(t, 70, *update.GraduationRate, 1e-9)
	require.NotNil(t, update.ScoreExplanation)
	assert.NotEmpty(t, *update.ScoreExplanation)
	require.NotNil(t, update.NicheJSON)
	assert.Contains(t, *update.NicheJSON, "overall_grade")

	assert.Equal(t, []string{"Example State University"}, sink.enriched)
	assert.Empty(t, sink.unmatched)
}

func TestEnrichTeam_OverrideUnitID(t *testing.T) {
	records := []scorecard.Record{
		{UnitID: 100, Name: "Example State University"},
		{UnitID: 200, Name: "Coastal Institute"},
	}
	store := &fakeStore{}
	sink := &fakeSink{}
	svc := newService(records, store, sink)

	pinned := int64(200)
	tm := &models.Team{ID: 9, Name: "Example State University", ScorecardUnitID: &pinned}

	result, err := svc.EnrichTeam(context.Background(), "run-1", tm)
	require.NoError(t, err)

	assert.Equal(t, scorecard.ConfidenceOverride, result.Confidence)
	assert.Equal(t, "Coastal Institute", result.MatchedName)
}

func TestEnrichTeam_AliasMatch(t *testing.T) {
	records := []scorecard.Record{
		{UnitID: 300, Name: "Saint Example University"},
	}
	store := &fakeStore{}
	sink := &fakeSink{}
	svc := newService(records, store, sink)

	tm := &models.Team{
		ID:          11,
		Name:        "Example Saints",
		ShortName:   strPtr("Saints"),
		AliasesJSON: []byte(`["Saint Example University"]`),
	}

	result, err := svc.EnrichTeam(context.Background(), "run-1", tm)
	require.NoError(t, err)
	assert.Equal(t, scorecard.ConfidenceHigh, result.Confidence)
}

func TestEnrichTeam_Unmatched(t *testing.T) {
	records := []scorecard.Record{
		{UnitID: 100, Name: "Completely Different Institution"},
	}
	store := &fakeStore{}
	sink := &fakeSink{}
	svc := newService(records, store, sink)

	tm := &models.Team{ID: 3, Name: "Nowhere Tech"}
	result, err := svc.EnrichTeam(context.Background(), "run-1", tm)
	require.NoError(t, err)

	assert.False(t, result.Matched)
	assert.Equal(t, scorecard.ConfidenceUnmatched, result.Confidence)

	update, ok := store.updates[3]
	require.True(t, ok)
	assert.Equal(t, scorecard.ConfidenceUnmatched, update.ScorecardConfidence)
	assert.Nil(t, update.ScorecardUnitID)

	assert.Equal(t, []string{"Nowhere Tech"}, sink.unmatched)
	assert.Empty(t, sink.enriched)
}

func TestEnrichTeam_ManualGradesPreserved(t *testing.T) {
	records := []scorecard.Record{
		{
			UnitID:         100,
			Name:           "Example State University",
			GradRate4yr:    floatPtr(0.50),
			MedianEarnings: floatPtr(35000),
		},
	}
	store := &fakeStore{}
	sink := &fakeSink{}
	svc := newService(records, store, sink)

	tm := &models.Team{
		ID:        5,
		Name:      "Example State University",
		NicheJSON: []byte(`{"overall_grade":"A"}`),
	}

	_, err := svc.EnrichTeam(context.Background(), "run-1", tm)
	require.NoError(t, err)

	update := store.updates[5]
	require.NotNil(t, update.NicheJSON)
	assert.Contains(t, *update.NicheJSON, `"overall_grade":"A"`)
}

func TestCandidateNames(t *testing.T) {
	tm := &models.Team{
		Name:        "Example State University",
		ShortName:   strPtr("Example State"),
		AliasesJSON: []byte(`["Example State University","ESU"]`),
	}

	assert.Equal(t,
		[]string{"Example State University", "Example State", "ESU"},
		candidateNames(tm))
}
