package service

import (
	"context"
	"testing"

	"sabdakrida_backend/internal/phoneme"
	"sabdakrida_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPronunciationService(t *testing.T) (*PronunciationService, *repository.PhonemeErrorRepository, *repository.ScoreRepository) {
	t.Helper()
	db := testDB(t)
	errRepo := repository.NewPhonemeErrorRepository(db)
	scores := repository.NewScoreRepository(db)
	svc := NewPronunciationService(nil, NewAssessmentService(), NewDrillService(errRepo), scores, nil)
	return svc, errRepo, scores
}

func TestAssessTranscriptRetroflexSlip(t *testing.T) {
	svc, errRepo, scores := newPronunciationService(t)
	ctx := context.Background()

	result, err := svc.AssessTranscript(ctx, 1, "tīkā", "ṭīkā", 0)
	require.NoError(t, err)

	assert.False(t, result.Correct)
	assert.InDelta(t, 0.75, result.Score, 1e-9)
	assert.Equal(t, "tīkā", result.Heard)
	assert.Equal(t, "tīkā", result.HeardIAST)
	assert.Equal(t, []phoneme.ErrorCategory{phoneme.RetroflexDental}, result.ErrorTypes)

	// the slip feeds the drill tracker
	rows, err := errRepo.All(1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, string(phoneme.RetroflexDental), rows[0].ErrorType)
	assert.Equal(t, 1, rows[0].Count)

	// and lands in the score log
	recent, err := scores.Recent(1, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "ṭīkā", recent[0].Target)
	assert.InDelta(t, 0.75, recent[0].Score, 1e-9)
	assert.False(t, recent[0].Correct)
}

func TestAssessTranscriptDevanagariTransliterated(t *testing.T) {
	svc, errRepo, _ := newPronunciationService(t)

	result, err := svc.AssessTranscript(context.Background(), 1, "गच्छति", "gacchati", 0)
	require.NoError(t, err)

	assert.True(t, result.Correct)
	assert.Equal(t, "गच्छति", result.Heard)
	assert.Equal(t, "gacchati", result.HeardIAST)
	assert.Equal(t, StrictPerfectCap, result.Score)

	rows, err := errRepo.All(1)
	require.NoError(t, err)
	assert.Empty(t, rows, "a clean attempt records no errors")
}

func TestAssessTranscriptDurationClipsLongVowels(t *testing.T) {
	svc, errRepo, _ := newPronunciationService(t)

	result, err := svc.AssessTranscript(context.Background(), 1, "ṭīkā", "ṭīkā", 0.2)
	require.NoError(t, err)

	assert.False(t, result.Correct)
	assert.Equal(t, DurationMissScore, result.Score)

	rows, err := errRepo.All(1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, string(phoneme.VowelLength), rows[0].ErrorType)
}

func TestAssessTranscriptAccumulatesAverage(t *testing.T) {
	svc, _, scores := newPronunciationService(t)
	ctx := context.Background()

	_, err := svc.AssessTranscript(ctx, 1, "gacchati", "gacchati", 0)
	require.NoError(t, err)
	_, err = svc.AssessTranscript(ctx, 1, "tīkā", "ṭīkā", 0)
	require.NoError(t, err)

	avg, err := scores.AverageScore(1)
	require.NoError(t, err)
	assert.InDelta(t, (StrictPerfectCap+0.75)/2, avg, 1e-9)

	avg, err = scores.AverageScore(42)
	require.NoError(t, err)
	assert.Zero(t, avg, "no rows means zero average")
}
