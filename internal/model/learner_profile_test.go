package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLearnerProfileDefaults(t *testing.T) {
	p := NewLearnerProfile(1, 8)

	assert.Len(t, p.WeaknessCentroid, 8)
	assert.Len(t, p.StrengthCentroid, 8)
	assert.InDelta(t, 0.5, p.AvgRecentScore, 1e-9)
	for _, topic := range DefaultTopics {
		assert.Zero(t, p.TopicMastery[topic])
	}
	assert.Equal(t, ChapterActive, p.ChapterProgress["ch2"])
	assert.Equal(t, ChapterLocked, p.ChapterProgress["ch3"])
	assert.Equal(t, "ch2", p.CurrentChapter())
}

func TestWeakAndStrongTopics(t *testing.T) {
	p := NewLearnerProfile(1, 4)
	p.TopicMastery["sandhi"] = 0.8
	p.TopicMastery["dhatu"] = 0.3

	weak := p.WeakTopics(0.5)
	assert.Contains(t, weak, "dhatu")
	assert.NotContains(t, weak, "sandhi")

	strong := p.StrongTopics(0.5)
	assert.Equal(t, []string{"sandhi"}, strong)
}

func TestTargetDifficultyRange(t *testing.T) {
	p := NewLearnerProfile(1, 4)

	p.AvgRecentScore = 0
	assert.InDelta(t, 0.2, p.TargetDifficulty(), 1e-9)
	p.AvgRecentScore = 1
	assert.InDelta(t, 1.0, p.TargetDifficulty(), 1e-9)
	p.AvgRecentScore = 0.5
	assert.InDelta(t, 0.6, p.TargetDifficulty(), 1e-9)
}

func TestProfileEncodeDecodeRoundTrip(t *testing.T) {
	p := NewLearnerProfile(7, 4)
	p.WeaknessCentroid = []float64{0.1, 0.2, 0.3, 0.4}
	p.TopicMastery["sandhi"] = 0.75
	p.RecentErrors = []RecentError{{ChunkID: "c1", LearnerAnswer: "x", Correct: false, Timestamp: time.Now().UTC()}}
	p.RecentScores = []float64{0, 1, 1}
	p.SeenDrillIDs["d1"] = true
	p.AvgRecentScore = 2.0 / 3.0

	got := p.Encode().Decode(4)

	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, p.WeaknessCentroid, got.WeaknessCentroid)
	assert.InDelta(t, 0.75, got.TopicMastery["sandhi"], 1e-9)
	require.Len(t, got.RecentErrors, 1)
	assert.Equal(t, "c1", got.RecentErrors[0].ChunkID)
	assert.Equal(t, p.RecentScores, got.RecentScores)
	assert.True(t, got.SeenDrillIDs["d1"])
	assert.InDelta(t, 2.0/3.0, got.AvgRecentScore, 1e-9)
}

func TestDecodeRecomputesAverageFromWindow(t *testing.T) {
	p := NewLearnerProfile(5, 4)
	p.RecentScores = make([]float64, RecentScoresCap)
	p.AvgRecentScore = 0

	got := p.Encode().Decode(4)

	assert.Zero(t, got.AvgRecentScore, "mean of an all-wrong window is 0")
	assert.InDelta(t, 0.2, got.TargetDifficulty(), 1e-9,
		"a struggling learner stays at the difficulty floor")

	// A stale stored average never overrides the window.
	r := p.Encode()
	r.AvgRecentScore = 0.9
	assert.Zero(t, r.Decode(4).AvgRecentScore)
}

func TestDecodeCorruptColumnsFallBackToDefaults(t *testing.T) {
	r := &LearnerProfileRecord{
		UserID:           3,
		WeaknessCentroid: "{corrupt",
		StrengthCentroid: "null",
		TopicMastery:     "[1,2,3]",
		RecentErrors:     "oops",
		RecentScores:     "",
		SeenDrillIDs:     "{}",
	}
	p := r.Decode(4)

	assert.Len(t, p.WeaknessCentroid, 4)
	for _, v := range p.WeaknessCentroid {
		assert.Zero(t, v)
	}
	assert.Equal(t, 0.0, p.TopicMastery["sandhi"], "corrupt mastery resets to defaults")
	assert.Empty(t, p.RecentErrors)
	assert.Empty(t, p.SeenDrillIDs)
	assert.InDelta(t, 0.5, p.AvgRecentScore, 1e-9, "empty window keeps the 0.5 prior")
}

func TestDecodeWrongDimensionCentroidReset(t *testing.T) {
	short, _ := json.Marshal([]float64{1, 2})
	r := &LearnerProfileRecord{UserID: 3, WeaknessCentroid: string(short)}
	p := r.Decode(4)
	assert.Len(t, p.WeaknessCentroid, 4)
	assert.Zero(t, p.WeaknessCentroid[0], "stored vector of the wrong dimension is discarded")
}

func TestDecodeTrimsOversizedWindows(t *testing.T) {
	var errs []RecentError
	for i := 0; i < RecentErrorsCap+20; i++ {
		errs = append(errs, RecentError{ChunkID: "c"})
	}
	scores := make([]float64, RecentScoresCap+5)
	errsJSON, _ := json.Marshal(errs)
	scoresJSON, _ := json.Marshal(scores)

	r := &LearnerProfileRecord{UserID: 3, RecentErrors: string(errsJSON), RecentScores: string(scoresJSON)}
	p := r.Decode(4)
	assert.Len(t, p.RecentErrors, RecentErrorsCap)
	assert.Len(t, p.RecentScores, RecentScoresCap)
}
