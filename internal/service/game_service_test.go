package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"sabdakrida_backend/internal/model"
	"sabdakrida_backend/internal/repository"
	"sabdakrida_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSearcher serves a fixed chunk list and one embedding per chunk.
type stubSearcher struct {
	chunks     []Chunk
	embedding  []float64
	queryErr   error
	lastTopics []string
}

func (s *stubSearcher) Query(ctx context.Context, embedding []float64, n int, topics []string) ([]Chunk, error) {
	s.lastTopics = topics
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	if n > len(s.chunks) {
		n = len(s.chunks)
	}
	return s.chunks[:n], nil
}

func (s *stubSearcher) GetEmbedding(ctx context.Context, chunkID string) ([]float64, error) {
	if s.embedding == nil {
		return nil, errors.New("not indexed")
	}
	return s.embedding, nil
}

func newGameService(t *testing.T, vector ChunkSearcher) (*GameService, *ProfileService) {
	t.Helper()
	profiles := NewProfileService(repository.NewProfileRepository(testDB(t)), testDims)
	return NewGameService(testGrammarService(t), profiles, vector), profiles
}

func bhuChallenge(t *testing.T, g *GameService) *model.Challenge {
	t.Helper()
	d, ok := g.grammar.FindByID("dhatu-bhu")
	require.True(t, ok)
	return &model.Challenge{
		ID:   "dhatu_test",
		Kind: model.KindDhatuDash,
		DhatuDash: &model.DhatuDashState{
			RootID:      d.ID,
			RootIAST:    d.IAST,
			RootMeaning: d.Meaning,
			ValidForms:  ValidForms(d),
			Tree:        []string{d.IAST},
		},
	}
}

func TestNewDhatuDashStartsFreshGame(t *testing.T) {
	svc, _ := newGameService(t, nil)

	ch, err := svc.NewDhatuDash(1, nil)
	require.NoError(t, err)
	assert.Equal(t, model.KindDhatuDash, ch.Kind)
	require.NoError(t, ch.Validate())
	require.NotNil(t, ch.DhatuDash)
	assert.Len(t, ch.DhatuDash.Tree, 1, "tree starts with just the root")
	assert.Contains(t, ch.Prompt, ch.DhatuDash.RootIAST)
	assert.Equal(t, "dhatu", ch.Topic)
	assert.InDelta(t, 0.6, ch.Difficulty, 1e-9, "fresh learner gets mid-range difficulty")
}

func TestEvaluateDhatuDashValidFormGrowsTree(t *testing.T) {
	vector := &stubSearcher{embedding: []float64{1, 0, 0, 0}}
	svc, profiles := newGameService(t, vector)
	ch := bhuChallenge(t, svc)

	result, next, err := svc.EvaluateDhatuDash(context.Background(), 1, ch, "bhavati")
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Contains(t, result.Explanation, "he/she/it becomes")

	require.NotNil(t, next)
	require.NotNil(t, next.DhatuDash)
	assert.Contains(t, next.DhatuDash.Tree, "bhavati")
	assert.NotContains(t, next.Prompt, "exhausted")

	// the outcome moved the strength centroid via the chunk embedding
	p, err := profiles.Get(1)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, p.StrengthCentroid[0], 1e-9)
	require.Len(t, p.RecentErrors, 1)
	assert.True(t, p.RecentErrors[0].Correct)
}

func TestEvaluateDhatuDashRepeatRejected(t *testing.T) {
	svc, _ := newGameService(t, nil)
	ch := bhuChallenge(t, svc)
	ch.DhatuDash.Tree = append(ch.DhatuDash.Tree, "bhavati")

	result, next, err := svc.EvaluateDhatuDash(context.Background(), 1, ch, "Bhavati ")
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Contains(t, result.Explanation, "already used")
	assert.Len(t, next.DhatuDash.Tree, 2, "tree unchanged")
}

func TestEvaluateDhatuDashInvalidForm(t *testing.T) {
	svc, profiles := newGameService(t, nil)
	ch := bhuChallenge(t, svc)

	result, _, err := svc.EvaluateDhatuDash(context.Background(), 1, ch, "gacchati")
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Contains(t, result.Explanation, "not a valid")
	assert.Contains(t, result.Explanation, "bhū")

	// wrong answers still move the profile even with no vector store
	p, err := profiles.Get(1)
	require.NoError(t, err)
	require.Len(t, p.RecentErrors, 1)
	assert.False(t, p.RecentErrors[0].Correct)
}

func TestEvaluateDhatuDashExhaustedRoot(t *testing.T) {
	svc, _ := newGameService(t, nil)
	ch := bhuChallenge(t, svc)
	ch.DhatuDash.Tree = append([]string{}, ch.DhatuDash.ValidForms...)

	result, _, err := svc.EvaluateDhatuDash(context.Background(), 1, ch, "bhavati")
	require.NoError(t, err)
	assert.True(t, result.Exhausted)
	assert.False(t, result.Correct)
}

func TestEvaluateDhatuDashRejectsMalformedChallenge(t *testing.T) {
	svc, _ := newGameService(t, nil)
	ctx := context.Background()

	_, _, err := svc.EvaluateDhatuDash(ctx, 1, &model.Challenge{Kind: model.KindDhatuDash}, "x")
	assert.True(t, errors.Is(err, util.ErrChallengeNotFound), "payload missing")

	_, _, err = svc.EvaluateDhatuDash(ctx, 1, &model.Challenge{
		Kind:      model.KindDrillWord,
		DrillWord: &model.DrillWordState{Word: "ṭīkā"},
	}, "x")
	assert.True(t, errors.Is(err, util.ErrChallengeNotFound), "wrong kind")
}

func TestWeaknessDrillsExcludesSeen(t *testing.T) {
	vector := &stubSearcher{}
	for i := 1; i <= 6; i++ {
		vector.chunks = append(vector.chunks, Chunk{ID: fmt.Sprintf("c%d", i), Text: fmt.Sprintf("chunk %d", i)})
	}
	svc, profiles := newGameService(t, vector)
	ctx := context.Background()

	first, err := svc.WeaknessDrills(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "c1", first[0].ID)
	assert.Equal(t, "c2", first[1].ID)

	second, err := svc.WeaknessDrills(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "c3", second[0].ID)
	assert.Equal(t, "c4", second[1].ID)

	p, err := profiles.Get(1)
	require.NoError(t, err)
	assert.Len(t, p.SeenDrillIDs, 4)
	assert.NotEmpty(t, vector.lastTopics, "weak topics constrain the query")
}

func TestWeaknessDrillsDegradesWhenStoreDown(t *testing.T) {
	svc, _ := newGameService(t, &stubSearcher{queryErr: errors.New("chroma down")})
	out, err := svc.WeaknessDrills(context.Background(), 1, 3)
	require.NoError(t, err, "retrieval outage is not a learner-facing error")
	assert.Empty(t, out)

	svc, _ = newGameService(t, nil)
	out, err = svc.WeaknessDrills(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestUnusedForms(t *testing.T) {
	state := &model.DhatuDashState{
		ValidForms: []string{"bhū", "bhavati", "bhūta"},
		Tree:       []string{"bhū", "Bhavati"},
	}
	assert.Equal(t, []string{"bhūta"}, unusedForms(state))
}
