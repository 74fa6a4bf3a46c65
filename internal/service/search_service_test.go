package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	embedding []float64
	lastMode  string
	lastTexts []string
	err       error
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string, mode string) ([][]float64, error) {
	s.lastMode = mode
	s.lastTexts = texts
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float64, len(texts))
	for i := range out {
		out[i] = s.embedding
	}
	return out, nil
}

func (s *stubEmbedder) Dims() int { return len(s.embedding) }

func TestSearchEmbedsQuerySide(t *testing.T) {
	embedder := &stubEmbedder{embedding: []float64{0.1, 0.2}}
	vector := &stubSearcher{chunks: []Chunk{{ID: "c1", Text: "sandhi rule"}}}
	svc := NewSearchService(embedder, vector)

	chunks, err := svc.Search(context.Background(), "what is sandhi?", 3, []string{"sandhi"})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "c1", chunks[0].ID)

	assert.Equal(t, "query", embedder.lastMode, "questions use the query-side instruction")
	assert.Equal(t, []string{"what is sandhi?"}, embedder.lastTexts)
	assert.Equal(t, []string{"sandhi"}, vector.lastTopics)
}

func TestSearchSurfacesEmbedderError(t *testing.T) {
	svc := NewSearchService(&stubEmbedder{err: errors.New("provider down")}, &stubSearcher{})
	_, err := svc.Search(context.Background(), "q", 3, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
}

func TestSearchUnconfigured(t *testing.T) {
	_, err := NewSearchService(nil, nil).Search(context.Background(), "q", 3, nil)
	assert.Error(t, err)
}
