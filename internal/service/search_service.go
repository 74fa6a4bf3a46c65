package service

import (
	"context"
	"fmt"
)

// SearchService answers free-text reference questions against the rule
// corpus: embed the question with the query-side instruction, then
// retrieve the nearest chunks.
type SearchService struct {
	embedder Embedder
	vector   ChunkSearcher
}

func NewSearchService(embedder Embedder, vector ChunkSearcher) *SearchService {
	return &SearchService{embedder: embedder, vector: vector}
}

// Search returns the n corpus chunks nearest the query. topics, when
// non-empty, restricts retrieval to those topics.
func (s *SearchService) Search(ctx context.Context, query string, n int, topics []string) ([]Chunk, error) {
	if s.embedder == nil || s.vector == nil {
		return nil, fmt.Errorf("corpus search not configured")
	}

	embeddings, err := s.embedder.Embed(ctx, []string{query}, "query")
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, fmt.Errorf("embed query: empty embedding")
	}

	return s.vector.Query(ctx, embeddings[0], n, topics)
}
