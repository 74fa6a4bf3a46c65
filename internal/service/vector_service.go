package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"sabdakrida_backend/internal/config"
)

// Chunk is one retrieved corpus passage: a grammar rule, sūtra or
// drill item indexed in the vector store.
type Chunk struct {
	ID   string                 `json:"id"`
	Text string                 `json:"text"`
	Meta map[string]interface{} `json:"meta"`
}

// ChunkSearcher is the corpus lookup the game engine needs: nearest
// chunks to a centroid, and the stored embedding of a chunk.
type ChunkSearcher interface {
	Query(ctx context.Context, embedding []float64, n int, topics []string) ([]Chunk, error)
	GetEmbedding(ctx context.Context, chunkID string) ([]float64, error)
}

// VectorService talks to a Chroma server over HTTP. The collection id
// is resolved from its name once and cached.
type VectorService struct {
	config config.VectorConfig
	client *http.Client

	mu           sync.Mutex
	collectionID string
}

func NewVectorService(cfg config.VectorConfig) *VectorService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &VectorService{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *VectorService) resolveCollection(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collectionID != "" {
		return s.collectionID, nil
	}
	if s.config.BaseURL == "" {
		return "", fmt.Errorf("vector service not configured")
	}

	url := fmt.Sprintf("%s/api/v1/collections/%s", s.config.BaseURL, s.config.Collection)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("collection lookup failed: %d %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	s.collectionID = parsed.ID
	return s.collectionID, nil
}

func (s *VectorService) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	colID, err := s.resolveCollection(ctx)
	if err != nil {
		return err
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/api/v1/collections/%s/%s", s.config.BaseURL, colID, path)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("vector %s failed: %d %s", path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Query returns the n chunks nearest to the embedding, optionally
// restricted by topic metadata. Weakness targeting is one call: query
// with the weakness centroid, the neighbors are what to drill.
func (s *VectorService) Query(ctx context.Context, embedding []float64, n int, topics []string) ([]Chunk, error) {
	payload := map[string]interface{}{
		"query_embeddings": [][]float64{embedding},
		"n_results":        n,
		"include":          []string{"documents", "metadatas"},
	}
	if len(topics) > 0 {
		payload["where"] = map[string]interface{}{
			"topic": map[string]interface{}{"$in": topics},
		}
	}

	var parsed struct {
		IDs       [][]string                 `json:"ids"`
		Documents [][]string                 `json:"documents"`
		Metadatas [][]map[string]interface{} `json:"metadatas"`
	}
	if err := s.post(ctx, "query", payload, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.IDs) == 0 {
		return nil, nil
	}

	var out []Chunk
	for i, id := range parsed.IDs[0] {
		c := Chunk{ID: id}
		if len(parsed.Documents) > 0 && i < len(parsed.Documents[0]) {
			c.Text = parsed.Documents[0][i]
		}
		if len(parsed.Metadatas) > 0 && i < len(parsed.Metadatas[0]) {
			c.Meta = parsed.Metadatas[0][i]
		}
		out = append(out, c)
	}
	return out, nil
}

// GetEmbedding fetches the stored embedding of one chunk.
func (s *VectorService) GetEmbedding(ctx context.Context, chunkID string) ([]float64, error) {
	payload := map[string]interface{}{
		"ids":     []string{chunkID},
		"include": []string{"embeddings"},
	}
	var parsed struct {
		Embeddings [][]float64 `json:"embeddings"`
	}
	if err := s.post(ctx, "get", payload, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Embeddings) == 0 {
		return nil, nil
	}
	return parsed.Embeddings[0], nil
}
