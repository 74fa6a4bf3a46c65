package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sabdakrida_backend/internal/config"
)

// Embedder maps texts to vectors. mode is "doc" or "query"; the
// embedding model uses asymmetric instructions for the two sides.
type Embedder interface {
	Embed(ctx context.Context, texts []string, mode string) ([][]float64, error)
	Dims() int
}

const (
	embedDocInstruction   = "Represent this Sanskrit grammar rule or sūtra for retrieval"
	embedQueryInstruction = "Given a question about Sanskrit grammar, retrieve the most relevant rule or explanation"
)

// EmbeddingService calls an OpenAI-compatible embeddings endpoint
// (Qwen3-Embedding-8B on Chutes).
type EmbeddingService struct {
	config config.EmbeddingConfig
	client *http.Client
}

func NewEmbeddingService(cfg config.EmbeddingConfig) *EmbeddingService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &EmbeddingService{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *EmbeddingService) Dims() int {
	return s.config.Dims
}

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

func (s *EmbeddingService) Embed(ctx context.Context, texts []string, mode string) ([][]float64, error) {
	if s.config.BaseURL == "" || s.config.APIKey == "" {
		return nil, fmt.Errorf("embedding service not configured")
	}

	instruction := embedDocInstruction
	if mode == "query" {
		instruction = embedQueryInstruction
	}
	prefixed := make([]string, len(texts))
	for i, t := range texts {
		prefixed[i] = fmt.Sprintf("Instruct: %s\nQuery: %s", instruction, t)
	}

	jsonData, err := json.Marshal(embeddingRequest{Input: prefixed, Model: s.config.Model})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/v1/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding request failed: %d %s", resp.StatusCode, string(body))
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([][]float64, len(parsed.Data))
	for i, d := range parsed.Data {
		out[i] = d.Embedding
	}
	return out, nil
}
