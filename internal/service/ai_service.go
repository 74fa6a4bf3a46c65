package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sabdakrida_backend/internal/config"
)

// RubricChecker grades a learner answer against rubric criteria,
// returning how many criteria were met.
type RubricChecker interface {
	CheckRubric(ctx context.Context, answer string, criteria []string) (met, total int, err error)
}

// AIService talks to an OpenAI-compatible chat-completions endpoint
// (Chutes-hosted). Used only for rubric checking; all production
// grammar assessment stays deterministic.
type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Available reports whether the service is configured with an API key.
func (s *AIService) Available() bool {
	return s.config.APIKey != "" && s.config.BaseURL != ""
}

type aiChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []aiChatMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message aiChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Chat sends a single-turn prompt and returns the model's reply.
func (s *AIService) Chat(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       s.config.Model,
		Messages:    []aiChatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: 0,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("chat completion: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return parsed.Choices[0].Message.Content, nil
}

// CheckRubric asks the model to grade each criterion with a Y or N
// line, in order, and counts the Y lines. The structured one-character
// protocol keeps parsing trivial and the token budget tiny.
func (s *AIService) CheckRubric(ctx context.Context, answer string, criteria []string) (int, int, error) {
	var b strings.Builder
	b.WriteString("You are assessing a Sanskrit learner's conceptual understanding.\n\n")
	b.WriteString("RUBRIC (check each):\n")
	for _, c := range criteria {
		b.WriteString("- " + c + "\n")
	}
	b.WriteString("\nLEARNER RESPONSE:\n")
	b.WriteString(answer)
	b.WriteString("\n\nFor each rubric item, respond ONLY with Y or N. One character per line, in order.\nExample:\nY\nN\nY\n")

	content, err := s.Chat(ctx, b.String(), 20)
	if err != nil {
		return 0, 0, err
	}

	hits := 0
	lines := 0
	for _, line := range strings.Split(content, "\n") {
		line = strings.ToUpper(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		lines++
		if strings.HasPrefix(line, "Y") {
			hits++
		}
	}
	total := len(criteria)
	if lines > 0 && lines < total {
		total = lines
	}
	return hits, total, nil
}
