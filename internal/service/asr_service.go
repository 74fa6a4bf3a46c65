package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"sabdakrida_backend/internal/config"
)

// Transcriber converts a 16 kHz mono WAV file to text. The Sanskrit
// Whisper sidecar returns Devanagari.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (string, error)
}

// ASRService posts audio to the whisper sidecar. Its confusion errors
// are the diagnostic signal, so no post-correction is applied.
type ASRService struct {
	config config.SpeechConfig
	client *http.Client
}

func NewASRService(cfg config.SpeechConfig) *ASRService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ASRService{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type transcribeResponse struct {
	Text string `json:"text"`
}

func (s *ASRService) Transcribe(ctx context.Context, wavPath string) (string, error) {
	if s.config.ASRBaseURL == "" {
		return "", fmt.Errorf("asr service not configured")
	}

	f, err := os.Open(wavPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(wavPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := w.WriteField("language", "sa"); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.ASRBaseURL+"/transcribe", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcription failed: %d %s", resp.StatusCode, string(body))
	}

	var parsed transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.Text, nil
}
