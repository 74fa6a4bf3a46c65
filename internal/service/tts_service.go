package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"sabdakrida_backend/internal/config"

	"github.com/go-redis/redis/v8"
)

// TTS voice styles. The Parler sidecar conditions prosody on these.
const (
	StyleCommand   = "command"
	StylePraise    = "praise"
	StyleNarration = "narration"
)

// TTSService synthesizes teacher-voice Sanskrit audio via the Indic
// Parler sidecar. Outputs are cached by (text, style); the dialogue
// bank is small and fixed, so the hit rate is near total after warmup.
// Redis when available, in-process map otherwise.
type TTSService struct {
	config config.SpeechConfig
	client *http.Client
	redis  *redis.Client

	mu  sync.RWMutex
	mem map[string][]byte
}

func NewTTSService(cfg config.SpeechConfig, rdb *redis.Client) *TTSService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &TTSService{
		config: cfg,
		client: &http.Client{Timeout: timeout},
		redis:  rdb,
		mem:    make(map[string][]byte),
	}
}

func cacheKey(text, style string) string {
	sum := sha256.Sum256([]byte(text + "|" + style))
	return "tts:" + hex.EncodeToString(sum[:])
}

type ttsRequest struct {
	Text  string `json:"text"`
	Style string `json:"style"`
}

// Speak returns WAV audio for the given text and style.
func (s *TTSService) Speak(ctx context.Context, text, style string) ([]byte, error) {
	key := cacheKey(text, style)

	if audio, ok := s.cacheGet(ctx, key); ok {
		return audio, nil
	}

	if s.config.TTSBaseURL == "" {
		return nil, fmt.Errorf("tts service not configured")
	}

	jsonData, err := json.Marshal(ttsRequest{Text: text, Style: style})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.TTSBaseURL+"/speak", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts request failed: %d %s", resp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, audio)
	return audio, nil
}

func (s *TTSService) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.redis != nil {
		val, err := s.redis.Get(ctx, key).Bytes()
		if err == nil {
			return val, true
		}
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	audio, ok := s.mem[key]
	return audio, ok
}

func (s *TTSService) cacheSet(ctx context.Context, key string, audio []byte) {
	if s.redis != nil {
		s.redis.Set(ctx, key, audio, 7*24*time.Hour)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem[key] = audio
}
