package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	AI        AIConfig
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Vector    VectorConfig    `mapstructure:"vector"`
	Data      DataConfig      `mapstructure:"data"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Driver    string // sqlite | mysql
	Path      string // sqlite file
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"` // local | minio
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

// AIConfig points at the Chutes-hosted chat-completions API used for
// rubric checking.
type AIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type EmbeddingConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	Dims           int    `mapstructure:"dims"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// SpeechConfig points at the ASR (Sanskrit Whisper) and TTS (Indic
// Parler) sidecar services.
type SpeechConfig struct {
	ASRBaseURL     string `mapstructure:"asr_base_url"`
	TTSBaseURL     string `mapstructure:"tts_base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type VectorConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Collection     string `mapstructure:"collection"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type DataConfig struct {
	DhatuPath string `mapstructure:"dhatu_path"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("SABDAKRIDA")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.driver", "DATABASE_DRIVER")
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// AI / embedding (Chutes)
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "CHUTES_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")
	viper.BindEnv("embedding.base_url", "EMBED_BASE_URL")
	viper.BindEnv("embedding.api_key", "CHUTES_API_KEY")
	viper.BindEnv("embedding.model", "EMBED_MODEL")
	viper.BindEnv("embedding.dims", "EMBED_DIMS")

	// Speech sidecars
	viper.BindEnv("speech.asr_base_url", "ASR_BASE_URL")
	viper.BindEnv("speech.tts_base_url", "TTS_BASE_URL")

	// Vector store
	viper.BindEnv("vector.base_url", "CHROMA_BASE_URL")
	viper.BindEnv("vector.collection", "CHROMA_COLLECTION")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if cfg.Embedding.Dims == 0 {
		cfg.Embedding.Dims = 4096 // Qwen3-Embedding-8B output size
	}

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}
