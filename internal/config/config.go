package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	BackendDirect   = "direct"
	BackendTemporal = "temporal"
)

const (
	defaultHTTPPort        = "8080"
	defaultBackend         = BackendDirect
	defaultTemporalAddress = "localhost:7233"
	defaultTemporalNS      = "default"
	defaultTaskQueue       = "audit-reasoning-task-queue"
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultOpenAITimeout   = 120
	defaultOpenAIMaxRetry  = 3
	defaultMinioEndpoint   = "localhost:9000"
	defaultMinioBucket     = "audit-transcripts"
	defaultRequestBytes    = 64 * 1024
	defaultLogLevel        = "info"
)

type Config struct {
	HTTPPort          string
	PostgresDSN       string
	ReasoningBackend  string
	TemporalAddress   string
	TemporalNamespace string
	TemporalTaskQueue string
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAITimeoutSec  int
	OpenAIMaxRetry    int
	MinioEndpoint     string
	MinioAccessKey    string
	MinioSecretKey    string
	MinioBucket       string
	MinioUseSSL       bool
	TranscriptArchive bool
	WorkflowIDPrefix  string
	MaxRequestBytes   int64
	LogLevel          string
}

func Load() (Config, error) {
	cfg := Config{
		HTTPPort:          getenv("HTTP_PORT", defaultHTTPPort),
		PostgresDSN:       os.Getenv("POSTGRES_DSN"),
		ReasoningBackend:  strings.ToLower(getenv("REASONING_BACKEND", defaultBackend)),
		TemporalAddress:   getenv("TEMPORAL_ADDRESS", defaultTemporalAddress),
		TemporalNamespace: getenv("TEMPORAL_NAMESPACE", defaultTemporalNS),
		TemporalTaskQueue: getenv("TEMPORAL_TASK_QUEUE", defaultTaskQueue),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       getenv("OPENAI_MODEL", defaultOpenAIModel),
		OpenAITimeoutSec:  getenvInt("OPENAI_TIMEOUT_SEC", defaultOpenAITimeout),
		OpenAIMaxRetry:    getenvInt("OPENAI_MAX_RETRY", defaultOpenAIMaxRetry),
		MinioEndpoint:     getenv("MINIO_ENDPOINT", defaultMinioEndpoint),
		MinioAccessKey:    os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:    os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:       getenv("MINIO_BUCKET", defaultMinioBucket),
		MinioUseSSL:       getenvBool("MINIO_USE_SSL", false),
		TranscriptArchive: getenvBool("TRANSCRIPT_ARCHIVE", false),
		WorkflowIDPrefix:  getenv("WORKFLOW_ID_PREFIX", "audit-reasoning"),
		MaxRequestBytes:   int64(getenvInt("MAX_REQUEST_BYTES", defaultRequestBytes)),
		LogLevel:          getenv("LOG_LEVEL", defaultLogLevel),
	}

	if cfg.PostgresDSN == "" {
		return Config{}, fmt.Errorf("POSTGRES_DSN is required")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks values that have no safe fallback.
func (c Config) Validate() error {
	switch c.ReasoningBackend {
	case BackendDirect, BackendTemporal:
	default:
		return fmt.Errorf("REASONING_BACKEND must be %q or %q, got %q", BackendDirect, BackendTemporal, c.ReasoningBackend)
	}
	if c.OpenAITimeoutSec <= 0 {
		return fmt.Errorf("OPENAI_TIMEOUT_SEC must be positive")
	}
	if c.OpenAIMaxRetry < 1 {
		return fmt.Errorf("OPENAI_MAX_RETRY must be at least 1")
	}
	if c.MaxRequestBytes <= 0 {
		return fmt.Errorf("MAX_REQUEST_BYTES must be positive")
	}
	return nil
}

func getenv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
