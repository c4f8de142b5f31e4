package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// StorageBackend selects where screenshots are fetched from.
type StorageBackend string

const (
	StorageHTTP  StorageBackend = "http"
	StorageAzure StorageBackend = "azure"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	AnalysisTimeout    time.Duration
	MaxRequestBodySize int64

	// Pipeline tuning
	MaxColors    int // k for dominant-color clustering
	BatchWorkers int // 1 = strictly sequential batches

	// Advanced OCR
	OCRLanguage string

	// Screenshot source
	Storage          StorageBackend
	AzureAccountName string
	AzureAccountKey  string

	// Creative insight generation
	OllamaURL   string
	OllamaModel string
}

func (c *Config) ServerAddress() string {
	return net.JoinHostPort(strings.TrimSpace(c.Host), strings.TrimSpace(c.Port))
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		AnalysisTimeout:    parseDurationOrDefault("ANALYSIS_TIMEOUT", 30*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 1*1024*1024), // 1MB, requests carry URLs only
		MaxColors:          int(parseIntOrDefault("MAX_COLORS", 5)),
		BatchWorkers:       int(parseIntOrDefault("BATCH_WORKERS", 1)),
		OCRLanguage:        getEnvOrDefault("OCR_LANGUAGE", "eng"),
		Storage:            StorageBackend(getEnvOrDefault("STORAGE_BACKEND", string(StorageHTTP))),
		AzureAccountName:   os.Getenv("AZURE_ACCOUNT_NAME"),
		AzureAccountKey:    os.Getenv("AZURE_ACCOUNT_KEY"),
		OllamaURL:          getEnvOrDefault("OLLAMA_URL", ""),
		OllamaModel:        getEnvOrDefault("OLLAMA_MODEL", "llama3.2"),
	}

	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.ImageFetchTimeout <= 0 || cfg.AnalysisTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, analysis=%s)",
			cfg.RequestTimeout, cfg.ImageFetchTimeout, cfg.AnalysisTimeout)
	}
	if cfg.MaxColors < 1 {
		return nil, fmt.Errorf("MAX_COLORS must be >= 1 (got %d)", cfg.MaxColors)
	}
	if cfg.BatchWorkers < 1 {
		return nil, fmt.Errorf("BATCH_WORKERS must be >= 1 (got %d)", cfg.BatchWorkers)
	}
	switch cfg.Storage {
	case StorageHTTP:
	case StorageAzure:
		if cfg.AzureAccountName == "" || cfg.AzureAccountKey == "" {
			return nil, fmt.Errorf("azure storage requires AZURE_ACCOUNT_NAME and AZURE_ACCOUNT_KEY")
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND: %q", cfg.Storage)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
