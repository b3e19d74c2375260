// Package config provides configuration loading and structs for the Shepherd server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool                   `yaml:"debug"`
	Server     ServerConfig           `yaml:"server"`
	Storage    StorageConfig          `yaml:"storage"`
	Corpus     CorpusConfig           `yaml:"corpus"`
	Embedding  EmbeddingConfig        `yaml:"embedding"`
	Retrieval  RetrievalConfig        `yaml:"retrieval"`
	RateLimit  RateLimitConfig        `yaml:"rate_limit"`
	Generation GenerationConfig       `yaml:"generation"`
	Fallbacks  map[string]FallbackSet `yaml:"fallbacks"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig holds the chat database path.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// CorpusConfig locates the per-language verse collections.
type CorpusConfig struct {
	Dir             string   `yaml:"dir"`
	Languages       []string `yaml:"languages"`
	DefaultLanguage string   `yaml:"default_language"`
}

// EmbeddingConfig holds embedder settings. Type selects the implementation:
// "onnx" for the real model, "mock" for credential-free development.
type EmbeddingConfig struct {
	Type       string `yaml:"type"`
	ModelPath  string `yaml:"model_path"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
	Workers    int    `yaml:"workers"`
}

// RetrievalConfig tunes verse lookup.
type RetrievalConfig struct {
	TopK              int     `yaml:"top_k"`
	MaxDistance       float64 `yaml:"max_distance"`
	FallbackToDefault bool    `yaml:"fallback_to_default"`
}

// RateLimitConfig tunes per-client admission.
type RateLimitConfig struct {
	WindowSeconds int `yaml:"window_seconds"`
	MaxRequests   int `yaml:"max_requests"`
}

// GenerationConfig holds the OpenAI-compatible generation service settings.
// APIKey may be left empty and supplied via the OPENAI_API_KEY environment
// variable instead.
type GenerationConfig struct {
	BaseURL          string  `yaml:"base_url"`
	Model            string  `yaml:"model"`
	APIKey           string  `yaml:"api_key"`
	TimeoutSeconds   int     `yaml:"timeout_seconds"`
	Temperature      float64 `yaml:"temperature"`
	SystemPrompt     string  `yaml:"system_prompt"`
	MinResponseChars int     `yaml:"min_response_chars"`
}

// FallbackSet holds the degraded-mode reply texts for one language.
type FallbackSet struct {
	Delayed     string `yaml:"delayed"`
	Rephrase    string `yaml:"rephrase"`
	Unavailable string `yaml:"unavailable"`
}

// Load reads and parses the config file at path, applies defaults, and
// expands paths. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Corpus.Dir = expandPath(cfg.Corpus.Dir, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
