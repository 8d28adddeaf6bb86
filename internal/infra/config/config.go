// Package config provides application configuration for CourseMind.
// Precedence: built-in defaults, then an optional YAML file, then environment variables,
// so the binary runs locally with no setup and deployments can pin a file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the CourseMind service.
type Config struct {
	// Storage
	DBPath string `yaml:"db_path"` // COURSEMIND_DB, default "coursemind.db"

	// HTTP
	HTTPHost string `yaml:"http_host"` // COURSEMIND_HTTP_HOST, default "0.0.0.0"
	HTTPPort int    `yaml:"http_port"` // COURSEMIND_HTTP_PORT, default 8000

	// Generation backend (Anthropic)
	AnthropicModel string `yaml:"anthropic_model"` // ANTHROPIC_MODEL, default "claude-sonnet-4-20250514"

	// Embedding backend (Ollama)
	OllamaBaseURL    string `yaml:"ollama_base_url"`    // OLLAMA_BASE_URL, default "http://localhost:11434"
	OllamaEmbedModel string `yaml:"ollama_embed_model"` // OLLAMA_EMBED_MODEL, default "nomic-embed-text"

	// Retrieval and ingestion
	DocsDir      string `yaml:"docs_dir"`      // COURSEMIND_DOCS, default "docs"
	MaxResults   int    `yaml:"max_results"`   // COURSEMIND_MAX_RESULTS, default 5
	ChunkSize    int    `yaml:"chunk_size"`    // COURSEMIND_CHUNK_SIZE, default 160 words
	ChunkOverlap int    `yaml:"chunk_overlap"` // COURSEMIND_CHUNK_OVERLAP, default 20 words

	// Conversation memory
	MaxHistory int `yaml:"max_history"` // COURSEMIND_MAX_HISTORY, default 2 exchanges
}

const (
	envDBPath       = "COURSEMIND_DB"
	envHTTPHost     = "COURSEMIND_HTTP_HOST"
	envHTTPPort     = "COURSEMIND_HTTP_PORT"
	envAnthropic    = "ANTHROPIC_MODEL"
	envOllamaURL    = "OLLAMA_BASE_URL"
	envOllamaEmbed  = "OLLAMA_EMBED_MODEL"
	envDocsDir      = "COURSEMIND_DOCS"
	envMaxResults   = "COURSEMIND_MAX_RESULTS"
	envChunkSize    = "COURSEMIND_CHUNK_SIZE"
	envChunkOverlap = "COURSEMIND_CHUNK_OVERLAP"
	envMaxHistory   = "COURSEMIND_MAX_HISTORY"
)

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		DBPath:           "coursemind.db",
		HTTPHost:         "0.0.0.0",
		HTTPPort:         8000,
		AnthropicModel:   "claude-sonnet-4-20250514",
		OllamaBaseURL:    "http://localhost:11434",
		OllamaEmbedModel: "nomic-embed-text",
		DocsDir:          "docs",
		MaxResults:       5,
		ChunkSize:        160,
		ChunkOverlap:     20,
		MaxHistory:       2,
	}
}

// Load reads configuration from the environment over defaults.
func Load() Config {
	cfg := Defaults()
	cfg.applyEnv()
	return cfg
}

// LoadFile reads a YAML configuration file over defaults, then applies
// environment overrides on top.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.DBPath = envOr(envDBPath, c.DBPath)
	c.HTTPHost = envOr(envHTTPHost, c.HTTPHost)
	c.HTTPPort = envIntOr(envHTTPPort, c.HTTPPort)
	c.AnthropicModel = envOr(envAnthropic, c.AnthropicModel)
	c.OllamaBaseURL = envOr(envOllamaURL, c.OllamaBaseURL)
	c.OllamaEmbedModel = envOr(envOllamaEmbed, c.OllamaEmbedModel)
	c.DocsDir = envOr(envDocsDir, c.DocsDir)
	c.MaxResults = envIntOr(envMaxResults, c.MaxResults)
	c.ChunkSize = envIntOr(envChunkSize, c.ChunkSize)
	c.ChunkOverlap = envIntOr(envChunkOverlap, c.ChunkOverlap)
	c.MaxHistory = envIntOr(envMaxHistory, c.MaxHistory)
}

// envOr returns the environment value for key, or fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envIntOr returns the integer environment value for key, or fallback when
// unset or not a positive integer.
func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
