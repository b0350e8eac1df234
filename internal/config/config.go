// Package config loads server configuration from a YAML file with
// environment overrides for secrets and the listen port.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	ContentDir string `yaml:"content_dir"`
	Debug      bool   `yaml:"debug"`

	Chat      ChatConfig      `yaml:"chat"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// ChatConfig parameterizes the generation service.  An empty Model keeps
// each persona's own default model.
type ChatConfig struct {
	Model string `yaml:"model"`
}

// EmbeddingConfig selects and parameterizes the embedding backend.
// API keys come only from the environment, never from the file.
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "openai" or "genai"
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"` // optional base URL override, openai provider only
	APIKey   string `yaml:"-"`
}

// RetrievalConfig caps how many knowledge entries ground a single reply.
type RetrievalConfig struct {
	FreeMaxEntries    int `yaml:"free_max_entries"`
	PremiumMaxEntries int `yaml:"premium_max_entries"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		ListenAddr: ":8080",
		ContentDir: "content",
		Embedding: EmbeddingConfig{
			Provider: "openai",
		},
		Retrieval: RetrievalConfig{
			FreeMaxEntries:    3,
			PremiumMaxEntries: 5,
		},
	}
}

// Load reads the YAML file at path and applies environment overrides.
// A missing file is not an error; defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv layers environment variables over the file values.
// PORT overrides the listen address; API keys are environment-only.
func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.ListenAddr = ":" + port
	}
	switch c.Embedding.Provider {
	case "genai":
		c.Embedding.APIKey = os.Getenv("GENAI_API_KEY")
	default:
		c.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

// OpenAIAPIKey returns the generation-service credential.
func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}
