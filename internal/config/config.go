// Package config loads Zyvora configuration from defaults, a .env file,
// a JSON config file, and environment variables, in increasing precedence.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Gemini  GeminiConfig
	Search  SearchConfig
	News    NewsConfig
	Storage StorageConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type SearchConfig struct {
	APIKey   string
	EngineID string
}

type NewsConfig struct {
	APIKey  string
	Country string
}

type StorageConfig struct {
	// Backend selects the profile store: "memory" or "sqlite".
	Backend string
	DataDir string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4000,
		},
		Gemini: GeminiConfig{
			Model: "gemini-1.5-flash",
		},
		News: NewsConfig{
			Country: "in",
		},
		Storage: StorageConfig{
			Backend: "memory",
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration in precedence order: defaults, a .env file in
// the working directory, the JSON config file at
// $XDG_CONFIG_HOME/zyvora/config.json, then ZYVORA_* environment
// variables. Secrets are environment-only and never touch the file
// backend.
//
// The Gemini API key is required; without it the tutor cannot answer and
// Load refuses to start the process. Search and news keys are optional
// and degrade their adapters at call time instead.
func Load() (Config, error) {
	// Best-effort: a missing .env is the normal case.
	_ = godotenv.Load()

	return loadWith(newFileBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Gemini.APIKey == "" {
		return Config{}, fmt.Errorf("missing required config: Gemini API key. Set it via environment variable GEMINI_API_KEY or a .env file")
	}

	return cfg, nil
}
