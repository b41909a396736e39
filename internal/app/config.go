package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIKey        string  `yaml:"api_key"`
	BaseURL       string  `yaml:"base_url"`
	Model         string  `yaml:"model"`
	CommandName   string  `yaml:"command_name"`
	HistoryLines  int     `yaml:"history_lines"`
	MaxTurns      int     `yaml:"max_turns"`
	Temperature   float64 `yaml:"temperature"`
	MaxTokens     int     `yaml:"max_tokens"`
	ConsoleBudget int     `yaml:"console_token_budget"`
	DataDir       string  `yaml:"data_dir"`
	Logging       bool    `yaml:"logging"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:       "https://openrouter.ai/api/v1",
		Model:         "google/gemini-2.0-flash-001",
		CommandName:   "termy",
		HistoryLines:  10,
		MaxTurns:      10,
		Temperature:   0.7,
		MaxTokens:     1000,
		ConsoleBudget: 2000,
		DataDir:       DefaultDataDir(),
	}
}

func DefaultDataDir() string {
	if base, err := os.UserHomeDir(); err == nil && base != "" {
		return filepath.Join(base, ".termy")
	}
	return filepath.Join(os.TempDir(), "termy")
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "termy", "config.yml")
}

// LoadConfig reads the YAML config at path, falling back to defaults when the
// file is absent, then applies environment overrides. The returned Config is
// treated as immutable for the rest of the invocation.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return cfg, err
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("OPENROUTER_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("OPENROUTER_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("TERMY_COMMAND_NAME"); v != "" {
		cfg.CommandName = v
	}
	if v := os.Getenv("TERMY_LOG"); v != "" {
		cfg.Logging = strings.EqualFold(v, "true") || v == "1"
	}

	if cfg.Model == "" {
		cfg.Model = "google/gemini-2.0-flash-001"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.CommandName == "" {
		cfg.CommandName = "termy"
	}
	if cfg.HistoryLines <= 0 {
		cfg.HistoryLines = 10
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = 10
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	if cfg.ConsoleBudget <= 0 {
		cfg.ConsoleBudget = 2000
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}
	return cfg, nil
}

// ValidateCredentials checks the API key before any network call is made.
func (c Config) ValidateCredentials() error {
	if c.APIKey == "" {
		return errors.New("api key not configured: set OPENROUTER_API_KEY or api_key in config")
	}
	if !strings.HasPrefix(c.APIKey, "sk-or-") {
		return errors.New("invalid api key format: key must start with 'sk-or-'")
	}
	return nil
}

func (c Config) ConversationPath() string {
	return filepath.Join(c.DataDir, "conversation.json")
}

func (c Config) ConsoleDir() string {
	return filepath.Join(c.DataDir, "console")
}

func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "logs", "termy.log")
}
