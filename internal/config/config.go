package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config holds client configuration stored at ~/.knowassist/config.
// The API URL can also come from the KNOWLEDGE_API_URL environment
// variable (a .env file works too), which wins over the file.
type Config struct {
	APIURL     string `yaml:"api_url"`
	Theme      string `yaml:"theme,omitempty"`
	SearchTopK int    `yaml:"search_top_k,omitempty"`
}

const (
	ThemeDark  = "dark"
	ThemeLight = "light"

	defaultTopK = 10
)

// EnvAPIURL overrides the configured API base URL when set.
const EnvAPIURL = "KNOWLEDGE_API_URL"

// Path returns the config file path.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".knowassist", "config")
}

// Validate checks the configuration fields.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.APIURL, validation.Required),
		validation.Field(&c.Theme, validation.In(ThemeDark, ThemeLight)),
		validation.Field(&c.SearchTopK, validation.Min(0), validation.Max(100)),
	)
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		APIURL:     "http://localhost:8000",
		Theme:      ThemeDark,
		SearchTopK: defaultTopK,
	}
}

// Load reads the config file, falling back to defaults when the file
// is missing, then applies the environment override.
func Load() (*Config, error) {
	cfg, err := loadFile(Path())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}
	if url := os.Getenv(EnvAPIURL); url != "" {
		cfg.APIURL = url
	}
	if cfg.Theme == "" {
		cfg.Theme = ThemeDark
	}
	if cfg.SearchTopK <= 0 {
		cfg.SearchTopK = defaultTopK
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
