package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tradebook-dev/tradebook/internal/model"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "tradebook.yaml"

// Config represents the top-level tradebook.yaml configuration.
type Config struct {
	Accounts        []Account `yaml:"accounts"`
	DownloadsDir    string    `yaml:"downloads_dir"`
	Database        string    `yaml:"database"`
	DeleteAfterLoad bool      `yaml:"delete_after_load"`
}

// Account maps a brokerage account number to its type.
type Account struct {
	Number string            `yaml:"number"`
	Type   model.AccountType `yaml:"type"`
}

// Load reads a tradebook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	for _, a := range cfg.Accounts {
		if !a.Type.Valid() {
			return nil, fmt.Errorf("account %s: unknown type %q", a.Number, a.Type)
		}
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new setup.
func Default() *Config {
	return &Config{
		Accounts: []Account{
			{Number: "X69469547", Type: model.AccountSingle},
			{Number: "X96392103", Type: model.AccountJoint},
		},
		DownloadsDir:    "~/Downloads",
		Database:        "trades.db",
		DeleteAfterLoad: false,
	}
}

// ExpandHome resolves a leading "~/" against the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home dir: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
