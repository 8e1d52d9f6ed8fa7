package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	syncengine "studyflow/internal/sync"
)

// fileConfig is the YAML config for the sync agent.
type fileConfig struct {
	ServerURL string `yaml:"server_url"`
	CachePath string `yaml:"cache_path"`
	// Token is a literal bearer token (useful for testing).
	Token string `yaml:"token"`
	// TokenCommand is a shell command printing a fresh token; it runs
	// once per request so short-lived tokens stay valid.
	TokenCommand string `yaml:"token_command"`
	// LogDir enables per-run log files alongside stderr output.
	// Empty disables file logging.
	LogDir string `yaml:"log_dir"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "studyflow-sync.yaml"
	}
	return filepath.Join(home, ".studyflow", "sync.yaml")
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("config %s: server_url is required", path)
	}
	if cfg.Token == "" && cfg.TokenCommand == "" {
		return nil, fmt.Errorf("config %s: set token or token_command", path)
	}
	if cfg.CachePath == "" {
		cfg.CachePath = filepath.Join(filepath.Dir(path), "cache.db")
	}

	return &cfg, nil
}

// tokenSource builds the per-request token source from the config.
func (c *fileConfig) tokenSource() syncengine.TokenSource {
	if c.TokenCommand != "" {
		command := c.TokenCommand
		return func(ctx context.Context) (string, error) {
			out, err := exec.CommandContext(ctx, "sh", "-c", command).Output()
			if err != nil {
				return "", fmt.Errorf("token command: %w", err)
			}
			token := strings.TrimSpace(string(out))
			if token == "" {
				return "", fmt.Errorf("token command produced no output")
			}
			return token, nil
		}
	}

	token := c.Token
	return func(ctx context.Context) (string, error) {
		return token, nil
	}
}
