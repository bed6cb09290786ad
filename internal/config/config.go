package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultMaxDeliveries = 1000

type ProjectConfig struct {
	Project  string         `yaml:"project"`
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Chat     ChatConfig     `yaml:"chat"`
	Bus      BusConfig      `yaml:"bus"`
	Sheets   []string       `yaml:"sheets"`
	Exclude  []string       `yaml:"exclude"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"AMMOSYNC_DATABASE_DSN"`
}

type ChatConfig struct {
	Speaker string `yaml:"speaker" env:"AMMOSYNC_CHAT_SPEAKER"`
}

type BusConfig struct {
	MaxDeliveries int `yaml:"max_deliveries"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := ParseEnv(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if strings.TrimSpace(cfg.Chat.Speaker) == "" {
		cfg.Chat.Speaker = "Ammo Tracker"
	}
	if cfg.Bus.MaxDeliveries == 0 {
		cfg.Bus.MaxDeliveries = DefaultMaxDeliveries
	}

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return fmt.Errorf("database dsn is required")
	}
	if cfg.Bus.MaxDeliveries < 0 {
		return fmt.Errorf("bus max_deliveries must be positive, got %d", cfg.Bus.MaxDeliveries)
	}
	if len(cfg.Sheets) == 0 {
		return fmt.Errorf("at least one sheet path is required")
	}
	for i, path := range cfg.Sheets {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("sheet path %d is empty", i)
		}
	}

	return nil
}
