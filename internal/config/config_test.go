package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadProjectConfig(t *testing.T) {
	t.Run("valid config loads", func(t *testing.T) {
		cfg, err := LoadProjectConfig(filepath.Join("testdata", "valid_config.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Project != "test-table" {
			t.Fatalf("expected project name, got %q", cfg.Project)
		}
		if cfg.Chat.Speaker != "Quartermaster" {
			t.Fatalf("expected speaker from file, got %q", cfg.Chat.Speaker)
		}
		if cfg.Bus.MaxDeliveries != DefaultMaxDeliveries {
			t.Fatalf("expected default max deliveries, got %d", cfg.Bus.MaxDeliveries)
		}
	})

	t.Run("defaults speaker", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\ndatabase:\n  dsn: \"sqlite://:memory:\"\nsheets: [./sheets]\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Database.DSN != "sqlite://:memory:" {
			t.Fatalf("expected quoted dsn to survive, got %q", cfg.Database.DSN)
		}
		if cfg.Chat.Speaker != "Ammo Tracker" {
			t.Fatalf("expected default speaker, got %q", cfg.Chat.Speaker)
		}
	})

	t.Run("env overrides dsn", func(t *testing.T) {
		t.Setenv("AMMOSYNC_DATABASE_DSN", "postgres://localhost/ammo")
		cfg, err := LoadProjectConfig(filepath.Join("testdata", "valid_config.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Database.DSN != "postgres://localhost/ammo" {
			t.Fatalf("expected dsn from env, got %q", cfg.Database.DSN)
		}
	})

	invalid := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing project name",
			yaml:    "version: 1\ndatabase:\n  dsn: sqlite://ammosync.db\nsheets: [./sheets]\n",
			wantErr: "project name is required",
		},
		{
			name:    "missing dsn",
			yaml:    "project: test\nversion: 1\ndatabase:\n  dsn: \nsheets: [./sheets]\n",
			wantErr: "database dsn is required",
		},
		{
			name:    "unsupported version",
			yaml:    "project: test\nversion: 2\ndatabase:\n  dsn: sqlite://ammosync.db\nsheets: [./sheets]\n",
			wantErr: "unsupported version: 2",
		},
		{
			name:    "no sheets",
			yaml:    "project: test\nversion: 1\ndatabase:\n  dsn: sqlite://ammosync.db\n",
			wantErr: "at least one sheet path is required",
		},
		{
			name:    "empty sheet path",
			yaml:    "project: test\nversion: 1\ndatabase:\n  dsn: sqlite://ammosync.db\nsheets: ['  ']\n",
			wantErr: "sheet path 0 is empty",
		},
		{
			name:    "negative max deliveries",
			yaml:    "project: test\nversion: 1\ndatabase:\n  dsn: sqlite://ammosync.db\nbus:\n  max_deliveries: -1\nsheets: [./sheets]\n",
			wantErr: "bus max_deliveries must be positive",
		},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempConfig(t, tt.yaml)
			_, err := LoadProjectConfig(path)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("file not found", func(t *testing.T) {
		if _, err := LoadProjectConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeTempConfig(t, "project: [\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}
