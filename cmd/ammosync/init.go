package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ammosync/internal/config"
)

const exampleCharacter = `name: Example
type: pc
weapons:
  - name: 10mm Pistol
    ammo: 10mm
    ammo_count: 40
    damage: 4
    fire_rate: 2
ammo:
  - name: 10mm
    quantity: 40
`

func initCmd() *cobra.Command {
	var projectName string
	var dsn string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new ammosync project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(projectName, dsn)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().StringVar(&dsn, "dsn", "sqlite://ammosync.db", "Database DSN")
	return cmd
}

func runInit(projectName, dsn string) error {
	examplePath := filepath.Join("sheets", "example.yaml")
	for _, path := range []string{configPath, sheetPath, examplePath} {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	layout, err := yaml.Marshal(config.DefaultSheet())
	if err != nil {
		return fmt.Errorf("encoding sheet layout: %w", err)
	}

	configContents := fmt.Sprintf("project: %s\nversion: 1\n\ndatabase:\n  dsn: %s\n\nchat:\n  speaker: Ammo Tracker\n\nsheets:\n  - ./sheets/\n\nexclude:\n  - ./sheets/archive/\n", projectName, dsn)
	if err := os.WriteFile(configPath, []byte(configContents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	if err := os.WriteFile(sheetPath, layout, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", sheetPath, err)
	}
	if err := os.MkdirAll(filepath.Dir(examplePath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(examplePath), err)
	}
	if err := os.WriteFile(examplePath, []byte(exampleCharacter), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", examplePath, err)
	}

	return nil
}
