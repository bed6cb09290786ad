package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	configPath string
	sheetPath  string
	logLevel   string
)

func main() {
	root := &cobra.Command{
		Use:   "ammosync",
		Short: "Keep character sheet ammunition in step with rolls and edits",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", "ammosync.yaml", "Project config file")
	root.PersistentFlags().StringVar(&sheetPath, "sheet", "sheet.yaml", "Sheet layout file (built-in layout when absent)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	root.AddCommand(initCmd())
	root.AddCommand(ingestCmd())
	root.AddCommand(replayCmd())
	root.AddCommand(rollCmd())
	root.AddCommand(setCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(queryCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger logs to stderr; stdout carries command output and, for serve,
// the MCP transport.
func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "", "info":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}
