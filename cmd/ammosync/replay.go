package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ammosync/internal/replay"
)

var replayIngest bool

func replayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <script>",
		Short: "Feed a recorded session of rolls and edits through the handlers",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplay,
	}
	cmd.Flags().BoolVar(&replayIngest, "ingest", false, "Ingest sheet files before replaying")
	return cmd
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	script, err := replay.Load(args[0])
	if err != nil {
		return err
	}

	h, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer h.Close(ctx)

	if replayIngest {
		if err := ingestSheets(ctx, h, false); err != nil {
			return err
		}
	}

	before, err := h.raw.ListChat(ctx, 0)
	if err != nil {
		return err
	}

	result, runErr := replay.Run(ctx, script, h.bus, h.db)

	after, err := h.raw.ListChat(ctx, 0)
	if err != nil {
		return err
	}
	if len(after) > len(before) {
		printChat(os.Stdout, after[len(before):])
	}
	if result != nil {
		fmt.Fprintf(os.Stdout, "Replayed %d of %d steps, %d events delivered.\n", result.Steps, len(script.Steps), result.Delivered)
	}
	return runErr
}
