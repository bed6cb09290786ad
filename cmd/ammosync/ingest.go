package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ammosync/internal/ingest"
)

var ingestFull bool

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load character sheet files into the database",
		RunE:  runIngest,
	}
	cmd.Flags().BoolVar(&ingestFull, "full", false, "Force full re-ingestion (ignore incremental hashes)")
	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	h, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer h.Close(ctx)

	return ingestSheets(ctx, h, ingestFull)
}

// ingestSheets writes through the raw store: loading files is not a sheet
// edit and must not trigger reconciliation.
func ingestSheets(ctx context.Context, h *host, full bool) error {
	result, err := ingest.Run(ctx, h.cfg, h.layout, h.raw, ingest.Options{Full: full})
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Ingestion complete.")
	fmt.Fprintf(os.Stdout, "  Characters upserted: %d\n", result.CharactersUpserted)
	fmt.Fprintf(os.Stdout, "  Attributes written:  %d\n", result.AttributesWritten)
	fmt.Fprintf(os.Stdout, "  Attributes removed:  %d\n", result.AttributesRemoved)
	fmt.Fprintf(os.Stdout, "  Files skipped:       %d\n", result.FilesSkipped)

	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stdout, "\nErrors (%d):\n", len(result.Errors))
		for _, item := range result.Errors {
			fmt.Fprintf(os.Stdout, "  - %v\n", item)
		}
		return fmt.Errorf("ingestion completed with errors")
	}

	return nil
}
