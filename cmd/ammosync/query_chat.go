package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func queryChatCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Show recent chat notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryChat(limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of messages to show (0 for all)")
	return cmd
}

func runQueryChat(limit int) error {
	ctx := context.Background()

	h, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer h.Close(ctx)

	msgs, err := h.raw.ListChat(ctx, limit)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		fmt.Fprintln(os.Stdout, "No messages.")
		return nil
	}
	printChat(os.Stdout, msgs)
	return nil
}
