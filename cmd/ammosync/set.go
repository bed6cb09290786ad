package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <character> <attribute> <value>",
		Short: "Edit a sheet attribute and reconcile the rows that depend on it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args[0], args[1], args[2])
		},
	}
}

func runSet(character, attribute, value string) error {
	ctx := context.Background()

	h, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer h.Close(ctx)

	ch, err := h.raw.FindCharacterByName(ctx, character)
	if err != nil {
		return err
	}
	if ch == nil {
		return fmt.Errorf("character %q not found", character)
	}

	return h.drain(ctx, os.Stdout, func() error {
		return h.db.SetAttribute(ctx, ch.ID, attribute, value)
	})
}
