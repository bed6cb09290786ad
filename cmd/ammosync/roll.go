package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ammosync/internal/handler"
)

func rollCmd() *cobra.Command {
	var dice int
	var attack bool
	var reroll bool
	cmd := &cobra.Command{
		Use:   "roll <character> <weapon>",
		Short: "Post a weapon roll as if it came from the sheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoll(args[0], args[1], dice, attack, reroll)
		},
	}
	cmd.Flags().IntVar(&dice, "dice", 1, "Number of combat dice rolled")
	cmd.Flags().BoolVar(&attack, "attack", false, "Post an attack roll instead of a damage roll")
	cmd.Flags().BoolVar(&reroll, "reroll", false, "Mark the roll as a reroll")
	return cmd
}

func runRoll(character, weapon string, dice int, attack, reroll bool) error {
	if dice < 1 {
		return fmt.Errorf("--dice must be at least 1, got %d", dice)
	}

	ctx := context.Background()

	h, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer h.Close(ctx)

	req := handler.RollRequest{
		Character:  character,
		Weapon:     weapon,
		CombatDice: dice,
		Reroll:     reroll,
	}
	if attack {
		req.Template = h.layout.Rolls.AttackTemplate
	}
	roll := handler.BuildRoll(h.layout.Rolls, req)

	return h.drain(ctx, os.Stdout, func() error {
		h.bus.PublishRoll(roll)
		return nil
	})
}
