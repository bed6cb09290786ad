package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ammosync/internal/sheet"
)

func queryCharacterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "character <name>",
		Short: "Show a character's weapons and ammunition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryCharacter(args[0])
		},
	}
}

func runQueryCharacter(name string) error {
	ctx := context.Background()

	h, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer h.Close(ctx)

	ch, err := h.raw.FindCharacterByName(ctx, name)
	if err != nil {
		return err
	}
	if ch == nil {
		fmt.Fprintln(os.Stdout, "Character not found.")
		return nil
	}

	view, err := sheet.Load(ctx, h.raw, h.layout, *ch)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s (%s)\n", ch.Name, ch.SheetType)
	if ch.SourceFile != "" {
		fmt.Fprintf(os.Stdout, "  Source: %s\n", ch.SourceFile)
	}

	weapons, problems := view.WeaponRows()
	fmt.Fprintf(os.Stdout, "\nWeapons (%d):\n", len(weapons))
	for _, w := range weapons {
		fmt.Fprintf(os.Stdout, "  - %s [%s]: %s x%d, damage %d, fire rate %d\n", w.Name, w.RowID, w.AmmoType, w.AmmoCount, w.Damage, w.FireRate)
	}

	ammo, ammoProblems := view.AmmoRows()
	fmt.Fprintf(os.Stdout, "\nAmmunition (%d):\n", len(ammo))
	for _, a := range ammo {
		fmt.Fprintf(os.Stdout, "  - %s [%s]: %d\n", a.Name, a.RowID, a.Quantity)
	}

	problems = append(problems, ammoProblems...)
	if len(problems) > 0 {
		fmt.Fprintf(os.Stdout, "\nProblems (%d):\n", len(problems))
		for _, p := range problems {
			fmt.Fprintf(os.Stdout, "  - %v\n", p)
		}
	}
	return nil
}
