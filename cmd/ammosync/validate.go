package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ammosync/internal/validate"
)

var validateFix bool

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check weapon ammo counts against the inventory",
		RunE:  runValidate,
	}
	cmd.Flags().BoolVar(&validateFix, "fix", false, "Rewrite mismatched weapon counts from the inventory")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	h, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer h.Close(ctx)

	var report *validate.Report
	err = h.drain(ctx, os.Stdout, func() error {
		var runErr error
		report, runErr = validate.Run(ctx, h.layout, h.db, validate.Options{Fix: validateFix})
		return runErr
	})
	if err != nil {
		return err
	}

	var errorIssues []validate.Issue
	var warnIssues []validate.Issue
	var fixed []validate.Issue
	for _, issue := range report.Issues {
		switch {
		case issue.Fixed:
			fixed = append(fixed, issue)
		case issue.Severity == validate.SeverityError:
			errorIssues = append(errorIssues, issue)
		case issue.Severity == validate.SeverityWarn:
			warnIssues = append(warnIssues, issue)
		}
	}

	if len(fixed) > 0 {
		fmt.Fprintf(os.Stdout, "Fixed (%d):\n", len(fixed))
		printIssues(os.Stdout, fixed)
		if len(errorIssues) > 0 || len(warnIssues) > 0 {
			fmt.Fprintln(os.Stdout, "")
		}
	}

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		if len(fixed) == 0 {
			fmt.Fprintln(os.Stdout, "No issues found.")
		}
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(os.Stdout, "Errors (%d):\n", len(errorIssues))
		printIssues(os.Stdout, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(os.Stdout, "")
		}
		fmt.Fprintf(os.Stdout, "Warnings (%d):\n", len(warnIssues))
		printIssues(os.Stdout, warnIssues)
	}

	if len(errorIssues) > 0 {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out io.Writer, issues []validate.Issue) {
	for _, issue := range issues {
		location := issue.Character
		if issue.Row != "" {
			location = fmt.Sprintf("%s [%s]", issue.Character, issue.Row)
		}
		if issue.FilePath != "" {
			location = fmt.Sprintf("%s (%s)", location, issue.FilePath)
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}
