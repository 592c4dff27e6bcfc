package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rbstyle/internal/driver"
	"rbstyle/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.rb|directory>...",
	Short: "Apply suggested rewrites to Ruby sources",
	Long: "Run the checker, surface available fixes, and apply them according to the chosen strategy. " +
		"Style rewrites change method visibility semantics, so they are never applied by --all; " +
		"select them explicitly with --id or apply one at a time.",
	Args: cobra.MinimumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all always-safe fixes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply fixes with a specific identifier")
	fixCmd.Flags().Bool("list", false, "list available fixes without applying")
	fixCmd.Flags().Bool("dry-run", false, "report what would change without writing files")
}

func runFix(cmd *cobra.Command, args []string) error {
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	listOnly, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	if targetID != "" && (applyAll || applyOnce) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Check(cmd.Context(), args, driver.Options{
		Config:         cfg,
		MaxDiagnostics: maxDiagnostics,
	})
	if err != nil {
		return err
	}

	out := os.Stdout

	if listOnly {
		entries := fix.List(result.FileSet, result.Bag.Items())
		if len(entries) == 0 {
			fmt.Fprintln(out, "no fixes available")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%s:%d:%d: [%s] %s (%s)\n", e.Path, e.Line, e.Col, e.ID, e.Title, e.Applicability)
		}
		return nil
	}

	mode := fix.ApplyModeOnce
	if targetID != "" {
		mode = fix.ApplyModeID
	} else if applyAll {
		mode = fix.ApplyModeAll
	}

	applied, err := fix.Apply(result.FileSet, result.Bag.Items(), fix.ApplyOptions{
		Mode:     mode,
		TargetID: targetID,
		DryRun:   dryRun,
	})
	if err != nil {
		if errors.Is(err, fix.ErrNoFixes) {
			for _, s := range applied.Skipped {
				fmt.Fprintf(out, "skipped %s: %s\n", s.ID, s.Reason)
			}
			fmt.Fprintln(out, "no applicable fixes found")
			return nil
		}
		return err
	}

	for _, a := range applied.Applied {
		fmt.Fprintf(out, "applied %s: %s (%s, %d edit(s))\n", a.ID, a.Title, a.PrimaryPath, a.EditCount)
	}
	for _, s := range applied.Skipped {
		fmt.Fprintf(out, "skipped %s: %s\n", s.ID, s.Reason)
	}
	for _, c := range applied.FileChanges {
		verb := "updated"
		if dryRun {
			verb = "would update"
		}
		fmt.Fprintf(out, "%s %s (%d edit(s))\n", verb, c.Path, c.EditCount)
	}
	return nil
}
