package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rbstyle/internal/config"
	"rbstyle/internal/diagfmt"
	"rbstyle/internal/driver"
	"rbstyle/internal/rules/modulestyle"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.rb|directory>...",
	Short: "Check Ruby files for declaration style violations",
	Long:  "Lex and parse the given Ruby sources and report module declaration style findings.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	checkCmd.Flags().Int("jobs", 0, "number of files checked in parallel (0 = GOMAXPROCS)")
	checkCmd.Flags().Bool("suggest", false, "show fix suggestions next to findings")
	checkCmd.Flags().Bool("cache", false, "reuse results for unchanged files")
	checkCmd.Flags().String("style", "", "override the enforced style (module_function|extend_self|none)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	switch format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, short or json)", format)
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return err
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if styleFlag, _ := cmd.Flags().GetString("style"); styleFlag != "" {
		style, err := parseStyleFlag(styleFlag)
		if err != nil {
			return err
		}
		cfg.ModuleStyle = style
	}

	opts := driver.Options{
		Config:         cfg,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
	}
	if useCache {
		cache, err := driver.OpenDiskCache("rbstyle")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		opts.Cache = cache
	}

	result, err := driver.Check(cmd.Context(), args, opts)
	if err != nil {
		return err
	}

	out := os.Stdout
	colorize, err := useColor(cmd, out)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		err = diagfmt.JSON(out, result.Bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     true,
			IncludeFixes:     suggest,
		})
		if err != nil {
			return err
		}
	case "short":
		diagfmt.Short(out, result.Bag, result.FileSet, diagfmt.PathModeRelative)
	default:
		diagfmt.Pretty(out, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     colorize,
			PathMode:  diagfmt.PathModeRelative,
			ShowNotes: true,
			ShowFixes: suggest,
		})
	}

	if result.Bag.Len() > 0 {
		if format == "pretty" {
			fmt.Fprintf(out, "%d finding(s)\n", result.Bag.Len())
		}
		os.Exit(1)
	}
	return nil
}

func parseStyleFlag(s string) (modulestyle.Style, error) {
	style, err := modulestyle.ParseStyle(s)
	if err != nil {
		return 0, fmt.Errorf("--style: %w", err)
	}
	return style, nil
}

// loadConfig resolves the manifest from --config or by walking up
// from the working directory.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	if explicit != "" {
		return config.Load(explicit)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	return config.Discover(wd)
}
