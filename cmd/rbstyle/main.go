package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rbstyle/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "rbstyle",
	Short: "Ruby module declaration style checker",
	Long:  `rbstyle checks Ruby sources for a consistent module function declaration style`,
}

// main registers subcommands and persistent flags, then executes the
// root command. Command errors exit with status code 2; style findings
// exit with status code 1 from the check command itself.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show per file")
	rootCmd.PersistentFlags().String("config", "", "path to .rbstyle.toml (default: walk up from cwd)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the persistent --color flag against the output
// stream.
func useColor(cmd *cobra.Command, out *os.File) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch mode {
	case "on":
		color.NoColor = false
		return true, nil
	case "off":
		return false, nil
	default:
		return isTerminal(out), nil
	}
}
