package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	dupscanlog "github.com/davetashner/dupscan/internal/log"
)

// Global flag values.
var (
	verbose   bool
	quiet     bool
	noColor   bool
	logFormat string
)

// rootCmd is the base command for dupscan.
var rootCmd = &cobra.Command{
	Use:   "dupscan",
	Short: "Find duplicated code and constants across a repository",
	Long: `Dupscan finds blocks of code repeated across files and constants that are
defined more than once, or under near-identical names, in Python, Go,
JavaScript and TypeScript sources. Matching is token based, so whitespace
and comments never hide a duplicate.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		switch logFormat {
		case "text", "json":
		default:
			return exitError(ExitInvalidArgs, "dupscan: --log-format must be text or json (got %q)", logFormat)
		}
		dupscanlog.SetupWriter(cmd.ErrOrStderr(), verbose, quiet, logFormat == "json")
		if noColor {
			color.NoColor = true
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format on stderr (text, json)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
