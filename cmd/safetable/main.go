// Package main provides the safetable CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "safetable",
		Short: "Restaurant hygiene lookup and trust scoring",
		Long: `SafeTable resolves restaurants against the public hygiene registry, merges
map-provider ratings, and scores how trustworthy each one is.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "Path to config file (default: .safetable/config.yaml in this or a parent directory)")
	f.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVarP(&a.output, "output", "o", "text", "Output format: text, markdown or json")

	rootCmd.AddCommand(
		newLookupCmd(a),
		newScoreCmd(a),
		newCompareCmd(a),
		newRecommendCmd(a),
		newMigrateCmd(a),
		newImportCmd(a),
	)
	return rootCmd
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
