package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tambo",
	Short: "Merge flat-text livestock record files",
	Long: `tambo merges two flat-text files of cow records. Each record starts
with an ID line ("ID: 123" or "# 123") and runs until the next one.
Records in the override file replace records with the same ID in the base
file, and the union is written back sorted by ID.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("ledger", "", "Path to merge history database (overrides TAMBO_LEDGER_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides TAMBO_LOG_LEVEL)")
}
