// Package main provides the turf command line: import daily exports, score
// races, manage weighting profiles and keep the bet ledger.
package main

import (
	"log"

	"github.com/spf13/cobra"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "turf",
	Short:         "Multi-criteria race scoring and bet recommendations",
	Long:          `Scores French horse races with weighted multi-criteria profiles, recommends tickets and tracks the return on placed bets.`,
	Version:       Version + " (" + GitCommit + ")",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	rootCmd.AddCommand(
		newImportCmd(),
		newPredictCmd(),
		newPredictDayCmd(),
		newProfileCmd(),
		newBetCmd(),
		newScheduleCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
