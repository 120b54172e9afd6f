package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "binscan",
	Short: "Cross-venue binary-market arbitrage scanner",
	Long: `binscan scans two prediction-market venues for equivalent binary
events, matches their markets, and surfaces cross-venue arbitrage
opportunities where the cheapest synthetic-dollar construction (buy YES on
one venue, NO on the other) costs less than $1 after fees.

It resolves event pairs via a static catalog, date-templated dynamic
families, sports-game matching and fuzzy text similarity, then runs both a
polling batch scanner and a WebSocket streaming engine against the matched
markets.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	// Flags can be added here if needed
}
