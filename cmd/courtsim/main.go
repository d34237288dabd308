package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/courtsim/internal/cli"
	"github.com/example/courtsim/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "courtsim",
		Short:   "courtsim - court case scheduling simulator and cause-list generator",
		Version: version.String(),
		Long: `courtsim simulates a civil court's daily scheduling over a multi-year
horizon: it classifies case ripeness, prioritizes and allocates cases to
courtrooms, samples hearing outcomes, and reports disposal, adjournment,
utilization and load-balance metrics.`,
	}

	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.ScheduleCmd())
	rootCmd.AddCommand(cli.GenerateCmd())
	rootCmd.AddCommand(cli.ParamsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
