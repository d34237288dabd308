package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/courtsim/internal/adapters/casefile"
	"github.com/example/courtsim/internal/core/params"
	"github.com/example/courtsim/internal/gen"
)

// GenerateCmd returns the generate command: write a synthetic population.
func GenerateCmd() *cobra.Command {
	var (
		count       int
		seed        int64
		out         string
		fromStr     string
		toStr       string
		withHistory bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic case population",
		Long: `Generate a deterministic synthetic population sampled from the
built-in case-type distribution and write it as JSON.

Example:
  courtsim generate --count 5000 --seed 42 --out cases.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fmt.Errorf("invalid --from %q: %w", fromStr, err)
			}
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fmt.Errorf("invalid --to %q: %w", toStr, err)
			}

			cases, err := gen.Generate(gen.Config{
				Count:       count,
				Seed:        seed,
				FiledFrom:   from,
				FiledTo:     to,
				WithHistory: withHistory,
			}, params.Default())
			if err != nil {
				return err
			}
			if err := casefile.Save(out, cases); err != nil {
				return err
			}
			fmt.Printf("Wrote %d cases to %s\n", len(cases), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 5000, "Number of cases to generate")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Generator seed")
	cmd.Flags().StringVar(&out, "out", "cases.json", "Output path")
	cmd.Flags().StringVar(&fromStr, "from", "2019-01-01", "Earliest filing date")
	cmd.Flags().StringVar(&toStr, "to", "2023-12-31", "Latest filing date")
	cmd.Flags().BoolVar(&withHistory, "with-history", true, "Seed hearing history so the population looks mid-flight")
	return cmd
}
