package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/example/courtsim/internal/core/params"
)

// ParamsCmd returns the params command: inspect the built-in tables.
func ParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print the built-in parameter tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			tables := params.Default()

			titleStyle.Fprintln(w, "Parameter tables")
			fmt.Fprintf(w, "Daily capacity per courtroom: %d (p90 %d)\n\n", tables.Capacity(), tables.CapacityP90())

			sectionStyle.Fprintln(w, "Stage vocabulary")
			for i, s := range tables.Stages() {
				marker := ""
				if tables.IsTerminal(s) {
					marker = " (terminal)"
				}
				fmt.Fprintf(w, "  %2d. %s%s\n", i, s, marker)
			}
			fmt.Fprintln(w)

			sectionStyle.Fprintln(w, "Stage durations (days)")
			for _, s := range tables.Stages() {
				if tables.IsTerminal(s) {
					continue
				}
				med, ok := tables.Duration(s, params.Median)
				if !ok {
					continue
				}
				p90, _ := tables.Duration(s, params.P90)
				fmt.Fprintf(w, "  %-28s median %5.0f  p90 %5.0f\n", s, med, p90)
			}
			fmt.Fprintln(w)

			sectionStyle.Fprintln(w, "Case types")
			types := make([]string, 0, len(params.DefaultCaseTypes))
			for t := range params.DefaultCaseTypes {
				types = append(types, t)
			}
			sort.Strings(types)
			for _, t := range types {
				stats, _ := tables.Stats(t)
				fmt.Fprintf(w, "  %-4s share %.3f  median hearings %4.0f  median gap %3.0fd  median disposal %4.0fd\n",
					t, params.DefaultCaseTypes[t], stats.MedianHearings, stats.MedianGapDays, stats.MedianDisposalDays)
			}
			return nil
		},
	}
	return cmd
}
