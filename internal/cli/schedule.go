package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/courtsim/internal/adapters/casefile"
	"github.com/example/courtsim/internal/core/allocate"
	"github.com/example/courtsim/internal/core/params"
	"github.com/example/courtsim/internal/core/policy"
	"github.com/example/courtsim/internal/core/ripeness"
	"github.com/example/courtsim/internal/core/schedule"
	"github.com/example/courtsim/internal/logging"
)

// ScheduleCmd returns the schedule command: a single day's cause list
// without running the simulation loop.
func ScheduleCmd() *cobra.Command {
	var (
		populationPath string
		dateStr        string
		policyName     string
		minGap         int
		roomCount      int
		capacity       int
		strict         bool
		maxGapAlert    int
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Produce a single day's cause lists from a population file",
		Long: `Run the daily scheduling pipeline once and print the per-courtroom
cause lists with explanations.

Example:
  courtsim schedule --population cases.json --date 2024-03-15 --policy readiness`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Init(logging.ParseLevel("warn"), "text")

			day, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", dateStr, err)
			}
			cases, err := casefile.Load(populationPath)
			if err != nil {
				return err
			}

			tables := params.Default()
			classifier := ripeness.New(ripeness.DefaultThresholds(), tables.AdmissionStage())
			classifier.Strict = strict

			pol, err := policy.New(policyName, policy.Options{Advanced: classifier.AdvancedStages()})
			if err != nil {
				return err
			}

			rooms := make([]*allocate.Courtroom, 0, roomCount)
			for i := 1; i <= roomCount; i++ {
				rooms = append(rooms, allocate.NewCourtroom(i, capacity))
			}
			alloc, err := allocate.New(rooms)
			if err != nil {
				return err
			}

			alg, err := schedule.New(pol, classifier, alloc, tables, schedule.Options{MinGapDays: minGap}, logging.New("schedule"))
			if err != nil {
				return err
			}

			result := alg.ScheduleDay(cases, day, nil)
			renderCauseLists(cmd.OutOrStdout(), result)
			renderUnripe(cmd.OutOrStdout(), result, classifier, maxGapAlert)
			return nil
		},
	}

	cmd.Flags().StringVar(&populationPath, "population", "", "Path to JSON case population (required)")
	cmd.Flags().StringVar(&dateStr, "date", time.Now().Format("2006-01-02"), "Scheduling date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&policyName, "policy", policy.NameReadiness, "Scheduling policy (fifo|age|readiness)")
	cmd.Flags().IntVar(&minGap, "min-gap", 14, "Minimum days between hearings of a case")
	cmd.Flags().IntVar(&roomCount, "courtrooms", 5, "Number of courtrooms")
	cmd.Flags().IntVar(&capacity, "capacity", params.DefaultDailyCapacity, "Daily capacity per courtroom")
	cmd.Flags().BoolVar(&strict, "strict", false, "Strict ripeness: unknown verdicts are filtered")
	cmd.Flags().IntVar(&maxGapAlert, "max-gap-alert", 90, "Flag unripe cases waiting longer than this for a hearing")
	cmd.MarkFlagRequired("population")
	return cmd
}
