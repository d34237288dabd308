package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/courtsim/internal/adapters/casefile"
	"github.com/example/courtsim/internal/adapters/export"
	"github.com/example/courtsim/internal/adapters/sqlite"
	"github.com/example/courtsim/internal/config"
	"github.com/example/courtsim/internal/core/allocate"
	"github.com/example/courtsim/internal/core/calendar"
	"github.com/example/courtsim/internal/core/courtcase"
	"github.com/example/courtsim/internal/core/params"
	"github.com/example/courtsim/internal/db"
	"github.com/example/courtsim/internal/gen"
	"github.com/example/courtsim/internal/logging"
	"github.com/example/courtsim/internal/ports/secondary"
	"github.com/example/courtsim/internal/sim"
)

// RunCmd returns the run command: a full simulation over the horizon.
func RunCmd() *cobra.Command {
	var (
		configPath     string
		populationPath string
		writeSample    string
		caseCount      int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a full simulation from a YAML config",
		Long: `Run a simulation over the configured horizon.

The case population is loaded from --population (JSON) or generated
synthetically when the flag is omitted. Outputs (events, cause lists,
metrics, summary) go to the configured output directory.

Examples:
  courtsim run --config sim.yaml
  courtsim run --config sim.yaml --population cases.json
  courtsim run --write-sample sim.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if writeSample != "" {
				if err := config.Save(writeSample, config.Sample()); err != nil {
					return err
				}
				fmt.Printf("Wrote sample config to %s\n", writeSample)
				return nil
			}
			if configPath == "" {
				return fmt.Errorf("--config is required (or --write-sample)")
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logging.Init(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
			log := logging.New("run")

			start, err := cfg.Start()
			if err != nil {
				return err
			}

			tables := params.Default()
			cal := calendar.New()
			cal.AddHolidays(cfg.HolidayDates())

			var cases []*courtcase.Case
			if populationPath != "" {
				cases, err = casefile.Load(populationPath)
			} else {
				cases, err = gen.Generate(gen.Config{
					Count:       caseCount,
					Seed:        cfg.Seed,
					FiledFrom:   start.AddDate(-5, 0, 0),
					FiledTo:     start.AddDate(0, 0, -1),
					WithHistory: true,
				}, tables)
			}
			if err != nil {
				return err
			}
			log.Info("population loaded", "cases", len(cases))

			rooms := make([]*allocate.Courtroom, 0, len(cfg.Courtrooms))
			for _, r := range cfg.Courtrooms {
				rooms = append(rooms, allocate.NewCourtroom(r.ID, r.Capacity))
			}

			var sinks []secondary.EventSink
			if cfg.Output.NDJSON {
				if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
				sink, err := export.OpenNDJSONFile(filepath.Join(cfg.Output.Dir, "events.ndjson"))
				if err != nil {
					return err
				}
				defer sink.Close()
				sinks = append(sinks, sink)
			}

			engine, err := sim.New(sim.Config{
				Start:                  start,
				HorizonDays:            cfg.HorizonDays,
				Seed:                   cfg.Seed,
				Policy:                 cfg.Policy,
				MinGapDays:             cfg.MinGapDays,
				RipenessEvalPeriodDays: cfg.RipenessEvalPeriodDays,
				StrictRipeness:         cfg.StrictRipeness,
				DurationPercentile:     params.Percentile(cfg.DurationPercentile),
				MaxGapAlertDays:        cfg.MaxGapAlertDays,
				Inflow: sim.InflowConfig{
					Enabled:    cfg.Inflow.Enabled,
					RatePerDay: cfg.Inflow.RatePerDay,
					TypeDist:   cfg.Inflow.CaseTypes,
					StageDist:  cfg.Inflow.InitialStages,
				},
			}, cases, rooms, tables, cal, sinks, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			started := time.Now()
			result, err := engine.Run(ctx)
			if err != nil {
				return err
			}
			log.Info("run finished", "days", result.Summary.Days, "elapsed", time.Since(started).Round(time.Millisecond))

			if cfg.Output.SQLite {
				if err := persistRun(ctx, cfg, start, result); err != nil {
					return err
				}
			}

			renderSummary(cmd.OutOrStdout(), cfg, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML simulation config")
	cmd.Flags().StringVar(&populationPath, "population", "", "Path to JSON case population (generated when omitted)")
	cmd.Flags().StringVar(&writeSample, "write-sample", "", "Write a sample config to path and exit")
	cmd.Flags().IntVar(&caseCount, "cases", 5000, "Synthetic population size when --population is omitted")
	return cmd
}

func persistRun(ctx context.Context, cfg *config.SimConfig, start time.Time, result *sim.RunResult) error {
	dir := cfg.Output.Dir
	if dir == "" {
		dir = "runs"
	}
	conn, err := db.Open(filepath.Join(dir, "courtsim.db"))
	if err != nil {
		return err
	}
	repo := sqlite.NewRunRepository(conn)
	defer repo.Close()

	runID, err := repo.CreateRun(ctx, secondary.RunMeta{
		StartDate:   start,
		HorizonDays: cfg.HorizonDays,
		Seed:        cfg.Seed,
		Policy:      cfg.Policy,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if err := repo.AppendEvents(ctx, runID, result.Events); err != nil {
		return err
	}
	if err := repo.AppendCauseList(ctx, runID, result.CauseLists); err != nil {
		return err
	}
	for _, rec := range result.Days {
		if err := repo.WriteDayMetrics(ctx, runID, rec); err != nil {
			return err
		}
	}
	for _, c := range result.Cases {
		if err := repo.WriteHearings(ctx, runID, c.ID, c.History); err != nil {
			return err
		}
	}
	return repo.WriteSummary(ctx, runID, result.Summary)
}
