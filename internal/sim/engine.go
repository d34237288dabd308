// Package sim drives the discrete-event day loop: it advances the working
// calendar, invokes the scheduling algorithm, applies stochastic hearing
// outcomes, and accumulates metrics and events. Within a run the engine is
// single-threaded and deterministic by construction; the only permitted
// intra-day parallelism (ripeness re-evaluation) writes back serially.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/courtsim/internal/core/allocate"
	"github.com/example/courtsim/internal/core/calendar"
	"github.com/example/courtsim/internal/core/courtcase"
	"github.com/example/courtsim/internal/core/metrics"
	"github.com/example/courtsim/internal/core/outcome"
	"github.com/example/courtsim/internal/core/override"
	"github.com/example/courtsim/internal/core/params"
	"github.com/example/courtsim/internal/core/policy"
	"github.com/example/courtsim/internal/core/ripeness"
	"github.com/example/courtsim/internal/core/schedule"
	"github.com/example/courtsim/internal/ports/secondary"
)

// InflowConfig parameterises simulated case filing.
type InflowConfig struct {
	Enabled    bool
	RatePerDay float64
	// TypeDist and StageDist are sampling distributions for new filings;
	// when empty, the engine files the admission stage and case type
	// defaultInflowCaseType ("CRP").
	TypeDist  map[string]float64
	StageDist map[string]float64
}

// Config is the engine's construction-time configuration. Invalid values
// are fatal at New.
type Config struct {
	Start                  time.Time
	HorizonDays            int
	Seed                   int64
	Policy                 string
	MinGapDays             int
	RipenessEvalPeriodDays int
	StrictRipeness         bool
	DurationPercentile     params.Percentile
	PreferredCaseType      string
	Inflow                 InflowConfig

	// MaxGapAlertDays flags cases whose hearing gap exceeds this during
	// ripeness re-evaluation. Zero uses the default of 90 days.
	MaxGapAlertDays int

	// Parallelism bounds the ripeness re-evaluation worker count.
	// Values below 2 keep the evaluation serial.
	Parallelism int

	// Thresholds overrides the classifier defaults when non-nil.
	Thresholds *ripeness.Thresholds

	// Overrides supplies the day's override list; nil means none.
	Overrides func(d time.Time) []override.Override

	// Invariant is installed as the scheduling invariant hook. Nil uses
	// the production default (log and skip).
	Invariant schedule.InvariantHook

	// Score is required when Policy is "scorer".
	Score func(policy.Features) float64
}

// RunResult is the engine's output: summary, per-day records, cause lists,
// the full event log, and the final population (disposed cases included).
type RunResult struct {
	Summary    metrics.Summary
	Days       []metrics.DayRecord
	CauseLists []secondary.CauseListRow
	Events     []metrics.Event
	Cases      []*courtcase.Case
	Cancelled  bool
	EndDate    time.Time
}

// Engine owns the case population and per-day state for one run.
type Engine struct {
	cfg        Config
	cases      []*courtcase.Case
	tables     *params.Tables
	cal        *calendar.Calendar
	classifier *ripeness.Classifier
	algorithm  *schedule.Algorithm
	sampler    *outcome.Sampler
	collector  *metrics.Collector
	eventLog   *metrics.EventLog
	sinks      []secondary.EventSink
	log        *slog.Logger

	// stageReady gates stage transitions: a case may not leave its stage
	// before the sampled stage duration has elapsed.
	stageReady map[string]time.Time

	inflowSeq int
}

// New validates cfg and wires an engine over the given population and
// courtroom set. Configuration errors are fatal here.
func New(cfg Config, cases []*courtcase.Case, rooms []*allocate.Courtroom, tables *params.Tables, cal *calendar.Calendar, sinks []secondary.EventSink, log *slog.Logger) (*Engine, error) {
	if cfg.HorizonDays <= 0 {
		return nil, fmt.Errorf("sim: horizon must be positive, got %d", cfg.HorizonDays)
	}
	if cfg.MinGapDays < 0 {
		return nil, fmt.Errorf("sim: negative min gap %d", cfg.MinGapDays)
	}
	if cfg.RipenessEvalPeriodDays <= 0 {
		cfg.RipenessEvalPeriodDays = 7
	}
	if cfg.MaxGapAlertDays <= 0 {
		cfg.MaxGapAlertDays = 90
	}
	switch cfg.DurationPercentile {
	case "", params.Median:
		cfg.DurationPercentile = params.Median
	case params.P90:
	default:
		return nil, fmt.Errorf("sim: unknown duration percentile %q", cfg.DurationPercentile)
	}
	if cfg.Inflow.Enabled && cfg.Inflow.RatePerDay < 0 {
		return nil, fmt.Errorf("sim: negative inflow rate %.4f", cfg.Inflow.RatePerDay)
	}
	if tables == nil {
		return nil, fmt.Errorf("sim: nil parameter tables")
	}
	if cal == nil {
		cal = calendar.New()
	}
	if log == nil {
		log = slog.Default()
	}

	thresholds := ripeness.DefaultThresholds()
	if cfg.Thresholds != nil {
		thresholds = *cfg.Thresholds
	}
	classifier := ripeness.New(thresholds, tables.AdmissionStage())
	classifier.Strict = cfg.StrictRipeness

	pol, err := policy.New(cfg.Policy, policy.Options{
		Advanced: classifier.AdvancedStages(),
		Score:    cfg.Score,
	})
	if err != nil {
		return nil, err
	}

	alloc, err := allocate.New(rooms)
	if err != nil {
		return nil, err
	}

	collector := metrics.NewCollector(len(cases))
	invariant := cfg.Invariant
	if invariant == nil {
		invariant = func(err error) {
			log.Warn("invariant violation", "err", err)
		}
	}
	alg, err := schedule.New(pol, classifier, alloc, tables, schedule.Options{
		MinGapDays:        cfg.MinGapDays,
		PreferredCaseType: cfg.PreferredCaseType,
		Invariant:         invariant,
	}, log)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(cases))
	for _, c := range cases {
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("sim: duplicate case id %s", c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	e := &Engine{
		cfg:        cfg,
		cases:      cases,
		tables:     tables,
		cal:        cal,
		classifier: classifier,
		algorithm:  alg,
		sampler:    outcome.New(tables, cfg.Seed),
		collector:  collector,
		eventLog:   &metrics.EventLog{},
		sinks:      sinks,
		log:        log,
		stageReady: make(map[string]time.Time, len(cases)),
	}
	for _, c := range cases {
		e.initStageReady(c)
	}
	return e, nil
}

// initStageReady sets the earliest date a case may leave its current
// stage, relative to its last hearing (or filing) plus the stage's typical
// duration.
func (e *Engine) initStageReady(c *courtcase.Case) {
	dur, _ := e.tables.Duration(c.CurrentStage, e.cfg.DurationPercentile)
	days := int(dur + 0.5)
	if days < 1 {
		days = 1
	}
	ref := c.FiledDate
	if !c.LastHearingDate.IsZero() {
		ref = c.LastHearingDate
	}
	e.stageReady[c.ID] = calendar.DayKey(ref).AddDate(0, 0, days)
}

// Run executes the day loop until the horizon or cancellation. On
// cancellation it finalises metrics over the days completed and returns a
// partial result.
func (e *Engine) Run(ctx context.Context) (*RunResult, error) {
	res := &RunResult{}
	days := e.cal.WorkingDays(e.cfg.Start, e.cfg.HorizonDays)
	lastEval := time.Time{}

	for _, d := range days {
		select {
		case <-ctx.Done():
			res.Cancelled = true
		default:
		}
		if res.Cancelled {
			break
		}

		if lastEval.IsZero() || calendar.DaysBetween(lastEval, d) >= e.cfg.RipenessEvalPeriodDays {
			e.evaluateRipeness(d)
			lastEval = d
		}
		if e.cfg.Inflow.Enabled {
			e.fileNewCases(d)
		}

		var overrides []override.Override
		if e.cfg.Overrides != nil {
			overrides = e.cfg.Overrides(d)
		}
		dayResult := e.algorithm.ScheduleDay(e.cases, d, overrides)
		e.applyOutcomes(d, dayResult, res)

		for _, sink := range e.sinks {
			if err := sink.Flush(); err != nil {
				e.log.Warn("event sink flush failed", "err", err)
			}
		}
		res.EndDate = d
	}

	res.Summary = e.collector.Finalize(e.cases)
	res.Days = e.collector.Days()
	res.Events = e.eventLog.Events()
	res.Cases = e.cases
	return res, nil
}

// applyOutcomes runs the outcome sampler over the day's cause lists and
// records events and metrics.
func (e *Engine) applyOutcomes(d time.Time, dayResult *schedule.Result, res *RunResult) {
	rec := metrics.DayRecord{
		Date:            d,
		Scheduled:       dayResult.TotalScheduled,
		UnripeFiltered:  dayResult.UnripeFiltered,
		GapBlocked:      dayResult.GapBlocked,
		CapacityLimited: dayResult.CapacityLimited,
		RoomCounts:      dayResult.Loads,
		CapacityOffered: e.algorithm.Allocator().TotalCapacity(d, nil),
	}
	e.collector.ObserveOverrides(len(dayResult.AppliedOverrides), len(dayResult.Rejections))
	e.collector.ObserveInvariantViolation(dayResult.InvariantViolations)

	for _, room := range e.algorithm.Allocator().Rooms() {
		for seq, c := range dayResult.CauseLists[room.ID] {
			if c.IsDisposed() {
				continue
			}
			e.collector.ObserveScheduled(c.ID)
			res.CauseLists = append(res.CauseLists, secondary.CauseListRow{
				Date: d, CourtroomID: room.ID, Sequence: seq + 1,
				CaseID: c.ID, CaseType: c.Type, Stage: c.CurrentStage,
				Explanation: dayResult.Explanations[c.ID],
			})
			e.emit(metrics.Event{
				Date: d, Type: metrics.EventScheduled, CaseID: c.ID,
				CaseType: c.Type, Stage: c.CurrentStage, CourtroomID: room.ID,
				Detail: dayResult.Explanations[c.ID],
			})

			allow := !d.Before(e.stageReady[c.ID])
			step, err := e.sampler.Step(c, d, room.ID, allow)
			if err != nil {
				e.collector.ObserveInvariantViolation(1)
				e.log.Warn("outcome step failed", "case", c.ID, "err", err)
				continue
			}
			if step.ParamMiss {
				e.collector.ObserveParamMiss()
			}
			if step.Clamped {
				e.collector.ObserveClamp()
			}

			switch step.Outcome {
			case courtcase.OutcomeAdjourned:
				rec.Adjourned++
				e.emit(metrics.Event{
					Date: d, Type: metrics.EventOutcome, CaseID: c.ID,
					CaseType: c.Type, Stage: c.CurrentStage, CourtroomID: room.ID,
					Detail: "adjourned",
				})
			case courtcase.OutcomeHeard:
				rec.Heard++
				e.emit(metrics.Event{
					Date: d, Type: metrics.EventOutcome, CaseID: c.ID,
					CaseType: c.Type, Stage: step.StageBefore, CourtroomID: room.ID,
					Detail: "heard",
				})
				if step.StageAfter != step.StageBefore {
					e.emit(metrics.Event{
						Date: d, Type: metrics.EventStageChange, CaseID: c.ID,
						CaseType: c.Type, Stage: step.StageAfter,
						Detail: "from:" + step.StageBefore,
					})
					e.resetStageReady(c, d)
				}
			case courtcase.OutcomeDisposed:
				rec.Heard++
				rec.Disposed++
				e.emit(metrics.Event{
					Date: d, Type: metrics.EventDisposed, CaseID: c.ID,
					CaseType: c.Type, Stage: step.StageAfter, CourtroomID: room.ID,
					Detail: "from:" + step.StageBefore,
				})
			}
		}
	}

	for _, c := range e.cases {
		if !c.IsDisposed() {
			rec.ActiveCases++
		}
	}
	e.collector.ObserveDay(rec)
}

func (e *Engine) resetStageReady(c *courtcase.Case, d time.Time) {
	dur, _ := e.tables.Duration(c.CurrentStage, e.cfg.DurationPercentile)
	days := int(dur + 0.5)
	if days < 1 {
		days = 1
	}
	e.stageReady[c.ID] = calendar.DayKey(d).AddDate(0, 0, days)
}

// evaluateRipeness re-classifies the whole population. Classification runs
// in parallel when configured (the classifier is pure); verdicts are
// written back serially in population order, so results are deterministic
// either way.
func (e *Engine) evaluateRipeness(d time.Time) {
	type verdictPair struct {
		verdict ripeness.Verdict
		reason  string
	}
	verdicts := make([]verdictPair, len(e.cases))

	// Age advances serially first; classification itself is pure and may
	// fan out.
	for _, c := range e.cases {
		if !c.IsDisposed() {
			c.AdvanceAge(d)
		}
	}

	if e.cfg.Parallelism > 1 {
		g := new(errgroup.Group)
		g.SetLimit(e.cfg.Parallelism)
		for i, c := range e.cases {
			if c.IsDisposed() {
				continue
			}
			g.Go(func() error {
				v, r := e.classifier.Classify(c, d)
				verdicts[i] = verdictPair{v, r}
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, c := range e.cases {
			if c.IsDisposed() {
				continue
			}
			v, r := e.classifier.Classify(c, d)
			verdicts[i] = verdictPair{v, r}
		}
	}

	transitions := 0
	for i, c := range e.cases {
		if c.IsDisposed() || verdicts[i].verdict == "" {
			continue
		}
		prev := c.Ripeness.Verdict
		next := string(verdicts[i].verdict)
		if prev == next {
			continue
		}
		c.SetRipeness(next, verdicts[i].reason, d)
		transitions++
		if prev != "" {
			detail := fmt.Sprintf("%s -> %s", prev, next)
			if !verdicts[i].verdict.IsRipe() {
				if eta, ok := e.classifier.RipeningETA(c, d); ok {
					detail += fmt.Sprintf(" (ripening eta ~%dd)", eta)
				}
			}
			e.emit(metrics.Event{
				Date: d, Type: metrics.EventRipenessChange, CaseID: c.ID,
				CaseType: c.Type, Stage: c.CurrentStage,
				Detail: detail,
			})
		}
	}
	e.collector.ObserveRipenessTransitions(transitions)

	// Long-gap alert sweep: flag active cases that have waited beyond the
	// alert threshold since their last hearing.
	alerts := 0
	for _, c := range e.cases {
		if c.IsDisposed() || !c.NeedsAlert(e.cfg.MaxGapAlertDays) {
			continue
		}
		alerts++
		e.emit(metrics.Event{
			Date: d, Type: metrics.EventGapAlert, CaseID: c.ID,
			CaseType: c.Type, Stage: c.CurrentStage,
			Detail: fmt.Sprintf("%d days since last hearing (max %d)", c.DaysSinceLastHearing, e.cfg.MaxGapAlertDays),
		})
	}
	e.collector.ObserveGapAlerts(alerts)
}

func (e *Engine) emit(ev metrics.Event) {
	e.eventLog.Append(ev)
	for _, sink := range e.sinks {
		if err := sink.WriteEvent(ev); err != nil {
			e.log.Warn("event sink write failed", "err", err)
		}
	}
}

// Collector exposes the metrics collector (read-mostly; used by services
// for snapshots).
func (e *Engine) Collector() *metrics.Collector { return e.collector }

// Cases returns the engine's population.
func (e *Engine) Cases() []*courtcase.Case { return e.cases }
