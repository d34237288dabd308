// Package schedule composes the per-day pipeline: ripeness filter,
// eligibility filter, policy ordering, override application, and courtroom
// allocation, producing a Result with full audit detail.
package schedule

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/example/courtsim/internal/core/allocate"
	"github.com/example/courtsim/internal/core/courtcase"
	"github.com/example/courtsim/internal/core/override"
	"github.com/example/courtsim/internal/core/params"
	"github.com/example/courtsim/internal/core/policy"
	"github.com/example/courtsim/internal/core/ripeness"
)

// InvariantHook receives invariant violations. Tests install a failing
// hook; the production default logs and skips the offending case.
type InvariantHook func(err error)

// Options tunes a day's scheduling.
type Options struct {
	MinGapDays        int
	PreferredCaseType string
	Invariant         InvariantHook
}

// Unscheduled pairs a case with the reason it was not listed.
type Unscheduled struct {
	Case   *courtcase.Case
	Reason string
}

// Result is the outcome of scheduling one day.
type Result struct {
	Date time.Time

	// CauseLists maps courtroom id to its ordered list for the day.
	CauseLists map[int][]*courtcase.Case
	// Explanations keyed by case id, for every scheduled case.
	Explanations map[string]string

	AppliedOverrides []override.Override
	Rejections       []override.Rejection

	Unscheduled []Unscheduled

	UnripeFiltered      int
	GapBlocked          int
	CapacityLimited     int
	DisposedSkipped     int
	InvariantViolations int

	PolicyUsed     string
	TotalScheduled int
	Loads          map[int]int
}

// Algorithm is the per-day orchestrator. It borrows the case population
// for the duration of a day and mutates it only through the documented
// case operations; per-day overlays live on the override plan and are
// discarded with it.
type Algorithm struct {
	policy     policy.Policy
	classifier *ripeness.Classifier
	allocator  *allocate.Allocator
	tables     *params.Tables
	opts       Options
	hardMax    int
	log        *slog.Logger
}

// New wires an algorithm. All collaborators are required.
func New(pol policy.Policy, cls *ripeness.Classifier, alloc *allocate.Allocator, tables *params.Tables, opts Options, log *slog.Logger) (*Algorithm, error) {
	if pol == nil || cls == nil || alloc == nil || tables == nil {
		return nil, fmt.Errorf("schedule: missing collaborator")
	}
	if opts.MinGapDays < 0 {
		return nil, fmt.Errorf("schedule: negative min gap %d", opts.MinGapDays)
	}
	hardMax := tables.CapacityP90()
	if hardMax <= 0 {
		hardMax = 2 * tables.Capacity()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Algorithm{
		policy:     pol,
		classifier: cls,
		allocator:  alloc,
		tables:     tables,
		opts:       opts,
		hardMax:    hardMax,
		log:        log,
	}, nil
}

// Allocator exposes the allocator for load-balance reporting.
func (a *Algorithm) Allocator() *allocate.Allocator { return a.allocator }

// ScheduleDay runs the pipeline for today over the case population.
func (a *Algorithm) ScheduleDay(cases []*courtcase.Case, today time.Time, overrides []override.Override) *Result {
	res := &Result{
		Date:         today,
		CauseLists:   make(map[int][]*courtcase.Case),
		Explanations: make(map[string]string),
		PolicyUsed:   a.policy.Name(),
	}

	// 1. Exclude disposed cases.
	active := make([]*courtcase.Case, 0, len(cases))
	byID := make(map[string]*courtcase.Case, len(cases))
	for _, c := range cases {
		if c.IsDisposed() {
			res.DisposedSkipped++
			continue
		}
		active = append(active, c)
		byID[c.ID] = c
	}
	if len(active) == 0 {
		for _, r := range a.allocator.Rooms() {
			res.CauseLists[r.ID] = nil
		}
		res.Loads = make(map[int]int)
		return res
	}

	// 2. Refresh derived scores.
	advanced := a.classifier.AdvancedStages()
	for _, c := range active {
		c.AdvanceAge(today)
		c.ComputeReadiness(advanced)
		c.ComputePriority()
	}

	plan := override.NewPlan(overrides, override.Env{
		Lookup: func(id string) (*courtcase.Case, bool) {
			c, ok := byID[id]
			return c, ok
		},
		RoomExists:      a.allocator.RoomExists,
		HardMaxCapacity: a.hardMax,
	})

	// 3. Ripeness filter, honouring forced-ripeness overrides. The
	// classifier returns values; this step writes them onto the cases.
	ripeSet := make(map[string]bool, len(active))
	forced := make(map[string]bool)
	ripe := make([]*courtcase.Case, 0, len(active))
	for _, c := range active {
		if makeRipe, ok := plan.ForcedRipe(c.ID); ok {
			if makeRipe {
				c.SetRipeness(string(ripeness.Ripe), "forced ripe by override", today)
				ripeSet[c.ID] = true
				forced[c.ID] = true
				ripe = append(ripe, c)
			} else {
				c.SetRipeness(string(ripeness.UnripeDependent), "forced unripe by override", today)
				res.UnripeFiltered++
				res.Unscheduled = append(res.Unscheduled, Unscheduled{Case: c, Reason: "forced unripe by override"})
			}
			continue
		}
		verdict, reason := a.classifier.Classify(c, today)
		c.SetRipeness(string(verdict), reason, today)
		if verdict.IsRipe() {
			ripeSet[c.ID] = true
			ripe = append(ripe, c)
		} else {
			res.UnripeFiltered++
			res.Unscheduled = append(res.Unscheduled, Unscheduled{Case: c, Reason: fmt.Sprintf("%s: %s", verdict, reason)})
		}
	}

	// 4. Eligibility: min-gap rule. A forced-ripe case bypasses the gap
	// for this day only.
	eligible := make([]*courtcase.Case, 0, len(ripe))
	for _, c := range ripe {
		if forced[c.ID] || c.IsReadyForScheduling(today, a.opts.MinGapDays) {
			eligible = append(eligible, c)
			continue
		}
		res.GapBlocked++
		res.Unscheduled = append(res.Unscheduled, Unscheduled{
			Case:   c,
			Reason: fmt.Sprintf("min gap not met: last hearing %dd ago (min %dd)", c.DaysSinceLastHearing, c.EffectiveMinGap(a.opts.MinGapDays)),
		})
	}

	// 5. Policy ordering.
	totalCapacity := a.allocator.TotalCapacity(today, plan.CapacityFor)
	if setter, ok := a.policy.(policy.DayContextSetter); ok {
		setter.SetDayContext(policy.DayContext{
			TotalCapacity:     totalCapacity,
			RemainingCapacity: totalCapacity,
			MinGapDays:        a.opts.MinGapDays,
			PreferredCaseType: a.opts.PreferredCaseType,
			StageIndex:        a.tables.StageIndex,
			IsRipe:            func(id string) bool { return ripeSet[id] },
		})
	}
	ordered := a.policy.Prioritize(eligible, today)

	// 6. Apply list overrides.
	ordered = plan.ApplyToList(ordered)

	// Guard: a disposed case must never reach the allocator.
	checked := ordered[:0]
	for _, c := range ordered {
		if c.IsDisposed() {
			res.InvariantViolations++
			a.invariant(fmt.Errorf("schedule: disposed case %s reached allocator on %s", c.ID, today.Format("2006-01-02")))
			continue
		}
		checked = append(checked, c)
	}

	// 7. Allocate.
	alloc := a.allocator.Allocate(checked, today, plan.CapacityFor)
	res.CapacityLimited = len(alloc.CapacityLimited)
	for _, c := range alloc.CapacityLimited {
		res.Unscheduled = append(res.Unscheduled, Unscheduled{Case: c, Reason: "capacity exceeded: all courtrooms full"})
	}

	// 8. Mark scheduled and explain.
	for _, r := range a.allocator.Rooms() {
		list := alloc.ByRoom[r.ID]
		res.CauseLists[r.ID] = list
		for seq, c := range list {
			c.MarkScheduled(today)
			c.CourtroomID = r.ID
			res.Explanations[c.ID] = a.explain(c, r.ID, seq)
			res.TotalScheduled++
		}
	}
	res.Loads = alloc.Loads

	// 9. Per-day overlays (forced ripeness, priority bumps, capacity
	// changes) live on the plan and die here with it.
	res.AppliedOverrides = plan.Applied()
	res.Rejections = plan.Rejections()
	return res
}

func (a *Algorithm) explain(c *courtcase.Case, roomID, seq int) string {
	urgency := "routine"
	if c.IsUrgent {
		urgency = "urgent"
	}
	return fmt.Sprintf("%s; stage %s; priority %.3f; courtroom %d position %d",
		urgency, c.CurrentStage, c.PriorityScore, roomID, seq+1)
}

func (a *Algorithm) invariant(err error) {
	if a.opts.Invariant != nil {
		a.opts.Invariant(err)
		return
	}
	a.log.Warn("invariant violation", "err", err)
}
