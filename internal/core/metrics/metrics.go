// Package metrics accumulates per-day and per-case statistics during a run
// and computes the aggregate summary at finalisation.
package metrics

import (
	"time"

	"github.com/example/courtsim/internal/core/allocate"
	"github.com/example/courtsim/internal/core/courtcase"
)

// DayRecord is the per-day counter set.
type DayRecord struct {
	Date            time.Time   `json:"date"`
	Scheduled       int         `json:"scheduled"`
	Heard           int         `json:"heard"`
	Adjourned       int         `json:"adjourned"`
	Disposed        int         `json:"disposed"`
	UnripeFiltered  int         `json:"unripe_filtered"`
	GapBlocked      int         `json:"gap_blocked"`
	CapacityLimited int         `json:"capacity_limited"`
	RoomCounts      map[int]int `json:"room_counts"`
	CapacityOffered int         `json:"capacity_offered"`
	ActiveCases     int         `json:"active_cases"`
}

// Summary is the aggregate result of a finalised run.
type Summary struct {
	Days              int     `json:"days"`
	InitialPopulation int     `json:"initial_population"`
	Inflow            int     `json:"inflow"`
	HearingsTotal     int     `json:"hearings_total"`
	Heard             int     `json:"heard"`
	Adjourned         int     `json:"adjourned"`
	Disposals         int     `json:"disposals"`
	ActiveAtEnd       int     `json:"active_at_end"`
	DisposalRate      float64 `json:"disposal_rate"`
	AdjournmentRate   float64 `json:"adjournment_rate"`
	Utilization       float64 `json:"utilization"`
	Gini              float64 `json:"gini"`
	Coverage          float64 `json:"coverage"`

	UnripeFiltered      int `json:"unripe_filtered"`
	GapBlocked          int `json:"gap_blocked"`
	CapacityLimited     int `json:"capacity_limited"`
	OverridesApplied    int `json:"overrides_applied"`
	OverridesRejected   int `json:"overrides_rejected"`
	MissingParams       int `json:"missing_params"`
	ClampWarnings       int `json:"clamp_warnings"`
	InvariantViolations int `json:"invariant_violations"`
	RipenessTransitions int `json:"ripeness_transitions"`
	GapAlerts           int `json:"gap_alerts"`
}

// Collector owns the per-run counters. It is not safe for concurrent use;
// the engine observes serially (or combines per-worker reducers before
// observing).
type Collector struct {
	initialPopulation int
	inflow            int

	days []DayRecord

	heard     int
	adjourned int
	disposals int

	capacityOffered int
	scheduledTotal  int

	roomTotals map[int]int

	unripeFiltered      int
	gapBlocked          int
	capacityLimited     int
	overridesApplied    int
	overridesRejected   int
	missingParams       int
	clampWarnings       int
	invariantViolations int
	ripenessTransitions int
	gapAlerts           int

	scheduledOnce map[string]struct{}
}

// NewCollector starts a collector for a run over an initial population.
func NewCollector(initialPopulation int) *Collector {
	return &Collector{
		initialPopulation: initialPopulation,
		roomTotals:        make(map[int]int),
		scheduledOnce:     make(map[string]struct{}),
	}
}

// ObserveDay records a completed day.
func (c *Collector) ObserveDay(rec DayRecord) {
	c.days = append(c.days, rec)
	c.heard += rec.Heard
	c.adjourned += rec.Adjourned
	c.disposals += rec.Disposed
	c.unripeFiltered += rec.UnripeFiltered
	c.gapBlocked += rec.GapBlocked
	c.capacityLimited += rec.CapacityLimited
	c.capacityOffered += rec.CapacityOffered
	c.scheduledTotal += rec.Scheduled
	for id, n := range rec.RoomCounts {
		c.roomTotals[id] += n
	}
}

// ObserveScheduled marks a case as scheduled at least once, for coverage.
func (c *Collector) ObserveScheduled(caseID string) {
	c.scheduledOnce[caseID] = struct{}{}
}

// ObserveInflow counts cases filed during the run.
func (c *Collector) ObserveInflow(n int) { c.inflow += n }

// ObserveOverrides counts applied and rejected overrides.
func (c *Collector) ObserveOverrides(applied, rejected int) {
	c.overridesApplied += applied
	c.overridesRejected += rejected
}

// ObserveParamMiss counts a parameter-table miss recovered via default.
func (c *Collector) ObserveParamMiss() { c.missingParams++ }

// ObserveClamp counts a numerical clamp during sampling.
func (c *Collector) ObserveClamp() { c.clampWarnings++ }

// ObserveInvariantViolation counts a recorded-and-skipped violation.
func (c *Collector) ObserveInvariantViolation(n int) { c.invariantViolations += n }

// ObserveRipenessTransitions counts ripeness verdict changes.
func (c *Collector) ObserveRipenessTransitions(n int) { c.ripenessTransitions += n }

// ObserveGapAlerts counts cases flagged for exceeding the maximum
// hearing gap during a re-evaluation sweep.
func (c *Collector) ObserveGapAlerts(n int) { c.gapAlerts += n }

// Days returns the per-day records in order.
func (c *Collector) Days() []DayRecord {
	out := make([]DayRecord, len(c.days))
	copy(out, c.days)
	return out
}

// Finalize computes the aggregate summary. cases is the full population at
// the end of the run (disposed cases included).
func (c *Collector) Finalize(cases []*courtcase.Case) Summary {
	s := Summary{
		Days:                len(c.days),
		InitialPopulation:   c.initialPopulation,
		Inflow:              c.inflow,
		Heard:               c.heard,
		Adjourned:           c.adjourned,
		HearingsTotal:       c.heard + c.adjourned,
		Disposals:           c.disposals,
		UnripeFiltered:      c.unripeFiltered,
		GapBlocked:          c.gapBlocked,
		CapacityLimited:     c.capacityLimited,
		OverridesApplied:    c.overridesApplied,
		OverridesRejected:   c.overridesRejected,
		MissingParams:       c.missingParams,
		ClampWarnings:       c.clampWarnings,
		InvariantViolations: c.invariantViolations,
		RipenessTransitions: c.ripenessTransitions,
		GapAlerts:           c.gapAlerts,
	}
	for _, cs := range cases {
		if !cs.IsDisposed() {
			s.ActiveAtEnd++
		}
	}
	if c.initialPopulation > 0 {
		s.DisposalRate = float64(c.disposals) / float64(c.initialPopulation)
	}
	if s.HearingsTotal > 0 {
		s.AdjournmentRate = float64(c.adjourned) / float64(s.HearingsTotal)
	}
	if c.capacityOffered > 0 {
		s.Utilization = float64(c.scheduledTotal) / float64(c.capacityOffered)
	}
	totals := make([]int, 0, len(c.roomTotals))
	for _, n := range c.roomTotals {
		totals = append(totals, n)
	}
	s.Gini = allocate.Gini(totals)
	if len(cases) > 0 {
		s.Coverage = float64(len(c.scheduledOnce)) / float64(len(cases))
	}
	return s
}
