// Package params holds the immutable parameter tables that drive outcome
// sampling: stage transitions, stage durations, adjournment probabilities,
// case-type statistics, and daily courtroom capacity. Tables are loaded once
// and shared read-only across simulation runs.
package params

import (
	"fmt"
	"math"
	"sort"
)

// ProbTolerance is the maximum deviation from 1.0 a transition row may have.
const ProbTolerance = 1e-6

// Percentile selects which duration column a lookup reads.
type Percentile string

const (
	Median Percentile = "median"
	P90    Percentile = "p90"
)

// Successor is one entry of a discrete next-stage distribution.
type Successor struct {
	Stage string
	P     float64
}

// Distribution is a discrete distribution over next stages.
type Distribution []Successor

// Duration holds per-stage duration statistics in days.
type Duration struct {
	MedianDays float64
	P90Days    float64
}

// TypeStats summarises a case type's historical behaviour.
type TypeStats struct {
	MedianHearings     float64
	MedianGapDays      float64
	MedianDisposalDays float64
}

// Capacity holds the global daily capacity counts per courtroom.
type Capacity struct {
	Nominal int
	P90     int
}

type tableKey struct {
	Stage    string
	CaseType string
}

// Spec is the raw input from which Tables are built.
type Spec struct {
	Stages         []string
	TerminalStages []string
	AdmissionStage string

	Transitions map[string]map[string]Distribution // stage -> case type -> distribution
	Durations   map[string]Duration
	Adjournment map[string]map[string]float64 // stage -> case type -> p
	TypeStats   map[string]TypeStats
	Capacity    Capacity
}

// Tables is the validated, immutable parameter bundle.
type Tables struct {
	stages         []string
	stageIndex     map[string]int
	terminal       map[string]struct{}
	admissionStage string

	transitions map[tableKey]Distribution
	durations   map[string]Duration
	adjournment map[tableKey]float64
	typeStats   map[string]TypeStats
	capacity    Capacity

	// successorsByStage is the union of successors observed for a stage
	// across all case types; it feeds the documented default distribution.
	successorsByStage map[string][]string
}

// New validates spec and builds the lookup tables. Validation failures are
// configuration errors and fatal to engine construction.
func New(spec Spec) (*Tables, error) {
	if len(spec.Stages) == 0 {
		return nil, fmt.Errorf("params: empty stage vocabulary")
	}
	if spec.Capacity.Nominal < 0 || spec.Capacity.P90 < 0 {
		return nil, fmt.Errorf("params: negative daily capacity")
	}

	t := &Tables{
		stages:            spec.Stages,
		stageIndex:        make(map[string]int, len(spec.Stages)),
		terminal:          make(map[string]struct{}, len(spec.TerminalStages)),
		admissionStage:    spec.AdmissionStage,
		transitions:       make(map[tableKey]Distribution),
		durations:         make(map[string]Duration, len(spec.Durations)),
		adjournment:       make(map[tableKey]float64),
		typeStats:         make(map[string]TypeStats, len(spec.TypeStats)),
		capacity:          spec.Capacity,
		successorsByStage: make(map[string][]string),
	}
	for i, s := range spec.Stages {
		t.stageIndex[s] = i
	}
	for _, s := range spec.TerminalStages {
		if _, ok := t.stageIndex[s]; !ok {
			return nil, fmt.Errorf("params: terminal stage %q not in vocabulary", s)
		}
		t.terminal[s] = struct{}{}
	}
	if t.admissionStage == "" && len(spec.Stages) > 0 {
		t.admissionStage = spec.Stages[0]
	}

	seen := make(map[string]map[string]struct{})
	for stage, byType := range spec.Transitions {
		if _, terminal := t.terminal[stage]; terminal {
			return nil, fmt.Errorf("params: terminal stage %q appears as a transition source", stage)
		}
		for caseType, dist := range byType {
			sum := 0.0
			for _, s := range dist {
				if s.P < 0 {
					return nil, fmt.Errorf("params: negative probability for (%s, %s) -> %s", stage, caseType, s.Stage)
				}
				sum += s.P
				if seen[stage] == nil {
					seen[stage] = make(map[string]struct{})
				}
				seen[stage][s.Stage] = struct{}{}
			}
			if math.Abs(sum-1.0) > ProbTolerance {
				return nil, fmt.Errorf("params: transition row (%s, %s) sums to %.9f", stage, caseType, sum)
			}
			t.transitions[tableKey{stage, caseType}] = dist
		}
	}
	for stage, set := range seen {
		succ := make([]string, 0, len(set))
		for s := range set {
			succ = append(succ, s)
		}
		sort.Strings(succ)
		t.successorsByStage[stage] = succ
	}

	for stage, d := range spec.Durations {
		t.durations[stage] = d
	}
	for stage, byType := range spec.Adjournment {
		for caseType, p := range byType {
			if p < 0 || p > 1 {
				return nil, fmt.Errorf("params: adjournment probability %.4f for (%s, %s) outside [0,1]", p, stage, caseType)
			}
			t.adjournment[tableKey{stage, caseType}] = p
		}
	}
	for caseType, st := range spec.TypeStats {
		t.typeStats[caseType] = st
	}
	return t, nil
}

// Stages returns the ordered stage vocabulary.
func (t *Tables) Stages() []string { return t.stages }

// StageIndex returns the position of stage in the vocabulary, or -1.
func (t *Tables) StageIndex(stage string) int {
	if i, ok := t.stageIndex[stage]; ok {
		return i
	}
	return -1
}

// IsTerminal reports whether stage belongs to the terminal set.
func (t *Tables) IsTerminal(stage string) bool {
	_, ok := t.terminal[stage]
	return ok
}

// TerminalStages returns the terminal set in vocabulary order.
func (t *Tables) TerminalStages() []string {
	out := make([]string, 0, len(t.terminal))
	for _, s := range t.stages {
		if t.IsTerminal(s) {
			out = append(out, s)
		}
	}
	return out
}

// AdmissionStage returns the initial admission stage of the vocabulary.
func (t *Tables) AdmissionStage() string { return t.admissionStage }

// Transition returns the next-stage distribution for (stage, caseType).
// The second return is false when the pair is missing and the documented
// default (self-loop 0.9, uniform 0.1 tail over known successors) was
// substituted; callers record the miss.
func (t *Tables) Transition(stage, caseType string) (Distribution, bool) {
	if d, ok := t.transitions[tableKey{stage, caseType}]; ok {
		return d, true
	}
	return t.defaultTransition(stage), false
}

func (t *Tables) defaultTransition(stage string) Distribution {
	succ := make([]string, 0, 4)
	for _, s := range t.successorsByStage[stage] {
		if s != stage {
			succ = append(succ, s)
		}
	}
	if len(succ) == 0 {
		return Distribution{{Stage: stage, P: 1.0}}
	}
	dist := make(Distribution, 0, len(succ)+1)
	dist = append(dist, Successor{Stage: stage, P: 0.9})
	tail := 0.1 / float64(len(succ))
	for _, s := range succ {
		dist = append(dist, Successor{Stage: s, P: tail})
	}
	return dist
}

// Duration returns the duration in days for stage at the given percentile.
// Missing stages report false and a one-day default.
func (t *Tables) Duration(stage string, pct Percentile) (float64, bool) {
	d, ok := t.durations[stage]
	if !ok {
		return 1, false
	}
	if pct == P90 {
		return d.P90Days, true
	}
	return d.MedianDays, true
}

// Adjournment returns the adjournment probability for (stage, caseType).
// Missing pairs report false and the global fallback 0.35.
func (t *Tables) Adjournment(stage, caseType string) (float64, bool) {
	if p, ok := t.adjournment[tableKey{stage, caseType}]; ok {
		return p, true
	}
	return 0.35, false
}

// Stats returns the summary statistics for caseType. Missing types report
// false and a conservative default.
func (t *Tables) Stats(caseType string) (TypeStats, bool) {
	if st, ok := t.typeStats[caseType]; ok {
		return st, true
	}
	return TypeStats{MedianHearings: 5, MedianGapDays: 30, MedianDisposalDays: 365}, false
}

// Capacity returns the nominal daily capacity per courtroom.
func (t *Tables) Capacity() int { return t.capacity.Nominal }

// CapacityP90 returns the high-percentile daily capacity per courtroom.
func (t *Tables) CapacityP90() int { return t.capacity.P90 }
