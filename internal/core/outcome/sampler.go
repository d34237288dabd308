// Package outcome samples per-hearing outcomes (adjournment, stage
// transition, disposal) from the parameter tables.
//
// RNG discipline: a single master seed; each (case, day) pair gets its own
// substream seeded by hashing (master seed, case id, day ordinal), so
// re-running with the same seed produces identical outcomes regardless of
// how sampling is scheduled across goroutines.
package outcome

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/example/courtsim/internal/core/calendar"
	"github.com/example/courtsim/internal/core/courtcase"
	"github.com/example/courtsim/internal/core/params"
)

// StepResult describes what happened to a case at one hearing.
type StepResult struct {
	Outcome     courtcase.Outcome
	StageBefore string
	StageAfter  string
	Disposed    bool

	// ParamMiss is true when an adjournment or transition lookup fell
	// back to the documented default.
	ParamMiss bool
	// Clamped is true when a numerical edge forced the draw onto the
	// last valid successor.
	Clamped bool
}

// Sampler draws hearing outcomes for scheduled cases.
type Sampler struct {
	tables *params.Tables
	seed   int64
}

// New returns a sampler over tables with the given master seed.
func New(tables *params.Tables, seed int64) *Sampler {
	return &Sampler{tables: tables, seed: seed}
}

// SubstreamSeed derives the deterministic substream seed for (case, day).
func SubstreamSeed(master int64, caseID string, dayOrdinal int64) int64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(master))
	h.Write(buf[:])
	h.Write([]byte(caseID))
	binary.LittleEndian.PutUint64(buf[:], uint64(dayOrdinal))
	h.Write(buf[:])
	return int64(h.Sum64())
}

func (s *Sampler) rng(caseID string, d time.Time) *rand.Rand {
	return rand.New(rand.NewSource(SubstreamSeed(s.seed, caseID, calendar.Ordinal(d))))
}

// Uniform returns the first uniform draw of the (case, day) substream —
// the value the adjournment decision consumes.
func (s *Sampler) Uniform(caseID string, d time.Time) float64 {
	return s.rng(caseID, d).Float64()
}

// Step samples the outcome of case cs heard in courtroom roomID on day d
// and applies it: history append, stage move, disposal, and hearing
// bookkeeping. allowTransition gates stage movement (the engine holds
// cases in a stage until its sampled duration has elapsed); an adjournment
// never moves the stage regardless.
func (s *Sampler) Step(cs *courtcase.Case, d time.Time, roomID int, allowTransition bool) (StepResult, error) {
	stage := cs.CurrentStage
	if s.tables.IsTerminal(stage) {
		return StepResult{}, fmt.Errorf("outcome: terminal stage %q appears as a transition source (case %s)", stage, cs.ID)
	}

	res := StepResult{StageBefore: stage, StageAfter: stage}
	rng := s.rng(cs.ID, d)

	u := rng.Float64()
	pAdj, ok := s.tables.Adjournment(stage, cs.Type)
	if !ok {
		res.ParamMiss = true
	}
	if u < pAdj {
		res.Outcome = courtcase.OutcomeAdjourned
		err := cs.RecordHearing(courtcase.HearingRecord{
			Date: calendar.DayKey(d), Outcome: courtcase.OutcomeAdjourned,
			StageBefore: stage, StageAfter: stage, CourtroomID: roomID,
		})
		return res, err
	}

	// Heard. Sample the successor stage when the stage clock allows it.
	next := stage
	if allowTransition {
		dist, found := s.tables.Transition(stage, cs.Type)
		if !found {
			res.ParamMiss = true
		}
		next, res.Clamped = draw(dist, rng.Float64())
	}
	res.StageAfter = next

	if s.tables.IsTerminal(next) {
		res.Outcome = courtcase.OutcomeDisposed
		res.Disposed = true
		err := cs.RecordHearing(courtcase.HearingRecord{
			Date: calendar.DayKey(d), Outcome: courtcase.OutcomeDisposed,
			StageBefore: stage, StageAfter: next, CourtroomID: roomID,
		})
		if err != nil {
			return res, err
		}
		cs.ProgressToStage(next, d)
		return res, nil
	}

	res.Outcome = courtcase.OutcomeHeard
	err := cs.RecordHearing(courtcase.HearingRecord{
		Date: calendar.DayKey(d), Outcome: courtcase.OutcomeHeard,
		StageBefore: stage, StageAfter: next, CourtroomID: roomID,
	})
	if err != nil {
		return res, err
	}
	if next != stage {
		cs.ProgressToStage(next, d)
	}
	return res, nil
}

// draw walks the cumulative distribution; numerical residue beyond the
// final entry clamps to the last successor.
func draw(dist params.Distribution, r float64) (stage string, clamped bool) {
	cum := 0.0
	for _, succ := range dist {
		cum += succ.P
		if r < cum {
			return succ.Stage, false
		}
	}
	return dist[len(dist)-1].Stage, true
}
