// Package gen produces synthetic case populations for simulation runs.
// Generation is deterministic under its seed.
package gen

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/example/courtsim/internal/core/calendar"
	"github.com/example/courtsim/internal/core/courtcase"
	"github.com/example/courtsim/internal/core/params"
)

// UrgentShare is the fraction of generated cases flagged urgent.
const UrgentShare = 0.05

// Purposes occasionally stamped on generated cases with hearing history,
// so the ripeness keyword rules have material to work on.
var purposes = []string{
	"",
	"",
	"",
	"FOR ARGUMENTS",
	"ISSUE SUMMONS",
	"AWAITING NOTICE",
	"STAY APPLICATION PENDING",
	"PRODUCTION OF DOCUMENTS",
	"FOR ORDERS",
}

// Config drives population generation.
type Config struct {
	Count int
	Seed  int64
	// FiledFrom/FiledTo bound the filing-date spread.
	FiledFrom time.Time
	FiledTo   time.Time
	// TypeDist defaults to the built-in case-type distribution.
	TypeDist map[string]float64
	// StageMix defaults to an all-admission population.
	StageMix map[string]float64
	// WithHistory seeds hearing counts and last-hearing dates so the
	// population looks mid-flight rather than freshly filed.
	WithHistory bool
}

// Generate returns a deterministic synthetic population.
func Generate(cfg Config, tables *params.Tables) ([]*courtcase.Case, error) {
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("gen: count must be positive, got %d", cfg.Count)
	}
	if cfg.FiledTo.Before(cfg.FiledFrom) {
		return nil, fmt.Errorf("gen: filed_to before filed_from")
	}
	typeDist := cfg.TypeDist
	if len(typeDist) == 0 {
		typeDist = params.DefaultCaseTypes
	}
	stageMix := cfg.StageMix
	if len(stageMix) == 0 {
		stageMix = map[string]float64{tables.AdmissionStage(): 1.0}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	spreadDays := calendar.DaysBetween(cfg.FiledFrom, cfg.FiledTo)
	cases := make([]*courtcase.Case, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		caseType := drawCategory(rng, typeDist)
		stage := drawCategory(rng, stageMix)
		filed := calendar.DayKey(cfg.FiledFrom)
		if spreadDays > 0 {
			filed = filed.AddDate(0, 0, rng.Intn(spreadDays+1))
		}
		id := fmt.Sprintf("%s/%d/%05d", caseType, filed.Year(), i+1)
		c := courtcase.New(id, caseType, filed, stage)
		c.IsUrgent = rng.Float64() < UrgentShare

		if cfg.WithHistory {
			seedHistory(rng, c, tables, cfg.FiledTo)
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// seedHistory gives a case a plausible mid-flight hearing history ending
// before asOf.
func seedHistory(rng *rand.Rand, c *courtcase.Case, tables *params.Tables, asOf time.Time) {
	stats, _ := tables.Stats(c.Type)
	maxHearings := int(stats.MedianHearings)
	if maxHearings < 1 {
		maxHearings = 1
	}
	n := rng.Intn(maxHearings + 1)
	if n == 0 {
		return
	}
	gap := int(stats.MedianGapDays)
	if gap < 7 {
		gap = 7
	}
	d := c.FiledDate
	for i := 0; i < n; i++ {
		d = d.AddDate(0, 0, gap/2+rng.Intn(gap+1))
		if !d.Before(asOf) {
			break
		}
		outcomeKind := courtcase.OutcomeHeard
		if rng.Float64() < 0.4 {
			outcomeKind = courtcase.OutcomeAdjourned
		}
		_ = c.RecordHearing(courtcase.HearingRecord{
			Date: d, Outcome: outcomeKind,
			StageBefore: c.CurrentStage, StageAfter: c.CurrentStage,
		})
	}
	if c.HearingCount > 0 {
		c.LastHearingPurpose = purposes[rng.Intn(len(purposes))]
	}
}

func drawCategory(rng *rand.Rand, dist map[string]float64) string {
	keys := make([]string, 0, len(dist))
	total := 0.0
	for k, w := range dist {
		if w <= 0 {
			continue
		}
		keys = append(keys, k)
		total += w
	}
	sort.Strings(keys)
	r := rng.Float64() * total
	cum := 0.0
	for _, k := range keys {
		cum += dist[k]
		if r < cum {
			return k
		}
	}
	return keys[len(keys)-1]
}
