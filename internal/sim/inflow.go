package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/example/courtsim/internal/core/calendar"
	"github.com/example/courtsim/internal/core/courtcase"
	"github.com/example/courtsim/internal/core/metrics"
	"github.com/example/courtsim/internal/core/outcome"
)

// inflowStreamKey keys the inflow RNG substream; it shares the keyed-hash
// discipline of the outcome sampler so inflow stays deterministic under
// the master seed.
const inflowStreamKey = "__inflow__"

// fileNewCases samples the day's filings and inserts them into the
// population at the admission stage (or a sampled initial stage).
func (e *Engine) fileNewCases(d time.Time) {
	rng := rand.New(rand.NewSource(outcome.SubstreamSeed(e.cfg.Seed, inflowStreamKey, calendar.Ordinal(d))))
	n := samplePoisson(rng, e.cfg.Inflow.RatePerDay)
	if n == 0 {
		return
	}
	e.collector.ObserveInflow(n)
	for i := 0; i < n; i++ {
		e.inflowSeq++
		caseType := sampleCategory(rng, e.cfg.Inflow.TypeDist, defaultInflowCaseType)
		stage := sampleCategory(rng, e.cfg.Inflow.StageDist, e.tables.AdmissionStage())
		id := fmt.Sprintf("NEW/%d/%05d", d.Year(), e.inflowSeq)
		c := courtcase.New(id, caseType, d, stage)
		e.cases = append(e.cases, c)
		e.initStageReady(c)
		e.emit(metrics.Event{
			Date: d, Type: metrics.EventFiling, CaseID: id,
			CaseType: caseType, Stage: stage, Detail: "new filing",
		})
	}
}

// defaultInflowCaseType is filed when no type distribution is configured.
const defaultInflowCaseType = "CRP"

// sampleCategory draws from a weighted category map. Keys are walked in
// sorted order so the draw is deterministic. Empty maps return fallback.
func sampleCategory(rng *rand.Rand, dist map[string]float64, fallback string) string {
	if len(dist) == 0 {
		return fallback
	}
	keys := make([]string, 0, len(dist))
	total := 0.0
	for k, w := range dist {
		if w <= 0 {
			continue
		}
		keys = append(keys, k)
		total += w
	}
	if len(keys) == 0 || total <= 0 {
		return fallback
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

// samplePoisson draws a Poisson count; large rates use the normal
// approximation.
func samplePoisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	if lambda > 50 {
		estimate := rng.NormFloat64()*math.Sqrt(lambda) + lambda
		if estimate < 0 {
			return 0
		}
		return int(math.Round(estimate))
	}
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for p > l {
		k++
		p *= rng.Float64()
	}
	return k - 1
}
