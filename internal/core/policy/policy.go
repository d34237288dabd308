// Package policy defines the pluggable ordering over an eligible case set.
// Policies order cases but are not side-effect free: Age, Readiness and the
// scorer policy call AdvanceAge(today) on every input case, and Readiness
// also recomputes and caches ReadinessScore and PriorityScore. No policy
// changes any other case field.
package policy

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/courtsim/internal/core/courtcase"
)

// Policy orders an eligible case set for a day. Implementations must be
// deterministic given their inputs.
type Policy interface {
	Name() string
	Prioritize(cases []*courtcase.Case, today time.Time) []*courtcase.Case
}

// DayContext carries the per-day quantities the external scorer's feature
// vector needs. The scheduling algorithm installs it before ordering on
// policies that implement DayContextSetter.
type DayContext struct {
	TotalCapacity     int
	RemainingCapacity int
	MinGapDays        int
	PreferredCaseType string
	StageIndex        func(stage string) int
	IsRipe            func(caseID string) bool
}

// DayContextSetter is implemented by policies that consume DayContext.
type DayContextSetter interface {
	SetDayContext(DayContext)
}

// Policy names accepted by New.
const (
	NameFIFO      = "fifo"
	NameAge       = "age"
	NameReadiness = "readiness"
	NameScorer    = "scorer"
)

// Options configures policy construction.
type Options struct {
	// Advanced is the advanced-stage set for readiness scoring.
	Advanced map[string]struct{}
	// Score is the opaque scoring function for the external-scorer policy.
	Score func(Features) float64
}

// New returns the named policy. Unknown names are a configuration error.
func New(name string, opts Options) (Policy, error) {
	switch name {
	case NameFIFO:
		return FIFO{}, nil
	case NameAge:
		return Age{}, nil
	case NameReadiness:
		return &Readiness{Advanced: opts.Advanced}, nil
	case NameScorer:
		if opts.Score == nil {
			return nil, fmt.Errorf("policy: scorer policy requires a score function")
		}
		return &Scorer{Score: opts.Score}, nil
	default:
		return nil, fmt.Errorf("policy: unknown policy %q", name)
	}
}

// Names returns the supported policy names.
func Names() []string {
	return []string{NameFIFO, NameAge, NameReadiness, NameScorer}
}

func sortStable(cases []*courtcase.Case, less func(a, b *courtcase.Case) bool) []*courtcase.Case {
	out := make([]*courtcase.Case, len(cases))
	copy(out, cases)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
