package policy

import (
	"time"

	"github.com/example/courtsim/internal/core/courtcase"
)

// Readiness orders cases by the composite priority score (age, readiness,
// urgency, adjournment boost) descending. The most sophisticated built-in
// policy, balancing fairness with throughput.
type Readiness struct {
	// Advanced is the advanced-stage set the readiness score consults.
	Advanced map[string]struct{}
}

func (*Readiness) Name() string { return "readiness" }

func (p *Readiness) Prioritize(cases []*courtcase.Case, today time.Time) []*courtcase.Case {
	for _, c := range cases {
		c.AdvanceAge(today)
		c.ComputeReadiness(p.Advanced)
		c.ComputePriority()
	}
	out := make([]*courtcase.Case, len(cases))
	copy(out, cases)
	courtcase.SortByPriority(out)
	return out
}
