package policy

import (
	"time"

	"github.com/example/courtsim/internal/core/courtcase"
)

// Age orders cases by age descending to cap the maximum backlog age.
type Age struct{}

func (Age) Name() string { return "age" }

func (Age) Prioritize(cases []*courtcase.Case, today time.Time) []*courtcase.Case {
	for _, c := range cases {
		c.AdvanceAge(today)
	}
	return sortStable(cases, func(a, b *courtcase.Case) bool {
		if a.AgeDays != b.AgeDays {
			return a.AgeDays > b.AgeDays
		}
		return courtcase.Before(a, b)
	})
}
