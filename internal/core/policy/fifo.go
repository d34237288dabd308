package policy

import (
	"time"

	"github.com/example/courtsim/internal/core/courtcase"
)

// FIFO orders cases by filing date ascending, ties by case id. The baseline
// policy: every case is treated equally.
type FIFO struct{}

func (FIFO) Name() string { return "fifo" }

func (FIFO) Prioritize(cases []*courtcase.Case, today time.Time) []*courtcase.Case {
	return sortStable(cases, courtcase.Before)
}
