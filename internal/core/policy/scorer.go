package policy

import (
	"time"

	"github.com/example/courtsim/internal/core/courtcase"
)

// Features is the fixed, ordered feature vector exposed to an external
// scoring function. Field order matches the documented vector.
type Features struct {
	StageIndex           int
	AgeDays              int
	DaysSinceLastHearing int
	Urgency              int // 1 if urgent
	Ripe                 int // 1 if ripe today
	HearingCount         int
	CapacityRatio        float64 // remaining capacity / total capacity
	MinGapDays           int
	PreferenceScore      int // 1 if case type matches the day's preference
}

// Scorer delegates ordering to an opaque scoring function over the fixed
// feature vector. Higher scores come first; ties fall back to the
// deterministic case ordering.
type Scorer struct {
	Score func(Features) float64

	day DayContext
}

func (*Scorer) Name() string { return "scorer" }

// SetDayContext installs the per-day feature inputs.
func (s *Scorer) SetDayContext(ctx DayContext) { s.day = ctx }

func (s *Scorer) features(c *courtcase.Case) Features {
	f := Features{
		AgeDays:              c.AgeDays,
		DaysSinceLastHearing: c.DaysSinceLastHearing,
		HearingCount:         c.HearingCount,
		MinGapDays:           s.day.MinGapDays,
	}
	if c.IsUrgent {
		f.Urgency = 1
	}
	if s.day.StageIndex != nil {
		f.StageIndex = s.day.StageIndex(c.CurrentStage)
	}
	if s.day.IsRipe != nil && s.day.IsRipe(c.ID) {
		f.Ripe = 1
	}
	if s.day.TotalCapacity > 0 {
		f.CapacityRatio = float64(s.day.RemainingCapacity) / float64(s.day.TotalCapacity)
	}
	if s.day.PreferredCaseType != "" && c.Type == s.day.PreferredCaseType {
		f.PreferenceScore = 1
	}
	return f
}

func (s *Scorer) Prioritize(cases []*courtcase.Case, today time.Time) []*courtcase.Case {
	for _, c := range cases {
		c.AdvanceAge(today)
	}
	scores := make(map[string]float64, len(cases))
	for _, c := range cases {
		scores[c.ID] = s.Score(s.features(c))
	}
	return sortStable(cases, func(a, b *courtcase.Case) bool {
		if scores[a.ID] != scores[b.ID] {
			return scores[a.ID] > scores[b.ID]
		}
		return courtcase.Before(a, b)
	})
}
