package policy

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/example/courtsim/internal/core/courtcase"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var advanced = map[string]struct{}{
	"EVIDENCE":          {},
	"ARGUMENTS":         {},
	"ORDERS / JUDGMENT": {},
}

func ids(cases []*courtcase.Case) []string {
	out := make([]string, len(cases))
	for i, c := range cases {
		out[i] = c.ID
	}
	return out
}

func TestNewUnknownPolicy(t *testing.T) {
	if _, err := New("optimal", Options{}); err == nil {
		t.Fatal("unknown policy name must be a configuration error")
	}
}

func TestNewScorerRequiresFunction(t *testing.T) {
	if _, err := New(NameScorer, Options{}); err == nil {
		t.Fatal("scorer without a score function must fail")
	}
}

func TestFIFOOrder(t *testing.T) {
	a := courtcase.New("A", "CRP", date(2024, 1, 1), "ARGUMENTS")
	b := courtcase.New("B", "CRP", date(2024, 1, 2), "ARGUMENTS")
	p := FIFO{}

	got := p.Prioritize([]*courtcase.Case{b, a}, date(2024, 2, 1))
	if diff := cmp.Diff([]string{"A", "B"}, ids(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestFIFOTieBreakByID(t *testing.T) {
	a := courtcase.New("A", "CRP", date(2024, 1, 1), "ARGUMENTS")
	b := courtcase.New("B", "CRP", date(2024, 1, 1), "ARGUMENTS")
	p := FIFO{}
	got := p.Prioritize([]*courtcase.Case{b, a}, date(2024, 2, 1))
	if diff := cmp.Diff([]string{"A", "B"}, ids(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestAgeOrder(t *testing.T) {
	young := courtcase.New("Y", "CRP", date(2024, 1, 1), "ARGUMENTS")
	old := courtcase.New("O", "CRP", date(2020, 1, 1), "ARGUMENTS")
	p := Age{}
	got := p.Prioritize([]*courtcase.Case{young, old}, date(2024, 6, 1))
	if diff := cmp.Diff([]string{"O", "Y"}, ids(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestReadinessOrderPrefersUrgent(t *testing.T) {
	// Same filing date and stage; urgency decides.
	urgent := courtcase.New("U", "CRP", date(2024, 1, 1), "ARGUMENTS")
	urgent.IsUrgent = true
	routine := courtcase.New("R", "CRP", date(2024, 1, 1), "ARGUMENTS")

	p := &Readiness{Advanced: advanced}
	got := p.Prioritize([]*courtcase.Case{routine, urgent}, date(2024, 6, 1))
	if diff := cmp.Diff([]string{"U", "R"}, ids(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if urgent.PriorityScore <= routine.PriorityScore {
		t.Errorf("urgent score %.4f should exceed routine %.4f", urgent.PriorityScore, routine.PriorityScore)
	}
}

func TestReadinessDeterministicAcrossRuns(t *testing.T) {
	mk := func() []*courtcase.Case {
		a := courtcase.New("A", "CRP", date(2023, 5, 1), "EVIDENCE")
		b := courtcase.New("B", "RSA", date(2022, 3, 1), "ADMISSION")
		c := courtcase.New("C", "CA", date(2024, 1, 1), "ARGUMENTS")
		return []*courtcase.Case{a, b, c}
	}
	p := &Readiness{Advanced: advanced}
	first := ids(p.Prioritize(mk(), date(2024, 6, 1)))
	second := ids(p.Prioritize(mk(), date(2024, 6, 1)))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("non-deterministic ordering (-first +second):\n%s", diff)
	}
}

func TestScorerUsesExternalFunction(t *testing.T) {
	a := courtcase.New("A", "CRP", date(2024, 1, 1), "ARGUMENTS")
	b := courtcase.New("B", "CRP", date(2024, 1, 2), "ADMISSION")

	// Score purely by hearing count.
	a.HearingCount = 1
	b.HearingCount = 5
	p := &Scorer{Score: func(f Features) float64 { return float64(f.HearingCount) }}
	got := p.Prioritize([]*courtcase.Case{a, b}, date(2024, 6, 1))
	if diff := cmp.Diff([]string{"B", "A"}, ids(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestScorerFeatureVector(t *testing.T) {
	c := courtcase.New("A", "CRP", date(2024, 1, 1), "ARGUMENTS")
	c.IsUrgent = true
	c.HearingCount = 3

	var seen Features
	p := &Scorer{Score: func(f Features) float64 {
		seen = f
		return 0
	}}
	p.SetDayContext(DayContext{
		TotalCapacity:     100,
		RemainingCapacity: 50,
		MinGapDays:        14,
		PreferredCaseType: "CRP",
		StageIndex:        func(stage string) int { return 4 },
		IsRipe:            func(id string) bool { return true },
	})
	p.Prioritize([]*courtcase.Case{c}, date(2024, 3, 1))

	want := Features{
		StageIndex:           4,
		AgeDays:              60,
		DaysSinceLastHearing: 60,
		Urgency:              1,
		Ripe:                 1,
		HearingCount:         3,
		CapacityRatio:        0.5,
		MinGapDays:           14,
		PreferenceScore:      1,
	}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("feature vector mismatch (-want +got):\n%s", diff)
	}
}

func TestPoliciesDoNotMutateInputSlice(t *testing.T) {
	a := courtcase.New("A", "CRP", date(2024, 1, 1), "ARGUMENTS")
	b := courtcase.New("B", "CRP", date(2023, 1, 1), "ARGUMENTS")
	in := []*courtcase.Case{a, b}
	(&Readiness{Advanced: advanced}).Prioritize(in, date(2024, 6, 1))
	if in[0].ID != "A" || in[1].ID != "B" {
		t.Error("input slice order must be preserved")
	}
}
