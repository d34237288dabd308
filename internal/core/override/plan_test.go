package override

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/example/courtsim/internal/core/courtcase"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mkCase(id string) *courtcase.Case {
	return courtcase.New(id, "CRP", date(2024, 1, 1), "ARGUMENTS")
}

func env(all map[string]*courtcase.Case) Env {
	return Env{
		Lookup: func(id string) (*courtcase.Case, bool) {
			c, ok := all[id]
			return c, ok
		},
		RoomExists:      func(id int) bool { return id == 1 || id == 2 },
		HardMaxCapacity: 200,
	}
}

func ids(cases []*courtcase.Case) []string {
	out := make([]string, len(cases))
	for i, c := range cases {
		out[i] = c.ID
	}
	return out
}

func TestAddThenReorder(t *testing.T) {
	x, y, z, w := mkCase("X"), mkCase("Y"), mkCase("Z"), mkCase("W")
	all := map[string]*courtcase.Case{"X": x, "Y": y, "Z": z, "W": w}
	list := []*courtcase.Case{x, y, z}

	plan := NewPlan([]Override{
		{ID: "o1", Kind: KindAdd, CaseID: "W", Position: IntPtr(0)},
		{ID: "o2", Kind: KindReorder, CaseID: "Z", Position: IntPtr(0)},
	}, env(all))

	got := plan.ApplyToList(list)
	if diff := cmp.Diff([]string{"Z", "W", "X", "Y"}, ids(got)); diff != "" {
		t.Errorf("final order mismatch (-want +got):\n%s", diff)
	}
	if len(plan.Rejections()) != 0 {
		t.Errorf("unexpected rejections: %+v", plan.Rejections())
	}
	if len(plan.Applied()) != 2 {
		t.Errorf("applied = %d, want 2", len(plan.Applied()))
	}
}

func TestAddRejectsDisposedAndDuplicates(t *testing.T) {
	x := mkCase("X")
	d := mkCase("D")
	d.MarkDisposed(date(2024, 2, 1))
	all := map[string]*courtcase.Case{"X": x, "D": d}
	list := []*courtcase.Case{x}

	plan := NewPlan([]Override{
		{ID: "o1", Kind: KindAdd, CaseID: "D"},
		{ID: "o2", Kind: KindAdd, CaseID: "X"},
		{ID: "o3", Kind: KindAdd, CaseID: "GHOST"},
	}, env(all))

	got := plan.ApplyToList(list)
	if diff := cmp.Diff([]string{"X"}, ids(got)); diff != "" {
		t.Errorf("list changed (-want +got):\n%s", diff)
	}
	if len(plan.Rejections()) != 3 {
		t.Fatalf("rejections = %d, want 3", len(plan.Rejections()))
	}
	for _, rej := range plan.Rejections() {
		if rej.Reason == "" {
			t.Error("rejection without reason")
		}
	}
}

func TestRemove(t *testing.T) {
	x, y := mkCase("X"), mkCase("Y")
	all := map[string]*courtcase.Case{"X": x, "Y": y}
	plan := NewPlan([]Override{
		{ID: "o1", Kind: KindRemove, CaseID: "X"},
		{ID: "o2", Kind: KindRemove, CaseID: "MISSING"},
	}, env(all))

	got := plan.ApplyToList([]*courtcase.Case{x, y})
	if diff := cmp.Diff([]string{"Y"}, ids(got)); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
	if len(plan.Rejections()) != 1 {
		t.Errorf("rejections = %d, want 1", len(plan.Rejections()))
	}
}

func TestPriorityOverrideResorts(t *testing.T) {
	x, y, z := mkCase("X"), mkCase("Y"), mkCase("Z")
	x.PriorityScore = 0.9
	y.PriorityScore = 0.5
	z.PriorityScore = 0.1
	all := map[string]*courtcase.Case{"X": x, "Y": y, "Z": z}

	plan := NewPlan([]Override{
		{ID: "o1", Kind: KindPriority, CaseID: "Z", NewPriority: FloatPtr(1.0)},
	}, env(all))

	got := plan.ApplyToList([]*courtcase.Case{x, y, z})
	if diff := cmp.Diff([]string{"Z", "X", "Y"}, ids(got)); diff != "" {
		t.Errorf("resorted order mismatch (-want +got):\n%s", diff)
	}
	// The overlay never touches the case's own cached score.
	if z.PriorityScore != 0.1 {
		t.Errorf("case priority mutated to %.2f", z.PriorityScore)
	}
}

func TestPriorityOutOfRangeRejected(t *testing.T) {
	x := mkCase("X")
	all := map[string]*courtcase.Case{"X": x}
	plan := NewPlan([]Override{
		{ID: "o1", Kind: KindPriority, CaseID: "X", NewPriority: FloatPtr(1.5)},
	}, env(all))
	got := plan.ApplyToList([]*courtcase.Case{x})
	if len(got) != 1 || len(plan.Rejections()) != 1 {
		t.Errorf("out-of-range priority should be rejected")
	}
}

func TestReorderPositionBounds(t *testing.T) {
	x, y := mkCase("X"), mkCase("Y")
	all := map[string]*courtcase.Case{"X": x, "Y": y}
	plan := NewPlan([]Override{
		{ID: "o1", Kind: KindReorder, CaseID: "X", Position: IntPtr(2)},
	}, env(all))
	got := plan.ApplyToList([]*courtcase.Case{x, y})
	if diff := cmp.Diff([]string{"X", "Y"}, ids(got)); diff != "" {
		t.Errorf("list should be unchanged (-want +got):\n%s", diff)
	}
	if len(plan.Rejections()) != 1 {
		t.Errorf("rejections = %d, want 1", len(plan.Rejections()))
	}
}

func TestRipenessOverlay(t *testing.T) {
	x := mkCase("X")
	d := mkCase("D")
	d.MarkDisposed(date(2024, 2, 1))
	all := map[string]*courtcase.Case{"X": x, "D": d}

	plan := NewPlan([]Override{
		{ID: "o1", Kind: KindRipeness, CaseID: "X", MakeRipe: BoolPtr(true)},
		{ID: "o2", Kind: KindRipeness, CaseID: "D", MakeRipe: BoolPtr(true)},
	}, env(all))

	if makeRipe, ok := plan.ForcedRipe("X"); !ok || !makeRipe {
		t.Error("X should be forced ripe")
	}
	if _, ok := plan.ForcedRipe("D"); ok {
		t.Error("disposed case must not be forceable")
	}
	if len(plan.Rejections()) != 1 {
		t.Errorf("rejections = %d, want 1", len(plan.Rejections()))
	}
}

func TestCapacityOverlay(t *testing.T) {
	all := map[string]*courtcase.Case{}
	plan := NewPlan([]Override{
		{ID: "o1", Kind: KindCapacity, CourtroomID: 1, NewCapacity: IntPtr(3)},
		{ID: "o2", Kind: KindCapacity, CourtroomID: 9, NewCapacity: IntPtr(3)},
		{ID: "o3", Kind: KindCapacity, CourtroomID: 2, NewCapacity: IntPtr(999)},
	}, env(all))

	if got := plan.CapacityFor(1, 10); got != 3 {
		t.Errorf("CapacityFor(1) = %d, want 3", got)
	}
	if got := plan.CapacityFor(2, 10); got != 10 {
		t.Errorf("rejected capacity override must not apply, got %d", got)
	}
	if len(plan.Rejections()) != 2 {
		t.Errorf("rejections = %d, want 2", len(plan.Rejections()))
	}
}

// Rejected overrides must leave the schedule exactly as if they were
// absent.
func TestRejectionInvariance(t *testing.T) {
	mk := func() ([]*courtcase.Case, map[string]*courtcase.Case) {
		x, y := mkCase("X"), mkCase("Y")
		return []*courtcase.Case{x, y}, map[string]*courtcase.Case{"X": x, "Y": y}
	}

	listA, allA := mk()
	planA := NewPlan(nil, env(allA))
	withoutOverride := ids(planA.ApplyToList(listA))

	listB, allB := mk()
	planB := NewPlan([]Override{
		{ID: "bad", Kind: KindReorder, CaseID: "X", Position: IntPtr(99)},
	}, env(allB))
	withRejected := ids(planB.ApplyToList(listB))

	if diff := cmp.Diff(withoutOverride, withRejected); diff != "" {
		t.Errorf("rejected override altered the schedule (-absent +rejected):\n%s", diff)
	}
}

func TestInputOverridesNeverMutated(t *testing.T) {
	x := mkCase("X")
	all := map[string]*courtcase.Case{"X": x}
	in := []Override{{ID: "o1", Kind: KindRemove, CaseID: "X"}}
	plan := NewPlan(in, env(all))
	plan.ApplyToList([]*courtcase.Case{x})
	if in[0].ID != "o1" || in[0].Kind != KindRemove || in[0].CaseID != "X" {
		t.Error("input override mutated")
	}
}
