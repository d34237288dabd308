package params

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func minimalSpec() Spec {
	return Spec{
		Stages:         []string{"ADMISSION", "ARGUMENTS", "FINAL DISPOSAL"},
		TerminalStages: []string{"FINAL DISPOSAL"},
		AdmissionStage: "ADMISSION",
		Transitions: map[string]map[string]Distribution{
			"ADMISSION": {
				"CRP": {{Stage: "ADMISSION", P: 0.6}, {Stage: "ARGUMENTS", P: 0.4}},
			},
			"ARGUMENTS": {
				"CRP": {{Stage: "ARGUMENTS", P: 0.5}, {Stage: "FINAL DISPOSAL", P: 0.5}},
			},
		},
		Durations:   map[string]Duration{"ADMISSION": {MedianDays: 90, P90Days: 400}},
		Adjournment: map[string]map[string]float64{"ADMISSION": {"CRP": 0.38}},
		TypeStats:   map[string]TypeStats{"CRP": {MedianHearings: 4, MedianGapDays: 14, MedianDisposalDays: 180}},
		Capacity:    Capacity{Nominal: 10, P90: 20},
	}
}

func TestNewValidSpec(t *testing.T) {
	tables, err := New(minimalSpec())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if tables.Capacity() != 10 {
		t.Errorf("Capacity = %d, want 10", tables.Capacity())
	}
	if !tables.IsTerminal("FINAL DISPOSAL") {
		t.Error("FINAL DISPOSAL should be terminal")
	}
	if tables.IsTerminal("ADMISSION") {
		t.Error("ADMISSION should not be terminal")
	}
	if got := tables.StageIndex("ARGUMENTS"); got != 1 {
		t.Errorf("StageIndex(ARGUMENTS) = %d, want 1", got)
	}
	if got := tables.StageIndex("NOPE"); got != -1 {
		t.Errorf("StageIndex(NOPE) = %d, want -1", got)
	}
}

func TestNewRejectsBadSpecs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Spec)
		wantErr string
	}{
		{
			name:    "empty stages",
			mutate:  func(s *Spec) { s.Stages = nil },
			wantErr: "empty stage vocabulary",
		},
		{
			name: "probabilities do not sum to one",
			mutate: func(s *Spec) {
				s.Transitions["ADMISSION"]["CRP"] = Distribution{{Stage: "ADMISSION", P: 0.6}, {Stage: "ARGUMENTS", P: 0.3}}
			},
			wantErr: "sums to",
		},
		{
			name: "terminal stage as source",
			mutate: func(s *Spec) {
				s.Transitions["FINAL DISPOSAL"] = map[string]Distribution{"CRP": {{Stage: "FINAL DISPOSAL", P: 1}}}
			},
			wantErr: "terminal stage",
		},
		{
			name:    "negative capacity",
			mutate:  func(s *Spec) { s.Capacity.Nominal = -1 },
			wantErr: "negative daily capacity",
		},
		{
			name: "adjournment out of range",
			mutate: func(s *Spec) {
				s.Adjournment["ADMISSION"]["CRP"] = 1.2
			},
			wantErr: "outside [0,1]",
		},
		{
			name:    "unknown terminal stage",
			mutate:  func(s *Spec) { s.TerminalStages = []string{"MISSING"} },
			wantErr: "not in vocabulary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := minimalSpec()
			tt.mutate(&spec)
			_, err := New(spec)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestProbToleranceAccepted(t *testing.T) {
	spec := minimalSpec()
	spec.Transitions["ADMISSION"]["CRP"] = Distribution{
		{Stage: "ADMISSION", P: 0.6},
		{Stage: "ARGUMENTS", P: 0.4 + 5e-7},
	}
	if _, err := New(spec); err != nil {
		t.Fatalf("deviation within tolerance rejected: %v", err)
	}
}

func TestTransitionHitAndMiss(t *testing.T) {
	tables, err := New(minimalSpec())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	dist, ok := tables.Transition("ADMISSION", "CRP")
	if !ok {
		t.Fatal("expected a table hit")
	}
	want := Distribution{{Stage: "ADMISSION", P: 0.6}, {Stage: "ARGUMENTS", P: 0.4}}
	if diff := cmp.Diff(want, dist); diff != "" {
		t.Errorf("distribution mismatch (-want +got):\n%s", diff)
	}

	// Missing case type falls back to the documented default:
	// self-loop 0.9 plus a uniform 0.1 tail over known successors.
	dist, ok = tables.Transition("ADMISSION", "XYZ")
	if ok {
		t.Fatal("expected a miss for unknown case type")
	}
	if dist[0].Stage != "ADMISSION" || dist[0].P != 0.9 {
		t.Errorf("default head = %+v, want ADMISSION self-loop 0.9", dist[0])
	}
	tail := 0.0
	for _, s := range dist[1:] {
		tail += s.P
	}
	if math.Abs(tail-0.1) > 1e-9 {
		t.Errorf("default tail sums to %.6f, want 0.1", tail)
	}
}

func TestTransitionMissWithNoSuccessors(t *testing.T) {
	tables, err := New(minimalSpec())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	dist, ok := tables.Transition("UNSEEN", "CRP")
	if ok {
		t.Fatal("expected a miss")
	}
	want := Distribution{{Stage: "UNSEEN", P: 1.0}}
	if diff := cmp.Diff(want, dist); diff != "" {
		t.Errorf("pure self-loop expected (-want +got):\n%s", diff)
	}
}

func TestDurationLookup(t *testing.T) {
	tables, err := New(minimalSpec())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if d, ok := tables.Duration("ADMISSION", Median); !ok || d != 90 {
		t.Errorf("Duration median = %.0f, %v; want 90, true", d, ok)
	}
	if d, ok := tables.Duration("ADMISSION", P90); !ok || d != 400 {
		t.Errorf("Duration p90 = %.0f, %v; want 400, true", d, ok)
	}
	if d, ok := tables.Duration("UNSEEN", Median); ok || d != 1 {
		t.Errorf("missing duration = %.0f, %v; want 1, false", d, ok)
	}
}

func TestAdjournmentLookup(t *testing.T) {
	tables, err := New(minimalSpec())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if p, ok := tables.Adjournment("ADMISSION", "CRP"); !ok || p != 0.38 {
		t.Errorf("Adjournment = %.2f, %v; want 0.38, true", p, ok)
	}
	if _, ok := tables.Adjournment("ADMISSION", "XYZ"); ok {
		t.Error("expected a miss for unknown case type")
	}
}

func TestDefaultTablesValid(t *testing.T) {
	tables := Default()
	if tables.Capacity() != DefaultDailyCapacity {
		t.Errorf("Capacity = %d, want %d", tables.Capacity(), DefaultDailyCapacity)
	}
	if got, ok := tables.Adjournment("ADMISSION", "CRP"); !ok || got != 0.38 {
		t.Errorf("ADMISSION/CRP adjournment = %.2f, %v; want 0.38, true", got, ok)
	}
	if tables.AdmissionStage() != "ADMISSION" {
		t.Errorf("AdmissionStage = %q", tables.AdmissionStage())
	}
}
