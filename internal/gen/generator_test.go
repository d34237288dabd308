package gen

import (
	"testing"
	"time"

	"github.com/example/courtsim/internal/core/params"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testConfig() Config {
	return Config{
		Count:       500,
		Seed:        42,
		FiledFrom:   date(2019, 1, 1),
		FiledTo:     date(2023, 12, 31),
		WithHistory: true,
	}
}

func TestGenerateCountAndUniqueIDs(t *testing.T) {
	cases, err := Generate(testConfig(), params.Default())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(cases) != 500 {
		t.Fatalf("got %d cases, want 500", len(cases))
	}
	seen := make(map[string]struct{}, len(cases))
	for _, c := range cases {
		if _, dup := seen[c.ID]; dup {
			t.Errorf("duplicate id %s", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	tables := params.Default()
	a, err := Generate(testConfig(), tables)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := Generate(testConfig(), tables)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Type != b[i].Type || !a[i].FiledDate.Equal(b[i].FiledDate) ||
			a[i].HearingCount != b[i].HearingCount || a[i].IsUrgent != b[i].IsUrgent {
			t.Fatalf("case %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateSeedChangesPopulation(t *testing.T) {
	tables := params.Default()
	a, _ := Generate(testConfig(), tables)
	cfg := testConfig()
	cfg.Seed = 7
	b, _ := Generate(cfg, tables)

	same := true
	for i := range a {
		if a[i].ID != b[i].ID || a[i].HearingCount != b[i].HearingCount {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical populations")
	}
}

func TestGenerateFieldBounds(t *testing.T) {
	cfg := testConfig()
	cases, err := Generate(cfg, params.Default())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	urgent := 0
	for _, c := range cases {
		if c.FiledDate.Before(cfg.FiledFrom) || c.FiledDate.After(cfg.FiledTo) {
			t.Errorf("case %s filed %s outside range", c.ID, c.FiledDate)
		}
		if _, ok := params.DefaultCaseTypes[c.Type]; !ok {
			t.Errorf("case %s has unknown type %s", c.ID, c.Type)
		}
		if !c.LastHearingDate.IsZero() && c.LastHearingDate.Before(c.FiledDate) {
			t.Errorf("case %s heard before filing", c.ID)
		}
		if c.IsUrgent {
			urgent++
		}
	}
	// ~5% urgent; allow a generous band for a 500-case sample.
	if urgent == 0 || urgent > 60 {
		t.Errorf("urgent count %d implausible for 5%% of 500", urgent)
	}
}

func TestGenerateWithoutHistory(t *testing.T) {
	cfg := testConfig()
	cfg.WithHistory = false
	cases, err := Generate(cfg, params.Default())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, c := range cases {
		if c.HearingCount != 0 || len(c.History) != 0 {
			t.Errorf("case %s has history without WithHistory", c.ID)
		}
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	tables := params.Default()
	cfg := testConfig()
	cfg.Count = 0
	if _, err := Generate(cfg, tables); err == nil {
		t.Error("zero count must fail")
	}
	cfg = testConfig()
	cfg.FiledTo = cfg.FiledFrom.AddDate(-1, 0, 0)
	if _, err := Generate(cfg, tables); err == nil {
		t.Error("inverted date range must fail")
	}
}

func TestStageMixRespected(t *testing.T) {
	cfg := testConfig()
	cfg.WithHistory = false
	cfg.StageMix = map[string]float64{"EVIDENCE": 1.0}
	cases, err := Generate(cfg, params.Default())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, c := range cases {
		if c.CurrentStage != "EVIDENCE" {
			t.Fatalf("case %s stage = %s, want EVIDENCE", c.ID, c.CurrentStage)
		}
	}
}
