package casefile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/courtsim/internal/core/courtcase"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.json")

	a := courtcase.New("CRP/2024/00001", "CRP", date(2024, 1, 1), "ADMISSION")
	a.IsUrgent = true
	b := courtcase.New("RSA/2023/00042", "RSA", date(2023, 5, 1), "ARGUMENTS")
	b.HearingCount = 4
	b.LastHearingDate = date(2024, 2, 1)
	b.LastHearingPurpose = "FOR ARGUMENTS"

	if err := Save(path, []*courtcase.Case{a, b}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d cases, want 2", len(got))
	}
	if got[0].ID != "CRP/2024/00001" || !got[0].IsUrgent {
		t.Errorf("first case mismatch: %+v", got[0])
	}
	if got[1].HearingCount != 4 || !got[1].LastHearingDate.Equal(date(2024, 2, 1)) {
		t.Errorf("second case mismatch: %+v", got[1])
	}
	if got[1].LastHearingPurpose != "FOR ARGUMENTS" {
		t.Errorf("purpose lost: %q", got[1].LastHearingPurpose)
	}
}

func TestLoadRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.json")
	payload := `[
		{"case_id": "X", "case_type": "CRP", "filed_date": "2024-01-01", "current_stage": "ADMISSION"},
		{"case_id": "X", "case_type": "CRP", "filed_date": "2024-01-02", "current_stage": "ADMISSION"}
	]`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("want duplicate error, got %v", err)
	}
}

func TestLoadRejectsHearingBeforeFiling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.json")
	payload := `[
		{"case_id": "X", "case_type": "CRP", "filed_date": "2024-06-01",
		 "current_stage": "ADMISSION", "last_hearing_date": "2024-01-01"}
	]`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("last_hearing_date before filed_date must fail")
	}
}

func TestLoadRejectsMissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.json")
	payload := `[{"case_type": "CRP", "filed_date": "2024-01-01", "current_stage": "ADMISSION"}]`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("missing case_id must fail")
	}
}
