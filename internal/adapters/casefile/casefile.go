// Package casefile reads and writes case populations as JSON, using the
// external record shape: case_id, case_type, filed_date, current_stage,
// hearing_count, last_hearing_date, last_hearing_purpose, is_urgent.
package casefile

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/example/courtsim/internal/core/courtcase"
)

const dateFormat = "2006-01-02"

// Record is the on-disk case shape.
type Record struct {
	CaseID             string `json:"case_id"`
	CaseType           string `json:"case_type"`
	FiledDate          string `json:"filed_date"`
	CurrentStage       string `json:"current_stage"`
	HearingCount       int    `json:"hearing_count"`
	LastHearingDate    string `json:"last_hearing_date,omitempty"`
	LastHearingPurpose string `json:"last_hearing_purpose,omitempty"`
	IsUrgent           bool   `json:"is_urgent"`
}

// Load reads a population file. Case ids must be unique.
func Load(path string) ([]*courtcase.Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read population: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse population: %w", err)
	}

	seen := make(map[string]struct{}, len(records))
	cases := make([]*courtcase.Case, 0, len(records))
	for i, rec := range records {
		if rec.CaseID == "" {
			return nil, fmt.Errorf("population record %d: missing case_id", i)
		}
		if _, dup := seen[rec.CaseID]; dup {
			return nil, fmt.Errorf("population record %d: duplicate case_id %s", i, rec.CaseID)
		}
		seen[rec.CaseID] = struct{}{}

		filed, err := time.Parse(dateFormat, rec.FiledDate)
		if err != nil {
			return nil, fmt.Errorf("case %s: invalid filed_date %q: %w", rec.CaseID, rec.FiledDate, err)
		}
		c := courtcase.New(rec.CaseID, rec.CaseType, filed, rec.CurrentStage)
		c.HearingCount = rec.HearingCount
		c.LastHearingPurpose = rec.LastHearingPurpose
		c.IsUrgent = rec.IsUrgent
		if rec.LastHearingDate != "" {
			last, err := time.Parse(dateFormat, rec.LastHearingDate)
			if err != nil {
				return nil, fmt.Errorf("case %s: invalid last_hearing_date %q: %w", rec.CaseID, rec.LastHearingDate, err)
			}
			if last.Before(filed) {
				return nil, fmt.Errorf("case %s: last_hearing_date before filed_date", rec.CaseID)
			}
			c.LastHearingDate = last
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// Save writes the population file for cases.
func Save(path string, cases []*courtcase.Case) error {
	records := make([]Record, 0, len(cases))
	for _, c := range cases {
		rec := Record{
			CaseID:             c.ID,
			CaseType:           c.Type,
			FiledDate:          c.FiledDate.Format(dateFormat),
			CurrentStage:       c.CurrentStage,
			HearingCount:       c.HearingCount,
			LastHearingPurpose: c.LastHearingPurpose,
			IsUrgent:           c.IsUrgent,
		}
		if !c.LastHearingDate.IsZero() {
			rec.LastHearingDate = c.LastHearingDate.Format(dateFormat)
		}
		records = append(records, rec)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal population: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write population: %w", err)
	}
	return nil
}
