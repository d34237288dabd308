// Package sqlite contains the SQLite implementation of the run store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/courtsim/internal/core/courtcase"
	"github.com/example/courtsim/internal/core/metrics"
	"github.com/example/courtsim/internal/ports/secondary"
)

const dateFormat = "2006-01-02"

// RunRepository implements secondary.RunStore with SQLite.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a run repository over an open connection.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// CreateRun persists run metadata and returns the run id.
func (r *RunRepository) CreateRun(ctx context.Context, meta secondary.RunMeta) (int64, error) {
	created := meta.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO runs (start_date, horizon_days, seed, policy, created_at) VALUES (?, ?, ?, ?, ?)",
		meta.StartDate.Format(dateFormat), meta.HorizonDays, meta.Seed, meta.Policy, created.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}
	return id, nil
}

// AppendEvents persists a batch of audit events.
func (r *RunRepository) AppendEvents(ctx context.Context, runID int64, events []metrics.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin event batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO events (run_id, date, type, case_id, case_type, stage, courtroom_id, detail) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare event insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.ExecContext(ctx,
			runID, e.Date.Format(dateFormat), e.Type, e.CaseID, e.CaseType, e.Stage, e.CourtroomID, e.Detail,
		); err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}
	return tx.Commit()
}

// AppendCauseList persists daily cause-list rows.
func (r *RunRepository) AppendCauseList(ctx context.Context, runID int64, rows []secondary.CauseListRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cause-list batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO cause_lists (run_id, date, courtroom_id, sequence, case_id, case_type, stage, explanation) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare cause-list insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx,
			runID, row.Date.Format(dateFormat), row.CourtroomID, row.Sequence,
			row.CaseID, row.CaseType, row.Stage, row.Explanation,
		); err != nil {
			return fmt.Errorf("failed to insert cause-list row: %w", err)
		}
	}
	return tx.Commit()
}

// WriteDayMetrics persists one day's counters.
func (r *RunRepository) WriteDayMetrics(ctx context.Context, runID int64, rec metrics.DayRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO daily_metrics
			(run_id, date, scheduled, heard, adjourned, disposed, unripe_filtered, gap_blocked, capacity_limited, active_cases)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, rec.Date.Format(dateFormat), rec.Scheduled, rec.Heard, rec.Adjourned,
		rec.Disposed, rec.UnripeFiltered, rec.GapBlocked, rec.CapacityLimited, rec.ActiveCases,
	)
	if err != nil {
		return fmt.Errorf("failed to write day metrics: %w", err)
	}
	return nil
}

// WriteHearings persists a case's hearing records.
func (r *RunRepository) WriteHearings(ctx context.Context, runID int64, caseID string, records []courtcase.HearingRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin hearing batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO hearings (run_id, case_id, date, outcome, stage_before, stage_after, courtroom_id) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare hearing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			runID, caseID, rec.Date.Format(dateFormat), string(rec.Outcome),
			rec.StageBefore, rec.StageAfter, rec.CourtroomID,
		); err != nil {
			return fmt.Errorf("failed to insert hearing: %w", err)
		}
	}
	return tx.Commit()
}

// WriteSummary persists the run summary.
func (r *RunRepository) WriteSummary(ctx context.Context, runID int64, s metrics.Summary) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO run_summaries
			(run_id, days, hearings_total, heard, adjourned, disposals, disposal_rate,
			 adjournment_rate, utilization, gini, coverage, overrides_applied, overrides_rejected)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, s.Days, s.HearingsTotal, s.Heard, s.Adjourned, s.Disposals, s.DisposalRate,
		s.AdjournmentRate, s.Utilization, s.Gini, s.Coverage, s.OverridesApplied, s.OverridesRejected,
	)
	if err != nil {
		return fmt.Errorf("failed to write run summary: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (r *RunRepository) Close() error {
	return r.db.Close()
}
