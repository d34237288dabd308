// Package secondary defines the outbound interfaces the simulation engine
// and services depend on. Adapters implement them.
package secondary

import (
	"context"
	"time"

	"github.com/example/courtsim/internal/core/courtcase"
	"github.com/example/courtsim/internal/core/metrics"
)

// EventSink receives the audit-trail stream. Writes may buffer; the engine
// flushes at day boundaries.
type EventSink interface {
	WriteEvent(e metrics.Event) error
	Flush() error
	Close() error
}

// RunMeta identifies a persisted simulation run.
type RunMeta struct {
	StartDate   time.Time
	HorizonDays int
	Seed        int64
	Policy      string
	CreatedAt   time.Time
}

// CauseListRow is one line of a persisted daily cause list.
type CauseListRow struct {
	Date        time.Time
	CourtroomID int
	Sequence    int
	CaseID      string
	CaseType    string
	Stage       string
	Explanation string
}

// RunStore persists a run's outputs: events, cause lists, per-day metrics,
// per-case audit trails, and the final summary.
type RunStore interface {
	CreateRun(ctx context.Context, meta RunMeta) (int64, error)
	AppendEvents(ctx context.Context, runID int64, events []metrics.Event) error
	AppendCauseList(ctx context.Context, runID int64, rows []CauseListRow) error
	WriteDayMetrics(ctx context.Context, runID int64, rec metrics.DayRecord) error
	WriteHearings(ctx context.Context, runID int64, caseID string, records []courtcase.HearingRecord) error
	WriteSummary(ctx context.Context, runID int64, s metrics.Summary) error
	Close() error
}
