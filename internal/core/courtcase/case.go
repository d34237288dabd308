// Package courtcase contains the case entity and its lifecycle operations.
// All mutating operations are serial per case; the simulation engine
// guarantees this.
package courtcase

import (
	"fmt"
	"time"

	"github.com/example/courtsim/internal/core/calendar"
)

// Status of a case in the system.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusAdjourned Status = "adjourned"
	StatusScheduled Status = "scheduled"
	StatusDisposed  Status = "disposed"
)

// Outcome of a single hearing.
type Outcome string

const (
	OutcomeHeard     Outcome = "heard"
	OutcomeAdjourned Outcome = "adjourned"
	OutcomeDisposed  Outcome = "disposed"
)

// HearingRecord is one entry of a case's audit trail. Records are appended,
// never mutated.
type HearingRecord struct {
	Date        time.Time
	Outcome     Outcome
	StageBefore string
	StageAfter  string
	CourtroomID int
}

// RipenessState carries the last ripeness verdict written back by the
// engine. Verdict strings are defined in the ripeness package; they are
// stored as plain strings here so the entity does not depend on the
// classifier.
type RipenessState struct {
	Verdict     string
	Reason      string
	EvaluatedOn time.Time
}

// Case is a single court case progressing through the stage machine.
// A zero CourtroomID means unassigned.
type Case struct {
	ID          string
	Type        string
	FiledDate   time.Time
	CurrentStage string
	Status      Status
	CourtroomID int
	IsUrgent    bool

	HearingCount       int
	LastHearingDate    time.Time // zero when the case has never been heard
	LastHearingPurpose string
	DisposalDate       time.Time

	StageStartDate time.Time

	// Derived per-day fields, refreshed by AdvanceAge.
	AgeDays              int
	DaysSinceLastHearing int
	DaysInStage          int

	ReadinessScore float64
	PriorityScore  float64

	LastScheduledDate      time.Time
	DaysSinceLastScheduled int

	// MinGapOverrideDays, when positive, replaces the global min-gap for
	// this case.
	MinGapOverrideDays int

	Ripeness RipenessState
	History  []HearingRecord
}

// New creates a pending case filed on filedDate at the given stage.
func New(id, caseType string, filedDate time.Time, stage string) *Case {
	return &Case{
		ID:             id,
		Type:           caseType,
		FiledDate:      calendar.DayKey(filedDate),
		CurrentStage:   stage,
		Status:         StatusPending,
		StageStartDate: calendar.DayKey(filedDate),
	}
}

// IsDisposed reports whether the case has been disposed.
func (c *Case) IsDisposed() bool { return c.Status == StatusDisposed }

// AdvanceAge refreshes the derived day counters for today.
func (c *Case) AdvanceAge(today time.Time) {
	c.AgeDays = calendar.DaysBetween(c.FiledDate, today)
	if !c.LastHearingDate.IsZero() {
		c.DaysSinceLastHearing = calendar.DaysBetween(c.LastHearingDate, today)
	} else {
		c.DaysSinceLastHearing = c.AgeDays
	}
	if !c.StageStartDate.IsZero() {
		c.DaysInStage = calendar.DaysBetween(c.StageStartDate, today)
	} else {
		c.DaysInStage = c.AgeDays
	}
	if !c.LastScheduledDate.IsZero() {
		c.DaysSinceLastScheduled = calendar.DaysBetween(c.LastScheduledDate, today)
	} else {
		c.DaysSinceLastScheduled = c.AgeDays
	}
}

// RecordHearing appends rec to the history and updates the hearing
// bookkeeping. HearingCount counts heard and adjourned records only; a
// disposing record closes the case without counting as a hearing.
func (c *Case) RecordHearing(rec HearingRecord) error {
	if c.IsDisposed() {
		return fmt.Errorf("case %s: hearing recorded after disposal", c.ID)
	}
	if !rec.Date.IsZero() && rec.Date.Before(c.FiledDate) {
		return fmt.Errorf("case %s: hearing date %s before filing date %s",
			c.ID, rec.Date.Format("2006-01-02"), c.FiledDate.Format("2006-01-02"))
	}
	c.History = append(c.History, rec)
	c.LastHearingDate = rec.Date
	switch rec.Outcome {
	case OutcomeHeard:
		c.HearingCount++
		c.Status = StatusActive
	case OutcomeAdjourned:
		c.HearingCount++
		c.Status = StatusAdjourned
	case OutcomeDisposed:
		c.Status = StatusDisposed
		c.DisposalDate = rec.Date
	}
	return nil
}

// ProgressToStage moves the case to stage and resets the stage clock.
func (c *Case) ProgressToStage(stage string, today time.Time) {
	c.CurrentStage = stage
	c.StageStartDate = calendar.DayKey(today)
	c.DaysInStage = 0
}

// MarkScheduled stamps the case as placed on today's cause list.
func (c *Case) MarkScheduled(today time.Time) {
	c.LastScheduledDate = calendar.DayKey(today)
	c.DaysSinceLastScheduled = 0
	if c.Status != StatusDisposed {
		c.Status = StatusScheduled
	}
}

// MarkDisposed closes the case as of today without recording a hearing.
// Used for administrative disposal; the outcome sampler records disposing
// hearings through RecordHearing.
func (c *Case) MarkDisposed(today time.Time) {
	c.Status = StatusDisposed
	c.DisposalDate = calendar.DayKey(today)
}

// SetRipeness writes a ripeness verdict back onto the case. The classifier
// itself never mutates cases; the engine and algorithm call this.
func (c *Case) SetRipeness(verdict, reason string, today time.Time) {
	c.Ripeness = RipenessState{Verdict: verdict, Reason: reason, EvaluatedOn: calendar.DayKey(today)}
}

// EffectiveMinGap returns the per-case gap override when set, else the
// global minimum.
func (c *Case) EffectiveMinGap(globalMinGap int) int {
	if c.MinGapOverrideDays > 0 {
		return c.MinGapOverrideDays
	}
	return globalMinGap
}

// IsReadyForScheduling reports whether the case may be listed today under
// the min-gap rule: not disposed, and either never heard or at least minGap
// days since the last hearing.
func (c *Case) IsReadyForScheduling(today time.Time, minGap int) bool {
	if c.IsDisposed() {
		return false
	}
	if c.LastHearingDate.IsZero() {
		return true
	}
	return calendar.DaysBetween(c.LastHearingDate, today) >= c.EffectiveMinGap(minGap)
}

// NeedsAlert reports whether the case has gone more than maxGap days
// without a hearing.
func (c *Case) NeedsAlert(maxGap int) bool {
	if c.IsDisposed() {
		return false
	}
	return c.DaysSinceLastHearing > maxGap
}

// MeanHearingGapDays is the case's mean inter-hearing gap: age divided by
// hearing count, or days since filing when the case has never been heard.
func (c *Case) MeanHearingGapDays() float64 {
	if c.HearingCount == 0 {
		return float64(c.AgeDays)
	}
	return float64(c.AgeDays) / float64(c.HearingCount)
}
