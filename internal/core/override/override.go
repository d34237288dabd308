// Package override validates, stages, and applies human modifications to a
// day's candidate list. Overrides are values; the core never mutates them.
// Per-day effects (forced ripeness, priority bumps, capacity changes) live
// in a Plan overlay and are discarded with it — nothing leaks onto cases
// across days.
package override

import (
	"time"
)

// Kind of override.
type Kind string

const (
	KindAdd      Kind = "add"
	KindRemove   Kind = "remove"
	KindReorder  Kind = "reorder"
	KindPriority Kind = "priority"
	KindRipeness Kind = "ripeness"
	KindCapacity Kind = "capacity"
)

// ApplicationOrder is the fixed order in which kinds are applied within a
// day. Priority overrides trigger a re-sort; reorder is applied last so its
// positions survive.
var ApplicationOrder = []Kind{KindAdd, KindRemove, KindPriority, KindRipeness, KindCapacity, KindReorder}

// Override is a single requested modification. Pointer fields are
// kind-specific payloads; nil means "not supplied".
type Override struct {
	ID          string
	Kind        Kind
	CaseID      string
	CourtroomID int
	ActorID     string
	Timestamp   time.Time
	Reason      string

	Position    *int     // add, reorder
	NewPriority *float64 // priority
	MakeRipe    *bool    // ripeness
	NewCapacity *int     // capacity
}

// Rejection records an override that failed validation, with the reason.
type Rejection struct {
	Override Override
	Reason   string
}

// IntPtr is a convenience constructor for payload fields.
func IntPtr(v int) *int { return &v }

// FloatPtr is a convenience constructor for payload fields.
func FloatPtr(v float64) *float64 { return &v }

// BoolPtr is a convenience constructor for payload fields.
func BoolPtr(v bool) *bool { return &v }
