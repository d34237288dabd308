// Package ripeness classifies whether a case is ready to receive
// substantive judicial time on a given day. The classifier is pure: it
// reads case state and returns a verdict; callers write the verdict back
// onto the case.
package ripeness

import (
	"strings"
	"time"

	"github.com/example/courtsim/internal/core/courtcase"
)

// Verdict of a ripeness evaluation.
type Verdict string

const (
	Ripe            Verdict = "ripe"
	UnripeSummons   Verdict = "unripe_summons"
	UnripeDependent Verdict = "unripe_dependent"
	UnripeParty     Verdict = "unripe_party"
	UnripeDocument  Verdict = "unripe_document"
	Unknown         Verdict = "unknown"
)

// IsRipe reports whether v permits scheduling.
func (v Verdict) IsRipe() bool { return v == Ripe }

// Reason returns the canonical explanation for a verdict.
func (v Verdict) Reason() string {
	switch v {
	case Ripe:
		return "ready for hearing, no bottlenecks detected"
	case UnripeSummons:
		return "waiting for summons service or notice response"
	case UnripeDependent:
		return "waiting for another case or court order"
	case UnripeParty:
		return "party or lawyer unavailable"
	case UnripeDocument:
		return "missing documents or evidence"
	default:
		return "insufficient readiness evidence"
	}
}

// Bottleneck keywords matched against the last hearing purpose. The purpose
// text is treated as an enumerated tag: a keyword hit wins over all
// structural rules.
var purposeKeywords = []struct {
	words   []string
	verdict Verdict
}{
	{[]string{"summons", "notice"}, UnripeSummons},
	{[]string{"stay", "pending"}, UnripeDependent},
	{[]string{"document", "record"}, UnripeDocument},
}

// Thresholds tune the structural rules. Settable for calibration; the
// classifier itself never mutates them.
type Thresholds struct {
	MinServiceHearings int
	StuckHearingCount  int
	StuckAvgGapDays    float64
	AdvancedStages     []string
}

// DefaultThresholds returns the calibrated production thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinServiceHearings: 0,
		StuckHearingCount:  10,
		StuckAvgGapDays:    60,
		AdvancedStages:     []string{"EVIDENCE", "ARGUMENTS", "ORDERS / JUDGMENT"},
	}
}

// Classifier evaluates ripeness against a threshold bundle.
type Classifier struct {
	thresholds     Thresholds
	advanced       map[string]struct{}
	admissionStage string

	// Strict makes the fallthrough verdict Unknown instead of Ripe;
	// callers filter Unknown like non-ripe.
	Strict bool
}

// New builds a classifier. admissionStage is the vocabulary's initial
// admission stage.
func New(t Thresholds, admissionStage string) *Classifier {
	c := &Classifier{admissionStage: admissionStage}
	c.SetThresholds(t)
	return c
}

// SetThresholds replaces the threshold bundle.
func (c *Classifier) SetThresholds(t Thresholds) {
	c.thresholds = t
	c.advanced = make(map[string]struct{}, len(t.AdvancedStages))
	for _, s := range t.AdvancedStages {
		c.advanced[s] = struct{}{}
	}
}

// Thresholds returns the current threshold bundle.
func (c *Classifier) Thresholds() Thresholds { return c.thresholds }

// AdvancedStages returns the advanced-stage set for readiness scoring.
func (c *Classifier) AdvancedStages() map[string]struct{} { return c.advanced }

// Classify returns the verdict and its reason for cs on today. The rules
// are evaluated in a fixed order; the first match wins.
func (c *Classifier) Classify(cs *courtcase.Case, today time.Time) (Verdict, string) {
	// 1. Explicit bottleneck keywords in the last hearing purpose.
	if cs.LastHearingPurpose != "" {
		purpose := strings.ToLower(cs.LastHearingPurpose)
		for _, kw := range purposeKeywords {
			for _, w := range kw.words {
				if strings.Contains(purpose, w) {
					return kw.verdict, kw.verdict.Reason()
				}
			}
		}
	}

	// 2. Early admission: too few hearings to confirm service.
	if cs.CurrentStage == c.admissionStage && cs.HearingCount < c.thresholds.MinServiceHearings {
		return UnripeSummons, UnripeSummons.Reason()
	}

	// 3. Stuck: many hearings with a large mean gap.
	if cs.HearingCount > c.thresholds.StuckHearingCount &&
		cs.MeanHearingGapDays() > c.thresholds.StuckAvgGapDays {
		return UnripeParty, UnripeParty.Reason()
	}

	// 4. Advanced stage is substantive work.
	if _, ok := c.advanced[cs.CurrentStage]; ok {
		return Ripe, Ripe.Reason()
	}

	// 5. Fallthrough.
	if c.Strict {
		return Unknown, Unknown.Reason()
	}
	return Ripe, "no bottleneck signals"
}

// Schedulable is the engine's convenience check: not disposed, ripe today,
// and past the min-gap window.
func (c *Classifier) Schedulable(cs *courtcase.Case, today time.Time, minGap int) bool {
	if cs.IsDisposed() {
		return false
	}
	v, _ := c.Classify(cs, today)
	if !v.IsRipe() {
		return false
	}
	return cs.IsReadyForScheduling(today, minGap)
}

// Heuristic days-until-ripe per bottleneck type, used only for reporting.
var ripeningETA = map[Verdict]int{
	UnripeSummons:   30,
	UnripeDependent: 60,
	UnripeParty:     14,
	UnripeDocument:  21,
}

// RipeningETA estimates the days until cs becomes ripe. ok is false when
// no estimate exists (unknown bottleneck); already-ripe cases report 0.
func (c *Classifier) RipeningETA(cs *courtcase.Case, today time.Time) (int, bool) {
	v, _ := c.Classify(cs, today)
	if v.IsRipe() {
		return 0, true
	}
	eta, ok := ripeningETA[v]
	return eta, ok
}
