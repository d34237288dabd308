package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/example/courtsim/internal/config"
	"github.com/example/courtsim/internal/core/ripeness"
	"github.com/example/courtsim/internal/core/schedule"
	"github.com/example/courtsim/internal/sim"
)

var (
	titleStyle   = color.New(color.Bold, color.FgCyan)
	sectionStyle = color.New(color.Bold)
	dimStyle     = color.New(color.Faint)
)

func renderSummary(w io.Writer, cfg *config.SimConfig, result *sim.RunResult) {
	s := result.Summary

	titleStyle.Fprintln(w, "Court Scheduling Simulation")
	fmt.Fprintf(w, "Policy: %s | Seed: %d | Horizon: %d working days", cfg.Policy, cfg.Seed, cfg.HorizonDays)
	if result.Cancelled {
		fmt.Fprint(w, " | CANCELLED (partial)")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	sectionStyle.Fprintln(w, "Caseload")
	fmt.Fprintf(w, "  Initial population: %d\n", s.InitialPopulation)
	fmt.Fprintf(w, "  New filings: %d\n", s.Inflow)
	fmt.Fprintf(w, "  Active at end: %d\n", s.ActiveAtEnd)
	fmt.Fprintf(w, "  Disposals: %d (%.1f%% of initial)\n", s.Disposals, s.DisposalRate*100)
	fmt.Fprintln(w)

	sectionStyle.Fprintln(w, "Hearings")
	fmt.Fprintf(w, "  Total: %d (heard %d, adjourned %d)\n", s.HearingsTotal, s.Heard, s.Adjourned)
	fmt.Fprintf(w, "  Adjournment rate: %.1f%%\n", s.AdjournmentRate*100)
	fmt.Fprintf(w, "  Utilization: %.1f%%\n", s.Utilization*100)
	fmt.Fprintf(w, "  Coverage (scheduled at least once): %.1f%%\n", s.Coverage*100)
	fmt.Fprintf(w, "  Load balance Gini: %.3f\n", s.Gini)
	fmt.Fprintln(w)

	sectionStyle.Fprintln(w, "Filters and interventions")
	fmt.Fprintf(w, "  Unripe filtered: %d | Gap blocked: %d | Capacity limited: %d\n",
		s.UnripeFiltered, s.GapBlocked, s.CapacityLimited)
	fmt.Fprintf(w, "  Long-gap alerts: %d | Ripeness transitions: %d\n", s.GapAlerts, s.RipenessTransitions)
	fmt.Fprintf(w, "  Overrides applied: %d | rejected: %d\n", s.OverridesApplied, s.OverridesRejected)
	if s.MissingParams > 0 || s.ClampWarnings > 0 || s.InvariantViolations > 0 {
		dimStyle.Fprintf(w, "  Missing params: %d | clamp warnings: %d | invariant violations: %d\n",
			s.MissingParams, s.ClampWarnings, s.InvariantViolations)
	}
}

func renderCauseLists(w io.Writer, result *schedule.Result) {
	titleStyle.Fprintf(w, "Cause lists for %s\n", result.Date.Format("2006-01-02"))
	fmt.Fprintf(w, "Policy: %s | scheduled %d | unripe %d | gap blocked %d | capacity limited %d\n\n",
		result.PolicyUsed, result.TotalScheduled, result.UnripeFiltered, result.GapBlocked, result.CapacityLimited)

	roomIDs := make([]int, 0, len(result.CauseLists))
	for id := range result.CauseLists {
		roomIDs = append(roomIDs, id)
	}
	sort.Ints(roomIDs)
	for _, id := range roomIDs {
		list := result.CauseLists[id]
		sectionStyle.Fprintf(w, "Courtroom %d (%d cases)\n", id, len(list))
		for seq, c := range list {
			fmt.Fprintf(w, "  %3d. %-20s %-4s %-26s %s\n", seq+1, c.ID, c.Type, c.CurrentStage, result.Explanations[c.ID])
		}
	}
	if len(result.Rejections) > 0 {
		fmt.Fprintln(w)
		sectionStyle.Fprintln(w, "Rejected overrides")
		for _, rej := range result.Rejections {
			fmt.Fprintf(w, "  %s %s: %s\n", rej.Override.Kind, rej.Override.ID, rej.Reason)
		}
	}
}

// maxUnripeListed caps the unripe section of a single-day report.
const maxUnripeListed = 25

// renderUnripe lists the day's unripe cases with their estimated time to
// ripen and flags cases that have waited beyond maxGap days for a hearing.
func renderUnripe(w io.Writer, result *schedule.Result, classifier *ripeness.Classifier, maxGap int) {
	var unripe []schedule.Unscheduled
	for _, u := range result.Unscheduled {
		v := ripeness.Verdict(u.Case.Ripeness.Verdict)
		if v != "" && !v.IsRipe() {
			unripe = append(unripe, u)
		}
	}
	if len(unripe) == 0 {
		return
	}

	fmt.Fprintln(w)
	sectionStyle.Fprintf(w, "Unripe cases (%d)\n", len(unripe))
	for i, u := range unripe {
		if i == maxUnripeListed {
			dimStyle.Fprintf(w, "  ... and %d more\n", len(unripe)-maxUnripeListed)
			break
		}
		line := fmt.Sprintf("  %-20s %-4s %s", u.Case.ID, u.Case.Type, u.Reason)
		if eta, ok := classifier.RipeningETA(u.Case, result.Date); ok && eta > 0 {
			line += fmt.Sprintf(" | ripening eta ~%dd", eta)
		}
		if u.Case.NeedsAlert(maxGap) {
			line += fmt.Sprintf(" | ALERT: %d days without a hearing", u.Case.DaysSinceLastHearing)
		}
		fmt.Fprintln(w, line)
	}
}
