package override

import "fmt"

// GuardResult is the outcome of a validation guard.
type GuardResult struct {
	Allowed bool
	Reason  string
}

func allow() GuardResult { return GuardResult{Allowed: true} }

func deny(format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// CaseContext provides the case-side facts a guard needs.
type CaseContext struct {
	CaseExists   bool
	CaseDisposed bool
	InList       bool
	ListLen      int
}

// RoomContext provides the courtroom-side facts a guard needs.
type RoomContext struct {
	RoomExists      bool
	HardMaxCapacity int
}

// CanAdd evaluates an add override: the case must exist, must not be
// disposed, and must not already be on the candidate list.
func CanAdd(o Override, ctx CaseContext) GuardResult {
	if !ctx.CaseExists {
		return deny("case %s not found", o.CaseID)
	}
	if ctx.CaseDisposed {
		return deny("case %s is disposed", o.CaseID)
	}
	if ctx.InList {
		return deny("case %s already on the candidate list", o.CaseID)
	}
	return allow()
}

// CanRemove evaluates a remove override: the case must be on the list.
func CanRemove(o Override, ctx CaseContext) GuardResult {
	if !ctx.InList {
		return deny("case %s not on the candidate list", o.CaseID)
	}
	return allow()
}

// CanReorder evaluates a reorder override: the case must be on the list
// and the new position must be within [0, len).
func CanReorder(o Override, ctx CaseContext) GuardResult {
	if !ctx.InList {
		return deny("case %s not on the candidate list", o.CaseID)
	}
	if o.Position == nil {
		return deny("reorder requires a position")
	}
	if *o.Position < 0 || *o.Position >= ctx.ListLen {
		return deny("position %d outside [0, %d)", *o.Position, ctx.ListLen)
	}
	return allow()
}

// CanSetPriority evaluates a priority override: the case must be on the
// list and the new priority must lie in [0, 1].
func CanSetPriority(o Override, ctx CaseContext) GuardResult {
	if o.NewPriority == nil {
		return deny("priority override requires a value")
	}
	if *o.NewPriority < 0 || *o.NewPriority > 1 {
		return deny("priority %.4f outside [0, 1]", *o.NewPriority)
	}
	if !ctx.InList {
		return deny("case %s not on the candidate list", o.CaseID)
	}
	return allow()
}

// CanForceRipeness evaluates a ripeness override: only non-disposed,
// existing cases can be forced ripe for the day.
func CanForceRipeness(o Override, ctx CaseContext) GuardResult {
	if o.MakeRipe == nil {
		return deny("ripeness override requires make_ripe")
	}
	if !ctx.CaseExists {
		return deny("case %s not found", o.CaseID)
	}
	if ctx.CaseDisposed {
		return deny("case %s is disposed", o.CaseID)
	}
	return allow()
}

// CanSetCapacity evaluates a capacity override: the courtroom must exist
// and the new capacity must lie in [0, hard max].
func CanSetCapacity(o Override, ctx RoomContext) GuardResult {
	if o.NewCapacity == nil {
		return deny("capacity override requires a value")
	}
	if !ctx.RoomExists {
		return deny("courtroom %d not found", o.CourtroomID)
	}
	if *o.NewCapacity < 0 || *o.NewCapacity > ctx.HardMaxCapacity {
		return deny("capacity %d outside [0, %d]", *o.NewCapacity, ctx.HardMaxCapacity)
	}
	return allow()
}
