package override

import (
	"sort"

	"github.com/example/courtsim/internal/core/courtcase"
)

// Env provides the plan with read access to the day's environment. The
// plan never mutates the population.
type Env struct {
	// Lookup resolves a case id against the full active population.
	Lookup func(id string) (*courtcase.Case, bool)
	// RoomExists reports whether a courtroom id is configured.
	RoomExists func(id int) bool
	// HardMaxCapacity bounds capacity overrides.
	HardMaxCapacity int
}

// Plan stages a day's overrides: it validates them against the
// environment, exposes the ripeness and capacity overlays to the earlier
// pipeline steps, and applies the list modifications in the documented
// order. The input override slice is never mutated.
type Plan struct {
	env       Env
	requested []Override

	appliedByKind map[Kind][]Override
	rejections    []Rejection

	forcedRipe      map[string]bool
	priorityOverlay map[string]float64
	capacityOverlay map[int]int
}

// NewPlan validates the list-independent overrides (ripeness, capacity)
// against env and stages the rest for ApplyToList.
func NewPlan(overrides []Override, env Env) *Plan {
	p := &Plan{
		env:             env,
		requested:       overrides,
		appliedByKind:   make(map[Kind][]Override),
		forcedRipe:      make(map[string]bool),
		priorityOverlay: make(map[string]float64),
		capacityOverlay: make(map[int]int),
	}
	for _, o := range overrides {
		switch o.Kind {
		case KindRipeness:
			ctx := p.caseContext(o.CaseID, nil)
			if g := CanForceRipeness(o, ctx); !g.Allowed {
				p.reject(o, g.Reason)
				continue
			}
			p.forcedRipe[o.CaseID] = *o.MakeRipe
			p.appliedByKind[KindRipeness] = append(p.appliedByKind[KindRipeness], o)
		case KindCapacity:
			ctx := RoomContext{HardMaxCapacity: env.HardMaxCapacity}
			if env.RoomExists != nil {
				ctx.RoomExists = env.RoomExists(o.CourtroomID)
			}
			if g := CanSetCapacity(o, ctx); !g.Allowed {
				p.reject(o, g.Reason)
				continue
			}
			p.capacityOverlay[o.CourtroomID] = *o.NewCapacity
			p.appliedByKind[KindCapacity] = append(p.appliedByKind[KindCapacity], o)
		case KindAdd, KindRemove, KindPriority, KindReorder:
			// Validated against the candidate list in ApplyToList.
		default:
			p.reject(o, "unknown override kind "+string(o.Kind))
		}
	}
	return p
}

func (p *Plan) reject(o Override, reason string) {
	p.rejections = append(p.rejections, Rejection{Override: o, Reason: reason})
}

func (p *Plan) caseContext(id string, list []*courtcase.Case) CaseContext {
	ctx := CaseContext{ListLen: len(list)}
	if p.env.Lookup != nil {
		if c, ok := p.env.Lookup(id); ok {
			ctx.CaseExists = true
			ctx.CaseDisposed = c.IsDisposed()
		}
	}
	for _, c := range list {
		if c.ID == id {
			ctx.InList = true
			break
		}
	}
	return ctx
}

// ForcedRipe reports whether a validated ripeness override covers caseID,
// and if so whether it forces ripe (true) or unripe (false).
func (p *Plan) ForcedRipe(caseID string) (makeRipe, ok bool) {
	makeRipe, ok = p.forcedRipe[caseID]
	return
}

// CapacityFor returns the effective capacity for a courtroom after any
// capacity override.
func (p *Plan) CapacityFor(roomID, base int) int {
	if v, ok := p.capacityOverlay[roomID]; ok {
		return v
	}
	return base
}

// ApplyToList applies add, remove, priority (with re-sort) and reorder
// overrides to list, in that order, and returns the modified list. The
// input slice is not mutated.
func (p *Plan) ApplyToList(list []*courtcase.Case) []*courtcase.Case {
	out := make([]*courtcase.Case, len(list))
	copy(out, list)

	for _, o := range p.byKind(KindAdd) {
		ctx := p.caseContext(o.CaseID, out)
		if g := CanAdd(o, ctx); !g.Allowed {
			p.reject(o, g.Reason)
			continue
		}
		c, _ := p.env.Lookup(o.CaseID)
		pos := 0
		if o.Position != nil {
			pos = *o.Position
		}
		if pos < 0 {
			pos = 0
		}
		if pos > len(out) {
			pos = len(out)
		}
		out = append(out, nil)
		copy(out[pos+1:], out[pos:])
		out[pos] = c
		p.appliedByKind[KindAdd] = append(p.appliedByKind[KindAdd], o)
	}

	for _, o := range p.byKind(KindRemove) {
		ctx := p.caseContext(o.CaseID, out)
		if g := CanRemove(o, ctx); !g.Allowed {
			p.reject(o, g.Reason)
			continue
		}
		for i, c := range out {
			if c.ID == o.CaseID {
				out = append(out[:i], out[i+1:]...)
				break
			}
		}
		p.appliedByKind[KindRemove] = append(p.appliedByKind[KindRemove], o)
	}

	resort := false
	for _, o := range p.byKind(KindPriority) {
		ctx := p.caseContext(o.CaseID, out)
		if g := CanSetPriority(o, ctx); !g.Allowed {
			p.reject(o, g.Reason)
			continue
		}
		p.priorityOverlay[o.CaseID] = *o.NewPriority
		p.appliedByKind[KindPriority] = append(p.appliedByKind[KindPriority], o)
		resort = true
	}
	if resort {
		sort.SliceStable(out, func(i, j int) bool {
			pi := p.effectivePriority(out[i])
			pj := p.effectivePriority(out[j])
			if pi != pj {
				return pi > pj
			}
			return courtcase.Before(out[i], out[j])
		})
	}

	for _, o := range p.byKind(KindReorder) {
		ctx := p.caseContext(o.CaseID, out)
		if g := CanReorder(o, ctx); !g.Allowed {
			p.reject(o, g.Reason)
			continue
		}
		var moved *courtcase.Case
		for i, c := range out {
			if c.ID == o.CaseID {
				moved = c
				out = append(out[:i], out[i+1:]...)
				break
			}
		}
		pos := *o.Position
		out = append(out, nil)
		copy(out[pos+1:], out[pos:])
		out[pos] = moved
		p.appliedByKind[KindReorder] = append(p.appliedByKind[KindReorder], o)
	}

	return out
}

func (p *Plan) effectivePriority(c *courtcase.Case) float64 {
	if v, ok := p.priorityOverlay[c.ID]; ok {
		return v
	}
	return c.PriorityScore
}

func (p *Plan) byKind(k Kind) []Override {
	var out []Override
	for _, o := range p.requested {
		if o.Kind == k {
			out = append(out, o)
		}
	}
	return out
}

// Applied returns the applied overrides in the documented application
// order, input order within a kind.
func (p *Plan) Applied() []Override {
	var out []Override
	for _, k := range ApplicationOrder {
		out = append(out, p.appliedByKind[k]...)
	}
	return out
}

// Rejections returns the overrides dropped by validation, with reasons.
func (p *Plan) Rejections() []Rejection { return p.rejections }
