// Package allocate assigns an ordered candidate list to courtrooms under
// per-courtroom daily capacity, least-loaded-first. Allocation is
// deterministic given its inputs: ties on load break by courtroom id.
package allocate

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/courtsim/internal/core/calendar"
	"github.com/example/courtsim/internal/core/courtcase"
)

// Courtroom is a hearing resource with a bounded daily cause list.
type Courtroom struct {
	ID            int
	DailyCapacity int

	// capacityByDate holds per-date capacity overrides keyed by day
	// ordinal.
	capacityByDate map[int64]int
}

// NewCourtroom returns a courtroom with the given nominal capacity.
func NewCourtroom(id, capacity int) *Courtroom {
	return &Courtroom{ID: id, DailyCapacity: capacity}
}

// SetCapacityForDate installs a per-date capacity override.
func (r *Courtroom) SetCapacityForDate(d time.Time, capacity int) {
	if r.capacityByDate == nil {
		r.capacityByDate = make(map[int64]int)
	}
	r.capacityByDate[calendar.Ordinal(d)] = capacity
}

// CapacityForDate returns the effective capacity on d before any per-day
// override-layer adjustment.
func (r *Courtroom) CapacityForDate(d time.Time) int {
	if v, ok := r.capacityByDate[calendar.Ordinal(d)]; ok {
		return v
	}
	return r.DailyCapacity
}

// Allocation is the result of one day's assignment.
type Allocation struct {
	// ByRoom maps courtroom id to its ordered cause list.
	ByRoom map[int][]*courtcase.Case
	// CapacityLimited lists the candidates that did not fit anywhere.
	CapacityLimited []*courtcase.Case
	// Loads is the per-courtroom count vector for the day.
	Loads map[int]int
}

// Allocator distributes cases across a fixed courtroom set and tracks
// lifetime load-balance statistics.
type Allocator struct {
	rooms []*Courtroom

	totals   map[int]int // lifetime per-courtroom totals
	daysSeen int
}

// New builds an allocator over rooms. The courtroom set must be non-empty
// and capacities non-negative.
func New(rooms []*Courtroom) (*Allocator, error) {
	if len(rooms) == 0 {
		return nil, fmt.Errorf("allocate: empty courtroom set")
	}
	seen := make(map[int]struct{}, len(rooms))
	for _, r := range rooms {
		if r.DailyCapacity < 0 {
			return nil, fmt.Errorf("allocate: courtroom %d has negative capacity", r.ID)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("allocate: duplicate courtroom id %d", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	sorted := make([]*Courtroom, len(rooms))
	copy(sorted, rooms)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &Allocator{rooms: sorted, totals: make(map[int]int)}, nil
}

// Rooms returns the courtroom set ordered by id.
func (a *Allocator) Rooms() []*Courtroom { return a.rooms }

// RoomExists reports whether id is a configured courtroom.
func (a *Allocator) RoomExists(id int) bool {
	for _, r := range a.rooms {
		if r.ID == id {
			return true
		}
	}
	return false
}

// TotalCapacity sums effective capacities for d, after applying overlayCap
// (which may be nil) to each room's base capacity.
func (a *Allocator) TotalCapacity(d time.Time, overlayCap func(roomID, base int) int) int {
	total := 0
	for _, r := range a.rooms {
		c := r.CapacityForDate(d)
		if overlayCap != nil {
			c = overlayCap(r.ID, c)
		}
		total += c
	}
	return total
}

// Allocate assigns the ordered candidate list to courtrooms for d.
// Each case goes to the least-loaded room with spare capacity (ties by
// courtroom id); when every room is full the case is recorded as
// capacity-limited. Per-day loads start at zero on every call.
func (a *Allocator) Allocate(cases []*courtcase.Case, d time.Time, overlayCap func(roomID, base int) int) Allocation {
	caps := make(map[int]int, len(a.rooms))
	loads := make(map[int]int, len(a.rooms))
	byRoom := make(map[int][]*courtcase.Case, len(a.rooms))
	for _, r := range a.rooms {
		c := r.CapacityForDate(d)
		if overlayCap != nil {
			c = overlayCap(r.ID, c)
		}
		caps[r.ID] = c
		byRoom[r.ID] = nil
		loads[r.ID] = 0
	}

	var limited []*courtcase.Case
	for _, cs := range cases {
		roomID, ok := a.leastLoaded(loads, caps)
		if !ok {
			limited = append(limited, cs)
			continue
		}
		byRoom[roomID] = append(byRoom[roomID], cs)
		loads[roomID]++
	}

	for id, n := range loads {
		a.totals[id] += n
	}
	a.daysSeen++

	return Allocation{ByRoom: byRoom, CapacityLimited: limited, Loads: loads}
}

func (a *Allocator) leastLoaded(loads, caps map[int]int) (int, bool) {
	best := -1
	bestLoad := 0
	for _, r := range a.rooms { // rooms sorted by id: ties resolve low id
		if loads[r.ID] >= caps[r.ID] {
			continue
		}
		if best == -1 || loads[r.ID] < bestLoad {
			best = r.ID
			bestLoad = loads[r.ID]
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// Totals returns the lifetime per-courtroom counts keyed by room id.
func (a *Allocator) Totals() map[int]int {
	out := make(map[int]int, len(a.totals))
	for k, v := range a.totals {
		out[k] = v
	}
	return out
}

// Gini returns the Gini coefficient of lifetime per-courtroom totals.
// Zero is perfect balance.
func (a *Allocator) Gini() float64 {
	values := make([]int, 0, len(a.rooms))
	for _, r := range a.rooms {
		values = append(values, a.totals[r.ID])
	}
	return Gini(values)
}

// Gini computes the standard Gini coefficient over nonnegative integer
// counts. Empty or all-zero inputs report 0.
func Gini(values []int) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]int, n)
	copy(sorted, values)
	sort.Ints(sorted)

	sum := 0
	cum := 0
	for i, v := range sorted {
		sum += v
		cum += (i + 1) * v
	}
	if sum == 0 {
		return 0
	}
	return (2.0*float64(cum))/(float64(n)*float64(sum)) - float64(n+1)/float64(n)
}
