// Package path finds lowest-cost paths on the hex grid with A*.
//
// A Finder holds the state of one search and can be advanced a bounded
// number of steps at a time, so a caller can spread a long search over
// several frames:
//
//	f := path.NewFinder(from, to, level.Passable)
//	for !f.Done() {
//		f.RunN(50)
//		// draw a frame
//	}
package path

import (
	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"

	"github.com/gravitas-015/hexutil/hex"
)

// runBatch is the number of steps Run performs between checks.
const runBatch = 100

// Option configures a Finder.
type Option func(*Finder)

// WithCost sets the cost of entering a hex. cost must return values >= 1,
// otherwise the hex distance heuristic overestimates and paths are no
// longer guaranteed to be optimal. The default cost is 1 everywhere.
func WithCost(cost func(hex.Hex) int) Option {
	return func(f *Finder) {
		if cost != nil {
			f.cost = cost
		}
	}
}

// Finder is an A* search session from a start hex to a destination.
// A Finder is not safe for concurrent use.
type Finder struct {
	start       hex.Hex
	destination hex.Hex
	passable    func(hex.Hex) bool
	cost        func(hex.Hex) int

	open   *heap.Heap[step]
	closed mapset.Set[hex.Hex]

	done  bool
	found bool
	path  []hex.Hex
}

// NewFinder prepares a search. passable reports whether a hex may be
// entered; the start hex is never tested.
func NewFinder(start, destination hex.Hex, passable func(hex.Hex) bool, opts ...Option) *Finder {
	f := &Finder{
		start:       start,
		destination: destination,
		passable:    passable,
		cost:        func(hex.Hex) int { return 1 },
		open:        newFrontier(),
		closed:      mapset.New[hex.Hex](),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.open.Push(step{estimate: f.heuristic(start), pos: start})
	return f
}

func (f *Finder) heuristic(h hex.Hex) int {
	return f.destination.Distance(h)
}

// RunN performs at most n search steps. Each step pops one frontier entry.
// Calling RunN on a finished search does nothing.
func (f *Finder) RunN(n int) {
	for i := 0; i < n && !f.done; i++ {
		cur, ok := f.open.Pop()
		if !ok {
			f.done = true
			return
		}
		if f.closed.Has(cur.pos) {
			continue
		}
		tr := &trail{pos: cur.pos, prev: cur.trail}
		if cur.pos == f.destination {
			f.path = tr.hexes()
			f.found = true
			f.done = true
			f.open = newFrontier()
			return
		}
		f.closed.Put(cur.pos)
		for _, nb := range cur.pos.Neighbours() {
			if !f.passable(nb) || f.closed.Has(nb) {
				continue
			}
			cost := cur.cost + f.cost(nb)
			f.open.Push(step{
				estimate: cost + f.heuristic(nb),
				cost:     cost,
				pos:      nb,
				trail:    tr,
			})
		}
	}
}

// Run searches until a path is found or known not to exist.
func (f *Finder) Run() {
	for !f.done {
		f.RunN(runBatch)
	}
}

// Done reports whether the search has concluded.
func (f *Finder) Done() bool { return f.done }

// Found reports whether the search concluded with a path.
func (f *Finder) Found() bool { return f.found }

// Path returns the path from start to destination, both included, or nil
// if no path has been found.
func (f *Finder) Path() []hex.Hex { return f.path }

// Expanded returns the number of hexes finalised so far.
func (f *Finder) Expanded() int { return f.closed.Size() }

// Start returns the start of the search.
func (f *Finder) Start() hex.Hex { return f.start }

// Destination returns the destination of the search.
func (f *Finder) Destination() hex.Hex { return f.destination }

// FindPath returns the lowest-cost path from start to destination, both
// included, or nil when destination cannot be reached.
func FindPath(start, destination hex.Hex, passable func(hex.Hex) bool, opts ...Option) []hex.Hex {
	f := NewFinder(start, destination, passable, opts...)
	f.Run()
	return f.path
}
