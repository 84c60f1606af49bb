package scatter

import (
	"fmt"

	"gather/pkg/logflags"
)

// Plan batches many logically independent reads into one provider fetch
// per round. Rounds execute strictly in the order they were added, so an
// entry in a later round may take its address or size from an earlier
// round's result.
//
// A plan is built once, executed, and its results consumed; re-executing
// an unchanged plan re-runs every round and overwrites prior results. It
// is not safe for concurrent use.
type Plan struct {
	provider Provider
	rounds   []*Round
	results  []map[int]*Entry
	log      logflags.Logger
}

// NewPlan allocates a plan with indexCount empty result buckets. Entries
// added later must carry a loop index in [0, indexCount).
func NewPlan(indexCount int, provider Provider) (*Plan, error) {
	if indexCount < 0 {
		return nil, fmt.Errorf("invalid index count %d", indexCount)
	}
	p := &Plan{
		provider: provider,
		results:  make([]map[int]*Entry, indexCount),
		log:      logflags.ScatterLogger(),
	}
	for i := range p.results {
		p.results[i] = make(map[int]*Entry)
	}
	return p, nil
}

// AddRound appends a round bound to pid. With useCache false every fetch
// for the round bypasses the provider's page cache.
func (p *Plan) AddRound(pid int, useCache bool) *Round {
	r := &Round{pid: pid, useCache: useCache, plan: p}
	p.rounds = append(p.rounds, r)
	return r
}

// Execute runs every round in submission order, mutating each entry's
// result and failure state in place. Per-entry failures never surface
// here; only a broken transport does.
func (p *Plan) Execute() error {
	for i, r := range p.rounds {
		if err := p.runRound(r); err != nil {
			return fmt.Errorf("round %d: %w", i, err)
		}
	}
	return nil
}

// Entry returns the entry registered under (index, id), if any.
func (p *Plan) Entry(index, id int) (*Entry, bool) {
	if index < 0 || index >= len(p.results) {
		return nil, false
	}
	e, ok := p.results[index][id]
	return e, ok
}

// Results returns the id-to-entry mapping for one loop index. The caller
// must treat the returned map as read-only.
func (p *Plan) Results(index int) map[int]*Entry {
	if index < 0 || index >= len(p.results) {
		return nil
	}
	return p.results[index]
}

// IndexCount returns the number of result buckets the plan was created
// with.
func (p *Plan) IndexCount() int {
	return len(p.results)
}

// Round is an ordered set of entries serviced by a single provider fetch.
type Round struct {
	pid      int
	useCache bool
	plan     *Plan
	entries  []*Entry
}

// AddEntry plans one read of kind at the address addr resolves to, plus
// offset. For fixed-width kinds pass NoSize; buf and str entries resolve
// their byte size from size. The entry is registered under (index, id),
// replacing any previous entry with the same key, and the returned handle
// may be used as a Source in later rounds.
func (r *Round) AddEntry(index, id int, addr Source, kind Kind, size Source, offset uint64) (*Entry, error) {
	if index < 0 || index >= len(r.plan.results) {
		return nil, fmt.Errorf("loop index %d out of range [0, %d)", index, len(r.plan.results))
	}
	e := &Entry{
		index:  index,
		id:     id,
		kind:   kind,
		addr:   addr,
		size:   size,
		offset: offset,
		mult:   1,
	}
	r.entries = append(r.entries, e)
	r.plan.results[index][id] = e
	return e, nil
}
