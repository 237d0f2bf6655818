package reddesc

import (
	"context"
	"fmt"

	"github.com/sharedcode/scrred"
	"github.com/sharedcode/scrred/jobctx"
	"github.com/sharedcode/scrred/kvtree"
)

// RedDescTable is the ordered collection of RedDescs built from a job's
// configuration (spec.md §4.4).
type RedDescTable struct {
	descs []RedDesc
}

// BuildTable builds a RedDescTable by iterating root's child entries in
// ascending key order (identical on every rank, since kvtree.ChildNames
// sorts) and calling Build for each with sequential indices. If any
// individual Build call fails, the whole table build reports that
// failure but every descriptor built so far remains freeable.
func BuildTable(ctx context.Context, jc jobctx.JobContext, root *kvtree.Tree) (*RedDescTable, error) {
	names := root.ChildNames()
	t := &RedDescTable{descs: make([]RedDesc, 0, len(names))}

	var firstErr error
	for i, name := range names {
		child, _ := root.Child(name)
		d, err := Build(ctx, jc, i, child)
		t.descs = append(t.descs, d)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("building redundancy descriptor %q (index %d): %w", name, i, err)
		}
	}

	if firstErr != nil {
		return t, &scrred.Error{Code: scrred.ConsensusFailure, Err: firstErr}
	}
	return t, nil
}

// Descriptors returns the table's descriptors in construction order.
func (t *RedDescTable) Descriptors() []RedDesc {
	return t.descs
}

// Select returns the enabled descriptor with the largest interval that
// divides id, or ok=false if none qualifies (spec.md §4.4). Strict `>`
// comparison makes the first-found descriptor win ties, giving stable,
// deterministic selection across identical tables.
func (t *RedDescTable) Select(id int) (RedDesc, bool) {
	var best RedDesc
	found := false
	for _, d := range t.descs {
		if !d.Enabled || d.Interval <= 0 {
			continue
		}
		if id%d.Interval != 0 {
			continue
		}
		if !found || d.Interval > best.Interval {
			best = d
			found = true
		}
	}
	return best, found
}
