package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

// Verify checks the closure invariants over the stored relations: one
// self-edge per item, one parent per non-root item, a closure that is
// exactly the transitive closure of the parent links, no cycles, every
// item reachable from the root, and dense sibling sequences.
func (b *Backend) Verify(ctx context.Context) error {
	var violations []string
	err := b.withReadTx(ctx, func(tx *sql.Tx) error {
		var err error
		violations, err = checkInvariants(ctx, tx)
		return err
	})
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if len(violations) > 0 {
		return &types.InvariantError{Violations: violations}
	}
	return nil
}

// checkInvariants loads both relations through q and returns every
// violation found, sorted.
func checkInvariants(ctx context.Context, q querier) ([]string, error) {
	sequences, err := loadSequences(ctx, q)
	if err != nil {
		return nil, err
	}
	edges, err := loadEdges(ctx, q)
	if err != nil {
		return nil, err
	}

	var out []string
	report := func(format string, args ...any) {
		out = append(out, fmt.Sprintf(format, args...))
	}

	if _, ok := sequences[types.RootID]; !ok {
		report("root item %s is missing", types.RootID)
	}

	parents := make(map[string][]string)
	byDescendant := make(map[string]map[string]int)
	for _, e := range edges {
		if _, ok := sequences[e.Ancestor]; !ok {
			report("edge %s -> %s references missing ancestor", e.Ancestor, e.Descendant)
		}
		if _, ok := sequences[e.Descendant]; !ok {
			report("edge %s -> %s references missing descendant", e.Ancestor, e.Descendant)
		}
		if e.Ancestor == e.Descendant && e.Depth != 0 {
			report("item %s is its own ancestor at depth %d", e.Ancestor, e.Depth)
		}
		if e.Ancestor != e.Descendant && e.Depth == 0 {
			report("edge %s -> %s has depth 0", e.Ancestor, e.Descendant)
		}
		if e.Depth == 1 {
			parents[e.Descendant] = append(parents[e.Descendant], e.Ancestor)
		}
		if byDescendant[e.Descendant] == nil {
			byDescendant[e.Descendant] = make(map[string]int)
		}
		byDescendant[e.Descendant][e.Ancestor] = e.Depth
	}

	groups := make(map[string][]int)
	for id, seq := range sequences {
		if d, ok := byDescendant[id][id]; !ok || d != 0 {
			report("item %s has no self edge", id)
		}

		ps := parents[id]
		if id == types.RootID {
			if len(ps) != 0 {
				report("root has parent edges %v", ps)
			}
			continue
		}
		if len(ps) != 1 {
			report("item %s has %d parent edges", id, len(ps))
			continue
		}
		groups[ps[0]] = append(groups[ps[0]], seq)

		want, ok := chainToRoot(id, parents, len(sequences))
		if !ok {
			report("item %s is not connected to the root", id)
			continue
		}
		got := byDescendant[id]
		for anc, depth := range want {
			if d, ok := got[anc]; !ok {
				report("closure is missing edge %s -> %s", anc, id)
			} else if d != depth {
				report("edge %s -> %s has depth %d, want %d", anc, id, d, depth)
			}
		}
		for anc := range got {
			if _, ok := want[anc]; !ok {
				report("closure has stray edge %s -> %s", anc, id)
			}
		}
	}

	for parent, seqs := range groups {
		sort.Ints(seqs)
		for i, s := range seqs {
			if s != i {
				report("children of %s have sequences %v, want 0..%d", parent, seqs, len(seqs)-1)
				break
			}
		}
	}

	sort.Strings(out)
	return out, nil
}

// chainToRoot follows single parent links from id to the root and returns
// the expected ancestor depths, self included. It fails on a broken or
// cyclic chain.
func chainToRoot(id string, parents map[string][]string, limit int) (map[string]int, bool) {
	want := map[string]int{id: 0}
	cur := id
	for depth := 1; cur != types.RootID; depth++ {
		ps := parents[cur]
		if len(ps) != 1 || depth > limit {
			return nil, false
		}
		cur = ps[0]
		if _, seen := want[cur]; seen {
			return nil, false
		}
		want[cur] = depth
	}
	return want, true
}

func loadSequences(ctx context.Context, q querier) (map[string]int, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, sequence FROM items")
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var id string
		var seq int
		if err := rows.Scan(&id, &seq); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		out[id] = seq
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return out, nil
}

func loadEdges(ctx context.Context, q querier) ([]types.Edge, error) {
	rows, err := q.QueryContext(ctx, "SELECT ancestor, descendant, depth FROM closure ORDER BY descendant, depth")
	if err != nil {
		return nil, fmt.Errorf("loading closure: %w", err)
	}
	defer rows.Close()

	var out []types.Edge
	for rows.Next() {
		var e types.Edge
		if err := rows.Scan(&e.Ancestor, &e.Descendant, &e.Depth); err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating closure: %w", err)
	}
	return out, nil
}
