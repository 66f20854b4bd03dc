package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

// maxInArgs bounds the number of bind variables in one IN (...) list.
const maxInArgs = 500

// placement is where an item sits: its immediate parent and sequence.
// parent is empty for the root.
type placement struct {
	parent   string
	sequence int
}

// lookupPlacement returns the placement of id, or ErrNotFound.
func lookupPlacement(ctx context.Context, q querier, id string) (placement, error) {
	var p placement
	var parent sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT i.sequence, c.ancestor FROM items i
		LEFT JOIN closure c ON c.descendant = i.id AND c.depth = 1
		WHERE i.id = ?`,
		id,
	).Scan(&p.sequence, &parent)
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("item %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return p, fmt.Errorf("looking up item %s: %w", id, err)
	}
	p.parent = parent.String
	return p, nil
}

// requireItem returns ErrNotFound unless id exists.
func requireItem(ctx context.Context, q querier, id string) error {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM items WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("item %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking item %s: %w", id, err)
	}
	return nil
}

// nextSequence returns one past the highest sequence among the children
// of parentID, or 0 when it has none.
func nextSequence(ctx context.Context, q querier, parentID string) (int, error) {
	var seq int
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(i.sequence) + 1, 0) FROM items i
		JOIN closure c ON c.descendant = i.id
		WHERE c.ancestor = ? AND c.depth = 1`,
		parentID,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("computing next sequence under %s: %w", parentID, err)
	}
	return seq, nil
}

// closeGap shifts every child of parentID that sits after seq one place
// up. It touches one sibling group only.
func closeGap(ctx context.Context, q querier, parentID string, seq int) error {
	_, err := q.ExecContext(ctx,
		`UPDATE items SET sequence = sequence - 1
		WHERE sequence > ?
		AND id IN (SELECT descendant FROM closure WHERE ancestor = ? AND depth = 1)`,
		seq, parentID,
	)
	if err != nil {
		return fmt.Errorf("closing sequence gap under %s: %w", parentID, err)
	}
	return nil
}

// isAncestor reports whether ancestor is id itself or one of its
// ancestors.
func isAncestor(ctx context.Context, q querier, ancestor, id string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx,
		"SELECT 1 FROM closure WHERE ancestor = ? AND descendant = ?",
		ancestor, id,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking ancestry %s -> %s: %w", ancestor, id, err)
	}
	return true, nil
}

// subtreeIDs returns id and all of its descendants, shallowest first.
func subtreeIDs(ctx context.Context, q querier, id string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT descendant FROM closure WHERE ancestor = ? ORDER BY depth, descendant",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("listing subtree of %s: %w", id, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning subtree of %s: %w", id, err)
		}
		ids = append(ids, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subtree of %s: %w", id, err)
	}
	return ids, nil
}

// execIn runs query once per chunk of ids, substituting the chunk's
// placeholders for the single %s in query.
func execIn(ctx context.Context, q querier, query string, ids []string) (int64, error) {
	var total int64
	for start := 0; start < len(ids); start += maxInArgs {
		end := min(start+maxInArgs, len(ids))
		chunk := ids[start:end]

		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(chunk)), ", ")

		res, err := q.ExecContext(ctx, fmt.Sprintf(query, placeholders), args...)
		if err != nil {
			return total, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
