package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

// Reorder swaps id with the sibling at sequence+direction. It returns
// false and writes nothing when no such sibling exists.
func (b *Backend) Reorder(ctx context.Context, id string, direction int) (bool, error) {
	if direction != types.Up && direction != types.Down {
		return false, fmt.Errorf("reorder %s by %d: %w", id, direction, types.ErrInvalidDirection)
	}
	if id == types.RootID {
		return false, fmt.Errorf("reorder %s: %w", id, types.ErrRootImmutable)
	}

	var moved bool
	var neighbor string
	err := b.withTx(ctx, "reorder", func(tx *sql.Tx) error {
		at, err := lookupPlacement(ctx, tx, id)
		if err != nil {
			return err
		}

		target := at.sequence + direction
		err = tx.QueryRowContext(ctx,
			`SELECT i.id FROM items i
			JOIN closure c ON c.descendant = i.id
			WHERE c.ancestor = ? AND c.depth = 1 AND i.sequence = ?`,
			at.parent, target,
		).Scan(&neighbor)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("finding sibling at %d: %w", target, err)
		}

		if err := b.checkpoint("reorder.swap"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "UPDATE items SET sequence = ? WHERE id = ?", at.sequence, neighbor); err != nil {
			return fmt.Errorf("updating sibling sequence: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "UPDATE items SET sequence = ? WHERE id = ?", target, id); err != nil {
			return fmt.Errorf("updating item sequence: %w", err)
		}
		moved = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("reorder %s: %w", id, err)
	}

	b.logger.Debug("item reordered", "op", "reorder", "id", id,
		"direction", direction, "moved", moved, "swapped_with", neighbor)
	return moved, nil
}
