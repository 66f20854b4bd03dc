package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

// Move relocates the subtree rooted at branchID under newParentID.
//
// Edges from outside the branch into it are severed, edges inside the
// branch are kept, and the cross product of the destination's ancestors
// with the branch's descendants is spliced back in with summed depths.
// The branch lands at the end of the destination's children and the gap
// it left behind is closed.
func (b *Backend) Move(ctx context.Context, branchID, newParentID string) error {
	if branchID == types.RootID {
		return fmt.Errorf("move %s: %w", branchID, types.ErrRootImmutable)
	}

	var from placement
	var seq int
	err := b.withTx(ctx, "move", func(tx *sql.Tx) error {
		var err error
		from, err = lookupPlacement(ctx, tx, branchID)
		if err != nil {
			return err
		}
		if err := requireItem(ctx, tx, newParentID); err != nil {
			return err
		}

		inside, err := isAncestor(ctx, tx, branchID, newParentID)
		if err != nil {
			return err
		}
		if inside {
			return types.ErrCycle
		}

		if err := b.checkpoint("move.sever"); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`DELETE FROM closure
			WHERE descendant IN (SELECT descendant FROM closure WHERE ancestor = ?)
			AND ancestor NOT IN (SELECT descendant FROM closure WHERE ancestor = ?)`,
			branchID, branchID,
		)
		if err != nil {
			return fmt.Errorf("severing branch: %w", err)
		}

		if err := b.checkpoint("move.compact"); err != nil {
			return err
		}
		if err := closeGap(ctx, tx, from.parent, from.sequence); err != nil {
			return err
		}

		// The branch is detached here, so it does not count toward the
		// destination's highest sequence.
		seq, err = nextSequence(ctx, tx, newParentID)
		if err != nil {
			return err
		}

		if err := b.checkpoint("move.splice"); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO closure (ancestor, descendant, depth)
			SELECT super.ancestor, sub.descendant, super.depth + sub.depth + 1
			FROM closure AS super CROSS JOIN closure AS sub
			WHERE super.descendant = ? AND sub.ancestor = ?`,
			newParentID, branchID,
		)
		if err != nil {
			return fmt.Errorf("splicing branch: %w", err)
		}

		if err := b.checkpoint("move.sequence"); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, "UPDATE items SET sequence = ? WHERE id = ?", seq, branchID)
		if err != nil {
			return fmt.Errorf("setting branch sequence: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("move %s under %s: %w", branchID, newParentID, err)
	}

	b.logger.Debug("branch moved", "op", "move", "id", branchID,
		"from", from.parent, "to", newParentID, "sequence", seq)
	return nil
}
