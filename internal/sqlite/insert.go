package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

// Insert creates a child of parentID at the end of its sibling group.
//
// The new item gets its self-edge plus one edge per ancestor of the
// parent, each one level deeper than the parent's, so the closure stays
// complete without recomputing anything above the parent.
func (b *Backend) Insert(ctx context.Context, parentID string, fields types.ItemFields) (string, error) {
	if err := fields.Validate(); err != nil {
		return "", err
	}

	id := generateUUID()
	var seq int
	err := b.withTx(ctx, "insert", func(tx *sql.Tx) error {
		if err := requireItem(ctx, tx, parentID); err != nil {
			return err
		}

		var err error
		seq, err = nextSequence(ctx, tx, parentID)
		if err != nil {
			return err
		}

		if err := b.checkpoint("insert.item"); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (id, title, url, sequence, target) VALUES (?, ?, ?, ?, ?)",
			id, fields.Title, fields.URL, seq, fields.Target,
		)
		if err != nil {
			return fmt.Errorf("inserting item: %w", err)
		}

		if err := b.checkpoint("insert.self"); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO closure (ancestor, descendant, depth) VALUES (?, ?, 0)",
			id, id,
		)
		if err != nil {
			return fmt.Errorf("inserting self edge: %w", err)
		}

		if err := b.checkpoint("insert.ancestors"); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO closure (ancestor, descendant, depth)
			SELECT ancestor, ?, depth + 1 FROM closure WHERE descendant = ?`,
			id, parentID,
		)
		if err != nil {
			return fmt.Errorf("inserting ancestor edges: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("insert under %s: %w", parentID, err)
	}

	b.logger.Debug("item inserted", "op", "insert", "id", id, "parent", parentID, "sequence", seq)
	return id, nil
}
