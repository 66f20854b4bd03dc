package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

// Edit rewrites the title, url and target of id. The closure relation and
// the item's sequence are not touched. The root keeps its seed values.
func (b *Backend) Edit(ctx context.Context, id string, fields types.ItemFields) error {
	if id == types.RootID {
		return fmt.Errorf("edit %s: %w", id, types.ErrRootImmutable)
	}
	if err := fields.Validate(); err != nil {
		return err
	}

	err := b.withTx(ctx, "edit", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE items SET title = ?, url = ?, target = ? WHERE id = ?",
			fields.Title, fields.URL, fields.Target, id,
		)
		if err != nil {
			return fmt.Errorf("updating item: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking update: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("item %s: %w", id, types.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("edit %s: %w", id, err)
	}

	b.logger.Debug("item edited", "op", "edit", "id", id)
	return nil
}

// Update writes only the attributes named by patch, then reads the item
// back inside the same transaction.
func (b *Backend) Update(ctx context.Context, id string, patch types.ItemPatch) (*types.Item, error) {
	if id == types.RootID {
		return nil, fmt.Errorf("update %s: %w", id, types.ErrRootImmutable)
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var sets []string
	var args []any
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.URL != nil {
		sets = append(sets, "url = ?")
		args = append(args, *patch.URL)
	}
	switch {
	case patch.Target != nil:
		sets = append(sets, "target = ?")
		args = append(args, *patch.Target)
	case patch.ClearTarget:
		sets = append(sets, "target = NULL")
	}
	args = append(args, id)

	var updated *types.Item
	err := b.withTx(ctx, "update", func(tx *sql.Tx) error {
		if len(sets) > 0 {
			_, err := tx.ExecContext(ctx,
				"UPDATE items SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
			if err != nil {
				return fmt.Errorf("updating item: %w", err)
			}
		}
		var err error
		updated, err = getItem(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", id, err)
	}

	b.logger.Debug("item updated", "op", "update", "id", id, "columns", len(sets))
	return updated, nil
}
