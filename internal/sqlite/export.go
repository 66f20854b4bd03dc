package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
)

// Export writes items.jsonl and closure.jsonl into dir from one read
// transaction, so the two files always describe the same tree. Items are
// written in id order, edges by descendant then depth.
func (b *Backend) Export(ctx context.Context, dir string) error {
	var items []itemJSON
	var edges []edgeJSON
	err := b.withReadTx(ctx, func(tx *sql.Tx) error {
		var err error
		if items, err = exportItems(ctx, tx); err != nil {
			return err
		}
		edges, err = exportEdges(ctx, tx)
		return err
	})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return classify(fmt.Errorf("export: creating %s: %w", dir, err))
	}
	if err := writeJSONL(filepath.Join(dir, itemsJSONL), items); err != nil {
		return classify(fmt.Errorf("export: %s: %w", itemsJSONL, err))
	}
	if err := writeJSONL(filepath.Join(dir, closureJSONL), edges); err != nil {
		return classify(fmt.Errorf("export: %s: %w", closureJSONL, err))
	}

	b.logger.Info("tree exported", "dir", dir, "items", len(items), "edges", len(edges))
	return nil
}

func exportItems(ctx context.Context, q querier) ([]itemJSON, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+itemColumns+" FROM items i ORDER BY i.id")
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var out []itemJSON
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		out = append(out, itemRecord(it))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return out, nil
}

func exportEdges(ctx context.Context, q querier) ([]edgeJSON, error) {
	edges, err := loadEdges(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]edgeJSON, len(edges))
	for i, e := range edges {
		out[i] = edgeJSON{Ancestor: e.Ancestor, Descendant: e.Descendant, Depth: e.Depth}
	}
	return out, nil
}
