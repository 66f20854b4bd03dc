package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

var (
	itemsColumns   = []string{"id", "title", "url", "sequence", "target"}
	closureColumns = []string{"ancestor", "descendant", "depth"}
)

// record is a decoded JSONL line that can be bound to an INSERT.
type record interface {
	args() []any
}

// Import replaces both relations with the contents of items.jsonl and
// closure.jsonl in dir. Malformed lines are skipped. Loading happens in one
// transaction that is rolled back unless the loaded relations pass every
// invariant check; a rejected import returns an *types.InvariantError and
// leaves the stored tree as it was.
func (b *Backend) Import(ctx context.Context, dir string) error {
	items, err := decodeJSONL[itemJSON](filepath.Join(dir, itemsJSONL))
	if err != nil {
		return classify(fmt.Errorf("import: %w", err))
	}
	edges, err := decodeJSONL[edgeJSON](filepath.Join(dir, closureJSONL))
	if err != nil {
		return classify(fmt.Errorf("import: %w", err))
	}

	err = b.withTx(ctx, "import", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM closure"); err != nil {
			return fmt.Errorf("clearing closure: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM items"); err != nil {
			return fmt.Errorf("clearing items: %w", err)
		}

		if err := b.checkpoint("import.items"); err != nil {
			return err
		}
		if err := insertRecords(ctx, tx, "items", itemsColumns, items); err != nil {
			return err
		}
		if err := b.checkpoint("import.closure"); err != nil {
			return err
		}
		if err := insertRecords(ctx, tx, "closure", closureColumns, edges); err != nil {
			return err
		}

		violations, err := checkInvariants(ctx, tx)
		if err != nil {
			return err
		}
		if len(violations) > 0 {
			return &types.InvariantError{Violations: violations}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("import from %s: %w", dir, err)
	}

	b.logger.Info("tree imported", "dir", dir, "items", len(items), "edges", len(edges))
	return nil
}

// insertRecords inserts decoded records into table with one prepared
// statement. A record the relation rejects fails the whole load.
func insertRecords[R record](ctx context.Context, tx *sql.Tx, table string, columns []string, records []R) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders)

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.args()...); err != nil {
			return fmt.Errorf("loading %s record %d: %w", table, i+1, err)
		}
	}
	return nil
}
