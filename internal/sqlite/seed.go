package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

// seedRoot inserts the root item and its self-edge if they are missing.
// Seeding is idempotent and runs on every attach.
func seedRoot(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT OR IGNORE INTO items (id, title, url, sequence, target) VALUES (?, ?, ?, 0, NULL)",
		types.RootID, types.RootTitle, types.RootURL,
	)
	if err != nil {
		return fmt.Errorf("seeding root item: %w", err)
	}

	_, err = tx.Exec(
		"INSERT OR IGNORE INTO closure (ancestor, descendant, depth) VALUES (?, ?, 0)",
		types.RootID, types.RootID,
	)
	if err != nil {
		return fmt.Errorf("seeding root edge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}
	return nil
}
