package sqlite

import (
	"database/sql"
	"fmt"
)

// currentSchemaVersion is stored in PRAGMA user_version.
// 1 - items and closure with depth/self-edge check
const currentSchemaVersion = 1

// Schema DDL for both relations.
const (
	createItems = `CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    url TEXT NOT NULL,
    sequence INTEGER NOT NULL DEFAULT 0 CHECK (sequence >= 0),
    target TEXT
);`

	// The CHECK rejects depth-0 edges between distinct items and any
	// self-edge deeper than 0, so a cycle can never be stored.
	createClosure = `CREATE TABLE IF NOT EXISTS closure (
    ancestor TEXT NOT NULL REFERENCES items(id),
    descendant TEXT NOT NULL REFERENCES items(id),
    depth INTEGER NOT NULL CHECK (depth >= 0),
    PRIMARY KEY (ancestor, descendant),
    CHECK ((ancestor = descendant) = (depth = 0))
);`
)

// Index DDL for the closure lookups every operation performs.
const (
	idxClosureDescendant    = `CREATE INDEX IF NOT EXISTS idx_closure_descendant ON closure(descendant, depth);`
	idxClosureAncestorDepth = `CREATE INDEX IF NOT EXISTS idx_closure_ancestor_depth ON closure(ancestor, depth);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createItems,
	createClosure,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxClosureDescendant,
	idxClosureAncestorDepth,
}

// applySchema creates the relations if they do not exist and records the
// schema version. Idempotent.
func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("setting user_version: %w", err)
	}
	return nil
}
