package types

import (
	"context"
	"errors"
)

// Reorder directions.
const (
	Up   = -1 // swap with the previous sibling
	Down = 1  // swap with the next sibling
)

// TreeEngine owns every read and write of the items and closure relations.
// Each mutation is one transaction: it either applies completely or leaves
// the tree untouched.
type TreeEngine interface {
	// Attach opens the backend described by config, creating the data
	// directory, the schema and the root seed as needed. Returns
	// ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error

	// Insert creates a child of parentID at the end of its sibling group
	// and returns the new id.
	Insert(ctx context.Context, parentID string, fields ItemFields) (string, error)

	// Move relocates the subtree rooted at branchID under newParentID,
	// appending it to the end of the destination's children.
	Move(ctx context.Context, branchID, newParentID string) error

	// Delete removes the subtree rooted at id after the deletion policy
	// accepted every item in it.
	Delete(ctx context.Context, id string) error

	// Reorder swaps id with its previous (Up) or next (Down) sibling.
	// It returns false without error when id is already first or last.
	Reorder(ctx context.Context, id string, direction int) (bool, error)

	// Edit rewrites title, url and target. The hierarchy is untouched.
	Edit(ctx context.Context, id string, fields ItemFields) error

	// Update applies patch to id in one transaction and returns the
	// stored item. Unset patch fields are not written.
	Update(ctx context.Context, id string, patch ItemPatch) (*Item, error)

	// Tree materializes the whole hierarchy.
	Tree(ctx context.Context) (*Tree, error)

	// Subtree materializes the branch rooted at id.
	Subtree(ctx context.Context, id string) (*Tree, error)

	// Get returns one item.
	Get(ctx context.Context, id string) (*Item, error)

	// Siblings returns the sibling group of id, id included, by sequence.
	Siblings(ctx context.Context, id string) ([]*Item, error)

	// Parent returns the immediate parent of id, or nil for the root.
	Parent(ctx context.Context, id string) (*Item, error)

	// Ancestors returns the closure edges ending at id, root first.
	Ancestors(ctx context.Context, id string) ([]Edge, error)

	// Breadcrumbs returns the title path of every non-root item.
	Breadcrumbs(ctx context.Context) ([]Breadcrumb, error)

	// Breadcrumb returns the title path of one non-root item.
	Breadcrumb(ctx context.Context, id string) (Breadcrumb, error)

	// Options returns id to title for every item.
	Options(ctx context.Context) (map[string]string, error)

	// Verify checks the closure invariants over the stored relations.
	Verify(ctx context.Context) error

	// Export writes items.jsonl and closure.jsonl into dir.
	Export(ctx context.Context, dir string) error

	// Import replaces the stored tree with the JSONL files in dir.
	Import(ctx context.Context, dir string) error
}

// Engine lifecycle errors.
var (
	ErrEngineDetached  = errors.New("tree engine is detached")
	ErrAlreadyAttached = errors.New("tree engine is already attached")
)
