package types

import "github.com/google/uuid"

// RootID is the id of the conventional root item. It is seeded when a
// backend is attached and can never be moved, deleted or reordered.
var RootID = uuid.Nil.String()

// Root item field values written by the seed.
const (
	RootTitle = "ROOT"
	RootURL   = "ROOT"
)

// Item is one node of the tree.
type Item struct {
	ID       string  `json:"id"`       // UUID v7, RootID for the root.
	Title    string  `json:"title"`    // Display string.
	URL      string  `json:"url"`      // Slug; duplicates are allowed.
	Sequence int     `json:"sequence"` // Zero-based position among siblings.
	Target   *string `json:"target"`   // Opaque value owned by collaborators.
}

// IsRoot reports whether the item is the conventional root.
func (i *Item) IsRoot() bool {
	return i.ID == RootID
}

// ItemFields carries the editable attributes of an item. The engine owns
// id and sequence; callers never set them.
type ItemFields struct {
	Title  string  `json:"title"`
	URL    string  `json:"url"`
	Target *string `json:"target,omitempty"`
}

// Validate checks that the fields can be stored.
func (f ItemFields) Validate() error {
	if f.Title == "" {
		return ErrInvalidTitle
	}
	return nil
}

// ItemPatch names the attributes Update changes. Nil fields keep their
// stored value.
type ItemPatch struct {
	Title       *string
	URL         *string
	Target      *string
	ClearTarget bool
}

// Validate rejects an empty title and a target that is set and cleared.
func (p ItemPatch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return ErrInvalidTitle
	}
	if p.Target != nil && p.ClearTarget {
		return ErrConflictingPatch
	}
	return nil
}

// Edge is one row of the closure relation.
type Edge struct {
	Ancestor   string `json:"ancestor"`
	Descendant string `json:"descendant"`
	Depth      int    `json:"depth"`
}
