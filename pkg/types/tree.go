package types

import "strings"

// BreadcrumbSeparator joins breadcrumb titles in Breadcrumb.Path.
const BreadcrumbSeparator = " -> "

// Tree is a flattened snapshot of the hierarchy.
//
// Items holds every item of the snapshot keyed by id. Parents maps an id
// to its children ordered by ascending sequence; only items with children
// appear, except the snapshot root which is always present.
type Tree struct {
	Root    string              `json:"root"`
	Items   map[string]*Item    `json:"items"`
	Parents map[string][]string `json:"parents"`
}

// NewTree returns an empty snapshot rooted at root.
func NewTree(root string) *Tree {
	return &Tree{
		Root:    root,
		Items:   make(map[string]*Item),
		Parents: map[string][]string{root: {}},
	}
}

// Children returns the ordered child ids of id.
func (t *Tree) Children(id string) []string {
	return t.Parents[id]
}

// Len returns the number of items in the snapshot.
func (t *Tree) Len() int {
	return len(t.Items)
}

// Walk visits the snapshot depth-first in sibling order starting at the
// root. fn receives the item and its depth below the snapshot root.
// Returning false from fn skips the item's children.
func (t *Tree) Walk(fn func(item *Item, depth int) bool) {
	var visit func(id string, depth int)
	visit = func(id string, depth int) {
		item, ok := t.Items[id]
		if !ok {
			return
		}
		if !fn(item, depth) {
			return
		}
		for _, child := range t.Parents[id] {
			visit(child, depth+1)
		}
	}
	visit(t.Root, 0)
}

// Breadcrumb is the title path from the root to one item. The root title
// is excluded and the item's own title is last.
type Breadcrumb struct {
	ID     string   `json:"id"`
	Titles []string `json:"titles"`
}

// Path joins the titles with BreadcrumbSeparator.
func (b Breadcrumb) Path() string {
	return strings.Join(b.Titles, BreadcrumbSeparator)
}
