package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

const itemColumns = "i.id, i.title, i.url, i.sequence, i.target"

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem reads itemColumns plus any extra destinations.
func scanItem(s rowScanner, extra ...any) (*types.Item, error) {
	var it types.Item
	var target sql.NullString
	dest := append([]any{&it.ID, &it.Title, &it.URL, &it.Sequence, &target}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	if target.Valid {
		t := target.String
		it.Target = &t
	}
	return &it, nil
}

// Tree materializes the whole hierarchy with one query over the self
// edges and the parent edges. Children come out in sequence order.
func (b *Backend) Tree(ctx context.Context) (*types.Tree, error) {
	_, rdb, err := b.handles()
	if err != nil {
		return nil, err
	}

	rows, err := rdb.QueryContext(ctx,
		`SELECT `+itemColumns+`, c.ancestor, c.depth FROM items i
		JOIN closure c ON c.descendant = i.id
		WHERE c.depth < 2
		ORDER BY i.sequence, i.id`)
	if err != nil {
		return nil, classify(fmt.Errorf("querying tree: %w", err))
	}
	defer rows.Close()

	tree, err := collectTree(rows, types.RootID)
	if err != nil {
		return nil, classify(err)
	}
	return tree, nil
}

// Subtree materializes the branch rooted at id.
func (b *Backend) Subtree(ctx context.Context, id string) (*types.Tree, error) {
	_, rdb, err := b.handles()
	if err != nil {
		return nil, err
	}

	rows, err := rdb.QueryContext(ctx,
		`SELECT `+itemColumns+`, c.ancestor, c.depth FROM closure s
		JOIN items i ON i.id = s.descendant
		JOIN closure c ON c.descendant = i.id AND c.depth < 2
		WHERE s.ancestor = ?
		AND NOT (c.descendant = ? AND c.depth = 1)
		ORDER BY i.sequence, i.id`,
		id, id)
	if err != nil {
		return nil, classify(fmt.Errorf("querying subtree of %s: %w", id, err))
	}
	defer rows.Close()

	tree, err := collectTree(rows, id)
	if err != nil {
		return nil, classify(err)
	}
	if tree.Len() == 0 {
		return nil, fmt.Errorf("subtree %s: %w", id, types.ErrNotFound)
	}
	return tree, nil
}

// collectTree builds a Tree from rows of itemColumns, ancestor, depth.
// Depth-0 rows carry the items, depth-1 rows the parent links.
func collectTree(rows *sql.Rows, root string) (*types.Tree, error) {
	tree := types.NewTree(root)
	for rows.Next() {
		var ancestor string
		var depth int
		it, err := scanItem(rows, &ancestor, &depth)
		if err != nil {
			return nil, fmt.Errorf("scanning tree row: %w", err)
		}
		if depth == 0 {
			tree.Items[it.ID] = it
			continue
		}
		tree.Parents[ancestor] = append(tree.Parents[ancestor], it.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tree rows: %w", err)
	}
	return tree, nil
}

// Get returns the item with the given id.
func (b *Backend) Get(ctx context.Context, id string) (*types.Item, error) {
	_, rdb, err := b.handles()
	if err != nil {
		return nil, err
	}
	it, err := getItem(ctx, rdb, id)
	if err != nil {
		return nil, classify(err)
	}
	return it, nil
}

func getItem(ctx context.Context, q querier, id string) (*types.Item, error) {
	row := q.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM items i WHERE i.id = ?", id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item %s: %w", id, err)
	}
	return it, nil
}

// Siblings returns the sibling group of id, id included, in sequence
// order. The root's group is the root alone.
func (b *Backend) Siblings(ctx context.Context, id string) ([]*types.Item, error) {
	var items []*types.Item
	err := b.withReadTx(ctx, func(tx *sql.Tx) error {
		at, err := lookupPlacement(ctx, tx, id)
		if err != nil {
			return err
		}
		if at.parent == "" {
			it, err := getItem(ctx, tx, id)
			if err != nil {
				return err
			}
			items = []*types.Item{it}
			return nil
		}
		items, err = children(ctx, tx, at.parent)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("siblings of %s: %w", id, err)
	}
	return items, nil
}

// children returns the depth-1 descendants of parentID by sequence.
func children(ctx context.Context, q querier, parentID string) ([]*types.Item, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items i
		JOIN closure c ON c.descendant = i.id
		WHERE c.ancestor = ? AND c.depth = 1
		ORDER BY i.sequence`,
		parentID)
	if err != nil {
		return nil, fmt.Errorf("querying children of %s: %w", parentID, err)
	}
	defer rows.Close()

	var items []*types.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning child of %s: %w", parentID, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating children of %s: %w", parentID, err)
	}
	return items, nil
}

// Parent returns the immediate parent of id, or nil for the root.
func (b *Backend) Parent(ctx context.Context, id string) (*types.Item, error) {
	var parent *types.Item
	err := b.withReadTx(ctx, func(tx *sql.Tx) error {
		at, err := lookupPlacement(ctx, tx, id)
		if err != nil {
			return err
		}
		if at.parent == "" {
			return nil
		}
		parent, err = getItem(ctx, tx, at.parent)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("parent of %s: %w", id, err)
	}
	return parent, nil
}

// Ancestors returns every closure edge ending at id, deepest ancestor
// first, so the root comes first and the self-edge last.
func (b *Backend) Ancestors(ctx context.Context, id string) ([]types.Edge, error) {
	_, rdb, err := b.handles()
	if err != nil {
		return nil, err
	}

	rows, err := rdb.QueryContext(ctx,
		"SELECT ancestor, descendant, depth FROM closure WHERE descendant = ? ORDER BY depth DESC",
		id)
	if err != nil {
		return nil, classify(fmt.Errorf("querying ancestors of %s: %w", id, err))
	}
	defer rows.Close()

	var edges []types.Edge
	for rows.Next() {
		var e types.Edge
		if err := rows.Scan(&e.Ancestor, &e.Descendant, &e.Depth); err != nil {
			return nil, classify(fmt.Errorf("scanning ancestor of %s: %w", id, err))
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("iterating ancestors of %s: %w", id, err))
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("ancestors of %s: %w", id, types.ErrNotFound)
	}
	return edges, nil
}

// Breadcrumbs returns the title path of every non-root item, sorted by
// path. Each path joins the item's full ancestor chain below the root.
func (b *Backend) Breadcrumbs(ctx context.Context) ([]types.Breadcrumb, error) {
	_, rdb, err := b.handles()
	if err != nil {
		return nil, err
	}

	rows, err := rdb.QueryContext(ctx,
		`SELECT d.descendant, n.title FROM closure d
		JOIN closure a ON a.descendant = d.descendant
		JOIN items n ON n.id = a.ancestor
		WHERE d.ancestor = ? AND d.descendant != d.ancestor AND a.ancestor != ?
		ORDER BY d.descendant, a.depth DESC`,
		types.RootID, types.RootID)
	if err != nil {
		return nil, classify(fmt.Errorf("querying breadcrumbs: %w", err))
	}
	defer rows.Close()

	var crumbs []types.Breadcrumb
	for rows.Next() {
		var id, title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, classify(fmt.Errorf("scanning breadcrumb: %w", err))
		}
		if n := len(crumbs); n > 0 && crumbs[n-1].ID == id {
			crumbs[n-1].Titles = append(crumbs[n-1].Titles, title)
			continue
		}
		crumbs = append(crumbs, types.Breadcrumb{ID: id, Titles: []string{title}})
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("iterating breadcrumbs: %w", err))
	}

	sort.SliceStable(crumbs, func(i, j int) bool {
		pi, pj := crumbs[i].Path(), crumbs[j].Path()
		if pi != pj {
			return pi < pj
		}
		return crumbs[i].ID < crumbs[j].ID
	})
	return crumbs, nil
}

// Breadcrumb returns the title path of one item. The root's path is empty.
func (b *Backend) Breadcrumb(ctx context.Context, id string) (types.Breadcrumb, error) {
	crumb := types.Breadcrumb{ID: id, Titles: []string{}}
	if id == types.RootID {
		return crumb, nil
	}

	_, rdb, err := b.handles()
	if err != nil {
		return crumb, err
	}

	rows, err := rdb.QueryContext(ctx,
		`SELECT n.title FROM closure a
		JOIN items n ON n.id = a.ancestor
		WHERE a.descendant = ? AND a.ancestor != ?
		ORDER BY a.depth DESC`,
		id, types.RootID)
	if err != nil {
		return crumb, classify(fmt.Errorf("querying breadcrumb of %s: %w", id, err))
	}
	defer rows.Close()

	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return crumb, classify(fmt.Errorf("scanning breadcrumb of %s: %w", id, err))
		}
		crumb.Titles = append(crumb.Titles, title)
	}
	if err := rows.Err(); err != nil {
		return crumb, classify(fmt.Errorf("iterating breadcrumb of %s: %w", id, err))
	}
	if len(crumb.Titles) == 0 {
		return crumb, fmt.Errorf("breadcrumb of %s: %w", id, types.ErrNotFound)
	}
	return crumb, nil
}

// Options returns id to title for every item, for select boxes.
func (b *Backend) Options(ctx context.Context) (map[string]string, error) {
	_, rdb, err := b.handles()
	if err != nil {
		return nil, err
	}

	rows, err := rdb.QueryContext(ctx, "SELECT id, title FROM items ORDER BY id")
	if err != nil {
		return nil, classify(fmt.Errorf("querying options: %w", err))
	}
	defer rows.Close()

	opts := make(map[string]string)
	for rows.Next() {
		var id, title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, classify(fmt.Errorf("scanning option: %w", err))
		}
		opts[id] = title
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("iterating options: %w", err))
	}
	return opts, nil
}
