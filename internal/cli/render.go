package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

// treeNode is the nested JSON form of a tree snapshot.
type treeNode struct {
	*types.Item
	Children []*treeNode `json:"children,omitempty"`
}

func nestTree(tree *types.Tree) *treeNode {
	var build func(id string) *treeNode
	build = func(id string) *treeNode {
		n := &treeNode{Item: tree.Items[id]}
		for _, c := range tree.Children(id) {
			n.Children = append(n.Children, build(c))
		}
		return n
	}
	return build(tree.Root)
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// renderTree writes one line per item, indented two spaces per level.
func renderTree(w io.Writer, tree *types.Tree, withIDs bool) {
	tree.Walk(func(it *types.Item, depth int) bool {
		fmt.Fprint(w, strings.Repeat("  ", depth), it.Title)
		if withIDs {
			fmt.Fprintf(w, " [%s]", it.ID)
		}
		fmt.Fprintln(w)
		return true
	})
}

func renderItem(w io.Writer, it *types.Item) {
	target := "-"
	if it.Target != nil {
		target = *it.Target
	}
	fmt.Fprintf(w, "id:       %s\n", it.ID)
	fmt.Fprintf(w, "title:    %s\n", it.Title)
	fmt.Fprintf(w, "url:      %s\n", it.URL)
	fmt.Fprintf(w, "sequence: %d\n", it.Sequence)
	fmt.Fprintf(w, "target:   %s\n", target)
}

func renderItemLine(w io.Writer, it *types.Item) {
	fmt.Fprintf(w, "%d\t%s\t%s\n", it.Sequence, it.Title, it.ID)
}
