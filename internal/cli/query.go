package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one item",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.withEngine(func(e types.TreeEngine, _ *settings) error {
				it, err := e.Get(cmd.Context(), argv[0])
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), it)
				}
				renderItem(cmd.OutOrStdout(), it)
				return nil
			})
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	var withIDs bool
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Print the tree, or the subtree below id",
		Args:  args(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.withEngine(func(e types.TreeEngine, _ *settings) error {
				var tree *types.Tree
				var err error
				if len(argv) == 1 {
					tree, err = e.Subtree(cmd.Context(), argv[0])
				} else {
					tree, err = e.Tree(cmd.Context())
				}
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), nestTree(tree))
				}
				renderTree(cmd.OutOrStdout(), tree, withIDs)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&withIDs, "ids", false, "print item ids next to titles")
	return cmd
}

func newSiblingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "siblings <id>",
		Short: "List the sibling group of an item in order",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.withEngine(func(e types.TreeEngine, _ *settings) error {
				items, err := e.Siblings(cmd.Context(), argv[0])
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), items)
				}
				for _, it := range items {
					renderItemLine(cmd.OutOrStdout(), it)
				}
				return nil
			})
		},
	}
}

func newParentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parent <id>",
		Short: "Print the parent of an item",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.withEngine(func(e types.TreeEngine, _ *settings) error {
				p, err := e.Parent(cmd.Context(), argv[0])
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), p)
				}
				if p == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "(root has no parent)")
					return nil
				}
				renderItem(cmd.OutOrStdout(), p)
				return nil
			})
		},
	}
}

func newAncestorsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ancestors <id>",
		Short: "List the closure edges ending at an item, root first",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.withEngine(func(e types.TreeEngine, _ *settings) error {
				edges, err := e.Ancestors(cmd.Context(), argv[0])
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), edges)
				}
				for _, edge := range edges {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", edge.Depth, edge.Ancestor)
				}
				return nil
			})
		},
	}
}

func newBreadcrumbsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "breadcrumbs [id]",
		Short: "Print title paths, for every item or for one",
		Args:  args(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.withEngine(func(e types.TreeEngine, _ *settings) error {
				var crumbs []types.Breadcrumb
				if len(argv) == 1 {
					c, err := e.Breadcrumb(cmd.Context(), argv[0])
					if err != nil {
						return err
					}
					crumbs = []types.Breadcrumb{c}
				} else {
					var err error
					if crumbs, err = e.Breadcrumbs(cmd.Context()); err != nil {
						return err
					}
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), crumbs)
				}
				for _, c := range crumbs {
					fmt.Fprintln(cmd.OutOrStdout(), c.Path())
				}
				return nil
			})
		},
	}
}

func newOptionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List id and title of every item",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEngine(func(e types.TreeEngine, _ *settings) error {
				opts, err := e.Options(cmd.Context())
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), opts)
				}
				ids := make([]string, 0, len(opts))
				for id := range opts {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				for _, id := range ids {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, opts[id])
				}
				return nil
			})
		},
	}
}
