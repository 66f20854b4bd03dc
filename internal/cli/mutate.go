package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

func newAddCmd(a *app) *cobra.Command {
	var parent, title, url, target string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item at the end of a parent's children",
		Long: `Add creates a new item under --parent (default: the root) and prints its id.

Example:
  navtree add --title "Guides" --url /guides
  navtree add --parent <id> --title "Install" --url /guides/install`,
		Args: args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			fields := types.ItemFields{Title: title, URL: url}
			if cmd.Flags().Changed("target") {
				fields.Target = &target
			}
			return a.withEngine(func(e types.TreeEngine, _ *settings) error {
				id, err := e.Insert(cmd.Context(), parent, fields)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]string{"id": id})
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&parent, "parent", types.RootID, "parent item id")
	cmd.Flags().StringVar(&title, "title", "", "display title (required)")
	cmd.Flags().StringVar(&url, "url", "", "url slug")
	cmd.Flags().StringVar(&target, "target", "", "opaque target reference")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <branch-id> <new-parent-id>",
		Short: "Move a subtree under a new parent",
		Args:  args(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.withEngine(func(e types.TreeEngine, _ *settings) error {
				if err := e.Move(cmd.Context(), argv[0], argv[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "moved %s under %s\n", argv[0], argv[1])
				return nil
			})
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item and everything below it",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.withEngine(func(e types.TreeEngine, _ *settings) error {
				if err := e.Delete(cmd.Context(), argv[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", argv[0])
				return nil
			})
		},
	}
}

func newReorderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "reorder <id> up|down",
		Short:     "Swap an item with its previous or next sibling",
		Args:      args(cobra.ExactArgs(2)),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, argv []string) error {
			var dir int
			switch argv[1] {
			case "up":
				dir = types.Up
			case "down":
				dir = types.Down
			default:
				return fmt.Errorf("direction %q: %w", argv[1], types.ErrInvalidDirection)
			}
			return a.withEngine(func(e types.TreeEngine, _ *settings) error {
				moved, err := e.Reorder(cmd.Context(), argv[0], dir)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]bool{"moved": moved})
				}
				if moved {
					fmt.Fprintf(cmd.OutOrStdout(), "moved %s %s\n", argv[0], argv[1])
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is already at the boundary\n", argv[0])
				}
				return nil
			})
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	var title, url, target string
	var clearTarget bool
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an item's title, url or target",
		Long:  "Edit rewrites only the attributes whose flags are given.",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			id := argv[0]
			return a.withEngine(func(e types.TreeEngine, _ *settings) error {
				var patch types.ItemPatch
				flags := cmd.Flags()
				if flags.Changed("title") {
					patch.Title = &title
				}
				if flags.Changed("url") {
					patch.URL = &url
				}
				if flags.Changed("target") {
					patch.Target = &target
				}
				patch.ClearTarget = clearTarget
				if _, err := e.Update(cmd.Context(), id, patch); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "edited %s\n", id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&url, "url", "", "new url slug")
	cmd.Flags().StringVar(&target, "target", "", "new target reference")
	cmd.Flags().BoolVar(&clearTarget, "clear-target", false, "remove the target reference")
	cmd.MarkFlagsMutuallyExclusive("target", "clear-target")
	return cmd
}
