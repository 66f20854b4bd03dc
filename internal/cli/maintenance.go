package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/navtree/internal/paths"
	"github.com/mesh-intelligence/navtree/pkg/types"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the closure invariants of the stored tree",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEngine(func(e types.TreeEngine, _ *settings) error {
				err := e.Verify(cmd.Context())
				var inv *types.InvariantError
				if errors.As(err, &inv) {
					for _, v := range inv.Violations {
						fmt.Fprintln(cmd.OutOrStdout(), v)
					}
					return err
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			})
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [dir]",
		Short: "Write items.jsonl and closure.jsonl (default: <data-dir>/export)",
		Args:  args(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.withEngine(func(e types.TreeEngine, s *settings) error {
				dir, err := paths.ExportDir(firstArg(argv), s.engine.DataDir)
				if err != nil {
					return err
				}
				if err := e.Export(cmd.Context(), dir); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", dir)
				return nil
			})
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [dir]",
		Short: "Replace the tree with items.jsonl and closure.jsonl (default: <data-dir>/export)",
		Args:  args(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.withEngine(func(e types.TreeEngine, s *settings) error {
				dir, err := paths.ExportDir(firstArg(argv), s.engine.DataDir)
				if err != nil {
					return err
				}
				if err := e.Import(cmd.Context(), dir); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported from %s\n", dir)
				return nil
			})
		},
	}
}

func firstArg(argv []string) string {
	if len(argv) == 0 {
		return ""
	}
	return argv[0]
}
