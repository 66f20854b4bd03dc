package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/navtree/pkg/navtree"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the navtree version",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"version": navtree.Version,
					"module":  navtree.ModulePath,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "navtree v%s\nmodule: %s\n", navtree.Version, navtree.ModulePath)
			return nil
		},
	}
}
