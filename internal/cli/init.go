package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/navtree/internal/paths"
	"github.com/mesh-intelligence/navtree/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize navtree storage",
		Long:  "Create the configuration and data directories, then create the database and seed the root item.",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEngine(func(_ types.TreeEngine, s *settings) error {
				fmt.Fprintf(cmd.OutOrStdout(), "navtree initialized\nconfig: %s\ndata:   %s\n",
					paths.ConfigFile(s.configDir), s.engine.DataDir)
				return nil
			})
		},
	}
}
