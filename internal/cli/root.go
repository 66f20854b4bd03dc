// Package cli implements the navtree command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// errUsage marks bad arguments and flags.
var errUsage = errors.New("usage")

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string
}

// app carries per-invocation state shared by the subcommands.
type app struct {
	flags  rootFlags
	stderr io.Writer
}

// NewRootCmd creates the top-level "navtree" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{stderr: os.Stderr}

	root := &cobra.Command{
		Use:   "navtree",
		Short: "Maintain an ordered navigation tree",
		Long: "navtree stores a single-rooted, ordered hierarchy of navigation items\n" +
			"in a closure table and keeps its ancestry and sibling order consistent.",
		// Do not print usage or errors from subcommands; Execute reports them.
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir, or $NAVTREE_CONFIG_DIR)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: .navtree-db, or $NAVTREE_DATA_DIR)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (default: warn)")

	root.AddCommand(
		newVersionCmd(a),
		newInitCmd(a),
		newAddCmd(a),
		newMoveCmd(a),
		newDeleteCmd(a),
		newReorderCmd(a),
		newEditCmd(a),
		newGetCmd(a),
		newShowCmd(a),
		newSiblingsCmd(a),
		newParentCmd(a),
		newAncestorsCmd(a),
		newBreadcrumbsCmd(a),
		newOptionsCmd(a),
		newCheckCmd(a),
		newExportCmd(a),
		newImportCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "navtree:", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps an error to the process exit status: requests the tree
// rejects exit 1, everything the backend fails at exits 2.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, errUsage), types.IsUserError(err):
		return exitUserError
	default:
		return exitSysError
	}
}

// args wraps a cobra positional-argument validator so its failures count
// as usage errors.
func args(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := v(cmd, a); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		return nil
	}
}

// logger builds the slog handler for this invocation.
func (a *app) logger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("%w: log level %q", errUsage, level)
	}
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: lvl})), nil
}
