package cli

import (
	"fmt"

	"github.com/mesh-intelligence/navtree/pkg/sqlite"
	"github.com/mesh-intelligence/navtree/pkg/types"
)

// withEngine attaches the tree engine described by the resolved settings,
// runs fn and detaches again.
func (a *app) withEngine(fn func(types.TreeEngine, *settings) error) error {
	s, err := a.resolve()
	if err != nil {
		return err
	}
	logger, err := a.logger(s.logLevel)
	if err != nil {
		return err
	}

	engine := sqlite.NewBackend(sqlite.WithLogger(logger))
	if err := engine.Attach(s.engine); err != nil {
		return fmt.Errorf("attach %s: %w", s.engine.DataDir, err)
	}
	defer engine.Detach()

	return fn(engine, s)
}
