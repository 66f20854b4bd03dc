// Package sqlite provides the public API for the SQLite tree engine.
// It exposes the factory and its options while keeping the implementation
// internal.
package sqlite

import (
	"github.com/mesh-intelligence/navtree/internal/sqlite"
	"github.com/mesh-intelligence/navtree/pkg/types"
)

// Option configures a backend created by NewBackend.
type Option = sqlite.Option

// Options accepted by NewBackend.
var (
	WithLogger         = sqlite.WithLogger
	WithDeletionPolicy = sqlite.WithDeletionPolicy
	WithMetrics        = sqlite.WithMetrics
)

// NewBackend creates a new SQLite tree engine.
// The engine is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	engine := sqlite.NewBackend(sqlite.WithLogger(logger))
//	err := engine.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".navtree-db",
//	})
//	defer engine.Detach()
func NewBackend(opts ...Option) types.TreeEngine {
	return sqlite.NewBackend(opts...)
}
