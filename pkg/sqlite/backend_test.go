package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/navtree/pkg/sqlite"
	"github.com/mesh-intelligence/navtree/pkg/types"
)

func TestNewBackend(t *testing.T) {
	ctx := context.Background()
	refused := types.DeletionPolicyFunc(func(context.Context, string) (bool, error) {
		return false, nil
	})

	engine := sqlite.NewBackend(sqlite.WithDeletionPolicy(refused))
	require.NoError(t, engine.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	defer engine.Detach()

	id, err := engine.Insert(ctx, types.RootID, types.ItemFields{Title: "Home", URL: "/"})
	require.NoError(t, err)

	assert.ErrorIs(t, engine.Delete(ctx, id), types.ErrPreconditionFailed)
	assert.NoError(t, engine.Verify(ctx))
}
