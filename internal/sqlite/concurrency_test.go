package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

// Concurrent writers serialize on the database and every sibling group
// still ends up dense.
func TestConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)
	parent := mustInsert(t, b, types.RootID, "P")

	const workers, perWorker = 8, 10
	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				title := fmt.Sprintf("w%d-%d", w, i)
				if _, err := b.Insert(ctx, parent, types.ItemFields{Title: title, URL: "/" + title}); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("insert failed: %v", err)
	}

	requireValid(t, b)
	assert.Len(t, childTitles(t, b, parent), workers*perWorker)
}

func TestConcurrentReadsDuringWrites(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)
	ids := sampleTree(t, b)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			dest := ids["B"]
			if i%2 == 1 {
				dest = ids["C"]
			}
			assert.NoError(t, b.Move(ctx, ids["A"], dest))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			tree, err := b.Tree(ctx)
			if assert.NoError(t, err) {
				assert.Equal(t, 7, tree.Len())
			}
		}
	}()
	wg.Wait()

	require.NoError(t, b.Verify(ctx))
}
