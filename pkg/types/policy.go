package types

import "context"

// DeletionPolicy decides whether state outside the engine still refers to
// an item. Delete consults it for every item of the subtree before writing.
type DeletionPolicy interface {
	SafeToDelete(ctx context.Context, id string) (bool, error)
}

// DeletionPolicyFunc adapts a function to DeletionPolicy.
type DeletionPolicyFunc func(ctx context.Context, id string) (bool, error)

// SafeToDelete calls f.
func (f DeletionPolicyFunc) SafeToDelete(ctx context.Context, id string) (bool, error) {
	return f(ctx, id)
}

// AllowAll is the default policy: nothing outside the engine holds items.
var AllowAll DeletionPolicy = DeletionPolicyFunc(func(context.Context, string) (bool, error) {
	return true, nil
})
