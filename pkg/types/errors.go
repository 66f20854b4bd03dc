package types

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds returned by TreeEngine operations. Refinements wrap their
// kind, so errors.Is(ErrCycle, ErrInvalidOperation) holds.
var (
	ErrNotFound           = errors.New("item not found")
	ErrInvalidOperation   = errors.New("invalid operation")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrBackendFailure     = errors.New("backend failure")
	ErrInvariantViolated  = errors.New("closure invariant violated")
)

// InvalidOperation refinements.
var (
	ErrCycle            = fmt.Errorf("%w: destination is inside the moved branch", ErrInvalidOperation)
	ErrRootImmutable    = fmt.Errorf("%w: the root item cannot be changed", ErrInvalidOperation)
	ErrInvalidDirection = fmt.Errorf("%w: direction must be -1 or +1", ErrInvalidOperation)
	ErrInvalidTitle     = fmt.Errorf("%w: title must not be empty", ErrInvalidOperation)
	ErrConflictingPatch = fmt.Errorf("%w: target cannot be set and cleared together", ErrInvalidOperation)
)

// InvariantError lists every violation found by Verify.
type InvariantError struct {
	Violations []string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvariantViolated, strings.Join(e.Violations, "; "))
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolated
}

// IsUserError reports whether err is caused by the request rather than
// by the backend: missing items, invalid operations and refused deletes.
func IsUserError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidOperation) ||
		errors.Is(err, ErrPreconditionFailed)
}
