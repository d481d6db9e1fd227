package store

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoRegistry is matched by every MisuseError.
var ErrNoRegistry = errors.New("registry is null")

// MisuseError reports an operation attempted outside of a registry scope.
// It signals a wiring mistake: a consumer was built without a registry
// installed in its context.
type MisuseError struct {
	Op string
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("%v: %s called outside of a registry scope", ErrNoRegistry, e.Op)
}

func (e *MisuseError) Unwrap() error {
	return ErrNoRegistry
}

func misuse(op string) *MisuseError {
	return &MisuseError{Op: op}
}
