package store

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every store implementation. The entity-level
// variants wrap ErrNotFound so callers can match either the broad category
// or the exact entity.
var (
	// ErrNotFound means the requested row does not exist. Stores also return
	// it when a row exists but belongs to a different user, so a caller
	// cannot distinguish foreign data from missing data.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate means the operation would violate a uniqueness rule.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity means the database rejected the row on a constraint
	// other than uniqueness.
	ErrInvalidEntity = errors.New("invalid entity")

	ErrUserNotFound        = fmt.Errorf("%w: user", ErrNotFound)
	ErrApplicationNotFound = fmt.Errorf("%w: application", ErrNotFound)
	ErrResumeNotFound      = fmt.Errorf("%w: resume", ErrNotFound)
	ErrTaskNotFound        = fmt.Errorf("%w: task", ErrNotFound)

	// ErrEmailExists is the duplicate error for user registration.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)
