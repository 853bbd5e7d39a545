package usecase

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
)

// PlayerNotFoundError reports an unknown player name together with the
// closest roster names.
type PlayerNotFoundError struct {
	Name        string
	TeamCode    string
	Suggestions []string
}

func (e *PlayerNotFoundError) Error() string {
	if e.TeamCode != "" {
		return "player " + e.Name + " not found on " + e.TeamCode + " active roster"
	}
	return "player " + e.Name + " not found on any active roster"
}

func (e *PlayerNotFoundError) Unwrap() error {
	return ErrNotFound
}

// dependencyError marks err as an upstream failure while keeping it in the
// chain.
func dependencyError(op string, err error) error {
	if crerr.Is(err, ErrDependencyUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrDependencyUnavailable, op, err)
}
