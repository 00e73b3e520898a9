package ledger

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLocked reports that another run holds the ledger lock.
var ErrLocked = errors.New("another debloat run is already in progress")

// Lock holds the advisory lock guarding a library run.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes the exclusive lock at path without blocking.
func Acquire(path string) (*Lock, error) {
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, path)
	}
	return &Lock{fl: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	if l == nil || l.fl == nil {
		return ""
	}
	return l.fl.Path()
}

// Release unlocks; the lock file itself is left in place.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
