// Package runlock serializes photosift invocations so that two concurrent
// runs cannot rebuild the same output tree or rewrite the mapping at once.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrAlreadyRunning reports that another photosift instance holds the lock.
var ErrAlreadyRunning = errors.New("another photosift instance is already running")

// Lock is a process-wide advisory file lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// New prepares a lock at the given path without acquiring it.
func New(path string) *Lock {
	return &Lock{path: path, lock: flock.New(path)}
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Acquire takes the lock or fails immediately when another instance holds it.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}
	return nil
}

// Release gives the lock up. Releasing an unheld lock is a no-op.
func (l *Lock) Release() error {
	return l.lock.Unlock()
}
