// Package lock keeps two cleanfiles runs from working on the same main
// directory at once. The lock is advisory: other programs are not stopped.
package lock

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/cleanfiles/pkg/errors"
	"github.com/arthur-debert/cleanfiles/pkg/logging"
	"github.com/gofrs/flock"
)

// Lock is a held run lock
type Lock struct {
	fl *flock.Flock
}

// Acquire takes the lock file at path without waiting. A lock held by
// another process yields an ErrLocked error.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.PathError(err, errors.ErrDirCreate, "create lock directory", filepath.Dir(path))
	}

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, errors.PathError(err, errors.ErrLocked, "lock", path)
	}
	if !locked {
		return nil, errors.Newf(errors.ErrLocked, "another cleanfiles run holds %s", path).
			WithDetail("path", path)
	}

	logger := logging.GetLogger("lock")
	logger.Debug().Str("path", path).Msg("Run lock acquired")
	return &Lock{fl: fl}, nil
}

// Path returns the lock file path
func (l *Lock) Path() string {
	return l.fl.Path()
}

// Release gives the lock up. The lock file itself is left in place.
func (l *Lock) Release() error {
	if err := l.fl.Unlock(); err != nil {
		return errors.PathError(err, errors.ErrLocked, "unlock", l.fl.Path())
	}
	return nil
}
