// Package lockfile provides cross-process mutual exclusion for index writes.
// A lock is a file created next to the database; holding the file means
// holding the lock. Readers never take it.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrTimeout is returned when the lock cannot be acquired within the
// bounded wait. The holding process is still running; retry later.
var ErrTimeout = errors.New("another index operation is in progress (try again shortly)")

// retryInterval is how often acquisition is retried until the deadline.
const retryInterval = 100 * time.Millisecond

// Lock is a held lock file. Release it on every exit path.
type Lock struct {
	path     string
	released bool
}

// Acquire takes the lock at path, retrying until timeout elapses.
// The file records the holder PID for diagnostics.
func Acquire(path string, timeout time.Duration) (*Lock, error) {
	deadline := time.Now().Add(timeout)
	for {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			_, werr := f.WriteString(strconv.Itoa(os.Getpid()) + "\n")
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(path)
				return nil, fmt.Errorf("write lock file %s: %w", path, errors.Join(werr, cerr))
			}
			return &Lock{path: path}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock file %s: %w", path, err)
		}
		if time.Now().After(deadline) {
			return nil, ErrTimeout
		}
		time.Sleep(retryInterval)
	}
}

// Release removes the lock file. Safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.released {
		return nil
	}
	l.released = true
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	return nil
}
