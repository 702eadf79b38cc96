package storage

import (
	"fmt"
	"os"
	"strconv"

	"FomcToneScanner/internal/ports"
)

// FileLock is an advisory lock file that keeps two scanner invocations from
// merging into the corpus concurrently.
type FileLock struct {
	path string
}

var _ ports.RunLock = (*FileLock)(nil)

// NewFileLock wires a lock at the given path, conventionally
// <corpus>.lock next to the corpus file.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// Acquire creates the lock file exclusively and returns a release func that
// removes it. A held lock fails fast rather than waiting: overlapping runs
// indicate a scheduling problem, not contention to ride out.
func (l *FileLock) Acquire() (func(), error) {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("another run holds the lock %s", l.path)
		}
		return nil, fmt.Errorf("create lock %s: %w", l.path, err)
	}

	_, _ = f.WriteString(strconv.Itoa(os.Getpid()) + "\n")
	f.Close()

	return func() {
		_ = os.Remove(l.path)
	}, nil
}
