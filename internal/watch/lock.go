package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/millworks/taskmill/internal/errors"
)

const lockFileName = "watch.lock"

// RunLock provides cross-process mutual exclusion for watch mode using
// flock(2). One watcher per project: the lock file lives in the project's
// state directory, so a second watch command against the same project
// fails fast instead of double-running tasks.
type RunLock struct {
	path string
	file *os.File
}

// NewRunLock creates a RunLock for the given state directory. The lock
// file is created inside dir as "watch.lock".
func NewRunLock(dir string) *RunLock {
	return &RunLock{
		path: filepath.Join(dir, lockFileName),
	}
}

// Path returns the lock file path, for user-facing messages.
func (l *RunLock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking. Returns errors.ErrWatchLocked
// when another process already holds it. The lock file is created if it
// does not exist.
func (l *RunLock) Acquire() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if err == syscall.EWOULDBLOCK {
			return errors.Wrapf(errors.ErrWatchLocked, "lock file %s", l.path)
		}
		return fmt.Errorf("flock: %w", err)
	}

	l.file = f
	return nil
}

// Release releases the lock and closes the lock file. Releasing a lock
// that was never acquired is a no-op.
func (l *RunLock) Release() error {
	if l.file == nil {
		return nil
	}

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		_ = l.file.Close()
		l.file = nil
		return fmt.Errorf("funlock: %w", err)
	}

	err := l.file.Close()
	l.file = nil
	return err
}
