package config

import (
	"fmt"
	"os"
	"syscall"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// RunLock is an exclusive per-instance lock held for the duration of a
// provisioning run. Concurrent invocations for the same instance name fail
// fast instead of racing on the container and config artifact.
type RunLock struct {
	file *os.File
}

// AcquireRunLock takes a non-blocking flock on <dataDir>/<name>/.lock.
// Returns an error if another run already holds it.
func AcquireRunLock(dataDir, name string) (*RunLock, error) {
	dir, err := InstanceDir(dataDir, name)
	if err != nil {
		return nil, fmt.Errorf("invalid instance name: %w", err)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create instance directory: %w", err)
	}

	path, err := securejoin.SecureJoin(dir, lockFileName)
	if err != nil {
		return nil, fmt.Errorf("invalid lock path: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		if err == syscall.EWOULDBLOCK {
			return nil, fmt.Errorf("another provisioning run is in progress for %s", name)
		}
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}

	return &RunLock{file: f}, nil
}

// Release drops the lock. The lock file itself is left in place; the flock
// is what matters.
func (l *RunLock) Release() {
	if l == nil || l.file == nil {
		return
	}
	_ = syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	_ = l.file.Close()
	l.file = nil
}
