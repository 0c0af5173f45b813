package storage

import (
	"errors"
	"os"
	"syscall"
	"time"
)

// lockRetryInterval is how often a contended lock is re-attempted until the
// caller's timeout expires.
const lockRetryInterval = 10 * time.Millisecond

// FileLock serializes token-file writes across processes. It is advisory,
// built on flock(2), so it only guards against other cooperating ytingest
// invocations. The lock file is created at path + ".lock".
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a file lock. The lock is not acquired until Lock is
// called.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path + ".lock"}
}

// Lock acquires an exclusive lock within the given timeout. A held lock is
// retried every lockRetryInterval; ErrLockTimeout is returned once the
// timeout expires. Errors other than contention fail immediately.
func (l *FileLock) Lock(timeout time.Duration) error {
	var err error
	l.file, err = os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return &StorageError{Op: "lock", Key: l.path, Err: err}
	}

	deadline := time.Now().Add(timeout)
	for {
		err = syscall.Flock(int(l.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, syscall.EWOULDBLOCK) {
			l.file.Close()
			l.file = nil
			return &StorageError{Op: "lock", Key: l.path, Err: err}
		}
		if !time.Now().Add(lockRetryInterval).Before(deadline) {
			break
		}
		time.Sleep(lockRetryInterval)
	}

	l.file.Close()
	l.file = nil
	return ErrLockTimeout
}

// Unlock releases the lock and removes the lock file. Unlocking an
// unacquired lock is a no-op.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}
	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		return &StorageError{Op: "unlock", Key: l.path, Err: err}
	}
	l.file.Close()
	os.Remove(l.path)
	l.file = nil
	return nil
}
