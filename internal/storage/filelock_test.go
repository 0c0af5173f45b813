package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLock_AcquireAndRelease(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token_analytics.json")
	lock := NewFileLock(path)

	require.NoError(t, lock.Lock(time.Second))

	// Lock file exists while held, disappears on release.
	_, err := os.Stat(path + ".lock")
	require.NoError(t, err)

	require.NoError(t, lock.Unlock())
	_, err = os.Stat(path + ".lock")
	assert.True(t, os.IsNotExist(err))
}

func TestFileLock_ContendedLockTimesOut(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token_reporting.json")
	holder := NewFileLock(path)
	require.NoError(t, holder.Lock(time.Second))
	defer func() {
		_ = holder.Unlock()
	}()

	contender := NewFileLock(path)
	err := contender.Lock(50 * time.Millisecond)
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestFileLock_AvailableAfterUnlock(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token_analytics.json")
	first := NewFileLock(path)
	require.NoError(t, first.Lock(time.Second))
	require.NoError(t, first.Unlock())

	second := NewFileLock(path)
	require.NoError(t, second.Lock(50*time.Millisecond))
	require.NoError(t, second.Unlock())
}

func TestFileLock_UnlockWithoutLockIsNoop(t *testing.T) {
	t.Parallel()

	lock := NewFileLock(filepath.Join(t.TempDir(), "token_analytics.json"))
	assert.NoError(t, lock.Unlock())
}
