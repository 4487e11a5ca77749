// Package lock provides a single-instance guard over a project directory.
//
// The guard takes a non-blocking exclusive flock on a lock file and records
// the holder's pid and acquisition time in it. A second run against the same
// file fails fast instead of queuing. There is no staleness detection; the
// kernel drops the flock when the holding process exits.
package lock

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// FileName is the lock file created in the project directory.
const FileName = ".auto_review.lock"

// maxAttempts bounds retries when the locked file was unlinked by a releasing holder.
const maxAttempts = 3

var (
	errBusy  = errors.New("lock held by another process")
	errStale = errors.New("lock file replaced while locking")
)

// Info describes the current holder of a lock.
type Info struct {
	PID        int
	AcquiredAt time.Time
}

// Guard is an exclusive, non-blocking file lock.
type Guard struct {
	path string

	mu   sync.Mutex
	file *os.File
}

// New returns a Guard for the lock file at path. Nothing is touched on disk
// until Acquire is called.
func New(path string) *Guard {
	return &Guard{path: path}
}

// Acquire tries to take the lock without blocking.
// It returns false with a nil error when another holder has it.
// A non-nil error means the lock file itself could not be opened or written.
func (g *Guard) Acquire() (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.file != nil {
		return true, nil
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		// Open without truncating so a failed attempt leaves the holder's info intact.
		f, err := os.OpenFile(g.path, os.O_RDWR|os.O_CREATE, 0644)
		if err != nil {
			return false, fmt.Errorf("failed to open lock file %s: %w", g.path, err)
		}

		err = lockCurrent(g.path, f)
		switch {
		case errors.Is(err, errStale):
			continue
		case errors.Is(err, errBusy):
			return false, nil
		case err != nil:
			return false, err
		}

		if err := writeInfo(f, Info{PID: os.Getpid(), AcquiredAt: time.Now()}); err != nil {
			_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
			_ = f.Close()
			return false, fmt.Errorf("failed to write lock file %s: %w", g.path, err)
		}

		g.file = f
		return true, nil
	}
	return false, nil
}

// lockCurrent flocks f and checks that it is still the file at path. A
// releasing holder unlinks the path, so a descriptor opened just before that
// can lock an orphaned inode. f is closed on any error.
func lockCurrent(path string, f *os.File) error {
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return errBusy
		}
		return fmt.Errorf("failed to lock %s: %w", path, err)
	}

	locked, err := f.Stat()
	if err != nil {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		_ = f.Close()
		return fmt.Errorf("failed to stat lock file %s: %w", path, err)
	}
	current, err := os.Stat(path)
	if err != nil || !os.SameFile(locked, current) {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		_ = f.Close()
		return errStale
	}
	return nil
}

// Release removes the lock file and then unlocks it. It is idempotent and
// never fails; errors from an already-removed file are ignored.
func (g *Guard) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.file == nil {
		return
	}
	// Unlink while still holding the flock so a waiter that locks the old
	// inode afterwards sees it is no longer at the path.
	_ = os.Remove(g.path)
	_ = unix.Flock(int(g.file.Fd()), unix.LOCK_UN)
	_ = g.file.Close()
	g.file = nil
}

// Holder reads the pid and acquisition time recorded by the current holder.
func (g *Guard) Holder() (Info, error) {
	return ReadInfo(g.path)
}

// ReadInfo reads the holder information recorded in the lock file at path.
func ReadInfo(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, err
	}
	return parseInfo(string(data))
}

func writeInfo(f *os.File, info Info) error {
	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f, "%d\n%s\n", info.PID, info.AcquiredAt.Format(time.RFC3339Nano)); err != nil {
		return err
	}
	return f.Sync()
}

func parseInfo(s string) (Info, error) {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) < 2 {
		return Info{}, fmt.Errorf("malformed lock file: expected pid and timestamp")
	}
	pid, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Info{}, fmt.Errorf("malformed lock file pid: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(lines[1]))
	if err != nil {
		return Info{}, fmt.Errorf("malformed lock file timestamp: %w", err)
	}
	return Info{PID: pid, AcquiredAt: ts}, nil
}
