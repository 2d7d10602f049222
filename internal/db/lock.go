package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrWriterBusy is returned when another process already holds the writer
// lock for a session.
var ErrWriterBusy = errors.New("another minutes process is transcribing in this session")

// WriterLock is the advisory single-writer lock for one session.
type WriterLock struct {
	lock *flock.Flock
}

// LockWriter takes the writer lock for session next to the database file.
// It does not block: a held lock yields ErrWriterBusy.
func LockWriter(dbPath, session string) (*WriterLock, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	lock := flock.New(filepath.Join(dir, "writer-"+session+".lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire writer lock: %w", err)
	}
	if !ok {
		return nil, ErrWriterBusy
	}
	return &WriterLock{lock: lock}, nil
}

// Unlock releases the lock. It is safe to call on a nil lock.
func (l *WriterLock) Unlock() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
