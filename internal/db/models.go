// Package db holds the correlation store: the small set of per-session slots
// that carry the transcript token and language preference between views and
// between process invocations.
package db

import (
	"context"
	"time"
)

// Slot keys.
const (
	// KeyTranscriptToken holds the correlation token of the last successful
	// transcription.
	KeyTranscriptToken = "transcriptFilename"
	// KeyLanguage holds the preferred transcription language hint.
	KeyLanguage = "language"
)

// SessionStore is a session-scoped key-value store. Writes are visible to any
// subsequent read of the same key.
type SessionStore interface {
	Put(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, bool, error)
	Clear(ctx context.Context, key string) error
}

// Slot is one stored value.
type Slot struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// SessionInfo describes a browsing session.
type SessionInfo struct {
	ID        string
	CreatedAt time.Time
	Slots     []Slot
}
