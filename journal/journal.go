// Package journal records table mutations to an append-only audit log.
// Entries are never read back into the table.
package journal

import (
	"context"
	"time"
)

// Entry is one recorded table event.
type Entry struct {
	Event     string
	ConnID    string
	CardNames []string
	Detail    string
	At        time.Time
}

// Recorder stores journal entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }
