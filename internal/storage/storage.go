// Package storage defines the persistence interfaces for the Chronicle
// event log.
//
// The log is an append-only arena: stored event rows are never mutated.
// Soft deletes are tombstones kept beside the arena, and swipe selection is
// a read-time branch filter. Every read path filters through both.
package storage

import (
	"context"
	"errors"

	"github.com/talekeeper/chronicle/internal/event"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// EventStore persists the append-only narrative event log.
type EventStore interface {
	// AppendEvent validates and appends an event, returning it with its
	// sequence position assigned. Malformed events are rejected and never
	// stored.
	AppendEvent(ctx context.Context, evt event.Event) (event.Event, error)
	// SoftDeleteEvent records a tombstone for the event id. Deleting an
	// unknown id is a no-op.
	SoftDeleteEvent(ctx context.Context, conversationID, eventID string) error
	// SelectSwipe records which swipe is active for a message. Events on
	// other swipes of that message become invisible to active reads without
	// any log mutation.
	SelectSwipe(ctx context.Context, conversationID string, messageIndex, swipeIndex int) error
	// ListActiveEvents returns, in log order, all non-deleted events on the
	// active branch at or before upToSeq (0 means no cutoff).
	ListActiveEvents(ctx context.Context, conversationID string, upToSeq uint64) ([]event.Event, error)
	// ListEvents returns events ordered by sequence ascending, including
	// tombstoned ones, for editors and audit tooling.
	ListEvents(ctx context.Context, conversationID string, afterSeq uint64, limit int) ([]event.Event, error)
	// GetEventBySeq retrieves a specific event by sequence position.
	GetEventBySeq(ctx context.Context, conversationID string, seq uint64) (event.Event, error)
	// GetLatestSeq returns the newest sequence position for a conversation.
	GetLatestSeq(ctx context.Context, conversationID string) (uint64, error)
	// Close releases underlying resources.
	Close() error
}
