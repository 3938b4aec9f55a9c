// Package memory provides an in-memory event store for tests and ephemeral
// conversations. It mirrors the sqlite store semantics: an append-only
// arena, a tombstone set, and read-time swipe filtering.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/talekeeper/chronicle/internal/event"
	"github.com/talekeeper/chronicle/internal/storage"
)

type swipeKey struct {
	conversationID string
	messageIndex   int
}

// Store is an in-memory implementation of storage.EventStore.
type Store struct {
	mu         sync.Mutex
	registry   *event.Registry
	arena      map[string][]event.Event
	tombstones map[string]struct{}
	swipes     map[swipeKey]int
}

// NewStore returns an empty in-memory event store.
func NewStore() *Store {
	return &Store{
		registry:   event.NewRegistry(),
		arena:      make(map[string][]event.Event),
		tombstones: make(map[string]struct{}),
		swipes:     make(map[swipeKey]int),
	}
}

// AppendEvent validates and appends an event, assigning its sequence.
func (s *Store) AppendEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}

	validated, err := s.registry.ValidateForAppend(evt)
	if err != nil {
		return event.Event{}, err
	}
	evt = validated

	if strings.TrimSpace(evt.ID) == "" {
		return event.Event{}, fmt.Errorf("event id is required")
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)

	s.mu.Lock()
	defer s.mu.Unlock()

	evt.Seq = uint64(len(s.arena[evt.ConversationID]) + 1)
	s.arena[evt.ConversationID] = append(s.arena[evt.ConversationID], evt)
	return evt, nil
}

// SoftDeleteEvent records a tombstone; unknown ids are a no-op.
func (s *Store) SoftDeleteEvent(ctx context.Context, conversationID, eventID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(eventID) == "" {
		return fmt.Errorf("event id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, evt := range s.arena[conversationID] {
		if evt.ID == eventID {
			s.tombstones[eventID] = struct{}{}
			return nil
		}
	}
	return nil
}

// SelectSwipe records the active swipe for a message.
func (s *Store) SelectSwipe(ctx context.Context, conversationID string, messageIndex, swipeIndex int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(conversationID) == "" {
		return fmt.Errorf("conversation id is required")
	}
	if messageIndex < 0 || swipeIndex < 0 {
		return fmt.Errorf("swipe selection indices must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.swipes[swipeKey{conversationID: conversationID, messageIndex: messageIndex}] = swipeIndex
	return nil
}

// ListActiveEvents returns non-deleted events on the active branch, in log
// order, at or before upToSeq (0 means no cutoff).
func (s *Store) ListActiveEvents(ctx context.Context, conversationID string, upToSeq uint64) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(conversationID) == "" {
		return nil, fmt.Errorf("conversation id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var active []event.Event
	for _, evt := range s.arena[conversationID] {
		if upToSeq > 0 && evt.Seq > upToSeq {
			break
		}
		if _, deleted := s.tombstones[evt.ID]; deleted {
			continue
		}
		selected := s.swipes[swipeKey{conversationID: conversationID, messageIndex: evt.Source.MessageIndex}]
		if evt.Source.SwipeIndex != selected {
			continue
		}
		active = append(active, evt)
	}
	return active, nil
}

// ListEvents returns events ordered by sequence ascending, including
// tombstoned ones.
func (s *Store) ListEvents(ctx context.Context, conversationID string, afterSeq uint64, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var events []event.Event
	for _, evt := range s.arena[conversationID] {
		if evt.Seq <= afterSeq {
			continue
		}
		events = append(events, evt)
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

// GetEventBySeq retrieves a specific event by sequence position.
func (s *Store) GetEventBySeq(ctx context.Context, conversationID string, seq uint64) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.arena[conversationID]
	if seq == 0 || seq > uint64(len(events)) {
		return event.Event{}, storage.ErrNotFound
	}
	return events[seq-1], nil
}

// GetLatestSeq returns the newest sequence position, or zero when empty.
func (s *Store) GetLatestSeq(ctx context.Context, conversationID string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return uint64(len(s.arena[conversationID])), nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
