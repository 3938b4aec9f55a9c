package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/talekeeper/chronicle/internal/event"
	apperrors "github.com/talekeeper/chronicle/internal/platform/errors"
	"github.com/talekeeper/chronicle/internal/storage"
)

const conversationID = "conv-1"

func appearedEvent(t *testing.T, id, name string, messageIndex, swipeIndex int) event.Event {
	t.Helper()
	payload, err := json.Marshal(event.CharacterAppearedPayload{Name: name})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return event.Event{
		ID:             id,
		ConversationID: conversationID,
		Source:         event.Source{MessageIndex: messageIndex, SwipeIndex: swipeIndex},
		Kind:           event.KindCharacter,
		Subkind:        event.SubkindCharacterAppeared,
		PayloadJSON:    payload,
	}
}

func TestAppendAssignsSequence(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		evt, err := s.AppendEvent(ctx, appearedEvent(t, fmt.Sprintf("evt-%d", i), "Alice", i, 0))
		if err != nil {
			t.Fatalf("AppendEvent: %v", err)
		}
		if evt.Seq != uint64(i) {
			t.Fatalf("expected seq %d, got %d", i, evt.Seq)
		}
		if evt.Timestamp.IsZero() {
			t.Fatal("expected timestamp to be assigned")
		}
	}

	latest, err := s.GetLatestSeq(ctx, conversationID)
	if err != nil {
		t.Fatalf("GetLatestSeq: %v", err)
	}
	if latest != 3 {
		t.Fatalf("expected latest seq 3, got %d", latest)
	}
}

func TestAppendRejectsInvalidEvents(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	evt := appearedEvent(t, "evt-1", "Alice", 0, 0)
	evt.Subkind = "vanished"
	if _, err := s.AppendEvent(ctx, evt); apperrors.CodeOf(err) != apperrors.CodeEventUnknownType {
		t.Fatalf("expected unknown type rejection, got %v", err)
	}

	latest, _ := s.GetLatestSeq(ctx, conversationID)
	if latest != 0 {
		t.Fatalf("rejected event must not be stored, latest = %d", latest)
	}
}

func TestSoftDeleteHidesFromActiveReads(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	s.AppendEvent(ctx, appearedEvent(t, "evt-1", "Alice", 0, 0))
	s.AppendEvent(ctx, appearedEvent(t, "evt-2", "Bram", 1, 0))

	if err := s.SoftDeleteEvent(ctx, conversationID, "evt-1"); err != nil {
		t.Fatalf("SoftDeleteEvent: %v", err)
	}

	active, err := s.ListActiveEvents(ctx, conversationID, 0)
	if err != nil {
		t.Fatalf("ListActiveEvents: %v", err)
	}
	if len(active) != 1 || active[0].ID != "evt-2" {
		t.Fatalf("expected only evt-2 active, got %v", active)
	}

	// The full listing still includes the tombstoned row.
	all, err := s.ListEvents(ctx, conversationID, 0, 10)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 stored events, got %d", len(all))
	}

	// Deleting an unknown id is a no-op, not an error.
	if err := s.SoftDeleteEvent(ctx, conversationID, "evt-missing"); err != nil {
		t.Fatalf("unexpected error for unknown id: %v", err)
	}
}

func TestSwipeSelectionFiltersBranches(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	// Two alternative extractions for message 5, one shared event on message 6.
	s.AppendEvent(ctx, appearedEvent(t, "evt-1", "Alice", 5, 0))
	s.AppendEvent(ctx, appearedEvent(t, "evt-2", "Bram", 5, 1))
	s.AppendEvent(ctx, appearedEvent(t, "evt-3", "Zoe", 6, 0))

	// Default selection is swipe 0.
	active, err := s.ListActiveEvents(ctx, conversationID, 0)
	if err != nil {
		t.Fatalf("ListActiveEvents: %v", err)
	}
	if len(active) != 2 || active[0].ID != "evt-1" || active[1].ID != "evt-3" {
		t.Fatalf("unexpected default branch: %v", active)
	}

	if err := s.SelectSwipe(ctx, conversationID, 5, 1); err != nil {
		t.Fatalf("SelectSwipe: %v", err)
	}
	active, err = s.ListActiveEvents(ctx, conversationID, 0)
	if err != nil {
		t.Fatalf("ListActiveEvents: %v", err)
	}
	if len(active) != 2 || active[0].ID != "evt-2" || active[1].ID != "evt-3" {
		t.Fatalf("unexpected selected branch: %v", active)
	}

	// Switching back restores the original branch; nothing was mutated.
	if err := s.SelectSwipe(ctx, conversationID, 5, 0); err != nil {
		t.Fatalf("SelectSwipe: %v", err)
	}
	active, _ = s.ListActiveEvents(ctx, conversationID, 0)
	if len(active) != 2 || active[0].ID != "evt-1" {
		t.Fatalf("expected original branch restored, got %v", active)
	}
}

func TestListActiveEventsCutoff(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		s.AppendEvent(ctx, appearedEvent(t, fmt.Sprintf("evt-%d", i), "Alice", i, 0))
	}

	active, err := s.ListActiveEvents(ctx, conversationID, 2)
	if err != nil {
		t.Fatalf("ListActiveEvents: %v", err)
	}
	if len(active) != 2 || active[1].Seq != 2 {
		t.Fatalf("expected cutoff at seq 2, got %v", active)
	}
}

func TestGetEventBySeq(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	s.AppendEvent(ctx, appearedEvent(t, "evt-1", "Alice", 0, 0))

	evt, err := s.GetEventBySeq(ctx, conversationID, 1)
	if err != nil {
		t.Fatalf("GetEventBySeq: %v", err)
	}
	if evt.ID != "evt-1" {
		t.Fatalf("unexpected event %+v", evt)
	}

	if _, err := s.GetEventBySeq(ctx, conversationID, 99); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
