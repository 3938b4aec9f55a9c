package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/talekeeper/chronicle/internal/event"
	apperrors "github.com/talekeeper/chronicle/internal/platform/errors"
	"github.com/talekeeper/chronicle/internal/storage"
)

const conversationID = "conv-1"

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

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

func TestAppendEventRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := appearedEvent(t, "evt-1", "Alice", 3, 1)
	in.Timestamp = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	appended, err := s.AppendEvent(ctx, in)
	if err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if appended.Seq != 1 {
		t.Fatalf("expected seq 1, got %d", appended.Seq)
	}

	got, err := s.GetEventBySeq(ctx, conversationID, 1)
	if err != nil {
		t.Fatalf("GetEventBySeq: %v", err)
	}
	if got.ID != "evt-1" || got.Kind != event.KindCharacter || got.Subkind != event.SubkindCharacterAppeared {
		t.Fatalf("unexpected event %+v", got)
	}
	if got.Source.MessageIndex != 3 || got.Source.SwipeIndex != 1 {
		t.Fatalf("unexpected source %+v", got.Source)
	}
	if !got.Timestamp.Equal(in.Timestamp) {
		t.Fatalf("expected timestamp %v, got %v", in.Timestamp, got.Timestamp)
	}

	var payload event.CharacterAppearedPayload
	if err := json.Unmarshal(got.PayloadJSON, &payload); err != nil {
		t.Fatalf("unmarshal stored payload: %v", err)
	}
	if payload.Name != "Alice" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestAppendEventSequencesPerConversation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.AppendEvent(ctx, appearedEvent(t, "evt-1", "Alice", 0, 0))
	if err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}

	other := appearedEvent(t, "evt-2", "Bram", 0, 0)
	other.ConversationID = "conv-2"
	second, err := s.AppendEvent(ctx, other)
	if err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}

	if first.Seq != 1 || second.Seq != 1 {
		t.Fatalf("expected independent sequences, got %d and %d", first.Seq, second.Seq)
	}
}

func TestAppendEventRejectsInvalid(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	evt := appearedEvent(t, "evt-1", "Alice", 0, 0)
	evt.PayloadJSON = []byte(`{"name": ""}`)
	if _, err := s.AppendEvent(ctx, evt); apperrors.CodeOf(err) != apperrors.CodeEventInvalidPayload {
		t.Fatalf("expected invalid payload rejection, got %v", err)
	}

	latest, err := s.GetLatestSeq(ctx, conversationID)
	if err != nil {
		t.Fatalf("GetLatestSeq: %v", err)
	}
	if latest != 0 {
		t.Fatalf("rejected event must not consume a sequence, latest = %d", latest)
	}
}

func TestSoftDeleteAndActiveReads(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.AppendEvent(ctx, appearedEvent(t, "evt-1", "Alice", 0, 0)); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if _, err := s.AppendEvent(ctx, appearedEvent(t, "evt-2", "Bram", 1, 0)); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}

	if err := s.SoftDeleteEvent(ctx, conversationID, "evt-1"); err != nil {
		t.Fatalf("SoftDeleteEvent: %v", err)
	}
	// Idempotent: deleting again or deleting an unknown id is a no-op.
	if err := s.SoftDeleteEvent(ctx, conversationID, "evt-1"); err != nil {
		t.Fatalf("repeat SoftDeleteEvent: %v", err)
	}
	if err := s.SoftDeleteEvent(ctx, conversationID, "evt-missing"); err != nil {
		t.Fatalf("unknown id SoftDeleteEvent: %v", err)
	}

	active, err := s.ListActiveEvents(ctx, conversationID, 0)
	if err != nil {
		t.Fatalf("ListActiveEvents: %v", err)
	}
	if len(active) != 1 || active[0].ID != "evt-2" {
		t.Fatalf("expected only evt-2 active, got %v", active)
	}

	all, err := s.ListEvents(ctx, conversationID, 0, 10)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("tombstoned rows must remain stored, got %d", len(all))
	}
}

func TestSwipeSelection(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.AppendEvent(ctx, appearedEvent(t, "evt-1", "Alice", 5, 0)); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if _, err := s.AppendEvent(ctx, appearedEvent(t, "evt-2", "Bram", 5, 1)); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}

	active, err := s.ListActiveEvents(ctx, conversationID, 0)
	if err != nil {
		t.Fatalf("ListActiveEvents: %v", err)
	}
	if len(active) != 1 || active[0].ID != "evt-1" {
		t.Fatalf("expected default swipe 0, got %v", active)
	}

	if err := s.SelectSwipe(ctx, conversationID, 5, 1); err != nil {
		t.Fatalf("SelectSwipe: %v", err)
	}
	active, err = s.ListActiveEvents(ctx, conversationID, 0)
	if err != nil {
		t.Fatalf("ListActiveEvents: %v", err)
	}
	if len(active) != 1 || active[0].ID != "evt-2" {
		t.Fatalf("expected swipe 1 branch, got %v", active)
	}
}

func TestListActiveEventsCutoff(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		if _, err := s.AppendEvent(ctx, appearedEvent(t, fmt.Sprintf("evt-%d", i), "Alice", i, 0)); err != nil {
			t.Fatalf("AppendEvent: %v", err)
		}
	}

	active, err := s.ListActiveEvents(ctx, conversationID, 2)
	if err != nil {
		t.Fatalf("ListActiveEvents: %v", err)
	}
	if len(active) != 2 || active[1].Seq != 2 {
		t.Fatalf("expected cutoff at seq 2, got %v", active)
	}
}

func TestGetEventBySeqNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetEventBySeq(context.Background(), conversationID, 1); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVerifyLog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		if _, err := s.AppendEvent(ctx, appearedEvent(t, fmt.Sprintf("evt-%d", i), "Alice", i, 0)); err != nil {
			t.Fatalf("AppendEvent: %v", err)
		}
	}
	if err := s.VerifyLog(ctx, conversationID); err != nil {
		t.Fatalf("VerifyLog: %v", err)
	}
}
