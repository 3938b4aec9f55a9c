package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/talekeeper/chronicle/internal/event"
	"github.com/talekeeper/chronicle/internal/storage"
)

const eventColumns = "conversation_id, seq, event_id, message_index, swipe_index, timestamp, kind, subkind, payload_json"

// AppendEvent atomically validates and appends an event, returning it with
// its sequence position assigned.
func (s *Store) AppendEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if s == nil || s.sqlDB == nil {
		return event.Event{}, fmt.Errorf("storage is not configured")
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

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return event.Event{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO event_seq (conversation_id, next_seq) VALUES (?, 1)",
		evt.ConversationID,
	); err != nil {
		return event.Event{}, fmt.Errorf("init event seq: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx,
		"SELECT next_seq FROM event_seq WHERE conversation_id = ?",
		evt.ConversationID,
	).Scan(&seq); err != nil {
		return event.Event{}, fmt.Errorf("get event seq: %w", err)
	}
	evt.Seq = uint64(seq)

	if _, err := tx.ExecContext(ctx,
		"UPDATE event_seq SET next_seq = next_seq + 1 WHERE conversation_id = ?",
		evt.ConversationID,
	); err != nil {
		return event.Event{}, fmt.Errorf("increment event seq: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO events ("+eventColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		evt.ConversationID,
		int64(evt.Seq),
		evt.ID,
		evt.Source.MessageIndex,
		evt.Source.SwipeIndex,
		toMillis(evt.Timestamp),
		string(evt.Kind),
		string(evt.Subkind),
		evt.PayloadJSON,
	); err != nil {
		return event.Event{}, fmt.Errorf("append event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return event.Event{}, fmt.Errorf("commit: %w", err)
	}

	return evt, nil
}

// SoftDeleteEvent records a tombstone for the event id. The stored event
// row is never touched; deleting an unknown id is a no-op.
func (s *Store) SoftDeleteEvent(ctx context.Context, conversationID, eventID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(eventID) == "" {
		return fmt.Errorf("event id is required")
	}

	var exists int
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT 1 FROM events WHERE conversation_id = ? AND event_id = ?",
		conversationID, eventID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup event: %w", err)
	}

	if _, err := s.sqlDB.ExecContext(ctx,
		"INSERT OR IGNORE INTO tombstones (event_id, deleted_at) VALUES (?, ?)",
		eventID, toMillis(time.Now()),
	); err != nil {
		return fmt.Errorf("record tombstone: %w", err)
	}
	return nil
}

// SelectSwipe records the active swipe for a message.
func (s *Store) SelectSwipe(ctx context.Context, conversationID string, messageIndex, swipeIndex int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(conversationID) == "" {
		return fmt.Errorf("conversation id is required")
	}
	if messageIndex < 0 || swipeIndex < 0 {
		return fmt.Errorf("swipe selection indices must not be negative")
	}

	if _, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO swipe_selections (conversation_id, message_index, swipe_index)
		 VALUES (?, ?, ?)
		 ON CONFLICT (conversation_id, message_index) DO UPDATE SET swipe_index = excluded.swipe_index`,
		conversationID, messageIndex, swipeIndex,
	); err != nil {
		return fmt.Errorf("select swipe: %w", err)
	}
	return nil
}

// ListActiveEvents returns non-deleted events on the active branch, in log
// order, at or before upToSeq (0 means no cutoff).
func (s *Store) ListActiveEvents(ctx context.Context, conversationID string, upToSeq uint64) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(conversationID) == "" {
		return nil, fmt.Errorf("conversation id is required")
	}

	query := `SELECT e.conversation_id, e.seq, e.event_id, e.message_index, e.swipe_index, e.timestamp, e.kind, e.subkind, e.payload_json
		FROM events e
		LEFT JOIN tombstones t ON t.event_id = e.event_id
		LEFT JOIN swipe_selections s ON s.conversation_id = e.conversation_id AND s.message_index = e.message_index
		WHERE e.conversation_id = ?
		  AND t.event_id IS NULL
		  AND e.swipe_index = COALESCE(s.swipe_index, 0)`
	args := []any{conversationID}
	if upToSeq > 0 {
		query += " AND e.seq <= ?"
		args = append(args, int64(upToSeq))
	}
	query += " ORDER BY e.seq ASC"

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListEvents returns events ordered by sequence ascending, including
// tombstoned ones.
func (s *Store) ListEvents(ctx context.Context, conversationID string, afterSeq uint64, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(conversationID) == "" {
		return nil, fmt.Errorf("conversation id is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE conversation_id = ? AND seq > ? ORDER BY seq ASC LIMIT ?",
		conversationID, int64(afterSeq), int64(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetEventBySeq retrieves a specific event by sequence position.
func (s *Store) GetEventBySeq(ctx context.Context, conversationID string, seq uint64) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if s == nil || s.sqlDB == nil {
		return event.Event{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(conversationID) == "" {
		return event.Event{}, fmt.Errorf("conversation id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE conversation_id = ? AND seq = ?",
		conversationID, int64(seq),
	)
	evt, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return event.Event{}, storage.ErrNotFound
	}
	if err != nil {
		return event.Event{}, fmt.Errorf("get event by seq: %w", err)
	}
	return evt, nil
}

// GetLatestSeq returns the newest sequence position for a conversation, or
// zero for an empty log.
func (s *Store) GetLatestSeq(ctx context.Context, conversationID string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(conversationID) == "" {
		return 0, fmt.Errorf("conversation id is required")
	}

	var seq sql.NullInt64
	if err := s.sqlDB.QueryRowContext(ctx,
		"SELECT MAX(seq) FROM events WHERE conversation_id = ?",
		conversationID,
	).Scan(&seq); err != nil {
		return 0, fmt.Errorf("get latest seq: %w", err)
	}
	if !seq.Valid {
		return 0, nil
	}
	return uint64(seq.Int64), nil
}

// VerifyLog checks that every stored event still passes registry validation
// and that sequence numbers are gapless.
func (s *Store) VerifyLog(ctx context.Context, conversationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	var lastSeq uint64
	for {
		events, err := s.ListEvents(ctx, conversationID, lastSeq, 200)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
		for _, evt := range events {
			if evt.Seq != lastSeq+1 {
				return fmt.Errorf("event sequence gap conversation_id=%s expected=%d got=%d", conversationID, lastSeq+1, evt.Seq)
			}
			if _, err := s.registry.ValidateForAppend(evt); err != nil {
				return fmt.Errorf("stored event seq=%d fails validation: %w", evt.Seq, err)
			}
			lastSeq = evt.Seq
		}
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (event.Event, error) {
	var (
		evt       event.Event
		seq       int64
		timestamp int64
		kind      string
		subkind   string
	)
	if err := row.Scan(
		&evt.ConversationID,
		&seq,
		&evt.ID,
		&evt.Source.MessageIndex,
		&evt.Source.SwipeIndex,
		&timestamp,
		&kind,
		&subkind,
		&evt.PayloadJSON,
	); err != nil {
		return event.Event{}, err
	}
	evt.Seq = uint64(seq)
	evt.Timestamp = fromMillis(timestamp)
	evt.Kind = event.Kind(kind)
	evt.Subkind = event.Subkind(subkind)
	return evt, nil
}

func scanEvents(rows *sql.Rows) ([]event.Event, error) {
	var events []event.Event
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
