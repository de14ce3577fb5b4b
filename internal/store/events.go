package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Event is an append-only audit record. Clients that missed polls can
// catch up via "give me everything with id > X".
type Event struct {
	ID        int64
	RoomID    string
	Type      string
	Data      json.RawMessage
	CreatedAt time.Time
}

// AppendEvent records a business event for a room. A nil data map is stored
// as an empty object.
func (q *Queries) AppendEvent(ctx context.Context, roomID, eventType string, data map[string]any) error {
	payload := []byte("{}")
	if data != nil {
		var err error
		payload, err = json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal event data: %w", err)
		}
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO event_logs (room_id, event_type, data, created_at) VALUES (?, ?, ?, ?)`,
		roomID, eventType, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListEventsSince returns up to limit events with id > afterID, oldest first.
func (q *Queries) ListEventsSince(ctx context.Context, roomID string, afterID int64, limit int) ([]*Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, room_id, event_type, data, created_at FROM event_logs
		 WHERE room_id = ? AND id > ? ORDER BY id LIMIT ?`,
		roomID, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var e Event
		var data string
		if err := rows.Scan(&e.ID, &e.RoomID, &e.Type, &data, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Data = json.RawMessage(data)
		events = append(events, &e)
	}
	return events, rows.Err()
}
