package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/YC815/chicken-game-backend/internal/game"
)

// Message is a one-shot note between paired players in rounds 5-6.
type Message struct {
	ID         string
	RoomID     string
	RoundID    string
	SenderID   string
	ReceiverID string
	Content    string
	CreatedAt  time.Time
}

const messageColumns = `id, room_id, round_id, sender_id, receiver_id, content, created_at`

func scanMessage(row interface{ Scan(...any) error }) (*Message, error) {
	var m Message
	err := row.Scan(&m.ID, &m.RoomID, &m.RoundID, &m.SenderID, &m.ReceiverID, &m.Content, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMessage inserts a message; the (round_id, sender_id) constraint
// enforces one message per sender per round.
func (q *Queries) CreateMessage(ctx context.Context, id, roomID, roundID, senderID, receiverID, content string) (*Message, error) {
	now := time.Now().UTC()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO messages (id, room_id, round_id, sender_id, receiver_id, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, roomID, roundID, senderID, receiverID, content, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return &Message{ID: id, RoomID: roomID, RoundID: roundID, SenderID: senderID, ReceiverID: receiverID, Content: content, CreatedAt: now}, nil
}

// GetMessageBySender returns the message a player sent in a round, or nil.
func (q *Queries) GetMessageBySender(ctx context.Context, roundID, senderID string) (*Message, error) {
	m, err := scanMessage(q.db.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE round_id = ? AND sender_id = ?`, roundID, senderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// GetMessageForReceiver returns the most recent message addressed to the
// player in a round.
func (q *Queries) GetMessageForReceiver(ctx context.Context, roundID, receiverID string) (*Message, error) {
	m, err := scanMessage(q.db.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM messages
		 WHERE round_id = ? AND receiver_id = ? ORDER BY created_at DESC LIMIT 1`, roundID, receiverID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrNoMessage
	}
	return m, err
}
