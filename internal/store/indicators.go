package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/YC815/chicken-game-backend/internal/game"
)

// Indicator is the emoji identity symbol assigned once per player.
type Indicator struct {
	ID       string
	RoomID   string
	PlayerID string
	Symbol   string
}

// CreateIndicator inserts one indicator row; player_id is unique so a player
// can never hold two symbols.
func (q *Queries) CreateIndicator(ctx context.Context, id, roomID, playerID, symbol string) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO indicators (id, room_id, player_id, symbol) VALUES (?, ?, ?, ?)`,
		id, roomID, playerID, symbol,
	)
	if err != nil {
		return fmt.Errorf("insert indicator: %w", err)
	}
	return nil
}

// GetIndicatorByPlayer returns the player's symbol.
func (q *Queries) GetIndicatorByPlayer(ctx context.Context, playerID string) (*Indicator, error) {
	var ind Indicator
	err := q.db.QueryRowContext(ctx,
		`SELECT id, room_id, player_id, symbol FROM indicators WHERE player_id = ?`, playerID,
	).Scan(&ind.ID, &ind.RoomID, &ind.PlayerID, &ind.Symbol)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrNoIndicator
	}
	if err != nil {
		return nil, err
	}
	return &ind, nil
}

// CountIndicatorsByRoom reports how many indicators exist for a room.
func (q *Queries) CountIndicatorsByRoom(ctx context.Context, roomID string) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM indicators WHERE room_id = ?`, roomID).Scan(&n)
	return n, err
}
