package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/YC815/chicken-game-backend/internal/game"
)

// Player belongs to exactly one room. The host is stored as a player to
// unify membership queries but is excluded from pairing and payoffs.
type Player struct {
	ID          string
	RoomID      string
	Nickname    string
	DisplayName string
	IsHost      bool
	JoinedAt    time.Time
}

const playerColumns = `id, room_id, nickname, display_name, is_host, joined_at`

func scanPlayer(row interface{ Scan(...any) error }) (*Player, error) {
	var p Player
	err := row.Scan(&p.ID, &p.RoomID, &p.Nickname, &p.DisplayName, &p.IsHost, &p.JoinedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePlayer inserts a player into a room.
func (q *Queries) CreatePlayer(ctx context.Context, id, roomID, nickname, displayName string, isHost bool) (*Player, error) {
	now := time.Now().UTC()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO players (id, room_id, nickname, display_name, is_host, joined_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, roomID, nickname, displayName, isHost, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert player: %w", err)
	}
	return &Player{ID: id, RoomID: roomID, Nickname: nickname, DisplayName: displayName, IsHost: isHost, JoinedAt: now}, nil
}

// GetPlayer fetches a player by id.
func (q *Queries) GetPlayer(ctx context.Context, id string) (*Player, error) {
	p, err := scanPlayer(q.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrPlayerNotFound
	}
	return p, err
}

// ListPlayers returns all players in a room, host included, in join order.
func (q *Queries) ListPlayers(ctx context.Context, roomID string) ([]*Player, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE room_id = ? ORDER BY joined_at`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []*Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// ListActivePlayers returns the non-host players in a room.
func (q *Queries) ListActivePlayers(ctx context.Context, roomID string) ([]*Player, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE room_id = ? AND is_host = 0 ORDER BY joined_at`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []*Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// CountActivePlayers returns the number of non-host players in a room.
func (q *Queries) CountActivePlayers(ctx context.Context, roomID string) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM players WHERE room_id = ? AND is_host = 0`, roomID).Scan(&n)
	return n, err
}
