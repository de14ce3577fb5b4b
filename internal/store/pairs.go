package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/YC815/chicken-game-backend/internal/game"
)

// Pair schedules two non-host players against each other for one round.
type Pair struct {
	ID        string
	RoomID    string
	RoundID   string
	Player1ID string
	Player2ID string
}

// CreatePair inserts a pair bound to a round.
func (q *Queries) CreatePair(ctx context.Context, id, roomID, roundID, player1ID, player2ID string) (*Pair, error) {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO pairs (id, room_id, round_id, player1_id, player2_id)
		 VALUES (?, ?, ?, ?, ?)`,
		id, roomID, roundID, player1ID, player2ID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert pair: %w", err)
	}
	return &Pair{ID: id, RoomID: roomID, RoundID: roundID, Player1ID: player1ID, Player2ID: player2ID}, nil
}

// ListPairsByRound returns every pair of a round.
func (q *Queries) ListPairsByRound(ctx context.Context, roundID string) ([]*Pair, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, room_id, round_id, player1_id, player2_id FROM pairs WHERE round_id = ?`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []*Pair
	for rows.Next() {
		var p Pair
		if err := rows.Scan(&p.ID, &p.RoomID, &p.RoundID, &p.Player1ID, &p.Player2ID); err != nil {
			return nil, err
		}
		pairs = append(pairs, &p)
	}
	return pairs, rows.Err()
}

// GetPairForPlayer returns the pair containing the player in a round.
func (q *Queries) GetPairForPlayer(ctx context.Context, roundID, playerID string) (*Pair, error) {
	var p Pair
	err := q.db.QueryRowContext(ctx,
		`SELECT id, room_id, round_id, player1_id, player2_id FROM pairs
		 WHERE round_id = ? AND (player1_id = ? OR player2_id = ?)`,
		roundID, playerID, playerID,
	).Scan(&p.ID, &p.RoomID, &p.RoundID, &p.Player1ID, &p.Player2ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrPairNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Opponent returns the other member of the pair.
func (p *Pair) Opponent(playerID string) string {
	if p.Player1ID == playerID {
		return p.Player2ID
	}
	return p.Player1ID
}
