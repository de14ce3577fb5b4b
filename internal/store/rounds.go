package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/YC815/chicken-game-backend/internal/game"
)

// Round is one of the ten rounds of a game. EndedAt is set when the round is
// published or skipped.
type Round struct {
	ID          string
	RoomID      string
	RoundNumber int
	Phase       game.RoundPhase
	Status      game.RoundStatus
	StartedAt   time.Time
	EndedAt     *time.Time
}

const roundColumns = `id, room_id, round_number, phase, status, started_at, ended_at`

func scanRound(row interface{ Scan(...any) error }) (*Round, error) {
	var r Round
	var ended sql.NullTime
	err := row.Scan(&r.ID, &r.RoomID, &r.RoundNumber, &r.Phase, &r.Status, &r.StartedAt, &ended)
	if err != nil {
		return nil, err
	}
	if ended.Valid {
		r.EndedAt = &ended.Time
	}
	return &r, nil
}

// CreateRound inserts a round in waiting_actions.
func (q *Queries) CreateRound(ctx context.Context, id, roomID string, number int, phase game.RoundPhase) (*Round, error) {
	now := time.Now().UTC()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO rounds (id, room_id, round_number, phase, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, roomID, number, phase, game.RoundWaitingActions, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert round: %w", err)
	}
	return &Round{ID: id, RoomID: roomID, RoundNumber: number, Phase: phase, Status: game.RoundWaitingActions, StartedAt: now}, nil
}

// GetRoundByNumber fetches a round by (room, round_number).
func (q *Queries) GetRoundByNumber(ctx context.Context, roomID string, number int) (*Round, error) {
	r, err := scanRound(q.db.QueryRowContext(ctx,
		`SELECT `+roundColumns+` FROM rounds WHERE room_id = ? AND round_number = ?`, roomID, number))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrRoundNotFound
	}
	return r, err
}

// SetRoundStatus updates a round's status, stamping ended_at when the round
// completes.
func (q *Queries) SetRoundStatus(ctx context.Context, id string, status game.RoundStatus) error {
	if status == game.RoundCompleted {
		_, err := q.db.ExecContext(ctx,
			`UPDATE rounds SET status = ?, ended_at = ? WHERE id = ?`, status, time.Now().UTC(), id)
		return err
	}
	_, err := q.db.ExecContext(ctx, `UPDATE rounds SET status = ? WHERE id = ?`, status, id)
	return err
}

// SetRoundPhase updates the display phase of a round.
func (q *Queries) SetRoundPhase(ctx context.Context, id string, phase game.RoundPhase) error {
	_, err := q.db.ExecContext(ctx, `UPDATE rounds SET phase = ? WHERE id = ?`, phase, id)
	return err
}
