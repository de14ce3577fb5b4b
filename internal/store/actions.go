package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/YC815/chicken-game-backend/internal/game"
)

// Action is one player's submitted choice for a round. Payoff stays nil
// until the round is finalized and is never overwritten afterwards.
type Action struct {
	ID        string
	RoomID    string
	RoundID   string
	PlayerID  string
	Choice    game.Choice
	Payoff    *int
	CreatedAt time.Time
}

const actionColumns = `id, room_id, round_id, player_id, choice, payoff, created_at`

func scanAction(row interface{ Scan(...any) error }) (*Action, error) {
	var a Action
	var payoff sql.NullInt64
	err := row.Scan(&a.ID, &a.RoomID, &a.RoundID, &a.PlayerID, &a.Choice, &payoff, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if payoff.Valid {
		v := int(payoff.Int64)
		a.Payoff = &v
	}
	return &a, nil
}

// CreateAction inserts an action. The (round_id, player_id) unique constraint
// backs submission idempotency.
func (q *Queries) CreateAction(ctx context.Context, id, roomID, roundID, playerID string, choice game.Choice) (*Action, error) {
	now := time.Now().UTC()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO actions (id, room_id, round_id, player_id, choice, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, roomID, roundID, playerID, choice, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert action: %w", err)
	}
	return &Action{ID: id, RoomID: roomID, RoundID: roundID, PlayerID: playerID, Choice: choice, CreatedAt: now}, nil
}

// GetAction fetches the action a player submitted in a round, or nil when
// none exists yet.
func (q *Queries) GetAction(ctx context.Context, roundID, playerID string) (*Action, error) {
	a, err := scanAction(q.db.QueryRowContext(ctx,
		`SELECT `+actionColumns+` FROM actions WHERE round_id = ? AND player_id = ?`, roundID, playerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// ListActionsByRound returns every action submitted in a round.
func (q *Queries) ListActionsByRound(ctx context.Context, roundID string) ([]*Action, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+actionColumns+` FROM actions WHERE round_id = ?`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []*Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// CountActionsByRound returns the number of distinct submitted actions in a
// round (one per player by constraint).
func (q *Queries) CountActionsByRound(ctx context.Context, roundID string) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM actions WHERE round_id = ?`, roundID).Scan(&n)
	return n, err
}

// SetActionPayoff fills in the payoff computed during finalization.
func (q *Queries) SetActionPayoff(ctx context.Context, id string, payoff int) error {
	_, err := q.db.ExecContext(ctx, `UPDATE actions SET payoff = ? WHERE id = ?`, payoff, id)
	return err
}

// SumPayoffsByPlayer totals a player's published payoffs across all rounds.
func (q *Queries) SumPayoffsByPlayer(ctx context.Context, playerID string) (int, error) {
	var total sql.NullInt64
	err := q.db.QueryRowContext(ctx,
		`SELECT SUM(payoff) FROM actions WHERE player_id = ? AND payoff IS NOT NULL`, playerID).Scan(&total)
	return int(total.Int64), err
}

// RoomChoiceStats returns the total action count and how many of them were
// ACCELERATE, for the summary strategy ratios.
func (q *Queries) RoomChoiceStats(ctx context.Context, roomID string) (total, accelerate int, err error) {
	err = q.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN choice = ? THEN 1 ELSE 0 END), 0)
		 FROM actions WHERE room_id = ?`, game.ChoiceAccelerate, roomID).Scan(&total, &accelerate)
	return total, accelerate, err
}
