package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/YC815/chicken-game-backend/internal/game"
)

// Room is the aggregate root; state_version is the monotonic counter polled
// by clients.
type Room struct {
	ID           string
	Code         string
	Status       game.RoomStatus
	CurrentRound int
	StateVersion int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const roomColumns = `id, code, status, current_round, state_version, created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }) (*Room, error) {
	var r Room
	err := row.Scan(&r.ID, &r.Code, &r.Status, &r.CurrentRound, &r.StateVersion, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRoom inserts a new room in WAITING with state_version 1.
func (q *Queries) CreateRoom(ctx context.Context, id, code string) (*Room, error) {
	now := time.Now().UTC()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO rooms (id, code, status, current_round, state_version, created_at, updated_at)
		 VALUES (?, ?, ?, 0, 1, ?, ?)`,
		id, code, game.RoomWaiting, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert room: %w", err)
	}
	return &Room{ID: id, Code: code, Status: game.RoomWaiting, StateVersion: 1, CreatedAt: now, UpdatedAt: now}, nil
}

// GetRoom fetches a room by id.
func (q *Queries) GetRoom(ctx context.Context, id string) (*Room, error) {
	room, err := scanRoom(q.db.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrRoomNotFound
	}
	return room, err
}

// GetRoomByCode fetches a room by its 6-character join code.
func (q *Queries) GetRoomByCode(ctx context.Context, code string) (*Room, error) {
	room, err := scanRoom(q.db.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE code = ?`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrRoomNotFound
	}
	return room, err
}

// RoomCodeExists reports whether a room already uses the code.
func (q *Queries) RoomCodeExists(ctx context.Context, code string) (bool, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms WHERE code = ?`, code).Scan(&n)
	return n > 0, err
}

// SetRoomStatus updates the room lifecycle status.
func (q *Queries) SetRoomStatus(ctx context.Context, id string, status game.RoomStatus) error {
	_, err := q.db.ExecContext(ctx, `UPDATE rooms SET status = ? WHERE id = ?`, status, id)
	return err
}

// SetCurrentRound updates the room's current round number.
func (q *Queries) SetCurrentRound(ctx context.Context, id string, n int) error {
	_, err := q.db.ExecContext(ctx, `UPDATE rooms SET current_round = ? WHERE id = ?`, n, id)
	return err
}

// BumpStateVersion is the sole entry point for advancing state_version. It
// also refreshes updated_at, which the janitor uses as the idle clock.
func (q *Queries) BumpStateVersion(ctx context.Context, id string) (int64, error) {
	_, err := q.db.ExecContext(ctx,
		`UPDATE rooms SET state_version = state_version + 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return 0, fmt.Errorf("bump state_version: %w", err)
	}
	var v int64
	if err := q.db.QueryRowContext(ctx, `SELECT state_version FROM rooms WHERE id = ?`, id).Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}

// DeleteRoom removes the room; foreign keys cascade to all descendants.
func (q *Queries) DeleteRoom(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return game.ErrRoomNotFound
	}
	return nil
}

// ListRooms returns rooms ordered by updated_at descending, optionally
// filtered by status, with the total count matching the filter.
func (q *Queries) ListRooms(ctx context.Context, status game.RoomStatus, limit, offset int) ([]*Room, int, error) {
	where, args := "", []any{}
	if status != "" {
		where = " WHERE status = ?"
		args = append(args, status)
	}

	var total int
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := q.db.QueryContext(ctx,
		`SELECT `+roomColumns+` FROM rooms`+where+` ORDER BY updated_at DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rooms []*Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, 0, err
		}
		rooms = append(rooms, r)
	}
	return rooms, total, rows.Err()
}

// ListStaleRooms returns rooms in any of the given statuses not updated
// since the cutoff.
func (q *Queries) ListStaleRooms(ctx context.Context, statuses []game.RoomStatus, cutoff time.Time) ([]*Room, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE updated_at < ? AND status IN (?` +
		repeatPlaceholder(len(statuses)-1) + `)`
	args := []any{cutoff}
	for _, s := range statuses {
		args = append(args, s)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

func repeatPlaceholder(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += ", ?"
	}
	return s
}
