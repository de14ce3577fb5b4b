package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/YC815/chicken-game-backend/internal/game"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenRunsMigrations(t *testing.T) {
	s := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	// The schema is in place when a basic insert works.
	if _, err := s.CreateRoom(context.Background(), "room-1", "AAAAAA"); err != nil {
		t.Fatalf("insert after migration failed: %v", err)
	}
}

func TestWithTx_RollbackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sentinel := errors.New("boom")
	err := s.WithTx(ctx, func(q *Queries) error {
		if _, err := q.CreateRoom(ctx, "room-1", "BBBBBB"); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("WithTx returned %v, want sentinel", err)
	}

	if _, err := s.GetRoom(ctx, "room-1"); !errors.Is(err, game.ErrRoomNotFound) {
		t.Fatalf("room visible after rollback: %v", err)
	}
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(q *Queries) error {
		_, err := q.CreateRoom(ctx, "room-1", "CCCCCC")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	room, err := s.GetRoom(ctx, "room-1")
	if err != nil {
		t.Fatalf("room not visible after commit: %v", err)
	}
	if room.Code != "CCCCCC" || room.Status != game.RoomWaiting || room.StateVersion != 1 {
		t.Errorf("unexpected room after commit: %+v", room)
	}
}
