package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/YC815/chicken-game-backend/internal/game"
	"github.com/YC815/chicken-game-backend/internal/store"
)

type env struct {
	store      *store.Store
	rooms      *RoomManager
	rounds     *RoundManager
	messages   *MessageService
	indicators *IndicatorService
	snapshot   *SnapshotBuilder
}

func newEnv(t *testing.T) *env {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &env{
		store:      s,
		rooms:      NewRoomManager(s, log),
		rounds:     NewRoundManager(s, log),
		messages:   NewMessageService(s, log),
		indicators: NewIndicatorService(s, log),
		snapshot:   NewSnapshotBuilder(s),
	}
}

// startedRoom creates a room, joins n players and starts the game. It returns
// the room id and the joined player ids in join order.
func (e *env) startedRoom(t *testing.T, n int) (string, []string) {
	t.Helper()
	ctx := context.Background()

	room, _, err := e.rooms.Create(ctx)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	players := make([]string, 0, n)
	for i := 0; i < n; i++ {
		p, err := e.rooms.Join(ctx, room.Code, fmt.Sprintf("Player%d", i+1))
		if err != nil {
			t.Fatalf("Join failed: %v", err)
		}
		players = append(players, p.ID)
	}
	if err := e.rooms.Start(ctx, room.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return room.ID, players
}

// completeRound submits TURN for every player, publishes, and leaves the
// round completed.
func (e *env) completeRound(t *testing.T, roomID string, number int, players []string) {
	t.Helper()
	ctx := context.Background()
	for _, id := range players {
		if err := e.rounds.SubmitAction(ctx, roomID, number, id, game.ChoiceTurn); err != nil {
			t.Fatalf("SubmitAction(round %d, %s) failed: %v", number, id, err)
		}
	}
	if err := e.rounds.Publish(ctx, roomID, number); err != nil {
		t.Fatalf("Publish(round %d) failed: %v", number, err)
	}
}

// advanceTo plays completed rounds until the room's current round is target.
func (e *env) advanceTo(t *testing.T, roomID string, target int, players []string) {
	t.Helper()
	ctx := context.Background()
	for {
		room, err := e.store.GetRoom(ctx, roomID)
		if err != nil {
			t.Fatalf("GetRoom failed: %v", err)
		}
		if room.CurrentRound >= target {
			return
		}
		e.completeRound(t, roomID, room.CurrentRound, players)
		if _, err := e.rooms.NextRound(ctx, roomID); err != nil {
			t.Fatalf("NextRound failed: %v", err)
		}
	}
}

func (e *env) stateVersion(t *testing.T, roomID string) int64 {
	t.Helper()
	room, err := e.store.GetRoom(context.Background(), roomID)
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	return room.StateVersion
}
