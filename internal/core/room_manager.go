// Package core implements the room orchestration and round state machine on
// top of the store. Every mutating operation runs in one write transaction
// and bumps the room's state_version exactly once.
package core

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/YC815/chicken-game-backend/internal/game"
	"github.com/YC815/chicken-game-backend/internal/store"
)

// Event types recorded in the audit log.
const (
	EventRoomCreated        = "ROOM_CREATED"
	EventRoomStateChanged   = "ROOM_STATE_CHANGED"
	EventGameStarted        = "GAME_STARTED"
	EventGameEnded          = "GAME_ENDED"
	EventRoundCreated       = "ROUND_CREATED"
	EventRoundCalculated    = "ROUND_CALCULATED"
	EventRoundPublished     = "ROUND_PUBLISHED"
	EventRoundSkipped       = "ROUND_SKIPPED"
	EventPlayerJoined       = "PLAYER_JOINED"
	EventMessageSent        = "MESSAGE_SENT"
	EventIndicatorsAssigned = "INDICATORS_ASSIGNED"
)

const roomCodeLength = 6

// RoomManager owns the room lifecycle: create, join, start, next, end,
// delete.
type RoomManager struct {
	store *store.Store
	log   *slog.Logger
}

// NewRoomManager creates a RoomManager.
func NewRoomManager(s *store.Store, log *slog.Logger) *RoomManager {
	return &RoomManager{store: s, log: log}
}

// generateRoomCode returns a random 6-character uppercase alphanumeric code.
func generateRoomCode() string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, roomCodeLength)
	rand.Read(b)
	for i := range b {
		b[i] = chars[b[i]%byte(len(chars))]
	}
	return string(b)
}

// Create builds a new room with a unique code and its host player.
func (m *RoomManager) Create(ctx context.Context) (*store.Room, *store.Player, error) {
	var (
		room *store.Room
		host *store.Player
	)
	err := m.store.WithTx(ctx, func(q *store.Queries) error {
		code := generateRoomCode()
		for {
			exists, err := q.RoomCodeExists(ctx, code)
			if err != nil {
				return err
			}
			if !exists {
				break
			}
			m.log.Warn("room code collision, regenerating", "code", code)
			code = generateRoomCode()
		}

		var err error
		room, err = q.CreateRoom(ctx, uuid.NewString(), code)
		if err != nil {
			return err
		}
		host, err = q.CreatePlayer(ctx, uuid.NewString(), room.ID, "Host", "Host", true)
		if err != nil {
			return err
		}
		return q.AppendEvent(ctx, room.ID, EventRoomCreated, map[string]any{"code": code})
	})
	if err != nil {
		return nil, nil, err
	}
	m.log.Info("room created", "room_id", room.ID, "code", room.Code)
	return room, host, nil
}

// Join adds a player to a WAITING room. The display name is the nickname as
// given, trimmed.
func (m *RoomManager) Join(ctx context.Context, code, nickname string) (*store.Player, error) {
	nickname = strings.TrimSpace(nickname)
	if n := utf8.RuneCountInString(nickname); n < 1 || n > 50 {
		return nil, game.ErrInvalidNickname
	}

	var player *store.Player
	err := m.store.WithTx(ctx, func(q *store.Queries) error {
		room, err := q.GetRoomByCode(ctx, code)
		if err != nil {
			return err
		}
		if room.Status != game.RoomWaiting {
			return fmt.Errorf("%w: room %s is %s", game.ErrRoomNotAccepting, code, room.Status)
		}
		player, err = q.CreatePlayer(ctx, uuid.NewString(), room.ID, nickname, nickname, false)
		if err != nil {
			return err
		}
		if err := q.AppendEvent(ctx, room.ID, EventPlayerJoined, map[string]any{"player_id": player.ID}); err != nil {
			return err
		}
		_, err = q.BumpStateVersion(ctx, room.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	m.log.Info("player joined", "player_id", player.ID, "nickname", nickname)
	return player, nil
}

// Start transitions the room WAITING -> PLAYING and atomically creates
// Round 1 with its pairings. Fails unless the non-host count is even and at
// least 2.
func (m *RoomManager) Start(ctx context.Context, roomID string) error {
	err := m.store.WithTx(ctx, func(q *store.Queries) error {
		room, err := q.GetRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if err := game.CheckRoomTransition(room.Status, game.RoomPlaying); err != nil {
			return err
		}

		players, err := q.ListActivePlayers(ctx, roomID)
		if err != nil {
			return err
		}
		ids := make([]string, len(players))
		for i, p := range players {
			ids[i] = p.ID
		}
		pairings, err := game.BuildPairings(ids)
		if err != nil {
			return err
		}

		if err := q.SetRoomStatus(ctx, roomID, game.RoomPlaying); err != nil {
			return err
		}
		if err := q.AppendEvent(ctx, roomID, EventRoomStateChanged, map[string]any{
			"from": string(game.RoomWaiting), "to": string(game.RoomPlaying),
		}); err != nil {
			return err
		}
		if err := q.AppendEvent(ctx, roomID, EventGameStarted, map[string]any{"player_count": len(players)}); err != nil {
			return err
		}

		round, err := q.CreateRound(ctx, uuid.NewString(), roomID, 1, game.PhaseForRound(1))
		if err != nil {
			return err
		}
		for _, p := range pairings {
			if _, err := q.CreatePair(ctx, uuid.NewString(), roomID, round.ID, p.Player1, p.Player2); err != nil {
				return err
			}
		}
		if err := q.SetCurrentRound(ctx, roomID, 1); err != nil {
			return err
		}
		if err := q.AppendEvent(ctx, roomID, EventRoundCreated, map[string]any{
			"round_id": round.ID, "round_number": 1, "phase": string(round.Phase),
		}); err != nil {
			return err
		}
		_, err = q.BumpStateVersion(ctx, roomID)
		return err
	})
	if err != nil {
		return err
	}
	m.log.Info("game started", "room_id", roomID)
	return nil
}

// NextRound advances to round current_round+1, replicating Round 1's
// pairings. A retry that arrives after the advance succeeds idempotently: if
// the current round has no submissions yet, its number is returned as-is.
func (m *RoomManager) NextRound(ctx context.Context, roomID string) (int, error) {
	var roundNumber int
	err := m.store.WithTx(ctx, func(q *store.Queries) error {
		room, err := q.GetRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if room.Status != game.RoomPlaying {
			return fmt.Errorf("%w: room is %s", game.ErrInvalidTransition, room.Status)
		}
		if room.CurrentRound == 0 {
			return game.ErrNoActiveRound
		}

		current, err := q.GetRoundByNumber(ctx, roomID, room.CurrentRound)
		if err != nil {
			return err
		}
		if current.Status != game.RoundCompleted {
			// Retry after a successful advance: the new round exists and
			// nobody has acted in it yet.
			submitted, err := q.CountActionsByRound(ctx, current.ID)
			if err != nil {
				return err
			}
			if current.Status == game.RoundWaitingActions && submitted == 0 {
				roundNumber = current.RoundNumber
				return nil
			}
			return fmt.Errorf("%w: round %d is %s", game.ErrInvalidTransition, current.RoundNumber, current.Status)
		}
		if room.CurrentRound >= game.MaxRounds {
			return game.ErrMaxRoundsReached
		}

		next := room.CurrentRound + 1
		phase := game.PhaseForRound(next)
		if next >= 7 {
			// Rounds 7-10 display as INDICATOR once indicators exist.
			assigned, err := q.CountIndicatorsByRoom(ctx, roomID)
			if err != nil {
				return err
			}
			if assigned > 0 {
				phase = game.PhaseIndicator
			}
		}
		round, err := q.CreateRound(ctx, uuid.NewString(), roomID, next, phase)
		if err != nil {
			return err
		}

		first, err := q.GetRoundByNumber(ctx, roomID, 1)
		if err != nil {
			return err
		}
		pairs, err := q.ListPairsByRound(ctx, first.ID)
		if err != nil {
			return err
		}
		for _, p := range pairs {
			if _, err := q.CreatePair(ctx, uuid.NewString(), roomID, round.ID, p.Player1ID, p.Player2ID); err != nil {
				return err
			}
		}

		if err := q.SetCurrentRound(ctx, roomID, next); err != nil {
			return err
		}
		if err := q.AppendEvent(ctx, roomID, EventRoundCreated, map[string]any{
			"round_id": round.ID, "round_number": next, "phase": string(round.Phase),
		}); err != nil {
			return err
		}
		if _, err := q.BumpStateVersion(ctx, roomID); err != nil {
			return err
		}
		roundNumber = next
		return nil
	})
	if err != nil {
		return 0, err
	}
	m.log.Info("round advanced", "room_id", roomID, "round_number", roundNumber)
	return roundNumber, nil
}

// End transitions the room PLAYING -> FINISHED.
func (m *RoomManager) End(ctx context.Context, roomID string) error {
	err := m.store.WithTx(ctx, func(q *store.Queries) error {
		room, err := q.GetRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if err := game.CheckRoomTransition(room.Status, game.RoomFinished); err != nil {
			return err
		}
		if err := q.SetRoomStatus(ctx, roomID, game.RoomFinished); err != nil {
			return err
		}
		if err := q.AppendEvent(ctx, roomID, EventRoomStateChanged, map[string]any{
			"from": string(room.Status), "to": string(game.RoomFinished),
		}); err != nil {
			return err
		}
		if err := q.AppendEvent(ctx, roomID, EventGameEnded, nil); err != nil {
			return err
		}
		_, err = q.BumpStateVersion(ctx, roomID)
		return err
	})
	if err != nil {
		return err
	}
	m.log.Info("game ended", "room_id", roomID)
	return nil
}

// Delete removes the room and, via cascade, all its descendants.
func (m *RoomManager) Delete(ctx context.Context, roomID string) error {
	err := m.store.WithTx(ctx, func(q *store.Queries) error {
		return q.DeleteRoom(ctx, roomID)
	})
	if err != nil {
		return err
	}
	m.log.Info("room deleted", "room_id", roomID)
	return nil
}

// RoomByCode returns the room with its non-host player count.
func (m *RoomManager) RoomByCode(ctx context.Context, code string) (*store.Room, int, error) {
	room, err := m.store.GetRoomByCode(ctx, code)
	if err != nil {
		return nil, 0, err
	}
	count, err := m.store.CountActivePlayers(ctx, room.ID)
	if err != nil {
		return nil, 0, err
	}
	return room, count, nil
}

// RoomPage is one page of the admin room listing.
type RoomPage struct {
	Rooms  []RoomListing
	Total  int
	Limit  int
	Offset int
}

// RoomListing is one row of the listing.
type RoomListing struct {
	Room        *store.Room
	PlayerCount int
}

// List returns rooms ordered by most recently updated, optionally filtered
// by status.
func (m *RoomManager) List(ctx context.Context, status game.RoomStatus, limit, offset int) (*RoomPage, error) {
	rooms, total, err := m.store.ListRooms(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	page := &RoomPage{Total: total, Limit: limit, Offset: offset}
	for _, r := range rooms {
		count, err := m.store.CountActivePlayers(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		page.Rooms = append(page.Rooms, RoomListing{Room: r, PlayerCount: count})
	}
	return page, nil
}

// Events returns up to 100 audit events with id greater than afterID.
func (m *RoomManager) Events(ctx context.Context, roomID string, afterID int64) ([]*store.Event, error) {
	const maxEvents = 100
	if _, err := m.store.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	return m.store.ListEventsSince(ctx, roomID, afterID, maxEvents)
}
