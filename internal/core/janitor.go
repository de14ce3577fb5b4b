package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/YC815/chicken-game-backend/internal/game"
	"github.com/YC815/chicken-game-backend/internal/store"
)

// Janitor deletes stale rooms on a fixed interval so the database does not
// accumulate abandoned sessions.
type Janitor struct {
	store       *store.Store
	log         *slog.Logger
	interval    time.Duration
	finishedTTL time.Duration
	idleTTL     time.Duration
}

// NewJanitor creates a Janitor. finishedTTL applies to FINISHED rooms,
// idleTTL to WAITING and PLAYING rooms; both are measured against the
// room's updated_at.
func NewJanitor(s *store.Store, log *slog.Logger, interval, finishedTTL, idleTTL time.Duration) *Janitor {
	return &Janitor{store: s, log: log, interval: interval, finishedTTL: finishedTTL, idleTTL: idleTTL}
}

// Run sweeps on each tick until the context is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.log.Info("janitor stopped")
			return
		case <-ticker.C:
			if _, err := j.Sweep(ctx); err != nil {
				j.log.Error("cleanup sweep failed", "error", err)
			}
		}
	}
}

// Sweep deletes every room past its TTL and returns how many were removed.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	deleted := 0

	finished, err := j.store.ListStaleRooms(ctx, []game.RoomStatus{game.RoomFinished}, now.Add(-j.finishedTTL))
	if err != nil {
		return deleted, err
	}
	idle, err := j.store.ListStaleRooms(ctx, []game.RoomStatus{game.RoomWaiting, game.RoomPlaying}, now.Add(-j.idleTTL))
	if err != nil {
		return deleted, err
	}

	for _, room := range append(finished, idle...) {
		err := j.store.WithTx(ctx, func(q *store.Queries) error {
			return q.DeleteRoom(ctx, room.ID)
		})
		if err != nil {
			j.log.Error("failed to delete stale room", "room_id", room.ID, "error", err)
			continue
		}
		j.log.Info("deleted stale room", "room_id", room.ID, "code", room.Code, "status", room.Status)
		deleted++
	}
	return deleted, nil
}
