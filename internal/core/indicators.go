package core

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/YC815/chicken-game-backend/internal/game"
	"github.com/YC815/chicken-game-backend/internal/store"
)

// IndicatorService assigns the post-round-6 identity emoji, once per room.
type IndicatorService struct {
	store *store.Store
	log   *slog.Logger
}

// NewIndicatorService creates an IndicatorService.
func NewIndicatorService(s *store.Store, log *slog.Logger) *IndicatorService {
	return &IndicatorService{store: s, log: log}
}

// Assign gives every non-host player a symbol from the whitelist, as evenly
// balanced as possible, in one atomic batch. Allowed only from round 6
// onward and only once per room. Rounds 7-10 that already exist switch to
// the INDICATOR display phase.
func (s *IndicatorService) Assign(ctx context.Context, roomID string) error {
	return s.store.WithTx(ctx, func(q *store.Queries) error {
		room, err := q.GetRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if room.CurrentRound < 6 {
			return game.ErrIndicatorsTooEarly
		}
		existing, err := q.CountIndicatorsByRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if existing > 0 {
			return game.ErrIndicatorsAssigned
		}

		players, err := q.ListActivePlayers(ctx, roomID)
		if err != nil {
			return err
		}
		ids := make([]string, len(players))
		for i, p := range players {
			ids[i] = p.ID
		}
		for playerID, symbol := range game.DistributeIndicators(ids) {
			if err := q.CreateIndicator(ctx, uuid.NewString(), roomID, playerID, symbol); err != nil {
				return err
			}
		}

		for n := 7; n <= game.MaxRounds; n++ {
			round, err := q.GetRoundByNumber(ctx, roomID, n)
			if errors.Is(err, game.ErrRoundNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if err := q.SetRoundPhase(ctx, round.ID, game.PhaseIndicator); err != nil {
				return err
			}
		}

		if err := q.AppendEvent(ctx, roomID, EventIndicatorsAssigned, map[string]any{
			"player_count": len(players),
		}); err != nil {
			return err
		}
		if _, err := q.BumpStateVersion(ctx, roomID); err != nil {
			return err
		}
		s.log.Info("indicators assigned", "room_id", roomID, "player_count", len(players))
		return nil
	})
}

// Get returns the symbol assigned to a player.
func (s *IndicatorService) Get(ctx context.Context, playerID string) (string, error) {
	ind, err := s.store.GetIndicatorByPlayer(ctx, playerID)
	if err != nil {
		return "", err
	}
	return ind.Symbol, nil
}

// Assigned reports whether the room's indicators exist.
func (s *IndicatorService) Assigned(ctx context.Context, roomID string) (bool, error) {
	n, err := s.store.CountIndicatorsByRoom(ctx, roomID)
	return n > 0, err
}
