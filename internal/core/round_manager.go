package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/YC815/chicken-game-backend/internal/game"
	"github.com/YC815/chicken-game-backend/internal/store"
)

// RoundManager is the concurrency core: action submission, finalization,
// publication and skip. "Any submitter attempts finalize under the write
// transaction" replaces the fragile "last submitter triggers calculation"
// pattern — the transaction plus the status guard make finalization
// once-only, no matter who lands last.
type RoundManager struct {
	store *store.Store
	log   *slog.Logger
}

// NewRoundManager creates a RoundManager.
func NewRoundManager(s *store.Store, log *slog.Logger) *RoundManager {
	return &RoundManager{store: s, log: log}
}

// SubmitAction records a player's choice for a round. The operation is
// idempotent: a repeated submission returns success without a version bump,
// and a conflicting duplicate keeps the stored choice (duplicate retries are
// normal network behavior, not errors). When the submission completes the
// round, finalization runs inside the same transaction.
func (m *RoundManager) SubmitAction(ctx context.Context, roomID string, roundNumber int, playerID string, choice game.Choice) error {
	return m.store.WithTx(ctx, func(q *store.Queries) error {
		room, err := q.GetRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if room.Status != game.RoomPlaying {
			return fmt.Errorf("%w: room is %s", game.ErrInvalidTransition, room.Status)
		}

		round, err := q.GetRoundByNumber(ctx, roomID, roundNumber)
		if err != nil {
			return err
		}
		if round.Status == game.RoundCompleted {
			return fmt.Errorf("%w: round %d is already completed", game.ErrInvalidTransition, roundNumber)
		}

		player, err := q.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if player.RoomID != roomID || player.IsHost {
			return game.ErrNotParticipant
		}
		if _, err := q.GetPairForPlayer(ctx, round.ID, playerID); err != nil {
			return game.ErrNotParticipant
		}

		existing, err := q.GetAction(ctx, round.ID, playerID)
		if err != nil {
			return err
		}
		if existing != nil {
			// Duplicate retry. The stored choice wins even if it differs.
			m.log.Info("duplicate action submission", "round_id", round.ID, "player_id", playerID)
			return nil
		}

		if _, err := q.CreateAction(ctx, uuid.NewString(), roomID, round.ID, playerID, choice); err != nil {
			return err
		}

		total, err := q.CountActivePlayers(ctx, roomID)
		if err != nil {
			return err
		}
		submitted, err := q.CountActionsByRound(ctx, round.ID)
		if err != nil {
			return err
		}
		if submitted == total {
			if err := m.finalize(ctx, q, round); err != nil {
				return err
			}
		}
		_, err = q.BumpStateVersion(ctx, roomID)
		return err
	})
}

// finalize computes and stores payoffs for every pair and moves the round to
// ready_to_publish. It is a no-op unless the round is still waiting_actions
// with every action in, so repeated attempts cannot double-calculate. Runs
// inside the caller's transaction; the caller bumps the version.
func (m *RoundManager) finalize(ctx context.Context, q *store.Queries, round *store.Round) error {
	if round.Status != game.RoundWaitingActions {
		return nil
	}
	total, err := q.CountActivePlayers(ctx, round.RoomID)
	if err != nil {
		return err
	}
	submitted, err := q.CountActionsByRound(ctx, round.ID)
	if err != nil {
		return err
	}
	if submitted < total {
		return nil
	}

	if err := m.computePayoffs(ctx, q, round); err != nil {
		return err
	}
	if err := game.CheckRoundTransition(round.Status, game.RoundReadyToPublish); err != nil {
		return err
	}
	if err := q.SetRoundStatus(ctx, round.ID, game.RoundReadyToPublish); err != nil {
		return err
	}
	round.Status = game.RoundReadyToPublish

	m.log.Info("round finalized", "round_id", round.ID, "round_number", round.RoundNumber)
	return q.AppendEvent(ctx, round.RoomID, EventRoundCalculated, map[string]any{
		"round_id": round.ID, "round_number": round.RoundNumber,
	})
}

// computePayoffs evaluates the payoff matrix for each pair and persists both
// sides onto their actions.
func (m *RoundManager) computePayoffs(ctx context.Context, q *store.Queries, round *store.Round) error {
	pairs, err := q.ListPairsByRound(ctx, round.ID)
	if err != nil {
		return err
	}
	for _, pair := range pairs {
		a1, err := q.GetAction(ctx, round.ID, pair.Player1ID)
		if err != nil {
			return err
		}
		a2, err := q.GetAction(ctx, round.ID, pair.Player2ID)
		if err != nil {
			return err
		}
		if a1 == nil || a2 == nil {
			return fmt.Errorf("finalize round %d: pair %s missing actions", round.RoundNumber, pair.ID)
		}
		p1, p2 := game.Payoffs(a1.Choice, a2.Choice)
		if err := q.SetActionPayoff(ctx, a1.ID, p1); err != nil {
			return err
		}
		if err := q.SetActionPayoff(ctx, a2.ID, p2); err != nil {
			return err
		}
	}
	return nil
}

// Publish moves a ready round to completed. Publishing an already-completed
// round is a successful no-op; publishing before finalization is an error.
func (m *RoundManager) Publish(ctx context.Context, roomID string, roundNumber int) error {
	return m.store.WithTx(ctx, func(q *store.Queries) error {
		round, err := q.GetRoundByNumber(ctx, roomID, roundNumber)
		if err != nil {
			return err
		}
		if round.Status == game.RoundCompleted {
			m.log.Info("round already published", "round_id", round.ID)
			return nil
		}
		if round.Status != game.RoundReadyToPublish {
			return fmt.Errorf("%w: cannot publish round in status %s", game.ErrInvalidTransition, round.Status)
		}
		if err := q.SetRoundStatus(ctx, round.ID, game.RoundCompleted); err != nil {
			return err
		}
		if err := q.AppendEvent(ctx, roomID, EventRoundPublished, map[string]any{
			"round_id": round.ID, "round_number": roundNumber,
		}); err != nil {
			return err
		}
		_, err = q.BumpStateVersion(ctx, roomID)
		m.log.Info("round published", "round_id", round.ID, "round_number", roundNumber)
		return err
	})
}

// Skip is the host's emergency exit: every participant without an action
// gets a default TURN, payoffs are computed, and the round goes straight to
// completed.
func (m *RoundManager) Skip(ctx context.Context, roomID string, roundNumber int) error {
	return m.store.WithTx(ctx, func(q *store.Queries) error {
		round, err := q.GetRoundByNumber(ctx, roomID, roundNumber)
		if err != nil {
			return err
		}
		if round.Status != game.RoundWaitingActions && round.Status != game.RoundReadyToPublish {
			return fmt.Errorf("%w: cannot skip round in status %s", game.ErrInvalidTransition, round.Status)
		}

		pairs, err := q.ListPairsByRound(ctx, round.ID)
		if err != nil {
			return err
		}
		for _, pair := range pairs {
			for _, playerID := range []string{pair.Player1ID, pair.Player2ID} {
				existing, err := q.GetAction(ctx, round.ID, playerID)
				if err != nil {
					return err
				}
				if existing == nil {
					m.log.Info("auto-submitting TURN", "round_id", round.ID, "player_id", playerID)
					if _, err := q.CreateAction(ctx, uuid.NewString(), roomID, round.ID, playerID, game.ChoiceTurn); err != nil {
						return err
					}
				}
			}
		}

		if round.Status == game.RoundWaitingActions {
			if err := m.computePayoffs(ctx, q, round); err != nil {
				return err
			}
		}
		if err := game.CheckRoundTransition(round.Status, game.RoundCompleted); err != nil {
			return err
		}
		if err := q.SetRoundStatus(ctx, round.ID, game.RoundCompleted); err != nil {
			return err
		}
		if err := q.AppendEvent(ctx, roomID, EventRoundSkipped, map[string]any{
			"round_id": round.ID, "round_number": roundNumber, "skipped": true,
		}); err != nil {
			return err
		}
		_, err = q.BumpStateVersion(ctx, roomID)
		m.log.Info("round skipped", "round_id", round.ID, "round_number", roundNumber)
		return err
	})
}

// Current returns the room's active round.
func (m *RoundManager) Current(ctx context.Context, roomID string) (*store.Round, error) {
	room, err := m.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.CurrentRound == 0 {
		return nil, game.ErrNoActiveRound
	}
	return m.store.GetRoundByNumber(ctx, roomID, room.CurrentRound)
}

// Opponent returns the player's opponent in a round.
func (m *RoundManager) Opponent(ctx context.Context, roomID string, roundNumber int, playerID string) (*store.Player, error) {
	round, err := m.store.GetRoundByNumber(ctx, roomID, roundNumber)
	if err != nil {
		return nil, err
	}
	pair, err := m.store.GetPairForPlayer(ctx, round.ID, playerID)
	if err != nil {
		return nil, err
	}
	return m.store.GetPlayer(ctx, pair.Opponent(playerID))
}

// RoundResult is a player's personalized view of a finished round.
type RoundResult struct {
	OpponentDisplayName string
	YourChoice          game.Choice
	OpponentChoice      game.Choice
	YourPayoff          int
	OpponentPayoff      int
}

// Result returns both sides of a pair's outcome. It is not available until
// finalization has stored the payoffs.
func (m *RoundManager) Result(ctx context.Context, roomID string, roundNumber int, playerID string) (*RoundResult, error) {
	round, err := m.store.GetRoundByNumber(ctx, roomID, roundNumber)
	if err != nil {
		return nil, err
	}
	yours, err := m.store.GetAction(ctx, round.ID, playerID)
	if err != nil {
		return nil, err
	}
	if yours == nil || yours.Payoff == nil {
		return nil, game.ErrResultNotReady
	}

	pair, err := m.store.GetPairForPlayer(ctx, round.ID, playerID)
	if err != nil {
		return nil, err
	}
	opponentID := pair.Opponent(playerID)
	opponent, err := m.store.GetPlayer(ctx, opponentID)
	if err != nil {
		return nil, err
	}
	theirs, err := m.store.GetAction(ctx, round.ID, opponentID)
	if err != nil {
		return nil, err
	}
	if theirs == nil || theirs.Payoff == nil {
		return nil, game.ErrResultNotReady
	}

	return &RoundResult{
		OpponentDisplayName: opponent.DisplayName,
		YourChoice:          yours.Choice,
		OpponentChoice:      theirs.Choice,
		YourPayoff:          *yours.Payoff,
		OpponentPayoff:      *theirs.Payoff,
	}, nil
}
