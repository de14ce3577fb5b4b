package core

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/YC815/chicken-game-backend/internal/game"
	"github.com/YC815/chicken-game-backend/internal/store"
)

// MessageService handles the one-shot notes players may pass to their
// opponent in rounds 5 and 6.
type MessageService struct {
	store *store.Store
	log   *slog.Logger
}

// NewMessageService creates a MessageService.
func NewMessageService(s *store.Store, log *slog.Logger) *MessageService {
	return &MessageService{store: s, log: log}
}

// Send stores a message from sender to their opponent for the round. The
// receiver is derived from the round's pairing; a second send in the same
// round is rejected.
func (m *MessageService) Send(ctx context.Context, roomID string, roundNumber int, senderID, content string) error {
	if !game.IsMessageRound(roundNumber) {
		return game.ErrMessageNotAllowed
	}
	content = strings.TrimSpace(content)
	if n := utf8.RuneCountInString(content); n < 1 || n > 100 {
		return game.ErrInvalidMessage
	}

	return m.store.WithTx(ctx, func(q *store.Queries) error {
		round, err := q.GetRoundByNumber(ctx, roomID, roundNumber)
		if err != nil {
			return err
		}
		pair, err := q.GetPairForPlayer(ctx, round.ID, senderID)
		if err != nil {
			return err
		}

		existing, err := q.GetMessageBySender(ctx, round.ID, senderID)
		if err != nil {
			return err
		}
		if existing != nil {
			return game.ErrMessageAlreadySent
		}

		receiverID := pair.Opponent(senderID)
		if _, err := q.CreateMessage(ctx, uuid.NewString(), roomID, round.ID, senderID, receiverID, content); err != nil {
			return err
		}
		if err := q.AppendEvent(ctx, roomID, EventMessageSent, map[string]any{
			"round_number": roundNumber, "sender_id": senderID,
		}); err != nil {
			return err
		}
		if _, err := q.BumpStateVersion(ctx, roomID); err != nil {
			return err
		}
		m.log.Info("message sent", "room_id", roomID, "round_number", roundNumber, "sender_id", senderID)
		return nil
	})
}

// Get returns the most recent message addressed to the player in the round.
func (m *MessageService) Get(ctx context.Context, roomID string, roundNumber int, playerID string) (*store.Message, error) {
	round, err := m.store.GetRoundByNumber(ctx, roomID, roundNumber)
	if err != nil {
		return nil, err
	}
	return m.store.GetMessageForReceiver(ctx, round.ID, playerID)
}
