package core

import (
	"context"
	"errors"

	"github.com/YC815/chicken-game-backend/internal/game"
	"github.com/YC815/chicken-game-backend/internal/store"
)

// SnapshotBuilder assembles the personalized /state payload clients poll
// against state_version.
type SnapshotBuilder struct {
	store *store.Store
}

// NewSnapshotBuilder creates a SnapshotBuilder.
func NewSnapshotBuilder(s *store.Store) *SnapshotBuilder {
	return &SnapshotBuilder{store: s}
}

// StateResponse is the poll envelope. Data is nil when the client is
// already up to date.
type StateResponse struct {
	Version   int64      `json:"version"`
	HasUpdate bool       `json:"has_update"`
	Data      *StateData `json:"data,omitempty"`
}

// StateData is the full snapshot.
type StateData struct {
	Room               RoomState     `json:"room"`
	Players            []PlayerState `json:"players"`
	Round              *RoundState   `json:"round,omitempty"`
	Message            *MessageState `json:"message,omitempty"`
	IndicatorSymbol    string        `json:"indicator_symbol,omitempty"`
	IndicatorsAssigned bool          `json:"indicators_assigned"`
}

// RoomState mirrors the room status endpoint.
type RoomState struct {
	RoomID       string          `json:"room_id"`
	Code         string          `json:"code"`
	Status       game.RoomStatus `json:"status"`
	CurrentRound int             `json:"current_round"`
	PlayerCount  int             `json:"player_count"`
}

// PlayerState is one row of the member list.
type PlayerState struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	IsHost      bool   `json:"is_host"`
}

// SubmissionState shows per-player progress for the projector.
type SubmissionState struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Submitted   bool   `json:"submitted"`
}

// RoundState is the current round, personalized when a player_id was given.
// Opponent data and payoffs are revealed only once the round is completed.
type RoundState struct {
	RoundNumber         int               `json:"round_number"`
	Phase               game.RoundPhase   `json:"phase"`
	Status              game.RoundStatus  `json:"status"`
	SubmittedActions    int               `json:"submitted_actions"`
	TotalPlayers        int               `json:"total_players"`
	PlayerSubmissions   []SubmissionState `json:"player_submissions,omitempty"`
	YourChoice          *game.Choice      `json:"your_choice,omitempty"`
	OpponentChoice      *game.Choice      `json:"opponent_choice,omitempty"`
	YourPayoff          *int              `json:"your_payoff,omitempty"`
	OpponentPayoff      *int              `json:"opponent_payoff,omitempty"`
	OpponentDisplayName string            `json:"opponent_display_name,omitempty"`
}

// MessageState carries the opponent's note for the current message round.
type MessageState struct {
	RoundNumber     int    `json:"round_number"`
	Content         string `json:"content"`
	FromPlayerID    string `json:"from_player_id"`
	FromDisplayName string `json:"from_display_name"`
}

// Build returns {version, has_update:false} when the client's version is
// current, otherwise the full snapshot. Reads run outside any write
// transaction; committed writes are always visible because writers share
// one connection.
func (b *SnapshotBuilder) Build(ctx context.Context, roomID string, clientVersion int64, playerID string) (*StateResponse, error) {
	room, err := b.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if clientVersion >= room.StateVersion {
		return &StateResponse{Version: room.StateVersion, HasUpdate: false}, nil
	}

	players, err := b.store.ListPlayers(ctx, roomID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*store.Player, len(players))
	playerStates := make([]PlayerState, 0, len(players))
	active := 0
	for _, p := range players {
		byID[p.ID] = p
		playerStates = append(playerStates, PlayerState{PlayerID: p.ID, DisplayName: p.DisplayName, IsHost: p.IsHost})
		if !p.IsHost {
			active++
		}
	}

	indicatorsAssigned, err := b.assigned(ctx, roomID)
	if err != nil {
		return nil, err
	}

	data := &StateData{
		Room: RoomState{
			RoomID:       room.ID,
			Code:         room.Code,
			Status:       room.Status,
			CurrentRound: room.CurrentRound,
			PlayerCount:  active,
		},
		Players:            playerStates,
		IndicatorsAssigned: indicatorsAssigned,
	}

	if room.CurrentRound > 0 {
		round, err := b.store.GetRoundByNumber(ctx, roomID, room.CurrentRound)
		if err != nil {
			return nil, err
		}
		rs, err := b.buildRoundState(ctx, round, byID, playerID)
		if err != nil {
			return nil, err
		}
		data.Round = rs

		if playerID != "" {
			if game.IsMessageRound(round.RoundNumber) {
				msg, err := b.store.GetMessageForReceiver(ctx, round.ID, playerID)
				if err != nil && !errors.Is(err, game.ErrNoMessage) {
					return nil, err
				}
				if msg != nil {
					sender := "Unknown"
					if p, ok := byID[msg.SenderID]; ok {
						sender = p.DisplayName
					}
					data.Message = &MessageState{
						RoundNumber:     round.RoundNumber,
						Content:         msg.Content,
						FromPlayerID:    msg.SenderID,
						FromDisplayName: sender,
					}
				}
			}
			if ind, err := b.store.GetIndicatorByPlayer(ctx, playerID); err == nil {
				data.IndicatorSymbol = ind.Symbol
			} else if !errors.Is(err, game.ErrNoIndicator) {
				return nil, err
			}
		}
	}

	return &StateResponse{Version: room.StateVersion, HasUpdate: true, Data: data}, nil
}

func (b *SnapshotBuilder) buildRoundState(ctx context.Context, round *store.Round, byID map[string]*store.Player, playerID string) (*RoundState, error) {
	actions, err := b.store.ListActionsByRound(ctx, round.ID)
	if err != nil {
		return nil, err
	}
	submittedBy := make(map[string]*store.Action, len(actions))
	for _, a := range actions {
		submittedBy[a.PlayerID] = a
	}

	pairs, err := b.store.ListPairsByRound(ctx, round.ID)
	if err != nil {
		return nil, err
	}
	participants := make(map[string]bool, 2*len(pairs))
	for _, p := range pairs {
		participants[p.Player1ID] = true
		participants[p.Player2ID] = true
	}

	rs := &RoundState{
		RoundNumber:      round.RoundNumber,
		Phase:            round.Phase,
		Status:           round.Status,
		SubmittedActions: len(actions),
		TotalPlayers:     len(participants),
	}
	for id := range participants {
		p, ok := byID[id]
		if !ok || p.IsHost {
			continue
		}
		rs.PlayerSubmissions = append(rs.PlayerSubmissions, SubmissionState{
			PlayerID:    id,
			DisplayName: p.DisplayName,
			Submitted:   submittedBy[id] != nil,
		})
	}

	if playerID == "" {
		return rs, nil
	}

	if a := submittedBy[playerID]; a != nil {
		choice := a.Choice
		rs.YourChoice = &choice
	}

	// Opponent data and payoffs stay hidden until the round is published.
	if round.Status != game.RoundCompleted {
		return rs, nil
	}
	pair, err := b.store.GetPairForPlayer(ctx, round.ID, playerID)
	if errors.Is(err, game.ErrPairNotFound) {
		return rs, nil
	}
	if err != nil {
		return nil, err
	}
	opponentID := pair.Opponent(playerID)
	if p, ok := byID[opponentID]; ok {
		rs.OpponentDisplayName = p.DisplayName
	}
	if a := submittedBy[playerID]; a != nil && a.Payoff != nil {
		rs.YourPayoff = a.Payoff
	}
	if a := submittedBy[opponentID]; a != nil {
		choice := a.Choice
		rs.OpponentChoice = &choice
		if a.Payoff != nil {
			rs.OpponentPayoff = a.Payoff
		}
	}
	return rs, nil
}

func (b *SnapshotBuilder) assigned(ctx context.Context, roomID string) (bool, error) {
	n, err := b.store.CountIndicatorsByRoom(ctx, roomID)
	return n > 0, err
}
