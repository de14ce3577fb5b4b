// Package game holds the pure domain: enums, the payoff matrix, the status
// state machines, pairing and indicator distribution. Nothing here touches
// the database.
package game

import "fmt"

// MaxRounds is the fixed length of a game.
const MaxRounds = 10

// RoomStatus is the room lifecycle state, transmitted verbatim over the API.
type RoomStatus string

const (
	RoomWaiting  RoomStatus = "WAITING"
	RoomPlaying  RoomStatus = "PLAYING"
	RoomFinished RoomStatus = "FINISHED"
)

// RoundStatus is the round lifecycle state.
type RoundStatus string

const (
	RoundWaitingActions RoundStatus = "waiting_actions"
	RoundReadyToPublish RoundStatus = "ready_to_publish"
	RoundCompleted      RoundStatus = "completed"
)

// RoundPhase selects what the clients display alongside the round.
type RoundPhase string

const (
	PhaseNormal    RoundPhase = "NORMAL"
	PhaseMessage   RoundPhase = "MESSAGE"
	PhaseIndicator RoundPhase = "INDICATOR"
)

// Choice is a player's move in the Chicken game.
type Choice string

const (
	ChoiceTurn       Choice = "TURN"
	ChoiceAccelerate Choice = "ACCELERATE"
)

// ParseChoice validates a wire-format choice.
func ParseChoice(s string) (Choice, error) {
	switch Choice(s) {
	case ChoiceTurn, ChoiceAccelerate:
		return Choice(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChoice, s)
}

// ParseRoomStatus validates a wire-format room status.
func ParseRoomStatus(s string) (RoomStatus, error) {
	switch RoomStatus(s) {
	case RoomWaiting, RoomPlaying, RoomFinished:
		return RoomStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// IsMessageRound reports whether players may exchange messages in round n.
func IsMessageRound(n int) bool {
	return n == 5 || n == 6
}

// PhaseForRound returns the default display phase when round n is created.
// Rounds 7-10 start as NORMAL and flip to INDICATOR once indicators are
// assigned.
func PhaseForRound(n int) RoundPhase {
	if IsMessageRound(n) {
		return PhaseMessage
	}
	return PhaseNormal
}
