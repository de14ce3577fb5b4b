package game

import "errors"

// Not-found errors map to HTTP 404 at the transport boundary.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoundNotFound  = errors.New("round not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrPairNotFound   = errors.New("no pair found for player")
	ErrNoMessage      = errors.New("no message found")
	ErrNoIndicator    = errors.New("no indicator assigned")
	ErrResultNotReady = errors.New("result not available yet")
	ErrNoActiveRound  = errors.New("no active round")
)

// State and validation errors map to HTTP 400.
var (
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrRoomNotAccepting   = errors.New("room is not accepting players")
	ErrInvalidPlayerCount = errors.New("invalid player count")
	ErrMaxRoundsReached   = errors.New("all rounds completed")
	ErrInvalidChoice      = errors.New("invalid choice")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidNickname    = errors.New("nickname must be 1-50 characters")
	ErrInvalidMessage     = errors.New("message must be 1-100 characters")
	ErrMessageNotAllowed  = errors.New("messages are only allowed in rounds 5-6")
	ErrMessageAlreadySent = errors.New("message already sent this round")
	ErrIndicatorsAssigned = errors.New("indicators already assigned")
	ErrIndicatorsTooEarly = errors.New("indicators can only be assigned after round 6")
	ErrNotParticipant     = errors.New("player is not paired in this round")
)
