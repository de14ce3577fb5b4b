package game

import "fmt"

// All status changes go through CheckRoomTransition / CheckRoundTransition so
// that the set of legal moves lives in one place.

var roomTransitions = map[RoomStatus][]RoomStatus{
	RoomWaiting:  {RoomPlaying},
	RoomPlaying:  {RoomFinished},
	RoomFinished: {},
}

// Rounds may go waiting_actions -> ready_to_publish (all actions in),
// waiting_actions -> completed (skip), ready_to_publish -> completed
// (publish or skip). There are no back-transitions.
var roundTransitions = map[RoundStatus][]RoundStatus{
	RoundWaitingActions: {RoundReadyToPublish, RoundCompleted},
	RoundReadyToPublish: {RoundCompleted},
	RoundCompleted:      {},
}

// CanRoomTransition reports whether a room may move from one status to another.
func CanRoomTransition(from, to RoomStatus) bool {
	for _, s := range roomTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanRoundTransition reports whether a round may move from one status to another.
func CanRoundTransition(from, to RoundStatus) bool {
	for _, s := range roundTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CheckRoomTransition returns ErrInvalidTransition unless from -> to is legal.
func CheckRoomTransition(from, to RoomStatus) error {
	if !CanRoomTransition(from, to) {
		return fmt.Errorf("%w: room %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// CheckRoundTransition returns ErrInvalidTransition unless from -> to is legal.
func CheckRoundTransition(from, to RoundStatus) error {
	if !CanRoundTransition(from, to) {
		return fmt.Errorf("%w: round %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
