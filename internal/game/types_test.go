package game

import (
	"errors"
	"testing"
)

func TestParseChoice(t *testing.T) {
	if c, err := ParseChoice("TURN"); err != nil || c != ChoiceTurn {
		t.Errorf("ParseChoice(TURN) = %v, %v", c, err)
	}
	if c, err := ParseChoice("ACCELERATE"); err != nil || c != ChoiceAccelerate {
		t.Errorf("ParseChoice(ACCELERATE) = %v, %v", c, err)
	}
	for _, s := range []string{"", "turn", "Turn", "SWERVE"} {
		if _, err := ParseChoice(s); !errors.Is(err, ErrInvalidChoice) {
			t.Errorf("ParseChoice(%q) = %v, want ErrInvalidChoice", s, err)
		}
	}
}

func TestParseRoomStatus(t *testing.T) {
	for _, s := range []RoomStatus{RoomWaiting, RoomPlaying, RoomFinished} {
		got, err := ParseRoomStatus(string(s))
		if err != nil || got != s {
			t.Errorf("ParseRoomStatus(%s) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseRoomStatus("waiting"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("ParseRoomStatus(waiting) = %v, want ErrInvalidStatus", err)
	}
}

func TestPhaseForRound(t *testing.T) {
	for n := 1; n <= MaxRounds; n++ {
		want := PhaseNormal
		if n == 5 || n == 6 {
			want = PhaseMessage
		}
		if got := PhaseForRound(n); got != want {
			t.Errorf("PhaseForRound(%d) = %s, want %s", n, got, want)
		}
		if IsMessageRound(n) != (n == 5 || n == 6) {
			t.Errorf("IsMessageRound(%d) wrong", n)
		}
	}
}
