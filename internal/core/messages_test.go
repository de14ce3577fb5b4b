package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/YC815/chicken-game-backend/internal/game"
)

func TestSendMessage_OnlyInRoundsFiveAndSix(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	roomID, players := e.startedRoom(t, 2)
	alice := players[0]

	if err := e.messages.Send(ctx, roomID, 1, alice, "hi"); !errors.Is(err, game.ErrMessageNotAllowed) {
		t.Errorf("Send in round 1 = %v, want ErrMessageNotAllowed", err)
	}

	e.advanceTo(t, roomID, 5, players)
	if err := e.messages.Send(ctx, roomID, 5, alice, "hi"); err != nil {
		t.Errorf("Send in round 5 failed: %v", err)
	}

	e.completeRound(t, roomID, 5, players)
	if _, err := e.rooms.NextRound(ctx, roomID); err != nil {
		t.Fatalf("NextRound failed: %v", err)
	}
	if err := e.messages.Send(ctx, roomID, 6, alice, "hi again"); err != nil {
		t.Errorf("Send in round 6 failed: %v", err)
	}

	e.completeRound(t, roomID, 6, players)
	if _, err := e.rooms.NextRound(ctx, roomID); err != nil {
		t.Fatalf("NextRound failed: %v", err)
	}
	if err := e.messages.Send(ctx, roomID, 7, alice, "hi"); !errors.Is(err, game.ErrMessageNotAllowed) {
		t.Errorf("Send in round 7 = %v, want ErrMessageNotAllowed", err)
	}
}

func TestSendMessage_ContentValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	roomID, players := e.startedRoom(t, 2)
	alice := players[0]
	e.advanceTo(t, roomID, 5, players)

	for _, bad := range []string{"", "   ", strings.Repeat("x", 101)} {
		if err := e.messages.Send(ctx, roomID, 5, alice, bad); !errors.Is(err, game.ErrInvalidMessage) {
			t.Errorf("Send(%d chars) = %v, want ErrInvalidMessage", len(bad), err)
		}
	}

	// Exactly 100 runes is fine, multibyte included.
	if err := e.messages.Send(ctx, roomID, 5, alice, strings.Repeat("好", 100)); err != nil {
		t.Errorf("Send(100 runes) failed: %v", err)
	}
}

func TestSendMessage_OncePerRound(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	roomID, players := e.startedRoom(t, 2)
	alice, bob := players[0], players[1]
	e.advanceTo(t, roomID, 5, players)

	if err := e.messages.Send(ctx, roomID, 5, alice, "first"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if err := e.messages.Send(ctx, roomID, 5, alice, "second"); !errors.Is(err, game.ErrMessageAlreadySent) {
		t.Errorf("second Send = %v, want ErrMessageAlreadySent", err)
	}

	// The opponent can still send their own.
	if err := e.messages.Send(ctx, roomID, 5, bob, "reply"); err != nil {
		t.Errorf("opponent Send failed: %v", err)
	}

	// Delivery goes to the pair opponent.
	msg, err := e.messages.Get(ctx, roomID, 5, bob)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if msg.Content != "first" || msg.SenderID != alice {
		t.Errorf("bob's message = %+v, want alice's first", msg)
	}
}

func TestGetMessage_NoneSent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	roomID, players := e.startedRoom(t, 2)
	e.advanceTo(t, roomID, 5, players)

	if _, err := e.messages.Get(ctx, roomID, 5, players[0]); !errors.Is(err, game.ErrNoMessage) {
		t.Errorf("Get with no messages = %v, want ErrNoMessage", err)
	}
}
