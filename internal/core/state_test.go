package core

import (
	"context"
	"testing"

	"github.com/YC815/chicken-game-backend/internal/game"
)

func TestSnapshot_VersionGate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	roomID, players := e.startedRoom(t, 2)
	current := e.stateVersion(t, roomID)

	// Client already up to date: no payload.
	resp, err := e.snapshot.Build(ctx, roomID, current, "")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if resp.HasUpdate || resp.Data != nil {
		t.Errorf("up-to-date poll returned an update: %+v", resp)
	}
	if resp.Version != current {
		t.Errorf("version = %d, want %d", resp.Version, current)
	}

	// Stale client gets the full snapshot.
	resp, err = e.snapshot.Build(ctx, roomID, current-1, "")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !resp.HasUpdate || resp.Data == nil {
		t.Fatal("stale poll returned no update")
	}
	if resp.Data.Room.Status != game.RoomPlaying || resp.Data.Room.CurrentRound != 1 {
		t.Errorf("room snapshot = %+v", resp.Data.Room)
	}
	if len(resp.Data.Players) != 3 { // host + 2 players
		t.Errorf("players = %d, want 3 including host", len(resp.Data.Players))
	}
	if resp.Data.Room.PlayerCount != 2 {
		t.Errorf("player_count = %d, want 2 excluding host", resp.Data.Room.PlayerCount)
	}

	// A mutation makes the previously current version stale.
	if err := e.rounds.SubmitAction(ctx, roomID, 1, players[0], game.ChoiceTurn); err != nil {
		t.Fatalf("SubmitAction failed: %v", err)
	}
	resp, err = e.snapshot.Build(ctx, roomID, current, "")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !resp.HasUpdate {
		t.Error("poll after mutation saw no update")
	}
	if resp.Data.Round.SubmittedActions != 1 || resp.Data.Round.TotalPlayers != 2 {
		t.Errorf("round progress = %d/%d, want 1/2", resp.Data.Round.SubmittedActions, resp.Data.Round.TotalPlayers)
	}
}

func TestSnapshot_HidesOpponentUntilCompleted(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	roomID, players := e.startedRoom(t, 2)
	alice, bob := players[0], players[1]

	if err := e.rounds.SubmitAction(ctx, roomID, 1, alice, game.ChoiceAccelerate); err != nil {
		t.Fatalf("SubmitAction failed: %v", err)
	}
	if err := e.rounds.SubmitAction(ctx, roomID, 1, bob, game.ChoiceTurn); err != nil {
		t.Fatalf("SubmitAction failed: %v", err)
	}

	// ready_to_publish: own choice visible, opponent data hidden.
	resp, err := e.snapshot.Build(ctx, roomID, 0, alice)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	round := resp.Data.Round
	if round.YourChoice == nil || *round.YourChoice != game.ChoiceAccelerate {
		t.Errorf("your_choice = %v, want ACCELERATE", round.YourChoice)
	}
	if round.OpponentChoice != nil || round.YourPayoff != nil || round.OpponentPayoff != nil || round.OpponentDisplayName != "" {
		t.Errorf("opponent data leaked before publish: %+v", round)
	}

	if err := e.rounds.Publish(ctx, roomID, 1); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	// completed: everything revealed.
	resp, err = e.snapshot.Build(ctx, roomID, 0, alice)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	round = resp.Data.Round
	if round.OpponentChoice == nil || *round.OpponentChoice != game.ChoiceTurn {
		t.Errorf("opponent_choice = %v, want TURN", round.OpponentChoice)
	}
	if round.YourPayoff == nil || *round.YourPayoff != 10 {
		t.Errorf("your_payoff = %v, want 10", round.YourPayoff)
	}
	if round.OpponentPayoff == nil || *round.OpponentPayoff != -3 {
		t.Errorf("opponent_payoff = %v, want -3", round.OpponentPayoff)
	}
	if round.OpponentDisplayName != "Player2" {
		t.Errorf("opponent_display_name = %q, want Player2", round.OpponentDisplayName)
	}
}

func TestSnapshot_MessageOnlyInMessageRounds(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	roomID, players := e.startedRoom(t, 2)
	alice, bob := players[0], players[1]

	e.advanceTo(t, roomID, 5, players)
	if err := e.messages.Send(ctx, roomID, 5, alice, "truce?"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	resp, err := e.snapshot.Build(ctx, roomID, 0, bob)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if resp.Data.Message == nil {
		t.Fatal("receiver's snapshot has no message in round 5")
	}
	if resp.Data.Message.Content != "truce?" || resp.Data.Message.FromPlayerID != alice {
		t.Errorf("message = %+v", resp.Data.Message)
	}
	if resp.Data.Round.Phase != game.PhaseMessage {
		t.Errorf("round 5 phase = %s, want MESSAGE", resp.Data.Round.Phase)
	}

	// The sender has no incoming message.
	resp, _ = e.snapshot.Build(ctx, roomID, 0, alice)
	if resp.Data.Message != nil {
		t.Errorf("sender received their own message: %+v", resp.Data.Message)
	}
}
