package core

import (
	"context"
	"errors"
	"testing"

	"github.com/YC815/chicken-game-backend/internal/game"
)

func TestAssignIndicators_Lifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	roomID, players := e.startedRoom(t, 4)

	// Too early before round 6.
	if err := e.indicators.Assign(ctx, roomID); !errors.Is(err, game.ErrIndicatorsTooEarly) {
		t.Errorf("Assign in round 1 = %v, want ErrIndicatorsTooEarly", err)
	}

	e.advanceTo(t, roomID, 6, players)
	if err := e.indicators.Assign(ctx, roomID); err != nil {
		t.Fatalf("Assign in round 6 failed: %v", err)
	}

	// Only once per room.
	if err := e.indicators.Assign(ctx, roomID); !errors.Is(err, game.ErrIndicatorsAssigned) {
		t.Errorf("second Assign = %v, want ErrIndicatorsAssigned", err)
	}

	assigned, err := e.indicators.Assigned(ctx, roomID)
	if err != nil || !assigned {
		t.Errorf("Assigned = %v, %v, want true", assigned, err)
	}

	// Every non-host player holds exactly one whitelist symbol.
	for _, id := range players {
		sym, err := e.indicators.Get(ctx, id)
		if err != nil {
			t.Errorf("Get(%s) failed: %v", id, err)
			continue
		}
		if !game.IsIndicatorSymbol(sym) {
			t.Errorf("player %s got non-whitelist symbol %q", id, sym)
		}
	}

	// The host gets none.
	allPlayers, _ := e.store.ListPlayers(ctx, roomID)
	for _, p := range allPlayers {
		if p.IsHost {
			if _, err := e.indicators.Get(ctx, p.ID); !errors.Is(err, game.ErrNoIndicator) {
				t.Errorf("host indicator = %v, want ErrNoIndicator", err)
			}
		}
	}
}

func TestAssignIndicators_FlipsLaterRoundsToIndicatorPhase(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	roomID, players := e.startedRoom(t, 2)
	e.advanceTo(t, roomID, 7, players)

	// Round 7 starts NORMAL when indicators are not assigned yet.
	r7, _ := e.store.GetRoundByNumber(ctx, roomID, 7)
	if r7.Phase != game.PhaseNormal {
		t.Fatalf("round 7 phase before assign = %s, want NORMAL", r7.Phase)
	}

	if err := e.indicators.Assign(ctx, roomID); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	// The existing round 7 flips, and new rounds come up as INDICATOR.
	r7, _ = e.store.GetRoundByNumber(ctx, roomID, 7)
	if r7.Phase != game.PhaseIndicator {
		t.Errorf("round 7 phase after assign = %s, want INDICATOR", r7.Phase)
	}

	e.completeRound(t, roomID, 7, players)
	if _, err := e.rooms.NextRound(ctx, roomID); err != nil {
		t.Fatalf("NextRound failed: %v", err)
	}
	r8, _ := e.store.GetRoundByNumber(ctx, roomID, 8)
	if r8.Phase != game.PhaseIndicator {
		t.Errorf("round 8 phase = %s, want INDICATOR", r8.Phase)
	}
}

func TestSnapshot_CarriesIndicator(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	roomID, players := e.startedRoom(t, 2)
	e.advanceTo(t, roomID, 6, players)

	resp, err := e.snapshot.Build(ctx, roomID, 0, players[0])
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if resp.Data.IndicatorsAssigned || resp.Data.IndicatorSymbol != "" {
		t.Errorf("indicator data present before assignment: %+v", resp.Data)
	}

	if err := e.indicators.Assign(ctx, roomID); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	resp, err = e.snapshot.Build(ctx, roomID, 0, players[0])
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !resp.Data.IndicatorsAssigned {
		t.Error("indicators_assigned = false after assignment")
	}
	if !game.IsIndicatorSymbol(resp.Data.IndicatorSymbol) {
		t.Errorf("indicator_symbol = %q, want whitelist symbol", resp.Data.IndicatorSymbol)
	}
}
