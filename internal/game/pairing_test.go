package game

import (
	"errors"
	"fmt"
	"testing"
)

func TestBuildPairings_RejectsBadCounts(t *testing.T) {
	if _, err := BuildPairings(nil); !errors.Is(err, ErrInvalidPlayerCount) {
		t.Errorf("BuildPairings(nil) = %v, want ErrInvalidPlayerCount", err)
	}
	if _, err := BuildPairings([]string{"a"}); !errors.Is(err, ErrInvalidPlayerCount) {
		t.Errorf("BuildPairings(1 player) = %v, want ErrInvalidPlayerCount", err)
	}
	if _, err := BuildPairings([]string{"a", "b", "c"}); !errors.Is(err, ErrInvalidPlayerCount) {
		t.Errorf("BuildPairings(3 players) = %v, want ErrInvalidPlayerCount", err)
	}
}

func TestBuildPairings_EveryPlayerPairedOnce(t *testing.T) {
	for _, n := range []int{2, 4, 8, 30} {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = fmt.Sprintf("p%d", i)
		}

		pairs, err := BuildPairings(ids)
		if err != nil {
			t.Fatalf("BuildPairings(%d players) failed: %v", n, err)
		}
		if len(pairs) != n/2 {
			t.Fatalf("got %d pairs for %d players, want %d", len(pairs), n, n/2)
		}

		seen := make(map[string]int)
		for _, p := range pairs {
			if p.Player1 == p.Player2 {
				t.Errorf("player %s paired with itself", p.Player1)
			}
			seen[p.Player1]++
			seen[p.Player2]++
		}
		for _, id := range ids {
			if seen[id] != 1 {
				t.Errorf("player %s appears in %d pairs, want 1", id, seen[id])
			}
		}
	}
}

func TestBuildPairings_DoesNotMutateInput(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	original := []string{"a", "b", "c", "d"}

	if _, err := BuildPairings(ids); err != nil {
		t.Fatalf("BuildPairings failed: %v", err)
	}
	for i := range ids {
		if ids[i] != original[i] {
			t.Fatalf("input slice was mutated: %v", ids)
		}
	}
}
