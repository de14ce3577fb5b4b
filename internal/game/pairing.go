package game

import (
	"fmt"
	"math/rand"
)

// Pairing is an unordered opponent relation between two player ids.
type Pairing struct {
	Player1 string
	Player2 string
}

// BuildPairings shuffles the given player ids uniformly and pairs consecutive
// elements. The count must be even and at least 2.
func BuildPairings(playerIDs []string) ([]Pairing, error) {
	n := len(playerIDs)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 players, got %d", ErrInvalidPlayerCount, n)
	}
	if n%2 != 0 {
		return nil, fmt.Errorf("%w: player count must be even, got %d", ErrInvalidPlayerCount, n)
	}

	shuffled := make([]string, n)
	copy(shuffled, playerIDs)
	rand.Shuffle(n, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	pairs := make([]Pairing, 0, n/2)
	for i := 0; i < n; i += 2 {
		pairs = append(pairs, Pairing{Player1: shuffled[i], Player2: shuffled[i+1]})
	}
	return pairs, nil
}
