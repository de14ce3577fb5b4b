package game

import "math/rand"

// IndicatorSymbols is the closed whitelist of emoji a player can be assigned.
var IndicatorSymbols = []string{"🍎", "🍋", "🍇", "🍑", "🍉", "🥝"}

// IsIndicatorSymbol reports whether s is in the whitelist.
func IsIndicatorSymbol(s string) bool {
	for _, sym := range IndicatorSymbols {
		if sym == s {
			return true
		}
	}
	return false
}

// DistributeIndicators assigns a whitelist symbol to every player id, as
// evenly as possible: players are shuffled and symbols dealt round-robin over
// a shuffled copy of the whitelist, so each symbol is used ⌊N/K⌋ or ⌈N/K⌉
// times.
func DistributeIndicators(playerIDs []string) map[string]string {
	players := make([]string, len(playerIDs))
	copy(players, playerIDs)
	rand.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})

	symbols := make([]string, len(IndicatorSymbols))
	copy(symbols, IndicatorSymbols)
	rand.Shuffle(len(symbols), func(i, j int) {
		symbols[i], symbols[j] = symbols[j], symbols[i]
	})

	assigned := make(map[string]string, len(players))
	for i, id := range players {
		assigned[id] = symbols[i%len(symbols)]
	}
	return assigned
}
