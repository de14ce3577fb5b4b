package core

import (
	"context"
	"math"
	"sort"

	"github.com/YC815/chicken-game-backend/internal/store"
)

// PlayerSummary is one row of the final ranking.
type PlayerSummary struct {
	DisplayName string `json:"display_name"`
	TotalPayoff int    `json:"total_payoff"`
}

// GameStats aggregates the room's strategy mix.
type GameStats struct {
	AccelerateRatio float64 `json:"accelerate_ratio"`
	TurnRatio       float64 `json:"turn_ratio"`
}

// GameSummary is the end-of-game report.
type GameSummary struct {
	Players []PlayerSummary `json:"players"`
	Stats   GameStats       `json:"stats"`
}

// Summary ranks non-host players by total payoff (descending) and computes
// the accelerate/turn ratios over every action in the room.
func Summary(ctx context.Context, s *store.Store, roomID string) (*GameSummary, error) {
	if _, err := s.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	players, err := s.ListActivePlayers(ctx, roomID)
	if err != nil {
		return nil, err
	}

	summaries := make([]PlayerSummary, 0, len(players))
	for _, p := range players {
		total, err := s.SumPayoffsByPlayer(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, PlayerSummary{DisplayName: p.DisplayName, TotalPayoff: total})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalPayoff > summaries[j].TotalPayoff
	})

	total, accelerate, err := s.RoomChoiceStats(ctx, roomID)
	if err != nil {
		return nil, err
	}
	var ratio float64
	if total > 0 {
		ratio = float64(accelerate) / float64(total)
	}
	ratio = math.Round(ratio*100) / 100

	return &GameSummary{
		Players: summaries,
		Stats: GameStats{
			AccelerateRatio: ratio,
			TurnRatio:       math.Round((1-ratio)*100) / 100,
		},
	}, nil
}
