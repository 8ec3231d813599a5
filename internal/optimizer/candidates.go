package optimizer

import (
	"sort"

	"github.com/subarna007/fpl-helper/internal/models"
)

// OutCandidate is a squad player considered for sale.
type OutCandidate struct {
	Player       models.Player `json:"player"`
	Flagged      bool          `json:"flagged"`
	Contribution float64       `json:"contribution"`
	SellingPrice int           `json:"selling_price"`
}

// RankedPlayer is a player with their summed horizon projection.
type RankedPlayer struct {
	Player  models.Player `json:"player"`
	Horizon float64       `json:"horizon"`
}

// OutgoingCandidates ranks outfield squad players for sale: flagged players first,
// then lowest horizon contribution. Goalkeepers are never proposed.
func OutgoingCandidates(squad Squad, proj Projector, start, horizon, flagChance, limit int) []OutCandidate {
	out := make([]OutCandidate, 0, len(squad.Players))
	for _, p := range squad.Players {
		if p.Position == models.Goalkeeper {
			continue
		}
		out = append(out, OutCandidate{
			Player:       p,
			Flagged:      p.Flagged(flagChance),
			Contribution: proj.Horizon(p, start, horizon),
			SellingPrice: squad.SellingPrice(p),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Flagged != out[j].Flagged {
			return out[i].Flagged
		}
		return out[i].Contribution < out[j].Contribution
	})
	return truncate(out, limit)
}

// IncomingShortlists groups playable non-squad players by outfield position, best
// horizon projection first, each list cut to size.
func IncomingShortlists(pool []models.Player, squad Squad, proj Projector, start, horizon int, filter PlayableFilter, size int) map[models.Position][]RankedPlayer {
	owned := make(map[int]bool, len(squad.Players))
	for _, p := range squad.Players {
		owned[p.ID] = true
	}

	lists := make(map[models.Position][]RankedPlayer, len(models.OutfieldPositions))
	for _, pos := range models.OutfieldPositions {
		lists[pos] = []RankedPlayer{}
	}
	for _, p := range pool {
		if owned[p.ID] || !filter.Allows(p) {
			continue
		}
		if _, ok := lists[p.Position]; !ok {
			continue
		}
		lists[p.Position] = append(lists[p.Position], RankedPlayer{Player: p, Horizon: proj.Horizon(p, start, horizon)})
	}
	for pos, list := range lists {
		sortByHorizon(list)
		lists[pos] = truncate(list, size)
	}
	return lists
}

func sortByHorizon(list []RankedPlayer) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Horizon > list[j].Horizon
	})
}

func truncate[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}
