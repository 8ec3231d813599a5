package optimizer

import (
	"fmt"

	"github.com/subarna007/fpl-helper/internal/models"
	"github.com/subarna007/fpl-helper/internal/projection"
)

// formProjector scores a player at their Form every gameweek unless byGW overrides it.
type formProjector struct {
	byGW  map[int]map[int]float64
	swing map[int]float64
}

func (f formProjector) Gameweek(p models.Player, gw int) (float64, *projection.FixtureContext) {
	if m, ok := f.byGW[p.ID]; ok {
		if v, ok := m[gw]; ok {
			return v, nil
		}
	}
	return p.Form, nil
}

func (f formProjector) Horizon(p models.Player, start, n int) float64 {
	s := 0.0
	for gw := start; gw < start+n; gw++ {
		v, _ := f.Gameweek(p, gw)
		s += v
	}
	return s
}

func (f formProjector) FixtureSwing(clubID, start, n int) float64 {
	return f.swing[clubID]
}

func intPtr(v int) *int { return &v }

func player(id int, pos models.Position, club int, price int, form float64) models.Player {
	return models.Player{
		ID:       id,
		WebName:  fmt.Sprintf("P%d", id),
		Position: pos,
		ClubID:   club,
		Price:    price,
		Form:     form,
		Minutes:  1500,
		Status:   models.StatusActive,
	}
}

// testSquad is a legal 15 spread over clubs 1..15 with ids:
// GK 1-2, DEF 3-7, MID 8-12, FWD 13-15.
func testSquad() Squad {
	forms := []float64{5, 4, 2, 2, 2, 2, 2, 6, 6, 6, 6, 6, 8, 8, 8}
	squad := Squad{Bank: 10, SellingPrices: map[int]int{}}
	for i := 0; i < 15; i++ {
		id := i + 1
		squad.Players = append(squad.Players, player(id, positionFor(id), id, 50, forms[i]))
	}
	return squad
}

func positionFor(id int) models.Position {
	switch {
	case id <= 2:
		return models.Goalkeeper
	case id <= 7:
		return models.Defender
	case id <= 12:
		return models.Midfielder
	default:
		return models.Forward
	}
}

func scoredFrom(players []models.Player) []ScoredPlayer {
	out := make([]ScoredPlayer, len(players))
	for i, p := range players {
		out[i] = ScoredPlayer{Player: p, Points: p.Form}
	}
	return out
}

func withForm(players []models.Player, id int, form float64) []models.Player {
	out := make([]models.Player, len(players))
	copy(out, players)
	for i := range out {
		if out[i].ID == id {
			out[i].Form = form
		}
	}
	return out
}
