// Package optimizer picks a starting XI, scores squads over a gameweek horizon and
// searches one- and two-move transfer plans.
package optimizer

import (
	"fmt"

	"github.com/subarna007/fpl-helper/internal/models"
	"github.com/subarna007/fpl-helper/internal/projection"
)

// Squad is a user's 15 players plus spare budget. SellingPrices holds the per-player
// selling price from the entry's picks; a missing or zero entry falls back to Price.
type Squad struct {
	Players       []models.Player `json:"players"`
	Bank          int             `json:"bank"`
	SellingPrices map[int]int     `json:"selling_prices,omitempty"`
}

func (s Squad) SellingPrice(p models.Player) int {
	if v, ok := s.SellingPrices[p.ID]; ok && v > 0 {
		return v
	}
	return p.Price
}

func (s Squad) Contains(playerID int) bool {
	for _, p := range s.Players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// Apply returns the squad after t, with the bank updated by the sale and purchase.
// The receiver is not modified.
func (s Squad) Apply(t Transfer) Squad {
	next := make([]models.Player, len(s.Players))
	for i, p := range s.Players {
		if p.ID == t.Out.ID {
			next[i] = t.In
			continue
		}
		next[i] = p
	}
	return Squad{
		Players:       next,
		Bank:          s.Bank + t.SellingPrice - t.In.Price,
		SellingPrices: s.SellingPrices,
	}
}

type ScoredPlayer struct {
	Player  models.Player              `json:"player"`
	Points  float64                    `json:"points"`
	Fixture *projection.FixtureContext `json:"fixture,omitempty"`
}

// Formation is the outfield shape of an XI; the goalkeeper is implied.
type Formation struct {
	Defenders   int `json:"def"`
	Midfielders int `json:"mid"`
	Forwards    int `json:"fwd"`
}

func (f Formation) String() string {
	return fmt.Sprintf("%d-%d-%d", f.Defenders, f.Midfielders, f.Forwards)
}

// Size is the number of players in the XI including the goalkeeper.
func (f Formation) Size() int {
	return 1 + f.Defenders + f.Midfielders + f.Forwards
}

// Formations are the legal shapes in search order. Ties go to the earlier entry.
var Formations = []Formation{
	{3, 4, 3},
	{3, 5, 2},
	{4, 4, 2},
	{4, 3, 3},
	{5, 4, 1},
	{5, 3, 2},
	{5, 2, 3},
}

// Lineup is the chosen XI for one gameweek. Total counts the captain twice.
type Lineup struct {
	Formation   Formation      `json:"formation"`
	XI          []ScoredPlayer `json:"xi"`
	Bench       []ScoredPlayer `json:"bench"`
	Captain     *ScoredPlayer  `json:"captain,omitempty"`
	ViceCaptain *ScoredPlayer  `json:"vice_captain,omitempty"`
	XIPoints    float64        `json:"xi_points"`
	BenchPoints float64        `json:"bench_points"`
	Total       float64        `json:"total"`
}

type GameweekScore struct {
	Gameweek int `json:"gameweek"`
	Lineup
}

type HorizonScore struct {
	Total       float64         `json:"total"`
	PerGameweek []GameweekScore `json:"per_gameweek"`
}

type Transfer struct {
	Out          models.Player `json:"out"`
	In           models.Player `json:"in"`
	SellingPrice int           `json:"selling_price"`
}

func (t Transfer) key() [2]int {
	return [2]int{t.Out.ID, t.In.ID}
}

// Plan is one course of action over the horizon.
type Plan struct {
	Label       string          `json:"label"`
	Transfers   []Transfer      `json:"transfers"`
	HitCost     float64         `json:"hit_cost"`
	Gain        float64         `json:"gain"`
	NetGain     float64         `json:"net_gain"`
	PerGameweek []GameweekScore `json:"per_gameweek"`
	Rationale   []string        `json:"rationale"`
}
