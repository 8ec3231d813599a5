package optimizer

import (
	"github.com/subarna007/fpl-helper/internal/models"
	"github.com/subarna007/fpl-helper/internal/projection"
	"github.com/subarna007/fpl-helper/pkg/utils"
)

// Projector is the slice of projection.Model the optimizer needs.
type Projector interface {
	Gameweek(p models.Player, gw int) (float64, *projection.FixtureContext)
	Horizon(p models.Player, start, n int) float64
}

// Scorer runs the formation search once per gameweek and sums the results.
type Scorer struct {
	Projector  Projector
	Formations []Formation
}

func NewScorer(p Projector) *Scorer {
	return &Scorer{Projector: p, Formations: Formations}
}

func (s *Scorer) Scored(players []models.Player, gw int) []ScoredPlayer {
	out := make([]ScoredPlayer, len(players))
	for i, p := range players {
		pts, fx := s.Projector.Gameweek(p, gw)
		out[i] = ScoredPlayer{Player: p, Points: pts, Fixture: fx}
	}
	return out
}

func (s *Scorer) Lineup(players []models.Player, gw int) Lineup {
	return BestXI(s.Scored(players, gw), s.Formations)
}

// Score evaluates gameweeks [start, start+horizon) independently. No autosubs or
// carry-over between weeks.
func (s *Scorer) Score(players []models.Player, start, horizon int) HorizonScore {
	if horizon < 0 {
		horizon = 0
	}
	hs := HorizonScore{PerGameweek: make([]GameweekScore, 0, horizon)}
	sum := 0.0
	for gw := start; gw < start+horizon; gw++ {
		lu := s.Lineup(players, gw)
		hs.PerGameweek = append(hs.PerGameweek, GameweekScore{Gameweek: gw, Lineup: lu})
		sum += lu.Total
	}
	hs.Total = utils.Round(sum, 2)
	return hs
}
