// Package projection turns a player snapshot and fixture context into expected
// points for a single gameweek.
package projection

import (
	"math"

	"github.com/subarna007/fpl-helper/internal/models"
	"github.com/subarna007/fpl-helper/pkg/utils"
)

const (
	MaxPoints = 15.0

	formWeight = 0.9
	xgiWeight  = 8.0
)

// Model projects players against one fixture list. A Model carrying an OddsBook
// is the market variant used by odds-aware recommendations.
type Model struct {
	fixtures *FixtureIndex
	clubs    map[int]models.Club
	strength strengthMeans
	odds     *OddsBook
}

func NewModel(fixtures []models.Fixture, clubs []models.Club) *Model {
	byID := make(map[int]models.Club, len(clubs))
	for _, c := range clubs {
		byID[c.ID] = c
	}
	return &Model{
		fixtures: NewFixtureIndex(fixtures),
		clubs:    byID,
		strength: meanStrengths(clubs),
	}
}

// strengthMeans are league means over rated clubs; zero when no club is rated.
type strengthMeans struct {
	attackHome, attackAway, defenceHome, defenceAway float64
}

func meanStrengths(clubs []models.Club) strengthMeans {
	mean := func(rating func(models.Club) int) float64 {
		sum, n := 0, 0
		for _, c := range clubs {
			if v := rating(c); v > 0 {
				sum += v
				n++
			}
		}
		if n == 0 {
			return 0
		}
		return float64(sum) / float64(n)
	}
	return strengthMeans{
		attackHome:  mean(func(c models.Club) int { return c.StrengthAttackHome }),
		attackAway:  mean(func(c models.Club) int { return c.StrengthAttackAway }),
		defenceHome: mean(func(c models.Club) int { return c.StrengthDefenceHome }),
		defenceAway: mean(func(c models.Club) int { return c.StrengthDefenceAway }),
	}
}

// StrengthFactor blends the club's attack (0.65) and defence (0.35) rating for the
// venue, each relative to the league mean. Unrated clubs and ratings score 1.
func (m *Model) StrengthFactor(clubID int, isHome bool) float64 {
	c, ok := m.clubs[clubID]
	if !ok {
		return 1
	}
	atk, def := c.StrengthAttackAway, c.StrengthDefenceAway
	atkMean, defMean := m.strength.attackAway, m.strength.defenceAway
	if isHome {
		atk, def = c.StrengthAttackHome, c.StrengthDefenceHome
		atkMean, defMean = m.strength.attackHome, m.strength.defenceHome
	}
	return 0.65*relative(atk, atkMean) + 0.35*relative(def, defMean)
}

func relative(rating int, mean float64) float64 {
	if rating <= 0 || mean <= 0 {
		return 1
	}
	return float64(rating) / mean
}

// WithOdds returns a copy of the model that prices fixtures from market odds when a
// matching row exists.
func (m *Model) WithOdds(book *OddsBook) *Model {
	clone := *m
	clone.odds = book
	return &clone
}

// HasOdds reports whether this is the market variant.
func (m *Model) HasOdds() bool {
	return m.odds != nil
}

// Fixture resolves the club's fixture for gw.
func (m *Model) Fixture(clubID, gw int) *FixtureContext {
	return m.fixtures.Resolve(clubID, gw)
}

// Project returns expected points in [0, 15], rounded to 3 places.
// A nil fixture is treated as neutral difficulty.
func (m *Model) Project(p models.Player, fx *FixtureContext) float64 {
	pts := BaseScore(p) *
		MinutesMultiplier(p.Minutes) *
		RiskMultiplier(p) *
		m.fixtureMultiplier(p, fx)

	if math.IsNaN(pts) || math.IsInf(pts, 0) {
		return 0
	}
	return utils.Clamp(utils.Round(pts, 3), 0, MaxPoints)
}

// Gameweek resolves the player's fixture and projects it.
func (m *Model) Gameweek(p models.Player, gw int) (float64, *FixtureContext) {
	fx := m.fixtures.Resolve(p.ClubID, gw)
	return m.Project(p, fx), fx
}

// Horizon sums single-gameweek projections over [start, start+n), rounded to 2 places.
func (m *Model) Horizon(p models.Player, start, n int) float64 {
	sum := 0.0
	for gw := start; gw < start+n; gw++ {
		pts, _ := m.Gameweek(p, gw)
		sum += pts
	}
	return utils.Round(sum, 2)
}

// FixtureSwing scores a club's run: each fixture contributes (3 - difficulty) * 0.6.
func (m *Model) FixtureSwing(clubID, start, n int) float64 {
	s := 0.0
	for gw := start; gw < start+n; gw++ {
		d := models.NeutralDifficulty
		if fx := m.fixtures.Resolve(clubID, gw); fx != nil {
			d = fx.Difficulty
		}
		s += float64(models.NeutralDifficulty-d) * 0.6
	}
	return utils.Round(s, 2)
}

func (m *Model) fixtureMultiplier(p models.Player, fx *FixtureContext) float64 {
	if fx == nil {
		return DifficultyMultiplier(models.NeutralDifficulty)
	}
	if m.odds != nil {
		if mult, ok := m.marketMultiplier(p, fx); ok {
			return mult
		}
	}
	return DifficultyMultiplier(fx.Difficulty)
}

func (m *Model) marketMultiplier(p models.Player, fx *FixtureContext) (float64, bool) {
	club, ok := m.clubs[p.ClubID]
	if !ok {
		return 0, false
	}
	opp, ok := m.clubs[fx.OpponentClubID]
	if !ok {
		return 0, false
	}

	home, away := club.Name, opp.Name
	if !fx.IsHome {
		home, away = opp.Name, club.Name
	}
	row := m.odds.Find(fx.Kickoff, home, away)
	if row == nil {
		return 0, false
	}

	probs := ProbabilitiesFor(row, fx.IsHome)
	if probs.Win == nil && probs.Over25 == nil {
		return 0, false
	}
	return MarketMultiplier(p.Position, probs) * m.StrengthFactor(p.ClubID, fx.IsHome), true
}

// BaseScore blends form with the per-start expected goal involvement rate,
// weighted by position.
func BaseScore(p models.Player) float64 {
	starts := p.Starts
	if starts < 1 {
		starts = 1
	}
	xgiRate := p.ExpectedGoalInvolvements / float64(starts)
	return (p.Form*formWeight + xgiRate*xgiWeight) * PositionWeight(p.Position)
}

func PositionWeight(pos models.Position) float64 {
	switch pos {
	case models.Forward:
		return 1.25
	case models.Midfielder:
		return 1.15
	case models.Defender:
		return 0.95
	default:
		return 0.75
	}
}

func MinutesMultiplier(minutes int) float64 {
	switch {
	case minutes > 1700:
		return 1.1
	case minutes > 1200:
		return 1.03
	case minutes > 700:
		return 0.98
	case minutes > 300:
		return 0.85
	default:
		return 0.7
	}
}

func RiskMultiplier(p models.Player) float64 {
	if !p.IsActive() {
		return 0.55
	}
	if p.ChanceOfPlaying != nil {
		switch c := *p.ChanceOfPlaying; {
		case c < 50:
			return 0.6
		case c < 75:
			return 0.78
		case c < 100:
			return 0.92
		}
	}
	return 1.0
}

func DifficultyMultiplier(difficulty int) float64 {
	switch {
	case difficulty <= 2:
		return 1.1
	case difficulty == 3:
		return 1.0
	case difficulty == 4:
		return 0.92
	default:
		return 0.86
	}
}

// EOPressure maps ownership percent onto [0, 1], saturating at 60%.
func EOPressure(ownership float64) float64 {
	return utils.Clamp(ownership/60, 0, 1)
}
