package optimizer

import (
	"sort"

	"github.com/subarna007/fpl-helper/internal/models"
	"github.com/subarna007/fpl-helper/internal/projection"
	"github.com/subarna007/fpl-helper/pkg/utils"
)

// BuildConfig bounds the squad builder.
type BuildConfig struct {
	Budget         int                     `json:"budget"`
	Filter         PlayableFilter          `json:"filter"`
	EOWeight       float64                 `json:"eo_weight"`
	Depth          map[models.Position]int `json:"depth"`
	PremiumPool    int                     `json:"premium_pool"`
	PremiumTop     int                     `json:"premium_top"`
	PremiumCount   int                     `json:"premium_count"`
	MaxIterations  int                     `json:"max_iterations"`
	MinImprovement float64                 `json:"min_improvement"`
	SwapCandidates int                     `json:"swap_candidates"`
}

func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		Budget:   1000,
		Filter:   PlayableFilter{MinMinutes: 450, MinChance: 75, RequireActive: true},
		EOWeight: 0.08,
		Depth: map[models.Position]int{
			models.Goalkeeper: 12,
			models.Defender:   60,
			models.Midfielder: 60,
			models.Forward:    40,
		},
		PremiumPool:    20,
		PremiumTop:     6,
		PremiumCount:   2,
		MaxIterations:  6,
		MinImprovement: 0.8,
		SwapCandidates: 35,
	}
}

type SquadMember struct {
	Player        models.Player `json:"player"`
	HorizonPoints float64       `json:"horizon_points"`
}

// BuiltSquad is the builder's output. Lineup is the first gameweek's XI.
type BuiltSquad struct {
	Players      []SquadMember `json:"players"`
	BudgetLeft   int           `json:"budget_left"`
	HorizonScore float64       `json:"horizon_score"`
	Lineup       Lineup        `json:"lineup"`
	Complete     bool          `json:"complete"`
}

type builder struct {
	cfg        BuildConfig
	scorer     *Scorer
	start, n   int
	picks      []models.Player
	budgetLeft int
}

// BuildSquad assembles a 15-player squad from pool within the budget: two premium
// attackers first, then the best remaining per position, then the cheapest players
// for any gaps, followed by a first-improvement swap search.
func BuildSquad(pool []models.Player, proj Projector, start, horizon int, cfg BuildConfig) BuiltSquad {
	b := &builder{cfg: cfg, scorer: NewScorer(proj), start: start, n: horizon, budgetLeft: cfg.Budget}

	var playable []RankedPlayer
	blended := make(map[int]float64)
	for _, p := range pool {
		if !cfg.Filter.Allows(p) {
			continue
		}
		h := proj.Horizon(p, start, horizon)
		blended[p.ID] = utils.Round(h*(1+projection.EOPressure(p.Ownership)*cfg.EOWeight), 3)
		playable = append(playable, RankedPlayer{Player: p, Horizon: h})
	}

	candidates := make(map[models.Position][]RankedPlayer, 4)
	for _, pos := range []models.Position{models.Goalkeeper, models.Defender, models.Midfielder, models.Forward} {
		var list []RankedPlayer
		for _, rp := range playable {
			if rp.Player.Position == pos {
				list = append(list, rp)
			}
		}
		sort.SliceStable(list, func(i, j int) bool {
			return blended[list[i].Player.ID] > blended[list[j].Player.ID]
		})
		candidates[pos] = truncate(list, cfg.Depth[pos])
	}

	b.seedPremium(candidates)
	for _, pos := range []models.Position{models.Goalkeeper, models.Defender, models.Midfielder, models.Forward} {
		for _, rp := range candidates[pos] {
			if PositionCounts(b.picks)[pos] < RequiredCounts[pos] {
				b.tryAdd(rp.Player)
			}
		}
	}
	b.fillCheapest(playable)
	b.improve(candidates)

	members := make([]SquadMember, len(b.picks))
	for i, p := range b.picks {
		members[i] = SquadMember{Player: p, HorizonPoints: proj.Horizon(p, start, horizon)}
	}
	return BuiltSquad{
		Players:      members,
		BudgetLeft:   b.budgetLeft,
		HorizonScore: b.scorer.Score(b.picks, start, horizon).Total,
		Lineup:       b.scorer.Lineup(b.picks, start),
		Complete:     positionsOK(b.picks),
	}
}

func (b *builder) tryAdd(p models.Player) bool {
	for _, x := range b.picks {
		if x.ID == p.ID {
			return false
		}
	}
	if b.budgetLeft-p.Price < 0 {
		return false
	}
	if ClubCounts(b.picks)[p.ClubID] >= MaxPerClub {
		return false
	}
	b.picks = append(b.picks, p)
	b.budgetLeft -= p.Price
	return true
}

func (b *builder) seedPremium(candidates map[models.Position][]RankedPlayer) {
	var premium []RankedPlayer
	premium = append(premium, truncate(candidates[models.Midfielder], b.cfg.PremiumPool)...)
	premium = append(premium, truncate(candidates[models.Forward], b.cfg.PremiumPool)...)
	sortByHorizon(premium)

	for _, rp := range truncate(premium, b.cfg.PremiumTop) {
		if b.tryAdd(rp.Player) && b.attackers() >= b.cfg.PremiumCount {
			return
		}
	}
}

func (b *builder) attackers() int {
	counts := PositionCounts(b.picks)
	return counts[models.Midfielder] + counts[models.Forward]
}

// fillCheapest plugs structural gaps with the cheapest playable players, filling
// positions in squad order.
func (b *builder) fillCheapest(playable []RankedPlayer) {
	if positionsOK(b.picks) {
		return
	}
	cheap := make([]models.Player, len(playable))
	for i, rp := range playable {
		cheap[i] = rp.Player
	}
	sort.SliceStable(cheap, func(i, j int) bool {
		return cheap[i].Price < cheap[j].Price
	})
	for _, p := range cheap {
		if positionsOK(b.picks) {
			return
		}
		if need, ok := b.missing(); ok && p.Position == need {
			b.tryAdd(p)
		}
	}
}

func (b *builder) missing() (models.Position, bool) {
	counts := PositionCounts(b.picks)
	for _, pos := range []models.Position{models.Goalkeeper, models.Defender, models.Midfielder, models.Forward} {
		if counts[pos] < RequiredCounts[pos] {
			return pos, true
		}
	}
	return 0, false
}

// improve applies the first swap that beats the current horizon score by more than
// MinImprovement, restarting the scan after each accepted swap.
func (b *builder) improve(candidates map[models.Position][]RankedPlayer) {
	for iter := 0; iter < b.cfg.MaxIterations; iter++ {
		if !b.improveOnce(candidates) {
			return
		}
	}
}

func (b *builder) improveOnce(candidates map[models.Position][]RankedPlayer) bool {
	base := b.scorer.Score(b.picks, b.start, b.n).Total
	owned := make(map[int]bool, len(b.picks))
	for _, p := range b.picks {
		owned[p.ID] = true
	}

	for i, out := range b.picks {
		for _, rp := range truncate(candidates[out.Position], b.cfg.SwapCandidates) {
			in := rp.Player
			if owned[in.ID] {
				continue
			}
			left := b.budgetLeft + out.Price - in.Price
			if left < 0 {
				continue
			}
			next := make([]models.Player, len(b.picks))
			copy(next, b.picks)
			next[i] = in
			if ClubCounts(next)[in.ClubID] > MaxPerClub || !positionsOK(next) {
				continue
			}
			if b.scorer.Score(next, b.start, b.n).Total > base+b.cfg.MinImprovement {
				b.picks = next
				b.budgetLeft = left
				return true
			}
		}
	}
	return false
}
