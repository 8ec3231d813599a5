package optimizer

import (
	"fmt"
	"math"
	"sort"

	"github.com/subarna007/fpl-helper/internal/models"
	"github.com/subarna007/fpl-helper/internal/projection"
	"github.com/subarna007/fpl-helper/pkg/utils"
)

// SwingProjector adds the fixture-run score used by upgrade suggestions.
type SwingProjector interface {
	Projector
	FixtureSwing(clubID, start, n int) float64
}

// UpgradeConfig tunes SuggestUpgrades. Scored caps the affordable replacements
// scored per outgoing player, best horizon first.
type UpgradeConfig struct {
	OutCandidates  int            `json:"out_candidates"`
	Filter         PlayableFilter `json:"filter"`
	Scored         int            `json:"scored"`
	EOWeight       float64        `json:"eo_weight"`
	SwingWeight    float64        `json:"swing_weight"`
	MinScore       float64        `json:"min_score"`
	MaxSuggestions int            `json:"max_suggestions"`
}

func DefaultUpgradeConfig() UpgradeConfig {
	return UpgradeConfig{
		OutCandidates:  8,
		Filter:         PlayableFilter{MinMinutes: 450, MinChance: 75, RequireActive: true},
		Scored:         10,
		EOWeight:       1.2,
		SwingWeight:    0.8,
		MinScore:       1.6,
		MaxSuggestions: 5,
	}
}

// Upgrade is a standalone out/in suggestion.
type Upgrade struct {
	Position models.Position `json:"position"`
	Out      models.Player   `json:"out"`
	In       models.Player   `json:"in"`
	Gain     float64         `json:"gain"`
	Score    float64         `json:"score"`
	Reasons  []string        `json:"reasons"`
}

type swingPlayer struct {
	player  models.Player
	horizon float64
	swing   float64
	selling int
}

// SuggestUpgrades scores like-for-like replacements for the weakest outfield players by
// horizon gain, ownership pressure and fixture-swing improvement. At most one
// suggestion per position is returned.
func SuggestUpgrades(squad Squad, pool []models.Player, proj SwingProjector, start, horizon int, cfg UpgradeConfig) []Upgrade {
	var outs []swingPlayer
	for _, p := range squad.Players {
		if p.Position == models.Goalkeeper {
			continue
		}
		outs = append(outs, swingPlayer{
			player:  p,
			horizon: proj.Horizon(p, start, horizon),
			swing:   proj.FixtureSwing(p.ClubID, start, horizon),
			selling: squad.SellingPrice(p),
		})
	}
	sort.SliceStable(outs, func(i, j int) bool {
		return outs[i].horizon < outs[j].horizon
	})
	outs = truncate(outs, cfg.OutCandidates)

	var available []models.Player
	for _, p := range pool {
		if !squad.Contains(p.ID) && cfg.Filter.Allows(p) {
			available = append(available, p)
		}
	}

	var suggestions []Upgrade
	for _, out := range outs {
		var cands []swingPlayer
		for _, p := range available {
			if !Feasible(squad, out.player, p, squad.Bank) {
				continue
			}
			cands = append(cands, swingPlayer{
				player:  p,
				horizon: proj.Horizon(p, start, horizon),
				swing:   proj.FixtureSwing(p.ClubID, start, horizon),
			})
		}
		sort.SliceStable(cands, func(i, j int) bool {
			return cands[i].horizon > cands[j].horizon
		})
		cands = truncate(cands, cfg.Scored)

		for _, c := range cands {
			gain := c.horizon - out.horizon
			score := gain +
				projection.EOPressure(c.player.Ownership)*cfg.EOWeight +
				math.Max(0, c.swing-out.swing)*cfg.SwingWeight
			if score < cfg.MinScore {
				continue
			}
			suggestions = append(suggestions, Upgrade{
				Position: out.player.Position,
				Out:      out.player,
				In:       c.player,
				Gain:     utils.Round(gain, 2),
				Score:    utils.Round(score, 2),
				Reasons:  upgradeReasons(gain, c, out, horizon),
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	final := make([]Upgrade, 0, cfg.MaxSuggestions)
	seen := make(map[models.Position]bool)
	for _, s := range suggestions {
		if seen[s.Position] {
			continue
		}
		seen[s.Position] = true
		final = append(final, s)
		if len(final) >= cfg.MaxSuggestions {
			break
		}
	}
	return final
}

func upgradeReasons(gain float64, in, out swingPlayer, horizon int) []string {
	var reasons []string
	if gain > 2 {
		reasons = append(reasons, fmt.Sprintf("+%.1f pts over %d GWs", gain, horizon))
	}
	if in.swing > out.swing+0.8 {
		reasons = append(reasons, "Fixture swing improves")
	}
	if in.player.Ownership >= 20 {
		reasons = append(reasons, fmt.Sprintf("EO shield (%.1f%% owned)", in.player.Ownership))
	}
	if len(reasons) < 3 {
		reasons = append(reasons, "Minutes security + low injury risk")
	}
	return truncate(reasons, 3)
}

// RecommendationConfig bounds the odds-aware XI upgrade ranking.
type RecommendationConfig struct {
	FlagChance    int            `json:"flag_chance"`
	OutCandidates int            `json:"out_candidates"`
	Filter        PlayableFilter `json:"filter"`
	ShortlistSize int            `json:"shortlist_size"`
	InPerOut      int            `json:"in_per_out"`
	PerPosition   int            `json:"per_position"`
	MaxResults    int            `json:"max_results"`
	Fallback      int            `json:"fallback"`
}

func DefaultRecommendationConfig() RecommendationConfig {
	return RecommendationConfig{
		FlagChance:    100,
		OutCandidates: 10,
		Filter:        PlayableFilter{MinMinutes: 180, MinChance: 50, RequireActive: true},
		ShortlistSize: 50,
		InPerOut:      30,
		PerPosition:   2,
		MaxResults:    8,
		Fallback:      5,
	}
}

// XIUpgrades is the odds-aware recommendation result.
type XIUpgrades struct {
	Baseline float64 `json:"baseline"`
	Moves    []Move  `json:"moves"`
}

// RecommendUpgrades ranks single transfers by change in horizon XI value. The result
// is balanced to PerPosition moves per position and MaxResults overall, keeping only
// positive gains; when none is positive the top Fallback moves are returned instead.
func RecommendUpgrades(squad Squad, pool []models.Player, proj Projector, start, horizon int, cfg RecommendationConfig) XIUpgrades {
	scorer := NewScorer(proj)
	baseline := scorer.Score(squad.Players, start, horizon)

	outs := OutgoingCandidates(squad, proj, start, horizon, cfg.FlagChance, cfg.OutCandidates)
	shortlists := IncomingShortlists(pool, squad, proj, start, horizon, cfg.Filter, cfg.ShortlistSize)

	search := &Search{
		Scorer:  scorer,
		Policy:  Policy{InPerOut: cfg.InPerOut},
		Start:   start,
		Horizon: horizon,
	}
	all := search.Single(squad, baseline, outs, shortlists)

	picked := make([]Move, 0, cfg.MaxResults)
	perPos := make(map[models.Position]int)
	for _, m := range all {
		if len(picked) >= cfg.MaxResults {
			break
		}
		pos := m.Transfers[0].Out.Position
		if perPos[pos] >= cfg.PerPosition || m.Gain <= 0 {
			continue
		}
		perPos[pos]++
		picked = append(picked, m)
	}
	if len(picked) == 0 {
		picked = append(picked, truncate(all, cfg.Fallback)...)
	}
	return XIUpgrades{Baseline: baseline.Total, Moves: picked}
}
