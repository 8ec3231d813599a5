package optimizer

import (
	"sort"

	"github.com/subarna007/fpl-helper/internal/models"
	"github.com/subarna007/fpl-helper/pkg/utils"
)

// Move is a scored set of one or two transfers.
type Move struct {
	Transfers []Transfer   `json:"transfers"`
	HitCost   float64      `json:"hit_cost"`
	Gain      float64      `json:"gain"`
	NetGain   float64      `json:"net_gain"`
	Score     HorizonScore `json:"score"`
	Squad     Squad        `json:"-"`
}

// Search evaluates transfers for one squad over a fixed horizon window.
type Search struct {
	Scorer  *Scorer
	Policy  Policy
	Start   int
	Horizon int
}

// Single tries the top incoming players for every outgoing candidate and returns each
// feasible swap ranked by gain over baseline. Gains may be negative.
func (s *Search) Single(squad Squad, baseline HorizonScore, outs []OutCandidate, shortlists map[models.Position][]RankedPlayer) []Move {
	var moves []Move
	for _, out := range outs {
		for _, in := range truncate(shortlists[out.Player.Position], s.Policy.InPerOut) {
			if !Feasible(squad, out.Player, in.Player, squad.Bank) {
				continue
			}
			t := Transfer{Out: out.Player, In: in.Player, SellingPrice: squad.SellingPrice(out.Player)}
			after := squad.Apply(t)
			score := s.Scorer.Score(after.Players, s.Start, s.Horizon)
			gain := utils.Round(score.Total-baseline.Total, 2)
			moves = append(moves, Move{
				Transfers: []Transfer{t},
				Gain:      gain,
				NetGain:   gain,
				Score:     score,
				Squad:     after,
			})
		}
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Gain > moves[j].Gain
	})
	return moves
}

// Double branches from the best single moves, adds a second transfer against the
// modified squad and charges the hit. Only positive net gains are kept, and a pair
// reached in either order is reported once.
func (s *Search) Double(squad Squad, baseline HorizonScore, singles []Move, shortlists map[models.Position][]RankedPlayer) []Move {
	best := make(map[[2][2]int]int)
	var moves []Move

	for _, first := range truncate(singles, s.Policy.SecondMoveBranches) {
		t1 := first.Transfers[0]
		after1 := first.Squad

		seconds := make([]models.Player, 0, len(after1.Players))
		for _, p := range after1.Players {
			if p.ID != t1.In.ID {
				seconds = append(seconds, p)
			}
		}
		outs := OutgoingCandidates(Squad{Players: seconds, SellingPrices: squad.SellingPrices}, s.Scorer.Projector, s.Start, s.Horizon, 0, -1)
		sort.SliceStable(outs, func(i, j int) bool {
			return outs[i].Contribution < outs[j].Contribution
		})
		outs = truncate(outs, s.Policy.SecondOutCandidates)

		for _, out2 := range outs {
			var ins []RankedPlayer
			for _, in2 := range shortlists[out2.Player.Position] {
				if !after1.Contains(in2.Player.ID) {
					ins = append(ins, in2)
				}
			}
			for _, in2 := range truncate(ins, s.Policy.InPerOut) {
				if in2.Player.ID == t1.Out.ID {
					continue
				}
				if !Feasible(after1, out2.Player, in2.Player, after1.Bank) {
					continue
				}
				t2 := Transfer{Out: out2.Player, In: in2.Player, SellingPrice: squad.SellingPrice(out2.Player)}
				after2 := after1.Apply(t2)
				score := s.Scorer.Score(after2.Players, s.Start, s.Horizon)
				raw := score.Total - baseline.Total
				net := utils.Round(raw-s.Policy.HitCost, 2)
				if net <= 0 {
					continue
				}

				m := Move{
					Transfers: []Transfer{t1, t2},
					HitCost:   s.Policy.HitCost,
					Gain:      utils.Round(raw, 2),
					NetGain:   net,
					Score:     score,
					Squad:     after2,
				}
				key := pairKey(t1, t2)
				if i, ok := best[key]; ok {
					if m.NetGain > moves[i].NetGain {
						moves[i] = m
					}
					continue
				}
				best[key] = len(moves)
				moves = append(moves, m)
			}
		}
	}

	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].NetGain > moves[j].NetGain
	})
	return moves
}

func pairKey(a, b Transfer) [2][2]int {
	ka, kb := a.key(), b.key()
	if kb[0] < ka[0] || (kb[0] == ka[0] && kb[1] < ka[1]) {
		ka, kb = kb, ka
	}
	return [2][2]int{ka, kb}
}
