package optimizer

import (
	"fmt"
	"strconv"

	"github.com/subarna007/fpl-helper/internal/models"
)

type Verdict string

const (
	VerdictRoll        Verdict = "roll"
	VerdictUseTransfer Verdict = "use_transfer"
	VerdictTakeHit     Verdict = "take_hit"
)

type Recommendation struct {
	Verdict Verdict `json:"verdict"`
	Reason  string  `json:"reason"`
}

// Recommend decides between rolling, a free transfer and a hit. singles and doubles
// must be ranked best first. A flagged player anywhere in the squad allows a free
// transfer below the threshold.
func Recommend(singles, doubles []Move, squad Squad, horizon int, policy Policy) Recommendation {
	threshold := fmtPoints(policy.RollThreshold)

	if len(doubles) > 0 && doubles[0].NetGain >= policy.RollThreshold {
		return Recommendation{
			Verdict: VerdictTakeHit,
			Reason:  fmt.Sprintf("A -%s plan beats roll by +%s over next %d GWs.", fmtPoints(policy.HitCost), fmtPoints(doubles[0].NetGain), horizon),
		}
	}
	if len(singles) > 0 && singles[0].Gain >= policy.RollThreshold {
		return Recommendation{
			Verdict: VerdictUseTransfer,
			Reason:  fmt.Sprintf("A single transfer improves your Best XI by +%s over next %d GWs.", fmtPoints(singles[0].Gain), horizon),
		}
	}
	if len(singles) > 0 && hasFlagged(squad.Players, policy.FlagChance) {
		return Recommendation{
			Verdict: VerdictUseTransfer,
			Reason:  "You have a flagged player; safest move is to fix minutes risk even if gain is modest.",
		}
	}
	return Recommendation{
		Verdict: VerdictRoll,
		Reason:  fmt.Sprintf("No transfer improves your Best XI by ≥%s over next %d GWs.", threshold, horizon),
	}
}

func hasFlagged(players []models.Player, flagChance int) bool {
	for _, p := range players {
		if p.Flagged(flagChance) {
			return true
		}
	}
	return false
}

// BuildPlans returns Plan A (roll, or the best single when the verdict is not roll)
// followed by Plan B (the best hit) when one exists.
func BuildPlans(rec Recommendation, baseline HorizonScore, singles, doubles []Move, horizon int, policy Policy) []Plan {
	plans := make([]Plan, 0, 2)

	if rec.Verdict == VerdictRoll || len(singles) == 0 {
		plans = append(plans, Plan{
			Label:       "Plan A (Roll)",
			Transfers:   []Transfer{},
			PerGameweek: baseline.PerGameweek,
			Rationale: []string{
				rec.Reason,
				"Keeps flexibility for next GW fixture swing",
				"Avoids spending transfers for marginal gains",
			},
		})
	} else {
		best := singles[0]
		in := best.Transfers[0].In
		security := "medium"
		if in.Minutes >= 900 {
			security = "strong"
		}
		plans = append(plans, Plan{
			Label:       "Plan A (1 Transfer)",
			Transfers:   best.Transfers,
			Gain:        best.Gain,
			NetGain:     best.Gain,
			PerGameweek: best.Score.PerGameweek,
			Rationale: []string{
				fmt.Sprintf("Improves Best XI projection by +%s over %d GWs", fmtPoints(best.Gain), horizon),
				"Minutes security: " + security,
				"Fixture run improves vs your current option (modelled via difficulty + form)",
			},
		})
	}

	if len(doubles) > 0 {
		hit := doubles[0]
		plans = append(plans, Plan{
			Label:       fmt.Sprintf("Plan B (-%s)", fmtPoints(policy.HitCost)),
			Transfers:   hit.Transfers,
			HitCost:     hit.HitCost,
			Gain:        hit.Gain,
			NetGain:     hit.NetGain,
			PerGameweek: hit.Score.PerGameweek,
			Rationale: []string{
				fmt.Sprintf("Net gain after -%s: +%s over %d GWs", fmtPoints(policy.HitCost), fmtPoints(hit.NetGain), horizon),
				"Improves more than one XI slot / captaincy flexibility",
				"Only suggested because it beats the roll option",
			},
		})
	}
	return plans
}

// TransferPlan is the full planner output for one squad.
type TransferPlan struct {
	StartGameweek  int            `json:"start_gameweek"`
	Horizon        int            `json:"horizon"`
	Bank           int            `json:"bank"`
	Baseline       float64        `json:"baseline"`
	Recommendation Recommendation `json:"recommendation"`
	Plans          []Plan         `json:"plans"`
}

// PlanTransfers runs the whole pipeline: baseline, candidates, single and double
// search, verdict and plans. It is a pure function of its inputs.
func PlanTransfers(squad Squad, pool []models.Player, proj Projector, start, horizon int, policy Policy) TransferPlan {
	scorer := NewScorer(proj)
	baseline := scorer.Score(squad.Players, start, horizon)

	outs := OutgoingCandidates(squad, proj, start, horizon, policy.FlagChance, policy.OutCandidates)
	shortlists := IncomingShortlists(pool, squad, proj, start, horizon, policy.Incoming, policy.InShortlistSize)

	search := &Search{Scorer: scorer, Policy: policy, Start: start, Horizon: horizon}
	singles := search.Single(squad, baseline, outs, shortlists)
	doubles := search.Double(squad, baseline, singles, shortlists)

	rec := Recommend(singles, doubles, squad, horizon, policy)
	return TransferPlan{
		StartGameweek:  start,
		Horizon:        horizon,
		Bank:           squad.Bank,
		Baseline:       baseline.Total,
		Recommendation: rec,
		Plans:          BuildPlans(rec, baseline, singles, doubles, horizon, policy),
	}
}

func fmtPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
