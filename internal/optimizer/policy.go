package optimizer

import "github.com/subarna007/fpl-helper/internal/models"

// Policy holds the planner's search bounds and decision thresholds.
type Policy struct {
	RollThreshold       float64        `json:"roll_threshold"`
	HitCost             float64        `json:"hit_cost"`
	FlagChance          int            `json:"flag_chance"`
	OutCandidates       int            `json:"out_candidates"`
	SecondOutCandidates int            `json:"second_out_candidates"`
	InShortlistSize     int            `json:"in_shortlist_size"`
	InPerOut            int            `json:"in_per_out"`
	SecondMoveBranches  int            `json:"second_move_branches"`
	Incoming            PlayableFilter `json:"incoming"`
}

func DefaultPolicy() Policy {
	return Policy{
		RollThreshold:       3.5,
		HitCost:             4,
		FlagChance:          75,
		OutCandidates:       8,
		SecondOutCandidates: 6,
		InShortlistSize:     60,
		InPerOut:            25,
		SecondMoveBranches:  10,
		Incoming:            PlayableFilter{MinMinutes: 180, RequireActive: true},
	}
}

// PlayableFilter decides whether a player may be brought in.
// An unknown chance of playing counts as 100.
type PlayableFilter struct {
	MinMinutes    int  `json:"min_minutes"`
	MinChance     int  `json:"min_chance"`
	RequireActive bool `json:"require_active"`
}

func (f PlayableFilter) Allows(p models.Player) bool {
	if f.RequireActive && !p.IsActive() {
		return false
	}
	if p.Minutes < f.MinMinutes {
		return false
	}
	return p.Chance() >= f.MinChance
}
