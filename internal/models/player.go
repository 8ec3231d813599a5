package models

import "fmt"

// Position is the provider's element_type: 1 GK, 2 DEF, 3 MID, 4 FWD.
type Position int

const (
	Goalkeeper Position = 1
	Defender   Position = 2
	Midfielder Position = 3
	Forward    Position = 4
)

// OutfieldPositions lists the positions the transfer search trades in.
var OutfieldPositions = []Position{Defender, Midfielder, Forward}

func (p Position) String() string {
	switch p {
	case Goalkeeper:
		return "GKP"
	case Defender:
		return "DEF"
	case Midfielder:
		return "MID"
	case Forward:
		return "FWD"
	default:
		return fmt.Sprintf("POS(%d)", int(p))
	}
}

// Valid reports whether p is one of the four squad positions.
func (p Position) Valid() bool {
	return p >= Goalkeeper && p <= Forward
}

// StatusActive is the provider availability code for a fully available player.
const StatusActive = "a"

// Risk tags surfaced to the UI.
const (
	RiskOK     = "ok"
	RiskMinor  = "risk"
	RiskDoubt  = "doubt"
	RiskInjury = "injury"
)

// Player is an immutable snapshot of one provider element.
type Player struct {
	ID                       int      `json:"id"`
	WebName                  string   `json:"web_name"`
	Position                 Position `json:"position"`
	ClubID                   int      `json:"club_id"`
	Price                    int      `json:"price"` // tenths of a currency unit
	Form                     float64  `json:"form"`
	Minutes                  int      `json:"minutes"`
	Starts                   int      `json:"starts"`
	TotalPoints              int      `json:"total_points"`
	Status                   string   `json:"status"`
	ChanceOfPlaying          *int     `json:"chance_of_playing,omitempty"`
	Ownership                float64  `json:"ownership"` // percent, e.g. 23.4
	ExpectedGoalInvolvements float64  `json:"expected_goal_involvements"`
}

// IsActive treats a missing status as available, as the provider omits it for some records.
func (p Player) IsActive() bool {
	return p.Status == "" || p.Status == StatusActive
}

// Chance returns the probability of playing, treating unknown as 100.
func (p Player) Chance() int {
	if p.ChanceOfPlaying == nil {
		return 100
	}
	return *p.ChanceOfPlaying
}

// Flagged reports a non-active status or a known chance of playing below threshold.
func (p Player) Flagged(chanceThreshold int) bool {
	if !p.IsActive() {
		return true
	}
	return p.ChanceOfPlaying != nil && *p.ChanceOfPlaying < chanceThreshold
}

// RiskTag maps availability to the coarse tag shown next to a player.
func (p Player) RiskTag() string {
	if !p.IsActive() {
		return RiskInjury
	}
	if p.ChanceOfPlaying != nil {
		switch c := *p.ChanceOfPlaying; {
		case c < 50:
			return RiskInjury
		case c < 75:
			return RiskDoubt
		case c < 100:
			return RiskMinor
		}
	}
	return RiskOK
}

// Club is a Premier League team with provider strength ratings.
type Club struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	ShortName           string `json:"short_name"`
	StrengthAttackHome  int    `json:"strength_attack_home"`
	StrengthAttackAway  int    `json:"strength_attack_away"`
	StrengthDefenceHome int    `json:"strength_defence_home"`
	StrengthDefenceAway int    `json:"strength_defence_away"`
}
