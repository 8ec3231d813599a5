package models

import "time"

// NeutralDifficulty is used whenever the provider gives no rating.
const NeutralDifficulty = 3

// Fixture is one scheduled (or not yet scheduled) match.
type Fixture struct {
	ID             int        `json:"id"`
	Gameweek       *int       `json:"gameweek,omitempty"` // nil until the provider assigns a round
	HomeClubID     int        `json:"home_club_id"`
	AwayClubID     int        `json:"away_club_id"`
	HomeDifficulty int        `json:"home_difficulty"`
	AwayDifficulty int        `json:"away_difficulty"`
	Kickoff        *time.Time `json:"kickoff,omitempty"`
}

// InGameweek reports whether the fixture is scheduled in gw.
func (f Fixture) InGameweek(gw int) bool {
	return f.Gameweek != nil && *f.Gameweek == gw
}

// Event is a gameweek as described by the bootstrap payload.
type Event struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	IsCurrent bool       `json:"is_current"`
	IsNext    bool       `json:"is_next"`
	Finished  bool       `json:"finished"`
	Deadline  *time.Time `json:"deadline,omitempty"`
}

// Bootstrap is the typed form of the provider's bulk payload.
type Bootstrap struct {
	Players []Player `json:"players"`
	Clubs   []Club   `json:"clubs"`
	Events  []Event  `json:"events"`
}

// CurrentGameweek picks the current event, else the next one, else 1.
func (b *Bootstrap) CurrentGameweek() int {
	for _, e := range b.Events {
		if e.IsCurrent {
			return e.ID
		}
	}
	for _, e := range b.Events {
		if e.IsNext {
			return e.ID
		}
	}
	return 1
}

func (b *Bootstrap) PlayersByID() map[int]Player {
	byID := make(map[int]Player, len(b.Players))
	for _, p := range b.Players {
		byID[p.ID] = p
	}
	return byID
}

func (b *Bootstrap) ClubsByID() map[int]Club {
	byID := make(map[int]Club, len(b.Clubs))
	for _, c := range b.Clubs {
		byID[c.ID] = c
	}
	return byID
}

// EntryInfo is the account metadata of one fantasy entry.
type EntryInfo struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Bank        int    `json:"bank"`       // tenths
	TeamValue   int    `json:"team_value"` // tenths
	OverallRank int    `json:"overall_rank"`
}

// Pick is one of the 15 squad slots for an entry in a gameweek.
type Pick struct {
	PlayerID      int  `json:"player_id"`
	Slot          int  `json:"slot"`
	SellingPrice  int  `json:"selling_price"` // tenths, 0 when unknown
	IsCaptain     bool `json:"is_captain"`
	IsViceCaptain bool `json:"is_vice_captain"`
}

// OddsRow is one upcoming match from the market odds feed.
// Team names are stored already normalised.
type OddsRow struct {
	League     string   `json:"league"`
	Date       string   `json:"date"` // DD/MM/YYYY
	Time       string   `json:"time,omitempty"`
	Home       string   `json:"home"`
	Away       string   `json:"away"`
	AvgHome    *float64 `json:"avg_home,omitempty"`
	AvgDraw    *float64 `json:"avg_draw,omitempty"`
	AvgAway    *float64 `json:"avg_away,omitempty"`
	AvgOver25  *float64 `json:"avg_over25,omitempty"`
	AvgUnder25 *float64 `json:"avg_under25,omitempty"`
}
