package models

// NextFixture is a squad player's fixture in the current gameweek.
type NextFixture struct {
	IsHome        bool   `json:"is_home"`
	OpponentShort string `json:"opponent_short"`
	Difficulty    int    `json:"difficulty"`
}

// SquadPlayer is one pick enriched for the squad view.
type SquadPlayer struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	ClubShort   string       `json:"club_short"`
	ClubID      int          `json:"club_id"`
	Position    Position     `json:"position"`
	Price       int          `json:"price"`
	Form        float64      `json:"form"`
	Minutes     int          `json:"minutes"`
	TotalPoints int          `json:"total_points"`
	Ownership   float64      `json:"ownership"`
	Risk        string       `json:"risk"`
	NextFixture *NextFixture `json:"next_fixture"`
}

type CaptaincyPick struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	ClubShort string       `json:"club_short"`
	XPts      float64      `json:"xpts"`
	Ownership float64      `json:"ownership"`
	Risk      string       `json:"risk"`
	Fixture   *NextFixture `json:"fixture"`
}

type SquadMeta struct {
	TeamValue          int  `json:"team_value"`
	Bank               int  `json:"bank"`
	OverallRank        int  `json:"overall_rank"`
	TransfersAvailable int  `json:"transfers_available"`
	Captain            *int `json:"captain"`
	ViceCaptain        *int `json:"vice_captain"`
}

// SquadSnapshot is the dashboard view of an entry in its current gameweek.
type SquadSnapshot struct {
	EntryID   int             `json:"entry_id"`
	EntryName string          `json:"entry_name"`
	Gameweek  int             `json:"gameweek"`
	Meta      SquadMeta       `json:"meta"`
	Squad     []SquadPlayer   `json:"squad"`
	Captaincy []CaptaincyPick `json:"captaincy"`
}
