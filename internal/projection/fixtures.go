package projection

import (
	"time"

	"github.com/subarna007/fpl-helper/internal/models"
)

// FixtureContext is one club's view of a fixture.
type FixtureContext struct {
	FixtureID      int        `json:"fixture_id"`
	IsHome         bool       `json:"is_home"`
	OpponentClubID int        `json:"opponent_club_id"`
	Difficulty     int        `json:"difficulty"`
	Kickoff        *time.Time `json:"kickoff,omitempty"`
}

// Resolve returns the first fixture in gw involving clubID, or nil for a blank gameweek.
func Resolve(fixtures []models.Fixture, clubID, gw int) *FixtureContext {
	for i := range fixtures {
		f := &fixtures[i]
		if !f.InGameweek(gw) {
			continue
		}
		if f.HomeClubID == clubID || f.AwayClubID == clubID {
			return contextFor(f, clubID)
		}
	}
	return nil
}

func contextFor(f *models.Fixture, clubID int) *FixtureContext {
	isHome := f.HomeClubID == clubID
	ctx := &FixtureContext{
		FixtureID: f.ID,
		IsHome:    isHome,
		Kickoff:   f.Kickoff,
	}
	if isHome {
		ctx.OpponentClubID = f.AwayClubID
		ctx.Difficulty = f.HomeDifficulty
	} else {
		ctx.OpponentClubID = f.HomeClubID
		ctx.Difficulty = f.AwayDifficulty
	}
	if ctx.Difficulty == 0 {
		ctx.Difficulty = models.NeutralDifficulty
	}
	return ctx
}

// FixtureIndex buckets fixtures by gameweek. Lookups return exactly what Resolve
// would return on the original list.
type FixtureIndex struct {
	byGameweek map[int][]models.Fixture
}

func NewFixtureIndex(fixtures []models.Fixture) *FixtureIndex {
	idx := &FixtureIndex{byGameweek: make(map[int][]models.Fixture)}
	for _, f := range fixtures {
		if f.Gameweek == nil {
			continue
		}
		idx.byGameweek[*f.Gameweek] = append(idx.byGameweek[*f.Gameweek], f)
	}
	return idx
}

func (ix *FixtureIndex) Resolve(clubID, gw int) *FixtureContext {
	return Resolve(ix.byGameweek[gw], clubID, gw)
}
