package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subarna007/fpl-helper/internal/models"
)

func TestNormalizeTeamName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Brighton & Hove Albion", "brighton and hove albion"},
		{"Nott'm Forest", "nottm forest"},
		{"  Man   City ", "man city"},
		{"A.F.C. Bournemouth", "afc bournemouth"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTeamName(tt.in), tt.in)
	}

	assert.Equal(t, "man city", MapClubName("Manchester City"))
	assert.Equal(t, "brighton", MapClubName("Brighton & Hove Albion"))
	assert.Equal(t, "arsenal", MapClubName("Arsenal"))
}

func TestImpliedProbabilities(t *testing.T) {
	pH, pD, pA, ok := Implied1X2(floatPtr(2), floatPtr(4), floatPtr(4))
	require.True(t, ok)
	assert.InDelta(t, 0.5, pH, 1e-9)
	assert.InDelta(t, 0.25, pD, 1e-9)
	assert.InDelta(t, 0.25, pA, 1e-9)

	_, _, _, ok = Implied1X2(floatPtr(2), nil, floatPtr(4))
	assert.False(t, ok)
	_, _, _, ok = Implied1X2(floatPtr(2), floatPtr(0), floatPtr(4))
	assert.False(t, ok)

	pOver, pUnder, ok := ImpliedOver25(floatPtr(1.5), floatPtr(3))
	require.True(t, ok)
	assert.InDelta(t, 2.0/3.0, pOver, 1e-9)
	assert.InDelta(t, 1.0/3.0, pUnder, 1e-9)
}

func TestMarketMultiplier(t *testing.T) {
	row := &models.OddsRow{
		AvgHome: floatPtr(2), AvgDraw: floatPtr(4), AvgAway: floatPtr(4),
		AvgOver25: floatPtr(2), AvgUnder25: floatPtr(2),
	}
	home := ProbabilitiesFor(row, true)
	require.NotNil(t, home.Win)
	require.NotNil(t, home.Over25)
	assert.InDelta(t, 0.5, *home.Win, 1e-9)
	away := ProbabilitiesFor(row, false)
	assert.InDelta(t, 0.25, *away.Win, 1e-9)

	// goals 1.15, win 1.1
	assert.InDelta(t, 1.265, MarketMultiplier(models.Midfielder, home), 1e-9)
	// plus clean sheet 1.3 * win 1.2
	assert.InDelta(t, 1.9734, MarketMultiplier(models.Defender, home), 1e-9)
	assert.Equal(t, 1.0, MarketMultiplier(models.Forward, MarketProbabilities{}))
}

func TestOddsBookFind(t *testing.T) {
	rows := []models.OddsRow{
		{League: "E0", Date: "09/08/2025", Home: "arsenal", Away: "man city", AvgHome: floatPtr(3)},
		{League: "E0", Date: "16/08/2025", Home: "arsenal", Away: "man city", AvgHome: floatPtr(2)},
		{League: "E0", Date: "16/08/2025", Home: "west brom", Away: "brighton", AvgHome: floatPtr(2.5)},
	}
	book := NewOddsBook(rows)
	assert.Equal(t, 3, book.Len())

	t.Run("kickoff date preferred", func(t *testing.T) {
		kick := time.Date(2025, 8, 16, 19, 30, 0, 0, time.UTC)
		r := book.Find(&kick, "Arsenal", "Manchester City")
		require.NotNil(t, r)
		assert.Equal(t, "16/08/2025", r.Date)
	})

	t.Run("first row when date misses", func(t *testing.T) {
		kick := time.Date(2025, 12, 1, 15, 0, 0, 0, time.UTC)
		r := book.Find(&kick, "Arsenal", "Manchester City")
		require.NotNil(t, r)
		assert.Equal(t, "09/08/2025", r.Date)

		r = book.Find(nil, "Arsenal", "Manchester City")
		require.NotNil(t, r)
		assert.Equal(t, "09/08/2025", r.Date)
	})

	t.Run("fuzzy team match", func(t *testing.T) {
		r := book.Find(nil, "West Bromwich Albion", "Brighton & Hove Albion")
		require.NotNil(t, r)
		assert.Equal(t, "west brom", r.Home)
	})

	t.Run("unknown fixture", func(t *testing.T) {
		assert.Nil(t, book.Find(nil, "Man City", "Arsenal"))
		assert.Nil(t, book.Find(nil, "Real Madrid", "Arsenal"))
	})

	t.Run("nil book", func(t *testing.T) {
		var empty *OddsBook
		assert.Equal(t, 0, empty.Len())
		assert.Nil(t, empty.Find(nil, "Arsenal", "Manchester City"))
	})
}

func TestModelWithOdds(t *testing.T) {
	rows := []models.OddsRow{{
		League: "E0", Date: "16/08/2025", Home: "arsenal", Away: "man city",
		AvgHome: floatPtr(2), AvgDraw: floatPtr(4), AvgAway: floatPtr(4),
		AvgOver25: floatPtr(2), AvgUnder25: floatPtr(2),
	}}
	plain := NewModel(testFixtures(), testClubs())
	market := plain.WithOdds(NewOddsBook(rows))
	assert.False(t, plain.HasOdds())
	assert.True(t, market.HasOdds())

	mid := models.Player{Position: models.Midfielder, ClubID: 1, Form: 5, Status: "a"}

	t.Run("matched fixture uses market multiplier", func(t *testing.T) {
		pts, _ := market.Gameweek(mid, 1)
		assert.InDelta(t, 5.175*0.7*1.265, pts, 0.001)

		plainPts, _ := plain.Gameweek(mid, 1)
		assert.InDelta(t, 5.175*0.7*0.92, plainPts, 0.001)
	})

	t.Run("away side reads away win probability", func(t *testing.T) {
		city := mid
		city.ClubID = 2
		pts, _ := market.Gameweek(city, 1)
		// goals 1.15, win 0.8 + 0.6*0.25
		assert.InDelta(t, 5.175*0.7*1.15*0.95, pts, 0.001)
	})

	t.Run("unmatched fixture falls back to difficulty", func(t *testing.T) {
		pts, _ := market.Gameweek(mid, 2)
		plainPts, _ := plain.Gameweek(mid, 2)
		assert.Equal(t, plainPts, pts)
	})

	t.Run("row without prices falls back", func(t *testing.T) {
		bare := plain.WithOdds(NewOddsBook([]models.OddsRow{{Date: "16/08/2025", Home: "arsenal", Away: "man city"}}))
		pts, _ := bare.Gameweek(mid, 1)
		plainPts, _ := plain.Gameweek(mid, 1)
		assert.Equal(t, plainPts, pts)
	})
}

func TestStrengthFactor(t *testing.T) {
	clubs := []models.Club{
		{ID: 1, Name: "Arsenal", StrengthAttackHome: 1300, StrengthDefenceHome: 1200, StrengthAttackAway: 1250, StrengthDefenceAway: 1150},
		{ID: 2, Name: "Manchester City", StrengthAttackHome: 1100, StrengthDefenceHome: 1200, StrengthAttackAway: 1050, StrengthDefenceAway: 1250},
		{ID: 3, Name: "Brighton & Hove Albion"},
	}
	m := NewModel(testFixtures(), clubs)

	tests := []struct {
		name   string
		club   int
		isHome bool
		want   float64
	}{
		{name: "strong home attack", club: 1, isHome: true, want: 0.65*1300.0/1200 + 0.35},
		{name: "weak home attack", club: 2, isHome: true, want: 0.65*1100.0/1200 + 0.35},
		{name: "away ratings", club: 2, isHome: false, want: 0.65*1050.0/1150 + 0.35*1250.0/1200},
		{name: "unrated club", club: 3, isHome: true, want: 1},
		{name: "unknown club", club: 99, isHome: true, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, m.StrengthFactor(tt.club, tt.isHome), 1e-9)
		})
	}

	t.Run("no rated clubs", func(t *testing.T) {
		assert.Equal(t, 1.0, NewModel(nil, testClubs()).StrengthFactor(1, true))
	})
}

func TestModelWithOddsAppliesStrength(t *testing.T) {
	rows := []models.OddsRow{{
		League: "E0", Date: "16/08/2025", Home: "arsenal", Away: "man city",
		AvgHome: floatPtr(2), AvgDraw: floatPtr(4), AvgAway: floatPtr(4),
		AvgOver25: floatPtr(2), AvgUnder25: floatPtr(2),
	}}
	clubs := testClubs()
	clubs[0].StrengthAttackHome, clubs[0].StrengthDefenceHome = 1300, 1200
	clubs[1].StrengthAttackHome, clubs[1].StrengthDefenceHome = 1100, 1200
	plain := NewModel(testFixtures(), clubs)
	market := plain.WithOdds(NewOddsBook(rows))

	mid := models.Player{Position: models.Midfielder, ClubID: 1, Form: 5, Status: "a"}
	pts, _ := market.Gameweek(mid, 1)
	assert.InDelta(t, 5.175*0.7*1.265*(0.65*1300.0/1200+0.35), pts, 0.001)

	// the difficulty path ignores ratings
	plainPts, _ := plain.Gameweek(mid, 1)
	assert.InDelta(t, 5.175*0.7*0.92, plainPts, 0.001)
}
