package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subarna007/fpl-helper/internal/models"
)

func TestSuggestUpgrades(t *testing.T) {
	squad := testSquad()
	def := player(201, models.Defender, 40, 50, 5)
	def.Ownership = 30
	mid := player(202, models.Midfielder, 41, 60, 9)
	mid.Ownership = 10
	dear := player(205, models.Midfielder, 42, 100, 20)
	weak := player(204, models.Defender, 43, 40, 2.5)
	pool := []models.Player{def, mid, dear, weak, squad.Players[3]}

	proj := formProjector{swing: map[int]float64{40: 1.0}}
	got := SuggestUpgrades(squad, pool, proj, 1, 1, DefaultUpgradeConfig())
	require.Len(t, got, 2)

	assert.Equal(t, models.Defender, got[0].Position)
	assert.Equal(t, 3, got[0].Out.ID)
	assert.Equal(t, 201, got[0].In.ID)
	assert.InDelta(t, 3.0, got[0].Gain, 1e-9)
	assert.InDelta(t, 4.4, got[0].Score, 1e-9)
	assert.Equal(t, []string{
		"+3.0 pts over 1 GWs",
		"Fixture swing improves",
		"EO shield (30.0% owned)",
	}, got[0].Reasons)

	assert.Equal(t, models.Midfielder, got[1].Position)
	assert.Equal(t, 8, got[1].Out.ID)
	assert.InDelta(t, 3.2, got[1].Score, 1e-9)
	assert.Equal(t, []string{"+3.0 pts over 1 GWs", "Minutes security + low injury risk"}, got[1].Reasons)

	for _, u := range got {
		assert.NotEqual(t, 205, u.In.ID)
		assert.GreaterOrEqual(t, u.Score, 1.6)
		assert.LessOrEqual(t, len(u.Reasons), 3)
	}
}

func TestSuggestUpgradesNothingWorthIt(t *testing.T) {
	squad := testSquad()
	pool := []models.Player{player(204, models.Defender, 43, 40, 2.5)}
	assert.Empty(t, SuggestUpgrades(squad, pool, formProjector{}, 1, 1, DefaultUpgradeConfig()))
}

func TestRecommendUpgrades(t *testing.T) {
	cfg := DefaultRecommendationConfig()

	t.Run("balanced per position", func(t *testing.T) {
		got := RecommendUpgrades(testSquad(), upgradePool(), formProjector{}, 1, 1, cfg)
		assert.InDelta(t, 67.0, got.Baseline, 1e-9)
		require.Len(t, got.Moves, 2)
		for _, m := range got.Moves {
			assert.Equal(t, models.Midfielder, m.Transfers[0].Out.Position)
			assert.Equal(t, 101, m.Transfers[0].In.ID)
			assert.InDelta(t, 6.0, m.Gain, 1e-9)
		}
	})

	t.Run("falls back to top moves when none gain", func(t *testing.T) {
		pool := []models.Player{player(104, models.Defender, 33, 40, 1)}
		got := RecommendUpgrades(testSquad(), pool, formProjector{}, 1, 1, cfg)
		require.Len(t, got.Moves, 5)
		for _, m := range got.Moves {
			assert.LessOrEqual(t, m.Gain, 0.0)
		}
	})

	t.Run("flagged players are sold first", func(t *testing.T) {
		squad := testSquad()
		squad.Players[13].ChanceOfPlaying = intPtr(75) // FWD id 14
		pool := []models.Player{player(150, models.Forward, 50, 55, 9)}
		got := RecommendUpgrades(squad, pool, formProjector{}, 1, 1, cfg)
		require.NotEmpty(t, got.Moves)
		assert.Equal(t, 14, got.Moves[0].Transfers[0].Out.ID)
	})
}
