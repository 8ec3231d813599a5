package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestPlayerRiskTag(t *testing.T) {
	tests := []struct {
		name   string
		player Player
		want   string
	}{
		{"active no chance", Player{Status: "a"}, RiskOK},
		{"empty status", Player{}, RiskOK},
		{"injured", Player{Status: "i"}, RiskInjury},
		{"suspended", Player{Status: "s", ChanceOfPlaying: intPtr(100)}, RiskInjury},
		{"chance 25", Player{Status: "a", ChanceOfPlaying: intPtr(25)}, RiskInjury},
		{"chance 50", Player{Status: "a", ChanceOfPlaying: intPtr(50)}, RiskDoubt},
		{"chance 75", Player{Status: "a", ChanceOfPlaying: intPtr(75)}, RiskMinor},
		{"chance 100", Player{Status: "a", ChanceOfPlaying: intPtr(100)}, RiskOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.player.RiskTag())
		})
	}
}

func TestPlayerFlagged(t *testing.T) {
	assert.True(t, Player{Status: "d"}.Flagged(75))
	assert.True(t, Player{Status: "a", ChanceOfPlaying: intPtr(50)}.Flagged(75))
	assert.False(t, Player{Status: "a", ChanceOfPlaying: intPtr(75)}.Flagged(75))
	assert.True(t, Player{Status: "a", ChanceOfPlaying: intPtr(75)}.Flagged(100))
	assert.False(t, Player{Status: "a"}.Flagged(100))
}

func TestPlayerChance(t *testing.T) {
	assert.Equal(t, 100, Player{}.Chance())
	assert.Equal(t, 0, Player{ChanceOfPlaying: intPtr(0)}.Chance())
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "GKP", Goalkeeper.String())
	assert.Equal(t, "FWD", Forward.String())
	assert.Equal(t, "POS(9)", Position(9).String())
	assert.False(t, Position(0).Valid())
	assert.True(t, Midfielder.Valid())
}

func TestBootstrapCurrentGameweek(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   int
	}{
		{"current wins", []Event{{ID: 3, IsNext: true}, {ID: 2, IsCurrent: true}}, 2},
		{"next when no current", []Event{{ID: 1, Finished: true}, {ID: 2, IsNext: true}}, 2},
		{"fallback to 1", nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Bootstrap{Events: tt.events}
			assert.Equal(t, tt.want, b.CurrentGameweek())
		})
	}
}

func TestFixtureInGameweek(t *testing.T) {
	gw := 4
	assert.True(t, Fixture{Gameweek: &gw}.InGameweek(4))
	assert.False(t, Fixture{Gameweek: &gw}.InGameweek(5))
	assert.False(t, Fixture{}.InGameweek(4))
}
