package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subarna007/fpl-helper/pkg/utils"
)

const oddsCSV = "\ufeffDiv,Date,Time,HomeTeam,AwayTeam,AvgH,AvgD,AvgA,Avg>2.5,Avg<2.5,BbAv>2.5,BbAv<2.5,B365>2.5,B365<2.5\n" +
	"E0,16/08/2025,15:00,Man United,Nott'm Forest,1.80,3.90,4.50,1.70,2.20,,,,\n" +
	"E1,16/08/2025,15:00,Leeds,Burnley,2.10,3.30,3.60,2.00,1.80,,,,\n" +
	"E0,17/08/2025,16:30,Arsenal,Chelsea,2.00,3.50,3.80,,,1.90,1.95,1.85,2.00\n" +
	"E0,18/08/2025,20:00,Wolves,Spurs,abc,3.40,,,,,,1.75,\n"

func TestParseOddsCSV(t *testing.T) {
	rows, err := ParseOddsCSV(strings.NewReader(oddsCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3, "non Premier League rows are skipped")

	first := rows[0]
	assert.Equal(t, "E0", first.League)
	assert.Equal(t, "16/08/2025", first.Date)
	assert.Equal(t, "15:00", first.Time)
	assert.Equal(t, "man united", first.Home)
	assert.Equal(t, "nottm forest", first.Away)
	require.NotNil(t, first.AvgHome)
	assert.InDelta(t, 1.80, *first.AvgHome, 1e-9)
	require.NotNil(t, first.AvgOver25)
	assert.InDelta(t, 1.70, *first.AvgOver25, 1e-9)

	second := rows[1]
	require.NotNil(t, second.AvgOver25)
	assert.InDelta(t, 1.90, *second.AvgOver25, 1e-9, "falls back to BbAv columns")
	require.NotNil(t, second.AvgUnder25)
	assert.InDelta(t, 1.95, *second.AvgUnder25, 1e-9)

	third := rows[2]
	assert.Nil(t, third.AvgHome, "unparseable odds are absent")
	assert.Nil(t, third.AvgAway)
	require.NotNil(t, third.AvgOver25)
	assert.InDelta(t, 1.75, *third.AvgOver25, 1e-9, "falls back to B365 columns")
	assert.Nil(t, third.AvgUnder25)
}

func TestParseOddsCSVEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "empty body", body: "", want: 0},
		{name: "header only", body: "Div,Date,HomeTeam,AwayTeam\n", want: 0},
		{name: "short rows", body: "Div,Date,HomeTeam,AwayTeam,AvgH\nE0,01/01/2026,Arsenal\n", want: 1},
		{name: "infinite odds", body: "Div,HomeTeam,AwayTeam,AvgH\nE0,Arsenal,Chelsea,Inf\n", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ParseOddsCSV(strings.NewReader(tt.body))
			require.NoError(t, err)
			assert.Len(t, rows, tt.want)
			for _, r := range rows {
				assert.Nil(t, r.AvgHome)
			}
		})
	}
}

func TestOddsClientUpcoming(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(oddsCSV))
	}))
	defer server.Close()

	obs := &recordingObserver{}
	client := NewOddsClient(server.URL, 5*time.Second, quietLogger(), WithOddsObserver(obs))
	rows, err := client.Upcoming(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, []string{"odds/fixtures.csv/200"}, obs.calls)
}

func TestOddsClientErrors(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewOddsClient(server.URL, 5*time.Second, quietLogger())
		_, err := client.Upcoming(context.Background())
		require.Error(t, err)
		assert.Equal(t, "odds request failed: 503", err.Error())
		assert.True(t, errors.Is(err, utils.ErrUpstream))
	})

	t.Run("open breaker", func(t *testing.T) {
		client := NewOddsClient("http://127.0.0.1:1", time.Second, quietLogger(),
			WithOddsBreaker(fakeBreaker{err: gobreaker.ErrOpenState}))
		_, err := client.Upcoming(context.Background())
		require.Error(t, err)

		var upstream *UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, "odds", upstream.Service)
		assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	})
}
