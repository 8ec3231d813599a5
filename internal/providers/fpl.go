package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/subarna007/fpl-helper/internal/models"
)

const (
	DefaultFPLBaseURL = "https://fantasy.premierleague.com/api"
	fplService        = "fpl"
)

// FPLClient reads the public Fantasy Premier League API.
type FPLClient struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	breaker     Breaker
	cache       CacheProvider
	cacheTTL    time.Duration
	observer    Observer
	logger      *logrus.Logger
}

type FPLOption func(*FPLClient)

func WithFPLCache(cache CacheProvider, ttl time.Duration) FPLOption {
	return func(c *FPLClient) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

func WithFPLBreaker(b Breaker) FPLOption {
	return func(c *FPLClient) { c.breaker = b }
}

func WithFPLObserver(o Observer) FPLOption {
	return func(c *FPLClient) { c.observer = o }
}

// NewFPLClient creates a client limited to rps requests per second.
func NewFPLClient(baseURL string, timeout time.Duration, rps float64, logger *logrus.Logger, opts ...FPLOption) *FPLClient {
	if baseURL == "" {
		baseURL = DefaultFPLBaseURL
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	c := &FPLClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(limit, 1),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FPL API response structures
type fplBootstrapResponse struct {
	Elements []fplElement `json:"elements"`
	Teams    []fplTeam    `json:"teams"`
	Events   []fplEvent   `json:"events"`
}

type fplElement struct {
	ID                       int    `json:"id"`
	WebName                  string `json:"web_name"`
	ElementType              int    `json:"element_type"`
	Team                     int    `json:"team"`
	NowCost                  int    `json:"now_cost"`
	Form                     string `json:"form"`
	Minutes                  int    `json:"minutes"`
	Starts                   int    `json:"starts"`
	TotalPoints              int    `json:"total_points"`
	Status                   string `json:"status"`
	ChanceOfPlayingNextRound *int   `json:"chance_of_playing_next_round"`
	SelectedByPercent        string `json:"selected_by_percent"`
	ExpectedGoalInvolvements string `json:"expected_goal_involvements"`
}

type fplTeam struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	ShortName           string `json:"short_name"`
	StrengthAttackHome  int    `json:"strength_attack_home"`
	StrengthAttackAway  int    `json:"strength_attack_away"`
	StrengthDefenceHome int    `json:"strength_defence_home"`
	StrengthDefenceAway int    `json:"strength_defence_away"`
}

type fplEvent struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	IsCurrent    bool    `json:"is_current"`
	IsNext       bool    `json:"is_next"`
	Finished     bool    `json:"finished"`
	DeadlineTime *string `json:"deadline_time"`
}

type fplFixture struct {
	ID              int     `json:"id"`
	Event           *int    `json:"event"`
	TeamH           int     `json:"team_h"`
	TeamA           int     `json:"team_a"`
	TeamHDifficulty int     `json:"team_h_difficulty"`
	TeamADifficulty int     `json:"team_a_difficulty"`
	KickoffTime     *string `json:"kickoff_time"`
}

type fplEntry struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	LastDeadlineBank   *int   `json:"last_deadline_bank"`
	LastDeadlineValue  *int   `json:"last_deadline_value"`
	SummaryOverallRank *int   `json:"summary_overall_rank"`
}

type fplPicksResponse struct {
	Picks []struct {
		Element       int  `json:"element"`
		Position      int  `json:"position"`
		SellingPrice  *int `json:"selling_price"`
		IsCaptain     bool `json:"is_captain"`
		IsViceCaptain bool `json:"is_vice_captain"`
	} `json:"picks"`
}

// Bootstrap fetches players, clubs and gameweeks. Players with an unknown position
// are dropped.
func (c *FPLClient) Bootstrap(ctx context.Context) (*models.Bootstrap, error) {
	var raw fplBootstrapResponse
	if err := c.getJSON(ctx, "bootstrap-static", "/bootstrap-static/", &raw); err != nil {
		return nil, err
	}

	b := &models.Bootstrap{
		Players: make([]models.Player, 0, len(raw.Elements)),
		Clubs:   make([]models.Club, 0, len(raw.Teams)),
		Events:  make([]models.Event, 0, len(raw.Events)),
	}
	for _, e := range raw.Elements {
		pos := models.Position(e.ElementType)
		if !pos.Valid() {
			c.logger.WithFields(logrus.Fields{
				"player_id":    e.ID,
				"element_type": e.ElementType,
			}).Warn("Dropping player with unknown position")
			continue
		}
		b.Players = append(b.Players, models.Player{
			ID:                       e.ID,
			WebName:                  e.WebName,
			Position:                 pos,
			ClubID:                   e.Team,
			Price:                    e.NowCost,
			Form:                     parseDecimal(e.Form),
			Minutes:                  e.Minutes,
			Starts:                   e.Starts,
			TotalPoints:              e.TotalPoints,
			Status:                   e.Status,
			ChanceOfPlaying:          e.ChanceOfPlayingNextRound,
			Ownership:                parseDecimal(e.SelectedByPercent),
			ExpectedGoalInvolvements: parseDecimal(e.ExpectedGoalInvolvements),
		})
	}
	for _, t := range raw.Teams {
		b.Clubs = append(b.Clubs, models.Club{
			ID:                  t.ID,
			Name:                t.Name,
			ShortName:           t.ShortName,
			StrengthAttackHome:  t.StrengthAttackHome,
			StrengthAttackAway:  t.StrengthAttackAway,
			StrengthDefenceHome: t.StrengthDefenceHome,
			StrengthDefenceAway: t.StrengthDefenceAway,
		})
	}
	for _, ev := range raw.Events {
		b.Events = append(b.Events, models.Event{
			ID:        ev.ID,
			Name:      ev.Name,
			IsCurrent: ev.IsCurrent,
			IsNext:    ev.IsNext,
			Finished:  ev.Finished,
			Deadline:  parseTime(ev.DeadlineTime),
		})
	}
	return b, nil
}

func (c *FPLClient) Fixtures(ctx context.Context) ([]models.Fixture, error) {
	var raw []fplFixture
	if err := c.getJSON(ctx, "fixtures", "/fixtures/", &raw); err != nil {
		return nil, err
	}

	fixtures := make([]models.Fixture, 0, len(raw))
	for _, f := range raw {
		fixtures = append(fixtures, models.Fixture{
			ID:             f.ID,
			Gameweek:       f.Event,
			HomeClubID:     f.TeamH,
			AwayClubID:     f.TeamA,
			HomeDifficulty: f.TeamHDifficulty,
			AwayDifficulty: f.TeamADifficulty,
			Kickoff:        parseTime(f.KickoffTime),
		})
	}
	return fixtures, nil
}

func (c *FPLClient) Entry(ctx context.Context, entryID int) (*models.EntryInfo, error) {
	var raw fplEntry
	if err := c.getJSON(ctx, "entry", fmt.Sprintf("/entry/%d/", entryID), &raw); err != nil {
		return nil, err
	}
	return &models.EntryInfo{
		ID:          raw.ID,
		Name:        raw.Name,
		Bank:        intOrZero(raw.LastDeadlineBank),
		TeamValue:   intOrZero(raw.LastDeadlineValue),
		OverallRank: intOrZero(raw.SummaryOverallRank),
	}, nil
}

func (c *FPLClient) Picks(ctx context.Context, entryID, gameweek int) ([]models.Pick, error) {
	var raw fplPicksResponse
	path := fmt.Sprintf("/entry/%d/event/%d/picks/", entryID, gameweek)
	if err := c.getJSON(ctx, "picks", path, &raw); err != nil {
		return nil, err
	}

	picks := make([]models.Pick, 0, len(raw.Picks))
	for _, p := range raw.Picks {
		picks = append(picks, models.Pick{
			PlayerID:      p.Element,
			Slot:          p.Position,
			SellingPrice:  intOrZero(p.SellingPrice),
			IsCaptain:     p.IsCaptain,
			IsViceCaptain: p.IsViceCaptain,
		})
	}
	return picks, nil
}

func (c *FPLClient) getJSON(ctx context.Context, endpoint, path string, dest interface{}) error {
	cacheKey := "fpl:" + path
	if c.cache != nil {
		if err := c.cache.Get(ctx, cacheKey, dest); err == nil {
			return nil
		}
	}

	err := guard(c.breaker, fplService, endpoint, func() error {
		return c.fetch(ctx, endpoint, path, dest)
	})
	if err != nil {
		return err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, dest, c.cacheTTL); err != nil {
			c.logger.WithError(err).WithField("key", cacheKey).Warn("Failed to cache FPL response")
		}
	}
	return nil
}

func (c *FPLClient) fetch(ctx context.Context, endpoint, path string, dest interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(endpoint, "error", time.Since(start))
		return &UpstreamError{Service: fplService, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()
	c.observe(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
		}).Warn("FPL request failed")
		return &UpstreamError{Service: fplService, Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *FPLClient) observe(endpoint, status string, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstream(fplService, endpoint, status, elapsed)
	}
}

// parseDecimal reads the provider's numeric strings; anything unparseable is 0.
func parseDecimal(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	return &t
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
