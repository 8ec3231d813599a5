package providers

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/subarna007/fpl-helper/internal/models"
	"github.com/subarna007/fpl-helper/internal/projection"
)

const (
	DefaultOddsURL = "https://www.football-data.co.uk/fixtures.csv"
	oddsService    = "odds"
	premierLeague  = "E0"
)

// OddsClient reads upcoming match odds from football-data.co.uk.
type OddsClient struct {
	url        string
	httpClient *http.Client
	breaker    Breaker
	cache      CacheProvider
	cacheTTL   time.Duration
	observer   Observer
	logger     *logrus.Logger
}

type OddsOption func(*OddsClient)

func WithOddsCache(cache CacheProvider, ttl time.Duration) OddsOption {
	return func(c *OddsClient) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

func WithOddsBreaker(b Breaker) OddsOption {
	return func(c *OddsClient) { c.breaker = b }
}

func WithOddsObserver(o Observer) OddsOption {
	return func(c *OddsClient) { c.observer = o }
}

func NewOddsClient(url string, timeout time.Duration, logger *logrus.Logger, opts ...OddsOption) *OddsClient {
	if url == "" {
		url = DefaultOddsURL
	}
	c := &OddsClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upcoming returns the Premier League rows of the fixtures feed.
func (c *OddsClient) Upcoming(ctx context.Context) ([]models.OddsRow, error) {
	const cacheKey = "odds:fixtures"
	if c.cache != nil {
		var cached []models.OddsRow
		if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	var rows []models.OddsRow
	err := guard(c.breaker, oddsService, "fixtures.csv", func() error {
		var err error
		rows, err = c.fetch(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, rows, c.cacheTTL); err != nil {
			c.logger.WithError(err).Warn("Failed to cache odds rows")
		}
	}
	return rows, nil
}

func (c *OddsClient) fetch(ctx context.Context) ([]models.OddsRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/csv")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe("error", time.Since(start))
		return nil, &UpstreamError{Service: oddsService, Endpoint: "fixtures.csv", Err: err}
	}
	defer resp.Body.Close()
	c.observe(strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Service: oddsService, Endpoint: "fixtures.csv", StatusCode: resp.StatusCode}
	}

	rows, err := ParseOddsCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse odds feed: %w", err)
	}
	c.logger.WithField("rows", len(rows)).Debug("Loaded odds feed")
	return rows, nil
}

func (c *OddsClient) observe(status string, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstream(oddsService, "fixtures.csv", status, elapsed)
	}
}

// ParseOddsCSV reads a football-data fixtures file, keeping Premier League rows.
// Over/under columns fall back from the market average to older bookmaker columns.
func ParseOddsCSV(r io.Reader) ([]models.OddsRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []models.OddsRow{}, nil
	}
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		// the feed is written with a UTF-8 BOM
		index[strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")] = i
	}

	rows := []models.OddsRow{}
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		get := func(col string) string {
			if i, ok := index[col]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		if get("Div") != premierLeague {
			continue
		}
		rows = append(rows, models.OddsRow{
			League:     premierLeague,
			Date:       get("Date"),
			Time:       get("Time"),
			Home:       projection.NormalizeTeamName(get("HomeTeam")),
			Away:       projection.NormalizeTeamName(get("AwayTeam")),
			AvgHome:    parseOdds(get("AvgH")),
			AvgDraw:    parseOdds(get("AvgD")),
			AvgAway:    parseOdds(get("AvgA")),
			AvgOver25:  parseOdds(firstNonEmpty(get("Avg>2.5"), get("BbAv>2.5"), get("B365>2.5"))),
			AvgUnder25: parseOdds(firstNonEmpty(get("Avg<2.5"), get("BbAv<2.5"), get("B365<2.5"))),
		})
	}
	return rows, nil
}

func parseOdds(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
