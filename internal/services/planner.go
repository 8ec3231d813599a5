package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/subarna007/fpl-helper/internal/models"
	"github.com/subarna007/fpl-helper/internal/optimizer"
	"github.com/subarna007/fpl-helper/internal/projection"
	"github.com/subarna007/fpl-helper/pkg/config"
	"github.com/subarna007/fpl-helper/pkg/logger"
	"github.com/subarna007/fpl-helper/pkg/utils"
)

var (
	// ErrSquadNotFound means the picks do not resolve to a legal 15-man squad.
	ErrSquadNotFound = fmt.Errorf("%w: squad not found", utils.ErrNotFound)

	// ErrInvalidHorizon is returned for a horizon outside [1, MaxHorizon].
	ErrInvalidHorizon = fmt.Errorf("%w: horizon out of range", utils.ErrInvalidInput)

	ErrInvalidEntry = fmt.Errorf("%w: entry must be a positive integer", utils.ErrInvalidInput)
)

// FPLSource is the subset of the FPL client the planner reads.
type FPLSource interface {
	Bootstrap(ctx context.Context) (*models.Bootstrap, error)
	Fixtures(ctx context.Context) ([]models.Fixture, error)
	Entry(ctx context.Context, entryID int) (*models.EntryInfo, error)
	Picks(ctx context.Context, entryID, gameweek int) ([]models.Pick, error)
}

type OddsSource interface {
	Upcoming(ctx context.Context) ([]models.OddsRow, error)
}

type PlannerConfig struct {
	DefaultHorizon  int
	MaxHorizon      int
	OddsEnabled     bool
	Policy          optimizer.Policy
	Build           optimizer.BuildConfig
	Upgrades        optimizer.UpgradeConfig
	Recommendations optimizer.RecommendationConfig
}

func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		DefaultHorizon:  5,
		MaxHorizon:      8,
		OddsEnabled:     true,
		Policy:          optimizer.DefaultPolicy(),
		Build:           optimizer.DefaultBuildConfig(),
		Upgrades:        optimizer.DefaultUpgradeConfig(),
		Recommendations: optimizer.DefaultRecommendationConfig(),
	}
}

// PlannerConfigFromConfig applies the environment's planner knobs over the defaults.
func PlannerConfigFromConfig(cfg *config.Config) PlannerConfig {
	pc := DefaultPlannerConfig()
	pc.DefaultHorizon = cfg.DefaultHorizon
	pc.MaxHorizon = cfg.MaxHorizon
	pc.OddsEnabled = cfg.OddsEnabled

	pc.Policy.RollThreshold = cfg.RollThreshold
	pc.Policy.HitCost = cfg.HitCost
	pc.Policy.OutCandidates = cfg.OutCandidates
	pc.Policy.InShortlistSize = cfg.InShortlistSize
	pc.Policy.InPerOut = cfg.InPerOut
	pc.Policy.SecondMoveBranches = cfg.SecondMoveBranches
	pc.Policy.Incoming.MinMinutes = cfg.PlanMinMinutes
	return pc
}

// Planner fetches provider data and runs the optimizer for one request.
type Planner struct {
	fpl     FPLSource
	odds    OddsSource
	cfg     PlannerConfig
	metrics *Metrics
	logger  *logrus.Logger
}

// NewPlanner wires the sources. odds may be nil when the market feed is disabled,
// metrics may be nil.
func NewPlanner(fpl FPLSource, odds OddsSource, cfg PlannerConfig, metrics *Metrics, logger *logrus.Logger) *Planner {
	if odds == nil {
		cfg.OddsEnabled = false
	}
	return &Planner{
		fpl:     fpl,
		odds:    odds,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}
}

func (p *Planner) Config() PlannerConfig {
	return p.cfg
}

// Horizon resolves a requested horizon; zero selects the default.
func (p *Planner) Horizon(requested int) (int, error) {
	if requested == 0 {
		return p.cfg.DefaultHorizon, nil
	}
	if requested < 1 || requested > p.cfg.MaxHorizon {
		return 0, fmt.Errorf("%w: %d (allowed 1-%d)", ErrInvalidHorizon, requested, p.cfg.MaxHorizon)
	}
	return requested, nil
}

func checkEntry(entryID int) error {
	if entryID <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidEntry, entryID)
	}
	return nil
}

type snapshot struct {
	bootstrap *models.Bootstrap
	fixtures  []models.Fixture
	entry     *models.EntryInfo
	picks     []models.Pick
	odds      []models.OddsRow
	gameweek  int
}

type loadOptions struct {
	entryID int
	odds    bool
}

// load fetches bootstrap, fixtures, entry and odds concurrently. Picks need the
// current gameweek and are read afterwards.
func (p *Planner) load(ctx context.Context, opts loadOptions) (*snapshot, error) {
	s := &snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b, err := p.fpl.Bootstrap(gctx)
		if err != nil {
			return fmt.Errorf("failed to load bootstrap: %w", err)
		}
		s.bootstrap = b
		return nil
	})
	g.Go(func() error {
		f, err := p.fpl.Fixtures(gctx)
		if err != nil {
			return fmt.Errorf("failed to load fixtures: %w", err)
		}
		s.fixtures = f
		return nil
	})
	if opts.entryID > 0 {
		g.Go(func() error {
			e, err := p.fpl.Entry(gctx, opts.entryID)
			if err != nil {
				return fmt.Errorf("failed to load entry %d: %w", opts.entryID, err)
			}
			s.entry = e
			return nil
		})
	}
	if opts.odds && p.cfg.OddsEnabled {
		g.Go(func() error {
			rows, err := p.odds.Upcoming(gctx)
			if err != nil {
				return fmt.Errorf("failed to load odds: %w", err)
			}
			s.odds = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.gameweek = s.bootstrap.CurrentGameweek()
	if opts.entryID > 0 {
		picks, err := p.fpl.Picks(ctx, opts.entryID, s.gameweek)
		if err != nil {
			return nil, fmt.Errorf("failed to load picks for gameweek %d: %w", s.gameweek, err)
		}
		s.picks = picks
	}
	return s, nil
}

// squad resolves the picks against the player list.
func (s *snapshot) squad() (optimizer.Squad, error) {
	byID := s.bootstrap.PlayersByID()
	sq := optimizer.Squad{
		Players:       make([]models.Player, 0, len(s.picks)),
		SellingPrices: make(map[int]int, len(s.picks)),
	}
	if s.entry != nil {
		sq.Bank = s.entry.Bank
	}
	for _, pk := range s.picks {
		pl, ok := byID[pk.PlayerID]
		if !ok {
			continue
		}
		sq.Players = append(sq.Players, pl)
		if pk.SellingPrice > 0 {
			sq.SellingPrices[pl.ID] = pk.SellingPrice
		}
	}
	if len(sq.Players) < optimizer.SquadSize {
		return optimizer.Squad{}, fmt.Errorf("%w: %d of %d picks resolved", ErrSquadNotFound, len(sq.Players), optimizer.SquadSize)
	}
	if err := optimizer.ValidateStructure(sq.Players); err != nil {
		return optimizer.Squad{}, fmt.Errorf("%w: %v", ErrSquadNotFound, err)
	}
	return sq, nil
}

func (s *snapshot) model() *projection.Model {
	return projection.NewModel(s.fixtures, s.bootstrap.Clubs)
}

// Squad builds the dashboard snapshot: enriched picks, top captaincy options by
// projected points this gameweek, and entry meta.
func (p *Planner) Squad(ctx context.Context, entryID int) (*models.SquadSnapshot, error) {
	if err := checkEntry(entryID); err != nil {
		return nil, err
	}
	s, err := p.load(ctx, loadOptions{entryID: entryID})
	if err != nil {
		return nil, err
	}

	model := s.model()
	clubs := s.bootstrap.ClubsByID()
	byID := s.bootstrap.PlayersByID()
	shortName := func(id int) string {
		if c, ok := clubs[id]; ok && c.ShortName != "" {
			return c.ShortName
		}
		return "UNK"
	}

	snap := &models.SquadSnapshot{
		EntryID:   entryID,
		EntryName: s.entry.Name,
		Gameweek:  s.gameweek,
		Meta: models.SquadMeta{
			TeamValue:          s.entry.TeamValue,
			Bank:               s.entry.Bank,
			OverallRank:        s.entry.OverallRank,
			TransfersAvailable: 1,
		},
		Squad:     []models.SquadPlayer{},
		Captaincy: []models.CaptaincyPick{},
	}

	for _, pk := range s.picks {
		if pk.IsCaptain && snap.Meta.Captain == nil {
			id := pk.PlayerID
			snap.Meta.Captain = &id
		}
		if pk.IsViceCaptain && snap.Meta.ViceCaptain == nil {
			id := pk.PlayerID
			snap.Meta.ViceCaptain = &id
		}

		pl, ok := byID[pk.PlayerID]
		if !ok {
			continue
		}
		pts, fx := model.Gameweek(pl, s.gameweek)
		var next *models.NextFixture
		if fx != nil {
			next = &models.NextFixture{
				IsHome:        fx.IsHome,
				OpponentShort: shortName(fx.OpponentClubID),
				Difficulty:    fx.Difficulty,
			}
		}
		sp := models.SquadPlayer{
			ID:          pl.ID,
			Name:        pl.WebName,
			ClubShort:   shortName(pl.ClubID),
			ClubID:      pl.ClubID,
			Position:    pl.Position,
			Price:       pl.Price,
			Form:        pl.Form,
			Minutes:     pl.Minutes,
			TotalPoints: pl.TotalPoints,
			Ownership:   pl.Ownership,
			Risk:        pl.RiskTag(),
			NextFixture: next,
		}
		snap.Squad = append(snap.Squad, sp)
		snap.Captaincy = append(snap.Captaincy, models.CaptaincyPick{
			ID:        sp.ID,
			Name:      sp.Name,
			ClubShort: sp.ClubShort,
			XPts:      utils.Round(pts, 2),
			Ownership: sp.Ownership,
			Risk:      sp.Risk,
			Fixture:   next,
		})
	}

	sort.SliceStable(snap.Captaincy, func(i, j int) bool {
		return snap.Captaincy[i].XPts > snap.Captaincy[j].XPts
	})
	if len(snap.Captaincy) > 3 {
		snap.Captaincy = snap.Captaincy[:3]
	}
	return snap, nil
}

type AITeamResult struct {
	StartGameweek int `json:"start_gameweek"`
	Horizon       int `json:"horizon"`
	optimizer.BuiltSquad
}

// AITeam builds a squad from scratch within the configured budget.
func (p *Planner) AITeam(ctx context.Context, horizon int) (*AITeamResult, error) {
	horizon, err := p.Horizon(horizon)
	if err != nil {
		return nil, err
	}
	s, err := p.load(ctx, loadOptions{})
	if err != nil {
		return nil, err
	}

	built := optimizer.BuildSquad(s.bootstrap.Players, s.model(), s.gameweek, horizon, p.cfg.Build)
	logger.WithRequestID(p.logger, logger.RequestIDFromContext(ctx)).WithFields(logrus.Fields{
		"gameweek":    s.gameweek,
		"horizon":     horizon,
		"complete":    built.Complete,
		"budget_left": utils.TenthsToUnits(built.BudgetLeft),
	}).Info("AI squad built")

	return &AITeamResult{
		StartGameweek: s.gameweek,
		Horizon:       horizon,
		BuiltSquad:    built,
	}, nil
}

type PlanResult struct {
	EntryID int `json:"entry_id"`
	optimizer.TransferPlan
}

// Plan runs the transfer search and returns the verdict with Plan A and Plan B.
func (p *Planner) Plan(ctx context.Context, entryID, horizon int) (*PlanResult, error) {
	if err := checkEntry(entryID); err != nil {
		return nil, err
	}
	horizon, err := p.Horizon(horizon)
	if err != nil {
		return nil, err
	}
	s, err := p.load(ctx, loadOptions{entryID: entryID})
	if err != nil {
		return nil, err
	}
	squad, err := s.squad()
	if err != nil {
		return nil, err
	}

	started := time.Now()
	plan := optimizer.PlanTransfers(squad, s.bootstrap.Players, s.model(), s.gameweek, horizon, p.cfg.Policy)
	elapsed := time.Since(started)

	if p.metrics != nil {
		p.metrics.ObservePlan(elapsed)
		p.metrics.ObserveVerdict(string(plan.Recommendation.Verdict))
	}
	logger.WithEntryContext(p.logger, logger.RequestIDFromContext(ctx), entryID, horizon).WithFields(logrus.Fields{
		"gameweek": s.gameweek,
		"verdict":  plan.Recommendation.Verdict,
		"plans":    len(plan.Plans),
		"elapsed":  elapsed.String(),
	}).Info("Transfer plan computed")

	return &PlanResult{EntryID: entryID, TransferPlan: plan}, nil
}

type RecommendationsResult struct {
	EntryID       int  `json:"entry_id"`
	StartGameweek int  `json:"start_gameweek"`
	Horizon       int  `json:"horizon"`
	OddsRows      int  `json:"odds_rows"`
	OddsUsed      bool `json:"odds_used"`
	optimizer.XIUpgrades
}

// Recommendations ranks single moves by XI gain, pricing fixtures from market odds
// when the feed is enabled.
func (p *Planner) Recommendations(ctx context.Context, entryID, horizon int) (*RecommendationsResult, error) {
	if err := checkEntry(entryID); err != nil {
		return nil, err
	}
	horizon, err := p.Horizon(horizon)
	if err != nil {
		return nil, err
	}
	s, err := p.load(ctx, loadOptions{entryID: entryID, odds: true})
	if err != nil {
		return nil, err
	}
	squad, err := s.squad()
	if err != nil {
		return nil, err
	}

	model := s.model()
	if p.cfg.OddsEnabled {
		model = model.WithOdds(projection.NewOddsBook(s.odds))
	}
	ups := optimizer.RecommendUpgrades(squad, s.bootstrap.Players, model, s.gameweek, horizon, p.cfg.Recommendations)

	logger.WithEntryContext(p.logger, logger.RequestIDFromContext(ctx), entryID, horizon).WithFields(logrus.Fields{
		"odds_rows": len(s.odds),
		"moves":     len(ups.Moves),
	}).Info("XI upgrades ranked")

	return &RecommendationsResult{
		EntryID:       entryID,
		StartGameweek: s.gameweek,
		Horizon:       horizon,
		OddsRows:      len(s.odds),
		OddsUsed:      model.HasOdds(),
		XIUpgrades:    ups,
	}, nil
}

type UpgradesResult struct {
	EntryID       int                 `json:"entry_id"`
	StartGameweek int                 `json:"start_gameweek"`
	Horizon       int                 `json:"horizon"`
	Bank          int                 `json:"bank"`
	Upgrades      []optimizer.Upgrade `json:"upgrades"`
}

// Upgrades suggests like-for-like replacements scored on gain, ownership and fixtures.
func (p *Planner) Upgrades(ctx context.Context, entryID, horizon int) (*UpgradesResult, error) {
	if err := checkEntry(entryID); err != nil {
		return nil, err
	}
	horizon, err := p.Horizon(horizon)
	if err != nil {
		return nil, err
	}
	s, err := p.load(ctx, loadOptions{entryID: entryID})
	if err != nil {
		return nil, err
	}
	squad, err := s.squad()
	if err != nil {
		return nil, err
	}

	ups := optimizer.SuggestUpgrades(squad, s.bootstrap.Players, s.model(), s.gameweek, horizon, p.cfg.Upgrades)
	if ups == nil {
		ups = []optimizer.Upgrade{}
	}
	return &UpgradesResult{
		EntryID:       entryID,
		StartGameweek: s.gameweek,
		Horizon:       horizon,
		Bank:          squad.Bank,
		Upgrades:      ups,
	}, nil
}

// IsClientError reports whether err came from bad request input.
func IsClientError(err error) bool {
	return errors.Is(err, utils.ErrInvalidInput)
}
