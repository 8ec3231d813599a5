package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/subarna007/fpl-helper/internal/api/middleware"
	"github.com/subarna007/fpl-helper/internal/models"
	"github.com/subarna007/fpl-helper/internal/providers"
	"github.com/subarna007/fpl-helper/internal/services"
	"github.com/subarna007/fpl-helper/pkg/logger"
	"github.com/subarna007/fpl-helper/pkg/utils"
)

// PlannerService is implemented by services.Planner.
type PlannerService interface {
	Squad(ctx context.Context, entryID int) (*models.SquadSnapshot, error)
	AITeam(ctx context.Context, horizon int) (*services.AITeamResult, error)
	Plan(ctx context.Context, entryID, horizon int) (*services.PlanResult, error)
	Recommendations(ctx context.Context, entryID, horizon int) (*services.RecommendationsResult, error)
	Upgrades(ctx context.Context, entryID, horizon int) (*services.UpgradesResult, error)
}

type PlannerHandler struct {
	planner PlannerService
	logger  *logrus.Logger
}

func NewPlannerHandler(planner PlannerService, logger *logrus.Logger) *PlannerHandler {
	return &PlannerHandler{
		planner: planner,
		logger:  logger,
	}
}

// GetSquad returns the entry's current squad with risk tags and captaincy picks
func (h *PlannerHandler) GetSquad(c *gin.Context) {
	entryID, ok := entryParam(c)
	if !ok {
		return
	}

	snap, err := h.planner.Squad(c.Request.Context(), entryID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.SendSuccess(c, snap)
}

// GetAITeam builds a squad from scratch
func (h *PlannerHandler) GetAITeam(c *gin.Context) {
	horizon, ok := horizonParam(c)
	if !ok {
		return
	}

	team, err := h.planner.AITeam(c.Request.Context(), horizon)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.SendSuccess(c, team)
}

// GetPlan runs the transfer planner
func (h *PlannerHandler) GetPlan(c *gin.Context) {
	entryID, horizon, ok := entryAndHorizon(c)
	if !ok {
		return
	}

	plan, err := h.planner.Plan(c.Request.Context(), entryID, horizon)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.SendSuccess(c, plan)
}

func (h *PlannerHandler) GetRecommendations(c *gin.Context) {
	entryID, horizon, ok := entryAndHorizon(c)
	if !ok {
		return
	}

	recs, err := h.planner.Recommendations(c.Request.Context(), entryID, horizon)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.SendSuccess(c, recs)
}

func (h *PlannerHandler) GetUpgrades(c *gin.Context) {
	entryID, horizon, ok := entryAndHorizon(c)
	if !ok {
		return
	}

	ups, err := h.planner.Upgrades(c.Request.Context(), entryID, horizon)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.SendSuccess(c, ups)
}

func (h *PlannerHandler) handleError(c *gin.Context, err error) {
	_ = c.Error(err)
	log := logger.WithRequestID(h.logger, middleware.GetRequestID(c)).WithField("path", c.Request.URL.Path)

	var upstream *providers.UpstreamError
	switch {
	case services.IsClientError(err):
		utils.SendValidationError(c, "invalid parameter", err.Error())
	case errors.Is(err, services.ErrSquadNotFound):
		utils.SendNotFound(c, "squad not found")
	case errors.As(err, &upstream):
		details := upstream.Endpoint
		if upstream.StatusCode != 0 {
			details = strconv.Itoa(upstream.StatusCode)
		}
		log.WithError(err).Warn("Upstream request failed")
		utils.SendUpstreamError(c, upstream.Error(), details)
	case errors.Is(err, context.DeadlineExceeded):
		log.WithError(err).Warn("Upstream request timed out")
		utils.SendUpstreamError(c, "upstream request timed out", err.Error())
	default:
		log.WithError(err).Error("Planner request failed")
		utils.SendInternalError(c, "failed to build plan")
	}
}

func entryAndHorizon(c *gin.Context) (int, int, bool) {
	entryID, ok := entryParam(c)
	if !ok {
		return 0, 0, false
	}
	horizon, ok := horizonParam(c)
	if !ok {
		return 0, 0, false
	}
	return entryID, horizon, true
}

func entryParam(c *gin.Context) (int, bool) {
	raw := c.Query("entry")
	if raw == "" {
		utils.SendValidationError(c, "missing parameter", "entry")
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		utils.SendValidationError(c, "invalid parameter", "entry must be a positive integer")
		return 0, false
	}
	return id, true
}

// horizonParam returns 0 when absent so the planner applies its default.
func horizonParam(c *gin.Context) (int, bool) {
	raw := c.Query("horizon")
	if raw == "" {
		return 0, true
	}
	h, err := strconv.Atoi(raw)
	if err != nil || h <= 0 {
		utils.SendValidationError(c, "invalid parameter", "horizon must be a positive integer")
		return 0, false
	}
	return h, true
}
