package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"vibetracker/internal/domain"
	"vibetracker/internal/notifier"
	"vibetracker/internal/service"
)

// Monitor is the dashboard workflow the handlers drive.
type Monitor interface {
	AddInfluencer(ctx context.Context, raw domain.InfluencerInput) (domain.Influencer, error)
	UpdateInfluencer(ctx context.Context, id string, raw domain.InfluencerInput) (domain.Influencer, error)
	RemoveInfluencer(ctx context.Context, id string) (domain.Influencer, error)
	RunAnalysis(ctx context.Context) error
	Analyzing() bool
	Influencers() []domain.Influencer
	Influencer(id string) (domain.Influencer, error)
	Feed(ctx context.Context) ([]domain.ContentSummary, error)
	Stats(ctx context.Context) (domain.DashboardStats, error)
}

// NotificationLog exposes recently delivered notifications.
type NotificationLog interface {
	Recent() []domain.Notification
}

type Handler struct {
	monitor Monitor
	inbox   NotificationLog
	logger  *slog.Logger
}

func NewHandler(monitor Monitor, inbox NotificationLog, logger *slog.Logger) *Handler {
	return &Handler{
		monitor: monitor,
		inbox:   inbox,
		logger:  logger.With("component", "api"),
	}
}

// GET /api/influencers
func (h *Handler) ListInfluencers(c *gin.Context) {
	success(c, http.StatusOK, h.monitor.Influencers())
}

// GET /api/influencers/:id
func (h *Handler) GetInfluencer(c *gin.Context) {
	inf, err := h.monitor.Influencer(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, inf)
}

// POST /api/influencers
func (h *Handler) CreateInfluencer(c *gin.Context) {
	var req domain.InfluencerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	inf, err := h.monitor.AddInfluencer(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusCreated, inf)
}

// PUT /api/influencers/:id
func (h *Handler) UpdateInfluencer(c *gin.Context) {
	var req domain.InfluencerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	inf, err := h.monitor.UpdateInfluencer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, inf)
}

// DELETE /api/influencers/:id
func (h *Handler) RemoveInfluencer(c *gin.Context) {
	inf, err := h.monitor.RemoveInfluencer(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, inf)
}

// POST /api/analysis
func (h *Handler) StartAnalysis(c *gin.Context) {
	if err := h.monitor.RunAnalysis(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusAccepted, gin.H{"analyzing": true})
}

// GET /api/analysis
func (h *Handler) AnalysisStatus(c *gin.Context) {
	success(c, http.StatusOK, gin.H{"analyzing": h.monitor.Analyzing()})
}

// GET /api/feed
func (h *Handler) Feed(c *gin.Context) {
	summaries, err := h.monitor.Feed(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, summaries)
}

// GET /api/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.monitor.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, stats)
}

// GET /api/notifications
func (h *Handler) Notifications(c *gin.Context) {
	success(c, http.StatusOK, h.inbox.Recent())
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		failure(c, http.StatusUnprocessableEntity, string(vErr.Code), vErr.Error(), vErr.Fields...)
	case errors.Is(err, domain.ErrNotFound):
		failure(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrAnalysisInProgress):
		failure(c, http.StatusConflict, "ANALYSIS_IN_PROGRESS", err.Error())
	case errors.Is(err, notifier.ErrClosed):
		failure(c, http.StatusServiceUnavailable, "SHUTTING_DOWN", "service is shutting down")
	default:
		h.logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		failure(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
