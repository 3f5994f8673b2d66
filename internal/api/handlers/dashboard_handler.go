package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/halcyonlabs/argus/internal/api/middleware"
	"github.com/halcyonlabs/argus/internal/services"
)

type DashboardHandler struct {
	service   *services.DashboardService
	snapshots *services.SnapshotService
}

func NewDashboardHandler(service *services.DashboardService, snapshots *services.SnapshotService) *DashboardHandler {
	return &DashboardHandler{service: service, snapshots: snapshots}
}

// Summary returns the main dashboard payload. Score and compliance
// percentage are rounded here, at the presentation edge: the score to the
// nearest integer, the percentage to one decimal.
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summarize(middleware.OrgID(c), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	summary.Score = math.Round(summary.Score)
	summary.CompliancePct = math.Round(summary.CompliancePct*10) / 10
	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(middleware.OrgID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// History returns the organization's posture snapshots over the last N days
// (default 30) in ascending time order.
func (h *DashboardHandler) History(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	snapshots, err := h.snapshots.History(middleware.OrgID(c), time.Now(), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshots)
}

// Snapshot takes an on-demand posture snapshot for the organization.
func (h *DashboardHandler) Snapshot(c *gin.Context) {
	snapshot, err := h.snapshots.Take(middleware.OrgID(c), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}
