package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/halcyonlabs/argus/internal/api/middleware"
	"github.com/halcyonlabs/argus/internal/models"
	"github.com/halcyonlabs/argus/internal/services"
)

type VulnerabilityHandler struct {
	service *services.VulnerabilityService
}

func NewVulnerabilityHandler(service *services.VulnerabilityService) *VulnerabilityHandler {
	return &VulnerabilityHandler{service: service}
}

func (h *VulnerabilityHandler) List(c *gin.Context) {
	spec := parseSpec(c)
	vulns, total, err := h.service.List(middleware.OrgID(c), spec)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagedResponse(vulns, total, spec))
}

func (h *VulnerabilityHandler) Get(c *gin.Context) {
	vuln, err := h.service.Get(middleware.OrgID(c), c.Param("uuid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vuln)
}

type VulnerabilityRequest struct {
	CVEID       string   `json:"cve_id"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Severity    string   `json:"severity" binding:"required,oneof=critical high medium low"`
	CVSSScore   *float64 `json:"cvss_score"`
	Remediation string   `json:"remediation"`
	AssetID     uint     `json:"asset_id" binding:"required"`
}

func (h *VulnerabilityHandler) Create(c *gin.Context) {
	var req VulnerabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vuln := models.Vulnerability{
		CVEID:       req.CVEID,
		Title:       req.Title,
		Description: req.Description,
		Severity:    req.Severity,
		CVSSScore:   req.CVSSScore,
		Remediation: req.Remediation,
		AssetID:     req.AssetID,
	}
	if err := h.service.Create(middleware.OrgID(c), &vuln); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vuln)
}

// Act applies a lifecycle action (start, fix, accept_risk, false_positive,
// reopen) to a vulnerability.
func (h *VulnerabilityHandler) Act(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vuln, err := h.service.Act(middleware.OrgID(c), c.Param("uuid"), req.Action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vuln)
}

func (h *VulnerabilityHandler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vuln, err := h.service.Assign(middleware.OrgID(c), c.Param("uuid"), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vuln)
}

func (h *VulnerabilityHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(middleware.OrgID(c), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
