package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/halcyonlabs/argus/internal/api/middleware"
	"github.com/halcyonlabs/argus/internal/services"
)

type ComplianceHandler struct {
	service *services.ComplianceService
}

func NewComplianceHandler(service *services.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{service: service}
}

func (h *ComplianceHandler) Frameworks(c *gin.Context) {
	frameworks, err := h.service.Frameworks()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, frameworks)
}

// Framework returns one framework with the organization's rollup, overall
// and per category. The read never creates assessments.
func (h *ComplianceHandler) Framework(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid framework id"})
		return
	}

	framework, err := h.service.Framework(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	overall, categories, err := h.service.FrameworkRollup(middleware.OrgID(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"framework":  framework,
		"rollup":     overall,
		"categories": categories,
	})
}

// Control returns one control with the organization's assessment. Passing
// ?ensure=true creates the default non_compliant assessment when missing.
func (h *ComplianceHandler) Control(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid control id"})
		return
	}

	ensure := c.Query("ensure") == "true"
	control, assessment, err := h.service.Control(middleware.OrgID(c), uint(id), ensure, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"control":    control,
		"assessment": assessment,
	})
}

type AssessmentRequest struct {
	Status   string `json:"status" binding:"required,oneof=compliant non_compliant partially_compliant not_applicable"`
	Evidence string `json:"evidence"`
	Notes    string `json:"notes"`
}

func (h *ComplianceHandler) UpdateAssessment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid control id"})
		return
	}

	var req AssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assessment, err := h.service.UpdateAssessment(middleware.OrgID(c), uint(id), req.Status, req.Evidence, req.Notes, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

// Setup adopts a framework: every control gets an initial non_compliant
// assessment. Responds 409 when the organization already has assessments
// for the framework.
func (h *ComplianceHandler) Setup(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid framework id"})
		return
	}

	created, err := h.service.SetupFramework(middleware.OrgID(c), uint(id), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"assessments_created": created})
}

func (h *ComplianceHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(middleware.OrgID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
