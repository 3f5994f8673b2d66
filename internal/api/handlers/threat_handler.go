package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/halcyonlabs/argus/internal/api/middleware"
	"github.com/halcyonlabs/argus/internal/models"
	"github.com/halcyonlabs/argus/internal/services"
)

type ThreatHandler struct {
	service *services.ThreatService
}

func NewThreatHandler(service *services.ThreatService) *ThreatHandler {
	return &ThreatHandler{service: service}
}

func (h *ThreatHandler) List(c *gin.Context) {
	spec := parseSpec(c)
	threats, total, err := h.service.List(middleware.OrgID(c), spec)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagedResponse(threats, total, spec))
}

func (h *ThreatHandler) Get(c *gin.Context) {
	threat, err := h.service.Get(middleware.OrgID(c), c.Param("uuid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, threat)
}

type ThreatRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	ThreatType      string `json:"threat_type" binding:"required"`
	Severity        string `json:"severity" binding:"required,oneof=critical high medium low"`
	Source          string `json:"source"`
	DetectionMethod string `json:"detection_method"`
	AssetID         *uint  `json:"asset_id"`
	IoCHash         string `json:"ioc_hash"`
	IoCIP           string `json:"ioc_ip"`
	IoCDomain       string `json:"ioc_domain"`
	IoCURL          string `json:"ioc_url"`
}

func (h *ThreatHandler) Create(c *gin.Context) {
	var req ThreatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	threat := models.Threat{
		Name:            req.Name,
		Description:     req.Description,
		ThreatType:      req.ThreatType,
		Severity:        req.Severity,
		Source:          req.Source,
		DetectionMethod: req.DetectionMethod,
		AssetID:         req.AssetID,
		IoCHash:         req.IoCHash,
		IoCIP:           req.IoCIP,
		IoCDomain:       req.IoCDomain,
		IoCURL:          req.IoCURL,
	}
	if err := h.service.Create(middleware.OrgID(c), &threat); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, threat)
}

type ActionRequest struct {
	Action string `json:"action" binding:"required"`
}

// Act applies a lifecycle action (contain, resolve, false_positive,
// reactivate) to a threat.
func (h *ThreatHandler) Act(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	threat, err := h.service.Act(middleware.OrgID(c), c.Param("uuid"), req.Action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, threat)
}

type AssignRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

func (h *ThreatHandler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	threat, err := h.service.Assign(middleware.OrgID(c), c.Param("uuid"), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, threat)
}

func (h *ThreatHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(middleware.OrgID(c), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
