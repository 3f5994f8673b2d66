package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/halcyonlabs/argus/internal/api/middleware"
	"github.com/halcyonlabs/argus/internal/models"
	"github.com/halcyonlabs/argus/internal/services"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	notifications, err := h.service.List(middleware.OrgID(c), unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	if err := h.service.MarkAsRead(middleware.OrgID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	if err := h.service.MarkAllAsRead(middleware.OrgID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all notifications marked as read"})
}

// Providers

func (h *NotificationHandler) ListProviders(c *gin.Context) {
	providers, err := h.service.ListProviders(middleware.OrgID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, providers)
}

type ProviderRequest struct {
	Name          string `json:"name" binding:"required"`
	Type          string `json:"type" binding:"required"`
	URL           string `json:"url" binding:"required"`
	Enabled       *bool  `json:"enabled"`
	NotifyThreats *bool  `json:"notify_threats"`
	NotifyPosture *bool  `json:"notify_posture"`
	MinSeverity   string `json:"min_severity"`
}

func (h *NotificationHandler) CreateProvider(c *gin.Context) {
	var req ProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	provider := models.NotificationProvider{
		Name:          req.Name,
		Type:          req.Type,
		URL:           req.URL,
		Enabled:       true,
		NotifyThreats: true,
		NotifyPosture: true,
		MinSeverity:   req.MinSeverity,
	}
	if req.Enabled != nil {
		provider.Enabled = *req.Enabled
	}
	if req.NotifyThreats != nil {
		provider.NotifyThreats = *req.NotifyThreats
	}
	if req.NotifyPosture != nil {
		provider.NotifyPosture = *req.NotifyPosture
	}

	if err := h.service.CreateProvider(middleware.OrgID(c), &provider); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, provider)
}

func (h *NotificationHandler) DeleteProvider(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider id"})
		return
	}

	if err := h.service.DeleteProvider(middleware.OrgID(c), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "provider deleted"})
}
