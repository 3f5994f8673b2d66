package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/halcyonlabs/argus/internal/api/middleware"
	"github.com/halcyonlabs/argus/internal/models"
	"github.com/halcyonlabs/argus/internal/services"
)

type AssetHandler struct {
	service *services.AssetService
}

func NewAssetHandler(service *services.AssetService) *AssetHandler {
	return &AssetHandler{service: service}
}

func (h *AssetHandler) List(c *gin.Context) {
	assets, err := h.service.List(middleware.OrgID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}

	asset, err := h.service.Get(middleware.OrgID(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

type AssetRequest struct {
	Name        string `json:"name" binding:"required"`
	AssetType   string `json:"asset_type" binding:"required"`
	IPAddress   string `json:"ip_address"`
	Hostname    string `json:"hostname"`
	OSType      string `json:"os_type"`
	OSVersion   string `json:"os_version"`
	Criticality string `json:"criticality"`
}

func (h *AssetHandler) Create(c *gin.Context) {
	var req AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset := models.Asset{
		Name:        req.Name,
		AssetType:   req.AssetType,
		IPAddress:   req.IPAddress,
		Hostname:    req.Hostname,
		OSType:      req.OSType,
		OSVersion:   req.OSVersion,
		Criticality: req.Criticality,
	}
	if err := h.service.Create(middleware.OrgID(c), &asset); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

func (h *AssetHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset, err := h.service.Update(middleware.OrgID(c), uint(id), updates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// Delete removes an asset. Assets with recorded vulnerabilities cannot be
// deleted and respond with 409.
func (h *AssetHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}

	if err := h.service.Delete(middleware.OrgID(c), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "asset deleted"})
}
