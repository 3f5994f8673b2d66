package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/halcyonlabs/argus/internal/api/middleware"
	"github.com/halcyonlabs/argus/internal/query"
	"github.com/halcyonlabs/argus/internal/services"
	"github.com/halcyonlabs/argus/internal/workflow"
)

// respondError translates service and engine errors into HTTP status codes.
// Unknown errors are logged and reported as a generic 500 so internals never
// leak to the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound) || errors.Is(err, workflow.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	case errors.Is(err, query.ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrCrossTenantAssignment):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		middleware.GetRequestLogger(c).WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// parseSpec builds a query spec from the request's query string. Absent
// filter params behave exactly like "all".
func parseSpec(c *gin.Context) query.Spec {
	spec := query.Spec{
		Filter: query.Filter{
			Severity: c.DefaultQuery("severity", query.All),
			Status:   c.DefaultQuery("status", query.All),
			Type:     c.DefaultQuery("type", query.All),
			Source:   c.DefaultQuery("source", query.All),
			AssetRef: c.Query("asset"),
		},
		Sort: query.Sort{
			Field:     c.Query("sort"),
			Direction: c.Query("order"),
		},
	}
	spec.Page.Number, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	spec.Page.Size, _ = strconv.Atoi(c.DefaultQuery("page_size", "0"))

	if from, err := parseDate(c.Query("date_from")); err == nil && from != nil {
		spec.Filter.DateFrom = from
	}
	if to, err := parseDate(c.Query("date_to")); err == nil && to != nil {
		spec.Filter.DateTo = to
	}
	return spec
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("unrecognized date format")
}

// pagedResponse is the standard list envelope.
func pagedResponse(items interface{}, total int64, spec query.Spec) gin.H {
	return gin.H{
		"items": items,
		"total": total,
		"page":  spec.Page.Number,
	}
}
