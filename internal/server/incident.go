package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/KaulanSerzhanuly/SafegUARD/internal/identity"
	incidentdomain "github.com/KaulanSerzhanuly/SafegUARD/internal/incident/domain"
	"github.com/gin-gonic/gin"
)

type reportIncidentRequest struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Severity    int      `json:"severity"`
}

func (s *Server) ReportIncident(c *gin.Context) {
	uid, ok := identity.UIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req reportIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.Lat == nil {
		AbortWithError(c, newValidationError("lat", "required", "lat is required"))
		return
	}
	if req.Lng == nil {
		AbortWithError(c, newValidationError("lng", "required", "lng is required"))
		return
	}

	incident, err := s.incidentSvc.Report(c.Request.Context(), incidentdomain.ReportRequest{
		UID:         uid,
		Type:        req.Type,
		Description: req.Description,
		Lat:         *req.Lat,
		Lng:         *req.Lng,
		Severity:    req.Severity,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        incident.ID.String(),
		"status":    incident.Status,
		"createdAt": incident.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) ListIncidents(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	incidents, err := s.incidentSvc.List(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	views := make([]gin.H, 0, len(incidents))
	for _, incident := range incidents {
		views = append(views, gin.H{
			"id":          incident.ID.String(),
			"type":        incident.Type,
			"description": incident.Description,
			"location":    gin.H{"lat": incident.Lat, "lng": incident.Lng},
			"severity":    incident.Severity,
			"status":      incident.Status,
			"createdAt":   incident.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"count":     len(views),
		"incidents": views,
	})
}
