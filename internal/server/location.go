package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/KaulanSerzhanuly/SafegUARD/internal/identity"
	locationdomain "github.com/KaulanSerzhanuly/SafegUARD/internal/location/domain"
	proximitydomain "github.com/KaulanSerzhanuly/SafegUARD/internal/proximity/domain"
	"github.com/gin-gonic/gin"
)

type updateLocationRequest struct {
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Accuracy  *float64 `json:"accuracy"`
	Speed     *float64 `json:"speed"`
	Heading   *float64 `json:"heading"`
	SessionID string   `json:"sessionId"`
}

type updateLocationResponse struct {
	Success    bool                             `json:"success"`
	LocationID string                           `json:"locationId"`
	Alerts     []proximitydomain.TriggeredWatch `json:"alerts,omitempty"`
}

func (s *Server) UpdateLocation(c *gin.Context) {
	uid, ok := identity.UIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req updateLocationRequest
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

	resp, err := s.locationSvc.UpdateLocation(c.Request.Context(), locationdomain.UpdateLocationRequest{
		UID:       uid,
		Lat:       *req.Lat,
		Lng:       *req.Lng,
		Accuracy:  req.Accuracy,
		Speed:     req.Speed,
		Heading:   req.Heading,
		SessionID: req.SessionID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, updateLocationResponse{
		Success:    true,
		LocationID: resp.LocationID.String(),
		Alerts:     resp.Alerts,
	})
}

func (s *Server) CurrentLocation(c *gin.Context) {
	current, err := s.locationSvc.CurrentLocation(c.Request.Context(), c.Param("uid"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uid":        current.UID,
		"location":   current.Location(),
		"lastUpdate": current.LastLocationUpdate.UTC().Format(time.RFC3339),
	})
}

type locationSampleView struct {
	ID        string                     `json:"id"`
	Location  locationdomain.Coordinates `json:"location"`
	Speed     *float64                   `json:"speed,omitempty"`
	Heading   *float64                   `json:"heading,omitempty"`
	SessionID string                     `json:"sessionId,omitempty"`
	Timestamp string                     `json:"timestamp"`
}

func (s *Server) LocationHistory(c *gin.Context) {
	req := locationdomain.HistoryRequest{UID: c.Param("uid")}

	if raw := strings.TrimSpace(c.Query("startTime")); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, newValidationError("startTime", "invalid_timestamp", "startTime must be RFC3339"))
			return
		}
		req.StartTime = &start
	}
	if raw := strings.TrimSpace(c.Query("endTime")); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, newValidationError("endTime", "invalid_timestamp", "endTime must be RFC3339"))
			return
		}
		req.EndTime = &end
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "limit must be a positive integer"))
			return
		}
		req.Limit = limit
	}

	samples, err := s.locationSvc.History(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	views := make([]locationSampleView, 0, len(samples))
	for _, sample := range samples {
		views = append(views, locationSampleView{
			ID:        sample.ID.String(),
			Location:  sample.Location(),
			Speed:     sample.Speed,
			Heading:   sample.Heading,
			SessionID: sample.SessionID,
			Timestamp: sample.Timestamp.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"uid":       strings.TrimSpace(c.Param("uid")),
		"count":     len(views),
		"locations": views,
	})
}

func (s *Server) ClearLocationHistory(c *gin.Context) {
	deleted, err := s.locationSvc.ClearHistory(c.Request.Context(), c.Param("uid"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"deletedCount": deleted,
	})
}

func (s *Server) SessionLocations(c *gin.Context) {
	sessionID := c.Param("sessionId")

	mirrors, err := s.locationSvc.SessionLocations(c.Request.Context(), sessionID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	participants := make([]gin.H, 0, len(mirrors))
	for _, mirror := range mirrors {
		participants = append(participants, gin.H{
			"uid":       mirror.UID,
			"location":  mirror.Location(),
			"timestamp": mirror.Timestamp.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId":    strings.TrimSpace(sessionID),
		"participants": participants,
	})
}

func (s *Server) NearbyUsers(c *gin.Context) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(c.Query("lat")), 64)
	if err != nil {
		AbortWithError(c, newValidationError("lat", "required", "lat is required"))
		return
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(c.Query("lng")), 64)
	if err != nil {
		AbortWithError(c, newValidationError("lng", "required", "lng is required"))
		return
	}

	req := locationdomain.NearbyRequest{Lat: lat, Lng: lng}
	if raw := strings.TrimSpace(c.Query("radius")); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil || radius <= 0 {
			AbortWithError(c, newValidationError("radius", "invalid_radius", "radius must be a positive number"))
			return
		}
		req.Radius = radius
	}

	users, err := s.locationSvc.NearbyUsers(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	radius := req.Radius
	if radius <= 0 {
		radius = 1000
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(users),
		"radius": radius,
		"users":  users,
	})
}

type proximityAlertRequest struct {
	Type    string   `json:"type"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Radius  float64  `json:"radius"`
	Message string   `json:"message"`
}

func (s *Server) RegisterProximityAlert(c *gin.Context) {
	uid, ok := identity.UIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req proximityAlertRequest
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

	watch, err := s.proximitySvc.RegisterWatch(c.Request.Context(), proximitydomain.RegisterWatchRequest{
		UID:     uid,
		Kind:    req.Type,
		Lat:     *req.Lat,
		Lng:     *req.Lng,
		Radius:  req.Radius,
		Message: req.Message,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"alertId": watch.ID.String(),
	})
}
