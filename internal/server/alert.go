package server

import (
	"errors"
	"io"
	"net/http"

	alertdomain "github.com/KaulanSerzhanuly/SafegUARD/internal/alert/domain"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/identity"
	"github.com/gin-gonic/gin"
)

type sosRequest struct {
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Message string   `json:"message"`
}

func (s *Server) TriggerSOS(c *gin.Context) {
	uid, ok := identity.UIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	// A bare SOS with no body is still an SOS.
	var req sosRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		AbortWithError(c, invalidRequestError())
		return
	}

	alert, err := s.alertSvc.TriggerSOS(c.Request.Context(), alertdomain.SOSRequest{
		UID:     uid,
		Lat:     req.Lat,
		Lng:     req.Lng,
		Message: req.Message,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"id":      alert.ID.String(),
		"message": "Emergency services have been notified",
	})
}
