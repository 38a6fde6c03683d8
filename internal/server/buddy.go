package server

import (
	"net/http"
	"time"

	buddydomain "github.com/KaulanSerzhanuly/SafegUARD/internal/buddy/domain"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/identity"
	"github.com/gin-gonic/gin"
)

type createBuddySessionRequest struct {
	Participants       []string `json:"participants"`
	CheckInIntervalSec int      `json:"checkInInterval"`
}

func (s *Server) CreateBuddySession(c *gin.Context) {
	uid, ok := identity.UIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createBuddySessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	session, err := s.buddySvc.CreateSession(c.Request.Context(), buddydomain.CreateSessionRequest{
		OwnerUID:           uid,
		Participants:       req.Participants,
		CheckInIntervalSec: req.CheckInIntervalSec,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, buddySessionView(session))
}

func (s *Server) GetBuddySession(c *gin.Context) {
	session, err := s.buddySvc.Get(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, buddySessionView(session))
}

type buddyCheckInRequest struct {
	Status string `json:"status"`
}

func (s *Server) BuddyCheckIn(c *gin.Context) {
	uid, ok := identity.UIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req buddyCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	checkIn, err := s.buddySvc.CheckIn(c.Request.Context(), buddydomain.CheckInRequest{
		SessionID: c.Param("sessionId"),
		UID:       uid,
		Status:    req.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"status":    checkIn.Status,
		"timestamp": checkIn.Timestamp.UTC().Format(time.RFC3339),
	})
}

func buddySessionView(session buddydomain.Session) gin.H {
	view := gin.H{
		"id":              session.ID.String(),
		"ownerUid":        session.OwnerUID,
		"participants":    []string(session.Participants),
		"checkInInterval": session.CheckInIntervalSec,
		"active":          session.Active,
		"createdAt":       session.CreatedAt.UTC().Format(time.RFC3339),
	}
	if session.LastCheckInAt != nil {
		view["lastCheckInAt"] = session.LastCheckInAt.UTC().Format(time.RFC3339)
	}
	return view
}
