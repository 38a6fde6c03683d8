package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) RiskNear(c *gin.Context) {
	assessment, err := s.riskSvc.Latest(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"riskScore":       assessment.RiskScore,
		"nearbyIncidents": assessment.NearbyIncidents,
	})
}
