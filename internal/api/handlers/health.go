package handlers

import (
	"net/http"
	"time"

	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/api/models"
	"github.com/gin-gonic/gin"
)

// Health handles GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Unix(),
	})
}
