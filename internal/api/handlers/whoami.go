package handlers

import (
	"net/http"

	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/api/middleware"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/api/models"
	"github.com/gin-gonic/gin"
)

// WhoAmIHandler reports the caller's identity and roles.
type WhoAmIHandler struct {
	adminRole string
}

// NewWhoAmIHandler creates a handler that treats adminRole as the admin realm role.
func NewWhoAmIHandler(adminRole string) *WhoAmIHandler {
	return &WhoAmIHandler{adminRole: adminRole}
}

// WhoAmI handles GET /whoami. It must run behind middleware.RequireUser
// with role lookup enabled.
func (h *WhoAmIHandler) WhoAmI(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "UNAUTHORIZED", Message: "not authenticated"},
		})
		return
	}

	c.JSON(http.StatusOK, models.WhoAmIResponse{
		AuthenticatedUser:  *user,
		IsAdmin:            user.HasRole(h.adminRole),
		IsKeycloakProvider: user.IsKeycloakProvider(),
	})
}
