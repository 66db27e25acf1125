package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/api/models"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/auth"
	"github.com/gin-gonic/gin"
)

const userKey = "authenticated_user"

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string, fetchRoles bool) (*auth.AuthenticatedUser, error)
}

// RequireUser rejects requests without a valid bearer token with 401 and
// stores the resolved user for CurrentUser. fetchRoles also loads the
// user's Keycloak realm roles.
func RequireUser(authn Authenticator, fetchRoles bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		user, err := authn.Authenticate(c.Request.Context(), token, fetchRoles)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireUser.
func CurrentUser(c *gin.Context) (*auth.AuthenticatedUser, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*auth.AuthenticatedUser)
	return user, ok && user != nil
}

func bearerToken(header string) (string, error) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", auth.ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", auth.ErrMissingToken
	}
	return token, nil
}

func abortUnauthorized(c *gin.Context, err error) {
	code := "UNAUTHORIZED"
	var providerErr *auth.ProviderError
	if errors.As(err, &providerErr) {
		code = providerErr.Code
	}

	_ = c.Error(err)
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}
