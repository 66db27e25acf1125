package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Authenticator verifies bearer tokens against GoTrue and optionally enriches
// the user with Keycloak realm roles.
type Authenticator struct {
	gotrue   *GoTrueClient
	keycloak *KeycloakClient
	logger   *zap.Logger
}

// NewAuthenticator wires the two identity provider clients together.
func NewAuthenticator(gotrue *GoTrueClient, keycloak *KeycloakClient, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{gotrue: gotrue, keycloak: keycloak, logger: logger}
}

// Authenticate resolves token to a user. With fetchRoles the user's Keycloak
// issuer and subject are read from the GoTrue metadata and the realm roles
// are looked up with a service-account token.
func (a *Authenticator) Authenticate(ctx context.Context, token string, fetchRoles bool) (*AuthenticatedUser, error) {
	user, err := a.gotrue.GetUser(ctx, token)
	if err != nil {
		return nil, err
	}

	result := &AuthenticatedUser{
		Token:         token,
		User:          UserResponse{User: *user},
		KeycloakRoles: []KeycloakRole{},
	}
	if !fetchRoles {
		return result, nil
	}

	issuer, subject, err := user.keycloakIdentity()
	if err != nil {
		return nil, err
	}

	adminToken, err := a.keycloak.Token(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("keycloak token: %w", err)
	}

	roles, err := a.keycloak.UserRoles(ctx, issuer, adminToken, subject)
	if err != nil {
		return nil, fmt.Errorf("keycloak roles: %w", err)
	}
	result.KeycloakRoles = roles

	a.logger.Debug("resolved keycloak roles",
		zap.String("op", "auth.Authenticator.Authenticate"),
		zap.String("user_id", user.ID),
		zap.Int("roles", len(roles)),
	)
	return result, nil
}
