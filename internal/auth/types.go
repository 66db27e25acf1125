package auth

import "strings"

// KeycloakRole is a realm role as returned by the Keycloak admin API.
type KeycloakRole struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Composite   *bool   `json:"composite,omitempty"`
	ClientRole  *bool   `json:"clientRole,omitempty"`
	ContainerID *string `json:"containerId,omitempty"`
}

// Identity is one linked login provider of a GoTrue user.
type Identity struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
}

// User is the subset of the GoTrue user object the service relies on.
type User struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email,omitempty"`
	Role         string                 `json:"role,omitempty"`
	CreatedAt    string                 `json:"created_at,omitempty"`
	AppMetadata  map[string]interface{} `json:"app_metadata,omitempty"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	Identities   []Identity             `json:"identities,omitempty"`
}

// UserResponse wraps User the way GoTrue client libraries do, which keeps
// the /whoami payload shape stable for existing consumers.
type UserResponse struct {
	User User `json:"user"`
}

// AuthenticatedUser is a verified bearer token, its GoTrue user and,
// when requested, the user's Keycloak realm roles.
type AuthenticatedUser struct {
	Token         string         `json:"token"`
	User          UserResponse   `json:"user"`
	KeycloakRoles []KeycloakRole `json:"keycloak_roles"`
}

// UserID returns the GoTrue user id.
func (u *AuthenticatedUser) UserID() string {
	return u.User.User.ID
}

// Email returns the user's email address, possibly empty.
func (u *AuthenticatedUser) Email() string {
	return u.User.User.Email
}

// HasRole reports whether the user holds the named Keycloak realm role.
// It is always false when roles were not fetched.
func (u *AuthenticatedUser) HasRole(name string) bool {
	for _, role := range u.KeycloakRoles {
		if role.Name == name {
			return true
		}
	}
	return false
}

// IsKeycloakProvider reports whether the user signed in through the
// Keycloak social login provider.
func (u *AuthenticatedUser) IsKeycloakProvider() bool {
	for _, identity := range u.User.User.Identities {
		if identity.Provider == "keycloak" {
			return true
		}
	}
	return false
}

// keycloakIdentity extracts the Keycloak issuer URL and subject from the
// GoTrue user metadata written by the Keycloak provider.
func (u *User) keycloakIdentity() (issuer, subject string, err error) {
	issuer, _ = u.UserMetadata["iss"].(string)
	subject, _ = u.UserMetadata["provider_id"].(string)
	if strings.TrimSpace(subject) == "" {
		return "", "", &ProviderError{Code: "MISSING_PROVIDER_ID", Message: "user metadata has no provider_id"}
	}
	if strings.TrimSpace(issuer) == "" {
		return "", "", &ProviderError{Code: "MISSING_ISSUER", Message: "user metadata has no iss"}
	}
	return issuer, subject, nil
}
