package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// tokenExpirySkew is subtracted from expires_in so a cached admin token is
// never handed out right before Keycloak rejects it.
const tokenExpirySkew = 10 * time.Second

// KeycloakClient obtains service-account tokens and reads realm role
// mappings. The realm URL is taken per call from the user's token issuer, so
// one client serves every realm the identity provider federates.
type KeycloakClient struct {
	ClientID     string
	ClientSecret string
	Client       *http.Client
	cache        TokenCache
	logger       *zap.Logger
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// NewKeycloakClient creates a Keycloak client. cache may be nil, in which
// case a token is requested on every call.
func NewKeycloakClient(clientID, clientSecret string, timeout time.Duration, cache TokenCache, logger *zap.Logger) *KeycloakClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeycloakClient{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Client:       &http.Client{Timeout: timeout},
		cache:        cache,
		logger:       logger,
	}
}

// Token returns an access token for the realm at realmURL using the client
// credentials grant.
func (c *KeycloakClient) Token(ctx context.Context, realmURL string) (string, error) {
	realmURL = strings.TrimRight(realmURL, "/")
	key := CacheKey(realmURL, c.ClientID)
	if c.cache != nil {
		if token, ok := c.cache.Get(ctx, key); ok {
			return token, nil
		}
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.ClientID},
		"client_secret": {c.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		realmURL+"/protocol/openid-connect/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var tr tokenResponse
	if err := c.do(req, "auth.KeycloakClient.Token", &tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", &ProviderError{Code: "NO_ACCESS_TOKEN", Message: "Keycloak token response has no access_token"}
	}

	if c.cache != nil && tr.ExpiresIn > 0 {
		ttl := time.Duration(tr.ExpiresIn)*time.Second - tokenExpirySkew
		if ttl > 0 {
			if err := c.cache.Set(ctx, key, tr.AccessToken, ttl); err != nil {
				c.logger.Warn("failed to cache keycloak token",
					zap.String("op", "auth.KeycloakClient.Token"),
					zap.Error(err),
				)
			}
		}
	}
	return tr.AccessToken, nil
}

// UserRoles lists the realm roles mapped to userID.
func (c *KeycloakClient) UserRoles(ctx context.Context, realmURL, adminToken, userID string) ([]KeycloakRole, error) {
	u := adminRealmURL(realmURL) + "/users/" + url.PathEscape(userID) + "/role-mappings/realm"
	c.logger.Debug("requesting keycloak roles",
		zap.String("op", "auth.KeycloakClient.UserRoles"),
		zap.String("user_id", userID),
		zap.String("url", u),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+adminToken)
	req.Header.Set("Accept", "application/json")

	roles := []KeycloakRole{}
	if err := c.do(req, "auth.KeycloakClient.UserRoles", &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// adminRealmURL maps https://host/realms/x to https://host/admin/realms/x.
func adminRealmURL(realmURL string) string {
	return strings.TrimRight(strings.Replace(realmURL, "/realms", "/admin/realms", 1), "/")
}

func (c *KeycloakClient) do(req *http.Request, op string, out interface{}) error {
	start := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Warn("keycloak request failed",
			zap.String("op", op),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("keycloak response",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	if resp.StatusCode != http.StatusOK {
		return providerErrorFromStatus("Keycloak", resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
