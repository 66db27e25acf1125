package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// GoTrueClient talks to the Supabase auth (GoTrue) API.
type GoTrueClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	logger  *zap.Logger
}

// Session is the token pair returned by a password sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// NewGoTrueClient creates a client for the Supabase project at supabaseURL.
func NewGoTrueClient(supabaseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *GoTrueClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoTrueClient{
		BaseURL: strings.TrimRight(supabaseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// GetUser resolves an access token to its user. An invalid or expired token
// yields a *ProviderError with status 401 or 403.
func (c *GoTrueClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, ErrMissingToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	var user User
	if err := c.do(req, "auth.GoTrueClient.GetUser", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignInWithPassword exchanges email and password for a session.
func (c *GoTrueClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}

	u := c.BaseURL + "/auth/v1/token?" + url.Values{"grant_type": {"password"}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var session Session
	if err := c.do(req, "auth.GoTrueClient.SignInWithPassword", &session); err != nil {
		return nil, err
	}
	if session.AccessToken == "" {
		return nil, &ProviderError{Code: "NO_SESSION", Message: "sign-in returned no session"}
	}
	return &session, nil
}

func (c *GoTrueClient) do(req *http.Request, op string, out interface{}) error {
	start := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Warn("gotrue request failed",
			zap.String("op", op),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("gotrue response",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	if resp.StatusCode != http.StatusOK {
		return providerErrorFromStatus("GoTrue", resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
