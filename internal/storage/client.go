// Package storage is a small client for the Supabase Storage REST API.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Error represents a failed Storage API call.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// Object is one entry of a bucket listing.
type Object struct {
	Name      string         `json:"name"`
	ID        string         `json:"id"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
	Metadata  ObjectMetadata `json:"metadata"`
}

// ObjectMetadata holds the fields Storage reports for a stored object.
type ObjectMetadata struct {
	Size     int64  `json:"size"`
	Mimetype string `json:"mimetype"`
}

// Client uploads and lists objects of a single bucket. Requests are made on
// behalf of a user, so row level security policies apply.
type Client struct {
	BaseURL string
	APIKey  string
	Bucket  string
	Client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a Storage client for bucket in the Supabase project at
// supabaseURL.
func NewClient(supabaseURL, apiKey, bucket string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(supabaseURL, "/"),
		APIKey:  apiKey,
		Bucket:  bucket,
		Client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Upload stores content at path inside the bucket.
func (c *Client) Upload(ctx context.Context, userToken, path, contentType string, content io.Reader) error {
	u := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.BaseURL, c.Bucket, escapePath(path))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, content)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	c.authorize(req, userToken)

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError(resp)
	}

	c.logger.Debug("uploaded file",
		zap.String("op", "storage.Client.Upload"),
		zap.String("bucket", c.Bucket),
		zap.String("path", path),
	)
	return nil
}

// List returns the objects directly under prefix.
func (c *Client) List(ctx context.Context, userToken, prefix string) ([]Object, error) {
	body, err := json.Marshal(map[string]interface{}{
		"prefix": prefix,
		"limit":  100,
		"offset": 0,
		"sortBy": map[string]string{"column": "name", "order": "asc"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode list request: %w", err)
	}

	u := fmt.Sprintf("%s/storage/v1/object/list/%s", c.BaseURL, c.Bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req, userToken)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	objects := []Object{}
	if err := json.NewDecoder(resp.Body).Decode(&objects); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return objects, nil
}

// PublicURL returns the public download URL of path. It does not check that
// the object exists or that the bucket is public.
func (c *Client) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.BaseURL, c.Bucket, escapePath(path))
}

func (c *Client) authorize(req *http.Request, userToken string) {
	req.Header.Set("apikey", c.APIKey)
	token := userToken
	if token == "" {
		token = c.APIKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func escapePath(path string) string {
	parts := strings.Split(strings.TrimLeft(path, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func statusError(resp *http.Response) *Error {
	msg := fmt.Sprintf("storage returned status %d: %s", resp.StatusCode, resp.Status)
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil && json.Unmarshal(raw, &payload) == nil {
		if payload.Message != "" {
			msg = payload.Message
		} else if payload.Error != "" {
			msg = payload.Error
		}
	}
	return &Error{StatusCode: resp.StatusCode, Message: msg}
}
