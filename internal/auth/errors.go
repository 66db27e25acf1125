package auth

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingToken is returned when a request carries no bearer token.
var ErrMissingToken = errors.New("not authenticated")

// ProviderError represents a failed call to the identity provider.
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	return e.Message
}

func providerErrorFromStatus(provider string, resp *http.Response) *ProviderError {
	code := "PROVIDER_ERROR"
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		code = "UNAUTHORIZED"
	case http.StatusForbidden:
		code = "FORBIDDEN"
	case http.StatusNotFound:
		code = "NOT_FOUND"
	case http.StatusTooManyRequests:
		code = "RATE_LIMIT_EXCEEDED"
	}
	return &ProviderError{
		StatusCode: resp.StatusCode,
		Code:       code,
		Message:    fmt.Sprintf("%s returned status %d: %s", provider, resp.StatusCode, resp.Status),
	}
}
