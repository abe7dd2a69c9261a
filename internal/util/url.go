package util

import (
	"errors"
	"net/url"
	"strings"
)

var ErrInvalidBaseURL = errors.New("base URL must be an absolute http or https URL")

// ValidateBaseURL checks that baseURL can be used as the root of the
// identity service REST API. It only allows:
// 1. http and https schemes
// 2. a non-empty host
// 3. no query string or fragment (the API path is appended verbatim)
func ValidateBaseURL(baseURL string) error {
	if baseURL == "" || strings.ContainsAny(baseURL, "\r\n") {
		return ErrInvalidBaseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return ErrInvalidBaseURL
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidBaseURL
	}

	if parsed.Host == "" {
		return ErrInvalidBaseURL
	}

	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return ErrInvalidBaseURL
	}

	return nil
}
