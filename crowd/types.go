package crowd

import (
	"context"
	"time"
)

// AuthResult holds the outcome of an authentication attempt.
type AuthResult struct {
	Username    string
	DisplayName string // "display-name" attribute from the identity service
	Email       string
	Success     bool
}

// AuthProvider is the interface that password-based authentication
// backends must implement.
type AuthProvider interface {
	Verify(ctx context.Context, username, password string) (*AuthResult, error)
	Name() string
}

// Recorder receives metrics for each authentication attempt. Applications
// embedding the client pass their own implementation with WithRecorder.
type Recorder interface {
	RecordAuthAttempt(method string, success bool, duration time.Duration)
	RecordAuthFailure(kind string)
	RecordExternalAPICall(provider string, duration time.Duration)
}

// Ensure Client satisfies AuthProvider at compile time
var _ AuthProvider = (*Client)(nil)

type noopRecorder struct{}

func (noopRecorder) RecordAuthAttempt(string, bool, time.Duration) {}
func (noopRecorder) RecordAuthFailure(string)                      {}
func (noopRecorder) RecordExternalAPICall(string, time.Duration)   {}

// passwordRequest is the body of the authentication call.
type passwordRequest struct {
	Value string `json:"value"`
}

// errorResponse is the error entity Crowd returns with non-200 statuses.
type errorResponse struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Attribute keys read from the authentication response.
const (
	keyDisplayName = "display-name"
	keyEmail       = "email"
)
