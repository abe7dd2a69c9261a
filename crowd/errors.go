package crowd

import (
	"errors"

	"github.com/go-authgate/crowdauth/internal/util"
)

var (
	ErrInvalidBaseURL = util.ErrInvalidBaseURL

	// Crowd API errors
	ErrConnection      = errors.New("failed to connect to identity service")
	ErrAuthFailed      = errors.New("identity service rejected credentials")
	ErrInvalidResponse = errors.New("invalid response from identity service")
)

// FailureKind classifies why an authentication attempt did not succeed.
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureConnection FailureKind = "connection"
	FailureRejected   FailureKind = "rejected"
	FailureMalformed  FailureKind = "malformed"
)

// Kind maps an error returned by Verify to its FailureKind.
func Kind(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrAuthFailed):
		return FailureRejected
	case errors.Is(err, ErrInvalidResponse):
		return FailureMalformed
	default:
		return FailureConnection
	}
}
