package metrics

import (
	"time"

	"github.com/go-authgate/crowdauth/crowd"
)

// NoopMetrics is a no-operation implementation of crowd.Recorder
// All methods are empty and do nothing, providing zero overhead when metrics are disabled
type NoopMetrics struct{}

var _ crowd.Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() crowd.Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordAuthAttempt(method string, success bool, duration time.Duration) {}
func (n *NoopMetrics) RecordAuthFailure(kind string)                                         {}
func (n *NoopMetrics) RecordExternalAPICall(provider string, duration time.Duration)         {}
