package relay

import (
	"errors"
	"fmt"
)

// Upstream failure classes. Rate limiting and quota exhaustion are
// surfaced distinctly; anything else non-success is an UpstreamError.
var (
	ErrRateLimited   = errors.New("rate limits exceeded, please try again later")
	ErrQuotaExceeded = errors.New("payment required, please add funds to your workspace")
)

// Input validation failures, rejected before any upstream call.
var (
	ErrEmptyHistory    = errors.New("messages array is required")
	ErrInvalidScamType = errors.New("unknown scam type")
)

// UpstreamError reports a gateway response that is neither success,
// rate limiting nor quota exhaustion.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ai gateway error: %d", e.StatusCode)
}
