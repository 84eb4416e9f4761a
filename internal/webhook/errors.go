package webhook

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed webhook call.
type ErrorKind string

const (
	KindTimeout            ErrorKind = "timeout"
	KindNetworkUnreachable ErrorKind = "network_unreachable"
	KindEndpointNotFound   ErrorKind = "endpoint_not_found"
	KindRateLimited        ErrorKind = "rate_limited"
	KindServerError        ErrorKind = "server_error"
	KindBadStatus          ErrorKind = "bad_status"
	KindEmptyResponse      ErrorKind = "empty_response"
)

// Error carries the classification of a failed webhook call.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("webhook: %s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("webhook: %s: %s", e.Kind, e.Message)
}

// KindOf extracts the error kind if err originated from this package.
func KindOf(err error) (ErrorKind, bool) {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Kind, true
	}
	return "", false
}
