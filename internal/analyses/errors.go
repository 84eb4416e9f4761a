package analyses

import (
	"errors"
	"fmt"

	"repolens-backend/internal/webhook"
)

// ErrNotFound indicates no analysis exists with the given ID.
var ErrNotFound = errors.New("not found")

// Extraction failures. One sentinel per traversal level so tests can tell a
// truncated envelope from a malformed payload from a missing field.
var (
	ErrNoCandidates     = errors.New("no candidates in analysis response")
	ErrNoParts          = errors.New("no content parts in analysis response")
	ErrEmptyText        = errors.New("no text content in analysis response")
	ErrMalformedPayload = errors.New("analysis payload is not valid JSON")
	ErrEmptyPayload     = errors.New("analysis payload is not a non-empty array")
	ErrMissingIssues    = errors.New("analysis payload missing issues array")
	ErrBadRecommend     = errors.New("analysis payload recommendation is not a string")
)

// FailureKind identifies where and how a pipeline run failed.
type FailureKind string

const (
	KindQuotaExceeded            FailureKind = "QUOTA_EXCEEDED"
	KindTimeout                  FailureKind = "TIMEOUT"
	KindNetworkUnreachable       FailureKind = "NETWORK_UNREACHABLE"
	KindEndpointMisconfigured    FailureKind = "ENDPOINT_MISCONFIGURED"
	KindRateLimited              FailureKind = "RATE_LIMITED"
	KindUpstreamServerError      FailureKind = "UPSTREAM_SERVER_ERROR"
	KindEmptyOrMalformedResponse FailureKind = "EMPTY_OR_MALFORMED_RESPONSE"
	KindMalformedPayloadJSON     FailureKind = "MALFORMED_PAYLOAD_JSON"
	KindMissingRequiredField     FailureKind = "MISSING_REQUIRED_FIELD"
	KindStorageError             FailureKind = "STORAGE_ERROR"
	KindInternal                 FailureKind = "INTERNAL_ERROR"
)

// Retryable reports whether the user may reasonably retry after this kind.
func (k FailureKind) Retryable() bool {
	switch k {
	case KindTimeout, KindNetworkUnreachable, KindRateLimited, KindUpstreamServerError:
		return true
	}
	return false
}

// PipelineError is the single failure outcome of a pipeline run. The first
// failing stage is surfaced verbatim; nothing is retried internally.
type PipelineError struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// KindOfFailure extracts the failure kind from a pipeline error.
func KindOfFailure(err error) (FailureKind, bool) {
	var perr *PipelineError
	if errors.As(err, &perr) {
		return perr.Kind, true
	}
	return "", false
}

func classifyFailure(err error) FailureKind {
	if kind, ok := webhook.KindOf(err); ok {
		switch kind {
		case webhook.KindTimeout:
			return KindTimeout
		case webhook.KindNetworkUnreachable:
			return KindNetworkUnreachable
		case webhook.KindEndpointNotFound:
			return KindEndpointMisconfigured
		case webhook.KindRateLimited:
			return KindRateLimited
		case webhook.KindServerError:
			return KindUpstreamServerError
		default:
			// bad_status and empty_response: the provider broke its contract.
			return KindEmptyOrMalformedResponse
		}
	}
	switch {
	case errors.Is(err, ErrNoCandidates), errors.Is(err, ErrNoParts), errors.Is(err, ErrEmptyText):
		return KindEmptyOrMalformedResponse
	case errors.Is(err, ErrMalformedPayload):
		return KindMalformedPayloadJSON
	case errors.Is(err, ErrEmptyPayload), errors.Is(err, ErrMissingIssues), errors.Is(err, ErrBadRecommend):
		return KindMissingRequiredField
	}
	return KindInternal
}

func failure(err error) *PipelineError {
	return &PipelineError{Kind: classifyFailure(err), Message: err.Error(), Err: err}
}
