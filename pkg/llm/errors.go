package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the closed set of failure classes a provider call can
// produce. The orchestrator branches on kinds, never on error text.
type ErrorKind int

const (
	// KindTransient covers overload and server-busy responses. Worth a
	// local retry with backoff.
	KindTransient ErrorKind = iota
	// KindQuota means the caller exhausted its allowance on the
	// provider. Retrying locally cannot help; switch providers.
	KindQuota
	// KindTimeout means the wall-clock budget for the call elapsed.
	KindTimeout
	// KindOther is any failure that fits none of the above.
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindQuota:
		return "quota"
	case KindTimeout:
		return "timeout"
	default:
		return "other"
	}
}

// CallError is a provider failure translated into a typed kind at the
// adapter boundary.
type CallError struct {
	Kind     ErrorKind
	Provider string
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %s call failed: %v", e.Provider, e.Kind, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// KindOf extracts the error kind from err, defaulting to KindOther.
func KindOf(err error) ErrorKind {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindOther
}

// classifyStatus maps an HTTP status code to an error kind.
func classifyStatus(code int) ErrorKind {
	switch {
	case code == http.StatusTooManyRequests:
		return KindQuota
	case code == http.StatusServiceUnavailable,
		code == http.StatusBadGateway,
		code == http.StatusGatewayTimeout,
		code == http.StatusInternalServerError:
		return KindTransient
	default:
		return KindOther
	}
}
