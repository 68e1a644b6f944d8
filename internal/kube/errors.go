package kube

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	k8serrors "k8s.io/apimachinery/pkg/api/errors"
)

// ErrorType buckets API failures for user-facing messages. It never drives
// control flow inside the refresh loop; a failed branch is a warning there
// regardless of type.
type ErrorType int

const (
	ErrUnknown ErrorType = iota
	ErrAuth
	ErrForbidden
	ErrConnectivity
)

func (t ErrorType) String() string {
	switch t {
	case ErrAuth:
		return "auth"
	case ErrForbidden:
		return "forbidden"
	case ErrConnectivity:
		return "connectivity"
	default:
		return "unknown"
	}
}

// APIError wraps a raw client-go error with a classified type and a message
// suitable for display.
type APIError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *APIError) Error() string { return e.Message }
func (e *APIError) Unwrap() error { return e.Err }

// classifyError converts a raw Kubernetes API error into an *APIError.
// A nil error stays nil.
func classifyError(err error, serverURL string) error {
	if err == nil {
		return nil
	}

	var statusErr *k8serrors.StatusError
	if errors.As(err, &statusErr) {
		code := statusErr.Status().Code
		switch {
		case code == http.StatusUnauthorized:
			return &APIError{
				Type:    ErrAuth,
				Message: fmt.Sprintf("unauthorized: credentials for %s are missing or expired", serverURL),
				Err:     err,
			}
		case code == http.StatusForbidden:
			return &APIError{
				Type:    ErrForbidden,
				Message: statusErr.Status().Message,
				Err:     err,
			}
		case code >= 500:
			return &APIError{
				Type:    ErrConnectivity,
				Message: fmt.Sprintf("server error (%d) from %s", code, serverURL),
				Err:     err,
			}
		}
	}

	errStr := err.Error()
	if strings.Contains(errStr, "x509") || strings.Contains(errStr, "certificate") || strings.Contains(errStr, "tls") {
		return &APIError{
			Type:    ErrConnectivity,
			Message: fmt.Sprintf("TLS failure talking to %s: %v", serverURL, err),
			Err:     err,
		}
	}
	if strings.Contains(errStr, "dial tcp") || strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "context deadline exceeded") {
		return &APIError{
			Type:    ErrConnectivity,
			Message: fmt.Sprintf("cluster unreachable: %s: %v", serverURL, err),
			Err:     err,
		}
	}

	return &APIError{Type: ErrUnknown, Message: err.Error(), Err: err}
}
