package apierror

import "fmt"

// APIError carries the HTTP status alongside the caller-facing reason and
// message so handlers can render the error envelope without re-classifying
// failures.
type APIError struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Message)
	}

	return e.Reason
}

func New(code int, reason string, message string) *APIError {
	return &APIError{Code: code, Reason: reason, Message: message}
}
