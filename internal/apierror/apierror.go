// Package apierror defines the JSON error bodies of the HTTP API. Every
// 4xx/5xx response goes through one of these envelopes so clients never
// see raw framework or storage errors. The error taxonomy itself (stock,
// purchase state, storage integrity) lives in the service layer; handlers
// map it to status codes and wrap the message here.
package apierror

// APIError is the single-message envelope: {"detail": "..."}.
type APIError struct {
	Detail string `json:"detail"`
}

// New wraps a user-facing message in the plain envelope.
func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError adds the per-field tag failures collected during
// request binding.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validación", Fields: fields}
}
