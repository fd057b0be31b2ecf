package domain

import (
	"errors"
	"net/http"
	"sort"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNoCredentials = errors.New("no credentials stored")
	ErrNotFound      = errors.New("not found")
)

type ErrorKind string

const (
	KindNetwork      ErrorKind = "NETWORK_ERROR"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	KindForbidden    ErrorKind = "FORBIDDEN"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindConflict     ErrorKind = "CONFLICT"
	KindBadRequest   ErrorKind = "BAD_REQUEST"
	KindValidation   ErrorKind = "VALIDATION_ERROR"
	KindRateLimit    ErrorKind = "RATE_LIMIT"
	KindServer       ErrorKind = "SERVER_ERROR"
	KindUnavailable  ErrorKind = "SERVICE_UNAVAILABLE"
	KindDecode       ErrorKind = "DECODE_ERROR"
	KindUnknown      ErrorKind = "API_ERROR"
)

// KindFromStatus classifies an HTTP status. 400 carries field errors from
// the API's serializers, so it counts as validation when fields are present.
func KindFromStatus(status int) ErrorKind {
	switch {
	case status == 0:
		return KindNetwork
	case status == http.StatusBadRequest:
		return KindBadRequest
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status == http.StatusServiceUnavailable:
		return KindUnavailable
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// APIError describes a failed call to the remote API.
type APIError struct {
	Kind    ErrorKind           `json:"code"`
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) IsNetwork() bool {
	return e != nil && e.Kind == KindNetwork
}

func (e *APIError) IsAuth() bool {
	return e != nil && (e.Status == http.StatusUnauthorized || e.Kind == KindUnauthorized)
}

func (e *APIError) IsValidation() bool {
	return e != nil && (e.Kind == KindValidation || (e.Kind == KindBadRequest && len(e.Fields) > 0))
}

// FieldNames returns the fields with errors in a stable order.
func (e *APIError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// FormError is a client-side validation failure raised before any call.
type FormError struct {
	Field   string
	Message string
}

func (e *FormError) Error() string {
	return e.Message
}

func (e *FormError) Unwrap() error {
	return ErrValidation
}
