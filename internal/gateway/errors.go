package gateway

import (
	"fmt"

	"emart-storefront/internal/domain"

	"github.com/goccy/go-json"
)

// parseError builds an APIError from a failed response body. Message
// precedence: error, message, detail, non_field_errors, then the first
// field error in field-name order.
func parseError(status int, data json.RawMessage) *domain.APIError {
	apiErr := &domain.APIError{
		Kind:    domain.KindFromStatus(status),
		Status:  status,
		Message: defaultMessage,
	}
	if len(data) == 0 {
		return apiErr
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return apiErr
	}

	for _, key := range []string{"error", "message", "detail"} {
		if msg := asString(payload[key]); msg != "" {
			apiErr.Message = msg
			return apiErr
		}
	}

	fields := map[string][]string{}
	for key, raw := range payload {
		if msgs := asStrings(raw); len(msgs) > 0 {
			fields[key] = msgs
		}
	}
	if msgs, ok := fields["non_field_errors"]; ok {
		apiErr.Message = msgs[0]
		delete(fields, "non_field_errors")
	}
	if len(fields) == 0 {
		return apiErr
	}

	apiErr.Fields = fields
	if status == 400 {
		apiErr.Kind = domain.KindValidation
	}
	if apiErr.Message == defaultMessage {
		first := apiErr.FieldNames()[0]
		apiErr.Message = fmt.Sprintf("%s: %s", first, fields[first][0])
	}
	return apiErr
}

func asString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func asStrings(raw json.RawMessage) []string {
	if s := asString(raw); s != "" {
		return []string{s}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	return nil
}

// decode converts a raw Result into a typed response.
func decode[T any](r Result) domain.Response[T] {
	resp := domain.Response[T]{Success: r.Success, Status: r.Status, Err: r.Err}
	if !r.Success || len(r.Data) == 0 {
		return resp
	}
	if err := json.Unmarshal(r.Data, &resp.Data); err != nil {
		resp.Success = false
		resp.Err = &domain.APIError{
			Kind:    domain.KindDecode,
			Status:  r.Status,
			Message: fmt.Sprintf("decode response: %v", err),
		}
	}
	return resp
}
