package domain

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/goccy/go-json"
)

// --- Shared Custom Types ---

// Price is a monetary amount. The remote API serialises decimals as
// strings ("129.99"), older endpoints send plain numbers; both decode.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*p = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.New("price: invalid decimal string " + strconv.Quote(s))
		}
		*p = Price(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = Price(f)
	return nil
}

// ID is an identifier the API may send as a number or a string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Page is the paginated list envelope returned by list endpoints.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Response standardizes API call results: callers check Success before Data.
type Response[T any] struct {
	Success bool
	Status  int
	Data    T
	Err     *APIError
}

// Message returns the failure message, or "" on success.
func (r Response[T]) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Message
}

// Failure returns the error of a failed response as a non-nil error value.
func (r Response[T]) Failure() error {
	if r.Success {
		return nil
	}
	if r.Err == nil {
		return &APIError{Kind: KindUnknown, Status: r.Status, Message: "An error occurred"}
	}
	return r.Err
}
