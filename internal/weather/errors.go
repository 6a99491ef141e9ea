package weather

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when an upstream payload cannot be mapped
var ErrMalformedResponse = errors.New("malformed response")

// APIError is a non-success HTTP status from one of the Open-Meteo endpoints
type APIError struct {
	Service    string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %d", e.Service, e.StatusCode)
}

// NetworkError wraps a transport-level failure
type NetworkError struct {
	Service string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s API unreachable: %v", e.Service, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
