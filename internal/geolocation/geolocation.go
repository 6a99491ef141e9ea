// Package geolocation provides device-position capabilities.
package geolocation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexivanou/geoweather/internal/model"
)

// Reason classifies why a position could not be obtained
type Reason string

const (
	ReasonUnsupported         Reason = "unsupported"
	ReasonPermissionDenied    Reason = "permission_denied"
	ReasonPositionUnavailable Reason = "position_unavailable"
	ReasonTimeout             Reason = "timeout"
)

// Error is a failure to obtain the device position
type Error struct {
	Reason Reason
}

func (e *Error) Error() string {
	return fmt.Sprintf("geolocation failed: %s", e.Reason)
}

// ErrUnsupported is returned when no position capability exists at all
var ErrUnsupported = &Error{Reason: ReasonUnsupported}

// IsUnsupported reports whether err means the capability is absent
func IsUnsupported(err error) bool {
	var geoErr *Error
	return errors.As(err, &geoErr) && geoErr.Reason == ReasonUnsupported
}

// Locator yields the device's current position
type Locator interface {
	CurrentPosition(ctx context.Context) (model.Coordinate, error)
}

// Static always reports the same position
type Static struct {
	Position model.Coordinate
}

// CurrentPosition returns the configured position
func (s Static) CurrentPosition(ctx context.Context) (model.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return model.Coordinate{}, &Error{Reason: ReasonTimeout}
	}
	return s.Position, nil
}

// Reported holds the last position a browser reported for its session.
// Until the first report the capability is treated as unsupported.
type Reported struct {
	mu       sync.Mutex
	position model.Coordinate
	err      error
	reported bool
}

// NewReported creates an empty Reported locator
func NewReported() *Reported {
	return &Reported{}
}

// Report stores a successful position
func (r *Reported) Report(position model.Coordinate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.position = position
	r.err = nil
	r.reported = true
}

// Fail stores a failed position request
func (r *Reported) Fail(reason Reason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = &Error{Reason: reason}
	r.reported = true
}

// CurrentPosition returns the last report
func (r *Reported) CurrentPosition(ctx context.Context) (model.Coordinate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.reported {
		return model.Coordinate{}, ErrUnsupported
	}
	if r.err != nil {
		return model.Coordinate{}, r.err
	}
	return r.position, nil
}

// ParseReason maps a browser error name to a Reason
func ParseReason(s string) Reason {
	switch Reason(s) {
	case ReasonUnsupported, ReasonPermissionDenied, ReasonTimeout:
		return Reason(s)
	default:
		return ReasonPositionUnavailable
	}
}

var (
	_ Locator = Static{}
	_ Locator = (*Reported)(nil)
)
