// Package search drives the location search box: suggestions as the user
// types, reverse lookup of the device position, and committing a selection.
package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/alexivanou/geoweather/internal/geolocation"
	"github.com/alexivanou/geoweather/internal/model"
	"github.com/alexivanou/geoweather/internal/pointer"
	"github.com/alexivanou/geoweather/internal/weather"
	"go.uber.org/zap"
)

const minQueryLength = 2

const (
	msgSearchFailed       = "Failed to search locations"
	msgLookupFailed       = "Failed to get location name"
	msgPositionFailed     = "Unable to get your location"
	msgGeolocationMissing = "Geolocation is not supported by this browser"
)

// ErrNoSuchSuggestion is returned when picking an index outside the visible list
var ErrNoSuchSuggestion = errors.New("no such suggestion")

// SelectFunc receives every committed location
type SelectFunc func(ctx context.Context, location model.Location)

// State is a copy of the controller's state for presentation
type State struct {
	Query              string           `json:"query"`
	Suggestions        []model.Location `json:"suggestions"`
	SuggestionsVisible bool             `json:"suggestions_visible"`
	IsSearching        bool             `json:"is_searching"`
	Error              string           `json:"error,omitempty"`
}

// Options configures a Controller
type Options struct {
	Geocoder weather.Geocoder
	// Locator may be nil when the device has no position capability
	Locator  geolocation.Locator
	Pointer  pointer.Source
	OnSelect SelectFunc
	Logger   *zap.Logger
}

// Controller owns the search box state.
// Network calls run without the lock held; every search carries a sequence
// number and only the most recent one may write its result back.
type Controller struct {
	geocoder weather.Geocoder
	locator  geolocation.Locator
	onSelect SelectFunc
	logger   *zap.Logger

	mu    sync.Mutex
	state State
	seq   uint64

	unsubscribe func()
	closeOnce   sync.Once
}

// NewController creates a controller and starts listening for pointer interactions
func NewController(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	onSelect := opts.OnSelect
	if onSelect == nil {
		onSelect = func(context.Context, model.Location) {}
	}

	c := &Controller{
		geocoder: opts.Geocoder,
		locator:  opts.Locator,
		onSelect: onSelect,
		logger:   logger,
		state:    State{Suggestions: []model.Location{}},
	}
	if opts.Pointer != nil {
		c.unsubscribe = opts.Pointer.Subscribe(c.handlePointer)
	}
	return c
}

// Close stops listening for pointer interactions
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
	})
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Suggestions = append([]model.Location{}, c.state.Suggestions...)
	return s
}

// QueryChanged handles an edit of the query text
func (c *Controller) QueryChanged(ctx context.Context, text string) {
	c.mu.Lock()
	c.state.Query = text
	c.state.Error = ""
	c.seq++
	seq := c.seq

	if utf8.RuneCountInString(strings.TrimSpace(text)) < minQueryLength {
		c.clearSuggestions()
		c.state.IsSearching = false
		c.mu.Unlock()
		return
	}
	c.state.IsSearching = true
	c.mu.Unlock()

	results, err := c.geocoder.SearchLocations(ctx, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		c.logger.Debug("Discarding stale search result", zap.String("query", text))
		return
	}
	c.state.IsSearching = false
	if err != nil {
		c.logger.Warn("Location search failed", zap.String("query", text), zap.Error(err))
		c.state.Error = msgSearchFailed
		c.clearSuggestions()
		return
	}
	c.state.Suggestions = results
	c.state.SuggestionsVisible = len(results) > 0
}

// RequestCurrentLocation resolves the device position to a location and
// commits it.
func (c *Controller) RequestCurrentLocation(ctx context.Context) {
	if c.locator == nil {
		c.setError(msgGeolocationMissing)
		return
	}

	c.mu.Lock()
	c.state.IsSearching = true
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	position, err := c.locator.CurrentPosition(ctx)
	if err != nil {
		c.logger.Info("Device position unavailable", zap.Error(err))
		msg := msgPositionFailed
		if geolocation.IsUnsupported(err) {
			msg = msgGeolocationMissing
		}
		c.finishLookup(seq, msg)
		return
	}

	results, err := c.geocoder.SearchLocations(ctx, weather.FormatCoordinates(position.Lat, position.Lon))
	if err != nil {
		c.logger.Warn("Reverse lookup failed", zap.Error(err))
		c.finishLookup(seq, msgLookupFailed)
		return
	}

	location := model.Location{
		Name:      "Current Location",
		Latitude:  position.Lat,
		Longitude: position.Lon,
		Country:   "Unknown",
	}
	if len(results) > 0 {
		location = results[0]
	}

	c.finishLookup(seq, "")
	c.LocationPicked(ctx, location)
}

func (c *Controller) finishLookup(seq uint64, errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if errMsg != "" {
		c.state.Error = errMsg
	}
	if seq == c.seq {
		c.state.IsSearching = false
	}
}

// LocationPicked commits a location: the query shows its display name, the
// suggestion panel is cleared and the selection callback is invoked. Any
// search still in flight is superseded by the pick.
func (c *Controller) LocationPicked(ctx context.Context, location model.Location) {
	c.mu.Lock()
	c.seq++
	c.state.IsSearching = false
	c.state.Query = location.DisplayName()
	c.clearSuggestions()
	c.mu.Unlock()

	c.onSelect(ctx, location)
}

// PickSuggestion commits the suggestion at index
func (c *Controller) PickSuggestion(ctx context.Context, index int) (model.Location, error) {
	c.mu.Lock()
	if !c.state.SuggestionsVisible || index < 0 || index >= len(c.state.Suggestions) {
		c.mu.Unlock()
		return model.Location{}, ErrNoSuchSuggestion
	}
	location := c.state.Suggestions[index]
	c.mu.Unlock()

	c.LocationPicked(ctx, location)
	return location, nil
}

// SetCurrentLocation mirrors an externally chosen location into the query text
func (c *Controller) SetCurrentLocation(location model.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Query = location.DisplayName()
}

func (c *Controller) handlePointer(region pointer.Region) {
	if region == pointer.RegionInput || region == pointer.RegionSuggestions {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SuggestionsVisible = false
}

func (c *Controller) setError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Error = msg
}

// clearSuggestions must be called with mu held
func (c *Controller) clearSuggestions() {
	c.state.Suggestions = []model.Location{}
	c.state.SuggestionsVisible = false
}
