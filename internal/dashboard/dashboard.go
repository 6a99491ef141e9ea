// Package dashboard holds the selected location and its weather snapshot.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/alexivanou/geoweather/internal/model"
	"github.com/alexivanou/geoweather/internal/weather"
	"go.uber.org/zap"
)

const msgLoadFailed = "Failed to load weather data"

// State is a copy of the dashboard's state for presentation
type State struct {
	CurrentLocation model.Location         `json:"current_location"`
	Weather         *model.WeatherSnapshot `json:"weather"`
	Loading         bool                   `json:"loading"`
	Error           string                 `json:"error,omitempty"`
}

// Dashboard drives fetch-on-select for the current location.
// Only the most recently started load may write its outcome.
type Dashboard struct {
	forecaster weather.Forecaster
	logger     *zap.Logger

	mu      sync.Mutex
	current model.Location
	weather *model.WeatherSnapshot
	loading bool
	err     string
	seq     uint64
}

// New creates a dashboard seeded with an initial location
func New(forecaster weather.Forecaster, seed model.Location, logger *zap.Logger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{
		forecaster: forecaster,
		logger:     logger,
		current:    seed,
	}
}

// Start loads the weather for the seed location
func (d *Dashboard) Start(ctx context.Context) {
	d.LoadWeather(ctx, d.CurrentLocation())
}

// CurrentLocation returns the selected location
func (d *Dashboard) CurrentLocation() model.Location {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// State returns a snapshot of the current state
func (d *Dashboard) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return State{
		CurrentLocation: d.current,
		Weather:         d.weather,
		Loading:         d.loading,
		Error:           d.err,
	}
}

// SelectLocation makes location current and loads its weather
func (d *Dashboard) SelectLocation(ctx context.Context, location model.Location) {
	d.load(ctx, location, true)
}

// Retry reloads the weather for the current location
func (d *Dashboard) Retry(ctx context.Context) {
	d.LoadWeather(ctx, d.CurrentLocation())
}

// LoadWeather fetches the weather for location. On failure the previous
// snapshot stays in place and a message is recorded.
func (d *Dashboard) LoadWeather(ctx context.Context, location model.Location) {
	d.load(ctx, location, false)
}

// load claims the next sequence number in the same critical section that
// makes location current, so the newest selection and its weather agree.
func (d *Dashboard) load(ctx context.Context, location model.Location, setCurrent bool) {
	d.mu.Lock()
	if setCurrent {
		d.current = location
	}
	d.loading = true
	d.err = ""
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	snapshot, err := d.forecaster.FetchWeather(ctx, location.Latitude, location.Longitude)

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		d.logger.Debug("Discarding stale weather result", zap.String("location", location.DisplayName()))
		return
	}
	d.loading = false

	if err != nil {
		d.logger.Warn("Failed to load weather",
			zap.String("location", location.DisplayName()),
			zap.Error(err),
		)
		d.err = userMessage(err)
		return
	}

	snapshot.Location = location
	d.weather = snapshot
}

func userMessage(err error) string {
	var apiErr *weather.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return msgLoadFailed
}
