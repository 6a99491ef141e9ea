// Package weather is a client for the Open-Meteo forecast and geocoding APIs.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alexivanou/geoweather/internal/config"
	"github.com/alexivanou/geoweather/internal/model"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	searchResultLimit = 5
	forecastDays      = 7
)

// Forecaster fetches weather for a coordinate pair
type Forecaster interface {
	FetchWeather(ctx context.Context, lat, lon float64) (*model.WeatherSnapshot, error)
}

// Geocoder resolves free text into candidate locations
type Geocoder interface {
	SearchLocations(ctx context.Context, text string) ([]model.Location, error)
}

// Client talks to the Open-Meteo forecast and geocoding endpoints
type Client struct {
	forecastURL  string
	geocodingURL string
	httpClient   *http.Client
	limiter      *rate.Limiter
	logger       *zap.Logger

	forecastUsage  usageCounters
	geocodingUsage usageCounters
}

// NewClient creates a client from configuration
func NewClient(cfg config.WeatherConfig, logger *zap.Logger) *Client {
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		forecastURL:  cfg.ForecastURL,
		geocodingURL: cfg.GeocodingURL,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		limiter:      rate.NewLimiter(limit, burst),
		logger:       logger,
	}
}

type forecastResponse struct {
	Current *model.CurrentConditions `json:"current"`
	Daily   *model.DailyForecast     `json:"daily"`
}

type geocodingResponse struct {
	Results []geocodingResult `json:"results"`
}

type geocodingResult struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
}

// FetchWeather fetches current conditions and a 7-day forecast.
// The returned snapshot's location only carries the coordinates; callers
// attach the human-readable name.
func (c *Client) FetchWeather(ctx context.Context, lat, lon float64) (*model.WeatherSnapshot, error) {
	params := url.Values{}
	params.Set("latitude", formatCoordinate(lat))
	params.Set("longitude", formatCoordinate(lon))
	params.Set("current", "temperature_2m,wind_speed_10m,wind_direction_10m")
	params.Set("daily", "temperature_2m_max,temperature_2m_min,weather_code")
	params.Set("temperature_unit", "fahrenheit")
	params.Set("wind_speed_unit", "mph")
	params.Set("timezone", "auto")
	params.Set("forecast_days", strconv.Itoa(forecastDays))

	var resp forecastResponse
	if err := c.get(ctx, serviceWeather, c.forecastURL, params, &resp); err != nil {
		return nil, err
	}

	if resp.Current == nil || resp.Daily == nil {
		return nil, fmt.Errorf("forecast: missing current or daily block: %w", ErrMalformedResponse)
	}
	if !resp.Daily.Aligned() {
		return nil, fmt.Errorf("forecast: daily series have different lengths: %w", ErrMalformedResponse)
	}

	return &model.WeatherSnapshot{
		Current: *resp.Current,
		Daily:   *resp.Daily,
		Location: model.Location{
			Latitude:  lat,
			Longitude: lon,
		},
	}, nil
}

// SearchLocations returns up to 5 locations matching text.
// Blank input returns an empty result without contacting the API.
func (c *Client) SearchLocations(ctx context.Context, text string) ([]model.Location, error) {
	if strings.TrimSpace(text) == "" {
		return []model.Location{}, nil
	}

	params := url.Values{}
	params.Set("name", text)
	params.Set("count", strconv.Itoa(searchResultLimit))
	params.Set("language", "en")
	params.Set("format", "json")

	var resp geocodingResponse
	if err := c.get(ctx, serviceGeocoding, c.geocodingURL, params, &resp); err != nil {
		return nil, err
	}

	locations := make([]model.Location, 0, len(resp.Results))
	for _, r := range resp.Results {
		if len(locations) == searchResultLimit {
			break
		}
		locations = append(locations, model.Location{
			Name:      r.Name,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Country:   r.Country,
			Admin1:    r.Admin1,
		})
	}
	return locations, nil
}

func (c *Client) get(ctx context.Context, service, endpoint string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &NetworkError{Service: service, Err: fmt.Errorf("rate limit wait canceled: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug("Calling Open-Meteo", zap.String("service", service), zap.String("url", req.URL.String()))

	counters := c.counters(service)
	counters.requests.Add(1)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		counters.networkErrors.Add(1)
		return &NetworkError{Service: service, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Open-Meteo returned non-success status",
			zap.String("service", service),
			zap.Int("status", resp.StatusCode),
		)
		counters.apiErrors.Add(1)
		return &APIError{Service: service, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		counters.decodeErrors.Add(1)
		return fmt.Errorf("failed to decode %s response: %w", strings.ToLower(service), err)
	}
	return nil
}

func (c *Client) counters(service string) *usageCounters {
	if service == serviceGeocoding {
		return &c.geocodingUsage
	}
	return &c.forecastUsage
}

// Usage reports call counts per upstream service since the client was created
func (c *Client) Usage() []ServiceUsage {
	return []ServiceUsage{
		c.forecastUsage.snapshot(serviceWeather),
		c.geocodingUsage.snapshot(serviceGeocoding),
	}
}

// FormatCoordinates renders a coordinate pair as "lat,lon", the form the
// geocoding endpoint is queried with for a reverse lookup.
func FormatCoordinates(lat, lon float64) string {
	return formatCoordinate(lat) + "," + formatCoordinate(lon)
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var (
	_ Forecaster = (*Client)(nil)
	_ Geocoder   = (*Client)(nil)
)
