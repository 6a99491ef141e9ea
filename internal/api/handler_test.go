package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexivanou/geoweather/internal/model"
	"github.com/alexivanou/geoweather/internal/session"
	"github.com/alexivanou/geoweather/internal/stats"
	"github.com/alexivanou/geoweather/internal/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient implements session.Client
type MockClient struct {
	mock.Mock
}

func (m *MockClient) FetchWeather(ctx context.Context, lat, lon float64) (*model.WeatherSnapshot, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WeatherSnapshot), args.Error(1)
}

func (m *MockClient) SearchLocations(ctx context.Context, text string) ([]model.Location, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Location), args.Error(1)
}

var (
	fairport = model.Location{Name: "Fairport, NY", Latitude: 43.0987, Longitude: -77.4422, Country: "United States"}
	paris    = model.Location{Name: "Paris", Latitude: 48.85341, Longitude: 2.3488, Country: "France", Admin1: "Île-de-France"}
)

func snapshotAt(lat, lon float64) *model.WeatherSnapshot {
	return &model.WeatherSnapshot{
		Current: model.CurrentConditions{Temperature: 31.4, WindSpeed: 12.2, WindDirection: 315, Time: "2024-01-15T14:30"},
		Daily: model.DailyForecast{
			Time:        []string{"2024-01-15", "2024-01-16"},
			TempMax:     []float64{35.1, 36.2},
			TempMin:     []float64{20.1, 22.2},
			WeatherCode: []int{3, 61},
		},
		Location: model.Location{Latitude: lat, Longitude: lon},
	}
}

type testClient struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newTestStack(t *testing.T, client *MockClient) *testClient {
	store := session.NewStore(client, fairport, time.Minute, nil)
	router := NewRouter(store, stats.NewCollector(store, nil), nil)
	return &testClient{t: t, handler: router}
}

func (c *testClient) do(method, target, body string) (*httptest.ResponseRecorder, StateResponse) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)
	if cookies := rr.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}

	var resp StateResponse
	if rr.Code == http.StatusOK && strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.Unmarshal(rr.Body.Bytes(), &resp))
	}
	return rr, resp
}

func TestAPI_StateLoadsSeedOnFirstContact(t *testing.T) {
	client := new(MockClient)
	client.On("FetchWeather", mock.Anything, fairport.Latitude, fairport.Longitude).
		Return(snapshotAt(fairport.Latitude, fairport.Longitude), nil).Once()
	tc := newTestStack(t, client)

	rr, resp := tc.do("GET", "/api/v1/state", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, tc.cookies, 1)
	assert.Equal(t, sessionCookie, tc.cookies[0].Name)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	assert.Equal(t, tc.cookies[0].Value, resp.SessionID)
	assert.Equal(t, fairport, resp.Dashboard.CurrentLocation)
	require.NotNil(t, resp.Dashboard.Weather)
	assert.Equal(t, fairport, resp.Dashboard.Weather.Location)
	require.NotNil(t, resp.View)
	assert.Equal(t, "Fairport, NY", resp.View.Current.LocationName)
	assert.Equal(t, "12 mph NW", resp.View.Current.Wind)
	assert.Len(t, resp.View.Forecast, 1)
	assert.Equal(t, "Fairport, NY, United States", resp.Search.Query)

	// Same session on the next call, no second seed load
	_, again := tc.do("GET", "/api/v1/state", "")
	assert.Equal(t, resp.SessionID, again.SessionID)
	client.AssertExpectations(t)
}

func TestAPI_SearchAndSelect(t *testing.T) {
	client := new(MockClient)
	client.On("FetchWeather", mock.Anything, fairport.Latitude, fairport.Longitude).
		Return(snapshotAt(fairport.Latitude, fairport.Longitude), nil)
	client.On("FetchWeather", mock.Anything, paris.Latitude, paris.Longitude).
		Return(snapshotAt(paris.Latitude, paris.Longitude), nil)
	client.On("SearchLocations", mock.Anything, "Paris").Return([]model.Location{paris}, nil)
	tc := newTestStack(t, client)

	rr, resp := tc.do("GET", "/api/v1/suggest?q=Paris", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, resp.Search.SuggestionsVisible)
	assert.Equal(t, []model.Location{paris}, resp.Search.Suggestions)

	rr, resp = tc.do("POST", "/api/v1/select", `{"index": 0}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, paris, resp.Dashboard.CurrentLocation)
	assert.Equal(t, paris, resp.Dashboard.Weather.Location)
	assert.Equal(t, "Paris, Île-de-France, France", resp.Search.Query)
	assert.False(t, resp.Search.SuggestionsVisible)

	rr, _ = tc.do("POST", "/api/v1/select", `{"index": 3}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPI_ShortQuerySkipsSearch(t *testing.T) {
	client := new(MockClient)
	client.On("FetchWeather", mock.Anything, mock.Anything, mock.Anything).
		Return(snapshotAt(fairport.Latitude, fairport.Longitude), nil)
	tc := newTestStack(t, client)

	rr, resp := tc.do("GET", "/api/v1/suggest?q=P", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "P", resp.Search.Query)
	assert.False(t, resp.Search.SuggestionsVisible)
	client.AssertNotCalled(t, "SearchLocations", mock.Anything, mock.Anything)
}

func TestAPI_LocateFallsBackToCoordinates(t *testing.T) {
	fallback := model.Location{Name: "Current Location", Latitude: 10, Longitude: 20, Country: "Unknown"}

	client := new(MockClient)
	client.On("FetchWeather", mock.Anything, fairport.Latitude, fairport.Longitude).
		Return(snapshotAt(fairport.Latitude, fairport.Longitude), nil)
	client.On("FetchWeather", mock.Anything, 10.0, 20.0).Return(snapshotAt(10, 20), nil)
	client.On("SearchLocations", mock.Anything, "10,20").Return([]model.Location{}, nil)
	tc := newTestStack(t, client)

	rr, resp := tc.do("POST", "/api/v1/locate", `{"latitude": 10, "longitude": 20}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, fallback, resp.Dashboard.CurrentLocation)
	assert.Equal(t, fallback, resp.Dashboard.Weather.Location)
	assert.False(t, resp.Search.IsSearching)
}

func TestAPI_LocateErrors(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "permission denied",
			body:           `{"error": "permission_denied"}`,
			expectedStatus: http.StatusOK,
			expectedError:  "Unable to get your location",
		},
		{
			name:           "unsupported",
			body:           `{"error": "unsupported"}`,
			expectedStatus: http.StatusOK,
			expectedError:  "Geolocation is not supported by this browser",
		},
		{
			name:           "missing coordinates",
			body:           `{"latitude": 10}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "out of range",
			body:           `{"latitude": 100, "longitude": 20}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid json",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockClient)
			client.On("FetchWeather", mock.Anything, mock.Anything, mock.Anything).
				Return(snapshotAt(fairport.Latitude, fairport.Longitude), nil)
			tc := newTestStack(t, client)

			rr, resp := tc.do("POST", "/api/v1/locate", tt.body)
			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedError, resp.Search.Error)
				assert.False(t, resp.Search.IsSearching)
			}
		})
	}
}

func TestAPI_RetryAfterFailure(t *testing.T) {
	client := new(MockClient)
	client.On("FetchWeather", mock.Anything, fairport.Latitude, fairport.Longitude).
		Return(nil, &weather.APIError{Service: "Weather", StatusCode: 503}).Once()
	client.On("FetchWeather", mock.Anything, fairport.Latitude, fairport.Longitude).
		Return(snapshotAt(fairport.Latitude, fairport.Longitude), nil).Once()
	tc := newTestStack(t, client)

	_, resp := tc.do("GET", "/api/v1/state", "")
	assert.Equal(t, "Weather API error: 503", resp.Dashboard.Error)
	assert.Nil(t, resp.Dashboard.Weather)
	assert.Nil(t, resp.View)

	rr, resp := tc.do("POST", "/api/v1/retry", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, resp.Dashboard.Error)
	require.NotNil(t, resp.Dashboard.Weather)
	client.AssertExpectations(t)
}

func TestAPI_PointerDismissesSuggestions(t *testing.T) {
	client := new(MockClient)
	client.On("FetchWeather", mock.Anything, mock.Anything, mock.Anything).
		Return(snapshotAt(fairport.Latitude, fairport.Longitude), nil)
	client.On("SearchLocations", mock.Anything, "Paris").Return([]model.Location{paris}, nil)
	tc := newTestStack(t, client)

	_, resp := tc.do("GET", "/api/v1/suggest?q=Paris", "")
	require.True(t, resp.Search.SuggestionsVisible)

	_, resp = tc.do("POST", "/api/v1/pointer", `{"region": "input"}`)
	assert.True(t, resp.Search.SuggestionsVisible)

	_, resp = tc.do("POST", "/api/v1/pointer", `{"region": "outside"}`)
	assert.False(t, resp.Search.SuggestionsVisible)

	rr, _ := tc.do("POST", "/api/v1/pointer", `{"region": "sidebar"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAPI_SelectValidation(t *testing.T) {
	client := new(MockClient)
	client.On("FetchWeather", mock.Anything, mock.Anything, mock.Anything).
		Return(snapshotAt(fairport.Latitude, fairport.Longitude), nil)
	tc := newTestStack(t, client)

	rr, _ := tc.do("POST", "/api/v1/select", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = tc.do("POST", "/api/v1/select", `{"location": {"name": "", "latitude": 1, "longitude": 1}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, resp := tc.do("POST", "/api/v1/select", `{"location": {"name": "Paris", "latitude": 48.85341, "longitude": 2.3488, "country": "France", "admin1": "Île-de-France"}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, paris, resp.Dashboard.CurrentLocation)
}

func TestAPI_HealthAndStats(t *testing.T) {
	client := new(MockClient)
	client.On("FetchWeather", mock.Anything, mock.Anything, mock.Anything).
		Return(snapshotAt(fairport.Latitude, fairport.Longitude), nil)
	tc := newTestStack(t, client)

	rr, _ := tc.do("GET", "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	tc.do("GET", "/api/v1/state", "")

	rr, _ = tc.do("GET", "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var s stats.Stats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &s))
	assert.Equal(t, 1, s.Sessions.Active)
}
