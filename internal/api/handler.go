package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexivanou/geoweather/internal/dashboard"
	"github.com/alexivanou/geoweather/internal/geolocation"
	"github.com/alexivanou/geoweather/internal/model"
	"github.com/alexivanou/geoweather/internal/pointer"
	"github.com/alexivanou/geoweather/internal/search"
	"github.com/alexivanou/geoweather/internal/session"
	"github.com/alexivanou/geoweather/internal/view"
	"go.uber.org/zap"
)

const sessionCookie = "geoweather_session"

// SessionProvider resolves the browser session for a request
type SessionProvider interface {
	GetOrCreate(ctx context.Context, id string) (*session.Session, bool)
}

// Handler handles HTTP requests
type Handler struct {
	sessions SessionProvider
	logger   *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(sessions SessionProvider, logger *zap.Logger) *Handler {
	return &Handler{sessions: sessions, logger: logger}
}

// StateResponse is everything the presentation layer renders
type StateResponse struct {
	SessionID string          `json:"session_id"`
	Search    search.State    `json:"search"`
	Dashboard dashboard.State `json:"dashboard"`
	View      *view.Weather   `json:"view"`
}

type selectRequest struct {
	Index    *int            `json:"index"`
	Location *model.Location `json:"location"`
}

type locateRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Error     string   `json:"error"`
}

type pointerRequest struct {
	Region pointer.Region `json:"region"`
}

// session returns the caller's session, creating one (and setting the
// cookie) on first contact. Work started on behalf of a session outlives the
// request that triggered it.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, context.Context) {
	ctx := context.WithoutCancel(r.Context())

	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}

	s, created := h.sessions.GetOrCreate(ctx, id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    s.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s, ctx
}

// GetState handles GET /api/v1/state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	s, _ := h.session(w, r)
	h.writeState(w, s)
}

// Suggest handles GET /api/v1/suggest
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.session(w, r)
	s.Search.QueryChanged(ctx, r.URL.Query().Get("q"))
	h.writeState(w, s)
}

// Select handles POST /api/v1/select
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s, ctx := h.session(w, r)

	switch {
	case req.Index != nil:
		if _, err := s.Search.PickSuggestion(ctx, *req.Index); err != nil {
			if errors.Is(err, search.ErrNoSuchSuggestion) {
				http.Error(w, "no such suggestion", http.StatusNotFound)
				return
			}
			h.logger.Error("Error picking suggestion", zap.Error(err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	case req.Location != nil:
		if req.Location.Name == "" || !validCoordinates(req.Location.Latitude, req.Location.Longitude) {
			http.Error(w, "invalid location", http.StatusBadRequest)
			return
		}
		s.Search.LocationPicked(ctx, *req.Location)
	default:
		http.Error(w, "either 'index' or 'location' is required", http.StatusBadRequest)
		return
	}

	h.writeState(w, s)
}

// Locate handles POST /api/v1/locate with the browser's geolocation outcome
func (h *Handler) Locate(w http.ResponseWriter, r *http.Request) {
	var req locateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	hasPosition := req.Latitude != nil && req.Longitude != nil
	if req.Error == "" && !hasPosition {
		http.Error(w, "parameters 'latitude' and 'longitude' or 'error' are required", http.StatusBadRequest)
		return
	}
	if req.Error == "" && !validCoordinates(*req.Latitude, *req.Longitude) {
		http.Error(w, "invalid coordinates range", http.StatusBadRequest)
		return
	}

	s, ctx := h.session(w, r)
	if req.Error != "" {
		s.Geo.Fail(geolocation.ParseReason(req.Error))
	} else {
		s.Geo.Report(model.Coordinate{Lat: *req.Latitude, Lon: *req.Longitude})
	}
	s.Search.RequestCurrentLocation(ctx)

	h.writeState(w, s)
}

// Retry handles POST /api/v1/retry
func (h *Handler) Retry(w http.ResponseWriter, r *http.Request) {
	s, ctx := h.session(w, r)
	s.Dashboard.Retry(ctx)
	h.writeState(w, s)
}

// Pointer handles POST /api/v1/pointer
func (h *Handler) Pointer(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	switch req.Region {
	case pointer.RegionInput, pointer.RegionSuggestions, pointer.RegionOutside:
	default:
		http.Error(w, "invalid region", http.StatusBadRequest)
		return
	}

	s, _ := h.session(w, r)
	s.Pointer.Publish(req.Region)
	h.writeState(w, s)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handler) writeState(w http.ResponseWriter, s *session.Session) {
	dash := s.Dashboard.State()
	response := StateResponse{
		SessionID: s.ID,
		Search:    s.Search.State(),
		Dashboard: dash,
		View:      view.Render(dash.Weather),
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding response", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
}

func validCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
