package api

import (
	"github.com/alexivanou/geoweather/internal/stats"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter creates a new HTTP router
func NewRouter(sessions SessionProvider, statsCollector *stats.Collector, logger *zap.Logger) *mux.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := NewHandler(sessions, logger)
	statsHandler := NewStatsHandler(statsCollector, logger)

	router := mux.NewRouter()
	router.Use(RequestID, AccessLog(logger))

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/state", handler.GetState).Methods("GET")
	v1.HandleFunc("/suggest", handler.Suggest).Methods("GET")
	v1.HandleFunc("/select", handler.Select).Methods("POST")
	v1.HandleFunc("/locate", handler.Locate).Methods("POST")
	v1.HandleFunc("/retry", handler.Retry).Methods("POST")
	v1.HandleFunc("/pointer", handler.Pointer).Methods("POST")
	v1.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")

	return router
}
