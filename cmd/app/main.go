package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexivanou/geoweather/internal/api"
	"github.com/alexivanou/geoweather/internal/config"
	"github.com/alexivanou/geoweather/internal/session"
	"github.com/alexivanou/geoweather/internal/stats"
	"github.com/alexivanou/geoweather/internal/weather"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	client := weather.NewClient(cfg.Weather, logger.Named("open-meteo"))
	logger.Info("Weather client configured",
		zap.String("forecast_url", cfg.Weather.ForecastURL),
		zap.String("geocoding_url", cfg.Weather.GeocodingURL),
		zap.Float64("rps", cfg.Weather.RPS),
	)

	sessions := session.NewStore(client, cfg.Seed, cfg.Session.TTL, logger.Named("session"))
	logger.Info("Seed location", zap.String("name", cfg.Seed.DisplayName()))

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sessions.Run(sweepCtx, cfg.Session.SweepInterval)

	statsCollector := stats.NewCollector(sessions, client)
	router := api.NewRouter(sessions, statsCollector, logger.Named("http"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	stopSweep()
	sessions.CloseAll()
	logger.Info("Server exited")
}
