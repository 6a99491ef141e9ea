package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexivanou/geoweather/internal/config"
	"github.com/alexivanou/geoweather/internal/dashboard"
	"github.com/alexivanou/geoweather/internal/geolocation"
	"github.com/alexivanou/geoweather/internal/model"
	"github.com/alexivanou/geoweather/internal/search"
	"github.com/alexivanou/geoweather/internal/view"
	"github.com/alexivanou/geoweather/internal/weather"
	"go.uber.org/zap"
)

func main() {
	var (
		query = flag.String("q", "", "Location to search for")
		pick  = flag.Int("pick", 0, "Which search result to use (0-based)")
		here  = flag.Bool("here", false, "Use GEO_LATITUDE/GEO_LONGITUDE as the current position")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := weather.NewClient(cfg.Weather, logger)
	dash := dashboard.New(client, cfg.Seed, logger)

	locator, err := newLocator(cfg.Geo, *here)
	if err != nil {
		logger.Fatal("Cannot use -here", zap.Error(err), zap.String("hint", "export GEO_LATITUDE and GEO_LONGITUDE"))
	}
	controller := search.NewController(search.Options{
		Geocoder: client,
		Locator:  locator,
		OnSelect: dash.SelectLocation,
		Logger:   logger,
	})
	defer controller.Close()

	switch {
	case *here:
		controller.RequestCurrentLocation(ctx)
		if msg := controller.State().Error; msg != "" {
			logger.Fatal("Failed to resolve current location", zap.String("error", msg))
		}
	case *query != "":
		controller.QueryChanged(ctx, *query)
		state := controller.State()
		if state.Error != "" {
			logger.Fatal("Search failed", zap.String("error", state.Error))
		}
		if len(state.Suggestions) == 0 {
			logger.Fatal("No locations found", zap.String("query", *query))
		}
		for i, l := range state.Suggestions {
			logger.Debug("Candidate", zap.Int("index", i), zap.String("name", l.DisplayName()))
		}
		if _, err := controller.PickSuggestion(ctx, *pick); err != nil {
			logger.Fatal("Invalid pick", zap.Int("pick", *pick), zap.Int("results", len(state.Suggestions)))
		}
	default:
		dash.Start(ctx)
	}

	state := dash.State()
	if state.Error != "" {
		logger.Fatal("Failed to load weather", zap.String("error", state.Error))
	}

	outputFormat := os.Getenv("OUTPUT_FORMAT")
	if outputFormat == "" {
		outputFormat = "text"
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(state.Weather); err != nil {
			logger.Fatal("Failed to encode weather", zap.Error(err))
		}
	case "text", "human":
		printHumanReadable(state.Weather.Location, view.Render(state.Weather))
	default:
		logger.Fatal("Unknown output format", zap.String("format", outputFormat))
	}
}

var errNoPosition = errors.New("no position configured")

// newLocator returns the fixed position from configuration, or nil when none
// is set. A missing position is an error when the caller asked for it.
func newLocator(geo config.GeoConfig, required bool) (geolocation.Locator, error) {
	if !geo.Enabled {
		if required {
			return nil, errNoPosition
		}
		return nil, nil
	}
	return geolocation.Static{Position: model.Coordinate{Lat: geo.Latitude, Lon: geo.Longitude}}, nil
}

func printHumanReadable(location model.Location, w *view.Weather) {
	fmt.Printf("=== %s ===\n", location.DisplayName())
	fmt.Printf("As of %s\n", w.Current.ObservedAt)
	fmt.Println()

	fmt.Printf("%s  %d°F  %s\n", w.Current.Icon, w.Current.Temperature, w.Current.Description)
	fmt.Printf("Wind:  %s\n", w.Current.Wind)
	fmt.Println()

	fmt.Println("--- Forecast ---")
	for _, row := range w.Forecast {
		fmt.Printf("  %-12s %s  %4d° %4d°\n", row.Label, row.Icon, row.High, row.Low)
	}
}
