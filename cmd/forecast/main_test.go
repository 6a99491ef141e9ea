package main

import (
	"context"
	"testing"

	"github.com/alexivanou/geoweather/internal/config"
	"github.com/alexivanou/geoweather/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocator(t *testing.T) {
	t.Run("here without a configured position", func(t *testing.T) {
		locator, err := newLocator(config.GeoConfig{}, true)
		assert.ErrorIs(t, err, errNoPosition)
		assert.Nil(t, locator)
	})

	t.Run("no position and not requested", func(t *testing.T) {
		locator, err := newLocator(config.GeoConfig{}, false)
		require.NoError(t, err)
		assert.Nil(t, locator)
	})

	t.Run("configured position", func(t *testing.T) {
		locator, err := newLocator(config.GeoConfig{Latitude: 43.1, Longitude: -77.4, Enabled: true}, true)
		require.NoError(t, err)
		require.NotNil(t, locator)

		pos, err := locator.CurrentPosition(context.Background())
		require.NoError(t, err)
		assert.Equal(t, model.Coordinate{Lat: 43.1, Lon: -77.4}, pos)
	})
}
