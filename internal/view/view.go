// Package view shapes weather snapshots into what the presentation layer renders.
package view

import (
	"fmt"
	"math"

	"github.com/alexivanou/geoweather/internal/model"
	"github.com/alexivanou/geoweather/internal/weather"
)

const fallbackLocationName = "Current Location"

// CurrentCard is the headline card for the selected location
type CurrentCard struct {
	LocationName string `json:"location_name"`
	ObservedAt   string `json:"observed_at"`
	Icon         string `json:"icon"`
	Description  string `json:"description"`
	Temperature  int    `json:"temperature"`
	Wind         string `json:"wind"`
}

// ForecastRow is one upcoming day
type ForecastRow struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	High  int    `json:"high"`
	Low   int    `json:"low"`
}

// Weather is the full render model
type Weather struct {
	Current  CurrentCard   `json:"current"`
	Forecast []ForecastRow `json:"forecast"`
}

// Render builds the render model. A nil snapshot yields nil.
func Render(snapshot *model.WeatherSnapshot) *Weather {
	if snapshot == nil {
		return nil
	}

	name := snapshot.Location.Name
	if name == "" {
		name = fallbackLocationName
	}

	days := snapshot.Daily.Days()
	todayCode := 0
	if len(days) > 0 {
		todayCode = days[0].WeatherCode
	}

	w := &Weather{
		Current: CurrentCard{
			LocationName: name,
			ObservedAt:   weather.FormatClockTime(snapshot.Current.Time),
			Icon:         weather.WeatherIcon(todayCode),
			Description:  weather.WeatherDescription(todayCode),
			Temperature:  Round(snapshot.Current.Temperature),
			Wind: fmt.Sprintf("%d mph %s",
				Round(snapshot.Current.WindSpeed),
				weather.WindDirectionLabel(snapshot.Current.WindDirection),
			),
		},
		Forecast: []ForecastRow{},
	}

	// Today is shown on the card, the list starts tomorrow
	for i := 1; i < len(days); i++ {
		d := days[i]
		w.Forecast = append(w.Forecast, ForecastRow{
			Date:  d.Date,
			Label: weather.FormatDayLabel(d.Date),
			Icon:  weather.WeatherIcon(d.WeatherCode),
			High:  Round(d.TempMax),
			Low:   Round(d.TempMin),
		})
	}

	return w
}

// Round rounds half up, so -2.5 becomes -2
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}
