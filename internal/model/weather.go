package model

// CurrentConditions holds the observed values at the time of the fetch
type CurrentConditions struct {
	Temperature   float64 `json:"temperature_2m"`
	WindSpeed     float64 `json:"wind_speed_10m"`
	WindDirection float64 `json:"wind_direction_10m"`
	Time          string  `json:"time"`
}

// DailyForecast holds index-aligned per-day series, index 0 is today
type DailyForecast struct {
	Time        []string  `json:"time"`
	TempMax     []float64 `json:"temperature_2m_max"`
	TempMin     []float64 `json:"temperature_2m_min"`
	WeatherCode []int     `json:"weather_code"`
}

// Aligned reports whether all daily series have the same length
func (d DailyForecast) Aligned() bool {
	n := len(d.Time)
	return len(d.TempMax) == n && len(d.TempMin) == n && len(d.WeatherCode) == n
}

// Days returns the daily series as one entry per calendar day
func (d DailyForecast) Days() []DailyEntry {
	if !d.Aligned() {
		return nil
	}
	days := make([]DailyEntry, len(d.Time))
	for i := range d.Time {
		days[i] = DailyEntry{
			Date:        d.Time[i],
			TempMax:     d.TempMax[i],
			TempMin:     d.TempMin[i],
			WeatherCode: d.WeatherCode[i],
		}
	}
	return days
}

// DailyEntry is a single day of the forecast
type DailyEntry struct {
	Date        string
	TempMax     float64
	TempMin     float64
	WeatherCode int
}

// WeatherSnapshot is a point-in-time weather result for a location
type WeatherSnapshot struct {
	Current  CurrentConditions `json:"current"`
	Daily    DailyForecast     `json:"daily"`
	Location Location          `json:"location"`
}
