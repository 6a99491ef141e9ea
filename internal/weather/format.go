package weather

import (
	"math"
	"time"
)

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// WindDirectionLabel maps degrees to one of the 16 compass points
func WindDirectionLabel(degrees float64) string {
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return compassPoints[0]
	}
	idx := int(math.Floor(degrees/22.5+0.5)) % len(compassPoints)
	if idx < 0 {
		idx += len(compassPoints)
	}
	return compassPoints[idx]
}

// Open-Meteo returns local wall-clock times without an offset when
// timezone=auto is requested.
var timeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatClockTime renders an ISO timestamp as "3:04 PM".
// Input that cannot be parsed is returned unchanged.
func FormatClockTime(iso string) string {
	t, ok := parseTimestamp(iso)
	if !ok {
		return iso
	}
	return t.Format("3:04 PM")
}

// FormatDayLabel renders an ISO date as "Mon, Jan 2".
// Input that cannot be parsed is returned unchanged.
func FormatDayLabel(iso string) string {
	t, ok := parseTimestamp(iso)
	if !ok {
		return iso
	}
	return t.Format("Mon, Jan 2")
}
