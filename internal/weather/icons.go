package weather

type condition struct {
	icon        string
	description string
}

const (
	iconClear        = "☀️"
	iconMainlyClear  = "🌤️"
	iconPartlyCloudy = "⛅"
	iconOvercast     = "☁️"
	iconFog          = "🌫️"
	iconDrizzle      = "🌦️"
	iconFreezing     = "🌨️"
	iconRain         = "🌧️"
	iconSnow         = "❄️"
	iconThunderstorm = "⛈️"
)

// WMO weather interpretation codes
var conditions = map[int]condition{
	0:  {iconClear, "Clear sky"},
	1:  {iconMainlyClear, "Mainly clear"},
	2:  {iconPartlyCloudy, "Partly cloudy"},
	3:  {iconOvercast, "Overcast"},
	45: {iconFog, "Fog"},
	48: {iconFog, "Depositing rime fog"},
	51: {iconDrizzle, "Light drizzle"},
	53: {iconDrizzle, "Moderate drizzle"},
	55: {iconDrizzle, "Dense drizzle"},
	56: {iconFreezing, "Light freezing drizzle"},
	57: {iconFreezing, "Dense freezing drizzle"},
	61: {iconRain, "Slight rain"},
	63: {iconRain, "Moderate rain"},
	65: {iconRain, "Heavy rain"},
	66: {iconFreezing, "Light freezing rain"},
	67: {iconFreezing, "Heavy freezing rain"},
	71: {iconSnow, "Slight snow fall"},
	73: {iconSnow, "Moderate snow fall"},
	75: {iconSnow, "Heavy snow fall"},
	77: {iconSnow, "Snow grains"},
	80: {iconRain, "Slight rain showers"},
	81: {iconRain, "Moderate rain showers"},
	82: {iconRain, "Violent rain showers"},
	85: {iconSnow, "Slight snow showers"},
	86: {iconSnow, "Heavy snow showers"},
	95: {iconThunderstorm, "Thunderstorm"},
	96: {iconThunderstorm, "Thunderstorm with slight hail"},
	99: {iconThunderstorm, "Thunderstorm with heavy hail"},
}

// WeatherIcon returns the glyph for a WMO code. Unknown codes fall back to clear sky.
func WeatherIcon(code int) string {
	if c, ok := conditions[code]; ok {
		return c.icon
	}
	return iconClear
}

// WeatherDescription returns a short English description for a WMO code.
// Unknown codes fall back to clear sky.
func WeatherDescription(code int) string {
	if c, ok := conditions[code]; ok {
		return c.description
	}
	return conditions[0].description
}
