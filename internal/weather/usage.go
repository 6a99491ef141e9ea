package weather

import "sync/atomic"

const (
	serviceWeather   = "Weather"
	serviceGeocoding = "Geocoding"
)

// ServiceUsage is a point-in-time count of calls made to one Open-Meteo service
type ServiceUsage struct {
	Service       string `json:"service"`
	Requests      uint64 `json:"requests"`
	APIErrors     uint64 `json:"api_errors"`
	NetworkErrors uint64 `json:"network_errors"`
	DecodeErrors  uint64 `json:"decode_errors"`
}

// Errors is the sum of every failure kind
func (u ServiceUsage) Errors() uint64 {
	return u.APIErrors + u.NetworkErrors + u.DecodeErrors
}

type usageCounters struct {
	requests      atomic.Uint64
	apiErrors     atomic.Uint64
	networkErrors atomic.Uint64
	decodeErrors  atomic.Uint64
}

func (u *usageCounters) snapshot(service string) ServiceUsage {
	return ServiceUsage{
		Service:       service,
		Requests:      u.requests.Load(),
		APIErrors:     u.apiErrors.Load(),
		NetworkErrors: u.networkErrors.Load(),
		DecodeErrors:  u.decodeErrors.Load(),
	}
}
