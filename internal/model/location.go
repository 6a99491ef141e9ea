package model

import "strings"

// Coordinate represents geographic coordinates
type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Location represents a place the user can look weather up for
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1,omitempty"`
}

// DisplayName returns "name[, admin1], country"
func (l Location) DisplayName() string {
	var b strings.Builder
	b.WriteString(l.Name)
	if l.Admin1 != "" {
		b.WriteString(", ")
		b.WriteString(l.Admin1)
	}
	b.WriteString(", ")
	b.WriteString(l.Country)
	return b.String()
}

// Coordinate returns the location's coordinate pair
func (l Location) Coordinate() Coordinate {
	return Coordinate{Lat: l.Latitude, Lon: l.Longitude}
}
