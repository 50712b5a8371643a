package service

import (
	"sort"

	"github.com/naineek/trafficdash/internal/domain"
	"github.com/naineek/trafficdash/pkg/utils"
)

// newtownMarkers are the fixed congestion hotspots shown on the map.
var newtownMarkers = []domain.CongestionMarker{
	{Latitude: 22.5818, Longitude: 88.4819, Severity: "Heavy", Color: "#FF0000"},
	{Latitude: 22.5850, Longitude: 88.4880, Severity: "Medium", Color: "#FFA500"},
	{Latitude: 22.5790, Longitude: 88.4750, Severity: "Low", Color: "#00FF00"},
}

// MapService serves the congestion markers
type MapService struct{}

// NewMapService creates a new map service
func NewMapService() *MapService {
	return &MapService{}
}

// Markers returns every marker.
func (s *MapService) Markers() []domain.CongestionMarker {
	out := make([]domain.CongestionMarker, len(newtownMarkers))
	for i, m := range newtownMarkers {
		m.Popup = m.Severity + " Congestion"
		out[i] = m
	}
	return out
}

// MarkersNear returns markers within radiusKm of a point, nearest first.
func (s *MapService) MarkersNear(lat, lon, radiusKm float64) ([]domain.CongestionMarker, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, domain.NewInputError("lat/lon", "", "coordinates out of range")
	}
	if radiusKm <= 0 {
		return nil, domain.NewInputError("radius_km", "", "radius must be positive")
	}

	var out []domain.CongestionMarker
	for _, m := range s.Markers() {
		d := utils.Haversine(lat, lon, m.Latitude, m.Longitude)
		if d <= radiusKm {
			m.DistanceKm = utils.RoundTo(d, 3)
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}
