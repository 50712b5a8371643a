package domain

import "time"

// BucketDuration is the width of one traffic count bucket.
const BucketDuration = 5 * time.Minute

// DayType adjusts simulated volumes for holidays and events.
type DayType string

const (
	DayNormal       DayType = "Normal Day"
	DayHoliday      DayType = "Holiday/Festival"
	DaySpecialEvent DayType = "Special Event"
)

// DayTypes lists every day type.
var DayTypes = []DayType{DayNormal, DayHoliday, DaySpecialEvent}

// Multiplier returns the volume multiplier for the day type.
func (d DayType) Multiplier() float64 {
	switch d {
	case DayHoliday:
		return 0.6
	case DaySpecialEvent:
		return 1.4
	default:
		return 1.0
	}
}

// ParseDayType resolves a day type name. An empty string means a normal day.
func ParseDayType(s string) (DayType, error) {
	if s == "" {
		return DayNormal, nil
	}
	for _, d := range DayTypes {
		if string(d) == s {
			return d, nil
		}
	}
	return "", NewInputError("day_type", s, "unknown day type")
}

// TrafficRow is one 5-minute bucket of observed counts.
type TrafficRow struct {
	Time   time.Time `json:"time"`
	Counts ModeCount `json:"counts"`
	Assessment
}

// PeakWindow is the bucket with the highest total volume.
type PeakWindow struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	TotalVolume int       `json:"total_volume"`
}

// SeriesPoint is one actual/predicted pair for a single mode.
type SeriesPoint struct {
	Time      time.Time `json:"time"`
	Actual    int       `json:"actual"`
	Predicted float64   `json:"predicted"`
}

// Heatmap is a modes by time matrix of counts.
type Heatmap struct {
	Modes  []Mode      `json:"modes"`
	Times  []time.Time `json:"times"`
	Values [][]int     `json:"values"`
}

// TrafficReport is everything the dashboard shows about recent traffic.
type TrafficReport struct {
	DayType           DayType       `json:"day_type"`
	Mode              Mode          `json:"mode"`
	Rows              []TrafficRow  `json:"rows"`
	ModeShare         map[Mode]int  `json:"mode_share"`
	PeakMode          Mode          `json:"peak_mode"`
	Peak              PeakWindow    `json:"peak"`
	Heatmap           Heatmap       `json:"heatmap"`
	ActualVsPredicted []SeriesPoint `json:"actual_vs_predicted"`
	IsMock            bool          `json:"is_mock"`
}

// ForecastRow is the predicted load for one short-term horizon.
type ForecastRow struct {
	Site           Site          `json:"location"`
	Direction      Direction     `json:"direction"`
	Horizon        time.Duration `json:"-"`
	HorizonMinutes int           `json:"horizon_minutes"`
	Duration       string        `json:"duration"`
	Start          time.Time     `json:"start"`
	End            time.Time     `json:"end"`
	ForecastedTime string        `json:"forecasted_time"`
	Counts         ModeCount     `json:"counts"`
	TotalPCU       float64       `json:"total_pcu"`
	PredictedLOS   ServiceGrade  `json:"predicted_los"`
	IsMock         bool          `json:"is_mock"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Forecast is the short-term prediction table.
type Forecast struct {
	GeneratedAt time.Time     `json:"generated_at"`
	ScaleFactor float64       `json:"scale_factor"`
	Rows        []ForecastRow `json:"rows"`
}

// Site is a monitored road location.
type Site string

const (
	SiteAristocratHotel Site = "Aristocrat Hotel"
	SiteNovotel         Site = "Street no. 240/144 Intersection near Novotel"
	SiteBiswaBanglaGate Site = "Near Biswa Bangla Gate"
)

// Sites lists every monitored location.
var Sites = []Site{SiteAristocratHotel, SiteNovotel, SiteBiswaBanglaGate}

// ParseSite resolves a site name. An empty string selects the first site.
func ParseSite(s string) (Site, error) {
	if s == "" {
		return Sites[0], nil
	}
	for _, site := range Sites {
		if string(site) == s {
			return site, nil
		}
	}
	return "", NewInputError("location", s, "unknown location")
}

// Direction is the travel direction at a site.
type Direction string

const (
	DirectionAirport Direction = "Airport Bound"
	DirectionKolkata Direction = "Kolkata Bound"
)

// Directions lists every direction.
var Directions = []Direction{DirectionAirport, DirectionKolkata}

// ParseDirection resolves a direction. An empty string selects the first one.
func ParseDirection(s string) (Direction, error) {
	if s == "" {
		return Directions[0], nil
	}
	for _, d := range Directions {
		if string(d) == s {
			return d, nil
		}
	}
	return "", NewInputError("direction", s, "unknown direction")
}

// CongestionMarker is a static congestion hotspot on the map.
type CongestionMarker struct {
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lon"`
	Severity   string  `json:"severity"`
	Color      string  `json:"color"`
	Popup      string  `json:"popup"`
	DistanceKm float64 `json:"distance_km,omitempty"`
}

// Newtown map centre.
const (
	NewtownCenterLat = 22.5818
	NewtownCenterLon = 88.4819
)
