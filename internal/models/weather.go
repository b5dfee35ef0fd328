package models

import "strconv"

// FetchTimeLayout is the local-time format stamped on every record.
const FetchTimeLayout = "2006-01-02 15:04:05"

// Columns is the declared field order used for both record values and the CSV header.
var Columns = []string{
	"city",
	"country",
	"temperature_c",
	"temperature_f",
	"condition",
	"humidity",
	"wind_kph",
	"pressure_mb",
	"feels_like_c",
	"fetch_time",
}

// WeatherRecord is one flattened observation for a location at fetch time.
// City and Country are the names echoed by the upstream service, which may
// differ from the queried location.
type WeatherRecord struct {
	City         string  `json:"city"`
	Country      string  `json:"country"`
	TemperatureC float64 `json:"temperature_c"`
	TemperatureF float64 `json:"temperature_f"`
	Condition    string  `json:"condition"`
	Humidity     float64 `json:"humidity"`
	WindKph      float64 `json:"wind_kph"`
	PressureMb   float64 `json:"pressure_mb"`
	FeelsLikeC   float64 `json:"feels_like_c"`
	FetchTime    string  `json:"fetch_time"`
}

// Values returns the record's fields as strings, in Columns order.
func (r WeatherRecord) Values() []string {
	return []string{
		r.City,
		r.Country,
		FormatNumber(r.TemperatureC),
		FormatNumber(r.TemperatureF),
		r.Condition,
		FormatNumber(r.Humidity),
		FormatNumber(r.WindKph),
		FormatNumber(r.PressureMb),
		FormatNumber(r.FeelsLikeC),
		r.FetchTime,
	}
}

// FormatNumber renders f with the shortest representation that round-trips.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
