// Package weather implements the weather pipeline: generate synthetic
// observations, store them in SQLite, derive the Fahrenheit table, compute
// hourly and daily temperature deltas and export both tables with their
// schemas.
package weather

import (
	"math"
	"time"
)

// CloudCover is the three-valued cloud-cover category.
type CloudCover string

const (
	CoverMinimal CloudCover = "Mínima"
	CoverPartial CloudCover = "Parcial"
	CoverTotal   CloudCover = "Total"
)

// DefaultCountry is stored when an observation has no country.
const DefaultCountry = "Colombia"

// TimestampLayout is how fecha_y_hora is written to the database.
const TimestampLayout = "2006-01-02 15:04:05"

// Observation is one weather reading. Deltas are nil until computed, and for
// the first observation of a locality.
type Observation struct {
	ID          int64
	Locality    string
	Country     string
	Temperature float64 // °C
	Timestamp   time.Time
	CloudCover  CloudCover
	UVIndex     float64
	Pressure    float64 // hPa
	WindSpeed   float64

	HourlyDelta *float64
	DailyDelta  *float64
}

// Classify derives the cloud cover from temperature and wind speed:
// hot and calm is Mínima, mild with moderate wind is Parcial, anything else
// is Total.
func Classify(temperature, wind float64) CloudCover {
	switch {
	case temperature > 28 && wind < 5:
		return CoverMinimal
	case temperature >= 20 && temperature <= 28 && wind >= 5 && wind <= 10:
		return CoverPartial
	default:
		return CoverTotal
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
