package weather

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Localities are the Medellín comunas observations are drawn from.
var Localities = []string{
	"El Poblado",
	"Laureles",
	"Belen",
	"Robledo",
	"Castilla",
	"Buenos Aires",
	"Aranjuez",
}

// StartDate is the first timestamp of every locality.
var StartDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Generator produces synthetic observations. The same seed yields the same
// sequence.
type Generator struct {
	faker *gofakeit.Faker
	next  map[string]time.Time
}

// NewGenerator returns a generator seeded with seed; 0 picks a random seed.
func NewGenerator(seed int64) *Generator {
	next := make(map[string]time.Time, len(Localities))
	for _, l := range Localities {
		next[l] = StartDate
	}
	return &Generator{faker: gofakeit.New(uint64(seed)), next: next}
}

// Next draws one observation. Each locality's timestamp starts at StartDate
// and advances one day per observation drawn for it.
func (g *Generator) Next() Observation {
	loc := g.faker.RandomString(Localities)
	temp := round1(g.faker.Float64Range(15, 35))
	wind := round1(g.faker.Float64Range(0, 15))

	ts := g.next[loc]
	g.next[loc] = ts.AddDate(0, 0, 1)

	return Observation{
		Locality:    loc,
		Country:     DefaultCountry,
		Temperature: temp,
		Timestamp:   ts,
		CloudCover:  Classify(temp, wind),
		UVIndex:     round1(g.faker.Float64Range(0, 11)),
		Pressure:    round1(g.faker.Float64Range(1000, 1025)),
		WindSpeed:   wind,
	}
}

// Generate draws n observations.
func Generate(n int, seed int64) []Observation {
	g := NewGenerator(seed)
	out := make([]Observation, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}
