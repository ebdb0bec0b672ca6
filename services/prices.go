package services

import (
	"math/rand"
	"time"
)

type PriceSample struct {
	Date    string `json:"date"`
	Price   int    `json:"price"`
	Airline string `json:"airline"`
}

// Airlines shown on the dashboard; each sample is attributed to one of these.
var airlines = []string{
	"Turkish Airlines",
	"Lufthansa",
	"Emirates",
	"Wizz Air",
	"FlyDubai",
}

const (
	defaultSeriesDays = 30
	walkStep          = 30 // max daily move in either direction, USD
)

// GeneratePriceSeries simulates a price trajectory for the route as a bounded
// random walk: one sample per day starting from the route's base fare,
// clamped to a plausible band around it. Prices are always positive integers.
func GeneratePriceSeries(origin, destination string, days int) []PriceSample {
	if days <= 0 {
		days = defaultSeriesDays
	}

	base := routeBasePrice(origin, destination)
	low := base * 7 / 10
	high := base * 14 / 10

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	price := base
	start := time.Now().UTC()

	samples := make([]PriceSample, 0, days)
	for i := 0; i < days; i++ {
		price += rng.Intn(2*walkStep+1) - walkStep
		if price < low {
			price = low
		}
		if price > high {
			price = high
		}

		samples = append(samples, PriceSample{
			Date:    start.AddDate(0, 0, i).Format("2006-01-02"),
			Price:   price,
			Airline: airlines[rng.Intn(len(airlines))],
		})
	}
	return samples
}

// routeBasePrice returns a plausible round-trip base fare in USD for known
// routes, with a generic default for everything else.
func routeBasePrice(origin, destination string) int {
	routes := map[string]int{
		"LHR-JFK": 450, "JFK-LHR": 450,
		"LHR-CDG": 120, "CDG-LHR": 120,
		"LHR-DXB": 380, "DXB-LHR": 380,
		"JFK-LAX": 280, "LAX-JFK": 280,
		"FRA-IST": 180, "IST-FRA": 180,
		"IST-DXB": 250, "DXB-IST": 250,
		"BER-CDG": 130, "CDG-BER": 130,
		"AMS-BCN": 140, "BCN-AMS": 140,
		"SIN-NRT": 420, "NRT-SIN": 420,
		"TAS-IST": 280, "IST-TAS": 280,
	}

	if base, ok := routes[origin+"-"+destination]; ok {
		return base
	}
	return 350
}
