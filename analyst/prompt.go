package analyst

import (
	"fmt"
	"math"

	"github.com/lzllzllzllzllzl/AeroVision/services"
)

// maxWindow caps how many leading samples feed the prompt. Shorter series
// use every sample they have.
const maxWindow = 10

type WindowStats struct {
	Current int
	Average int
	Trend   string
}

// ComputeWindowStats summarizes the leading window of the series: current
// price is the first sample, average is the rounded mean, and the trend
// compares the last sample of the window against the first. The two-sample
// comparison is the defined policy, not a regression.
func ComputeWindowStats(samples []services.PriceSample) (WindowStats, error) {
	if len(samples) == 0 {
		return WindowStats{}, fmt.Errorf("no price samples available")
	}

	window := samples
	if len(window) > maxWindow {
		window = window[:maxWindow]
	}

	sum := 0
	for _, s := range window {
		sum += s.Price
	}

	trend := "Decreasing"
	if window[len(window)-1].Price > window[0].Price {
		trend = "Increasing"
	}

	return WindowStats{
		Current: window[0].Price,
		Average: int(math.Round(float64(sum) / float64(len(window)))),
		Trend:   trend,
	}, nil
}

// BuildPrompt renders the fixed analysis prompt sent to the prediction proxy.
func BuildPrompt(origin, destination string, stats WindowStats) string {
	return fmt.Sprintf(
		"Analyze these flight prices for the route %s to %s. "+
			"Current price: $%d. Average price: $%d. The price trend is %s. "+
			"Should the traveler buy now or wait for a better price? "+
			"Give a brief recommendation in max 50 words.",
		origin, destination, stats.Current, stats.Average, stats.Trend,
	)
}
