package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/lzllzllzllzllzl/AeroVision/database"
	"github.com/lzllzllzllzllzl/AeroVision/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SearchRequest struct {
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
}

type SearchResponse struct {
	SearchID    string                 `json:"search_id"`
	Origin      string                 `json:"origin"`
	Destination string                 `json:"destination"`
	Prices      []services.PriceSample `json:"prices"`
	Weather     services.Weather       `json:"weather"`
}

// Search assembles one dashboard session: a simulated price trajectory for
// the route plus current weather at the destination.
func Search(weather *services.WeatherClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}

		req.Origin = strings.ToUpper(strings.TrimSpace(req.Origin))
		req.Destination = strings.ToUpper(strings.TrimSpace(req.Destination))

		if len(req.Origin) != 3 || len(req.Destination) != 3 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid airport code",
				"details": "airport codes must be exactly 3 characters (e.g. LHR, JFK)",
			})
			return
		}

		prices := services.GeneratePriceSeries(req.Origin, req.Destination, 0)
		current := weather.CurrentWeather(c.Request.Context(), req.Destination)

		searchID := uuid.New().String()

		// History persistence is best-effort; the dashboard works without it.
		if database.Ready() {
			pricesJSON, _ := json.Marshal(prices)
			weatherJSON, _ := json.Marshal(current)
			if err := database.SaveSearch(&database.Search{
				ID:          searchID,
				Origin:      req.Origin,
				Destination: req.Destination,
				PricesJSON:  string(pricesJSON),
				WeatherJSON: string(weatherJSON),
			}); err != nil {
				log.Printf("⚠️  Failed to save search %s: %v", searchID, err)
			}
		}

		c.JSON(http.StatusOK, SearchResponse{
			SearchID:    searchID,
			Origin:      req.Origin,
			Destination: req.Destination,
			Prices:      prices,
			Weather:     current,
		})
	}
}
