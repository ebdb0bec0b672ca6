package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lzllzllzllzllzl/AeroVision/database"
	"github.com/lzllzllzllzllzl/AeroVision/handlers"
	"github.com/lzllzllzllzllzl/AeroVision/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file (ignored in production where env vars are set directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found — using environment variables")
	}

	// Initialize database (optional — dashboard degrades without it)
	database.InitDB()

	// Initialize AI analyst
	services.InitAI()

	// Initialize weather service
	services.InitWeather()

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.HandleMethodNotAllowed = true

	// Trusted proxies (hosted deployments sit behind a proxy)
	r.SetTrustedProxies([]string{"0.0.0.0/0"})

	// CORS — allow configured frontend origins
	frontendURLs := os.Getenv("FRONTEND_URL")
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:3000"}
	if frontendURLs != "" {
		for _, u := range strings.Split(frontendURLs, ",") {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:              allowedOrigins,
		AllowMethods:              []string{"POST", "GET", "OPTIONS", "PUT", "PATCH", "DELETE"},
		AllowHeaders:              []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:             []string{"Content-Length", "Content-Disposition"},
		AllowCredentials:          false,
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	}))

	// Routes
	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthHandler)
		api.POST("/search", handlers.Search(services.GetWeatherClient()))
		api.POST("/predict-price", handlers.Predict(services.GetAIClient()))
		api.OPTIONS("/predict-price", handlers.PredictOptions)
		api.POST("/report", handlers.ReportHandler)
		api.GET("/download/:id", handlers.DownloadHandler)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 AeroVision backend starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
