package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/lzllzllzllzllzl/AeroVision/database"
	"github.com/lzllzllzllzllzl/AeroVision/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReportRequest struct {
	SearchID   string `json:"search_id" binding:"required"`
	Prediction string `json:"prediction"`
}

type ReportResponse struct {
	ReportID string `json:"report_id"`
	PDFURL   string `json:"pdf_url"`
	Message  string `json:"message"`
}

// ReportHandler renders a PDF price report for a saved search and stores it.
func ReportHandler(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if !database.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Reports unavailable",
			"details": "no database configured for this deployment",
		})
		return
	}

	search, err := database.GetSearch(req.SearchID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Search session not found", "details": err.Error()})
		return
	}

	var prices []services.PriceSample
	var weather services.Weather

	if err := json.Unmarshal([]byte(search.PricesJSON), &prices); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse cached price data", "details": err.Error()})
		return
	}
	if search.WeatherJSON != "" {
		if err := json.Unmarshal([]byte(search.WeatherJSON), &weather); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse cached weather data", "details": err.Error()})
			return
		}
	}

	pdfBytes, err := services.GeneratePDFBytes(services.ReportData{
		Origin:      search.Origin,
		Destination: search.Destination,
		Samples:     prices,
		Weather:     weather,
		Prediction:  req.Prediction,
	})
	if err != nil {
		log.Printf("❌ PDF generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF", "details": err.Error()})
		return
	}

	reportID := uuid.New().String()
	if err := database.SaveReport(&database.Report{
		ID:         reportID,
		SearchID:   req.SearchID,
		Prediction: req.Prediction,
		PDFData:    pdfBytes,
	}); err != nil {
		log.Printf("❌ Failed to save report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save generated PDF", "details": err.Error()})
		return
	}

	log.Printf("✅ PDF report generated for search %s (%d bytes)", req.SearchID, len(pdfBytes))

	c.JSON(http.StatusOK, ReportResponse{
		ReportID: reportID,
		PDFURL:   "/api/download/" + reportID,
		Message:  "Report generated successfully",
	})
}

func DownloadHandler(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing report ID"})
		return
	}

	if !database.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Reports unavailable"})
		return
	}

	report, err := database.GetReport(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	if len(report.PDFData) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "PDF has not been generated for this report"})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=aerovision-price-report.pdf")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", report.PDFData)
}

func HealthHandler(c *gin.Context) {
	dbStatus := "not configured"
	if database.Ready() {
		dbStatus = "ok"
		if err := database.DB.Ping(); err != nil {
			dbStatus = "error: " + err.Error()
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "AeroVision API",
		"database": dbStatus,
	})
}
