package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type ReportData struct {
	Origin      string
	Destination string
	Samples     []PriceSample
	Weather     Weather
	Prediction  string
}

// GeneratePDFBytes renders a price report and returns raw bytes (no
// filesystem — stored in PostgreSQL).
func GeneratePDFBytes(data ReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// ── Header Bar ───────────────────────────────────────────
	pdf.SetFillColor(13, 24, 37)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(100, 10, "AeroVision", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(212, 168, 67)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, "Flight Price Report", "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	// ── Disclaimer ───────────────────────────────────────────
	pdf.SetFillColor(255, 248, 225)
	pdf.SetDrawColor(212, 168, 67)
	pdf.SetTextColor(130, 90, 20)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetLineWidth(0.4)
	y := pdf.GetY()
	pdf.Rect(20, y, 170, 12, "FD")
	pdf.SetXY(23, y+2)
	pdf.MultiCell(164, 4,
		"Prices are simulated estimates for trend analysis only. This is NOT a fare quote. Verify with airlines before booking.",
		"", "C", false)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Ln(6)

	// ── Section Helper ───────────────────────────────────────
	sectionHeader := func(title string) {
		pdf.SetFillColor(13, 24, 37)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+title, "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, value, "", 1, "L", false, 0, "")
	}

	// ── Route Overview ────────────────────────────────────────
	sectionHeader("Route Overview")
	row("Route", fmt.Sprintf("%s → %s", data.Origin, data.Destination))
	row("Generated", time.Now().Format("02 Jan 2006, 15:04 UTC"))
	row("Samples", fmt.Sprintf("%d days", len(data.Samples)))
	pdf.Ln(4)

	// ── Price Summary ─────────────────────────────────────────
	if len(data.Samples) > 0 {
		lowest := data.Samples[0]
		highest := data.Samples[0]
		sum := 0
		for _, s := range data.Samples {
			if s.Price < lowest.Price {
				lowest = s
			}
			if s.Price > highest.Price {
				highest = s
			}
			sum += s.Price
		}

		sectionHeader("Price Summary")
		row("Current", fmt.Sprintf("$%d (%s)", data.Samples[0].Price, data.Samples[0].Airline))
		row("Lowest", fmt.Sprintf("$%d on %s (%s)", lowest.Price, lowest.Date, lowest.Airline))
		row("Highest", fmt.Sprintf("$%d on %s (%s)", highest.Price, highest.Date, highest.Airline))
		row("Average", fmt.Sprintf("$%d", sum/len(data.Samples)))
		pdf.Ln(4)
	}

	// ── Destination Weather ───────────────────────────────────
	sectionHeader("Destination Weather")
	row("Condition", data.Weather.Condition)
	row("Temperature", fmt.Sprintf("%.1f °C", data.Weather.TemperatureC))
	row("Wind", fmt.Sprintf("%.0f km/h", data.Weather.WindSpeedKmh))
	if data.Weather.Source == "estimated" {
		row("Data", "Estimated (live data unavailable)")
	}
	pdf.Ln(4)

	// ── AI Recommendation ─────────────────────────────────────
	if data.Prediction != "" {
		sectionHeader("AI Analyst Recommendation")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(40, 40, 40)
		pdf.MultiCell(170, 5, data.Prediction, "", "L", false)
		pdf.Ln(4)
	}

	// ── Footer ────────────────────────────────────────────────
	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8,
		"Generated by AeroVision Price Dashboard · Simulated data · Not a fare quote",
		"", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}
