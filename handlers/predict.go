package handlers

import (
	"net/http"

	"github.com/lzllzllzllzllzl/AeroVision/services"

	"github.com/gin-gonic/gin"
)

type PredictRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// Predict is the prediction proxy: it attaches credentials to the caller's
// prompt, forwards it to the chat-completion API, and relays the upstream
// body verbatim. Every failure path becomes a structured {error, details}
// JSON response — nothing is thrown past this handler.
func Predict(ai *services.AIClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PredictRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"details": err.Error(),
			})
			return
		}

		// Fail fast before any upstream call when no credential resolved.
		if !ai.Configured() {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "AI analyst is not configured",
				"details": "no API credential found in environment",
			})
			return
		}

		body, err := ai.Predict(c.Request.Context(), req.Prompt)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "Prediction request failed",
				"details": err.Error(),
			})
			return
		}

		c.Data(http.StatusOK, "application/json", body)
	}
}

// PredictOptions answers non-preflight OPTIONS probes on the prediction
// path; preflights themselves are handled by the CORS middleware.
func PredictOptions(c *gin.Context) {
	c.Status(http.StatusOK)
}
