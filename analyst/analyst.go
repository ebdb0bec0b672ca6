// Package analyst drives the AI buy/wait recommendation flow: it summarizes
// a price series into a prompt, calls the prediction proxy, and normalizes
// whatever comes back into text the dashboard can always display.
package analyst

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lzllzllzllzllzl/AeroVision/services"
)

// Prediction is the displayable outcome of a recommendation request.
// Failures are rendered as text too; callers never receive an error.
type Prediction struct {
	Text   string `json:"text"`
	Failed bool   `json:"failed"`
}

type Analyst struct {
	baseURL    string
	httpClient *http.Client

	issued atomic.Uint64 // sequence of the most recently started request

	mu      sync.Mutex
	current Prediction
	applied uint64
}

func New(baseURL string) *Analyst {
	return &Analyst{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 45 * time.Second,
		},
	}
}

type predictRequest struct {
	Prompt string `json:"prompt"`
}

type proxyError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// RequestPrediction issues one call to the prediction proxy and returns the
// resulting display text. Each call carries a monotonically increasing
// sequence number; a response only becomes the current display state when
// no newer request has been started, so a slow stale response cannot
// overwrite a fresher one.
func (a *Analyst) RequestPrediction(ctx context.Context, origin, destination string, samples []services.PriceSample) Prediction {
	seq := a.issued.Add(1)

	stats, err := ComputeWindowStats(samples)
	if err != nil {
		p := errorPrediction(err.Error())
		a.commit(seq, p)
		return p
	}

	p := a.call(ctx, BuildPrompt(origin, destination, stats))
	a.commit(seq, p)
	return p
}

// Current returns the latest applied display state.
func (a *Analyst) Current() Prediction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

func (a *Analyst) call(ctx context.Context, prompt string) Prediction {
	jsonBody, err := json.Marshal(predictRequest{Prompt: prompt})
	if err != nil {
		return errorPrediction(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/api/predict-price", bytes.NewBuffer(jsonBody))
	if err != nil {
		return errorPrediction(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return errorPrediction(err.Error())
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorPrediction(errorDetail(body, resp.Status))
	}

	text, ok := ExtractText(body)
	if !ok {
		return Prediction{Text: FallbackText}
	}
	return Prediction{Text: text}
}

// commit applies the prediction only when its sequence is still the latest
// issued. Returns whether the display state was updated.
func (a *Analyst) commit(seq uint64, p Prediction) bool {
	if seq != a.issued.Load() {
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if seq < a.applied {
		return false
	}
	a.current = p
	a.applied = seq
	return true
}

// errorDetail prefers the server-supplied details field, then the error
// summary, then the HTTP status line.
func errorDetail(body []byte, status string) string {
	var payload proxyError
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Details != "" {
			return payload.Details
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return status
}

func errorPrediction(detail string) Prediction {
	return Prediction{
		Text:   fmt.Sprintf("Analysis Error: %s. Please check API Key configuration.", detail),
		Failed: true,
	}
}
