package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lzllzllzllzllzl/AeroVision/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// newPredictRouter mirrors the main.go registration for the prediction path.
func newPredictRouter(ai *services.AIClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(cors.New(cors.Config{
		AllowOrigins:              []string{"http://localhost:5173"},
		AllowMethods:              []string{"POST", "GET", "OPTIONS", "PUT", "PATCH", "DELETE"},
		AllowHeaders:              []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	}))

	api := r.Group("/api")
	api.POST("/predict-price", Predict(ai))
	api.OPTIONS("/predict-price", PredictOptions)
	return r
}

// countingUpstream fakes the chat-completion API and counts calls.
func countingUpstream(t *testing.T, status int, body string, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestPredict_MissingPrompt(t *testing.T) {
	var calls atomic.Int64
	upstream := countingUpstream(t, http.StatusOK, `{}`, &calls)
	defer upstream.Close()

	router := newPredictRouter(services.NewAIClient("test-key", "test-model", upstream.URL))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/predict-price", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if resp["error"] == "" || resp["details"] == "" {
		t.Errorf("error body missing fields: %v", resp)
	}
	if calls.Load() != 0 {
		t.Errorf("upstream called %d times for invalid input", calls.Load())
	}
}

func TestPredict_MissingCredentialFailsBeforeUpstream(t *testing.T) {
	var calls atomic.Int64
	upstream := countingUpstream(t, http.StatusOK, `{"choices":[{"message":{"content":"hi"}}]}`, &calls)
	defer upstream.Close()

	router := newPredictRouter(services.NewAIClient("", "test-model", upstream.URL))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/predict-price", strings.NewReader(`{"prompt":"analyze this"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if calls.Load() != 0 {
		t.Fatalf("upstream called %d times despite missing credential", calls.Load())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if !strings.Contains(resp["details"], "credential") {
		t.Errorf("details = %q, want credential mention", resp["details"])
	}
}

func TestPredict_RelaysUpstreamBodyVerbatim(t *testing.T) {
	const upstreamBody = `{"id":"chatcmpl-1","choices":[{"message":{"role":"assistant","content":"Buy now"}}],"usage":{"total_tokens":12}}`

	var gotAuth string
	var gotReq struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" {
			t.Errorf("upstream path = %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotReq)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(upstreamBody))
	}))
	defer upstream.Close()

	router := newPredictRouter(services.NewAIClient("test-key", "test-model", upstream.URL))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/predict-price", strings.NewReader(`{"prompt":"analyze this"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if w.Body.String() != upstreamBody {
		t.Errorf("body not relayed verbatim:\ngot  %s\nwant %s", w.Body.String(), upstreamBody)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "analyze this" {
		t.Errorf("unexpected message shaping: %+v", gotReq.Messages)
	}
}

func TestPredict_UpstreamErrorBecomesStructuredFailure(t *testing.T) {
	var calls atomic.Int64
	upstream := countingUpstream(t, http.StatusUnauthorized, `{"error":{"message":"Incorrect API key provided"}}`, &calls)
	defer upstream.Close()

	router := newPredictRouter(services.NewAIClient("bad-key", "test-model", upstream.URL))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/predict-price", strings.NewReader(`{"prompt":"analyze this"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if calls.Load() != 1 {
		t.Errorf("upstream calls = %d, want exactly one (no retry)", calls.Load())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if !strings.Contains(resp["details"], "Incorrect API key") {
		t.Errorf("details = %q, want upstream message", resp["details"])
	}
	if strings.Contains(resp["details"], "bad-key") {
		t.Error("raw credential leaked into error details")
	}
}

func TestPredict_PreflightOptions(t *testing.T) {
	router := newPredictRouter(services.NewAIClient("test-key", "test-model", "http://127.0.0.1:0"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/predict-price", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("preflight body not empty: %s", w.Body.String())
	}
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing Access-Control-Allow-Origin header")
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "POST") {
		t.Errorf("allow-methods = %q", w.Header().Get("Access-Control-Allow-Methods"))
	}
}

func TestPredict_BareOptions(t *testing.T) {
	router := newPredictRouter(services.NewAIClient("test-key", "test-model", "http://127.0.0.1:0"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/predict-price", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body not empty: %s", w.Body.String())
	}
}

func TestPredict_MethodNotAllowed(t *testing.T) {
	router := newPredictRouter(services.NewAIClient("test-key", "test-model", "http://127.0.0.1:0"))

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/api/predict-price", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s status = %d, want 405", method, w.Code)
		}
	}
}
