package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultModel   = "gpt-4o-mini"
	defaultBaseURL = "https://api.openai.com/v1"
)

type AIClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

var aiClient *AIClient

func InitAI() {
	// OPENAI_API_KEY takes precedence; AI_API_KEY is an accepted alias.
	// No hardcoded fallback: without a key, predictions fail closed.
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		key = os.Getenv("AI_API_KEY")
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
	}

	aiClient = NewAIClient(key, model, os.Getenv("OPENAI_BASE_URL"))

	if key != "" {
		log.Printf("✅ AI analyst initialized with model %s (key ...%s)", model, maskKey(key))
	} else {
		log.Println("⚠️  OPENAI_API_KEY / AI_API_KEY not set — price predictions will return a configuration error")
	}
}

// NewAIClient builds a client with explicit settings, used directly in tests.
func NewAIClient(apiKey, model, baseURL string) *AIClient {
	if model == "" {
		model = defaultModel
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &AIClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func GetAIClient() *AIClient {
	return aiClient
}

func (c *AIClient) Configured() bool {
	return c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// Predict forwards the prompt to the chat-completion API as a single user
// message and returns the upstream response body untouched. Callers are
// expected to extract the generated text defensively.
func (c *AIClient) Predict(ctx context.Context, prompt string) ([]byte, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("no API credential configured")
	}

	jsonBody, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream API error (%d): %s", resp.StatusCode, truncate(string(body), 300))
	}

	return body, nil
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[len(key)-4:]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
