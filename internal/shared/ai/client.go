package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hygiatech/sanicheck/internal/config"
)

// Client calls the external AI extraction service that turns an inspection
// PDF into corrective-action findings.
type Client struct {
	baseURL  string
	apiKey   string
	retryMax int
	http     *http.Client
	breaker  *circuitBreaker
}

type ExtractRequest struct {
	InspectionID      string `json:"inspection_id"`
	FileURL           string `json:"file_url"`
	EstablishmentName string `json:"establishment_name,omitempty"`
}

type ExtractResponse struct {
	Summary  string                 `json:"summary"`
	Findings []Finding              `json:"findings"`
	Usage    Usage                  `json:"usage"`
	Raw      map[string]interface{} `json:"raw,omitempty"`
}

// Finding is one corrective action drafted by the AI.
type Finding struct {
	Description       string `json:"description"`
	Severity          string `json:"severity"`
	SuggestedDeadline string `json:"suggested_deadline"`
}

type Usage struct {
	Model        string  `json:"model"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

func New(cfg config.AIConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("ai.base_url is required")
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		retryMax: cfg.RetryMax,
		http:     &http.Client{Timeout: cfg.Timeout},
		breaker:  newCircuitBreaker(5, 30*time.Second),
	}, nil
}

// Extract runs one extraction attempt, retrying on transport and 5xx errors.
func (c *Client) Extract(ctx context.Context, req ExtractRequest) (ExtractResponse, error) {
	if c == nil || c.http == nil {
		return ExtractResponse{}, errors.New("ai client not initialized")
	}
	if c.breaker.Open() {
		return ExtractResponse{}, errors.New("ai circuit open")
	}
	body, err := json.Marshal(req)
	if err != nil {
		return ExtractResponse{}, err
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		reqHTTP, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/inspections/extract", bytes.NewReader(body))
		if err != nil {
			return ExtractResponse{}, err
		}
		reqHTTP.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			reqHTTP.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		resp, err := c.http.Do(reqHTTP)
		if err != nil {
			lastErr = err
			c.breaker.Fail()
			continue
		}
		if resp.StatusCode >= 500 {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("ai service error: status %d", resp.StatusCode)
			c.breaker.Fail()
			continue
		}
		if resp.StatusCode != http.StatusOK {
			detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			resp.Body.Close()
			return ExtractResponse{}, fmt.Errorf("ai request failed: status %d: %s", resp.StatusCode, detail)
		}
		var out ExtractResponse
		err = json.NewDecoder(resp.Body).Decode(&out)
		resp.Body.Close()
		if err != nil {
			c.breaker.Fail()
			return ExtractResponse{}, err
		}
		c.breaker.Success()
		return out, nil
	}
	if lastErr == nil {
		lastErr = errors.New("ai request failed")
	}
	return ExtractResponse{}, lastErr
}

type circuitBreaker struct {
	mu            sync.Mutex
	failures      int
	openUntil     time.Time
	threshold     int
	resetDuration time.Duration
}

func newCircuitBreaker(threshold int, reset time.Duration) *circuitBreaker {
	return &circuitBreaker{threshold: threshold, resetDuration: reset}
}

func (b *circuitBreaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.openUntil.IsZero() {
		return false
	}
	if time.Now().After(b.openUntil) {
		b.openUntil = time.Time{}
		b.failures = 0
		return false
	}
	return true
}

func (b *circuitBreaker) Fail() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	if b.failures >= b.threshold {
		b.openUntil = time.Now().Add(b.resetDuration)
	}
}

func (b *circuitBreaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.openUntil = time.Time{}
}
