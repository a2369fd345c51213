package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

// ModerationClient classifies free text against a set of named risk
// categories, returning a score per category in [0, 1].
type ModerationClient interface {
	Classify(ctx context.Context, text string) (map[string]float64, error)
}

// ModerationConfig carries the classification endpoint settings and the
// per-category rejection thresholds. Built once in main and injected.
type ModerationConfig struct {
	Endpoint   string
	APIKey     string
	Model      string
	Thresholds map[string]float64
	Timeout    time.Duration
}

// DefaultModerationThresholds mirrors the moderation policy the shop has
// always run with: every category rejects at 0.1.
func DefaultModerationThresholds() map[string]float64 {
	return map[string]float64{
		"hate_and_discrimination":        0.1,
		"sexual":                         0.1,
		"violence_and_threats":           0.1,
		"dangerous_and_criminal_content": 0.1,
		"selfharm":                       0.1,
		"health":                         0.1,
		"financial":                      0.1,
		"law":                            0.1,
		"pii":                            0.1,
	}
}

// LoadModerationConfig builds the config from the environment. Threshold
// overrides use MODERATION_THRESHOLD_<CATEGORY> variables.
func LoadModerationConfig() ModerationConfig {
	cfg := ModerationConfig{
		Endpoint:   os.Getenv("MODERATION_API_URL"),
		APIKey:     os.Getenv("MODERATION_API_KEY"),
		Model:      os.Getenv("MODERATION_MODEL"),
		Thresholds: DefaultModerationThresholds(),
		Timeout:    10 * time.Second,
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.mistral.ai/v1/moderations"
	}
	if cfg.Model == "" {
		cfg.Model = "mistral-moderation-latest"
	}
	if env := os.Getenv("MODERATION_TIMEOUT_SECONDS"); env != "" {
		if s, err := strconv.Atoi(env); err == nil && s > 0 {
			cfg.Timeout = time.Duration(s) * time.Second
		}
	}
	for category := range cfg.Thresholds {
		env := "MODERATION_THRESHOLD_" + category
		if v := os.Getenv(env); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				cfg.Thresholds[category] = f
			}
		}
	}
	return cfg
}

// Exceeds reports whether any category score meets or beats its
// configured threshold. Categories without a threshold are ignored.
func (cfg ModerationConfig) Exceeds(scores map[string]float64) bool {
	for category, score := range scores {
		if threshold, ok := cfg.Thresholds[category]; ok && score >= threshold {
			return true
		}
	}
	return false
}

type moderationRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type moderationResponse struct {
	Results []struct {
		CategoryScores map[string]float64 `json:"category_scores"`
	} `json:"results"`
}

// HTTPModerationClient talks to a Mistral-style moderations endpoint.
type HTTPModerationClient struct {
	cfg        ModerationConfig
	httpClient *http.Client
}

func NewHTTPModerationClient(cfg ModerationConfig) *HTTPModerationClient {
	return &HTTPModerationClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *HTTPModerationClient) Classify(ctx context.Context, text string) (map[string]float64, error) {
	body, err := json.Marshal(moderationRequest{
		Model: c.cfg.Model,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal moderation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create moderation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute moderation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("moderation endpoint returned %d: %s", resp.StatusCode, string(payload))
	}

	var parsed moderationResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode moderation response: %w", err)
	}
	if len(parsed.Results) == 0 {
		return nil, fmt.Errorf("moderation endpoint returned no results")
	}

	return parsed.Results[0].CategoryScores, nil
}
