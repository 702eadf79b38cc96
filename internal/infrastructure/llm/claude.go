// Package llm implements the tone classifier on top of the Anthropic
// messages API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"FomcToneScanner/internal/config"
	"FomcToneScanner/internal/domain"
	"FomcToneScanner/internal/ports"
)

const (
	anthropicVersion = "2023-06-01"

	// Shorter texts carry no scoreable policy signal.
	minScoreChars = 50
)

var fenceExpr = regexp.MustCompile("(?m)^```json|^```|```$")

// ClaudeClient scores speeches through the Anthropic messages API.
type ClaudeClient struct {
	endpoint   string
	model      string
	apiKey     string
	maxTokens  int
	httpClient *http.Client
}

var _ ports.Classifier = (*ClaudeClient)(nil)

// NewClaudeClient builds a client from configuration. Per-call deadlines
// come from the caller's context; the transport timeout is a backstop.
func NewClaudeClient(cfg config.ClassifierConfig) *ClaudeClient {
	return &ClaudeClient{
		endpoint:  cfg.Endpoint,
		model:     cfg.Model,
		apiKey:    cfg.APIKey,
		maxTokens: cfg.MaxTokens,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// messagesResponse mirrors the subset of the API reply we consume.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// scorePayload is the JSON document the scoring prompt instructs the model
// to return.
type scorePayload struct {
	Stance    int              `json:"stance"`
	Balance   int              `json:"balance"`
	Direction int              `json:"direction"`
	Composite int              `json:"composite"`
	Reason    string           `json:"reason"`
	Keywords  []domain.Keyword `json:"keywords"`
}

// Score submits the speech text for tone classification. Transport errors,
// rate limits, 5xx replies, and unparseable model output come back as
// domain.TransientScoreError; everything unretryable as
// domain.PermanentScoreError.
func (c *ClaudeClient) Score(ctx context.Context, speaker, text string) (domain.ToneScore, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return domain.ToneScore{}, &domain.PermanentScoreError{Err: errors.New("classifier misconfigured")}
	}
	if len(strings.TrimSpace(text)) < minScoreChars {
		return domain.ToneScore{}, &domain.PermanentScoreError{Err: errors.New("text too short to score")}
	}

	body, err := json.Marshal(map[string]any{
		"model":      c.model,
		"max_tokens": c.maxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": buildPrompt(speaker, text)},
		},
	})
	if err != nil {
		return domain.ToneScore{}, &domain.PermanentScoreError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.ToneScore{}, &domain.PermanentScoreError{Err: fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ToneScore{}, &domain.TransientScoreError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		statusErr := fmt.Errorf("classifier returned %s: %s", resp.Status, strings.TrimSpace(string(detail)))
		if retryableStatus(resp.StatusCode) {
			return domain.ToneScore{}, &domain.TransientScoreError{Err: statusErr}
		}
		return domain.ToneScore{}, &domain.PermanentScoreError{Err: statusErr}
	}

	var reply messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return domain.ToneScore{}, &domain.TransientScoreError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(reply.Content) == 0 {
		return domain.ToneScore{}, &domain.TransientScoreError{Err: errors.New("empty completion")}
	}

	raw := strings.TrimSpace(fenceExpr.ReplaceAllString(strings.TrimSpace(reply.Content[0].Text), ""))
	var payload scorePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		// The model occasionally wraps or mangles its JSON; a retry usually
		// produces a clean document.
		return domain.ToneScore{}, &domain.TransientScoreError{Err: fmt.Errorf("unparseable model reply: %w", err)}
	}

	composite := clampComponent(payload.Composite)
	score := float64(composite) / 100

	return domain.ToneScore{
		Score:     score,
		Stance:    clampComponent(payload.Stance),
		Balance:   clampComponent(payload.Balance),
		Direction: clampComponent(payload.Direction),
		Label:     domain.LabelFor(score),
		Reason:    payload.Reason,
		Keywords:  payload.Keywords,
		Model:     c.model,
	}, nil
}

func retryableStatus(code int) bool {
	return code == http.StatusRequestTimeout ||
		code == http.StatusTooManyRequests ||
		code >= http.StatusInternalServerError
}

func clampComponent(v int) int {
	if v > 100 {
		return 100
	}
	if v < -100 {
		return -100
	}
	return v
}
