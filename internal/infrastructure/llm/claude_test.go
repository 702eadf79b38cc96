package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"FomcToneScanner/internal/config"
	"FomcToneScanner/internal/domain"
)

const speechText = "The Committee judges that inflation remains elevated and that further " +
	"policy firming may be appropriate to return inflation to two percent over time."

func newClient(endpoint string) *ClaudeClient {
	return NewClaudeClient(config.ClassifierConfig{
		Endpoint:  endpoint,
		Model:     "claude-sonnet-4-5",
		APIKey:    "test-key",
		MaxTokens: 400,
	})
}

func completionReply(w http.ResponseWriter, text string) {
	reply := map[string]any{
		"content": []map[string]string{{"type": "text", "text": text}},
	}
	_ = json.NewEncoder(w).Encode(reply)
}

func TestScoreParsesFencedReply(t *testing.T) {
	t.Parallel()

	var gotVersion, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVersion = r.Header.Get("anthropic-version")
		gotKey = r.Header.Get("x-api-key")
		completionReply(w, "```json\n{\"stance\": 60, \"balance\": 40, \"direction\": 50, "+
			"\"composite\": 55, \"reason\": \"explicit firming bias\", "+
			"\"keywords\": [{\"word\": \"firming\", \"type\": \"hawkish\"}]}\n```")
	}))
	defer server.Close()

	tone, err := newClient(server.URL).Score(context.Background(), "jerome powell", speechText)
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}

	if tone.Score != 0.55 {
		t.Fatalf("expected score 0.55, got %v", tone.Score)
	}
	if tone.Label != domain.LabelHawkish {
		t.Fatalf("expected hawkish label, got %q", tone.Label)
	}
	if tone.Stance != 60 || tone.Balance != 40 || tone.Direction != 50 {
		t.Fatalf("components not carried: %+v", tone)
	}
	if len(tone.Keywords) != 1 || tone.Keywords[0].Word != "firming" {
		t.Fatalf("keywords not carried: %+v", tone.Keywords)
	}
	if tone.Model != "claude-sonnet-4-5" {
		t.Fatalf("model not recorded: %q", tone.Model)
	}
	if gotVersion != "2023-06-01" || gotKey != "test-key" {
		t.Fatalf("auth headers not set: version=%q key=%q", gotVersion, gotKey)
	}
}

func TestScoreClampsComponents(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		completionReply(w, `{"stance": 500, "balance": -300, "direction": 0, "composite": -250, "reason": "x"}`)
	}))
	defer server.Close()

	tone, err := newClient(server.URL).Score(context.Background(), "mary daly", speechText)
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if tone.Stance != 100 || tone.Balance != -100 {
		t.Fatalf("components not clamped: %+v", tone)
	}
	if tone.Score != -1 {
		t.Fatalf("expected score -1, got %v", tone.Score)
	}
	if tone.Label != domain.LabelDovish {
		t.Fatalf("expected dovish label, got %q", tone.Label)
	}
}

func TestScoreRateLimitIsTransient(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newClient(server.URL).Score(context.Background(), "jerome powell", speechText)
	var transient *domain.TransientScoreError
	if !errors.As(err, &transient) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestScoreBadRequestIsPermanent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid model", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newClient(server.URL).Score(context.Background(), "jerome powell", speechText)
	var permanent *domain.PermanentScoreError
	if !errors.As(err, &permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
}

func TestScoreUnparseableReplyIsTransient(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		completionReply(w, "I cannot provide a score for this text.")
	}))
	defer server.Close()

	_, err := newClient(server.URL).Score(context.Background(), "jerome powell", speechText)
	var transient *domain.TransientScoreError
	if !errors.As(err, &transient) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestScoreShortTextIsPermanentWithoutCall(t *testing.T) {
	t.Parallel()

	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := newClient(server.URL).Score(context.Background(), "jerome powell", "too short")
	var permanent *domain.PermanentScoreError
	if !errors.As(err, &permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if called {
		t.Fatal("short text must not reach the API")
	}
}

func TestScoreMissingKeyIsPermanent(t *testing.T) {
	t.Parallel()

	client := NewClaudeClient(config.ClassifierConfig{Endpoint: "http://example.invalid", Model: "m"})
	_, err := client.Score(context.Background(), "jerome powell", speechText)
	var permanent *domain.PermanentScoreError
	if !errors.As(err, &permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
}

func TestBuildPromptSubstitutes(t *testing.T) {
	t.Parallel()

	prompt := buildPrompt("jerome powell", "inflation is elevated")
	if !strings.Contains(prompt, "Jerome Powell") {
		t.Fatal("speaker name not titled into the prompt")
	}
	if !strings.Contains(prompt, "inflation is elevated") {
		t.Fatal("speech text not substituted into the prompt")
	}
	if strings.Contains(prompt, "{member_name}") || strings.Contains(prompt, "{text}") {
		t.Fatal("placeholders left unsubstituted")
	}
}

func TestBuildPromptUnknownSpeaker(t *testing.T) {
	t.Parallel()

	prompt := buildPrompt("", "inflation is elevated")
	if !strings.Contains(prompt, "Unknown FOMC Official") {
		t.Fatal("empty speaker not defaulted")
	}
}
