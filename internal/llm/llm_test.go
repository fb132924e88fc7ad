package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/outing/internal/config"
	"github.com/edgard/outing/internal/logger"
	"github.com/edgard/outing/internal/tools"
)

func TestCredentialRedaction(t *testing.T) {
	t.Parallel()

	cred := Credential("sk-very-secret")

	assert.Equal(t, "[REDACTED]", cred.String())
	assert.NotContains(t, fmt.Sprintf("%s|%v|%+v", cred, cred, cred), "sk-very-secret")
	assert.False(t, cred.Empty())
	assert.True(t, Credential("").Empty())
	assert.Equal(t, "", Credential("").String())

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	log.Info("attempt", "credential", cred)
	assert.NotContains(t, buf.String(), "sk-very-secret")
	assert.Contains(t, buf.String(), "[REDACTED]")
}

func TestFactoryNew(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := NewFactory(config.LLMConfig{Provider: ProviderOpenAI, Model: "gpt-4o"}, logger.Discard()).New(ctx, "")
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, err = NewFactory(config.LLMConfig{Provider: "claude", Model: "x"}, logger.Discard()).New(ctx, "key")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	r, err := NewFactory(config.LLMConfig{Provider: ProviderOpenAI, Model: "gpt-4o"}, logger.Discard()).New(ctx, "key")
	require.NoError(t, err)
	assert.IsType(t, &openAIRunner{}, r)

	r, err = NewFactory(config.LLMConfig{Provider: ProviderGemini, Model: "gemini-2.0-flash"}, logger.Discard()).New(ctx, "key")
	require.NoError(t, err)
	assert.IsType(t, &geminiRunner{}, r)
}

// fakeOpenAI serves /v1/chat/completions from a scripted list of assistant
// messages and records every request body.
type fakeOpenAI struct {
	t        *testing.T
	mu       sync.Mutex
	replies  []map[string]any
	requests []map[string]any
	status   int
}

func (f *fakeOpenAI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	assert.Equal(f.t, "/v1/chat/completions", r.URL.Path)
	assert.Equal(f.t, "Bearer sk-test", r.Header.Get("Authorization"))

	var body map[string]any
	assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
	f.requests = append(f.requests, body)

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
		return
	}

	idx := len(f.requests) - 1
	if idx >= len(f.replies) {
		idx = len(f.replies) - 1
	}
	msg := f.replies[idx]
	finish := "stop"
	if _, ok := msg["tool_calls"]; ok {
		finish = "tool_calls"
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      fmt.Sprintf("chatcmpl-%d", len(f.requests)),
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o",
		"choices": []map[string]any{{"index": 0, "message": msg, "finish_reason": finish}},
		"usage":   map[string]any{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
	})
}

func (f *fakeOpenAI) recorded() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.requests...)
}

func toolCallMessage(id, name, args string) map[string]any {
	return map[string]any{
		"role": "assistant",
		"tool_calls": []map[string]any{{
			"id":       id,
			"type":     "function",
			"function": map[string]any{"name": name, "arguments": args},
		}},
	}
}

func newOpenAITestRunner(t *testing.T, fake *fakeOpenAI, maxSteps int) (Runner, func()) {
	t.Helper()
	srv := httptest.NewServer(fake)
	f := NewFactory(config.LLMConfig{
		Provider: ProviderOpenAI,
		Model:    "gpt-4o",
		BaseURL:  srv.URL + "/v1",
		MaxSteps: maxSteps,
	}, logger.Discard(), WithHTTPClient(srv.Client()))
	r, err := f.New(context.Background(), "sk-test")
	require.NoError(t, err)
	return r, srv.Close
}

func TestOpenAIRunnerToolLoop(t *testing.T) {
	t.Parallel()

	fake := &fakeOpenAI{t: t, replies: []map[string]any{
		toolCallMessage("call_1", tools.MoodToLevelName, `{"mood":"Tired"}`),
		{"role": "assistant", "content": "## Quiet cafe afternoon\nEnjoy."},
	}}
	r, done := newOpenAITestRunner(t, fake, 4)
	defer done()

	out, err := r.Run(context.Background(), "plan my day", tools.Default())
	require.NoError(t, err)
	assert.Equal(t, "## Quiet cafe afternoon\nEnjoy.", out)

	require.Len(t, fake.recorded(), 2)

	first := fake.recorded()[0]
	assert.Equal(t, "gpt-4o", first["model"])
	assert.InDelta(t, 0.7, first["temperature"], 0.0001)
	toolsSent, ok := first["tools"].([]any)
	require.True(t, ok)
	assert.Len(t, toolsSent, 3)

	msgs, ok := fake.recorded()[1]["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 3)
	toolMsg := msgs[2].(map[string]any)
	assert.Equal(t, "tool", toolMsg["role"])
	assert.Equal(t, "call_1", toolMsg["tool_call_id"])
	assert.Equal(t, "Low", toolMsg["content"])
}

func TestOpenAIRunnerAnswersWithoutTools(t *testing.T) {
	t.Parallel()

	fake := &fakeOpenAI{t: t, replies: []map[string]any{
		{"role": "assistant", "content": "Go for a walk."},
	}}
	r, done := newOpenAITestRunner(t, fake, 4)
	defer done()

	out, err := r.Run(context.Background(), "plan", tools.Default())
	require.NoError(t, err)
	assert.Equal(t, "Go for a walk.", out)
	assert.Len(t, fake.recorded(), 1)
}

func TestOpenAIRunnerUnknownTool(t *testing.T) {
	t.Parallel()

	fake := &fakeOpenAI{t: t, replies: []map[string]any{
		toolCallMessage("call_9", "book_flight", `{}`),
		{"role": "assistant", "content": "Stay local."},
	}}
	r, done := newOpenAITestRunner(t, fake, 4)
	defer done()

	out, err := r.Run(context.Background(), "plan", tools.Default())
	require.NoError(t, err)
	assert.Equal(t, "Stay local.", out)

	msgs := fake.recorded()[1]["messages"].([]any)
	content := msgs[2].(map[string]any)["content"].(string)
	assert.True(t, strings.HasPrefix(content, "error: unknown tool"), content)
}

func TestOpenAIRunnerStepLimit(t *testing.T) {
	t.Parallel()

	fake := &fakeOpenAI{t: t, replies: []map[string]any{
		toolCallMessage("call_1", tools.GeneratePlanName, `{"data":"Shinjuku"}`),
	}}
	r, done := newOpenAITestRunner(t, fake, 2)
	defer done()

	_, err := r.Run(context.Background(), "plan", tools.Default())
	assert.ErrorIs(t, err, ErrStepLimit)
	assert.Len(t, fake.recorded(), 2)
}

func TestOpenAIRunnerErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	fake := &fakeOpenAI{t: t, status: http.StatusUnauthorized}
	r, done := newOpenAITestRunner(t, fake, 4)
	defer done()

	_, err := r.Run(context.Background(), "plan", tools.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai chat completion failed")
	assert.Len(t, fake.recorded(), 1)
}

func TestOpenAIRunnerEmptyContent(t *testing.T) {
	t.Parallel()

	fake := &fakeOpenAI{t: t, replies: []map[string]any{
		{"role": "assistant", "content": "  "},
	}}
	r, done := newOpenAITestRunner(t, fake, 4)
	defer done()

	_, err := r.Run(context.Background(), "plan", tools.Default())
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

// fakeGemini answers generateContent calls from a scripted list of
// candidate contents, or of whole response bodies when bodies is set.
type fakeGemini struct {
	t        *testing.T
	mu       sync.Mutex
	replies  []map[string]any
	bodies   []map[string]any
	requests []map[string]any
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	assert.True(f.t, strings.HasSuffix(r.URL.Path, "gemini-2.0-flash:generateContent"), r.URL.Path)
	assert.Equal(f.t, "g-key", r.Header.Get("x-goog-api-key"))

	var body map[string]any
	assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
	f.requests = append(f.requests, body)

	w.Header().Set("Content-Type", "application/json")
	if len(f.bodies) > 0 {
		_ = json.NewEncoder(w).Encode(f.bodies[min(len(f.requests), len(f.bodies))-1])
		return
	}
	idx := min(len(f.requests), len(f.replies)) - 1
	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []map[string]any{{"content": f.replies[idx], "finishReason": "STOP"}},
	})
}

func (f *fakeGemini) recorded() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.requests...)
}

func newGeminiTestRunner(t *testing.T, fake *fakeGemini, maxSteps int) (Runner, func()) {
	t.Helper()
	srv := httptest.NewServer(fake)
	f := NewFactory(config.LLMConfig{
		Provider: ProviderGemini,
		Model:    "gemini-2.0-flash",
		BaseURL:  srv.URL,
		MaxSteps: maxSteps,
	}, logger.Discard(), WithHTTPClient(srv.Client()))
	r, err := f.New(context.Background(), "g-key")
	require.NoError(t, err)
	return r, srv.Close
}

func functionCallContent(name string, args map[string]any) map[string]any {
	return map[string]any{"role": "model", "parts": []map[string]any{{"functionCall": map[string]any{
		"name": name,
		"args": args,
	}}}}
}

func TestGeminiRunnerToolLoop(t *testing.T) {
	t.Parallel()

	fake := &fakeGemini{t: t, replies: []map[string]any{
		functionCallContent(tools.EncouragementMessageName, map[string]any{"mood": "So-so"}),
		{"role": "model", "parts": []map[string]any{{"text": "Take a short stroll."}}},
	}}
	r, done := newGeminiTestRunner(t, fake, 4)
	defer done()

	out, err := r.Run(context.Background(), "plan", tools.Default())
	require.NoError(t, err)
	assert.Equal(t, "Take a short stroll.", out)
	require.Len(t, fake.recorded(), 2)

	gen, ok := fake.recorded()[0]["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.7, gen["temperature"], 0.0001)

	contents := fake.recorded()[1]["contents"].([]any)
	require.Len(t, contents, 3)
	raw, err := json.Marshal(contents[2])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "functionResponse")
	assert.Contains(t, string(raw), "feel a fresh breeze")
}

func TestGeminiRunnerStepLimit(t *testing.T) {
	t.Parallel()

	fake := &fakeGemini{t: t, replies: []map[string]any{
		functionCallContent(tools.GeneratePlanName, map[string]any{"data": "Shinjuku"}),
	}}
	r, done := newGeminiTestRunner(t, fake, 2)
	defer done()

	_, err := r.Run(context.Background(), "plan", tools.Default())
	assert.ErrorIs(t, err, ErrStepLimit)
	assert.Len(t, fake.recorded(), 2)
}

func TestGeminiRunnerUnusableResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    map[string]any
		wantIs  error
		wantMsg string
	}{
		{
			name:    "no candidates",
			body:    map[string]any{"candidates": []map[string]any{}},
			wantIs:  ErrEmptyResponse,
			wantMsg: "finish reason unknown",
		},
		{
			name:    "candidate without content",
			body:    map[string]any{"candidates": []map[string]any{{"finishReason": "MAX_TOKENS"}}},
			wantIs:  ErrEmptyResponse,
			wantMsg: "MAX_TOKENS",
		},
		{
			name: "empty text",
			body: map[string]any{"candidates": []map[string]any{{
				"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": ""}}},
				"finishReason": "STOP",
			}}},
			wantIs:  ErrEmptyResponse,
			wantMsg: "no text",
		},
		{
			name: "blocked prompt",
			body: map[string]any{"promptFeedback": map[string]any{
				"blockReason":        "SAFETY",
				"blockReasonMessage": "blocked for safety",
			}},
			wantMsg: "gemini blocked the request: blocked for safety",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeGemini{t: t, bodies: []map[string]any{tc.body}}
			r, done := newGeminiTestRunner(t, fake, 4)
			defer done()

			out, err := r.Run(context.Background(), "plan", tools.Default())
			require.Error(t, err)
			assert.Empty(t, out)
			if tc.wantIs != nil {
				assert.ErrorIs(t, err, tc.wantIs)
			}
			assert.Contains(t, err.Error(), tc.wantMsg)
			assert.Len(t, fake.recorded(), 1)
		})
	}
}

func TestCallToolCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := callTool(ctx, logger.Discard(), tools.Default(), tools.MoodToLevelName, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}
