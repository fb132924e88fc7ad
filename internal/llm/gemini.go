package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/genai"

	"github.com/edgard/outing/internal/tools"
)

type geminiRunner struct {
	client   *genai.Client
	model    string
	maxSteps int
	log      *slog.Logger
}

func newGeminiRunner(ctx context.Context, credential Credential, model, baseURL string, maxSteps int, httpClient *http.Client, log *slog.Logger) (*geminiRunner, error) {
	cc := &genai.ClientConfig{
		APIKey:     credential.secret(),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiRunner{
		client:   client,
		model:    model,
		maxSteps: maxSteps,
		log:      log.With("provider", "gemini", "model", model),
	}, nil
}

func (r *geminiRunner) Run(ctx context.Context, prompt string, set *tools.Set) (string, error) {
	temperature := Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
		Tools:       geminiTools(set),
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	for step := 1; step <= r.maxSteps; step++ {
		r.log.DebugContext(ctx, "Sending generate content", "step", step, "content_count", len(contents))

		resp, err := r.client.Models.GenerateContent(ctx, r.model, contents, cfg)
		if err != nil {
			return "", fmt.Errorf("gemini generate content failed: %w", err)
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			r.log.DebugContext(ctx, "Generate content finished", "steps", step)
			return r.extractText(ctx, resp)
		}

		contents = append(contents, resp.Candidates[0].Content)
		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			out, err := callTool(ctx, r.log, set, call.Name, call.Args)
			if err != nil {
				return "", err
			}
			parts = append(parts, genai.NewPartFromFunctionResponse(call.Name, map[string]any{"output": out}))
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	return "", fmt.Errorf("gemini: %d steps: %w", r.maxSteps, ErrStepLimit)
}

func (r *geminiRunner) extractText(ctx context.Context, resp *genai.GenerateContentResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reasonMsg := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reasonMsg = resp.PromptFeedback.BlockReasonMessage
		}
		r.log.ErrorContext(ctx, "Gemini request blocked", "reason", reasonMsg)
		return "", fmt.Errorf("gemini blocked the request: %s", reasonMsg)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified {
			finishReason = fmt.Sprintf("%v", resp.Candidates[0].FinishReason)
		}
		r.log.WarnContext(ctx, "Gemini response missing candidates or content", "finish_reason", finishReason)
		return "", fmt.Errorf("gemini finish reason %s: %w", finishReason, ErrEmptyResponse)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned no text: %w", ErrEmptyResponse)
	}
	return text, nil
}

func geminiTools(set *tools.Set) []*genai.Tool {
	all := set.All()
	if len(all) == 0 {
		return nil
	}

	decls := make([]*genai.FunctionDeclaration, 0, len(all))
	for _, t := range all {
		props := make(map[string]*genai.Schema, len(t.Params()))
		required := make([]string, 0, len(t.Params()))
		for _, p := range t.Params() {
			props[p.Name] = &genai.Schema{Type: genai.TypeString, Description: p.Description}
			required = append(required, p.Name)
		}

		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   required,
			},
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}
