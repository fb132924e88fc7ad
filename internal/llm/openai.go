package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/edgard/outing/internal/tools"
)

type openAIRunner struct {
	client   *openai.Client
	model    string
	maxSteps int
	log      *slog.Logger
}

func newOpenAIRunner(credential Credential, model, baseURL string, maxSteps int, httpClient *http.Client, log *slog.Logger) *openAIRunner {
	cfg := openai.DefaultConfig(credential.secret())
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}

	return &openAIRunner{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		maxSteps: maxSteps,
		log:      log.With("provider", "openai", "model", model),
	}
}

func (r *openAIRunner) Run(ctx context.Context, prompt string, set *tools.Set) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}
	defs := openAITools(set)

	for step := 1; step <= r.maxSteps; step++ {
		r.log.DebugContext(ctx, "Sending chat completion", "step", step, "message_count", len(messages))

		resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       r.model,
			Messages:    messages,
			Temperature: Temperature,
			Tools:       defs,
		})
		if err != nil {
			return "", fmt.Errorf("openai chat completion failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("openai returned no choices: %w", ErrEmptyResponse)
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			if strings.TrimSpace(msg.Content) == "" {
				return "", fmt.Errorf("openai finish reason %q: %w", resp.Choices[0].FinishReason, ErrEmptyResponse)
			}
			r.log.DebugContext(ctx, "Chat completion finished", "steps", step)
			return msg.Content, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			args := map[string]any{}
			if call.Function.Arguments != "" {
				if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
					r.log.WarnContext(ctx, "Tool arguments are not a JSON object", "tool", call.Function.Name, "error", err)
				}
			}

			out, err := callTool(ctx, r.log, set, call.Function.Name, args)
			if err != nil {
				return "", err
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    out,
				Name:       call.Function.Name,
				ToolCallID: call.ID,
			})
		}
	}

	return "", fmt.Errorf("openai: %d steps: %w", r.maxSteps, ErrStepLimit)
}

func openAITools(set *tools.Set) []openai.Tool {
	all := set.All()
	if len(all) == 0 {
		return nil
	}

	defs := make([]openai.Tool, 0, len(all))
	for _, t := range all {
		props := make(map[string]jsonschema.Definition, len(t.Params()))
		required := make([]string, 0, len(t.Params()))
		for _, p := range t.Params() {
			props[p.Name] = jsonschema.Definition{Type: jsonschema.String, Description: p.Description}
			required = append(required, p.Name)
		}

		defs = append(defs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters: jsonschema.Definition{
					Type:       jsonschema.Object,
					Properties: props,
					Required:   required,
				},
			},
		})
	}
	return defs
}
