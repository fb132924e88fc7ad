// Package llm sends the assembled prompt to a hosted chat model together
// with the outing tools and returns the model's final text.
//
// A client is built per request with the user's own credential; nothing
// here keeps a credential beyond the lifetime of that client. Calls are
// not retried and carry no timeout of their own: failures are returned to
// the caller as they come.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/edgard/outing/internal/tools"
)

// Temperature is the sampling temperature of every request.
const Temperature float32 = 0.7

var (
	// ErrMissingCredential is returned when a runner is requested without a credential.
	ErrMissingCredential = errors.New("llm: credential is required")
	// ErrUnknownProvider is returned for a provider name the factory does not know.
	ErrUnknownProvider = errors.New("llm: unknown provider")
	// ErrStepLimit is returned when the model keeps calling tools past the step budget.
	ErrStepLimit = errors.New("llm: tool step limit reached")
	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("llm: empty response")
)

// Runner runs one prompt to completion, letting the model call tools from
// the set as it sees fit. Tool use is optional; the model may answer without
// calling any.
type Runner interface {
	Run(ctx context.Context, prompt string, set *tools.Set) (string, error)
}

// Factory builds a Runner bound to one credential.
type Factory interface {
	New(ctx context.Context, credential Credential) (Runner, error)
}

// Credential is an end-user API key. Formatting and logging it prints a
// redaction instead of the secret.
type Credential string

const redacted = "[REDACTED]"

func (c Credential) String() string {
	if c == "" {
		return ""
	}
	return redacted
}

// LogValue implements slog.LogValuer.
func (c Credential) LogValue() slog.Value {
	return slog.StringValue(c.String())
}

// Empty reports whether no credential was supplied.
func (c Credential) Empty() bool {
	return c == ""
}

func (c Credential) secret() string {
	return string(c)
}

// callTool runs the named tool. Unknown tools and tool failures become a
// textual error the model can read; only a done context is returned as err.
func callTool(ctx context.Context, log *slog.Logger, set *tools.Set, name string, args map[string]any) (string, error) {
	tool, ok := set.Lookup(name)
	if !ok {
		log.WarnContext(ctx, "Model requested unknown tool", "tool", name)
		return fmt.Sprintf("error: unknown tool %q", name), nil
	}

	out, err := tool.Invoke(ctx, args)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		log.WarnContext(ctx, "Tool invocation failed", "tool", name, "error", err)
		return "error: " + err.Error(), nil
	}

	log.DebugContext(ctx, "Tool invoked", "tool", name, "output_len", len(out))
	return out, nil
}
