// Package planner turns a form submission into an outing plan: it checks
// the two preconditions, assembles the prompt and hands it to the model.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/edgard/outing/internal/llm"
	"github.com/edgard/outing/internal/outing"
	"github.com/edgard/outing/internal/tools"
)

// User-facing warnings. They are outcomes, not errors: no model call is made.
const (
	WarnMissingCredential = "Please enter your API key."
	WarnMissingFields     = "Genres and starting location are required."
)

// Submission is the raw form input.
type Submission struct {
	Credential llm.Credential `validate:"required"`
	Mood       string
	Genres     []string `validate:"min=1"`
	TimeSlot   string
	Location   string `validate:"required"`
}

// Result is the outcome of a submission. Either Warning is set, or Plan
// holds the model's raw text.
type Result struct {
	Warning string

	Request  outing.Request
	Plan     string
	Date     string
	Filename string
}

// Service plans outings. It holds no per-request state.
type Service struct {
	factory  llm.Factory
	tools    *tools.Set
	log      *slog.Logger
	now      func() time.Time
	validate *validator.Validate
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the clock used to date the download file.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a planner that calls the model through factory and
// offers it the tools in set.
func NewService(factory llm.Factory, set *tools.Set, log *slog.Logger, opts ...Option) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{
		factory:  factory,
		tools:    set,
		log:      log.With("component", "planner"),
		now:      time.Now,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit plans one outing. Missing preconditions yield a Result carrying a
// warning. A failing model call is returned as an error; there is no retry
// and no partial result.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Result, error) {
	if warning := s.check(sub); warning != "" {
		s.log.InfoContext(ctx, "Submission rejected", "warning", warning)
		return &Result{Warning: warning}, nil
	}

	submittedAt := s.now()
	req := outing.NewRequest(sub.Mood, sub.Genres, sub.TimeSlot, sub.Location)

	log := s.log.With("intensity", req.Intensity.String(), "genre_count", len(req.Genres))
	log.InfoContext(ctx, "Generating outing plan")

	runner, err := s.factory.New(ctx, sub.Credential)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	startTime := time.Now()
	plan, err := runner.Run(ctx, req.Prompt(), s.tools)
	if err != nil {
		log.ErrorContext(ctx, "Outing plan generation failed", "error", err, "duration", time.Since(startTime))
		return nil, fmt.Errorf("failed to generate plan: %w", err)
	}
	log.InfoContext(ctx, "Outing plan generated", "duration", time.Since(startTime), "plan_len", len(plan))

	date := submittedAt.Format(time.DateOnly)
	return &Result{
		Request:  req,
		Plan:     plan,
		Date:     date,
		Filename: outing.FilenameForDate(date),
	}, nil
}

// check returns the warning for the first failed precondition. The
// credential is checked before the form fields.
func (s *Service) check(sub Submission) string {
	err := s.validate.Struct(sub)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return WarnMissingFields
	}
	for _, fe := range verrs {
		if fe.Field() == "Credential" {
			return WarnMissingCredential
		}
	}
	return WarnMissingFields
}
