// Package web serves the outing planner form, the result page and the
// plan download.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/edgard/outing/internal/config"
	"github.com/edgard/outing/internal/llm"
	"github.com/edgard/outing/internal/logger"
	"github.com/edgard/outing/internal/outing"
	"github.com/edgard/outing/internal/planner"
	"github.com/edgard/outing/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// maxFormBytes bounds a posted form, plan text included.
const maxFormBytes = 1 << 20

// ErrInvalidDate is returned for a download request without an ISO date.
var ErrInvalidDate = errors.New("invalid plan date")

// Plan download errors.
var (
	ErrMissingPlan = errors.New("plan is required")
	ErrInvalidPlan = errors.New("invalid plan encoding")
)

// Planner is the part of planner.Service the handlers need.
type Planner interface {
	Submit(ctx context.Context, sub planner.Submission) (*planner.Result, error)
}

// Server holds the HTTP handlers. It has no per-request state.
type Server struct {
	planner Planner
	form    config.FormConfig
	render  *render.Policy
	log     *slog.Logger
}

// NewServer creates the handlers for the given planner and form choices.
func NewServer(p Planner, form config.FormConfig, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		planner: p,
		form:    form,
		render:  render.NewPolicy(),
		log:     log.With("component", "web"),
	}
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /plan", s.handlePlan)
	mux.HandleFunc("POST /download", s.handleDownload)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return logger.Middleware(s.log)(mux)
}

type formValues struct {
	Mood     string
	Genres   map[string]bool
	TimeSlot string
	Location string
}

type pageData struct {
	Form    config.FormConfig
	Values  formValues
	Warning string
	Error   string

	Plan        template.HTML
	EncodedPlan string
	Date        string
	Filename    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, http.StatusOK, pageData{Form: s.form, Values: formValues{Genres: map[string]bool{}}})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sub := planner.Submission{
		Credential: llm.Credential(r.PostFormValue("api_key")),
		Mood:       r.PostFormValue("mood"),
		Genres:     r.PostForm["genres"],
		TimeSlot:   r.PostFormValue("time_slot"),
		Location:   r.PostFormValue("location"),
	}

	data := pageData{Form: s.form, Values: valuesOf(sub)}

	res, err := s.planner.Submit(r.Context(), sub)
	if err != nil {
		s.log.ErrorContext(r.Context(), "Plan request failed", "request_id", logger.RequestID(r.Context()), "error", err)
		data.Error = fmt.Sprintf("The model request failed: %v", err)
		s.writePage(w, r, http.StatusBadGateway, data)
		return
	}

	if res.Warning != "" {
		data.Warning = res.Warning
		s.writePage(w, r, http.StatusOK, data)
		return
	}

	data.Plan = s.render.Markdown(res.Plan)
	data.EncodedPlan = encodePlan(res.Plan)
	data.Date = res.Date
	data.Filename = res.Filename
	s.writePage(w, r, http.StatusOK, data)
}

// handleDownload echoes the posted plan back as a text attachment. Nothing
// is stored server side; the result page carries the text and its date.
// The text travels base64 encoded because browsers rewrite every LF in a
// urlencoded form value to CRLF.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	date, err := parseDate(r.PostFormValue("date"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	plan, err := decodePlan(r.PostFormValue("plan_b64"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": outing.FilenameForDate(date),
	}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(plan)); err != nil {
		s.log.WarnContext(r.Context(), "Failed to write download", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "page", data); err != nil {
		s.log.ErrorContext(r.Context(), "Failed to render page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// valuesOf keeps the entered fields for re-rendering. The credential is
// never echoed back.
func valuesOf(sub planner.Submission) formValues {
	genres := make(map[string]bool, len(sub.Genres))
	for _, g := range sub.Genres {
		genres[g] = true
	}
	return formValues{
		Mood:     sub.Mood,
		Genres:   genres,
		TimeSlot: sub.TimeSlot,
		Location: sub.Location,
	}
}

func encodePlan(plan string) string {
	return base64.StdEncoding.EncodeToString([]byte(plan))
}

func decodePlan(s string) (string, error) {
	if s == "" {
		return "", ErrMissingPlan
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	if len(b) == 0 {
		return "", ErrMissingPlan
	}
	return string(b), nil
}

func parseDate(s string) (string, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.Format(time.DateOnly), nil
}
