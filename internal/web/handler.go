package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"accent-detector/internal/accent"
	"accent-detector/internal/media"
	"accent-detector/internal/pipeline"
)

// Pipeline is the analysis entry point the handler drives. The concrete
// implementation is *pipeline.Runner.
type Pipeline interface {
	Run(ctx context.Context, url string) (*pipeline.Result, error)
}

// Handler exposes the accent detector over HTTP: a form page, the analyze
// endpoint, and a liveness probe.
type Handler struct {
	pipe Pipeline
	log  *slog.Logger
}

// NewHandler returns a Handler that runs analyses through pipe.
func NewHandler(pipe Pipeline, log *slog.Logger) *Handler {
	return &Handler{pipe: pipe, log: log}
}

type analyzeRequest struct {
	URL string `json:"url"`
}

type analyzeResponse struct {
	Transcript string        `json:"transcript"`
	Accent     accent.Result `json:"accent"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Analyze handles POST /analyze. The video URL comes either as JSON
// ({"url": "..."}) or as the "url" form field. The request blocks for the
// full pipeline duration and answers with the transcript and accent result,
// or a structured error.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	rawURL, err := requestURL(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, err := h.pipe.Run(r.Context(), rawURL)
	if err != nil {
		status := statusForError(err)
		h.log.Warn("analysis failed",
			slog.String("url", rawURL),
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{Transcript: res.Transcript, Accent: res.Accent})
}

// Index handles GET / with the analysis form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(indexHTML))
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// requestURL pulls the video URL out of a JSON or form body.
func requestURL(r *http.Request) (string, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", errors.New("invalid request body")
		}
		if strings.TrimSpace(req.URL) == "" {
			return "", errors.New("missing url")
		}
		return req.URL, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", errors.New("invalid request body")
	}
	u := strings.TrimSpace(r.FormValue("url"))
	if u == "" {
		return "", errors.New("missing url")
	}
	return u, nil
}

// statusForError maps pipeline failures onto HTTP statuses. A missing audio
// track is the one user-meaningful case that gets its own status; other
// stage failures are upstream-collaborator problems.
func statusForError(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrEmptyURL), errors.Is(err, pipeline.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, media.ErrNoAudioTrack):
		return http.StatusUnprocessableEntity
	default:
		var se *pipeline.StageError
		if errors.As(err, &se) {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
