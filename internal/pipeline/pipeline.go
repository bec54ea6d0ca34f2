package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"accent-detector/internal/accent"
	"accent-detector/internal/media"
	"accent-detector/internal/platform/metrics"
	"accent-detector/internal/transcribe"

	"github.com/google/uuid"
)

// Result is the terminal output of a successful run: the full transcript and
// the classified accent. A run never returns a partial Result; a failure at
// any stage yields (nil, error).
type Result struct {
	Transcript string        `json:"transcript"`
	Accent     accent.Result `json:"accent"`
}

// Runner sequences fetch, audio extraction, transcription, and
// classification for one URL at a time. Each run works in its own
// uuid-named directory under workDir, so concurrent runs never collide on
// temporary file names, and that directory is removed exactly once before
// Run returns, whatever the outcome.
type Runner struct {
	fetcher     media.Fetcher
	extractor   media.Extractor
	transcriber transcribe.Transcriber
	lexicon     accent.Lexicon
	workDir     string
	log         *slog.Logger
	metrics     *metrics.Metrics
}

// NewRunner wires a Runner. workDir defaults to the system temp directory;
// metrics may be nil to disable metric recording (e.g. in tests).
func NewRunner(
	fetcher media.Fetcher,
	extractor media.Extractor,
	transcriber transcribe.Transcriber,
	lexicon accent.Lexicon,
	workDir string,
	log *slog.Logger,
	m *metrics.Metrics,
) *Runner {
	if workDir == "" {
		workDir = os.TempDir()
	}
	return &Runner{
		fetcher:     fetcher,
		extractor:   extractor,
		transcriber: transcriber,
		lexicon:     lexicon,
		workDir:     workDir,
		log:         log,
		metrics:     m,
	}
}

// Run executes the full pipeline for rawURL. Stages run strictly in order,
// each consuming the previous stage's output; nothing is retried. Stage
// failures come back as *StageError wrapping the cause. ctx is threaded to
// every stage, so the caller may impose a deadline or cancellation between
// and within stages.
func (r *Runner) Run(ctx context.Context, rawURL string) (res *Result, err error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, ErrEmptyURL
	}
	if _, perr := url.ParseRequestURI(rawURL); perr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, perr)
	}

	if r.metrics != nil {
		r.metrics.IncRunsStarted()
		r.metrics.IncActiveRuns()
		defer r.metrics.DecActiveRuns()
	}

	runDir := filepath.Join(r.workDir, uuid.NewString())
	if mkErr := os.MkdirAll(runDir, 0o755); mkErr != nil {
		return nil, fmt.Errorf("create run dir: %w", mkErr)
	}
	// Everything this run writes lives under runDir; removing it is the
	// single cleanup point for every exit path, including panics.
	defer os.RemoveAll(runDir)

	log := r.log.With(slog.String("url", rawURL), slog.String("run_dir", runDir))

	defer func() {
		if p := recover(); p != nil {
			res, err = nil, fmt.Errorf("unexpected fault: %v", p)
		}
		if err != nil {
			stage := "internal"
			var se *StageError
			if errors.As(err, &se) {
				stage = string(se.Stage)
			}
			if r.metrics != nil {
				r.metrics.IncRunFailures(stage)
			}
			log.Error("run failed", slog.String("stage", stage), slog.String("error", err.Error()))
		}
	}()

	videoPath := filepath.Join(runDir, "video.mp4")
	audioPath := filepath.Join(runDir, "audio.wav")

	log.Info("fetching video")
	if ferr := r.fetcher.Fetch(ctx, rawURL, videoPath); ferr != nil {
		return nil, &StageError{Stage: StageFetch, Err: ferr}
	}

	log.Info("extracting audio")
	if xerr := r.extractor.Extract(ctx, videoPath, audioPath); xerr != nil {
		return nil, &StageError{Stage: StageExtract, Err: xerr}
	}

	log.Info("transcribing audio")
	text, terr := r.transcriber.Transcribe(ctx, audioPath)
	if terr != nil {
		return nil, &StageError{Stage: StageTranscribe, Err: terr}
	}

	result := accent.Classify(r.lexicon, text)
	log.Info("run complete",
		slog.String("accent", result.Label),
		slog.Int("confidence", result.Confidence),
	)

	if r.metrics != nil {
		r.metrics.IncRunsSucceeded()
	}
	return &Result{Transcript: text, Accent: result}, nil
}
