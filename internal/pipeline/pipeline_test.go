package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"accent-detector/internal/accent"
	"accent-detector/internal/media"
)

// fakeFetcher writes a placeholder video file, or fails.
type fakeFetcher struct {
	err      error
	calls    int
	lastDest string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url, dest string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.lastDest = dest
	return os.WriteFile(dest, []byte("video"), 0o644)
}

// fakeExtractor writes a placeholder audio file, or fails.
type fakeExtractor struct {
	err      error
	lastDest string
}

func (e *fakeExtractor) Extract(ctx context.Context, videoPath, dest string) error {
	if e.err != nil {
		return e.err
	}
	e.lastDest = dest
	return os.WriteFile(dest, []byte("audio"), 0o644)
}

// fakeTranscriber returns a canned transcript, fails, or panics.
type fakeTranscriber struct {
	text  string
	err   error
	panic bool
}

func (t *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if t.panic {
		panic("transcriber blew up")
	}
	return t.text, t.err
}

func newTestRunner(t *testing.T, f *fakeFetcher, e *fakeExtractor, tr *fakeTranscriber) *Runner {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRunner(f, e, tr, accent.DefaultLexicon(), t.TempDir(), log, nil)
}

func mustNotExist(t *testing.T, path string) {
	t.Helper()
	if path == "" {
		return
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected %s to be removed, stat err: %v", path, err)
	}
}

func TestRunner_success(t *testing.T) {
	f := &fakeFetcher{}
	e := &fakeExtractor{}
	tr := &fakeTranscriber{text: "my favourite colour is grey"}
	r := newTestRunner(t, f, e, tr)

	res, err := r.Run(context.Background(), "https://example.com/watch?v=abc")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.Transcript != "my favourite colour is grey" {
		t.Errorf("unexpected transcript: %q", res.Transcript)
	}
	if res.Accent.Label != "British" {
		t.Errorf("expected British, got %q", res.Accent.Label)
	}

	// A successful run leaves zero temporary files behind.
	mustNotExist(t, f.lastDest)
	mustNotExist(t, e.lastDest)
}

func TestRunner_empty_url(t *testing.T) {
	f := &fakeFetcher{}
	r := newTestRunner(t, f, &fakeExtractor{}, &fakeTranscriber{})

	res, err := r.Run(context.Background(), "   ")
	if !errors.Is(err, ErrEmptyURL) {
		t.Errorf("expected ErrEmptyURL, got %v", err)
	}
	if res != nil {
		t.Error("expected nil result")
	}
	if f.calls != 0 {
		t.Error("fetcher should not run for an empty url")
	}
}

func TestRunner_invalid_url(t *testing.T) {
	f := &fakeFetcher{}
	r := newTestRunner(t, f, &fakeExtractor{}, &fakeTranscriber{})

	res, err := r.Run(context.Background(), "not a url at all")
	if !errors.Is(err, ErrInvalidURL) {
		t.Errorf("expected ErrInvalidURL, got %v", err)
	}
	if res != nil {
		t.Error("expected nil result")
	}
	if f.calls != 0 {
		t.Error("fetcher should not run for an invalid url")
	}
}

func TestRunner_fetch_failure(t *testing.T) {
	f := &fakeFetcher{err: errors.New("video unavailable")}
	r := newTestRunner(t, f, &fakeExtractor{}, &fakeTranscriber{})

	res, err := r.Run(context.Background(), "https://example.com/gone")
	if res != nil {
		t.Error("expected nil result")
	}
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageFetch {
		t.Errorf("expected fetch StageError, got %v", err)
	}
}

func TestRunner_no_audio_track_is_distinguishable(t *testing.T) {
	f := &fakeFetcher{}
	e := &fakeExtractor{err: fmt.Errorf("video.mp4: %w", media.ErrNoAudioTrack)}
	r := newTestRunner(t, f, e, &fakeTranscriber{})

	res, err := r.Run(context.Background(), "https://example.com/silent")
	if res != nil {
		t.Error("expected nil result")
	}
	if !errors.Is(err, media.ErrNoAudioTrack) {
		t.Errorf("expected ErrNoAudioTrack to survive wrapping, got %v", err)
	}
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageExtract {
		t.Errorf("expected extract StageError, got %v", err)
	}

	// The already-downloaded video must be cleaned up despite the failure.
	mustNotExist(t, f.lastDest)
}

func TestRunner_transcribe_failure_discards_files(t *testing.T) {
	f := &fakeFetcher{}
	e := &fakeExtractor{}
	tr := &fakeTranscriber{err: errors.New("decode failed")}
	r := newTestRunner(t, f, e, tr)

	res, err := r.Run(context.Background(), "https://example.com/watch?v=abc")
	if res != nil {
		t.Error("no partial result on transcription failure")
	}
	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageTranscribe {
		t.Errorf("expected transcribe StageError, got %v", err)
	}
	mustNotExist(t, f.lastDest)
	mustNotExist(t, e.lastDest)
}

func TestRunner_panic_becomes_error_and_cleans_up(t *testing.T) {
	f := &fakeFetcher{}
	e := &fakeExtractor{}
	r := newTestRunner(t, f, e, &fakeTranscriber{panic: true})

	res, err := r.Run(context.Background(), "https://example.com/watch?v=abc")
	if res != nil {
		t.Error("expected nil result after panic")
	}
	if err == nil || !strings.Contains(err.Error(), "unexpected fault") {
		t.Errorf("expected unexpected fault error, got %v", err)
	}
	mustNotExist(t, f.lastDest)
	mustNotExist(t, e.lastDest)
}

func TestRunner_run_dirs_are_unique(t *testing.T) {
	f := &fakeFetcher{}
	e := &fakeExtractor{}
	r := newTestRunner(t, f, e, &fakeTranscriber{text: "mate"})

	if _, err := r.Run(context.Background(), "https://example.com/a"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := f.lastDest
	if _, err := r.Run(context.Background(), "https://example.com/b"); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first == f.lastDest {
		t.Error("runs should not share temporary paths")
	}
}
