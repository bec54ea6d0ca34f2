package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/cenkalti/backoff/v4"
)

// DefaultModel is the whisper model size used when none is configured.
const DefaultModel = "base"

// WhisperBackend talks to an OpenAI-compatible speech-to-text endpoint
// (POST {base}/v1/audio/transcriptions, multipart file + model). The model
// is loaded and cached by the external service; this backend only keeps one
// shared HTTP client so connections are reused across requests.
type WhisperBackend struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewWhisperBackend returns a backend for the service at baseURL. An empty
// model falls back to DefaultModel. No request timeout is set; callers bound
// long transcriptions through ctx.
func NewWhisperBackend(baseURL, model string) *WhisperBackend {
	if model == "" {
		model = DefaultModel
	}
	return &WhisperBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe implements Transcriber. The audio file is uploaded as-is; the
// response's text field is returned verbatim. Failures are not retried.
func (b *WhisperBackend) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model", b.model); err != nil {
		return "", err
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := b.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("whisper http %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var tr transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode whisper response: %w", err)
	}
	return tr.Text, nil
}

// WaitReady polls the service until it answers without a server error,
// backing off exponentially. It is meant for boot-time warm-up only; the
// per-request path never retries. Cancel ctx to stop waiting.
func (b *WhisperBackend) WaitReady(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0 // bounded by ctx

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/healthz", nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := b.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		// A 404 still means the service is up, just without a health route.
		if resp.StatusCode >= 500 {
			return fmt.Errorf("whisper service not ready: %s", resp.Status)
		}
		return nil
	}
	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}
