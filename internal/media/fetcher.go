package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Fetcher downloads a remote video to a local path. Implementations overwrite
// any existing file at dest.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}

// YTDLPFetcher shells out to yt-dlp to download the best available
// video+audio stream, merged into a single mp4 container at dest.
type YTDLPFetcher struct {
	bin string
}

// NewYTDLPFetcher returns a fetcher using the given yt-dlp binary.
// An empty bin falls back to "yt-dlp" on PATH.
func NewYTDLPFetcher(bin string) *YTDLPFetcher {
	if bin == "" {
		bin = "yt-dlp"
	}
	return &YTDLPFetcher{bin: bin}
}

// Fetch implements Fetcher. Failures (bad URL, network error, no matching
// stream, removed or restricted video) surface yt-dlp's own diagnostic in the
// returned error. No retries happen here.
func (f *YTDLPFetcher) Fetch(ctx context.Context, url, dest string) error {
	cmd := exec.CommandContext(ctx, f.bin, fetchArgs(url, dest)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return fmt.Errorf("yt-dlp: %s: %w", msg, err)
		}
		return fmt.Errorf("yt-dlp: %w", err)
	}
	return nil
}

// fetchArgs builds the yt-dlp invocation: best available video+audio quality,
// merged into one mp4, written to dest, quiet.
func fetchArgs(url, dest string) []string {
	return []string{
		"--quiet",
		"--no-warnings",
		"--force-overwrites",
		"-f", "bestvideo+bestaudio/best",
		"--merge-output-format", "mp4",
		"-o", dest,
		url,
	}
}

// lastLine returns the last non-empty line of s; yt-dlp prints its actual
// error last, after progress noise.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
