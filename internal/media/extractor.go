package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
)

// ErrNoAudioTrack is returned when the video container carries no audio
// stream. Callers distinguish it from generic extraction failures with
// errors.Is; it is a user-meaningful condition, not an I/O fault.
var ErrNoAudioTrack = errors.New("no audio track")

// Extractor produces an audio file from a local video file.
type Extractor interface {
	Extract(ctx context.Context, videoPath, dest string) error
}

// FFmpegExtractor probes the container with ffprobe and extracts the audio
// stream with ffmpeg as mono 16 kHz WAV.
type FFmpegExtractor struct {
	ffmpegBin  string
	ffprobeBin string
}

// NewFFmpegExtractor returns an extractor using the given binaries. Empty
// values fall back to "ffmpeg" and "ffprobe" on PATH.
func NewFFmpegExtractor(ffmpegBin, ffprobeBin string) *FFmpegExtractor {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if ffprobeBin == "" {
		ffprobeBin = "ffprobe"
	}
	return &FFmpegExtractor{ffmpegBin: ffmpegBin, ffprobeBin: ffprobeBin}
}

// Extract implements Extractor. A container without any audio stream yields
// an error wrapping ErrNoAudioTrack that names the offending file.
func (e *FFmpegExtractor) Extract(ctx context.Context, videoPath, dest string) error {
	hasAudio, err := e.hasAudioStream(ctx, videoPath)
	if err != nil {
		return fmt.Errorf("probe %s: %w", videoPath, err)
	}
	if !hasAudio {
		return fmt.Errorf("%s: %w", videoPath, ErrNoAudioTrack)
	}

	cmd := exec.CommandContext(ctx, e.ffmpegBin, extractArgs(videoPath, dest)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return fmt.Errorf("ffmpeg: %s: %w", msg, err)
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

func (e *FFmpegExtractor) hasAudioStream(ctx context.Context, videoPath string) (bool, error) {
	cmd := exec.CommandContext(ctx, e.ffprobeBin, probeArgs(videoPath)...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return false, fmt.Errorf("ffprobe: %s: %w", lastLine(string(exitErr.Stderr)), err)
		}
		return false, fmt.Errorf("ffprobe: %w", err)
	}
	return probeHasAudio(out)
}

// probeArgs builds the ffprobe invocation: list audio streams only, JSON out.
func probeArgs(videoPath string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=codec_type",
		"-of", "json",
		videoPath,
	}
}

// extractArgs builds the ffmpeg invocation: drop video, mono, 16 kHz WAV.
func extractArgs(videoPath, dest string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		dest,
	}
}

// probeHasAudio parses ffprobe JSON output and reports whether any audio
// stream is present.
func probeHasAudio(out []byte) (bool, error) {
	var probe struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(out, &probe); err != nil {
		return false, fmt.Errorf("parse ffprobe output: %w", err)
	}
	for _, s := range probe.Streams {
		if s.CodecType == "audio" {
			return true, nil
		}
	}
	return false, nil
}
