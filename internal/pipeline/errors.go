package pipeline

import (
	"errors"
	"fmt"
)

// Stage identifies one step of the pipeline. A run progresses linearly
// through the stages; a failure at any stage aborts the rest.
type Stage string

const (
	StageFetch      Stage = "fetch"
	StageExtract    Stage = "extract_audio"
	StageTranscribe Stage = "transcribe"
	StageClassify   Stage = "classify"
)

var (
	// ErrEmptyURL is returned when Run is called with a blank URL.
	ErrEmptyURL = errors.New("url is empty")

	// ErrInvalidURL is returned when the URL does not parse.
	ErrInvalidURL = errors.New("invalid url")
)

// StageError reports which pipeline stage failed. It unwraps to the
// underlying cause so callers can still match sentinels like
// media.ErrNoAudioTrack with errors.Is.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
