package transcribe

import "context"

// Transcriber converts a local audio file into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
