// Package transcriber orchestrates media classification, strategy dispatch,
// and optional summarization into one transcription flow.
package transcriber

import (
	"context"

	"mediascribe/models"
)

// Request describes one transcription job.
type Request struct {
	Ref models.MediaReference

	Summarize   bool
	MaxLength   int
	Temperature float32
}

type Service interface {
	Transcribe(ctx context.Context, req Request) (*models.TranscriptResult, error)
}

// Summarizer condenses transcript text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLength int, temperature float32) (*models.SummaryResult, error)
}
