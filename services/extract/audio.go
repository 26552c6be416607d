package extract

import (
	"context"
	"path/filepath"

	"mediascribe/models"
)

// AudioStrategy hands an already-audio file straight to speech-to-text.
type AudioStrategy struct {
	Transcriber Transcriber
}

func (s *AudioStrategy) Extract(ctx context.Context, ref models.MediaReference) (*models.TranscriptResult, error) {
	text, err := s.Transcriber.Transcribe(ctx, ref.FilePath)
	if err != nil {
		return nil, err
	}
	return &models.TranscriptResult{
		Filename: filepath.Base(ref.FilePath),
		Text:     text,
	}, nil
}

// VideoStrategy decodes the container to a WAV artifact first, then
// transcribes. The artifact is removed whether or not transcription
// succeeds.
type VideoStrategy struct {
	Extractor   AudioExporter
	Transcriber Transcriber
}

func (s *VideoStrategy) Extract(ctx context.Context, ref models.MediaReference) (*models.TranscriptResult, error) {
	wavPath, cleanup, err := s.Extractor.Extract(ctx, ref.FilePath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	text, err := s.Transcriber.Transcribe(ctx, wavPath)
	if err != nil {
		return nil, err
	}
	return &models.TranscriptResult{
		Filename: filepath.Base(ref.FilePath),
		Text:     text,
	}, nil
}
