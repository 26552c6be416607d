package transcriber

import (
	"context"
	"fmt"

	"mediascribe/errors"
	"mediascribe/media"
	"mediascribe/models"
	"mediascribe/services/extract"

	"github.com/sirupsen/logrus"
)

type Config struct {
	// SummaryBestEffort keeps a finished transcript when summarization
	// fails, attaching nothing instead of failing the whole request.
	SummaryBestEffort bool
}

type service struct {
	strategies map[models.MediaKind]extract.Strategy
	summarizer Summarizer
	config     Config
}

func NewService(strategies map[models.MediaKind]extract.Strategy, summarizer Summarizer, config Config) Service {
	return &service{
		strategies: strategies,
		summarizer: summarizer,
		config:     config,
	}
}

func (s *service) Transcribe(ctx context.Context, req Request) (*models.TranscriptResult, error) {
	const op = "TranscriptionService.Transcribe"

	kind := media.ClassifyReference(req.Ref)

	logger := logrus.WithFields(logrus.Fields{
		"kind":      kind,
		"file":      req.Ref.FilePath,
		"video_id":  req.Ref.VideoID,
		"summarize": req.Summarize,
	})
	logger.Info("Starting transcription")

	strategy, ok := s.strategies[kind]
	if !ok {
		return nil, errors.UnsupportedMedia(op, nil,
			fmt.Sprintf("unsupported media type: %s", describeRef(req.Ref)))
	}

	result, err := strategy.Extract(ctx, req.Ref)
	if err != nil {
		logger.WithError(err).Error("Extraction failed")
		return nil, err
	}

	if req.Summarize {
		summary, err := s.summarizer.Summarize(ctx, result.Text, req.MaxLength, req.Temperature)
		if err != nil {
			if !s.config.SummaryBestEffort {
				return nil, err
			}
			logger.WithError(err).Warn("Summarization failed, returning transcript without summary")
		} else {
			result.Summary = summary
		}
	}

	logger.WithField("chars", len(result.Text)).Info("Transcription complete")
	return result, nil
}

func describeRef(ref models.MediaReference) string {
	if ref.ContentType != "" {
		return ref.ContentType
	}
	if ref.FilePath != "" {
		return ref.FilePath
	}
	return "unknown"
}
