package captions

import (
	"context"
	"fmt"
	"strings"

	"mediascribe/errors"
	"mediascribe/models"
	"mediascribe/retry"
	"mediascribe/timedtext"
	"mediascribe/validation"

	"github.com/sirupsen/logrus"
)

type Config struct {
	RetryPolicy retry.Policy
}

type service struct {
	tracks     TrackLister
	fetcher    DocumentFetcher
	metadata   MetadataResolver
	summarizer Summarizer
	config     Config
}

func NewService(
	tracks TrackLister,
	fetcher DocumentFetcher,
	metadata MetadataResolver,
	summarizer Summarizer,
	config Config,
) Service {
	if config.RetryPolicy.Retryable == nil {
		policy := config.RetryPolicy
		policy.Retryable = func(err error) bool { return errors.IsKind(err, errors.KindUpstream) }
		config.RetryPolicy = policy
	}
	return &service{
		tracks:     tracks,
		fetcher:    fetcher,
		metadata:   metadata,
		summarizer: summarizer,
		config:     config,
	}
}

func (s *service) Fetch(ctx context.Context, req Request) (*Result, error) {
	const op = "CaptionService.Fetch"

	if err := validation.ValidateVideoID(req.VideoID); err != nil {
		return nil, err
	}

	logger := logrus.WithFields(logrus.Fields{
		"video_id": req.VideoID,
		"language": req.Language,
	})
	logger.Info("Fetching captions")

	tracks, err := s.tracks.CaptionTracks(ctx, req.VideoID)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, errors.NotFound(op, nil, "no captions available for this video")
	}

	result := &Result{
		VideoID:  req.VideoID,
		Metadata: s.metadata.Resolve(ctx, req.VideoID),
	}

	// Discovery: no language requested, report what is available.
	if req.Language == "" {
		result.AvailableLanguages = tracks
		return result, nil
	}

	track, err := selectTrack(tracks, req.Language)
	if err != nil {
		return nil, err
	}
	result.LanguageCode = track.LanguageCode

	doc, err := retry.Do(ctx, s.config.RetryPolicy, op, func(ctx context.Context) ([]byte, error) {
		return s.fetcher.FetchCaptionDocument(ctx, track.BaseURL)
	})
	if err != nil {
		return nil, err
	}

	segments, err := timedtext.Parse(doc)
	if err != nil {
		return nil, err
	}

	if req.Timestamps {
		enriched := make([]models.CaptionSegment, len(segments))
		for i, seg := range segments {
			enriched[i] = seg.WithEnd()
		}
		result.TimestampedCaptions = enriched
		return result, nil
	}

	// Flattening drops timing on purpose; callers who need it ask for
	// timestamps instead.
	result.Captions = timedtext.Join(segments)

	if req.Summarize {
		summary, err := s.summarizer.Summarize(ctx, result.Captions, req.MaxLength, req.Temperature)
		if err != nil {
			return nil, err
		}
		result.Summary = summary
	}

	return result, nil
}

// selectTrack picks the track for a requested language code. Exact match
// wins; failing that, a bare primary subtag matches the first track (in
// sorted order) sharing that subtag, so "es" finds "es-419". A dialected
// request never falls back to another dialect.
func selectTrack(tracks []models.CaptionTrack, language string) (models.CaptionTrack, error) {
	const op = "CaptionService.selectTrack"

	for _, t := range tracks {
		if t.LanguageCode == language {
			return t, nil
		}
	}

	if !strings.Contains(language, "-") {
		for _, t := range tracks {
			if primarySubtag(t.LanguageCode) == language {
				return t, nil
			}
		}
	}

	return models.CaptionTrack{}, errors.NotFound(op, nil,
		fmt.Sprintf("no captions available for the requested language: %s", language))
}

func primarySubtag(code string) string {
	if i := strings.Index(code, "-"); i >= 0 {
		return code[:i]
	}
	return code
}
