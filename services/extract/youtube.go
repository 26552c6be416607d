package extract

import (
	"context"

	"mediascribe/models"
)

// YouTubeStrategy stages the progressive stream for a video identifier and
// then behaves exactly like the video strategy. The downloaded file is a
// transient artifact, removed regardless of outcome.
type YouTubeStrategy struct {
	Downloader Downloader
	Video      *VideoStrategy
}

func (s *YouTubeStrategy) Extract(ctx context.Context, ref models.MediaReference) (*models.TranscriptResult, error) {
	path, cleanup, err := s.Downloader.DownloadProgressive(ctx, ref.VideoID)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result, err := s.Video.Extract(ctx, models.NewFileReference(path, "video/mp4", 0))
	if err != nil {
		return nil, err
	}
	result.Filename = ref.VideoID
	return result, nil
}
