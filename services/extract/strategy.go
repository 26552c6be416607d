// Package extract implements one extraction strategy per media kind.
package extract

import (
	"context"

	"mediascribe/models"
)

// Strategy turns a media reference into a transcript. Implementations
// never return partial results; any failure surfaces as a typed error.
type Strategy interface {
	Extract(ctx context.Context, ref models.MediaReference) (*models.TranscriptResult, error)
}

// Transcriber is the speech-to-text dependency shared by the audio-bearing
// strategies.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// AudioExporter decodes a video container into a staged WAV artifact and
// returns its path plus a cleanup function.
type AudioExporter interface {
	Extract(ctx context.Context, videoPath string) (string, func(), error)
}

// Downloader stages a progressive stream for a video identifier.
type Downloader interface {
	DownloadProgressive(ctx context.Context, videoID string) (string, func(), error)
}

// NewRegistry wires the standard strategy per media kind. Kinds absent from
// the map (unsupported) are the orchestrator's problem.
func NewRegistry(transcriber Transcriber, extractor AudioExporter, downloader Downloader) map[models.MediaKind]Strategy {
	videoStrategy := &VideoStrategy{Extractor: extractor, Transcriber: transcriber}
	return map[models.MediaKind]Strategy{
		models.KindDocument:        &DocumentStrategy{},
		models.KindAudio:           &AudioStrategy{Transcriber: transcriber},
		models.KindVideo:           videoStrategy,
		models.KindYouTubeDownload: &YouTubeStrategy{Downloader: downloader, Video: videoStrategy},
	}
}
