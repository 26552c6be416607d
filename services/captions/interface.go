// Package captions implements the caption-track strategy for YouTube
// videos: track discovery, language selection, fetch, and parsing.
package captions

import (
	"context"

	"mediascribe/models"
)

// Request describes one caption fetch.
type Request struct {
	VideoID string
	// Language selects a track by code. Empty means discovery: the caller
	// gets the list of available tracks instead of caption text.
	Language   string
	Timestamps bool

	Summarize   bool
	MaxLength   int
	Temperature float32
}

// Result is the union of the discovery and fetch outcomes. Exactly one of
// AvailableLanguages, Captions, and TimestampedCaptions is populated.
type Result struct {
	VideoID             string                  `json:"video_id"`
	Metadata            models.VideoMetadata    `json:"metadata"`
	AvailableLanguages  []models.CaptionTrack   `json:"available_languages,omitempty"`
	LanguageCode        string                  `json:"language_code,omitempty"`
	Captions            string                  `json:"captions,omitempty"`
	TimestampedCaptions []models.CaptionSegment `json:"timestamped_captions,omitempty"`
	Summary             *models.SummaryResult   `json:"summary,omitempty"`
}

type Service interface {
	Fetch(ctx context.Context, req Request) (*Result, error)
}

// TrackLister resolves the caption tracks available for a video.
type TrackLister interface {
	CaptionTracks(ctx context.Context, videoID string) ([]models.CaptionTrack, error)
}

// DocumentFetcher retrieves the raw caption document for a track URL.
type DocumentFetcher interface {
	FetchCaptionDocument(ctx context.Context, trackURL string) ([]byte, error)
}

// MetadataResolver provides best-effort display metadata.
type MetadataResolver interface {
	Resolve(ctx context.Context, videoID string) models.VideoMetadata
}

// Summarizer condenses caption text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLength int, temperature float32) (*models.SummaryResult, error)
}
