package models

import "sort"

// MediaKind classifies an input into one of the supported extraction paths.
type MediaKind string

const (
	KindDocument        MediaKind = "document"
	KindAudio           MediaKind = "audio"
	KindVideo           MediaKind = "video"
	KindYouTubeDownload MediaKind = "youtube-download"
	KindUnsupported     MediaKind = "unsupported"
)

// MediaReference identifies one piece of input media. Exactly one of
// FilePath and VideoID is set; use NewFileReference or NewVideoReference
// rather than constructing the struct directly.
type MediaReference struct {
	FilePath    string
	ContentType string
	Size        int64
	VideoID     string
}

func NewFileReference(path, contentType string, size int64) MediaReference {
	return MediaReference{FilePath: path, ContentType: contentType, Size: size}
}

func NewVideoReference(videoID string) MediaReference {
	return MediaReference{VideoID: videoID}
}

// IsFile reports whether the reference points at a staged file.
func (r MediaReference) IsFile() bool { return r.FilePath != "" }

// CaptionTrack is one language-specific caption stream available for a video.
type CaptionTrack struct {
	LanguageCode  string `json:"language_code"`
	Name          string `json:"name"`
	AutoGenerated bool   `json:"auto_generated"`
	BaseURL       string `json:"-"`
}

// SortTracks orders tracks by language code. The upstream list carries no
// ordering guarantee, so callers always see a stable order.
func SortTracks(tracks []CaptionTrack) {
	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].LanguageCode < tracks[j].LanguageCode
	})
}

// CaptionSegment is one timed caption unit. Text is never empty; segments
// whose text trims to nothing are dropped during parsing.
type CaptionSegment struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
	End      float64 `json:"end"`
}

// WithEnd returns a copy with the end timestamp derived from start and duration.
func (s CaptionSegment) WithEnd() CaptionSegment {
	s.End = s.Start + s.Duration
	return s
}

// VideoMetadata holds best-effort display metadata. Any field may be empty;
// resolution never fails a request over missing metadata.
type VideoMetadata struct {
	Title       string `json:"video_title,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	ChannelName string `json:"channel_name,omitempty"`
	ChannelLogo string `json:"channel_logo,omitempty"`
}

// IsZero reports whether no field was resolved.
func (m VideoMetadata) IsZero() bool {
	return m == VideoMetadata{}
}

// SummaryResult is the output of one summarization call, with token usage
// from the successful attempt only.
type SummaryResult struct {
	Summary          string `json:"summary"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
}

// TranscriptResult is the uniform output of every extraction strategy.
type TranscriptResult struct {
	Filename string         `json:"filename"`
	Text     string         `json:"text"`
	Duration *float64       `json:"duration,omitempty"`
	Summary  *SummaryResult `json:"summary,omitempty"`
}
