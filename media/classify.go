// Package media classifies inputs and manages staged file artifacts.
package media

import (
	"path/filepath"
	"strings"

	"mediascribe/models"
)

var extensionKinds = map[string]models.MediaKind{
	".pdf":  models.KindDocument,
	".mp3":  models.KindAudio,
	".wav":  models.KindAudio,
	".m4a":  models.KindAudio,
	".flac": models.KindAudio,
	".ogg":  models.KindAudio,
	".mp4":  models.KindVideo,
	".avi":  models.KindVideo,
	".mov":  models.KindVideo,
	".mkv":  models.KindVideo,
	".webm": models.KindVideo,
}

// Classify maps a declared content type or a file extension to a MediaKind.
// Unknown inputs classify as unsupported; rejecting them is the
// orchestrator's call, not this function's.
func Classify(contentTypeOrExt string) models.MediaKind {
	v := strings.ToLower(strings.TrimSpace(contentTypeOrExt))
	if v == "" {
		return models.KindUnsupported
	}

	// MIME types first.
	if i := strings.Index(v, ";"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	switch {
	case v == "application/pdf":
		return models.KindDocument
	case strings.HasPrefix(v, "audio/"):
		return models.KindAudio
	case strings.HasPrefix(v, "video/"):
		return models.KindVideo
	}

	if !strings.HasPrefix(v, ".") {
		v = filepath.Ext(v)
	}
	if kind, ok := extensionKinds[v]; ok {
		return kind
	}
	return models.KindUnsupported
}

// ClassifyReference resolves the kind for a full media reference. Video IDs
// always take the caption-download path.
func ClassifyReference(ref models.MediaReference) models.MediaKind {
	if ref.VideoID != "" {
		return models.KindYouTubeDownload
	}
	if ref.ContentType != "" {
		if kind := Classify(ref.ContentType); kind != models.KindUnsupported {
			return kind
		}
	}
	return Classify(ref.FilePath)
}
