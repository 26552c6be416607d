package media

import (
	"testing"

	"mediascribe/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected models.MediaKind
	}{
		{"pdf mime", "application/pdf", models.KindDocument},
		{"audio mime", "audio/mpeg", models.KindAudio},
		{"video mime", "video/mp4", models.KindVideo},
		{"mime with parameters", "audio/ogg; codecs=opus", models.KindAudio},
		{"pdf extension", ".pdf", models.KindDocument},
		{"mp3 filename", "recording.mp3", models.KindAudio},
		{"mkv filename", "movie.mkv", models.KindVideo},
		{"uppercase filename", "MOVIE.MP4", models.KindVideo},
		{"unknown mime", "application/zip", models.KindUnsupported},
		{"unknown extension", "notes.txt", models.KindUnsupported},
		{"no extension", "README", models.KindUnsupported},
		{"empty", "", models.KindUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.input); got != tt.expected {
				t.Errorf("Classify(%q) = %s, expected %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := Classify("audio/wav"); got != models.KindAudio {
			t.Fatalf("classification changed between calls: %s", got)
		}
	}
}

func TestClassifyReference(t *testing.T) {
	tests := []struct {
		name     string
		ref      models.MediaReference
		expected models.MediaKind
	}{
		{
			name:     "video ID takes the download path",
			ref:      models.NewVideoReference("dQw4w9WgXcQ"),
			expected: models.KindYouTubeDownload,
		},
		{
			name:     "content type wins",
			ref:      models.NewFileReference("/staging/blob", "video/mp4", 10),
			expected: models.KindVideo,
		},
		{
			name:     "falls back to extension when type is unknown",
			ref:      models.NewFileReference("/staging/talk.mp3", "application/octet-stream", 10),
			expected: models.KindAudio,
		},
		{
			name:     "unsupported both ways",
			ref:      models.NewFileReference("/staging/notes.txt", "text/plain", 10),
			expected: models.KindUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyReference(tt.ref); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}
