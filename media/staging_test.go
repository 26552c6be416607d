package media

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediascribe/errors"
)

func TestStagingPathsDoNotCollide(t *testing.T) {
	staging, err := NewStaging(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		path := staging.Path("upload.mp4")
		if seen[path] {
			t.Fatalf("duplicate staged path: %s", path)
		}
		seen[path] = true
	}
}

func TestStagingSaveAndRemove(t *testing.T) {
	staging, err := NewStaging(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path, size, err := staging.Save("talk.mp3", strings.NewReader("audio bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size != int64(len("audio bytes")) {
		t.Errorf("expected size %d, got %d", len("audio bytes"), size)
	}
	if !strings.HasSuffix(path, "_talk.mp3") {
		t.Errorf("expected original basename preserved, got %s", path)
	}

	staging.Remove(path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected staged file to be removed")
	}

	// Removing twice must be harmless.
	staging.Remove(path)
}

func TestAudioExtractorCleanupOnFailure(t *testing.T) {
	staging, err := NewStaging(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	extractor := NewAudioExtractor(staging, "ffmpeg")
	var wavPath string
	extractor.runCommand = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		// The output path is the final argument; create it to prove
		// the failure path removes partial artifacts.
		wavPath = args[len(args)-1]
		if err := os.WriteFile(wavPath, []byte("partial"), 0o644); err != nil {
			t.Fatal(err)
		}
		return []byte("Invalid data found when processing input"), stderrors.New("exit status 1")
	}

	_, _, err = extractor.Extract(context.Background(), "/staging/broken.mp4")
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !errors.IsKind(err, errors.KindParsing) {
		t.Errorf("expected parsing error, got %v", err)
	}
	if _, statErr := os.Stat(wavPath); !os.IsNotExist(statErr) {
		t.Error("expected partial artifact to be cleaned up")
	}
}

func TestAudioExtractorSuccess(t *testing.T) {
	staging, err := NewStaging(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	extractor := NewAudioExtractor(staging, "ffmpeg")
	extractor.runCommand = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		out := args[len(args)-1]
		return nil, os.WriteFile(out, []byte("RIFF"), 0o644)
	}

	wavPath, cleanup, err := extractor.Extract(context.Background(), "/staging/clip.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Ext(wavPath) != ".wav" {
		t.Errorf("expected wav artifact, got %s", wavPath)
	}
	if _, err := os.Stat(wavPath); err != nil {
		t.Fatalf("expected artifact on disk: %v", err)
	}

	cleanup()
	if _, err := os.Stat(wavPath); !os.IsNotExist(err) {
		t.Error("expected cleanup to remove the artifact")
	}
}
