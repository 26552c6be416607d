package media

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"mediascribe/errors"

	"github.com/sirupsen/logrus"
)

// AudioExtractor exports the audio channel of a video container to a mono
// 16kHz WAV artifact in the staging area.
type AudioExtractor struct {
	staging    *Staging
	ffmpegPath string
	runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func NewAudioExtractor(staging *Staging, ffmpegPath string) *AudioExtractor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &AudioExtractor{
		staging:    staging,
		ffmpegPath: ffmpegPath,
		runCommand: runCombined,
	}
}

func runCombined(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Extract decodes videoPath and returns the WAV path together with a cleanup
// function. Cleanup must run regardless of downstream success; callers defer
// it immediately. Decode failures are parsing errors, distinct from anything
// the ASR service reports later.
func (e *AudioExtractor) Extract(ctx context.Context, videoPath string) (string, func(), error) {
	const op = "AudioExtractor.Extract"

	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	wavPath := e.staging.Path(base + ".wav")
	cleanup := func() { e.staging.Remove(wavPath) }

	logrus.WithFields(logrus.Fields{
		"video": filepath.Base(videoPath),
		"audio": filepath.Base(wavPath),
	}).Info("Extracting audio track")

	output, err := e.runCommand(ctx, e.ffmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		"-y", wavPath,
	)
	if err != nil {
		cleanup()
		if ctx.Err() != nil {
			return "", nil, ctx.Err()
		}
		logrus.WithError(err).WithField("output", string(output)).Error("Audio decode failed")
		return "", nil, errors.Parsing(op, fmt.Errorf("%v: %s", err, firstLine(output)), "could not decode media file")
	}

	return wavPath, cleanup, nil
}

func firstLine(output []byte) string {
	s := strings.TrimSpace(string(output))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
