package validation

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"mediascribe/errors"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ValidateVideoID checks the canonical 11-character YouTube identifier.
func ValidateVideoID(id string) error {
	const op = "Validation.ValidateVideoID"

	id = strings.TrimSpace(id)
	if id == "" {
		return errors.Validation(op, nil, "video ID is required")
	}
	if !videoIDPattern.MatchString(id) {
		return errors.Validation(op, nil, fmt.Sprintf("invalid video ID: %s", id))
	}
	return nil
}

// ExtractVideoID pulls the video identifier out of a watch URL, a short
// youtu.be URL, or a bare ID.
func ExtractVideoID(raw string) (string, error) {
	const op = "Validation.ExtractVideoID"

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.Validation(op, nil, "URL is required")
	}

	if videoIDPattern.MatchString(raw) {
		return raw, nil
	}

	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return "", errors.Validation(op, err, "invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.Validation(op, nil, "URL must start with http or https")
	}

	host := strings.TrimPrefix(parsed.Host, "www.")
	switch {
	case host == "youtube.com" || host == "m.youtube.com":
		id := parsed.Query().Get("v")
		if id == "" {
			return "", errors.Validation(op, nil, "YouTube URL must contain a video ID")
		}
		if err := ValidateVideoID(id); err != nil {
			return "", err
		}
		return id, nil
	case host == "youtu.be":
		id := strings.Trim(parsed.Path, "/")
		if err := ValidateVideoID(id); err != nil {
			return "", err
		}
		return id, nil
	}

	return "", errors.Validation(op, nil, "not a YouTube URL")
}

// ValidateStagedPath rejects paths that escape the staging directory.
func ValidateStagedPath(stagingDir, path string) error {
	const op = "Validation.ValidateStagedPath"

	if path == "" {
		return errors.Validation(op, nil, "file path is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Validation(op, err, "invalid file path")
	}
	base, err := filepath.Abs(stagingDir)
	if err != nil {
		return errors.Validation(op, err, "invalid staging directory")
	}
	if abs != base && !strings.HasPrefix(abs, base+string(filepath.Separator)) {
		return errors.Validation(op, nil, "file is outside the staging area")
	}
	return nil
}
