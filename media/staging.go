package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mediascribe/errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Staging is the scratch area for uploaded files and intermediate artifacts.
// Names carry a random component so unrelated requests never collide.
type Staging struct {
	dir string
}

func NewStaging(dir string) (*Staging, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	return &Staging{dir: dir}, nil
}

func (s *Staging) Dir() string { return s.dir }

// Path returns a fresh collision-resistant path carrying the original
// basename for traceability.
func (s *Staging) Path(originalName string) string {
	base := filepath.Base(originalName)
	base = strings.ReplaceAll(base, string(filepath.Separator), "_")
	return filepath.Join(s.dir, uuid.New().String()+"_"+base)
}

// Save writes r to a new staged file and returns its path.
func (s *Staging) Save(originalName string, r io.Reader) (string, int64, error) {
	const op = "Staging.Save"

	path := s.Path(originalName)
	f, err := os.Create(path)
	if err != nil {
		return "", 0, errors.Extraction(op, err, "failed to stage file")
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.Remove(path)
		return "", 0, errors.Extraction(op, err, "failed to stage file")
	}
	return path, size, nil
}

// Remove deletes a staged artifact, logging rather than failing when the
// file is already gone.
func (s *Staging) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).WithField("path", path).Warn("Failed to remove staged artifact")
	}
}
