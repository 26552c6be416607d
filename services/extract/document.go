package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"mediascribe/errors"
	"mediascribe/models"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
)

// pageSeparator joins extracted pages. A newline keeps words on page
// boundaries from running together.
const pageSeparator = "\n"

// DocumentStrategy extracts text from a PDF by walking every page in order.
type DocumentStrategy struct{}

func (s *DocumentStrategy) Extract(ctx context.Context, ref models.MediaReference) (*models.TranscriptResult, error) {
	const op = "DocumentStrategy.Extract"

	text, err := extractPDFText(ref.FilePath)
	if err != nil {
		logrus.WithError(err).WithField("file", filepath.Base(ref.FilePath)).Error("Document extraction failed")
		return nil, errors.Parsing(op, err, "could not parse document")
	}

	return &models.TranscriptResult{
		Filename: filepath.Base(ref.FilePath),
		Text:     text,
	}, nil
}

func extractPDFText(path string) (text string, err error) {
	// The pdf package panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("corrupt document structure: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, strings.TrimSpace(content))
	}

	return strings.Join(pages, pageSeparator), nil
}
