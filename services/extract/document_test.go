package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mediascribe/errors"
	"mediascribe/models"
)

func TestDocumentStrategyCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	strategy := &DocumentStrategy{}
	_, err := strategy.Extract(context.Background(), models.NewFileReference(path, "application/pdf", 16))
	if err == nil {
		t.Fatal("expected error for corrupt document")
	}
	if !errors.IsKind(err, errors.KindParsing) {
		t.Errorf("expected parsing error, got %v", err)
	}
}

func TestDocumentStrategyMissingFile(t *testing.T) {
	strategy := &DocumentStrategy{}
	_, err := strategy.Extract(context.Background(), models.NewFileReference("/nope/missing.pdf", "application/pdf", 0))
	if !errors.IsKind(err, errors.KindParsing) {
		t.Errorf("expected parsing error, got %v", err)
	}
}
