// Package timedtext parses YouTube caption documents into timed segments.
package timedtext

import (
	"encoding/xml"
	"html"
	"strings"

	"mediascribe/errors"
	"mediascribe/models"
)

type document struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []node   `xml:"text"`
}

type node struct {
	Start    float64 `xml:"start,attr"`
	Duration float64 `xml:"dur,attr"`
	Body     string  `xml:",chardata"`
}

// Parse converts a timedtext XML document into ordered caption segments.
// Entity references in the body are decoded, segments whose text trims to
// nothing are dropped, and source ordering is preserved as-is (overlapping
// segments are legitimate upstream data). Parsing is idempotent.
func Parse(data []byte) ([]models.CaptionSegment, error) {
	const op = "Timedtext.Parse"

	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Parsing(op, err, "malformed caption document")
	}

	segments := make([]models.CaptionSegment, 0, len(doc.Texts))
	for _, n := range doc.Texts {
		text := strings.TrimSpace(html.UnescapeString(n.Body))
		if text == "" {
			continue
		}
		text = strings.ReplaceAll(text, "\n", " ")
		segments = append(segments, models.CaptionSegment{
			Start:    n.Start,
			Duration: n.Duration,
			Text:     text,
		})
	}
	return segments, nil
}

// Join flattens segments into one string with single-space separators.
// Timing information is discarded; callers who need it keep the segments.
func Join(segments []models.CaptionSegment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}
