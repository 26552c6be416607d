package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mediascribe/errors"
)

const playerJSON = `{
  "videoDetails": {
    "title": "A Video",
    "author": "A Channel",
    "thumbnail": {"thumbnails": [
      {"url": "https://example.com/small.jpg"},
      {"url": "https://example.com/large.jpg"}
    ]},
    "channelThumbnailSupportedRenderers": {
      "channelThumbnailWithLinkRenderer": {
        "thumbnail": {"thumbnails": [{"url": "https://example.com/logo.jpg"}]}
      }
    }
  },
  "captions": {
    "playerCaptionsTracklistRenderer": {
      "captionTracks": [
        {"baseUrl": "https://example.com/tt?lang=es", "languageCode": "es", "name": {"simpleText": "Spanish"}},
        {"baseUrl": "https://example.com/tt?lang=en", "languageCode": "en", "name": {"runs": [{"text": "English (auto-generated)"}]}, "kind": "asr"},
        {"baseUrl": "https://example.com/tt?lang=en2", "languageCode": "en", "name": {"simpleText": "English duplicate"}}
      ]
    }
  }
}`

func newTestClient(endpoint string) *Client {
	return NewClient(time.Millisecond, 10, time.Minute, WithPlayerEndpoint(endpoint))
}

func TestCaptionTracksSortedAndUnique(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(playerJSON))
	}))
	defer server.Close()

	tracks, err := newTestClient(server.URL).CaptionTracks(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tracks) != 2 {
		t.Fatalf("expected duplicate language dropped, got %d tracks", len(tracks))
	}
	if tracks[0].LanguageCode != "en" || tracks[1].LanguageCode != "es" {
		t.Errorf("expected tracks sorted by code, got %s, %s", tracks[0].LanguageCode, tracks[1].LanguageCode)
	}
	if !tracks[0].AutoGenerated {
		t.Error("expected asr track flagged auto-generated")
	}
	if tracks[0].Name != "English (auto-generated)" {
		t.Errorf("expected runs name extracted, got %q", tracks[0].Name)
	}
	if tracks[1].AutoGenerated {
		t.Error("expected manual track not flagged")
	}
}

func TestCaptionTracksCached(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(playerJSON))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx := context.Background()
	if _, err := client.CaptionTracks(ctx, "dQw4w9WgXcQ"); err != nil {
		t.Fatal(err)
	}
	if _, err := client.CaptionTracks(ctx, "dQw4w9WgXcQ"); err != nil {
		t.Fatal(err)
	}

	if calls != 1 {
		t.Errorf("expected a single player call, got %d", calls)
	}
}

func TestVideoMetadataFromPlayer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(playerJSON))
	}))
	defer server.Close()

	meta, err := newTestClient(server.URL).VideoMetadata(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Title != "A Video" || meta.ChannelName != "A Channel" {
		t.Errorf("unexpected video details: %+v", meta)
	}
	if meta.Thumbnail != "https://example.com/large.jpg" {
		t.Errorf("expected the largest thumbnail, got %s", meta.Thumbnail)
	}
	if meta.ChannelLogo != "https://example.com/logo.jpg" {
		t.Errorf("expected channel logo from the player response, got %q", meta.ChannelLogo)
	}
}

func TestVideoMetadataSharesPlayerCall(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(playerJSON))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx := context.Background()
	if _, err := client.CaptionTracks(ctx, "dQw4w9WgXcQ"); err != nil {
		t.Fatal(err)
	}
	if _, err := client.VideoMetadata(ctx, "dQw4w9WgXcQ"); err != nil {
		t.Fatal(err)
	}

	if calls != 1 {
		t.Errorf("expected the track lookup to prime video details, got %d calls", calls)
	}
}

func TestVideoMetadataMissingDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"captions": {}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).VideoMetadata(context.Background(), "dQw4w9WgXcQ")
	if !errors.IsKind(err, errors.KindNotFound) {
		t.Errorf("expected not found for an empty player response, got %v", err)
	}
}

func TestCaptionTracksUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CaptionTracks(context.Background(), "dQw4w9WgXcQ")
	if !errors.IsKind(err, errors.KindUpstream) {
		t.Errorf("expected upstream error, got %v", err)
	}
}

func TestCaptionTracksMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CaptionTracks(context.Background(), "dQw4w9WgXcQ")
	if !errors.IsKind(err, errors.KindParsing) {
		t.Errorf("expected parsing error, got %v", err)
	}
}

func TestFetchCaptionDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<transcript><text start="0" dur="1">hi</text></transcript>`))
	}))
	defer server.Close()

	data, err := newTestClient(server.URL).FetchCaptionDocument(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected document body")
	}
}

func TestFetchCaptionDocumentStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchCaptionDocument(context.Background(), server.URL)
	if !errors.IsKind(err, errors.KindUpstream) {
		t.Errorf("expected upstream error, got %v", err)
	}
}
