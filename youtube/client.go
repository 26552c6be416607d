// Package youtube talks to the video platform: caption track discovery,
// caption document fetch, metadata lookup, and progressive downloads.
package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mediascribe/cache"
	"mediascribe/errors"
	"mediascribe/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultPlayerEndpoint = "https://www.youtube.com/youtubei/v1/player"
	defaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Client wraps the player endpoint calls we rely on for caption work.
type Client struct {
	httpClient     *http.Client
	limiter        *rate.Limiter
	playerEndpoint string
	trackCache     *cache.Cache[[]models.CaptionTrack]
	metaCache      *cache.Cache[models.VideoMetadata]
	cacheTTL       time.Duration
}

type Option func(*Client)

// WithPlayerEndpoint overrides the player URL, used by tests.
func WithPlayerEndpoint(url string) Option {
	return func(c *Client) { c.playerEndpoint = url }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a client with outbound pacing and a short-lived track
// cache. interval/burst bound the request rate against the platform.
func NewClient(interval time.Duration, burst int, cacheTTL time.Duration, opts ...Option) *Client {
	if burst < 1 {
		burst = 1
	}
	c := &Client{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		limiter:        rate.NewLimiter(rate.Every(interval), burst),
		playerEndpoint: defaultPlayerEndpoint,
		trackCache:     cache.New[[]models.CaptionTrack](),
		metaCache:      cache.New[models.VideoMetadata](),
		cacheTTL:       cacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type playerResponse struct {
	VideoDetails videoDetails `json:"videoDetails"`
	Captions     struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrackJSON `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type thumbnailList struct {
	Thumbnails []struct {
		URL string `json:"url"`
	} `json:"thumbnails"`
}

// last returns the final thumbnail URL; the list is ordered smallest first.
func (l thumbnailList) last() string {
	if n := len(l.Thumbnails); n > 0 {
		return l.Thumbnails[n-1].URL
	}
	return ""
}

type videoDetails struct {
	Title                              string        `json:"title"`
	Author                             string        `json:"author"`
	Thumbnail                          thumbnailList `json:"thumbnail"`
	ChannelThumbnailSupportedRenderers struct {
		ChannelThumbnailWithLinkRenderer struct {
			Thumbnail thumbnailList `json:"thumbnail"`
		} `json:"channelThumbnailWithLinkRenderer"`
	} `json:"channelThumbnailSupportedRenderers"`
}

func (d videoDetails) metadata() models.VideoMetadata {
	return models.VideoMetadata{
		Title:       d.Title,
		ChannelName: d.Author,
		Thumbnail:   d.Thumbnail.last(),
		ChannelLogo: d.ChannelThumbnailSupportedRenderers.ChannelThumbnailWithLinkRenderer.Thumbnail.last(),
	}
}

type captionTrackJSON struct {
	BaseURL      string    `json:"baseUrl"`
	LanguageCode string    `json:"languageCode"`
	Kind         string    `json:"kind"`
	Name         trackName `json:"name"`
}

type trackName struct {
	SimpleText string `json:"simpleText"`
	Runs       []struct {
		Text string `json:"text"`
	} `json:"runs"`
}

func (n trackName) String() string {
	if n.SimpleText != "" {
		return n.SimpleText
	}
	for _, run := range n.Runs {
		if run.Text != "" {
			return run.Text
		}
	}
	return ""
}

// CaptionTracks lists the caption streams available for a video, unique by
// language code and sorted by code. Results are cached briefly.
func (c *Client) CaptionTracks(ctx context.Context, videoID string) ([]models.CaptionTrack, error) {
	if tracks, ok := c.trackCache.Get(videoID); ok {
		return tracks, nil
	}

	decoded, err := c.player(ctx, videoID)
	if err != nil {
		return nil, err
	}

	raw := decoded.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	seen := make(map[string]bool, len(raw))
	tracks := make([]models.CaptionTrack, 0, len(raw))
	for _, t := range raw {
		if t.LanguageCode == "" || seen[t.LanguageCode] {
			continue
		}
		seen[t.LanguageCode] = true
		tracks = append(tracks, models.CaptionTrack{
			LanguageCode:  t.LanguageCode,
			Name:          t.Name.String(),
			AutoGenerated: t.Kind == "asr",
			BaseURL:       t.BaseURL,
		})
	}
	models.SortTracks(tracks)

	logrus.WithFields(logrus.Fields{
		"video_id": videoID,
		"tracks":   len(tracks),
	}).Info("Resolved caption tracks")

	c.trackCache.Set(videoID, tracks, c.cacheTTL)
	return tracks, nil
}

// VideoMetadata returns the display metadata carried in the player
// response, including the channel logo no other source provides.
func (c *Client) VideoMetadata(ctx context.Context, videoID string) (models.VideoMetadata, error) {
	const op = "YouTube.VideoMetadata"

	if meta, ok := c.metaCache.Get(videoID); ok {
		return meta, nil
	}

	decoded, err := c.player(ctx, videoID)
	if err != nil {
		return models.VideoMetadata{}, err
	}

	meta := decoded.VideoDetails.metadata()
	if meta.IsZero() {
		return models.VideoMetadata{}, errors.NotFound(op, nil, "no video details in player response")
	}
	return meta, nil
}

// player performs the innertube call and primes both caches, since one
// response carries the track list and the video details.
func (c *Client) player(ctx context.Context, videoID string) (*playerResponse, error) {
	const op = "YouTube.player"

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body := map[string]any{
		"videoId": videoID,
		"context": map[string]any{
			"client": map[string]any{
				"hl":            "en",
				"gl":            "US",
				"clientName":    "ANDROID",
				"clientVersion": "19.09.37",
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Upstream(op, err, "failed to build player request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.playerEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Upstream(op, err, "failed to build player request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Upstream(op, err, "player request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Upstream(op, fmt.Errorf("status %d", resp.StatusCode), "player request failed")
	}

	var decoded playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Parsing(op, err, "malformed player response")
	}

	if meta := decoded.VideoDetails.metadata(); !meta.IsZero() {
		c.metaCache.Set(videoID, meta, c.cacheTTL)
	}
	return &decoded, nil
}

// FetchCaptionDocument retrieves the raw timedtext body for a track.
// Transport and status failures are upstream errors, eligible for retry at
// the caller's boundary.
func (c *Client) FetchCaptionDocument(ctx context.Context, trackURL string) ([]byte, error) {
	const op = "YouTube.FetchCaptionDocument"

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return nil, errors.Validation(op, err, "invalid caption track URL")
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Upstream(op, err, "caption fetch failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Upstream(op, fmt.Errorf("status %d", resp.StatusCode), "caption fetch failed")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Upstream(op, err, "caption fetch failed")
	}
	return data, nil
}
