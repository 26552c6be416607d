package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"mediascribe/cache"
	"mediascribe/models"

	yt "github.com/kkdai/youtube/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	defaultDataAPIEndpoint = "https://www.googleapis.com/youtube/v3/videos"
	defaultOEmbedEndpoint  = "https://www.youtube.com/oembed"
	thumbnailURLPattern    = "https://i.ytimg.com/vi/%s/hqdefault.jpg"
)

// errSkip marks a source that cannot run in this configuration, as opposed
// to one that ran and failed.
var errSkip = errors.New("source skipped")

type metadataSource struct {
	name  string
	fetch func(ctx context.Context, videoID string) (models.VideoMetadata, error)
}

// PlayerSource serves metadata out of the innertube player response. It is
// the only source carrying the channel logo.
type PlayerSource interface {
	VideoMetadata(ctx context.Context, videoID string) (models.VideoMetadata, error)
}

// Resolver resolves display metadata through an ordered fallback chain.
// Metadata is best-effort: the chain degrades to an empty result, it never
// fails a request.
type Resolver struct {
	dataAPIKey      string
	dataAPIEndpoint string
	oembedEndpoint  string
	httpClient      *http.Client
	library         *yt.Client
	player          PlayerSource

	sources []metadataSource
	cache   *cache.Cache[models.VideoMetadata]
	ttl     time.Duration
}

type ResolverOption func(*Resolver)

// WithEndpoints overrides the remote endpoints, used by tests.
func WithEndpoints(dataAPI, oembed string) ResolverOption {
	return func(r *Resolver) {
		r.dataAPIEndpoint = dataAPI
		r.oembedEndpoint = oembed
	}
}

// WithPlayerSource puts player-response metadata at the head of the chain.
func WithPlayerSource(player PlayerSource) ResolverOption {
	return func(r *Resolver) { r.player = player }
}

func NewResolver(dataAPIKey string, cacheTTL time.Duration, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		dataAPIKey:      dataAPIKey,
		dataAPIEndpoint: defaultDataAPIEndpoint,
		oembedEndpoint:  defaultOEmbedEndpoint,
		httpClient:      &http.Client{Timeout: 15 * time.Second},
		library:         &yt.Client{},
		cache:           cache.New[models.VideoMetadata](),
		ttl:             cacheTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.sources = []metadataSource{
		{name: "player", fetch: r.fromPlayer},
		{name: "data_api", fetch: r.fromDataAPI},
		{name: "library", fetch: r.fromLibrary},
		{name: "oembed", fetch: r.fromOEmbed},
		{name: "thumbnail", fetch: r.fromThumbnailPattern},
	}
	return r
}

// Resolve walks the fallback chain in order and returns the first success.
// Every source failing yields a zero VideoMetadata, never an error.
func (r *Resolver) Resolve(ctx context.Context, videoID string) models.VideoMetadata {
	if meta, ok := r.cache.Get(videoID); ok {
		return meta
	}

	logger := logrus.WithField("video_id", videoID)
	for _, source := range r.sources {
		meta, err := source.fetch(ctx, videoID)
		if err != nil {
			if !errors.Is(err, errSkip) {
				logger.WithError(err).WithField("source", source.name).Warn("Metadata source failed, trying next")
			}
			continue
		}
		logger.WithField("source", source.name).Info("Resolved video metadata")
		r.cache.Set(videoID, meta, r.ttl)
		return meta
	}

	logger.Warn("All metadata sources failed")
	return models.VideoMetadata{}
}

func (r *Resolver) fromPlayer(ctx context.Context, videoID string) (models.VideoMetadata, error) {
	if r.player == nil {
		return models.VideoMetadata{}, errSkip
	}
	return r.player.VideoMetadata(ctx, videoID)
}

func (r *Resolver) fromDataAPI(ctx context.Context, videoID string) (models.VideoMetadata, error) {
	if r.dataAPIKey == "" {
		return models.VideoMetadata{}, errSkip
	}

	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("id", videoID)
	query.Set("key", r.dataAPIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.dataAPIEndpoint+"?"+query.Encode(), nil)
	if err != nil {
		return models.VideoMetadata{}, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return models.VideoMetadata{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.VideoMetadata{}, fmt.Errorf("data API status %d", resp.StatusCode)
	}

	var decoded struct {
		Items []struct {
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
				Thumbnails   map[string]struct {
					URL string `json:"url"`
				} `json:"thumbnails"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return models.VideoMetadata{}, err
	}
	if len(decoded.Items) == 0 {
		return models.VideoMetadata{}, errors.New("video not found in data API")
	}

	snippet := decoded.Items[0].Snippet
	meta := models.VideoMetadata{
		Title:       snippet.Title,
		ChannelName: snippet.ChannelTitle,
	}
	for _, quality := range []string{"high", "medium", "default"} {
		if t, ok := snippet.Thumbnails[quality]; ok && t.URL != "" {
			meta.Thumbnail = t.URL
			break
		}
	}
	return meta, nil
}

func (r *Resolver) fromLibrary(ctx context.Context, videoID string) (models.VideoMetadata, error) {
	video, err := r.library.GetVideoContext(ctx, videoID)
	if err != nil {
		return models.VideoMetadata{}, err
	}

	meta := models.VideoMetadata{
		Title:       video.Title,
		ChannelName: video.Author,
	}
	if n := len(video.Thumbnails); n > 0 {
		meta.Thumbnail = video.Thumbnails[n-1].URL
	}
	return meta, nil
}

func (r *Resolver) fromOEmbed(ctx context.Context, videoID string) (models.VideoMetadata, error) {
	query := url.Values{}
	query.Set("url", "https://www.youtube.com/watch?v="+videoID)
	query.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.oembedEndpoint+"?"+query.Encode(), nil)
	if err != nil {
		return models.VideoMetadata{}, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return models.VideoMetadata{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.VideoMetadata{}, fmt.Errorf("oembed status %d", resp.StatusCode)
	}

	var decoded struct {
		Title        string `json:"title"`
		AuthorName   string `json:"author_name"`
		ThumbnailURL string `json:"thumbnail_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return models.VideoMetadata{}, err
	}

	return models.VideoMetadata{
		Title:       decoded.Title,
		ChannelName: decoded.AuthorName,
		Thumbnail:   decoded.ThumbnailURL,
	}, nil
}

// fromThumbnailPattern never fails; the platform serves a predictable
// thumbnail URL for every video. Only the thumbnail field is populated.
func (r *Resolver) fromThumbnailPattern(_ context.Context, videoID string) (models.VideoMetadata, error) {
	return models.VideoMetadata{
		Thumbnail: fmt.Sprintf(thumbnailURLPattern, videoID),
	}, nil
}
