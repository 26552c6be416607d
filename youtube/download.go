package youtube

import (
	"context"
	"strings"

	"mediascribe/errors"
	"mediascribe/media"

	yt "github.com/kkdai/youtube/v2"
	"github.com/sirupsen/logrus"
)

// Downloader pulls a progressive stream (audio and video in one file) into
// the staging area for the audio-extraction path.
type Downloader struct {
	client  *yt.Client
	staging *media.Staging
}

func NewDownloader(staging *media.Staging) *Downloader {
	return &Downloader{
		client:  &yt.Client{},
		staging: staging,
	}
}

// DownloadProgressive fetches the best progressive MP4 for videoID and
// returns the staged path plus a cleanup function the caller must defer.
func (d *Downloader) DownloadProgressive(ctx context.Context, videoID string) (string, func(), error) {
	const op = "YouTube.DownloadProgressive"

	video, err := d.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return "", nil, errors.Upstream(op, err, "could not fetch video info")
	}

	format := pickProgressiveFormat(video.Formats)
	if format == nil {
		return "", nil, errors.NotFound(op, nil, "no progressive stream available for this video")
	}

	stream, size, err := d.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", nil, errors.Upstream(op, err, "could not open video stream")
	}
	defer stream.Close()

	logrus.WithFields(logrus.Fields{
		"video_id": videoID,
		"itag":     format.ItagNo,
		"size":     size,
	}).Info("Downloading progressive stream")

	path, _, err := d.staging.Save(videoID+".mp4", stream)
	if err != nil {
		return "", nil, err
	}
	return path, func() { d.staging.Remove(path) }, nil
}

func pickProgressiveFormat(formats yt.FormatList) *yt.Format {
	for i := range formats {
		f := &formats[i]
		if f.AudioChannels > 0 && strings.HasPrefix(f.MimeType, "video/mp4") {
			return f
		}
	}
	return nil
}
