// Package handlers exposes the transcription pipeline over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"mediascribe/config"
	"mediascribe/errors"
	"mediascribe/media"
	"mediascribe/middleware"
	"mediascribe/models"
	"mediascribe/services/captions"
	"mediascribe/services/transcriber"
	"mediascribe/validation"
)

// Summarizer condenses arbitrary text for the standalone endpoint.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLength int, temperature float32) (*models.SummaryResult, error)
}

type Handler struct {
	captions    captions.Service
	transcriber transcriber.Service
	summarizer  Summarizer
	staging     *media.Staging
	summaryCfg  config.SummaryConfig
}

func New(
	captionService captions.Service,
	transcriberService transcriber.Service,
	summarizer Summarizer,
	staging *media.Staging,
	summaryCfg config.SummaryConfig,
) *Handler {
	return &Handler{
		captions:    captionService,
		transcriber: transcriberService,
		summarizer:  summarizer,
		staging:     staging,
		summaryCfg:  summaryCfg,
	}
}

// Register attaches all routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.Root)
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/api/captions", h.Captions)
	mux.HandleFunc("/api/transcribe/upload", h.TranscribeUpload)
	mux.HandleFunc("/api/transcribe/file", h.TranscribeFile)
	mux.HandleFunc("/api/transcribe/youtube", h.TranscribeYouTube)
	mux.HandleFunc("/api/summarize", h.Summarize)
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, errors.NotFound("Handler.Root", nil, "not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "mediascribe: media transcription service",
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Captions(w http.ResponseWriter, r *http.Request) {
	const op = "Handler.Captions"

	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	q := r.URL.Query()
	req := captions.Request{
		VideoID:    q.Get("video_id"),
		Language:   q.Get("language"),
		Timestamps: q.Get("timestamps") == "true",
	}
	if raw := q.Get("url"); raw != "" && req.VideoID == "" {
		videoID, err := validation.ExtractVideoID(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		req.VideoID = videoID
	}

	req.Summarize = q.Get("summarize") == "true"
	if req.Summarize {
		var err error
		req.MaxLength, req.Temperature, err = h.summaryParams(op, q.Get("max_length"), q.Get("temperature"))
		if err != nil {
			writeError(w, err)
			return
		}
	}

	result, err := h.captions.Fetch(r.Context(), req)
	if err != nil {
		logError(r, err, "Caption fetch failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) TranscribeUpload(w http.ResponseWriter, r *http.Request) {
	const op = "Handler.TranscribeUpload"

	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errors.Validation(op, err, "a file upload is required"))
		return
	}
	defer file.Close()

	path, size, err := h.staging.Save(header.Filename, file)
	if err != nil {
		logError(r, err, "Failed to stage upload")
		writeError(w, err)
		return
	}
	defer h.staging.Remove(path)

	ref := models.NewFileReference(path, header.Header.Get("Content-Type"), size)
	h.runTranscription(w, r, ref)
}

type fileRequest struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
}

func (h *Handler) TranscribeFile(w http.ResponseWriter, r *http.Request) {
	const op = "Handler.TranscribeFile"

	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req fileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Validation(op, err, "invalid request body"))
		return
	}
	if err := validation.ValidateStagedPath(h.staging.Dir(), req.Path); err != nil {
		writeError(w, err)
		return
	}

	ref := models.NewFileReference(req.Path, req.ContentType, 0)
	h.runTranscription(w, r, ref)
}

type youtubeRequest struct {
	URL     string `json:"url"`
	VideoID string `json:"video_id"`
}

func (h *Handler) TranscribeYouTube(w http.ResponseWriter, r *http.Request) {
	const op = "Handler.TranscribeYouTube"

	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req youtubeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Validation(op, err, "invalid request body"))
		return
	}

	videoID := req.VideoID
	if videoID == "" {
		var err error
		videoID, err = validation.ExtractVideoID(req.URL)
		if err != nil {
			writeError(w, err)
			return
		}
	}
	if err := validation.ValidateVideoID(videoID); err != nil {
		writeError(w, err)
		return
	}

	h.runTranscription(w, r, models.NewVideoReference(videoID))
}

func (h *Handler) runTranscription(w http.ResponseWriter, r *http.Request, ref models.MediaReference) {
	q := r.URL.Query()

	req := transcriber.Request{Ref: ref}
	req.Summarize = q.Get("summarize") == "true"
	if req.Summarize {
		var err error
		req.MaxLength, req.Temperature, err = h.summaryParams("Handler.runTranscription",
			q.Get("max_length"), q.Get("temperature"))
		if err != nil {
			writeError(w, err)
			return
		}
	}

	result, err := h.transcriber.Transcribe(r.Context(), req)
	if err != nil {
		logError(r, err, "Transcription failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type summarizeRequest struct {
	Text        string   `json:"text"`
	MaxLength   *int     `json:"max_length"`
	Temperature *float32 `json:"temperature"`
}

func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	const op = "Handler.Summarize"

	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Validation(op, err, "invalid request body"))
		return
	}

	maxLength := h.summaryCfg.MaxLength
	if req.MaxLength != nil {
		maxLength = *req.MaxLength
	}
	temperature := h.summaryCfg.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	result, err := h.summarizer.Summarize(r.Context(), req.Text, maxLength, temperature)
	if err != nil {
		logError(r, err, "Summarization failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// summaryParams resolves optional query overrides against configured
// defaults, rejecting malformed values up front.
func (h *Handler) summaryParams(op, rawMaxLength, rawTemperature string) (int, float32, error) {
	maxLength := h.summaryCfg.MaxLength
	if rawMaxLength != "" {
		v, err := strconv.Atoi(rawMaxLength)
		if err != nil {
			return 0, 0, errors.Validation(op, err, "max_length must be an integer")
		}
		maxLength = v
	}

	temperature := h.summaryCfg.Temperature
	if rawTemperature != "" {
		v, err := strconv.ParseFloat(rawTemperature, 32)
		if err != nil {
			return 0, 0, errors.Validation(op, err, "temperature must be a number")
		}
		temperature = float32(v)
	}

	return maxLength, temperature, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("Failed to encode JSON response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.CodeOf(err), map[string]string{
		"error": errors.MessageOf(err),
	})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}

func logError(r *http.Request, err error, message string) {
	middleware.GetLogger(r.Context()).WithError(err).Error(message)
}
