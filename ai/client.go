// Package ai wraps the OpenAI speech-to-text and summarization calls under
// the service retry policy.
package ai

import (
	"context"
	stderrors "errors"
	"math"
	"strings"

	"mediascribe/config"
	"mediascribe/errors"
	"mediascribe/models"
	"mediascribe/retry"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const (
	summarySystemPrompt = "You are a helpful assistant that summarizes text accurately and concisely."
	summaryUserPrompt   = "Please summarize the following text concisely, capturing the key points and important details:\n\n"
)

// api is the slice of the OpenAI client we call, narrowed for tests.
type api interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Client struct {
	api                api
	transcriptionModel string
	summaryModel       string
	policy             retry.Policy
}

func NewClient(cfg config.OpenAIConfig, retryCfg config.RetryConfig) *Client {
	policy := retry.Policy{
		MaxAttempts: retryCfg.MaxAttempts,
		BaseDelay:   retryCfg.BaseDelay,
		MaxDelay:    retryCfg.MaxDelay,
		Retryable:   IsRetryable,
	}
	return &Client{
		api:                openai.NewClient(cfg.APIKey),
		transcriptionModel: cfg.TranscriptionModel,
		summaryModel:       cfg.SummaryModel,
		policy:             policy,
	}
}

// IsRetryable classifies an OpenAI failure. Rate limits and server-side
// errors are transient; authentication, malformed-request, and
// content-policy rejections are fatal. Transport-level failures with no
// API status are treated as transient.
func IsRetryable(err error) bool {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 429:
			return true
		case apiErr.HTTPStatusCode >= 500:
			return true
		default:
			return false
		}
	}
	return true
}

// Transcribe runs speech-to-text over the staged audio file.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	const op = "OpenAI.Transcribe"

	logrus.WithField("model", c.transcriptionModel).Info("Starting transcription")

	resp, err := retry.Do(ctx, c.policy, op, func(ctx context.Context) (openai.AudioResponse, error) {
		return c.api.CreateTranscription(ctx, openai.AudioRequest{
			Model:    c.transcriptionModel,
			FilePath: audioPath,
		})
	})
	if err != nil {
		return "", wrapFatal(op, err, "transcription service failed")
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", errors.Extraction(op, nil, "transcription produced no text")
	}
	return text, nil
}

// Summarize produces a summary of text within maxLength tokens. Token usage
// reflects only the call that succeeded, regardless of how many attempts
// preceded it.
func (c *Client) Summarize(ctx context.Context, text string, maxLength int, temperature float32) (*models.SummaryResult, error) {
	const op = "OpenAI.Summarize"

	if temperature < 0 || temperature > 2 {
		return nil, errors.Validation(op, nil, "temperature must be between 0 and 2")
	}
	if maxLength <= 0 {
		return nil, errors.Validation(op, nil, "max length must be greater than 0")
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.Validation(op, nil, "text to summarize is required")
	}

	logrus.WithFields(logrus.Fields{
		"model":       c.summaryModel,
		"text_length": len(text),
		"max_length":  maxLength,
	}).Info("Starting summarization")

	// The request struct marks Temperature omitempty, so a literal zero
	// would be dropped and the API would apply its own default. The
	// library's documented workaround is a near-zero sentinel.
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := retry.Do(ctx, c.policy, op, func(ctx context.Context) (openai.ChatCompletionResponse, error) {
		return c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.summaryModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: summaryUserPrompt + text},
			},
			MaxTokens:   maxLength,
			Temperature: temperature,
		})
	})
	if err != nil {
		return nil, wrapFatal(op, err, "summarization service failed")
	}

	if len(resp.Choices) == 0 {
		return nil, errors.Upstream(op, nil, "summarization returned no choices")
	}

	return &models.SummaryResult{
		Summary:          strings.TrimSpace(resp.Choices[0].Message.Content),
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

// wrapFatal normalizes errors leaving this package: context errors pass
// through, retry exhaustion is already an upstream AppError, and fatal API
// rejections get wrapped so the boundary sees a uniform shape.
func wrapFatal(op string, err error, message string) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}
	return errors.Upstream(op, err, message)
}
