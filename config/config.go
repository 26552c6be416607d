package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration

	LogDir     string
	StagingDir string

	OpenAI  OpenAIConfig
	YouTube YouTubeConfig
	Retry   RetryConfig
	Summary SummaryConfig

	FFmpegPath string
}

type OpenAIConfig struct {
	APIKey             string
	TranscriptionModel string
	SummaryModel       string
}

type YouTubeConfig struct {
	// DataAPIKey enables the structured metadata source. Empty means the
	// resolver skips straight to the library lookup.
	DataAPIKey    string
	CacheTTL      time.Duration
	FetchInterval time.Duration
	FetchBurst    int
}

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

type SummaryConfig struct {
	MaxLength   int
	Temperature float32
	// BestEffort degrades a failed summarization to a transcript-only
	// response instead of failing the request.
	BestEffort bool
}

func Load() *Config {
	return &Config{
		ServerPort:     GetEnv("SERVER_PORT", "8080"),
		ReadTimeout:    getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:    getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Minute),

		LogDir:     GetEnv("LOG_DIR", "./logs"),
		StagingDir: GetEnv("STAGING_DIR", "./uploads"),

		OpenAI: OpenAIConfig{
			APIKey:             GetEnv("OPENAI_API_KEY", ""),
			TranscriptionModel: GetEnv("TRANSCRIPTION_MODEL", "whisper-1"),
			SummaryModel:       GetEnv("SUMMARY_MODEL", "gpt-4o"),
		},

		YouTube: YouTubeConfig{
			DataAPIKey:    GetEnv("YOUTUBE_API_KEY", ""),
			CacheTTL:      getEnvAsDuration("YOUTUBE_CACHE_TTL", 5*time.Minute),
			FetchInterval: getEnvAsDuration("YOUTUBE_FETCH_INTERVAL", 200*time.Millisecond),
			FetchBurst:    getEnvAsInt("YOUTUBE_FETCH_BURST", 5),
		},

		Retry: RetryConfig{
			MaxAttempts: getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			BaseDelay:   getEnvAsDuration("RETRY_BASE_DELAY", 2*time.Second),
			MaxDelay:    getEnvAsDuration("RETRY_MAX_DELAY", 30*time.Second),
		},

		Summary: SummaryConfig{
			MaxLength:   getEnvAsInt("SUMMARY_MAX_LENGTH", 1000),
			Temperature: getEnvAsFloat32("SUMMARY_TEMPERATURE", 0.7),
			BestEffort:  getEnvAsBool("SUMMARY_BEST_EFFORT", false),
		},

		FFmpegPath: GetEnv("FFMPEG_PATH", "ffmpeg"),
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatValue)
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid float, using default")
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid boolean, using default")
	}
	return defaultValue
}

func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return errors.New("server port is required")
	}
	if cfg.StagingDir == "" {
		return errors.New("staging directory is required")
	}
	if cfg.RequestTimeout <= 0 {
		return errors.New("request timeout must be greater than 0")
	}
	if cfg.ReadTimeout <= 0 {
		return errors.New("read timeout must be greater than 0")
	}
	if cfg.WriteTimeout <= 0 {
		return errors.New("write timeout must be greater than 0")
	}
	if cfg.IdleTimeout <= 0 {
		return errors.New("idle timeout must be greater than 0")
	}
	if cfg.Retry.MaxAttempts < 1 {
		return errors.New("retry max attempts must be at least 1")
	}
	if cfg.Retry.BaseDelay <= 0 {
		return errors.New("retry base delay must be greater than 0")
	}
	if cfg.Summary.Temperature < 0 || cfg.Summary.Temperature > 2 {
		return errors.New("summary temperature must be between 0 and 2")
	}
	if cfg.Summary.MaxLength <= 0 {
		return errors.New("summary max length must be greater than 0")
	}
	return nil
}
