package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Vision VisionConfig
	OCR    OCRConfig
	Intake IntakeConfig
	Log    LogConfig
}

// VisionConfig holds vision-model configuration
type VisionConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Enabled reports whether a credential is configured.
func (c VisionConfig) Enabled() bool { return strings.TrimSpace(c.APIKey) != "" }

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	TesseractBin     string
	Lang             string
	TessdataDir      string
	PSM              int
	OEM              int
	TSVConfidence    bool
	Timeout          time.Duration
	HeicConverter    string
	ArtifactCacheDir string
}

// IntakeConfig holds batch/watch configuration
type IntakeConfig struct {
	Workers    int
	JobTimeout time.Duration
	MaxImageMB int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Vision: VisionConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:       getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Temperature: getEnvAsFloat32("GEMINI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("VISION_TIMEOUT", 30*time.Second),
		},
		OCR: OCRConfig{
			TesseractBin:     getEnv("TESSERACT_BIN", "tesseract"),
			Lang:             getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:      getEnv("TESSDATA_PREFIX", ""),
			PSM:              getEnvAsInt("TESSERACT_PSM", 0),
			OEM:              getEnvAsInt("TESSERACT_OEM", 0),
			TSVConfidence:    getEnvAsBool("OCR_TSV_CONFIDENCE", false),
			Timeout:          getEnvAsDuration("OCR_TIMEOUT", 60*time.Second),
			HeicConverter:    getEnv("HEIC_CONVERTER", "magick"),
			ArtifactCacheDir: getEnv("ARTIFACT_CACHE_DIR", "./tmp"),
		},
		Intake: IntakeConfig{
			Workers:    getEnvAsInt("WORKERS", 4),
			JobTimeout: getEnvAsDuration("JOB_TIMEOUT", 2*time.Minute),
			MaxImageMB: getEnvAsInt("MAX_IMAGE_MB", 10),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// SlogLevel maps Log.Level to a slog.Level; unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate validates the loaded configuration for the intake commands.
func (c *Config) Validate() error {
	v := NewValidator().
		Field("TESSERACT_BIN", c.OCR.TesseractBin, Required).
		Field("TESSERACT_LANG", c.OCR.Lang, Required).
		Field("ARTIFACT_CACHE_DIR", c.OCR.ArtifactCacheDir, Required).
		Field("WORKERS", c.Intake.Workers, Positive).
		Field("OCR_TIMEOUT", c.OCR.Timeout, Positive).
		Field("VISION_TIMEOUT", c.Vision.Timeout, Positive).
		Field("TESSERACT_PSM", c.OCR.PSM, Between(0, 13)).
		Field("LOG_LEVEL", c.Log.Level, OneOf("debug", "info", "warn", "warning", "error"))
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
