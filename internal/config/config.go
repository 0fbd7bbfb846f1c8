package config

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/errs"
)

// Config holds all application configuration.
// Supports environment variables with sensible defaults.
//
// Environment Variables:
// Storage Configuration:
// - SCRATCH_DIR: shared scratch root for intermediate files (default: temp_media)
// - ANALYSIS_DIR: durable per-request session root (default: analysis)
// - SESSION_DB_PATH: sqlite session index path (default: data/sessions.db)
// - SWEEP_CRON_EXPR: scratch sweep schedule (default: hourly)
// - SWEEP_MAX_AGE_MINUTES: scratch file age before sweep (default: 360)
//
// Media Configuration:
// - FFMPEG_CMD / FFPROBE_CMD: binary overrides (default: ffmpeg / ffprobe)
// - KEYFRAME_COUNT: frames sampled per video (default: 20)
// - JPEG_QUALITY: ffmpeg -q:v value for keyframes (default: 2)
// - FRAME_TIMEOUT_SECONDS: per-frame decode timeout (default: 30)
// - TRANSCODE_TIMEOUT_SECONDS: audio transcoder timeout (default: 60)
//
// Document Configuration:
// - DOC_SCANNED_TEXT_THRESHOLD: chars below which a PDF counts as scanned (default: 50)
// - DOC_HAS_TEXT_THRESHOLD: chars above which a PDF counts as text-rich (default: 100)
// - DOC_RENDER_ZOOM: page render upscale factor (default: 2.0)
// - OCR_ENABLED: enable tesseract escalation (default: true)
// - TESSERACT_CMD: binary override (default: tesseract)
// - OCR_LANGUAGE: tesseract language (default: eng)
// - OCR_TIMEOUT_SECONDS: per-page OCR timeout (default: 120)
// - OCR_CONCURRENCY: parallel OCR pages (default: 2)
//
// System Configuration:
// - LOG_LEVEL: debug | info | warn | error (default: info)

type Config struct {
	Storage  StorageConfig  `json:"storage"`
	Media    MediaConfig    `json:"media"`
	Document DocumentConfig `json:"document"`
	System   SystemConfig   `json:"system"`
}

// StorageConfig holds scratch and session directory configuration.
type StorageConfig struct {
	ScratchDir    string        `json:"scratch_dir"`
	AnalysisDir   string        `json:"analysis_dir"`
	SessionDBPath string        `json:"session_db_path"`
	SweepCronExpr string        `json:"sweep_cron_expr"`
	SweepMaxAge   time.Duration `json:"sweep_max_age"`
}

// MediaConfig holds keyframe and audio extraction configuration.
type MediaConfig struct {
	FfmpegCmd        string        `json:"ffmpeg_cmd"`
	FfprobeCmd       string        `json:"ffprobe_cmd"`
	KeyframeCount    int           `json:"keyframe_count"`
	JPEGQuality      int           `json:"jpeg_quality"`
	FrameTimeout     time.Duration `json:"frame_timeout"`
	TranscodeTimeout time.Duration `json:"transcode_timeout"`
}

// DocumentConfig holds document and OCR extraction configuration.
type DocumentConfig struct {
	ScannedTextThreshold int           `json:"scanned_text_threshold"`
	HasTextThreshold     int           `json:"has_text_threshold"`
	RenderZoom           float64       `json:"render_zoom"`
	OCREnabled           bool          `json:"ocr_enabled"`
	TesseractCmd         string        `json:"tesseract_cmd"`
	OCRLanguage          string        `json:"ocr_language"`
	OCRTimeout           time.Duration `json:"ocr_timeout"`
	OCRConcurrency       int           `json:"ocr_concurrency"`
}

// SystemConfig holds the system configuration.
type SystemConfig struct {
	LogLevel string `json:"log_level"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment
// variables and options.
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		Storage: StorageConfig{
			ScratchDir:    getEnvString("SCRATCH_DIR", "temp_media"),
			AnalysisDir:   getEnvString("ANALYSIS_DIR", "analysis"),
			SessionDBPath: getEnvString("SESSION_DB_PATH", "data/sessions.db"),
			SweepCronExpr: getEnvString("SWEEP_CRON_EXPR", "0 0 * * * *"),
			SweepMaxAge:   time.Duration(getEnvInt("SWEEP_MAX_AGE_MINUTES", 360)) * time.Minute,
		},
		Media: MediaConfig{
			FfmpegCmd:        getEnvString("FFMPEG_CMD", "ffmpeg"),
			FfprobeCmd:       getEnvString("FFPROBE_CMD", "ffprobe"),
			KeyframeCount:    getEnvInt("KEYFRAME_COUNT", 20),
			JPEGQuality:      getEnvInt("JPEG_QUALITY", 2),
			FrameTimeout:     time.Duration(getEnvInt("FRAME_TIMEOUT_SECONDS", 30)) * time.Second,
			TranscodeTimeout: time.Duration(getEnvInt("TRANSCODE_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Document: DocumentConfig{
			ScannedTextThreshold: getEnvInt("DOC_SCANNED_TEXT_THRESHOLD", 50),
			HasTextThreshold:     getEnvInt("DOC_HAS_TEXT_THRESHOLD", 100),
			RenderZoom:           getEnvFloat("DOC_RENDER_ZOOM", 2.0),
			OCREnabled:           getEnvBool("OCR_ENABLED", true),
			TesseractCmd:         getEnvString("TESSERACT_CMD", "tesseract"),
			OCRLanguage:          getEnvString("OCR_LANGUAGE", "eng"),
			OCRTimeout:           time.Duration(getEnvInt("OCR_TIMEOUT_SECONDS", 120)) * time.Second,
			OCRConcurrency:       getEnvInt("OCR_CONCURRENCY", 2),
		},
		System: SystemConfig{
			LogLevel: getEnvString("LOG_LEVEL", "info"),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.Storage.ScratchDir == "" {
		return fmt.Errorf("SCRATCH_DIR is required")
	}
	if c.Storage.AnalysisDir == "" {
		return fmt.Errorf("ANALYSIS_DIR is required")
	}
	if c.Media.KeyframeCount <= 0 {
		return fmt.Errorf("KEYFRAME_COUNT must be positive, got %d", c.Media.KeyframeCount)
	}
	if c.Document.ScannedTextThreshold < 0 {
		return fmt.Errorf("DOC_SCANNED_TEXT_THRESHOLD must not be negative")
	}
	return nil
}

// CheckTools verifies that the external binaries the pipeline shells out to
// are installed. Run once at startup so per-request extraction can fail fast
// with a typed error instead of probing install locations on every call.
func (c *Config) CheckTools() error {
	required := []string{c.Media.FfmpegCmd, c.Media.FfprobeCmd}
	if c.Document.OCREnabled {
		required = append(required, c.Document.TesseractCmd)
	}

	for _, tool := range required {
		if _, err := exec.LookPath(tool); err != nil {
			return errs.Wrap(err, errs.KindDependencyUnavailable,
				fmt.Sprintf("required tool %q is not installed or not in PATH", tool))
		}
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean value from environment variables with default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
