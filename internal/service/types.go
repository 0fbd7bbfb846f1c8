package service

import (
	"time"

	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/document"
	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/media"
)

// TranscriptStatus is the aggregate outcome of caption plus audio
// extraction.
type TranscriptStatus string

const (
	TranscriptSuccess TranscriptStatus = "success"
	TranscriptFailed  TranscriptStatus = "failed"
)

// TranscriptResult aggregates caption text and the audio artifact for one
// video. Captions and audio are not mutually exclusive; either alone makes
// the result a success.
type TranscriptResult struct {
	Status      TranscriptStatus     `json:"status"`
	CaptionText string               `json:"caption_text,omitempty"`
	Language    string               `json:"language,omitempty"`
	Audio       *media.AudioArtifact `json:"audio,omitempty"`
}

// DocumentExtractionResult collects every artifact class the document
// pipeline can produce. OCRText is set only when scanned-page OCR ran.
type DocumentExtractionResult struct {
	Text           *document.TextResult       `json:"text,omitempty"`
	EmbeddedImages *document.EmbeddedImageSet `json:"embedded_images,omitempty"`
	PageImages     []string                   `json:"page_images,omitempty"`
	OCRText        string                     `json:"ocr_text,omitempty"`
}

// VideoAnalysis is the end-to-end result of one video request.
type VideoAnalysis struct {
	RequestID   string             `json:"request_id"`
	SessionPath string             `json:"session_path"`
	Keyframes   *media.KeyframeSet `json:"-"`
	Transcript  *TranscriptResult  `json:"transcript"`
	StartedAt   time.Time          `json:"started_at"`
	Elapsed     time.Duration      `json:"elapsed"`
}

// DocumentAnalysis is the end-to-end result of one document request.
type DocumentAnalysis struct {
	RequestID   string                    `json:"request_id"`
	SessionPath string                    `json:"session_path"`
	Result      *DocumentExtractionResult `json:"result"`
	StartedAt   time.Time                 `json:"started_at"`
	Elapsed     time.Duration             `json:"elapsed"`
}
