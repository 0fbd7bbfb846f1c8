// Package service composes the extraction components into per-request
// pipelines: one for video sources, one for documents.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/captions"
	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/config"
	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/document"
	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/ingest"
	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/media"
	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/persistence"
	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/scratch"
	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/session"
	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/file"
	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/log"
)

// Service wires the extraction pipeline together. Every collaborator is
// injected so tests can swap binaries and directories per case.
type Service struct {
	cfg      *config.Config
	scratch  *scratch.Manager
	sampler  *media.Sampler
	audio    *media.AudioExtractor
	captions *captions.Parser
	docs     *document.Extractor
	ocr      *document.OCREngine
	writer   *session.Writer
	store    *persistence.SQLiteStore
	logger   *log.Logger
}

// New builds a Service from configuration. store may be nil when no durable
// session index is wanted. When OCR is enabled but tesseract is missing the
// service degrades to sentinel-only scanned handling instead of failing.
func New(cfg *config.Config, store *persistence.SQLiteStore, logger *log.Logger) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	probe := media.NewProbe(cfg.Media.FfprobeCmd)

	var ocr *document.OCREngine
	if cfg.Document.OCREnabled {
		engine, err := document.NewOCREngine(
			cfg.Document.TesseractCmd,
			cfg.Document.OCRLanguage,
			cfg.Document.OCRTimeout,
			cfg.Document.OCRConcurrency,
			logger,
		)
		if err != nil {
			logger.Warn("OCR unavailable, scanned documents will keep the image-based sentinel: %v", err)
		} else {
			ocr = engine
		}
	}

	return &Service{
		cfg:     cfg,
		scratch: scratch.NewManager(cfg.Storage.ScratchDir, cfg.Storage.AnalysisDir, logger),
		sampler: media.NewSampler(cfg.Media.FfmpegCmd, probe, cfg.Media.JPEGQuality,
			cfg.Media.FrameTimeout, logger),
		audio: media.NewAudioExtractor(cfg.Media.FfmpegCmd, probe,
			cfg.Media.TranscodeTimeout, logger),
		captions: captions.NewParser(logger),
		docs: document.NewExtractor(logger,
			document.WithScannedTextThreshold(cfg.Document.ScannedTextThreshold),
			document.WithHasTextThreshold(cfg.Document.HasTextThreshold),
			document.WithRenderZoom(cfg.Document.RenderZoom),
		),
		ocr:    ocr,
		writer: session.NewWriter(logger),
		store:  store,
		logger: logger,
	}, nil
}

// ExtractTranscript gathers caption text and runs the audio fallback chain
// for one video. Audio is always attempted even when captions parse cleanly;
// downstream consumers use both. Status is success when either source
// produced something.
func (s *Service) ExtractTranscript(ctx context.Context, requestID, videoPath, captionPath string) *TranscriptResult {
	result := &TranscriptResult{Status: TranscriptFailed}

	if captionPath != "" {
		result.CaptionText = s.captions.Parse(captionPath)
		if result.CaptionText != "" {
			result.Language = captions.DetectLanguage(result.CaptionText).String()
			s.logger.Info("Parsed %d caption characters (language %s)",
				len(result.CaptionText), result.Language)
		}
	}

	audioOut := s.scratch.ScratchPath(requestID, "audio.mp3")
	result.Audio = s.audio.Extract(ctx, videoPath, audioOut)

	if result.CaptionText != "" || result.Audio.Status == media.AudioSuccess {
		result.Status = TranscriptSuccess
	}
	return result
}

// ExtractDocumentArtifacts runs text extraction for one document and, for
// PDFs, the embedded-image pass plus scanned-page rendering and OCR
// escalation. Artifact files are written under sessionPath.
func (s *Service) ExtractDocumentArtifacts(ctx context.Context, path, sessionPath string) (*DocumentExtractionResult, error) {
	format := document.FormatFromExt(strings.ToLower(filepath.Ext(path)))

	text, err := s.docs.ExtractText(path, format)
	if err != nil {
		return nil, err
	}
	result := &DocumentExtractionResult{Text: text}

	if format != document.FormatPDF {
		return result, nil
	}

	imagesDir := filepath.Join(sessionPath, "embedded_images")
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create embedded images directory: %w", err)
	}
	embedded, err := s.docs.ExtractEmbeddedImages(path, imagesDir)
	if err != nil {
		s.logger.Warn("Embedded image extraction failed: %v", err)
	} else {
		result.EmbeddedImages = embedded
	}

	if !text.ImageBased {
		return result, nil
	}

	s.logger.Info("PDF classified as image-based, rendering pages")
	pagesDir := filepath.Join(sessionPath, "pdf_pages")
	if err := os.MkdirAll(pagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create pdf pages directory: %w", err)
	}
	pages, err := s.docs.RenderPages(path, pagesDir)
	if err != nil {
		s.logger.Warn("Page rendering failed, keeping image-based sentinel: %v", err)
		return result, nil
	}
	result.PageImages = pages

	if s.ocr == nil {
		s.logger.Info("OCR disabled, returning rendered pages without text")
		return result, nil
	}
	ocrText, err := s.ocr.RecognizePages(ctx, pages)
	if err != nil {
		s.logger.Warn("OCR failed, keeping image-based sentinel: %v", err)
		return result, nil
	}
	result.OCRText = ocrText
	return result, nil
}

// AnalyzeVideo runs the full video pipeline: session allocation, keyframe
// sampling, caption parsing, the audio fallback chain, artifact persistence,
// and scratch cleanup.
func (s *Service) AnalyzeVideo(ctx context.Context, src ingest.VideoSource) (*VideoAnalysis, error) {
	started := time.Now()

	if _, err := os.Stat(src.Path); err != nil {
		return nil, fmt.Errorf("video source is not readable: %w", err)
	}
	if err := s.scratch.EnsureScratchDir(); err != nil {
		return nil, err
	}

	title := src.Title
	if title == "" {
		title = file.Stem(src.Path)
	}

	requestID := s.scratch.NewRequestID()
	sessionPath, err := s.scratch.CreateSession(title)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Starting video analysis %s for %q", requestID, title)

	framesDir := s.scratch.ScratchPath(requestID, "frames")
	if err := os.MkdirAll(framesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create frame scratch directory: %w", err)
	}

	keyframes, err := s.sampler.ExtractKeyframes(ctx, src.Path, framesDir, s.cfg.Media.KeyframeCount)
	if err != nil {
		return nil, err
	}

	captionPath := src.CaptionPath
	if captionPath == "" {
		captionPath = findSiblingCaption(src.Path)
		if captionPath != "" {
			s.logger.Info("Found caption track next to video: %s", captionPath)
		}
	}

	transcript := s.ExtractTranscript(ctx, requestID, src.Path, captionPath)

	rec := session.Record{
		Metadata: session.Metadata{
			Title:     title,
			Uploader:  src.Uploader,
			SourceURL: src.SourceURL,
			Source:    src.Path,
			RequestID: requestID,
			CreatedAt: started,
		},
		Keyframes:   keyframes.Paths(),
		CaptionText: transcript.CaptionText,
		CaptionPath: captionPath,
		Audio:       transcript.Audio,
	}
	if err := s.writer.Save(sessionPath, rec); err != nil {
		return nil, err
	}

	s.recordSession(ctx, persistence.SessionRecord{
		ID:            requestID,
		Kind:          persistence.SessionKindVideo,
		Title:         title,
		SourcePath:    src.Path,
		SessionPath:   sessionPath,
		AudioStatus:   string(transcript.Audio.Status),
		AudioMethod:   transcript.Audio.Method,
		KeyframeCount: len(keyframes.Frames),
		Placeholder:   keyframes.Placeholder,
		CaptionChars:  len(transcript.CaptionText),
		CreatedAt:     started,
	})

	// Scratch byproducts are copied into the session already.
	cleanup := keyframes.Paths()
	if transcript.Audio.Path != "" {
		cleanup = append(cleanup, transcript.Audio.Path)
	}
	s.scratch.Cleanup(cleanup)
	_ = os.Remove(framesDir)

	return &VideoAnalysis{
		RequestID:   requestID,
		SessionPath: sessionPath,
		Keyframes:   keyframes,
		Transcript:  transcript,
		StartedAt:   started,
		Elapsed:     time.Since(started),
	}, nil
}

// AnalyzeDocument runs the full document pipeline for one file.
func (s *Service) AnalyzeDocument(ctx context.Context, path string) (*DocumentAnalysis, error) {
	started := time.Now()

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("document source is not readable: %w", err)
	}

	title := filepath.Base(path)
	requestID := s.scratch.NewRequestID()
	sessionPath, err := s.scratch.CreateSession(file.Stem(path))
	if err != nil {
		return nil, err
	}
	s.logger.Info("Starting document analysis %s for %q", requestID, title)

	result, err := s.ExtractDocumentArtifacts(ctx, path, sessionPath)
	if err != nil {
		return nil, err
	}

	// OCR output supersedes the sentinel when scanned pages were readable.
	extracted := result.Text.Text
	if result.OCRText != "" {
		extracted = result.OCRText
	}

	rec := session.Record{
		Metadata: session.Metadata{
			Title:     title,
			Source:    path,
			RequestID: requestID,
			CreatedAt: started,
		},
		ExtractedText: extracted,
	}
	if err := s.writer.Save(sessionPath, rec); err != nil {
		return nil, err
	}

	s.recordSession(ctx, persistence.SessionRecord{
		ID:          requestID,
		Kind:        persistence.SessionKindDocument,
		Title:       title,
		SourcePath:  path,
		SessionPath: sessionPath,
		TextChars:   len(extracted),
		ImageBased:  result.Text.ImageBased,
		CreatedAt:   started,
	})

	return &DocumentAnalysis{
		RequestID:   requestID,
		SessionPath: sessionPath,
		Result:      result,
		StartedAt:   started,
		Elapsed:     time.Since(started),
	}, nil
}

// findSiblingCaption looks for a caption track saved next to the video by
// the acquisition step, e.g. clip.mp4 -> clip.vtt.
func findSiblingCaption(videoPath string) string {
	for _, ext := range []string{".vtt", ".srt"} {
		candidate := file.ReplaceExt(videoPath, ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Scratch exposes the scratch manager so callers can schedule sweeps.
func (s *Service) Scratch() *scratch.Manager {
	return s.scratch
}

// ListSessions returns the most recent session index rows, newest first.
func (s *Service) ListSessions(ctx context.Context, limit int) ([]persistence.SessionRecord, error) {
	if s.store == nil {
		return nil, fmt.Errorf("session index is not configured")
	}
	return s.store.ListSessions(ctx, limit)
}

func (s *Service) recordSession(ctx context.Context, rec persistence.SessionRecord) {
	if s.store == nil {
		return
	}
	if err := s.store.RecordSession(ctx, rec); err != nil {
		s.logger.Error("Failed to index session %s: %v", rec.ID, err)
	}
}
