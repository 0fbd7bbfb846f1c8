// Package session writes the durable per-request inspection folder: one
// record per artifact class, write-once, never auto-deleted.
package session

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/media"
	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/log"
)

// Metadata is the per-request metadata record.
type Metadata struct {
	Title     string    `json:"title"`
	Uploader  string    `json:"uploader,omitempty"`
	SourceURL string    `json:"source_url,omitempty"`
	Source    string    `json:"source_path"`
	RequestID string    `json:"request_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Record bundles everything a request produced for saving.
type Record struct {
	Metadata      Metadata
	Keyframes     []string
	CaptionText   string
	CaptionPath   string
	Audio         *media.AudioArtifact
	ExtractedText string
}

// audioInfo is the audio/caption record persisted as audio_info.json. The
// caption text itself goes to captions.txt; the record only points at it.
type audioInfo struct {
	*media.AudioArtifact
	CaptionChars int    `json:"caption_chars,omitempty"`
	CaptionNote  string `json:"caption_note,omitempty"`
}

// Writer persists session artifacts.
type Writer struct {
	logger *log.Logger
}

func NewWriter(logger *log.Logger) *Writer {
	return &Writer{logger: logger}
}

// Save writes all artifact records into sessionPath.
func (w *Writer) Save(sessionPath string, rec Record) error {
	w.logger.Info("Saving analysis data to: %s", sessionPath)

	if err := w.writeJSON(filepath.Join(sessionPath, "metadata.json"), rec.Metadata); err != nil {
		return err
	}

	if len(rec.Keyframes) > 0 {
		framesDir := filepath.Join(sessionPath, "keyframes")
		if err := os.MkdirAll(framesDir, 0755); err != nil {
			return fmt.Errorf("failed to create keyframes directory: %w", err)
		}
		for i, framePath := range rec.Keyframes {
			dest := filepath.Join(framesDir,
				fmt.Sprintf("frame_%03d_%s", i, filepath.Base(framePath)))
			if err := copyFile(framePath, dest); err != nil {
				w.logger.Warn("Failed to copy frame %d: %v", i, err)
				continue
			}
		}
	}

	if rec.Audio != nil || rec.CaptionText != "" {
		info := audioInfo{AudioArtifact: rec.Audio}
		if rec.CaptionText != "" {
			info.CaptionChars = len(rec.CaptionText)
			info.CaptionNote = "see captions.txt"
		}
		if err := w.writeJSON(filepath.Join(sessionPath, "audio_info.json"), info); err != nil {
			return err
		}
	}

	if rec.CaptionText != "" {
		captionPath := filepath.Join(sessionPath, "captions.txt")
		if err := os.WriteFile(captionPath, []byte(rec.CaptionText), 0644); err != nil {
			return fmt.Errorf("failed to write captions: %w", err)
		}
	}

	if rec.Audio != nil && rec.Audio.Path != "" {
		dest := filepath.Join(sessionPath, filepath.Base(rec.Audio.Path))
		if err := copyFile(rec.Audio.Path, dest); err != nil {
			w.logger.Warn("Failed to copy audio file: %v", err)
		}
	}

	if rec.CaptionPath != "" {
		if _, err := os.Stat(rec.CaptionPath); err == nil {
			dest := filepath.Join(sessionPath, filepath.Base(rec.CaptionPath))
			if err := copyFile(rec.CaptionPath, dest); err != nil {
				w.logger.Warn("Failed to copy caption file: %v", err)
			}
		}
	}

	if rec.ExtractedText != "" {
		textPath := filepath.Join(sessionPath, "extracted_text.txt")
		if err := os.WriteFile(textPath, []byte(rec.ExtractedText), 0644); err != nil {
			return fmt.Errorf("failed to write extracted text: %w", err)
		}
	}

	if err := w.writeReadme(sessionPath, rec); err != nil {
		return err
	}

	w.logger.Info("Analysis data saved in: %s", filepath.Base(sessionPath))
	return nil
}

func (w *Writer) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (w *Writer) writeReadme(sessionPath string, rec Record) error {
	var sb strings.Builder
	sb.WriteString("# Analysis Session\n\n")
	sb.WriteString(fmt.Sprintf("**Timestamp:** %s\n\n", rec.Metadata.CreatedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString("## Source\n\n")
	sb.WriteString(fmt.Sprintf("- **Title:** %s\n", rec.Metadata.Title))
	if rec.Metadata.Uploader != "" {
		sb.WriteString(fmt.Sprintf("- **Uploader:** %s\n", rec.Metadata.Uploader))
	}
	sb.WriteString(fmt.Sprintf("- **Source Path:** %s\n\n", rec.Metadata.Source))

	sb.WriteString("## Extracted Data\n\n")
	if len(rec.Keyframes) > 0 {
		sb.WriteString(fmt.Sprintf("- `keyframes/` - %d extracted frames\n", len(rec.Keyframes)))
	}
	if rec.CaptionText != "" {
		sb.WriteString(fmt.Sprintf("- `captions.txt` - %d characters of caption text\n", len(rec.CaptionText)))
	}
	if rec.Audio != nil {
		sb.WriteString(fmt.Sprintf("- `audio_info.json` - audio extraction status: %s\n", rec.Audio.Status))
		if rec.Audio.Path != "" {
			sb.WriteString(fmt.Sprintf("- `%s` - extracted audio (%.2fs, %d bytes, method %s)\n",
				filepath.Base(rec.Audio.Path), rec.Audio.Duration, rec.Audio.FileSize, rec.Audio.Method))
		}
	}
	if rec.ExtractedText != "" {
		sb.WriteString(fmt.Sprintf("- `extracted_text.txt` - %d characters of document text\n", len(rec.ExtractedText)))
	}

	return os.WriteFile(filepath.Join(sessionPath, "README.md"), []byte(sb.String()), 0644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
