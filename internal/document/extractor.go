// Package document extracts machine text, embedded images and page renders
// from uploaded documents, deciding at runtime whether a PDF is text-based
// or scanned.
package document

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/gen2brain/go-fitz"
	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/errs"
	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/log"
)

const (
	// defaultScannedTextThreshold is the character count under which a
	// nonempty PDF is classified as scanned rather than returned as
	// near-empty text. Near-empty "success" is indistinguishable from
	// total extraction failure and must not pass downstream as valid.
	defaultScannedTextThreshold = 50

	// defaultHasTextThreshold is the character count above which a PDF
	// counts as text-rich for the embedded-image pass. The original
	// pipeline used a looser bound here than for the scanned check, so
	// the two stay separate knobs.
	defaultHasTextThreshold = 100
)

// Extractor dispatches document extraction by declared format.
type Extractor struct {
	scannedTextThreshold int
	hasTextThreshold     int
	renderZoom           float64
	logger               *log.Logger
}

type Option func(*Extractor)

func WithScannedTextThreshold(n int) Option {
	return func(e *Extractor) { e.scannedTextThreshold = n }
}

func WithHasTextThreshold(n int) Option {
	return func(e *Extractor) { e.hasTextThreshold = n }
}

func WithRenderZoom(zoom float64) Option {
	return func(e *Extractor) { e.renderZoom = zoom }
}

func NewExtractor(logger *log.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		scannedTextThreshold: defaultScannedTextThreshold,
		hasTextThreshold:     defaultHasTextThreshold,
		renderZoom:           2.0,
		logger:               logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractText extracts machine text from a document, dispatching by format.
// A scanned PDF comes back with ImageBased set instead of its near-empty
// text. An extraction that produces nothing usable is an explicit error,
// never an empty-string success.
func (e *Extractor) ExtractText(path string, format Format) (*TextResult, error) {
	switch format {
	case FormatText, FormatRichText, FormatMarkdown:
		return e.extractPlainText(path)
	case FormatDocx:
		return e.extractDocx(path)
	case FormatPDF:
		return e.extractPDFText(path)
	default:
		return nil, errs.New(errs.KindFormatUnsupported,
			fmt.Sprintf("unsupported document format: %s", format))
	}
}

// extractPlainText reads raw content with a lossy decode; invalid bytes are
// replaced, never raised.
func (e *Extractor) extractPlainText(path string) (*TextResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindSourceUnreadable,
			"failed to read text file").WithContext("path", path)
	}

	text := strings.ToValidUTF8(string(raw), "�")
	if strings.TrimSpace(text) == "" {
		return nil, errs.New(errs.KindEmptyResult,
			"text file contains no content").WithContext("path", path)
	}

	e.logger.Info("Extracted %d characters from text file", len(text))
	return &TextResult{Text: text, CharCount: len(text)}, nil
}

// extractDocx walks the word-processor structural model and joins paragraph
// and table text.
func (e *Extractor) extractDocx(path string) (*TextResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindSourceUnreadable,
			"failed to open document").WithContext("path", path)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, errs.Wrap(err, errs.KindSourceUnreadable,
			"failed to stat document").WithContext("path", path)
	}

	doc, err := docx.Parse(f, stat.Size())
	if err != nil {
		return nil, errs.Wrap(err, errs.KindSourceUnreadable,
			"failed to parse word document").WithContext("path", path)
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch block := item.(type) {
		case *docx.Paragraph:
			sb.WriteString(block.String())
			sb.WriteString("\n")
		case *docx.Table:
			sb.WriteString(block.String())
			sb.WriteString("\n")
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return nil, errs.New(errs.KindEmptyResult,
			"word document contains no extractable text").WithContext("path", path)
	}

	e.logger.Info("Extracted %d characters from word document", len(text))
	return &TextResult{Text: text, CharCount: len(text)}, nil
}

// extractPDFText concatenates per-page text. When the whole document yields
// fewer than scannedTextThreshold characters across a nonzero page count, it
// is classified as image-based instead.
func (e *Extractor) extractPDFText(path string) (*TextResult, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindSourceUnreadable,
			"failed to open PDF").WithContext("path", path)
	}
	defer doc.Close()

	pages := doc.NumPage()
	var sb strings.Builder
	for n := 0; n < pages; n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			e.logger.Warn("Failed to extract text from page %d: %v", n+1, err)
			continue
		}
		if pageText != "" {
			sb.WriteString(pageText)
			sb.WriteString("\n")
		}
	}

	text := sb.String()
	charCount := len(strings.TrimSpace(text))
	e.logger.Info("Extracted %d characters from PDF (%d pages)", charCount, pages)

	if pages == 0 {
		return nil, errs.New(errs.KindSourceUnreadable,
			"PDF reports zero pages").WithContext("path", path)
	}

	if e.isScanned(charCount, pages) {
		e.logger.Warn("Very little text extracted (%d chars); classifying as scanned/image-based PDF", charCount)
		return &TextResult{ImageBased: true, Pages: pages, CharCount: charCount}, nil
	}

	return &TextResult{Text: text, Pages: pages, CharCount: charCount}, nil
}

// isScanned is the misclassification guard: a nonempty document whose total
// text falls under the threshold is treated as image-based, not as a
// near-empty success.
func (e *Extractor) isScanned(charCount, pages int) bool {
	return pages > 0 && charCount < e.scannedTextThreshold
}

// totalPDFText returns the trimmed character count across all pages.
func (e *Extractor) totalPDFText(path string) (int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, errs.Wrap(err, errs.KindSourceUnreadable,
			"failed to open PDF").WithContext("path", path)
	}
	defer doc.Close()

	total := 0
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			continue
		}
		total += len(strings.TrimSpace(pageText))
	}
	return total, nil
}
