package document

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/errs"
)

// ExtractEmbeddedImages pulls raster images embedded inside a PDF (photos,
// diagrams) into outDir. This is independent of the scanned heuristic: a
// text-rich report can still carry photos worth analyzing, which is what the
// HasText flag tells the caller.
func (e *Extractor) ExtractEmbeddedImages(pdfPath, outDir string) (*EmbeddedImageSet, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, errs.Wrap(err, errs.KindSourceUnreadable,
			"failed to create embedded image directory").WithContext("dir", outDir)
	}

	totalText, err := e.totalPDFText(pdfPath)
	if err != nil {
		return nil, err
	}
	hasText := totalText > e.hasTextThreshold
	e.logger.Info("PDF analysis: %d characters found, type: %s",
		totalText, pdfType(hasText))

	set := &EmbeddedImageSet{HasText: hasText}

	// pdfcpu writes one file per embedded image, named by page and object
	// id. A failure here leaves an empty (not missing) image list.
	if err := api.ExtractImagesFile(pdfPath, outDir, nil, nil); err != nil {
		e.logger.Warn("Failed to extract embedded images from %s: %v", pdfPath, err)
		return set, nil
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindSourceUnreadable,
			"failed to list extracted images").WithContext("dir", outDir)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		set.Images = append(set.Images, filepath.Join(outDir, entry.Name()))
	}
	sort.Strings(set.Images)

	if len(set.Images) > 0 {
		e.logger.Info("Total embedded images extracted: %d", len(set.Images))
	} else {
		e.logger.Info("No embedded images found in PDF")
	}
	return set, nil
}

func pdfType(hasText bool) string {
	if hasText {
		return "text-based"
	}
	return "image-based/scanned"
}

// RenderPages renders every PDF page to a PNG at the configured upscale
// factor, for OCR or vision-model consumption. Output paths are ordered by
// page number.
func (e *Extractor) RenderPages(pdfPath, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, errs.Wrap(err, errs.KindSourceUnreadable,
			"failed to create page render directory").WithContext("dir", outDir)
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindSourceUnreadable,
			"failed to open PDF for rendering").WithContext("path", pdfPath)
	}
	defer doc.Close()

	// go-fitz renders at 72 DPI per unit zoom.
	dpi := 72 * e.renderZoom

	var paths []string
	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.ImageDPI(n, dpi)
		if err != nil {
			e.logger.Warn("Failed to render page %d: %v", n+1, err)
			continue
		}

		pagePath := filepath.Join(outDir, fmt.Sprintf("page_%d.png", n+1))
		f, err := os.Create(pagePath)
		if err != nil {
			e.logger.Warn("Failed to create page image %s: %v", pagePath, err)
			continue
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			e.logger.Warn("Failed to encode page %d: %v", n+1, err)
			continue
		}
		f.Close()

		paths = append(paths, pagePath)
		e.logger.Debug("Rendered page %d/%d as image", n+1, doc.NumPage())
	}

	if len(paths) == 0 {
		return nil, errs.New(errs.KindDecodeFailed,
			"no pages could be rendered").WithContext("path", pdfPath)
	}

	e.logger.Info("Rendered %d pages as images", len(paths))
	return paths, nil
}
