package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/errs"
	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/log"
	"golang.org/x/sync/errgroup"
)

// OCREngine converts rendered page images to text with an external
// tesseract binary. The binary's presence is checked once at construction,
// not probed per call.
type OCREngine struct {
	tesseractCmd string
	language     string
	timeout      time.Duration
	concurrency  int
	logger       *log.Logger
}

func NewOCREngine(tesseractCmd, language string, timeout time.Duration, concurrency int, logger *log.Logger) (*OCREngine, error) {
	if tesseractCmd == "" {
		tesseractCmd = "tesseract"
	}
	if language == "" {
		language = "eng"
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	if _, err := exec.LookPath(tesseractCmd); err != nil {
		return nil, errs.Wrap(err, errs.KindDependencyUnavailable,
			"tesseract OCR binary is not installed or not in PATH")
	}

	return &OCREngine{
		tesseractCmd: tesseractCmd,
		language:     language,
		timeout:      timeout,
		concurrency:  concurrency,
		logger:       logger,
	}, nil
}

// RecognizePages runs OCR over rendered page images, concatenating per-page
// results with a page-delimiter header. A page that fails OCR is skipped;
// if no page produces text the whole pass is an explicit empty-result
// error, never an empty success.
func (o *OCREngine) RecognizePages(ctx context.Context, imagePaths []string) (string, error) {
	if len(imagePaths) == 0 {
		return "", errs.New(errs.KindEmptyResult, "no page images to recognize")
	}

	pageTexts := make([]string, len(imagePaths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, imagePath := range imagePaths {
		g.Go(func() error {
			o.logger.Debug("Running OCR on page %d/%d", i+1, len(imagePaths))
			text, err := o.recognize(gctx, imagePath)
			if err != nil {
				// Per-page OCR failure is skipped, not fatal.
				o.logger.Warn("OCR failed for page %d: %v", i+1, err)
				return nil
			}
			pageTexts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var sb strings.Builder
	total := 0
	for i, text := range pageTexts {
		sb.WriteString(fmt.Sprintf("\n--- Page %d ---\n%s\n", i+1, text))
		total += len(strings.TrimSpace(text))
	}

	if total == 0 {
		return "", errs.New(errs.KindEmptyResult,
			"OCR completed but no text was extracted from any page")
	}

	o.logger.Info("OCR complete: extracted %d characters from %d pages", total, len(imagePaths))
	return sb.String(), nil
}

// recognize runs tesseract on a single page image under the bounded
// timeout.
func (o *OCREngine) recognize(ctx context.Context, imagePath string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, o.tesseractCmd, imagePath, "stdout", "-l", o.language)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Stop waiting on inherited pipe handles once the process is killed.
	cmd.WaitDelay = time.Second

	runErr := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", errs.New(errs.KindTimeout,
			fmt.Sprintf("OCR timed out after %s", o.timeout)).WithContext("page", imagePath)
	}
	if runErr != nil {
		return "", errs.Wrap(runErr, errs.KindDecodeFailed,
			"tesseract failed").WithContext("stderr", strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
