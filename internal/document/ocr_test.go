package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/errs"
	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTesseract writes a fake tesseract script; its stdout is derived from
// the input image filename so per-page output is distinguishable.
func mockTesseract(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tesseract")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func newTestOCR(t *testing.T, body string) *OCREngine {
	t.Helper()
	engine, err := NewOCREngine(mockTesseract(t, body), "eng", 10*time.Second, 2,
		log.NewLogger(log.LevelError))
	require.NoError(t, err)
	return engine
}

func TestNewOCREngineMissingBinary(t *testing.T) {
	_, err := NewOCREngine("definitely-not-tesseract", "eng", time.Second, 1,
		log.NewLogger(log.LevelError))
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindDependencyUnavailable))
}

func TestRecognizePagesJoinsWithDelimiters(t *testing.T) {
	engine := newTestOCR(t, `printf 'text from %s' "$(basename "$1")"`)

	text, err := engine.RecognizePages(context.Background(),
		[]string{"page_1.png", "page_2.png"})
	require.NoError(t, err)

	assert.Contains(t, text, "--- Page 1 ---")
	assert.Contains(t, text, "text from page_1.png")
	assert.Contains(t, text, "--- Page 2 ---")
	assert.Contains(t, text, "text from page_2.png")
}

func TestRecognizePagesSkipsFailedPage(t *testing.T) {
	engine := newTestOCR(t, `case "$1" in
  *page_2*) exit 1 ;;
esac
printf 'recognized'`)

	text, err := engine.RecognizePages(context.Background(),
		[]string{"page_1.png", "page_2.png", "page_3.png"})
	require.NoError(t, err)

	assert.Contains(t, text, "--- Page 1 ---")
	assert.Contains(t, text, "--- Page 3 ---")
	// the failed page keeps its slot but contributes no text
	assert.Contains(t, text, "--- Page 2 ---")
}

func TestRecognizePagesAllEmptyIsError(t *testing.T) {
	engine := newTestOCR(t, `printf ''`)

	_, err := engine.RecognizePages(context.Background(), []string{"page_1.png"})
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindEmptyResult))
}

func TestRecognizePagesNoInput(t *testing.T) {
	engine := newTestOCR(t, `printf 'x'`)

	_, err := engine.RecognizePages(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindEmptyResult))
}

func TestRecognizeTimeout(t *testing.T) {
	engine, err := NewOCREngine(mockTesseract(t, "exec sleep 5"), "eng",
		100*time.Millisecond, 1, log.NewLogger(log.LevelError))
	require.NoError(t, err)

	start := time.Now()
	_, err = engine.RecognizePages(context.Background(), []string{"page_1.png"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	// a single timed-out page means nothing was recognized
	assert.True(t, errs.IsKind(err, errs.KindEmptyResult))
}
