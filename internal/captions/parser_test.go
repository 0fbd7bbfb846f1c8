package captions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func writeCaptionFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "captions.vtt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestParser() *Parser {
	return NewParser(log.NewLogger(log.LevelError))
}

func TestParseWebVTT(t *testing.T) {
	const vtt = `WEBVTT
Kind: captions
Language: en

00:00:00.000 --> 00:00:02.500
Breaking news tonight

00:00:02.500 --> 00:00:05.000
from the capital.

NOTE internal cue marker

00:00:05.000 --> 00:00:07.000
More at eleven.
`

	text := newTestParser().Parse(writeCaptionFile(t, vtt))
	assert.Equal(t, "Breaking news tonight from the capital. More at eleven.", text)
}

func TestParseSRTSequenceNumbersDropped(t *testing.T) {
	const srt = `1
00:00:01,000 --> 00:00:02,000
First line

2
00:00:02,000 --> 00:00:03,000
Second line
`

	text := newTestParser().Parse(writeCaptionFile(t, srt))
	assert.Equal(t, "First line Second line", text)
}

func TestParseStripsInlineCueTags(t *testing.T) {
	const vtt = `WEBVTT

00:00:00.000 --> 00:00:02.000
<c.colorE5E5E5>Hello</c> <00:00:01.000><i>there</i>
`

	text := newTestParser().Parse(writeCaptionFile(t, vtt))
	assert.Equal(t, "Hello there", text)
}

func TestParseMissingFileFailsSoft(t *testing.T) {
	text := newTestParser().Parse("/nonexistent/captions.vtt")
	assert.Empty(t, text)
}

func TestParseEmptyFile(t *testing.T) {
	text := newTestParser().Parse(writeCaptionFile(t, ""))
	assert.Empty(t, text)
}

func TestDetectLanguage(t *testing.T) {
	en := DetectLanguage("The quick brown fox jumps over the lazy dog. It was a bright sunny morning in London.")
	assert.Equal(t, language.English, en)

	assert.Equal(t, language.Und, DetectLanguage(""))
	assert.Equal(t, language.Und, DetectLanguage("   "))
}
