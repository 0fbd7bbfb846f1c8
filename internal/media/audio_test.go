package media

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAudioExtractor(t *testing.T, probeOutput string, probeExit int, ffmpegBody string, timeout time.Duration) (*AudioExtractor, string) {
	t.Helper()
	binDir := t.TempDir()

	probe := NewProbe(mockProbeScript(t, binDir, probeOutput, probeExit))
	ffmpeg := writeScript(t, binDir, "ffmpeg", ffmpegBody)
	extractor := NewAudioExtractor(ffmpeg, probe, timeout, testLogger())

	return extractor, filepath.Join(t.TempDir(), "out_audio.mp3")
}

const writeOutputBody = `for arg; do out="$arg"; done
printf 'mp3data' > "$out"
exit 0`

func TestExtractAudioTrackSuccess(t *testing.T) {
	extractor, outPath := newTestAudioExtractor(t, probeVideoWithAudio, 0, writeOutputBody, 10*time.Second)

	artifact := extractor.Extract(context.Background(), "clip.mp4", outPath)

	assert.Equal(t, AudioSuccess, artifact.Status)
	assert.Equal(t, MethodTrack, artifact.Method)
	assert.Equal(t, outPath, artifact.Path)
	assert.Equal(t, int64(7), artifact.FileSize)
	assert.InDelta(t, 10.0, artifact.Duration, 1e-9)
	require.Len(t, artifact.Attempts, 1)
	assert.Equal(t, OutcomeSuccess, artifact.Attempts[0].Outcome)
}

func TestExtractAudioNoTrackIsTerminal(t *testing.T) {
	extractor, outPath := newTestAudioExtractor(t, probeVideoNoAudio, 0, writeOutputBody, 10*time.Second)

	artifact := extractor.Extract(context.Background(), "clip.mp4", outPath)

	assert.Equal(t, AudioNone, artifact.Status)
	assert.Empty(t, artifact.Path)
	// no_audio must stop the chain, not fall through to the transcoder
	require.Len(t, artifact.Attempts, 1)
	assert.Equal(t, OutcomeNoAudio, artifact.Attempts[0].Outcome)
}

func TestExtractAudioOnlyFileWhenContainerUnprobeable(t *testing.T) {
	extractor, outPath := newTestAudioExtractor(t, "", 1, writeOutputBody, 10*time.Second)

	artifact := extractor.Extract(context.Background(), "voice.mp3", outPath)

	assert.Equal(t, AudioSuccess, artifact.Status)
	assert.Equal(t, MethodAudioOnly, artifact.Method)
	require.Len(t, artifact.Attempts, 2)
	assert.Equal(t, OutcomeSkip, artifact.Attempts[0].Outcome)
	assert.Equal(t, OutcomeSuccess, artifact.Attempts[1].Outcome)
}

func TestExtractAudioFallsThroughToTranscoder(t *testing.T) {
	// fail any invocation that maps a specific track, succeed otherwise
	body := `case "$*" in
  *"-map"*) exit 1 ;;
esac
` + writeOutputBody

	extractor, outPath := newTestAudioExtractor(t, probeVideoWithAudio, 0, body, 10*time.Second)

	artifact := extractor.Extract(context.Background(), "clip.mp4", outPath)

	assert.Equal(t, AudioSuccess, artifact.Status)
	assert.Equal(t, MethodTranscoder, artifact.Method)
	require.Len(t, artifact.Attempts, 3)
	assert.Equal(t, OutcomeFail, artifact.Attempts[0].Outcome)
	assert.Equal(t, OutcomeSkip, artifact.Attempts[1].Outcome)
	assert.Equal(t, OutcomeSuccess, artifact.Attempts[2].Outcome)
}

func TestExtractAudioAllStrategiesFail(t *testing.T) {
	extractor, outPath := newTestAudioExtractor(t, "", 1, "exit 1", 10*time.Second)

	artifact := extractor.Extract(context.Background(), "junk.bin", outPath)

	assert.Equal(t, AudioError, artifact.Status)
	assert.Empty(t, artifact.Path)
	assert.Contains(t, artifact.Error, "no audio extraction method succeeded")
	// every strategy attempt is recorded for post-hoc debugging
	require.Len(t, artifact.Attempts, 3)
	assert.Equal(t, MethodTrack, artifact.Attempts[0].Method)
	assert.Equal(t, MethodAudioOnly, artifact.Attempts[1].Method)
	assert.Equal(t, MethodTranscoder, artifact.Attempts[2].Method)
}

func TestExtractAudioTimeoutIsFailureNotHang(t *testing.T) {
	extractor, outPath := newTestAudioExtractor(t, "", 1, "exec sleep 5", 100*time.Millisecond)

	start := time.Now()
	artifact := extractor.Extract(context.Background(), "clip.mp4", outPath)
	elapsed := time.Since(start)

	assert.Equal(t, AudioError, artifact.Status)
	assert.Less(t, elapsed, 2*time.Second)
	assert.Contains(t, artifact.Error, "timed out")
}

func TestExtractAudioEmptyOutputCountsAsFailure(t *testing.T) {
	// zero exit but nothing written
	extractor, outPath := newTestAudioExtractor(t, probeVideoWithAudio, 0, "exit 0", 10*time.Second)

	artifact := extractor.Extract(context.Background(), "clip.mp4", outPath)

	assert.Equal(t, AudioError, artifact.Status)
	assert.Equal(t, OutcomeFail, artifact.Attempts[0].Outcome)
	assert.Contains(t, artifact.Attempts[0].Detail, "output file is empty")
}
