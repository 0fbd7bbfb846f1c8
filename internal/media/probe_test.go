package media

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/sairishigangarapu/Vigil-AI-Engine/internal/errs"
	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript drops an executable fake binary into dir and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

// mockProbeScript fakes ffprobe emitting the given JSON on stdout.
func mockProbeScript(t *testing.T, dir, output string, exitCode int) string {
	t.Helper()
	body := "cat <<'EOF'\n" + output + "\nEOF\nexit " + strconv.Itoa(exitCode)
	return writeScript(t, dir, "ffprobe", body)
}

func testLogger() *log.Logger {
	return log.NewLogger(log.LevelError)
}

const probeVideoWithAudio = `{
	"streams": [
		{
			"codec_type": "video",
			"codec_name": "h264",
			"nb_frames": "300",
			"r_frame_rate": "30/1",
			"duration": "10.000000"
		},
		{
			"codec_type": "audio",
			"codec_name": "aac"
		}
	],
	"format": {"duration": "10.000000"}
}`

const probeVideoNoAudio = `{
	"streams": [
		{
			"codec_type": "video",
			"codec_name": "h264",
			"nb_frames": "100",
			"r_frame_rate": "10/1",
			"duration": "10.000000"
		}
	],
	"format": {"duration": "10.000000"}
}`

func TestParseRate(t *testing.T) {
	tests := []struct {
		name string
		rate string
		want float64
	}{
		{name: "integer rate", rate: "30/1", want: 30},
		{name: "ntsc rate", rate: "30000/1001", want: 29.97002997002997},
		{name: "bare number", rate: "25", want: 25},
		{name: "zero denominator", rate: "0/0", want: 0},
		{name: "empty", rate: "", want: 0},
		{name: "garbage", rate: "abc/def", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, parseRate(tt.rate), 1e-9)
		})
	}
}

func TestProbeInspect(t *testing.T) {
	dir := t.TempDir()
	probe := NewProbe(mockProbeScript(t, dir, probeVideoWithAudio, 0))

	info, err := probe.Inspect(context.Background(), "clip.mp4")
	require.NoError(t, err)

	assert.Equal(t, 300, info.TotalFrames)
	assert.InDelta(t, 30.0, info.FPS, 1e-9)
	assert.InDelta(t, 10.0, info.Duration, 1e-9)
	assert.True(t, info.HasVideo)
	assert.True(t, info.HasAudio)
}

func TestProbeInspectEstimatesMissingFrameCount(t *testing.T) {
	const output = `{
		"streams": [
			{"codec_type": "video", "r_frame_rate": "25/1"}
		],
		"format": {"duration": "4.0"}
	}`

	dir := t.TempDir()
	probe := NewProbe(mockProbeScript(t, dir, output, 0))

	info, err := probe.Inspect(context.Background(), "clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, 100, info.TotalFrames)
	assert.InDelta(t, 4.0, info.Duration, 1e-9)
}

func TestProbeInspectUnreadableSource(t *testing.T) {
	dir := t.TempDir()
	probe := NewProbe(mockProbeScript(t, dir, "", 1))

	_, err := probe.Inspect(context.Background(), "broken.mp4")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindSourceUnreadable))
}

func TestProbeInspectZeroFPSMeansZeroDuration(t *testing.T) {
	const output = `{
		"streams": [
			{"codec_type": "video", "nb_frames": "50", "r_frame_rate": "0/0"}
		],
		"format": {}
	}`

	dir := t.TempDir()
	probe := NewProbe(mockProbeScript(t, dir, output, 0))

	info, err := probe.Inspect(context.Background(), "clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, 50, info.TotalFrames)
	assert.Zero(t, info.Duration)
}

func TestInspectArgs(t *testing.T) {
	probe := NewProbe("ffprobe")
	assert.Equal(t, []string{
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		"/path/to/video.mp4",
	}, probe.inspectArgs("/path/to/video.mp4"))
}
