package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		name string
		path string
		ext  string
		want string
	}{
		{name: "simple swap", path: "video.mp4", ext: ".mp3", want: "video.mp3"},
		{name: "ext without dot", path: "video.mp4", ext: "mp3", want: "video.mp3"},
		{name: "no extension", path: "video", ext: ".mp3", want: "video.mp3"},
		{name: "nested path", path: filepath.Join("a", "b", "clip.mkv"), ext: ".srt", want: filepath.Join("a", "b", "clip.srt")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplaceExt(tt.path, tt.ext))
		})
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{name: "plain", input: "BBC News Report", max: 50, want: "BBC News Report"},
		{name: "specials stripped", input: "what?!/really:yes", max: 50, want: "whatreallyyes"},
		{name: "truncated", input: "aaaaaaaaaa", max: 5, want: "aaaaa"},
		{name: "trailing space trimmed", input: "abc ", max: 50, want: "abc"},
		{name: "non-ascii stripped to empty", input: "新闻视频", max: 50, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeName(tt.input, tt.max))
		})
	}
}

func TestStem(t *testing.T) {
	assert.Equal(t, "video", Stem("/tmp/video.mp4"))
	assert.Equal(t, "video", Stem("video.en.vtt"))
	assert.Equal(t, "noext", Stem("noext"))
}

func TestFindOlderThan(t *testing.T) {
	dir := t.TempDir()

	oldFile := filepath.Join(dir, "old.jpg")
	newFile := filepath.Join(dir, "new.jpg")
	require.NoError(t, os.WriteFile(oldFile, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(newFile, []byte("x"), 0644))

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(oldFile, past, past))

	stale, err := FindOlderThan(dir, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{oldFile}, stale)
}
