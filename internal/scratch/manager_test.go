package scratch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	root := t.TempDir()
	return NewManager(
		filepath.Join(root, "scratch"),
		filepath.Join(root, "analysis"),
		log.NewLogger(log.LevelError),
	)
}

func TestEnsureScratchDirIdempotent(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.EnsureScratchDir())
	require.NoError(t, m.EnsureScratchDir())

	info, err := os.Stat(m.ScratchDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateSessionNaming(t *testing.T) {
	m := newTestManager(t)
	m.now = func() time.Time {
		return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	}

	path, err := m.CreateSession("BBC: breaking/news!")
	require.NoError(t, err)

	assert.Equal(t, "20260314_150926_BBC breakingnews", filepath.Base(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateSessionEmptyNameUsesPlaceholder(t *testing.T) {
	m := newTestManager(t)
	m.now = func() time.Time {
		return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	}

	path, err := m.CreateSession("")
	require.NoError(t, err)
	assert.Equal(t, "20260314_150926_unknown", filepath.Base(path))
}

func TestCreateSessionCollisionDisambiguates(t *testing.T) {
	m := newTestManager(t)
	fixed := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	first, err := m.CreateSession("same title")
	require.NoError(t, err)
	second, err := m.CreateSession("same title")
	require.NoError(t, err)
	third, err := m.CreateSession("same title")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, second, third)
	for _, p := range []string{first, second, third} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestCleanupCountsOnlyExisting(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.EnsureScratchDir())

	existing := []string{
		m.ScratchPath("req", "frame_0.jpg"),
		m.ScratchPath("req", "frame_1.jpg"),
	}
	for _, p := range existing {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}
	missing := m.ScratchPath("req", "never_written.jpg")

	removed, requested := m.Cleanup(append(existing, missing, ""))

	assert.Equal(t, 2, removed)
	assert.Equal(t, 4, requested)
	for _, p := range existing {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err))
	}
}

func TestScratchPathIsRequestScoped(t *testing.T) {
	m := newTestManager(t)

	a := m.ScratchPath(m.NewRequestID(), "audio.mp3")
	b := m.ScratchPath(m.NewRequestID(), "audio.mp3")
	assert.NotEqual(t, a, b)
}

func TestSweepOnceRemovesOnlyStaleFiles(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.EnsureScratchDir())

	stale := m.ScratchPath("old", "frame.jpg")
	fresh := m.ScratchPath("new", "frame.jpg")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0644))
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, past, past))

	sweeper := NewSweeper(m, time.Hour, log.NewLogger(log.LevelError))
	removed, err := sweeper.SweepOnce()
	require.NoError(t, err)

	assert.Equal(t, 1, removed)
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}
