package scratch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/file"
	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/log"
)

const (
	// maxSessionNameLen bounds the sanitized display-name part of a
	// session directory.
	maxSessionNameLen = 50

	sessionTimeFormat = "20060102_150405"
)

// Manager owns the shared scratch root and the durable analysis root.
// Scratch files are intermediate byproducts cleaned per request (or swept by
// age); session directories are kept for inspection and never auto-deleted.
type Manager struct {
	scratchDir  string
	analysisDir string
	logger      *log.Logger

	now func() time.Time
}

func NewManager(scratchDir, analysisDir string, logger *log.Logger) *Manager {
	return &Manager{
		scratchDir:  scratchDir,
		analysisDir: analysisDir,
		logger:      logger,
		now:         time.Now,
	}
}

func (m *Manager) ScratchDir() string {
	return m.scratchDir
}

func (m *Manager) AnalysisDir() string {
	return m.analysisDir
}

// EnsureScratchDir creates the shared scratch root if absent. Idempotent.
func (m *Manager) EnsureScratchDir() error {
	if err := os.MkdirAll(m.scratchDir, 0755); err != nil {
		return fmt.Errorf("failed to create scratch directory %s: %w", m.scratchDir, err)
	}
	return nil
}

// NewRequestID returns a collision-free identifier used to derive every
// scratch filename belonging to one request.
func (m *Manager) NewRequestID() string {
	return uuid.New().String()
}

// ScratchPath returns a path under the scratch root for the given request
// and suffix, e.g. ScratchPath("<id>", "audio.mp3") -> <scratch>/<id>_audio.mp3.
func (m *Manager) ScratchPath(requestID, suffix string) string {
	return filepath.Join(m.scratchDir, fmt.Sprintf("%s_%s", requestID, suffix))
}

// CreateSession creates a fresh session directory named from a timestamp
// plus a sanitized version of displayName. Timestamp collisions under rapid
// invocation are disambiguated with a numeric suffix, never fatal.
func (m *Manager) CreateSession(displayName string) (string, error) {
	if err := os.MkdirAll(m.analysisDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create analysis directory %s: %w", m.analysisDir, err)
	}

	safe := file.SafeName(displayName, maxSessionNameLen)
	if safe == "" {
		safe = "unknown"
	}

	base := fmt.Sprintf("%s_%s", m.now().Format(sessionTimeFormat), safe)
	sessionPath := filepath.Join(m.analysisDir, base)

	for attempt := 2; ; attempt++ {
		err := os.Mkdir(sessionPath, 0755)
		if err == nil {
			m.logger.Info("Created analysis session folder: %s", sessionPath)
			return sessionPath, nil
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("failed to create session directory %s: %w", sessionPath, err)
		}
		sessionPath = filepath.Join(m.analysisDir, fmt.Sprintf("%s_%d", base, attempt))
	}
}

// Cleanup deletes each path if it exists. Per-file deletion failures are
// logged, not raised. Returns the number removed and the number requested.
func (m *Manager) Cleanup(paths []string) (removed, requested int) {
	requested = len(paths)
	m.logger.Info("Cleaning up %d temporary files", requested)

	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			m.logger.Error("Failed to delete %s: %v", filepath.Base(path), err)
			continue
		}
		m.logger.Debug("Deleted: %s", filepath.Base(path))
		removed++
	}

	m.logger.Info("Cleanup complete: %d/%d files removed", removed, requested)
	return removed, requested
}
