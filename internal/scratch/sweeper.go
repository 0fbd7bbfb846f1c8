package scratch

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/file"
	"github.com/sairishigangarapu/Vigil-AI-Engine/pkg/log"
)

// Sweeper periodically removes scratch files older than maxAge. Session
// directories are never touched; only the shared scratch root is swept.
type Sweeper struct {
	manager *Manager
	maxAge  time.Duration
	logger  *log.Logger
}

func NewSweeper(manager *Manager, maxAge time.Duration, logger *log.Logger) *Sweeper {
	return &Sweeper{
		manager: manager,
		maxAge:  maxAge,
		logger:  logger,
	}
}

// SweepOnce removes stale scratch files and returns how many were deleted.
func (s *Sweeper) SweepOnce() (int, error) {
	cutoff := time.Now().Add(-s.maxAge)

	stale, err := file.FindOlderThan(s.manager.ScratchDir(), cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to scan scratch directory: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	removed, requested := s.manager.Cleanup(stale)
	s.logger.Info("Scratch sweep removed %d/%d stale files", removed, requested)
	return removed, nil
}

// Schedule registers the sweep on the given cron using cronExpr (with
// seconds field) and returns the entry id.
func (s *Sweeper) Schedule(c *cron.Cron, cronExpr string) (cron.EntryID, error) {
	id, err := c.AddFunc(cronExpr, func() {
		if _, err := s.SweepOnce(); err != nil {
			s.logger.Error("Scratch sweep failed: %v", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("invalid sweep cron expression %q: %w", cronExpr, err)
	}
	return id, nil
}
