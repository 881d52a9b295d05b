package attachment

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"blog-backend/pkg/logger"
)

// Sweeper periodically removes staged files older than maxAge. Staged
// files normally live for one request; anything older was left behind by a
// crash between staging and cleanup.
type Sweeper struct {
	dir    string
	maxAge time.Duration
	cron   *cron.Cron
	now    func() time.Time
}

// NewSweeper schedules a sweep of dir on spec (standard cron or "@every").
func NewSweeper(dir string, maxAge time.Duration, spec string) (*Sweeper, error) {
	s := &Sweeper{
		dir:    dir,
		maxAge: maxAge,
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger))),
		now:    time.Now,
	}
	if _, err := s.cron.AddFunc(spec, func() { s.Sweep() }); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep removes stale regular files and returns how many were removed.
func (s *Sweeper) Sweep() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		logger.Warn("staging sweep failed", map[string]interface{}{"dir": s.dir, "error": err.Error()})
		return 0
	}

	cutoff := s.now().Add(-s.maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Warn("failed to remove stale staged file", map[string]interface{}{"path": path, "error": err.Error()})
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Info("removed stale staged files", map[string]interface{}{"count": removed, "dir": s.dir})
	}
	return removed
}
