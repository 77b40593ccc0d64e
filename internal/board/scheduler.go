package board

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler re-syncs the engine snapshot on a fixed interval. Each tick
// calls Refresh in silent mode: the loading indicator stays put, the
// error state still surfaces on failure. Ticks are independent of any
// manual refresh and are not de-duplicated against one another;
// Refresh is idempotent and the last response wins.
type Scheduler struct {
	engine *Engine
	cron   *cron.Cron
}

func NewScheduler(engine *Engine) *Scheduler {
	return &Scheduler{
		engine: engine,
		cron:   cron.New(cron.WithSeconds()),
	}
}

// Start begins refreshing every intervalSeconds. Call Stop on shutdown.
func (s *Scheduler) Start(intervalSeconds int) error {
	spec := fmt.Sprintf("*/%d * * * * *", intervalSeconds)
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.engine.Refresh(context.Background()); err != nil {
			log.Printf("[refresh] silent refresh failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}

	s.cron.Start()
	log.Printf("Refresh scheduler started (every %ds)", intervalSeconds)
	return nil
}

// Stop halts the schedule. An in-flight refresh is never cancelled; it
// finishes and folds its response like any other.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
