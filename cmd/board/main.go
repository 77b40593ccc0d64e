package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/wedding-prep/taskboard/config"
	"github.com/wedding-prep/taskboard/internal/board"
)

// The board daemon mirrors the persistence service into memory, keeps
// the snapshot fresh on a timer, and fires due-date alerts. A frontend
// talks to the same engine; this binary runs it headless.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gateway := board.NewClient(cfg.Board.APIBaseURL, cfg.Board.BasicAuthUser, cfg.Board.BasicAuthPass)

	var notifier board.Notifier = board.LogNotifier{}
	if cfg.Board.AlertURL != "" {
		notifier = board.NewHTTPNotifier(cfg.Board.AlertURL)
	}

	engine := board.NewEngine(gateway, notifier)

	ctx := context.Background()
	if err := engine.LoadAll(ctx); err != nil {
		// Initial load failure is the error-screen case: keep running
		// with the error state set, the next refresh may succeed.
		log.Printf("initial load failed: %v", err)
	} else {
		logSummary(engine)
	}

	scheduler := board.NewScheduler(engine)
	if err := scheduler.Start(cfg.Board.RefreshInterval); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	defer scheduler.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("board daemon stopping")
}

func logSummary(engine *board.Engine) {
	s := engine.Summary()
	log.Printf(
		"board: %d tasks (%d done), %d categories, %d%% progress, %d due soon, %d overdue",
		s.TotalTasks, s.CompletedTasks, s.Categories, s.AverageProgress,
		len(engine.DueSoon()), len(engine.Overdue()),
	)
}
