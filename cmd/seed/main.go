package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/wedding-prep/taskboard/config"
	"github.com/wedding-prep/taskboard/internal/categories"
	"github.com/wedding-prep/taskboard/internal/members"
	"github.com/wedding-prep/taskboard/internal/storage"
	"github.com/wedding-prep/taskboard/internal/tasks"
)

// Seeds the sample wedding board. Safe to run twice: categories and
// members dedupe on their unique names, and tasks are skipped when their
// title already exists.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	pool, err := storage.Open(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	if err := storage.Bootstrap(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	catRepo := categories.NewRepo(pool)
	memberRepo := members.NewRepo(pool)
	taskRepo := tasks.NewRepo(pool)

	seedCategories := []categories.CreateInput{
		{Name: "前撮り", Accent: "sky", Emoji: "📷"},
		{Name: "会場装飾", Accent: "blush", Emoji: "🎀"},
		{Name: "ヘアメイク", Accent: "lavender", Emoji: "💄"},
	}
	for _, input := range seedCategories {
		if _, err := catRepo.Create(ctx, input); err != nil {
			if errors.Is(err, categories.ErrDuplicateName) {
				continue
			}
			log.Fatalf("seed category %q: %v", input.Name, err)
		}
		log.Printf("seeded category %q", input.Name)
	}

	bride := "花嫁"
	groom := "花婿"
	seedMembers := []members.CreateInput{
		{Name: "花嫁", Role: &bride},
		{Name: "花婿", Role: &groom},
	}
	for _, input := range seedMembers {
		if _, err := memberRepo.Create(ctx, input); err != nil {
			if errors.Is(err, members.ErrDuplicateName) {
				continue
			}
			log.Fatalf("seed member %q: %v", input.Name, err)
		}
		log.Printf("seeded member %q", input.Name)
	}

	catIDs, err := categoryIDsByName(ctx, catRepo)
	if err != nil {
		log.Fatalf("load categories: %v", err)
	}
	memberIDs, err := memberIDsByName(ctx, memberRepo)
	if err != nil {
		log.Fatalf("load members: %v", err)
	}
	existing, err := taskTitles(ctx, taskRepo)
	if err != nil {
		log.Fatalf("load tasks: %v", err)
	}

	inProgress := "in_progress"
	done := "done"
	isDone := true
	dueShoot := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	dueDecor := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)

	seedTasks := []tasks.CreateInput{
		{
			Title:       "前撮りのスケジュール調整",
			CategoryID:  catIDs["前撮り"],
			Emoji:       "📸",
			Status:      &inProgress,
			Due:         &dueShoot,
			AssigneeIDs: []int64{memberIDs["花嫁"]},
		},
		{
			Title:       "会場装飾の打ち合わせ",
			CategoryID:  catIDs["会場装飾"],
			Emoji:       "🎀",
			Status:      &done,
			IsDone:      &isDone,
			Due:         &dueDecor,
			AssigneeIDs: []int64{memberIDs["花婿"]},
		},
	}
	for _, input := range seedTasks {
		if existing[input.Title] {
			continue
		}
		if _, err := taskRepo.Create(ctx, input); err != nil {
			log.Fatalf("seed task %q: %v", input.Title, err)
		}
		log.Printf("seeded task %q", input.Title)
	}

	log.Println("seed complete")
}

func categoryIDsByName(ctx context.Context, repo *categories.Repo) (map[string]int64, error) {
	list, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(list))
	for _, c := range list {
		out[c.Name] = c.ID
	}
	return out, nil
}

func memberIDsByName(ctx context.Context, repo *members.Repo) (map[string]int64, error) {
	list, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(list))
	for _, m := range list {
		out[m.Name] = m.ID
	}
	return out, nil
}

func taskTitles(ctx context.Context, repo *tasks.Repo) (map[string]bool, error) {
	list, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(list))
	for _, t := range list {
		out[t.Title] = true
	}
	return out, nil
}
