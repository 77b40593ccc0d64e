package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var viewNow = time.Date(2026, 2, 8, 12, 0, 0, 0, time.UTC)

func TestDueSoonAndOverdue(t *testing.T) {
	tasks := []Task{
		{ID: "soon", Due: "2026-02-10", Status: StatusInProgress},
		{ID: "today-ish", Due: "2026-02-09", Status: StatusNotStarted},
		{ID: "far", Due: "2026-03-20", Status: StatusNotStarted},
		{ID: "past", Due: "2026-01-10", Status: StatusInProgress},
		{ID: "done", Due: "2026-02-10", Status: StatusDone, IsDone: true},
		{ID: "no-due", Status: StatusNotStarted},
	}

	dueSoon := DueSoonTasks(tasks, viewNow)
	overdue := OverdueTasks(tasks, viewNow)

	assert.ElementsMatch(t, []string{"soon", "today-ish"}, taskIDs(dueSoon))
	assert.ElementsMatch(t, []string{"past"}, taskIDs(overdue))

	// The two sets stay disjoint for any task.
	for _, d := range dueSoon {
		assert.NotContains(t, taskIDs(overdue), d.ID)
	}
}

func TestDueSoonWindowBounds(t *testing.T) {
	atThreshold := []Task{{ID: "edge", Due: "2026-02-11", Status: StatusNotStarted}}
	// 2026-02-11 00:00 is exactly 2.5 days from viewNow, inside the window.
	assert.Len(t, DueSoonTasks(atThreshold, viewNow), 1)

	beyond := []Task{{ID: "beyond", Due: "2026-02-12", Status: StatusNotStarted}}
	// 3.5 days out, past the 3-day threshold.
	assert.Empty(t, DueSoonTasks(beyond, viewNow))
}

func TestUnparseableDueFailsOpen(t *testing.T) {
	tasks := []Task{{ID: "bad", Due: "someday", Status: StatusNotStarted}}

	assert.Empty(t, DueSoonTasks(tasks, viewNow))
	assert.Empty(t, OverdueTasks(tasks, viewNow))

	// The calendar still surfaces the raw string.
	events := CalendarEvents(tasks, nil)
	require.Len(t, events, 1)
	assert.Equal(t, "someday", events[0].Due)
}

func TestCalendarEvents(t *testing.T) {
	members := []Member{{ID: "m1", Name: "はな"}}
	tasks := []Task{
		{ID: "t1", Title: "前撮り", Due: "2026-02-15", Status: StatusInProgress, AssigneeIDs: []string{"m1", "m-gone"}},
		{ID: "t2", Title: "due なし"},
	}

	events := CalendarEvents(tasks, members)

	require.Len(t, events, 1, "tasks without a due date are not calendar events")
	assert.Equal(t, []string{"はな", "メンバー未設定"}, events[0].Assignees)
}

func TestTasksByStatus(t *testing.T) {
	tasks := []Task{
		{ID: "a", Status: StatusDone},
		{ID: "b", Status: StatusNotStarted},
		{ID: "c", Status: StatusInProgress},
		{ID: "d", Status: StatusNotStarted},
	}

	buckets := TasksByStatus(tasks)

	assert.Equal(t, []string{"b", "d"}, taskIDs(buckets.NotStarted))
	assert.Equal(t, []string{"c"}, taskIDs(buckets.InProgress))
	assert.Equal(t, []string{"a"}, taskIDs(buckets.Done))
}

func TestSummarize(t *testing.T) {
	t.Run("empty board reports zero progress", func(t *testing.T) {
		s := Summarize(nil, nil)
		assert.Equal(t, 0, s.AverageProgress)
		assert.Equal(t, 0, s.TotalTasks)
	})

	t.Run("weights done 100, in_progress 50, not_started 0", func(t *testing.T) {
		tasks := []Task{
			{Status: StatusDone, IsDone: true},
			{Status: StatusInProgress},
			{Status: StatusNotStarted},
		}
		s := Summarize([]Category{{ID: "c1"}}, tasks)

		assert.Equal(t, 3, s.TotalTasks)
		assert.Equal(t, 1, s.CompletedTasks)
		assert.Equal(t, 1, s.Categories)
		assert.Equal(t, 50, s.AverageProgress)
	})

	t.Run("rounds the average", func(t *testing.T) {
		tasks := []Task{
			{Status: StatusDone, IsDone: true},
			{Status: StatusNotStarted},
			{Status: StatusNotStarted},
		}
		s := Summarize(nil, tasks)
		assert.Equal(t, 33, s.AverageProgress)
	})
}

func TestCategoryStats(t *testing.T) {
	categories := []Category{{ID: "c1"}, {ID: "c2"}}
	tasks := []Task{
		{ID: "t1", CategoryID: "c1"},
		{ID: "t2", CategoryID: "c1"},
	}

	stats := CategoryStats(categories, tasks)

	require.Len(t, stats, 2)
	assert.Equal(t, 2, stats[0].Total)
	assert.Equal(t, 0, stats[1].Total)
}

// Completing a task removes it from both alert sets on the next
// recomputation.
func TestStatusChangeLeavesAlertSets(t *testing.T) {
	tasks := []Task{{
		ID:          "task-1",
		CategoryID:  "cat-a",
		Status:      StatusInProgress,
		Due:         "2026-02-10",
		AssigneeIDs: []string{"m1"},
	}}

	require.NotEmpty(t, DueSoonTasks(tasks, viewNow))

	updated := UpdateTaskStatusInList(tasks, "task-1", StatusDone)
	require.True(t, updated[0].IsDone)
	assert.Equal(t, StatusDone, updated[0].Status)

	assert.Empty(t, DueSoonTasks(updated, viewNow))
	assert.Empty(t, OverdueTasks(updated, viewNow))
}

func taskIDs(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}
