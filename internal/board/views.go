package board

import (
	"math"
	"time"
)

// AlertDaysThreshold is the due-soon look-ahead window in days.
const AlertDaysThreshold = 3

// DateLayout is the wire format for due dates: calendar date, no time.
const DateLayout = "2006-01-02"

const unassignedLabel = "メンバー未設定"

// StatusBuckets partitions tasks by status, preserving snapshot order.
type StatusBuckets struct {
	NotStarted []Task
	InProgress []Task
	Done       []Task
}

// TasksByStatus buckets tasks by their status value.
func TasksByStatus(tasks []Task) StatusBuckets {
	var b StatusBuckets
	for _, t := range tasks {
		switch t.Status {
		case StatusInProgress:
			b.InProgress = append(b.InProgress, t)
		case StatusDone:
			b.Done = append(b.Done, t)
		default:
			b.NotStarted = append(b.NotStarted, t)
		}
	}
	return b
}

// DueSoonTasks returns unfinished tasks due within the look-ahead window
// from now, inclusive at both ends. Tasks without a due date, done tasks,
// and tasks whose due date does not parse are excluded.
func DueSoonTasks(tasks []Task, now time.Time) []Task {
	var out []Task
	for _, t := range tasks {
		if due, ok := parseDue(t); ok {
			diffDays := due.Sub(now).Hours() / 24
			if diffDays >= 0 && diffDays <= AlertDaysThreshold {
				out = append(out, t)
			}
		}
	}
	return out
}

// OverdueTasks returns unfinished tasks whose due date is strictly in the
// past. Disjoint from DueSoonTasks for any task.
func OverdueTasks(tasks []Task, now time.Time) []Task {
	var out []Task
	for _, t := range tasks {
		if due, ok := parseDue(t); ok && due.Before(now) {
			out = append(out, t)
		}
	}
	return out
}

// parseDue reports whether the task is a candidate for due-date alerts:
// it has a due date, is not done, and the date parses. An unparseable
// due date fails open (never alerted) rather than breaking the sweep.
func parseDue(t Task) (time.Time, bool) {
	if t.Due == "" || t.IsDone {
		return time.Time{}, false
	}
	due, err := time.Parse(DateLayout, t.Due)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}

// CalendarEvent is a task projected onto the calendar view. Due carries
// the raw string even when it does not parse; the calendar still shows it.
type CalendarEvent struct {
	ID        string
	Title     string
	Due       string
	Status    Status
	Assignees []string
}

// CalendarEvents projects every dated task into a calendar event with
// assignee ids resolved to member names.
func CalendarEvents(tasks []Task, members []Member) []CalendarEvent {
	byID := MembersByID(members)
	var out []CalendarEvent
	for _, t := range tasks {
		if t.Due == "" {
			continue
		}
		names := make([]string, 0, len(t.AssigneeIDs))
		for _, id := range t.AssigneeIDs {
			if m, ok := byID[id]; ok {
				names = append(names, m.Name)
			} else {
				names = append(names, unassignedLabel)
			}
		}
		out = append(out, CalendarEvent{
			ID:        t.ID,
			Title:     t.Title,
			Due:       t.Due,
			Status:    t.Status,
			Assignees: names,
		})
	}
	return out
}

// MembersByID indexes members by id for assignee resolution.
func MembersByID(members []Member) map[string]Member {
	byID := make(map[string]Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	return byID
}

// CategoryStat pairs a category with its task count.
type CategoryStat struct {
	Category Category
	Total    int
}

// CategoryStats counts tasks per category, in category order.
func CategoryStats(categories []Category, tasks []Task) []CategoryStat {
	out := make([]CategoryStat, 0, len(categories))
	for _, c := range categories {
		total := 0
		for _, t := range tasks {
			if t.CategoryID == c.ID {
				total++
			}
		}
		out = append(out, CategoryStat{Category: c, Total: total})
	}
	return out
}

// Summary aggregates the whole board for the header widgets.
type Summary struct {
	TotalTasks      int
	CompletedTasks  int
	Categories      int
	AverageProgress int
}

// Summarize computes board totals. Progress weighs done tasks at 100,
// in-progress at 50 and not-started at 0; an empty board reports 0.
func Summarize(categories []Category, tasks []Task) Summary {
	s := Summary{
		TotalTasks: len(tasks),
		Categories: len(categories),
	}
	if len(tasks) == 0 {
		return s
	}

	progress := 0
	for _, t := range tasks {
		if t.IsDone {
			s.CompletedTasks++
		}
		switch t.Status {
		case StatusDone:
			progress += 100
		case StatusInProgress:
			progress += 50
		}
	}
	s.AverageProgress = int(math.Round(float64(progress) / float64(len(tasks))))
	return s
}
