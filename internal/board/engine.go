package board

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Engine owns the in-memory board snapshot and is the only sanctioned
// way to mutate it. Every mutating command round-trips the gateway first
// and folds the service's authoritative response into the snapshot; a
// locally constructed entity never becomes final state.
//
// Commands taken from two callers for the same entity are folded in
// whichever order their responses land. There is no version guard, so a
// stale response can overwrite a newer one; last response wins.
type Engine struct {
	gateway  Gateway
	notifier Notifier
	now      func() time.Time

	mu       sync.Mutex
	snapshot Snapshot
	loaded   bool
	loading  bool
	errMsg   string
	alerted  map[string]struct{}
}

// NewEngine creates an engine with an empty snapshot. The alerted-task
// set starts empty and lives as long as the engine: a task alerts at most
// once per engine lifetime, and a data refresh never resets it.
func NewEngine(gateway Gateway, notifier Notifier) *Engine {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Engine{
		gateway:  gateway,
		notifier: notifier,
		now:      time.Now,
		alerted:  make(map[string]struct{}),
	}
}

// Snapshot returns a copy of the current board state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Categories: append([]Category(nil), e.snapshot.Categories...),
		Members:    append([]Member(nil), e.snapshot.Members...),
		Tasks:      append([]Task(nil), e.snapshot.Tasks...),
	}
}

// Err returns the current human-readable error state, empty when healthy.
func (e *Engine) Err() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errMsg
}

// Loading reports whether a non-silent load is in flight.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Loaded reports whether at least one full load has succeeded.
func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// LoadAll fetches categories, members and tasks in parallel and replaces
// the snapshot. The replace is all-or-nothing: if any fetch fails the
// previous snapshot stays visible and the error state is set.
func (e *Engine) LoadAll(ctx context.Context) error {
	return e.load(ctx, false)
}

// Refresh is LoadAll in silent mode: the loading flag is left alone so a
// background refresh never flips the UI back into its loading screen.
// Concurrent refreshes are not de-duplicated; the last response wins.
func (e *Engine) Refresh(ctx context.Context) error {
	return e.load(ctx, true)
}

func (e *Engine) load(ctx context.Context, silent bool) error {
	if !silent {
		e.mu.Lock()
		e.loading = true
		e.mu.Unlock()
	}

	var (
		wg         sync.WaitGroup
		categories []Category
		members    []Member
		tasks      []Task
		catErr     error
		memErr     error
		taskErr    error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		categories, catErr = e.gateway.ListCategories(ctx)
	}()
	go func() {
		defer wg.Done()
		members, memErr = e.gateway.ListMembers(ctx)
	}()
	go func() {
		defer wg.Done()
		tasks, taskErr = e.gateway.ListTasks(ctx)
	}()
	wg.Wait()

	e.mu.Lock()
	if !silent {
		e.loading = false
	}
	for _, err := range []error{catErr, memErr, taskErr} {
		if err != nil {
			e.errMsg = "データの読み込みに失敗しました: " + err.Error()
			e.mu.Unlock()
			return err
		}
	}
	e.snapshot = Snapshot{Categories: categories, Members: members, Tasks: tasks}
	e.loaded = true
	e.errMsg = ""
	e.mu.Unlock()

	e.sweepAlerts(ctx)
	return nil
}

// AddCategory persists a category and appends the returned record.
// Silent no-op on a blank name or an exact-name collision.
func (e *Engine) AddCategory(ctx context.Context, input AddCategoryInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil
	}

	e.mu.Lock()
	for _, c := range e.snapshot.Categories {
		if c.Name == input.Name {
			e.mu.Unlock()
			return nil
		}
	}
	e.mu.Unlock()

	created, err := e.gateway.CreateCategory(ctx, input)
	if err != nil {
		e.setErr("カテゴリーの追加に失敗しました", err)
		return err
	}

	e.mu.Lock()
	e.snapshot.Categories = AddCategoryToList(e.snapshot.Categories, created)
	e.errMsg = ""
	e.mu.Unlock()
	return nil
}

// RemoveCategory deletes a category. The service cascade-deletes its
// tasks; locally they stay until the next refresh and render as
// uncategorized in the meantime.
func (e *Engine) RemoveCategory(ctx context.Context, categoryID string) error {
	if err := e.gateway.DeleteCategory(ctx, categoryID); err != nil {
		e.setErr("カテゴリーの削除に失敗しました", err)
		return err
	}

	e.mu.Lock()
	e.snapshot.Categories = RemoveCategoryFromList(e.snapshot.Categories, categoryID)
	e.errMsg = ""
	e.mu.Unlock()
	return nil
}

// AddMember persists a member and appends the returned record. Silent
// no-op on a blank name or an exact-name collision. Optional fields are
// trimmed; whitespace-only values are dropped.
func (e *Engine) AddMember(ctx context.Context, input AddMemberInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Role = strings.TrimSpace(input.Role)
	input.ContactEmail = strings.TrimSpace(input.ContactEmail)
	input.ContactLineID = strings.TrimSpace(input.ContactLineID)
	if input.Name == "" {
		return nil
	}

	e.mu.Lock()
	for _, m := range e.snapshot.Members {
		if m.Name == input.Name {
			e.mu.Unlock()
			return nil
		}
	}
	e.mu.Unlock()

	created, err := e.gateway.CreateMember(ctx, input)
	if err != nil {
		e.setErr("メンバーの追加に失敗しました", err)
		return err
	}

	e.mu.Lock()
	e.snapshot.Members = AddMemberToList(e.snapshot.Members, created)
	e.errMsg = ""
	e.mu.Unlock()
	return nil
}

// UpdateMember persists member changes and replaces the entry in place,
// preserving list order. Silent no-op on a blank name, or when a
// different member already carries the exact same name.
func (e *Engine) UpdateMember(ctx context.Context, input UpdateMemberInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Role = strings.TrimSpace(input.Role)
	input.ContactEmail = strings.TrimSpace(input.ContactEmail)
	input.ContactLineID = strings.TrimSpace(input.ContactLineID)
	if input.Name == "" {
		return nil
	}

	e.mu.Lock()
	for _, m := range e.snapshot.Members {
		if m.Name == input.Name && m.ID != input.ID {
			e.mu.Unlock()
			return nil
		}
	}
	e.mu.Unlock()

	updated, err := e.gateway.UpdateMember(ctx, input)
	if err != nil {
		e.setErr("メンバーの更新に失敗しました", err)
		return err
	}

	e.mu.Lock()
	e.snapshot.Members = UpdateMemberInList(e.snapshot.Members, updated)
	e.errMsg = ""
	e.mu.Unlock()
	return nil
}

// RemoveMember deletes a member and, in the same update, strips its id
// from every task's assignee list so no task references a member that no
// longer exists.
func (e *Engine) RemoveMember(ctx context.Context, memberID string) error {
	if err := e.gateway.DeleteMember(ctx, memberID); err != nil {
		e.setErr("メンバーの削除に失敗しました", err)
		return err
	}

	e.mu.Lock()
	e.snapshot.Members = RemoveMemberFromList(e.snapshot.Members, memberID)
	e.snapshot.Tasks = StripAssigneeFromTasks(e.snapshot.Tasks, memberID)
	e.errMsg = ""
	e.mu.Unlock()
	return nil
}

// AddTask persists a task and appends the returned record. Silent no-op
// when the trimmed title is empty or the category does not resolve.
// Assignee ids that do not resolve to a current member are dropped, not
// rejected. New tasks always start not_started and not done.
func (e *Engine) AddTask(ctx context.Context, input AddTaskInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Notes = strings.TrimSpace(input.Notes)
	input.Due = strings.TrimSpace(input.Due)
	if input.Title == "" {
		return nil
	}

	e.mu.Lock()
	categoryOK := false
	for _, c := range e.snapshot.Categories {
		if c.ID == input.CategoryID {
			categoryOK = true
			break
		}
	}
	if !categoryOK {
		e.mu.Unlock()
		return nil
	}
	known := MembersByID(e.snapshot.Members)
	e.mu.Unlock()

	resolved := make([]string, 0, len(input.AssigneeIDs))
	for _, id := range dedupeIDs(input.AssigneeIDs) {
		if _, ok := known[id]; ok {
			resolved = append(resolved, id)
		}
	}
	input.AssigneeIDs = resolved

	created, err := e.gateway.CreateTask(ctx, input)
	if err != nil {
		e.setErr("タスクの追加に失敗しました", err)
		return err
	}

	e.mu.Lock()
	e.snapshot.Tasks = AddTaskToList(e.snapshot.Tasks, e.snapshot.Categories, created)
	e.errMsg = ""
	e.mu.Unlock()

	e.sweepAlerts(ctx)
	return nil
}

// UpdateTaskStatus persists a status change, keeping is_done in lockstep,
// and replaces the task with the service's response.
func (e *Engine) UpdateTaskStatus(ctx context.Context, taskID string, status Status) error {
	if !ValidStatus(status) {
		return nil
	}

	updated, err := e.gateway.UpdateTask(ctx, taskID, StatusPatch(status))
	if err != nil {
		e.setErr("タスクの更新に失敗しました", err)
		return err
	}

	e.foldTask(updated)
	e.sweepAlerts(ctx)
	return nil
}

// ToggleTask flips a task's completion. Completing sets status done;
// un-completing always resets to not_started, never in_progress.
func (e *Engine) ToggleTask(ctx context.Context, taskID string) error {
	e.mu.Lock()
	var current *Task
	for i := range e.snapshot.Tasks {
		if e.snapshot.Tasks[i].ID == taskID {
			current = &e.snapshot.Tasks[i]
			break
		}
	}
	if current == nil {
		e.mu.Unlock()
		return nil
	}
	next := StatusDone
	if current.IsDone {
		next = StatusNotStarted
	}
	e.mu.Unlock()

	updated, err := e.gateway.UpdateTask(ctx, taskID, StatusPatch(next))
	if err != nil {
		e.setErr("タスクの更新に失敗しました", err)
		return err
	}

	e.foldTask(updated)
	e.sweepAlerts(ctx)
	return nil
}

// AssignMembers replaces a task's assignee list wholesale. Ids are not
// validated locally; the service decides, and its response is what lands
// in the snapshot.
func (e *Engine) AssignMembers(ctx context.Context, taskID string, assigneeIDs []string) error {
	if assigneeIDs == nil {
		assigneeIDs = []string{}
	}

	updated, err := e.gateway.UpdateTask(ctx, taskID, TaskPatch{AssigneeIDs: assigneeIDs})
	if err != nil {
		e.setErr("担当者の更新に失敗しました", err)
		return err
	}

	e.foldTask(updated)
	return nil
}

// RemoveTask deletes a task and drops it from the snapshot.
func (e *Engine) RemoveTask(ctx context.Context, taskID string) error {
	if err := e.gateway.DeleteTask(ctx, taskID); err != nil {
		e.setErr("タスクの削除に失敗しました", err)
		return err
	}

	e.mu.Lock()
	e.snapshot.Tasks = RemoveTaskFromList(e.snapshot.Tasks, taskID)
	e.errMsg = ""
	e.mu.Unlock()
	return nil
}

// ClearCompleted deletes every done task, issuing the deletes
// concurrently. Tasks whose delete succeeded are dropped even when
// others fail; the first failure sets the error state.
func (e *Engine) ClearCompleted(ctx context.Context) error {
	e.mu.Lock()
	var doneIDs []string
	for _, t := range e.snapshot.Tasks {
		if t.IsDone {
			doneIDs = append(doneIDs, t.ID)
		}
	}
	e.mu.Unlock()

	if len(doneIDs) == 0 {
		return nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		deleted  = make(map[string]struct{}, len(doneIDs))
	)
	wg.Add(len(doneIDs))
	for _, id := range doneIDs {
		go func(id string) {
			defer wg.Done()
			if err := e.gateway.DeleteTask(ctx, id); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			mu.Lock()
			deleted[id] = struct{}{}
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	e.mu.Lock()
	kept := make([]Task, 0, len(e.snapshot.Tasks))
	for _, t := range e.snapshot.Tasks {
		if _, ok := deleted[t.ID]; !ok {
			kept = append(kept, t)
		}
	}
	e.snapshot.Tasks = kept
	if firstErr == nil {
		e.errMsg = ""
	}
	e.mu.Unlock()

	if firstErr != nil {
		e.setErr("完了タスクの削除に失敗しました", firstErr)
	}
	return firstErr
}

// Derived views. Each one recomputes from the current snapshot.

func (e *Engine) Summary() Summary {
	s := e.Snapshot()
	return Summarize(s.Categories, s.Tasks)
}

func (e *Engine) TasksByStatus() StatusBuckets {
	return TasksByStatus(e.Snapshot().Tasks)
}

func (e *Engine) DueSoon() []Task {
	return DueSoonTasks(e.Snapshot().Tasks, e.now())
}

func (e *Engine) Overdue() []Task {
	return OverdueTasks(e.Snapshot().Tasks, e.now())
}

func (e *Engine) CalendarEvents() []CalendarEvent {
	s := e.Snapshot()
	return CalendarEvents(s.Tasks, s.Members)
}

func (e *Engine) CategoryStats() []CategoryStat {
	s := e.Snapshot()
	return CategoryStats(s.Categories, s.Tasks)
}

func (e *Engine) foldTask(task Task) {
	e.mu.Lock()
	e.snapshot.Tasks = ReplaceTaskInList(e.snapshot.Tasks, task)
	e.errMsg = ""
	e.mu.Unlock()
}

func (e *Engine) setErr(message string, err error) {
	e.mu.Lock()
	e.errMsg = message + ": " + err.Error()
	e.mu.Unlock()
}

// sweepAlerts fires the notifier for every task that just entered the
// due-soon or overdue set, at most once per task id for the lifetime of
// the engine. Delivery happens outside the snapshot lock.
func (e *Engine) sweepAlerts(ctx context.Context) {
	now := e.now()

	e.mu.Lock()
	byID := MembersByID(e.snapshot.Members)
	pending := append(
		DueSoonTasks(e.snapshot.Tasks, now),
		OverdueTasks(e.snapshot.Tasks, now)...,
	)

	var alerts []Alert
	for _, t := range pending {
		if _, seen := e.alerted[t.ID]; seen {
			continue
		}
		e.alerted[t.ID] = struct{}{}

		assignees := make([]AlertAssignee, 0, len(t.AssigneeIDs))
		for _, id := range t.AssigneeIDs {
			if m, ok := byID[id]; ok {
				assignees = append(assignees, AlertAssignee{
					Name:          m.Name,
					ContactEmail:  m.ContactEmail,
					ContactLineID: m.ContactLineID,
				})
			}
		}
		alerts = append(alerts, Alert{
			TaskID:    t.ID,
			Title:     t.Title,
			Due:       t.Due,
			Status:    t.Status,
			Assignees: assignees,
		})
	}
	e.mu.Unlock()

	for _, alert := range alerts {
		e.notifier.Notify(ctx, alert)
	}
}
