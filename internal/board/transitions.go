// Pure snapshot transitions. Every function returns a fresh slice and
// leaves its input untouched, so callers can hold the old and new lists
// side by side. Validation here is silent: a rejected input hands back
// the original list unchanged.
package board

// AddCategoryToList appends cat unless its name is blank or an existing
// category already carries the exact same name (case-sensitive).
func AddCategoryToList(categories []Category, cat Category) []Category {
	if cat.Name == "" {
		return categories
	}
	for _, existing := range categories {
		if existing.Name == cat.Name {
			return categories
		}
	}

	out := make([]Category, len(categories), len(categories)+1)
	copy(out, categories)
	return append(out, cat)
}

// RemoveCategoryFromList drops the category with the given id. Tasks that
// referenced it are left alone; they render as uncategorized until the
// next sync replaces them.
func RemoveCategoryFromList(categories []Category, categoryID string) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.ID != categoryID {
			out = append(out, c)
		}
	}
	return out
}

// AddTaskToList appends task only when its category resolves against the
// given category list.
func AddTaskToList(tasks []Task, categories []Category, task Task) []Task {
	resolved := false
	for _, c := range categories {
		if c.ID == task.CategoryID {
			resolved = true
			break
		}
	}
	if !resolved {
		return tasks
	}

	out := make([]Task, len(tasks), len(tasks)+1)
	copy(out, tasks)
	return append(out, task)
}

// ToggleTaskInList flips completion for the matching task. Becoming done
// sets the status to done; becoming undone always resets to not_started,
// never in_progress.
func ToggleTaskInList(tasks []Task, taskID string) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].ID != taskID {
			continue
		}
		out[i].IsDone = !out[i].IsDone
		if out[i].IsDone {
			out[i].Status = StatusDone
		} else {
			out[i].Status = StatusNotStarted
		}
	}
	return out
}

// UpdateTaskStatusInList sets the matching task's status and keeps the
// IsDone flag in lockstep with it.
func UpdateTaskStatusInList(tasks []Task, taskID string, status Status) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].ID == taskID {
			out[i].Status = status
			out[i].IsDone = status == StatusDone
		}
	}
	return out
}

// ClearCompletedTasks removes every done task, preserving the relative
// order of the remainder.
func ClearCompletedTasks(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsDone {
			out = append(out, t)
		}
	}
	return out
}

// RemoveTaskFromList drops the task with the given id; no-op when absent.
func RemoveTaskFromList(tasks []Task, taskID string) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != taskID {
			out = append(out, t)
		}
	}
	return out
}

// ReplaceTaskInList swaps in the authoritative copy of a task, keeping
// list order. No-op when the id is not present.
func ReplaceTaskInList(tasks []Task, task Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].ID == task.ID {
			out[i] = task
		}
	}
	return out
}

// AddMemberToList appends m unless its name is blank or another member
// already carries the exact same name.
func AddMemberToList(members []Member, m Member) []Member {
	if m.Name == "" {
		return members
	}
	for _, existing := range members {
		if existing.Name == m.Name {
			return members
		}
	}

	out := make([]Member, len(members), len(members)+1)
	copy(out, members)
	return append(out, m)
}

// UpdateMemberInList replaces the member with m.ID in place, preserving
// list order. No-op when the id is not present.
func UpdateMemberInList(members []Member, m Member) []Member {
	out := make([]Member, len(members))
	copy(out, members)
	for i := range out {
		if out[i].ID == m.ID {
			out[i] = m
		}
	}
	return out
}

// RemoveMemberFromList drops the member with the given id.
func RemoveMemberFromList(members []Member, memberID string) []Member {
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if m.ID != memberID {
			out = append(out, m)
		}
	}
	return out
}

// StripAssigneeFromTasks removes memberID from every task's assignee
// list. Run together with RemoveMemberFromList so no task keeps a
// reference to a member that no longer exists.
func StripAssigneeFromTasks(tasks []Task, memberID string) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		changed := false
		for _, id := range out[i].AssigneeIDs {
			if id == memberID {
				changed = true
				break
			}
		}
		if !changed {
			continue
		}
		kept := make([]string, 0, len(out[i].AssigneeIDs))
		for _, id := range out[i].AssigneeIDs {
			if id != memberID {
				kept = append(kept, id)
			}
		}
		out[i].AssigneeIDs = kept
	}
	return out
}

// AssignMembersToTask replaces the matching task's assignee list
// wholesale, dropping duplicate ids while keeping first-seen order.
func AssignMembersToTask(tasks []Task, taskID string, assigneeIDs []string) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].ID == taskID {
			out[i].AssigneeIDs = dedupeIDs(assigneeIDs)
		}
	}
	return out
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
