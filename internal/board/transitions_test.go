package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCategoryToList(t *testing.T) {
	t.Run("appends a new category", func(t *testing.T) {
		list := []Category{{ID: "1", Name: "前撮り", Accent: AccentSky}}
		out := AddCategoryToList(list, Category{ID: "2", Name: "会場装飾", Accent: AccentBlush})

		require.Len(t, out, 2)
		assert.Equal(t, "会場装飾", out[1].Name)
		assert.Len(t, list, 1, "input list must not be mutated")
	})

	t.Run("no-op on exact name collision", func(t *testing.T) {
		list := []Category{{ID: "1", Name: "前撮り", Accent: AccentSky}}
		out := AddCategoryToList(list, Category{ID: "2", Name: "前撮り", Accent: AccentMint})

		assert.Len(t, out, 1)
		assert.Equal(t, "1", out[0].ID)
	})

	t.Run("no-op on blank name", func(t *testing.T) {
		out := AddCategoryToList(nil, Category{ID: "1", Name: ""})
		assert.Empty(t, out)
	})
}

func TestAddTaskToList(t *testing.T) {
	categories := []Category{{ID: "cat-a", Name: "前撮り", Accent: AccentSky}}

	t.Run("appends when category resolves", func(t *testing.T) {
		out := AddTaskToList(nil, categories, Task{ID: "t1", Title: "試食会", CategoryID: "cat-a"})
		require.Len(t, out, 1)
	})

	t.Run("no-op when category does not resolve", func(t *testing.T) {
		tasks := []Task{{ID: "t1", CategoryID: "cat-a"}}
		out := AddTaskToList(tasks, categories, Task{ID: "t2", CategoryID: "cat-missing"})
		assert.Len(t, out, 1)
	})
}

func TestToggleTaskInList(t *testing.T) {
	tasks := []Task{{ID: "t1", Status: StatusInProgress, IsDone: false}}

	toggled := ToggleTaskInList(tasks, "t1")
	require.True(t, toggled[0].IsDone)
	assert.Equal(t, StatusDone, toggled[0].Status)

	// Toggling back never restores in_progress.
	back := ToggleTaskInList(toggled, "t1")
	require.False(t, back[0].IsDone)
	assert.Equal(t, StatusNotStarted, back[0].Status)

	assert.Equal(t, StatusInProgress, tasks[0].Status, "input list must not be mutated")
}

func TestUpdateTaskStatusInList(t *testing.T) {
	tasks := []Task{{ID: "t1", Status: StatusNotStarted}}

	done := UpdateTaskStatusInList(tasks, "t1", StatusDone)
	assert.True(t, done[0].IsDone)

	inProgress := UpdateTaskStatusInList(done, "t1", StatusInProgress)
	assert.False(t, inProgress[0].IsDone)

	notStarted := UpdateTaskStatusInList(done, "t1", StatusNotStarted)
	assert.False(t, notStarted[0].IsDone)
}

func TestClearCompletedTasks(t *testing.T) {
	tasks := []Task{
		{ID: "t1", IsDone: false},
		{ID: "t2", IsDone: true},
		{ID: "t3", IsDone: false},
		{ID: "t4", IsDone: true},
	}

	out := ClearCompletedTasks(tasks)

	require.Len(t, out, 2)
	assert.Equal(t, "t1", out[0].ID)
	assert.Equal(t, "t3", out[1].ID, "relative order of the remainder is preserved")
}

func TestRemoveTaskFromList(t *testing.T) {
	tasks := []Task{{ID: "t1"}, {ID: "t2"}}

	out := RemoveTaskFromList(tasks, "t1")
	require.Len(t, out, 1)
	assert.Equal(t, "t2", out[0].ID)

	same := RemoveTaskFromList(tasks, "t-missing")
	assert.Len(t, same, 2)
}

func TestAddMemberToList(t *testing.T) {
	t.Run("no-op on duplicate name", func(t *testing.T) {
		list := AddMemberToList(nil, Member{ID: "m1", Name: "はな"})
		list = AddMemberToList(list, Member{ID: "m2", Name: "はな"})

		require.Len(t, list, 1)
		assert.Equal(t, "m1", list[0].ID)
	})

	t.Run("no-op on blank name", func(t *testing.T) {
		assert.Empty(t, AddMemberToList(nil, Member{ID: "m1"}))
	})
}

func TestUpdateMemberInList(t *testing.T) {
	list := []Member{
		{ID: "m1", Name: "はな"},
		{ID: "m2", Name: "だいち"},
	}

	out := UpdateMemberInList(list, Member{ID: "m2", Name: "だいち", Role: "新郎"})

	require.Len(t, out, 2)
	assert.Equal(t, "m1", out[0].ID, "order is preserved")
	assert.Equal(t, "新郎", out[1].Role)
}

func TestRemoveMemberAndStripAssignees(t *testing.T) {
	members := []Member{{ID: "m1", Name: "はな"}, {ID: "m2", Name: "ゆい"}}
	tasks := []Task{
		{ID: "t1", AssigneeIDs: []string{"m1", "m2"}},
		{ID: "t2", AssigneeIDs: []string{"m2"}},
	}

	members = RemoveMemberFromList(members, "m2")
	tasks = StripAssigneeFromTasks(tasks, "m2")

	require.Len(t, members, 1)
	assert.Equal(t, []string{"m1"}, tasks[0].AssigneeIDs)
	assert.Empty(t, tasks[1].AssigneeIDs)
}

func TestAssignMembersToTask(t *testing.T) {
	tasks := []Task{{ID: "t1", AssigneeIDs: []string{"m1"}}}

	out := AssignMembersToTask(tasks, "t1", []string{"m2", "m3", "m2"})

	assert.Equal(t, []string{"m2", "m3"}, out[0].AssigneeIDs, "duplicates are dropped")
}
