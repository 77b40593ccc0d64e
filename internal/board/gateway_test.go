package board

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientListTasksMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wedding-tasks", r.URL.Path)
		require.Equal(t, http.MethodGet, r.Method)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "wedding", user)
		assert.Equal(t, "secret", pass)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"id": 10,
				"title": "前撮りのスケジュール調整",
				"category_id": 1,
				"emoji": "📸",
				"status": "in_progress",
				"is_done": false,
				"due": "2026-02-10T00:00:00.000000Z",
				"notes": "ロケ地を確認",
				"assignee_ids": [5, 6],
				"category": {"id": 1, "name": "前撮り", "accent": "sky", "emoji": "📷"}
			}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "wedding", "secret")
	tasks, err := client.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	task := tasks[0]
	assert.Equal(t, "10", task.ID)
	assert.Equal(t, "1", task.CategoryID)
	assert.Equal(t, StatusInProgress, task.Status)
	assert.Equal(t, "2026-02-10", task.Due, "timestamp is reduced to its date part")
	assert.Equal(t, "ロケ地を確認", task.Notes)
	assert.Equal(t, []string{"5", "6"}, task.AssigneeIDs)
}

func TestClientCreateTaskBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wedding-tasks", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "招待状の発送", body["title"])
		assert.Equal(t, float64(1), body["category_id"])
		assert.Equal(t, []any{float64(5)}, body["assignee_ids"])
		assert.Equal(t, "2026-03-01", body["due"])
		_, hasStatus := body["status"]
		assert.False(t, hasStatus, "create never sends a status")

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 20, "title": "招待状の発送", "category_id": 1, "emoji": "💌",
			"status": "not_started", "is_done": false, "assignee_ids": [5],
			"category": {"id": 1, "name": "前撮り", "accent": "sky", "emoji": "📷"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "")
	task, err := client.CreateTask(context.Background(), AddTaskInput{
		Title:       "招待状の発送",
		CategoryID:  "1",
		Emoji:       "💌",
		Due:         "2026-03-01",
		AssigneeIDs: []string{"5"},
	})
	require.NoError(t, err)
	assert.Equal(t, "20", task.ID)
	assert.Equal(t, StatusNotStarted, task.Status)
}

func TestClientUpdateTaskPatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wedding-tasks/10", r.URL.Path)
		require.Equal(t, http.MethodPut, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "done", body["status"])
		assert.Equal(t, true, body["is_done"])
		_, hasAssignees := body["assignee_ids"]
		assert.False(t, hasAssignees, "status patch leaves assignees out entirely")

		w.Write([]byte(`{"id": 10, "title": "t", "category_id": 1, "emoji": "💍",
			"status": "done", "is_done": true,
			"category": {"id": 1, "name": "前撮り", "accent": "sky", "emoji": "📷"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "")
	task, err := client.UpdateTask(context.Background(), "10", StatusPatch(StatusDone))
	require.NoError(t, err)
	assert.True(t, task.IsDone)
}

func TestClientDeleteAndErrors(t *testing.T) {
	t.Run("delete expects 204", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/wedding-tasks/10", r.URL.Path)
			require.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := NewClient(server.URL, "", "")
		require.NoError(t, client.DeleteTask(context.Background(), "10"))
	})

	t.Run("non-success status becomes an error carrying the body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"error": "title is required"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "", "")
		_, err := client.CreateTask(context.Background(), AddTaskInput{Title: "x", CategoryID: "1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "422")
		assert.Contains(t, err.Error(), "title is required")
	})

	t.Run("transport failure surfaces as an error", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", "", "")
		_, err := client.ListCategories(context.Background())
		require.Error(t, err)
	})
}

func TestClientMemberRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wedding-members", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "はな", body["name"])
		assert.Equal(t, "新婦", body["role"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 5, "name": "はな", "role": "新婦"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "")
	member, err := client.CreateMember(context.Background(), AddMemberInput{
		Name:         "はな",
		Role:         "新婦",
		ContactEmail: "hana@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "5", member.ID)
	assert.Equal(t, "新婦", member.Role)
	assert.Equal(t, "hana@example.com", member.ContactEmail,
		"contact details are board-side only and carried through")
}
