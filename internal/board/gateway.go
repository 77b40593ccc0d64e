package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Gateway is the translation boundary to the persistence service. The
// engine only ever sees board-shaped entities; wire shapes stay in here.
type Gateway interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, input AddCategoryInput) (Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListMembers(ctx context.Context) ([]Member, error)
	CreateMember(ctx context.Context, input AddMemberInput) (Member, error)
	UpdateMember(ctx context.Context, input UpdateMemberInput) (Member, error)
	DeleteMember(ctx context.Context, id string) error

	ListTasks(ctx context.Context) ([]Task, error)
	CreateTask(ctx context.Context, input AddTaskInput) (Task, error)
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// TaskPatch is a partial task update. Nil fields are left out of the
// request body entirely, so the service keeps their current values.
type TaskPatch struct {
	Status      *Status
	IsDone      *bool
	AssigneeIDs []string
}

// StatusPatch builds the patch for a status change, keeping is_done in
// lockstep with the new status.
func StatusPatch(status Status) TaskPatch {
	done := status == StatusDone
	return TaskPatch{Status: &status, IsDone: &done}
}

// Client talks to the persistence service over HTTP+JSON.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// NewClient creates a gateway client for the service at baseURL
// (e.g. "http://localhost:8080/api"). Credentials feed the shared
// basic-auth gate; leave the username empty to skip auth.
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Wire shapes: snake_case keys, numeric ids, tasks embed their category.

type wireCategory struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Accent string `json:"accent"`
	Emoji  string `json:"emoji"`
}

type wireMember struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Role *string `json:"role,omitempty"`
}

type wireTask struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	CategoryID  int64         `json:"category_id"`
	Emoji       string        `json:"emoji"`
	Status      string        `json:"status"`
	IsDone      bool          `json:"is_done"`
	Due         *string       `json:"due,omitempty"`
	Notes       *string       `json:"notes,omitempty"`
	AssigneeIDs []int64       `json:"assignee_ids,omitempty"`
	Category    *wireCategory `json:"category,omitempty"`
}

type createCategoryBody struct {
	Name   string `json:"name"`
	Accent string `json:"accent"`
	Emoji  string `json:"emoji"`
}

type memberBody struct {
	Name string  `json:"name"`
	Role *string `json:"role,omitempty"`
}

type createTaskBody struct {
	Title       string  `json:"title"`
	CategoryID  int64   `json:"category_id"`
	Emoji       string  `json:"emoji"`
	Notes       *string `json:"notes,omitempty"`
	Due         *string `json:"due,omitempty"`
	AssigneeIDs []int64 `json:"assignee_ids"`
}

type updateTaskBody struct {
	Status      *string `json:"status,omitempty"`
	IsDone      *bool   `json:"is_done,omitempty"`
	AssigneeIDs []int64 `json:"assignee_ids,omitempty"`
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var wire []wireCategory
	if err := c.do(ctx, http.MethodGet, "/wedding-categories", nil, &wire, http.StatusOK); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]Category, 0, len(wire))
	for _, w := range wire {
		out = append(out, fromWireCategory(w))
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, input AddCategoryInput) (Category, error) {
	body := createCategoryBody{
		Name:   input.Name,
		Accent: string(input.Accent),
		Emoji:  input.Emoji,
	}
	var wire wireCategory
	if err := c.do(ctx, http.MethodPost, "/wedding-categories", body, &wire, http.StatusCreated); err != nil {
		return Category{}, fmt.Errorf("create category: %w", err)
	}
	return fromWireCategory(wire), nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/wedding-categories/"+id, nil, nil, http.StatusNoContent); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (c *Client) ListMembers(ctx context.Context) ([]Member, error) {
	var wire []wireMember
	if err := c.do(ctx, http.MethodGet, "/wedding-members", nil, &wire, http.StatusOK); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	out := make([]Member, 0, len(wire))
	for _, w := range wire {
		out = append(out, fromWireMember(w))
	}
	return out, nil
}

func (c *Client) CreateMember(ctx context.Context, input AddMemberInput) (Member, error) {
	body := memberBody{Name: input.Name, Role: optional(input.Role)}
	var wire wireMember
	if err := c.do(ctx, http.MethodPost, "/wedding-members", body, &wire, http.StatusCreated); err != nil {
		return Member{}, fmt.Errorf("create member: %w", err)
	}
	m := fromWireMember(wire)
	// Contact details live only on the board side; the service does not
	// persist them, so carry the submitted values forward.
	m.ContactEmail = input.ContactEmail
	m.ContactLineID = input.ContactLineID
	return m, nil
}

func (c *Client) UpdateMember(ctx context.Context, input UpdateMemberInput) (Member, error) {
	body := memberBody{Name: input.Name, Role: optional(input.Role)}
	var wire wireMember
	if err := c.do(ctx, http.MethodPut, "/wedding-members/"+input.ID, body, &wire, http.StatusOK); err != nil {
		return Member{}, fmt.Errorf("update member: %w", err)
	}
	m := fromWireMember(wire)
	m.ContactEmail = input.ContactEmail
	m.ContactLineID = input.ContactLineID
	return m, nil
}

func (c *Client) DeleteMember(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/wedding-members/"+id, nil, nil, http.StatusNoContent); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	var wire []wireTask
	if err := c.do(ctx, http.MethodGet, "/wedding-tasks", nil, &wire, http.StatusOK); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	out := make([]Task, 0, len(wire))
	for _, w := range wire {
		out = append(out, fromWireTask(w))
	}
	return out, nil
}

func (c *Client) CreateTask(ctx context.Context, input AddTaskInput) (Task, error) {
	body := createTaskBody{
		Title:       input.Title,
		CategoryID:  parseID(input.CategoryID),
		Emoji:       input.Emoji,
		Notes:       optional(input.Notes),
		Due:         optional(input.Due),
		AssigneeIDs: toWireIDs(input.AssigneeIDs),
	}
	var wire wireTask
	if err := c.do(ctx, http.MethodPost, "/wedding-tasks", body, &wire, http.StatusCreated); err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	return fromWireTask(wire), nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch TaskPatch) (Task, error) {
	var body updateTaskBody
	if patch.Status != nil {
		s := string(*patch.Status)
		body.Status = &s
	}
	body.IsDone = patch.IsDone
	if patch.AssigneeIDs != nil {
		body.AssigneeIDs = toWireIDs(patch.AssigneeIDs)
	}

	var wire wireTask
	if err := c.do(ctx, http.MethodPut, "/wedding-tasks/"+id, body, &wire, http.StatusOK); err != nil {
		return Task{}, fmt.Errorf("update task: %w", err)
	}
	return fromWireTask(wire), nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/wedding-tasks/"+id, nil, nil, http.StatusNoContent); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// do round-trips one JSON request. A nil out discards the response body;
// any status other than wantStatus becomes an error carrying the body.
func (c *Client) do(ctx context.Context, method, path string, body, out any, wantStatus int) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call persistence service: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("persistence service returned status %d: %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func fromWireCategory(w wireCategory) Category {
	return Category{
		ID:     strconv.FormatInt(w.ID, 10),
		Name:   w.Name,
		Accent: Accent(w.Accent),
		Emoji:  w.Emoji,
	}
}

func fromWireMember(w wireMember) Member {
	m := Member{
		ID:   strconv.FormatInt(w.ID, 10),
		Name: w.Name,
	}
	if w.Role != nil {
		m.Role = *w.Role
	}
	return m
}

func fromWireTask(w wireTask) Task {
	t := Task{
		ID:         strconv.FormatInt(w.ID, 10),
		Title:      w.Title,
		CategoryID: strconv.FormatInt(w.CategoryID, 10),
		Emoji:      w.Emoji,
		Status:     Status(w.Status),
		IsDone:     w.IsDone,
	}
	if w.Notes != nil {
		t.Notes = *w.Notes
	}
	if w.Due != nil {
		// The service serializes dates as full timestamps; the board only
		// ever works with the date part.
		t.Due = strings.SplitN(*w.Due, "T", 2)[0]
	}
	t.AssigneeIDs = make([]string, 0, len(w.AssigneeIDs))
	for _, id := range w.AssigneeIDs {
		t.AssigneeIDs = append(t.AssigneeIDs, strconv.FormatInt(id, 10))
	}
	return t
}

func toWireIDs(ids []string) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if n := parseID(id); n != 0 {
			out = append(out, n)
		}
	}
	return out
}

func parseID(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
