package tasks

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// Store is the persistence surface the handlers depend on. *Repo
// satisfies it; tests swap in a fake.
type Store interface {
	List(ctx context.Context) ([]Task, error)
	Get(ctx context.Context, id int64) (*Task, error)
	Create(ctx context.Context, input CreateInput) (*Task, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

var validStatuses = map[string]bool{
	"not_started": true,
	"in_progress": true,
	"done":        true,
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Register attaches task routes to the given router group.
func Register(rg *gin.RouterGroup, store Store) {
	h := NewHandler(store)
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

type createReq struct {
	Title       string  `json:"title"`
	CategoryID  int64   `json:"category_id"`
	Emoji       string  `json:"emoji"`
	Status      *string `json:"status"`
	IsDone      *bool   `json:"is_done"`
	Due         *string `json:"due"`
	Notes       *string `json:"notes"`
	AssigneeIDs []int64 `json:"assignee_ids"`
}

type updateReq struct {
	Title       *string `json:"title"`
	CategoryID  *int64  `json:"category_id"`
	Emoji       *string `json:"emoji"`
	Status      *string `json:"status"`
	IsDone      *bool   `json:"is_done"`
	Due         *string `json:"due"`
	Notes       *string `json:"notes"`
	AssigneeIDs []int64 `json:"assignee_ids"`
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || len(req.Title) > 255 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "title is required and must be at most 255 characters"})
		return
	}
	if req.CategoryID == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "category_id is required"})
		return
	}
	if req.Emoji == "" || len(req.Emoji) > 10 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "emoji is required and must be at most 10 characters"})
		return
	}
	if req.Status != nil && !validStatuses[*req.Status] {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "status must be one of not_started, in_progress, done"})
		return
	}

	due, ok := parseDue(c, req.Due)
	if !ok {
		return
	}

	task, err := h.store.Create(c.Request.Context(), CreateInput{
		Title:       req.Title,
		CategoryID:  req.CategoryID,
		Emoji:       req.Emoji,
		Status:      req.Status,
		IsDone:      req.IsDone,
		Due:         due,
		Notes:       req.Notes,
		AssigneeIDs: req.AssigneeIDs,
	})
	if errors.Is(err, ErrCategoryNotFound) || errors.Is(err, ErrMemberNotFound) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if req.Title != nil && (strings.TrimSpace(*req.Title) == "" || len(*req.Title) > 255) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "title must be a non-empty string of at most 255 characters"})
		return
	}
	if req.Status != nil && !validStatuses[*req.Status] {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "status must be one of not_started, in_progress, done"})
		return
	}
	if req.Emoji != nil && (*req.Emoji == "" || len(*req.Emoji) > 10) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "emoji must be a non-empty string of at most 10 characters"})
		return
	}

	due, ok := parseDue(c, req.Due)
	if !ok {
		return
	}

	task, err := h.store.Update(c.Request.Context(), id, UpdateInput{
		Title:       req.Title,
		CategoryID:  req.CategoryID,
		Emoji:       req.Emoji,
		Status:      req.Status,
		IsDone:      req.IsDone,
		Due:         due,
		Notes:       req.Notes,
		AssigneeIDs: req.AssigneeIDs,
	})
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	if errors.Is(err, ErrCategoryNotFound) || errors.Is(err, ErrMemberNotFound) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := h.store.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

// parseDue accepts a date-only string or a full timestamp. Writes the
// 422 response itself when the value does not parse.
func parseDue(c *gin.Context, due *string) (*time.Time, bool) {
	if due == nil || *due == "" {
		return nil, true
	}

	if d, err := time.Parse(dateLayout, *due); err == nil {
		return &d, true
	}
	if d, err := time.Parse(time.RFC3339, *due); err == nil {
		return &d, true
	}

	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "due must be a valid date"})
	return nil, false
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return 0, false
	}
	return id, true
}
