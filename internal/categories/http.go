package categories

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Store is the persistence surface the handlers depend on. *Repo
// satisfies it; tests swap in a fake.
type Store interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int64) (*Category, error)
	Create(ctx context.Context, input CreateInput) (*Category, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*Category, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

var validAccents = map[string]bool{
	"blush":    true,
	"mint":     true,
	"lavender": true,
	"sunny":    true,
	"sky":      true,
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Register attaches category routes to the given router group.
func Register(rg *gin.RouterGroup, store Store) {
	h := NewHandler(store)
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

type createReq struct {
	Name   string `json:"name"`
	Accent string `json:"accent"`
	Emoji  string `json:"emoji"`
}

type updateReq struct {
	Name   *string `json:"name"`
	Accent *string `json:"accent"`
	Emoji  *string `json:"emoji"`
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

	category, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if msg := validateCreate(req); msg != "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg})
		return
	}

	category, err := h.store.Create(c.Request.Context(), CreateInput{
		Name:   req.Name,
		Accent: req.Accent,
		Emoji:  req.Emoji,
	})
	if errors.Is(err, ErrDuplicateName) {
		c.JSON(http.StatusConflict, gin.H{"error": "category name already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, category)
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

	if msg := validateUpdate(req); msg != "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg})
		return
	}

	category, err := h.store.Update(c.Request.Context(), id, UpdateInput{
		Name:   req.Name,
		Accent: req.Accent,
		Emoji:  req.Emoji,
	})
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	if errors.Is(err, ErrDuplicateName) {
		c.JSON(http.StatusConflict, gin.H{"error": "category name already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, category)
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
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

func validateCreate(req createReq) string {
	if req.Name == "" || len(req.Name) > 255 {
		return "name is required and must be at most 255 characters"
	}
	if !validAccents[req.Accent] {
		return "accent must be one of blush, mint, lavender, sunny, sky"
	}
	if req.Emoji == "" || len(req.Emoji) > 10 {
		return "emoji is required and must be at most 10 characters"
	}
	return ""
}

func validateUpdate(req updateReq) string {
	if req.Name != nil && (strings.TrimSpace(*req.Name) == "" || len(*req.Name) > 255) {
		return "name must be a non-empty string of at most 255 characters"
	}
	if req.Accent != nil && !validAccents[*req.Accent] {
		return "accent must be one of blush, mint, lavender, sunny, sky"
	}
	if req.Emoji != nil && (*req.Emoji == "" || len(*req.Emoji) > 10) {
		return "emoji must be a non-empty string of at most 10 characters"
	}
	return ""
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return 0, false
	}
	return id, true
}
