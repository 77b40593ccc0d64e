package members

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
	List(ctx context.Context) ([]Member, error)
	Get(ctx context.Context, id int64) (*Member, error)
	Create(ctx context.Context, input CreateInput) (*Member, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*Member, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Register attaches member routes to the given router group.
func Register(rg *gin.RouterGroup, store Store) {
	h := NewHandler(store)
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

type createReq struct {
	Name string  `json:"name"`
	Role *string `json:"role"`
}

type updateReq struct {
	Name *string `json:"name"`
	Role *string `json:"role"`
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

	member, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > 255 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "name is required and must be at most 255 characters"})
		return
	}
	if req.Role != nil && len(*req.Role) > 255 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "role must be at most 255 characters"})
		return
	}

	member, err := h.store.Create(c.Request.Context(), CreateInput{
		Name: req.Name,
		Role: req.Role,
	})
	if errors.Is(err, ErrDuplicateName) {
		c.JSON(http.StatusConflict, gin.H{"error": "member name already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, member)
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

	if req.Name != nil && (strings.TrimSpace(*req.Name) == "" || len(*req.Name) > 255) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "name must be a non-empty string of at most 255 characters"})
		return
	}
	if req.Role != nil && len(*req.Role) > 255 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "role must be at most 255 characters"})
		return
	}

	member, err := h.store.Update(c.Request.Context(), id, UpdateInput{
		Name: req.Name,
		Role: req.Role,
	})
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}
	if errors.Is(err, ErrDuplicateName) {
		c.JSON(http.StatusConflict, gin.H{"error": "member name already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, member)
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
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return 0, false
	}
	return id, true
}
