package alerts

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Store is the alert log the handlers depend on. *Repo satisfies it;
// tests swap in a fake.
type Store interface {
	Record(ctx context.Context, alert Alert) error
	Recent(ctx context.Context, limit int) ([]Alert, error)
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Register attaches alert routes to the given router group.
func Register(rg *gin.RouterGroup, store Store) {
	h := NewHandler(store)
	rg.POST("/notify", h.notify)
	rg.GET("/recent", h.recent)
}

// notify accepts a due-date alert from the board client. The client
// fires and forgets, so this always answers quickly: the alert is
// recorded best-effort and a store failure only logs.
func (h *Handler) notify(c *gin.Context) {
	var alert Alert
	if err := c.ShouldBindJSON(&alert); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if alert.TaskID == "" || alert.Title == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "taskId and title are required"})
		return
	}

	if err := h.store.Record(c.Request.Context(), alert); err != nil {
		log.Printf("[alerts] failed to record alert for task %s: %v", alert.TaskID, err)
	}

	c.Status(http.StatusAccepted)
}

func (h *Handler) recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, err := h.store.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}
