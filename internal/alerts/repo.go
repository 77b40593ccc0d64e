package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	recentKey  = "alerts:recent"      // capped list of recent alert records
	maxRecent  = 100                  // keep at most this many
	recentTTL  = 7 * 24 * time.Hour   // drop the whole list after a week of silence
)

// Alert is one delivered due-date notification, exactly as the board
// client posts it, plus the time we received it.
type Alert struct {
	TaskID     string     `json:"taskId"`
	Title      string     `json:"title"`
	Due        string     `json:"due"`
	Status     string     `json:"status"`
	Assignees  []Assignee `json:"assignees"`
	ReceivedAt time.Time  `json:"received_at"`
}

type Assignee struct {
	Name          string `json:"name"`
	ContactEmail  string `json:"contactEmail,omitempty"`
	ContactLineID string `json:"contactLineId,omitempty"`
}

// Repo keeps a capped list of recent alerts in Redis.
type Repo struct {
	client *redis.Client
}

func NewRepo(client *redis.Client) *Repo {
	return &Repo{client: client}
}

// Record prepends the alert and trims the list to its cap.
func (r *Repo) Record(ctx context.Context, alert Alert) error {
	if alert.ReceivedAt.IsZero() {
		alert.ReceivedAt = time.Now().UTC()
	}

	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.LPush(ctx, recentKey, data)
	pipe.LTrim(ctx, recentKey, 0, maxRecent-1)
	pipe.Expire(ctx, recentKey, recentTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record alert: %w", err)
	}
	return nil
}

// Recent returns up to limit alerts, newest first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Alert, error) {
	if limit <= 0 || limit > maxRecent {
		limit = maxRecent
	}

	entries, err := r.client.LRange(ctx, recentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}

	out := make([]Alert, 0, len(entries))
	for _, entry := range entries {
		var a Alert
		if err := json.Unmarshal([]byte(entry), &a); err != nil {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
