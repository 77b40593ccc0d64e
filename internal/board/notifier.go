package board

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Alert is the payload delivered when a task first turns due-soon or
// overdue.
type Alert struct {
	TaskID    string          `json:"taskId"`
	Title     string          `json:"title"`
	Due       string          `json:"due"`
	Status    Status          `json:"status"`
	Assignees []AlertAssignee `json:"assignees"`
}

type AlertAssignee struct {
	Name          string `json:"name"`
	ContactEmail  string `json:"contactEmail,omitempty"`
	ContactLineID string `json:"contactLineId,omitempty"`
}

// Notifier delivers due-date alerts. Delivery is best effort: an
// implementation logs failures itself and never reports them upward,
// so Notify has no error return on purpose.
type Notifier interface {
	Notify(ctx context.Context, alert Alert)
}

// HTTPNotifier POSTs alerts to a notification endpoint. A non-2xx
// response or transport failure falls back to a local log line; nothing
// is retried.
type HTTPNotifier struct {
	endpoint   string
	httpClient *http.Client
}

func NewHTTPNotifier(endpoint string) *HTTPNotifier {
	return &HTTPNotifier{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (n *HTTPNotifier) Notify(ctx context.Context, alert Alert) {
	data, err := json.Marshal(alert)
	if err != nil {
		log.Printf("[alert] marshal failed for task %s: %v", alert.TaskID, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(data))
	if err != nil {
		logAlertPreview(alert)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		logAlertPreview(alert)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logAlertPreview(alert)
	}
}

// LogNotifier writes alerts to the local log only. Used when no alert
// endpoint is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, alert Alert) {
	logAlertPreview(alert)
}

func logAlertPreview(alert Alert) {
	log.Printf("[alert preview] %s due %s", alert.Title, alert.Due)
}
