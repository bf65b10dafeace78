package publicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/carteland/carte/pkg/core"
)

// Notifier is told about every accepted order. Implementations must be
// safe to call concurrently.
type Notifier interface {
	OrderPlaced(ctx context.Context, menu core.Menu, orderNote core.Note) error
}

// WebhookNotifier POSTs a JSON summary of each order to a fixed URL.
type WebhookNotifier struct {
	url  string
	http *http.Client
}

// NewWebhookNotifier creates a notifier for the given endpoint.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookPayload struct {
	MenuID   string `json:"menuId"`
	MenuName string `json:"menuName"`
	Note     string `json:"note"`
	Content  string `json:"content"`
}

func (w *WebhookNotifier) OrderPlaced(ctx context.Context, menu core.Menu, orderNote core.Note) error {
	body, err := json.Marshal(webhookPayload{
		MenuID:   menu.ID,
		MenuName: menu.Name,
		Note:     orderNote.Name,
		Content:  orderNote.Content,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}
