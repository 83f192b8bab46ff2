package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wuyiadepoju/iap-billing/internal/app/billing/contracts"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/domain"
)

var _ contracts.NotificationSender = (*HTTPNotificationSender)(nil)

// HTTPNotificationSender posts notifications to a webhook as JSON
type HTTPNotificationSender struct {
	client *http.Client
	url    string
}

// NewHTTPNotificationSender creates a new webhook sender
func NewHTTPNotificationSender(client *http.Client, url string) *HTTPNotificationSender {
	return &HTTPNotificationSender{
		client: client,
		url:    url,
	}
}

type notificationPayload struct {
	ID          string                  `json:"id"`
	Kind        domain.NotificationKind `json:"kind"`
	Outcome     *domain.PurchaseOutcome `json:"outcome,omitempty"`
	DeliveredAt time.Time               `json:"delivered_at"`
}

// Send posts the notification to the webhook
func (s *HTTPNotificationSender) Send(ctx context.Context, n *domain.Notification) error {
	payload := notificationPayload{
		ID:          n.ID(),
		Kind:        n.Kind(),
		DeliveredAt: n.DeliveredAt(),
	}
	if o, ok := n.Outcome(); ok {
		payload.Outcome = &o
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return nil
}
