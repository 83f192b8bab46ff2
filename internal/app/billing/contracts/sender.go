package contracts

import (
	"context"

	"github.com/wuyiadepoju/iap-billing/internal/app/billing/domain"
)

// NotificationSender forwards notifications to an external endpoint
type NotificationSender interface {
	Send(ctx context.Context, n *domain.Notification) error
}
