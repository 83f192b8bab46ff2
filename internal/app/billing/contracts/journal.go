package contracts

import (
	"context"

	"cloud.google.com/go/spanner"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/domain"
)

// NotificationJournal persists delivered listener notifications
type NotificationJournal interface {
	Save(ctx context.Context, n *domain.Notification) (*spanner.Mutation, error)
	Apply(ctx context.Context, mutations ...*spanner.Mutation) error
	FindByID(ctx context.Context, id string) (*domain.Notification, error)
	ListRecent(ctx context.Context, limit int64) ([]*domain.Notification, error)
}
