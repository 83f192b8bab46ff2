package list_notifications

import (
	"context"

	"github.com/wuyiadepoju/iap-billing/internal/app/billing/contracts"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/domain"
)

// Interactor returns the most recent journal entries
type Interactor struct {
	journal contracts.NotificationJournal
}

func NewInteractor(journal contracts.NotificationJournal) *Interactor {
	return &Interactor{journal: journal}
}

// Execute lists up to limit notifications, newest first
func (i *Interactor) Execute(ctx context.Context, limit int64) ([]*domain.Notification, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidLimit
	}
	return i.journal.ListRecent(ctx, limit)
}
