package record_notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/contracts"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/domain"
)

// Request describes the listener call being recorded.
// Outcome is ignored for KindBillingSetupFailed.
type Request struct {
	Kind    domain.NotificationKind
	Outcome domain.PurchaseOutcome
}

// Interactor journals a notification and forwards it
type Interactor struct {
	journal contracts.NotificationJournal
	sender  contracts.NotificationSender
	clock   domain.Clock
}

// NewInteractor creates a new record notification interactor. sender may be nil.
func NewInteractor(journal contracts.NotificationJournal, sender contracts.NotificationSender, clock domain.Clock) *Interactor {
	return &Interactor{
		journal: journal,
		sender:  sender,
		clock:   clock,
	}
}

// Execute records the notification
func (i *Interactor) Execute(ctx context.Context, req Request) (*domain.Notification, error) {
	// 1. Build the notification
	n, err := i.build(req)
	if err != nil {
		return nil, err
	}

	// 2. Get mutation and apply it
	mutation, err := i.journal.Save(ctx, n)
	if err != nil {
		return nil, err
	}
	if err := i.journal.Apply(ctx, mutation); err != nil {
		return nil, err
	}

	// 3. Forward (after the journal entry is committed)
	if i.sender != nil {
		if err := i.sender.Send(ctx, n); err != nil {
			return n, err
		}
	}

	return n, nil
}

func (i *Interactor) build(req Request) (*domain.Notification, error) {
	id := uuid.New().String()
	switch req.Kind {
	case domain.KindPurchaseUpdated:
		return domain.NewPurchaseNotification(id, req.Outcome, i.clock)
	case domain.KindBillingSetupFailed:
		return domain.NewSetupFailureNotification(id, i.clock)
	default:
		return nil, domain.ErrUnknownKind
	}
}
