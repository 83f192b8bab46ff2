package domain

import (
	"time"
)

// NotificationKind identifies which listener method a notification maps to
type NotificationKind string

const (
	KindPurchaseUpdated    NotificationKind = "PURCHASE_UPDATED"
	KindBillingSetupFailed NotificationKind = "BILLING_SETUP_FAILED"
)

func (k NotificationKind) Valid() bool {
	return k == KindPurchaseUpdated || k == KindBillingSetupFailed
}

// Notification is a single delivered listener call
type Notification struct {
	id          string
	kind        NotificationKind
	outcome     PurchaseOutcome // zero for setup failures
	deliveredAt time.Time
}

// NewPurchaseNotification records an OnPurchaseUpdated call
func NewPurchaseNotification(id string, outcome PurchaseOutcome, clock Clock) (*Notification, error) {
	if id == "" {
		return nil, ErrInvalidNotificationID
	}
	if !outcome.Valid() {
		return nil, ErrUnknownOutcome
	}

	return &Notification{
		id:          id,
		kind:        KindPurchaseUpdated,
		outcome:     outcome,
		deliveredAt: clock.Now(),
	}, nil
}

// NewSetupFailureNotification records an OnFailedBillingSetup call
func NewSetupFailureNotification(id string, clock Clock) (*Notification, error) {
	if id == "" {
		return nil, ErrInvalidNotificationID
	}

	return &Notification{
		id:          id,
		kind:        KindBillingSetupFailed,
		deliveredAt: clock.Now(),
	}, nil
}

// ReconstructFromPersistence recreates a notification from the journal
func ReconstructFromPersistence(id string, kind NotificationKind, outcome PurchaseOutcome, deliveredAt time.Time) *Notification {
	return &Notification{
		id:          id,
		kind:        kind,
		outcome:     outcome,
		deliveredAt: deliveredAt,
	}
}

func (n *Notification) ID() string {
	return n.id
}

func (n *Notification) Kind() NotificationKind {
	return n.kind
}

// Outcome returns the purchase outcome; ok is false for setup failures.
func (n *Notification) Outcome() (outcome PurchaseOutcome, ok bool) {
	if n.kind != KindPurchaseUpdated {
		return 0, false
	}
	return n.outcome, true
}

func (n *Notification) DeliveredAt() time.Time {
	return n.deliveredAt
}
