package contracts

import "github.com/wuyiadepoju/iap-billing/internal/app/billing/domain"

// UpdatesListener receives asynchronous notifications from a billing manager.
//
// Both methods may be invoked from a goroutine the implementer does not own,
// so implementations must synchronise access to their own state. Neither
// method reports an error: failures arrive as failure outcomes or as a call
// to OnFailedBillingSetup.
type UpdatesListener interface {
	// OnPurchaseUpdated is called once a purchase attempt resolves.
	OnPurchaseUpdated(outcome domain.PurchaseOutcome)

	// OnFailedBillingSetup is called when the connection to the billing
	// service cannot be established.
	OnFailedBillingSetup()
}
