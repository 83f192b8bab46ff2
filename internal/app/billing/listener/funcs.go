// Package listener provides ready-made UpdatesListener implementations that
// adopters compose instead of writing the two methods by hand.
package listener

import (
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/contracts"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/domain"
)

var (
	_ contracts.UpdatesListener = Funcs{}
	_ contracts.UpdatesListener = multi(nil)
)

// Funcs adapts plain functions to an UpdatesListener. Nil fields are no-ops.
type Funcs struct {
	PurchaseUpdated    func(outcome domain.PurchaseOutcome)
	BillingSetupFailed func()
}

func (f Funcs) OnPurchaseUpdated(outcome domain.PurchaseOutcome) {
	if f.PurchaseUpdated != nil {
		f.PurchaseUpdated(outcome)
	}
}

func (f Funcs) OnFailedBillingSetup() {
	if f.BillingSetupFailed != nil {
		f.BillingSetupFailed()
	}
}

type multi []contracts.UpdatesListener

// Multi returns a listener that forwards every notification to each of
// listeners in order. Nil entries are skipped.
func Multi(listeners ...contracts.UpdatesListener) contracts.UpdatesListener {
	m := make(multi, 0, len(listeners))
	for _, l := range listeners {
		if l != nil {
			m = append(m, l)
		}
	}
	return m
}

func (m multi) OnPurchaseUpdated(outcome domain.PurchaseOutcome) {
	for _, l := range m {
		l.OnPurchaseUpdated(outcome)
	}
}

func (m multi) OnFailedBillingSetup() {
	for _, l := range m {
		l.OnFailedBillingSetup()
	}
}
