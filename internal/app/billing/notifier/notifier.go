// Package notifier is the producer side of the billing updates contract: it
// holds the one registered listener and turns billing service responses into
// listener calls.
package notifier

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/contracts"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/domain"
)

// Notifier is safe for concurrent use. The listener is always invoked
// without the lock held, so it may call back into the Notifier.
type Notifier struct {
	mu       sync.RWMutex
	listener contracts.UpdatesListener
	logger   logrus.FieldLogger
}

func New(logger logrus.FieldLogger) *Notifier {
	return &Notifier{logger: logger}
}

// SetListener registers l, replacing any previous listener.
func (n *Notifier) SetListener(l contracts.UpdatesListener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listener = l
}

// Detach drops the registered listener. Later notifications fail with
// domain.ErrNoListener.
func (n *Notifier) Detach() {
	n.SetListener(nil)
}

func (n *Notifier) current() contracts.UpdatesListener {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.listener
}

// PurchaseUpdated delivers outcome to the listener.
func (n *Notifier) PurchaseUpdated(outcome domain.PurchaseOutcome) error {
	if !outcome.Valid() {
		return domain.ErrUnknownOutcome
	}

	l := n.current()
	if l == nil {
		n.logger.WithField("outcome", outcome.String()).Warn("No listener registered for purchase update")
		return domain.ErrNoListener
	}

	l.OnPurchaseUpdated(outcome)
	return nil
}

// BillingSetupFailed tells the listener the billing service is unreachable.
func (n *Notifier) BillingSetupFailed() error {
	l := n.current()
	if l == nil {
		n.logger.Warn("No listener registered for billing setup failure")
		return domain.ErrNoListener
	}

	l.OnFailedBillingSetup()
	return nil
}

// ReportSetupResult handles the response of connecting to the billing
// service. Anything but OK is a setup failure.
func (n *Notifier) ReportSetupResult(code domain.ResponseCode) error {
	if code == domain.ResponseOK {
		n.logger.Debug("Billing setup successful")
		return nil
	}

	n.logger.WithField("response_code", code.String()).Error("Billing setup failed")
	return n.BillingSetupFailed()
}

// ReportPurchaseResult handles the response of a purchase update. notified is
// false when the response does not produce a notification.
func (n *Notifier) ReportPurchaseResult(code domain.ResponseCode) (notified bool, err error) {
	outcome, ok := domain.OutcomeForPurchaseResponse(code)
	if !ok {
		n.logger.WithField("response_code", code.String()).Debug("Purchase response needs no notification")
		return false, nil
	}
	if err := n.PurchaseUpdated(outcome); err != nil {
		return false, err
	}
	return true, nil
}

// ReportProductDetailsResult handles the response of the product lookup that
// starts a purchase flow.
func (n *Notifier) ReportProductDetailsResult(code domain.ResponseCode) (notified bool, err error) {
	outcome, ok := domain.OutcomeForProductDetailsResponse(code)
	if !ok {
		return false, nil
	}

	n.logger.WithField("response_code", code.String()).Error("Failed to obtain product details")
	if err := n.PurchaseUpdated(outcome); err != nil {
		return false, err
	}
	return true, nil
}

// ReportPurchase handles one purchase reported by the billing service. valid
// is the verdict of validating it and only matters for purchased items. A
// ResolutionAcknowledge result means the caller must acknowledge the
// purchase; nothing is delivered until it does.
func (n *Notifier) ReportPurchase(p domain.Purchase, valid bool) (domain.Resolution, error) {
	resolution, outcome := domain.ResolvePurchase(p, valid)

	log := n.logger.WithField("purchase_state", p.State.String())
	switch resolution {
	case domain.ResolutionNotify:
		return resolution, n.PurchaseUpdated(outcome)
	case domain.ResolutionAcknowledge:
		log.Debug("Purchase awaiting acknowledgement")
	case domain.ResolutionNone:
		if p.State == domain.PurchaseStatePending {
			log.Debug("Purchase pending")
		} else {
			log.Warn("Purchase in unexpected state ignored")
		}
	}
	return resolution, nil
}

// Validator reports whether a purchase is genuine. A nil Validator accepts
// every purchase.
type Validator func(domain.Purchase) bool

// ReportPurchasesUpdated handles a purchase update. An OK response carries the
// purchases; any other code is handled as ReportPurchaseResult does. It
// returns the purchases that still need acknowledging.
func (n *Notifier) ReportPurchasesUpdated(code domain.ResponseCode, purchases []domain.Purchase, validate Validator) ([]domain.Purchase, error) {
	if code != domain.ResponseOK {
		_, err := n.ReportPurchaseResult(code)
		return nil, err
	}
	return n.reportPurchases(purchases, validate)
}

// ReportQueryResult handles the response of querying owned purchases, which
// restores purchases made while the app was not running. A failed query is
// logged and produces no notification.
func (n *Notifier) ReportQueryResult(code domain.ResponseCode, purchases []domain.Purchase, validate Validator) ([]domain.Purchase, error) {
	if code != domain.ResponseOK {
		n.logger.WithField("response_code", code.String()).Warn("Query purchases failed")
		return nil, nil
	}
	return n.reportPurchases(purchases, validate)
}

func (n *Notifier) reportPurchases(purchases []domain.Purchase, validate Validator) ([]domain.Purchase, error) {
	var (
		unacknowledged []domain.Purchase
		errs           []error
	)
	for _, p := range purchases {
		valid := true
		if validate != nil && p.State == domain.PurchaseStatePurchased {
			valid = validate(p)
		}

		resolution, err := n.ReportPurchase(p, valid)
		if err != nil {
			errs = append(errs, err)
		}
		if resolution == domain.ResolutionAcknowledge {
			unacknowledged = append(unacknowledged, p)
		}
	}
	return unacknowledged, errors.Join(errs...)
}
