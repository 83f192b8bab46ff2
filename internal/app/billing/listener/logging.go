package listener

import (
	"github.com/sirupsen/logrus"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/contracts"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/domain"
)

var _ contracts.UpdatesListener = (*Logging)(nil)

// Logging logs each notification before handing it to the next listener
type Logging struct {
	next   contracts.UpdatesListener
	logger logrus.FieldLogger
}

// WithLogging wraps next. next may be nil, in which case notifications are
// only logged.
func WithLogging(next contracts.UpdatesListener, logger logrus.FieldLogger) *Logging {
	return &Logging{next: next, logger: logger}
}

func (l *Logging) OnPurchaseUpdated(outcome domain.PurchaseOutcome) {
	entry := l.logger.WithFields(logrus.Fields{
		"kind":    domain.KindPurchaseUpdated,
		"outcome": outcome.String(),
	})
	if outcome.IsFailure() {
		entry.Warn("Purchase failed")
	} else {
		entry.Info("Purchase updated")
	}

	if l.next != nil {
		l.next.OnPurchaseUpdated(outcome)
	}
}

func (l *Logging) OnFailedBillingSetup() {
	l.logger.WithField("kind", domain.KindBillingSetupFailed).Warn("Billing setup failed")

	if l.next != nil {
		l.next.OnFailedBillingSetup()
	}
}
