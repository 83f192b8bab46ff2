package listener

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/contracts"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/domain"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/usecases/record_notification"
)

var _ contracts.UpdatesListener = (*Journal)(nil)

// Recorder is satisfied by record_notification.Interactor
type Recorder interface {
	Execute(ctx context.Context, req record_notification.Request) (*domain.Notification, error)
}

// Journal records every notification it receives. Recording errors are
// logged; they never reach the caller.
type Journal struct {
	recorder Recorder
	logger   logrus.FieldLogger
	timeout  time.Duration
}

func NewJournal(recorder Recorder, logger logrus.FieldLogger, timeout time.Duration) *Journal {
	return &Journal{
		recorder: recorder,
		logger:   logger,
		timeout:  timeout,
	}
}

func (j *Journal) OnPurchaseUpdated(outcome domain.PurchaseOutcome) {
	j.record(record_notification.Request{
		Kind:    domain.KindPurchaseUpdated,
		Outcome: outcome,
	})
}

func (j *Journal) OnFailedBillingSetup() {
	j.record(record_notification.Request{Kind: domain.KindBillingSetupFailed})
}

func (j *Journal) record(req record_notification.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	fields := logrus.Fields{"kind": req.Kind}
	if req.Kind == domain.KindPurchaseUpdated {
		fields["outcome"] = req.Outcome.String()
	}

	n, err := j.recorder.Execute(ctx, req)
	if n != nil {
		fields["notification_id"] = n.ID()
	}
	if err != nil {
		j.logger.WithFields(fields).WithError(err).Error("Failed to record notification")
		return
	}
	j.logger.WithFields(fields).Debug("Notification recorded")
}
