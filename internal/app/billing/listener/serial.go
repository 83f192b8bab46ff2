package listener

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/contracts"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/domain"
)

var _ contracts.UpdatesListener = (*Serial)(nil)

type delivery struct {
	fields  logrus.Fields
	deliver func()
}

// Serial hands notifications to target on the goroutine running Run, in the
// order they were posted. Billing callbacks arrive on arbitrary goroutines;
// wrapping a listener in Serial lets it own its state without locking.
//
// Posting never blocks. Every posted notification is either delivered or,
// once the loop has stopped, logged at warn level.
type Serial struct {
	target contracts.UpdatesListener
	logger logrus.FieldLogger

	mu      sync.Mutex
	pending []delivery
	stopped bool

	wake      chan struct{}
	closing   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	doneOnce  sync.Once
}

// NewSerial wraps target. A nil target discards notifications.
func NewSerial(target contracts.UpdatesListener, logger logrus.FieldLogger) *Serial {
	if target == nil {
		target = Funcs{}
	}
	return &Serial{
		target:  target,
		logger:  logger,
		wake:    make(chan struct{}, 1),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Run delivers notifications until ctx is done or Close is called. After
// Close, notifications already posted are delivered before Run returns nil.
// When ctx is done, the ones still waiting are logged instead.
func (s *Serial) Run(ctx context.Context) error {
	defer s.doneOnce.Do(func() { close(s.done) })

	for {
		if err := ctx.Err(); err != nil {
			s.abandon(s.stop())
			return err
		}

		if d, ok := s.next(); ok {
			d.deliver()
			continue
		}

		select {
		case <-s.wake:
		case <-s.closing:
			for _, d := range s.stop() {
				d.deliver()
			}
			return nil
		case <-ctx.Done():
			s.abandon(s.stop())
			return ctx.Err()
		}
	}
}

func (s *Serial) next() (delivery, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return delivery{}, false
	}
	d := s.pending[0]
	s.pending[0] = delivery{}
	s.pending = s.pending[1:]
	return d, true
}

// stop refuses further posts and hands back whatever is still waiting.
func (s *Serial) stop() []delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	rest := s.pending
	s.pending = nil
	return rest
}

func (s *Serial) abandon(rest []delivery) {
	for _, d := range rest {
		s.warnUndelivered(d.fields)
	}
}

func (s *Serial) warnUndelivered(fields logrus.Fields) {
	s.logger.WithFields(fields).Warn("Delivery loop stopped, notification not delivered")
}

// Close asks Run to stop once the queue is empty.
func (s *Serial) Close() {
	s.closeOnce.Do(func() { close(s.closing) })
}

// Done is closed when Run has returned.
func (s *Serial) Done() <-chan struct{} {
	return s.done
}

func (s *Serial) OnPurchaseUpdated(outcome domain.PurchaseOutcome) {
	s.post(logrus.Fields{"kind": domain.KindPurchaseUpdated, "outcome": outcome.String()}, func() {
		s.target.OnPurchaseUpdated(outcome)
	})
}

func (s *Serial) OnFailedBillingSetup() {
	s.post(logrus.Fields{"kind": domain.KindBillingSetupFailed}, func() {
		s.target.OnFailedBillingSetup()
	})
}

func (s *Serial) post(fields logrus.Fields, fn func()) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		s.warnUndelivered(fields)
		return
	}
	s.pending = append(s.pending, delivery{fields: fields, deliver: fn})
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}
