// Package listenertest provides a recording UpdatesListener for tests.
package listenertest

import (
	"sync"

	"github.com/wuyiadepoju/iap-billing/internal/app/billing/contracts"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/domain"
)

var _ contracts.UpdatesListener = (*Recorder)(nil)

// Call is one recorded listener invocation
type Call struct {
	Kind    domain.NotificationKind
	Outcome domain.PurchaseOutcome // zero for setup failures
}

// Recorder records every call it receives. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

func (r *Recorder) OnPurchaseUpdated(outcome domain.PurchaseOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Kind: domain.KindPurchaseUpdated, Outcome: outcome})
}

func (r *Recorder) OnFailedBillingSetup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Kind: domain.KindBillingSetupFailed})
}

// Calls returns a copy of every recorded call in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Outcomes returns the outcomes of the recorded OnPurchaseUpdated calls.
func (r *Recorder) Outcomes() []domain.PurchaseOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.PurchaseOutcome
	for _, c := range r.calls {
		if c.Kind == domain.KindPurchaseUpdated {
			out = append(out, c.Outcome)
		}
	}
	return out
}

// SetupFailures counts the recorded OnFailedBillingSetup calls.
func (r *Recorder) SetupFailures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Kind == domain.KindBillingSetupFailed {
			n++
		}
	}
	return n
}

// Last returns the most recent call; ok is false if nothing was recorded.
func (r *Recorder) Last() (call Call, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Call{}, false
	}
	return r.calls[len(r.calls)-1], true
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
