package domain

import (
	"fmt"
	"strings"
)

// PurchaseState is the state the billing service reports for a purchase.
// Values follow the platform's numbering.
type PurchaseState int

const (
	PurchaseStateUnspecified PurchaseState = 0
	PurchaseStatePurchased   PurchaseState = 1
	PurchaseStatePending     PurchaseState = 2
)

var purchaseStateNames = map[PurchaseState]string{
	PurchaseStateUnspecified: "UNSPECIFIED_STATE",
	PurchaseStatePurchased:   "PURCHASED",
	PurchaseStatePending:     "PENDING",
}

func (s PurchaseState) String() string {
	if n, ok := purchaseStateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("PURCHASE_STATE_%d", int(s))
}

// ParsePurchaseState accepts the canonical name, case-insensitively.
func ParsePurchaseState(name string) (PurchaseState, error) {
	for s, n := range purchaseStateNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return PurchaseStateUnspecified, ErrUnknownPurchaseState
}

// Purchase is the part of a billing service purchase record that decides
// which notification, if any, it produces.
type Purchase struct {
	Token        string
	State        PurchaseState
	Acknowledged bool
}

// Resolution is what a producer does with a reported purchase.
type Resolution int

const (
	// ResolutionNone: nothing to deliver yet. Pending purchases come back
	// through a later update once they complete.
	ResolutionNone Resolution = iota
	// ResolutionNotify: deliver the accompanying outcome.
	ResolutionNotify
	// ResolutionAcknowledge: the purchase is valid but unacknowledged; the
	// producer must acknowledge it before it counts as purchased.
	ResolutionAcknowledge
)

func (r Resolution) String() string {
	switch r {
	case ResolutionNone:
		return "NONE"
	case ResolutionNotify:
		return "NOTIFY"
	case ResolutionAcknowledge:
		return "ACKNOWLEDGE"
	}
	return fmt.Sprintf("RESOLUTION_%d", int(r))
}

// ResolvePurchase decides what a purchase reported by the billing service
// leads to. valid is the verdict of validating the purchase; it is only
// consulted for purchases in the PURCHASED state.
func ResolvePurchase(p Purchase, valid bool) (Resolution, PurchaseOutcome) {
	if p.State != PurchaseStatePurchased {
		return ResolutionNone, 0
	}
	switch {
	case !valid:
		return ResolutionNotify, OutcomeFailedToValidatePurchase
	case !p.Acknowledged:
		return ResolutionAcknowledge, 0
	default:
		return ResolutionNotify, OutcomeUserHasPurchasedItem
	}
}
