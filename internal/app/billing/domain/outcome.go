package domain

// PurchaseOutcome is the result of a purchase attempt as reported to an
// UpdatesListener. The set is closed: exactly the five values below exist.
type PurchaseOutcome int

// The zero value is deliberately not a valid outcome.
const (
	OutcomeUserHasPurchasedItem PurchaseOutcome = iota + 1
	OutcomeUserPurchasedOwnedItem
	OutcomeUnknownError
	OutcomeFailedToInitiatePurchase
	OutcomeFailedToValidatePurchase
)

var outcomeNames = map[PurchaseOutcome]string{
	OutcomeUserHasPurchasedItem:     "USER_HAS_PURCHASED_ITEM",
	OutcomeUserPurchasedOwnedItem:   "USER_PURCHASED_OWNED_ITEM",
	OutcomeUnknownError:             "UNKNOWN_ERROR",
	OutcomeFailedToInitiatePurchase: "FAILED_TO_INITIATE_PURCHASE",
	OutcomeFailedToValidatePurchase: "FAILED_TO_VALIDATE_PURCHASE",
}

// Outcomes returns every purchase outcome in declaration order.
func Outcomes() []PurchaseOutcome {
	return []PurchaseOutcome{
		OutcomeUserHasPurchasedItem,
		OutcomeUserPurchasedOwnedItem,
		OutcomeUnknownError,
		OutcomeFailedToInitiatePurchase,
		OutcomeFailedToValidatePurchase,
	}
}

// ParseOutcome returns the outcome with the given canonical name.
func ParseOutcome(name string) (PurchaseOutcome, error) {
	for o, n := range outcomeNames {
		if n == name {
			return o, nil
		}
	}
	return 0, ErrUnknownOutcome
}

func (o PurchaseOutcome) Valid() bool {
	_, ok := outcomeNames[o]
	return ok
}

func (o PurchaseOutcome) String() string {
	if n, ok := outcomeNames[o]; ok {
		return n
	}
	return "INVALID_OUTCOME"
}

// IsFailure reports whether the outcome carries a failure.
func (o PurchaseOutcome) IsFailure() bool {
	switch o {
	case OutcomeUserHasPurchasedItem, OutcomeUserPurchasedOwnedItem:
		return false
	case OutcomeUnknownError, OutcomeFailedToInitiatePurchase, OutcomeFailedToValidatePurchase:
		return true
	}
	return false
}

// Entitled reports whether the user owns the item after this outcome.
func (o PurchaseOutcome) Entitled() bool {
	switch o {
	case OutcomeUserHasPurchasedItem, OutcomeUserPurchasedOwnedItem:
		return true
	case OutcomeUnknownError, OutcomeFailedToInitiatePurchase, OutcomeFailedToValidatePurchase:
		return false
	}
	return false
}

func (o PurchaseOutcome) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, ErrUnknownOutcome
	}
	return []byte(o.String()), nil
}

func (o *PurchaseOutcome) UnmarshalText(text []byte) error {
	parsed, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
