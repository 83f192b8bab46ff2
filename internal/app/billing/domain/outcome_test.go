package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomes_ExactlyFiveInOrder(t *testing.T) {
	outcomes := Outcomes()

	require.Len(t, outcomes, 5)
	assert.Equal(t, []PurchaseOutcome{
		OutcomeUserHasPurchasedItem,
		OutcomeUserPurchasedOwnedItem,
		OutcomeUnknownError,
		OutcomeFailedToInitiatePurchase,
		OutcomeFailedToValidatePurchase,
	}, outcomes)

	seen := map[string]bool{}
	for _, o := range outcomes {
		assert.True(t, o.Valid(), o.String())
		assert.False(t, seen[o.String()], "duplicate name %s", o)
		seen[o.String()] = true

		parsed, err := ParseOutcome(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, parsed)
	}
}

func TestPurchaseOutcome_ZeroValueIsInvalid(t *testing.T) {
	var o PurchaseOutcome

	assert.False(t, o.Valid())
	assert.Equal(t, "INVALID_OUTCOME", o.String())
	assert.False(t, o.IsFailure())
	assert.False(t, o.Entitled())

	_, err := o.MarshalText()
	assert.ErrorIs(t, err, ErrUnknownOutcome)
}

func TestParseOutcome_Unknown(t *testing.T) {
	_, err := ParseOutcome("user_has_purchased_item")
	assert.Equal(t, ErrUnknownOutcome, err)

	_, err = ParseOutcome("")
	assert.Equal(t, ErrUnknownOutcome, err)
}

func TestPurchaseOutcome_FailureAndEntitlementPartition(t *testing.T) {
	testCases := []struct {
		outcome  PurchaseOutcome
		failure  bool
		entitled bool
	}{
		{OutcomeUserHasPurchasedItem, false, true},
		{OutcomeUserPurchasedOwnedItem, false, true},
		{OutcomeUnknownError, true, false},
		{OutcomeFailedToInitiatePurchase, true, false},
		{OutcomeFailedToValidatePurchase, true, false},
	}

	require.Len(t, testCases, len(Outcomes()))
	for _, tc := range testCases {
		t.Run(tc.outcome.String(), func(t *testing.T) {
			assert.Equal(t, tc.failure, tc.outcome.IsFailure())
			assert.Equal(t, tc.entitled, tc.outcome.Entitled())
		})
	}
}

func TestPurchaseOutcome_JSONUsesCanonicalName(t *testing.T) {
	body, err := json.Marshal(map[string]PurchaseOutcome{"outcome": OutcomeFailedToValidatePurchase})
	require.NoError(t, err)
	assert.JSONEq(t, `{"outcome":"FAILED_TO_VALIDATE_PURCHASE"}`, string(body))

	var decoded struct {
		Outcome PurchaseOutcome `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"outcome":"USER_PURCHASED_OWNED_ITEM"}`), &decoded))
	assert.Equal(t, OutcomeUserPurchasedOwnedItem, decoded.Outcome)

	assert.Error(t, json.Unmarshal([]byte(`{"outcome":"REFUNDED"}`), &decoded))
}

func TestOutcomeForPurchaseResponse(t *testing.T) {
	testCases := []struct {
		code     ResponseCode
		outcome  PurchaseOutcome
		notified bool
	}{
		{ResponseItemAlreadyOwned, OutcomeUserPurchasedOwnedItem, true},
		{ResponseOK, 0, false},
		{ResponseUserCanceled, 0, false},
		{ResponseServiceUnavailable, 0, false},
		{ResponseDeveloperError, 0, false},
		{ResponseError, OutcomeUnknownError, true},
		{ResponseNetworkError, OutcomeUnknownError, true},
		{ResponseServiceDisconnected, OutcomeUnknownError, true},
		{ResponseCode(99), OutcomeUnknownError, true},
	}

	for _, tc := range testCases {
		t.Run(tc.code.String(), func(t *testing.T) {
			outcome, notified := OutcomeForPurchaseResponse(tc.code)
			assert.Equal(t, tc.notified, notified)
			assert.Equal(t, tc.outcome, outcome)
		})
	}
}

func TestOutcomeForProductDetailsResponse(t *testing.T) {
	_, notified := OutcomeForProductDetailsResponse(ResponseOK)
	assert.False(t, notified)

	outcome, notified := OutcomeForProductDetailsResponse(ResponseItemUnavailable)
	assert.True(t, notified)
	assert.Equal(t, OutcomeFailedToInitiatePurchase, outcome)
}

func TestResolvePurchase(t *testing.T) {
	testCases := []struct {
		name       string
		purchase   Purchase
		valid      bool
		resolution Resolution
		outcome    PurchaseOutcome
	}{
		{"pending is left alone", Purchase{State: PurchaseStatePending}, true, ResolutionNone, 0},
		{"pending is not validated", Purchase{State: PurchaseStatePending}, false, ResolutionNone, 0},
		{"unspecified state", Purchase{State: PurchaseStateUnspecified, Acknowledged: true}, true, ResolutionNone, 0},
		{"invalid purchase", Purchase{State: PurchaseStatePurchased}, false, ResolutionNotify, OutcomeFailedToValidatePurchase},
		{"invalid even if acknowledged", Purchase{State: PurchaseStatePurchased, Acknowledged: true}, false, ResolutionNotify, OutcomeFailedToValidatePurchase},
		{"valid awaiting acknowledgement", Purchase{State: PurchaseStatePurchased}, true, ResolutionAcknowledge, 0},
		{"valid and acknowledged", Purchase{State: PurchaseStatePurchased, Acknowledged: true}, true, ResolutionNotify, OutcomeUserHasPurchasedItem},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resolution, outcome := ResolvePurchase(tc.purchase, tc.valid)
			assert.Equal(t, tc.resolution, resolution)
			assert.Equal(t, tc.outcome, outcome)
		})
	}
}

func TestParsePurchaseState(t *testing.T) {
	s, err := ParsePurchaseState("pending")
	require.NoError(t, err)
	assert.Equal(t, PurchaseStatePending, s)

	s, err = ParsePurchaseState("PURCHASED")
	require.NoError(t, err)
	assert.Equal(t, PurchaseStatePurchased, s)

	_, err = ParsePurchaseState("REFUNDED")
	assert.Equal(t, ErrUnknownPurchaseState, err)
	assert.Equal(t, "PURCHASE_STATE_9", PurchaseState(9).String())
}

func TestResponseCode_String(t *testing.T) {
	assert.Equal(t, "ITEM_ALREADY_OWNED", ResponseItemAlreadyOwned.String())
	assert.Equal(t, "RESPONSE_42", ResponseCode(42).String())
}

func TestNewPurchaseNotification(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := FixedClock{FixedTime: now}

	n, err := NewPurchaseNotification("n-1", OutcomeUserHasPurchasedItem, clock)
	require.NoError(t, err)
	assert.Equal(t, "n-1", n.ID())
	assert.Equal(t, KindPurchaseUpdated, n.Kind())
	assert.Equal(t, now, n.DeliveredAt())

	outcome, ok := n.Outcome()
	assert.True(t, ok)
	assert.Equal(t, OutcomeUserHasPurchasedItem, outcome)

	_, err = NewPurchaseNotification("n-2", PurchaseOutcome(0), clock)
	assert.Equal(t, ErrUnknownOutcome, err)

	_, err = NewPurchaseNotification("", OutcomeUnknownError, clock)
	assert.Equal(t, ErrInvalidNotificationID, err)
}

func TestNewSetupFailureNotification(t *testing.T) {
	clock := FixedClock{FixedTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	n, err := NewSetupFailureNotification("n-1", clock)
	require.NoError(t, err)
	assert.Equal(t, KindBillingSetupFailed, n.Kind())

	_, ok := n.Outcome()
	assert.False(t, ok)
}
