package domain

import "strconv"

// ResponseCode is a response code returned by the platform billing service.
type ResponseCode int

const (
	ResponseServiceTimeout      ResponseCode = -3
	ResponseFeatureNotSupported ResponseCode = -2
	ResponseServiceDisconnected ResponseCode = -1
	ResponseOK                  ResponseCode = 0
	ResponseUserCanceled        ResponseCode = 1
	ResponseServiceUnavailable  ResponseCode = 2
	ResponseBillingUnavailable  ResponseCode = 3
	ResponseItemUnavailable     ResponseCode = 4
	ResponseDeveloperError      ResponseCode = 5
	ResponseError               ResponseCode = 6
	ResponseItemAlreadyOwned    ResponseCode = 7
	ResponseItemNotOwned        ResponseCode = 8
	ResponseNetworkError        ResponseCode = 12
)

var responseNames = map[ResponseCode]string{
	ResponseServiceTimeout:      "SERVICE_TIMEOUT",
	ResponseFeatureNotSupported: "FEATURE_NOT_SUPPORTED",
	ResponseServiceDisconnected: "SERVICE_DISCONNECTED",
	ResponseOK:                  "OK",
	ResponseUserCanceled:        "USER_CANCELED",
	ResponseServiceUnavailable:  "SERVICE_UNAVAILABLE",
	ResponseBillingUnavailable:  "BILLING_UNAVAILABLE",
	ResponseItemUnavailable:     "ITEM_UNAVAILABLE",
	ResponseDeveloperError:      "DEVELOPER_ERROR",
	ResponseError:               "ERROR",
	ResponseItemAlreadyOwned:    "ITEM_ALREADY_OWNED",
	ResponseItemNotOwned:        "ITEM_NOT_OWNED",
	ResponseNetworkError:        "NETWORK_ERROR",
}

func (c ResponseCode) String() string {
	if n, ok := responseNames[c]; ok {
		return n
	}
	return "RESPONSE_" + strconv.Itoa(int(c))
}

// OutcomeForPurchaseResponse maps the response of a purchase update to the
// outcome a listener should receive. The bool is false when the response
// produces no notification: success is reported only after the purchase
// is verified, and cancellation, service outages and developer errors are
// surfaced by the platform itself.
func OutcomeForPurchaseResponse(code ResponseCode) (PurchaseOutcome, bool) {
	switch code {
	case ResponseItemAlreadyOwned:
		return OutcomeUserPurchasedOwnedItem, true
	case ResponseOK, ResponseUserCanceled, ResponseServiceUnavailable, ResponseDeveloperError:
		return 0, false
	default:
		return OutcomeUnknownError, true
	}
}

// OutcomeForProductDetailsResponse maps the response of the product
// lookup that starts a purchase flow.
func OutcomeForProductDetailsResponse(code ResponseCode) (PurchaseOutcome, bool) {
	if code == ResponseOK {
		return 0, false
	}
	return OutcomeFailedToInitiatePurchase, true
}
