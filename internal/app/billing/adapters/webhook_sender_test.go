package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/domain"
)

func TestHTTPNotificationSender_PostsPurchase(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	n, err := domain.NewPurchaseNotification("n-1", domain.OutcomeUserPurchasedOwnedItem, domain.FixedClock{FixedTime: at})
	require.NoError(t, err)

	sender := NewHTTPNotificationSender(server.Client(), server.URL)
	require.NoError(t, sender.Send(context.Background(), n))

	assert.Equal(t, "n-1", received["id"])
	assert.Equal(t, "PURCHASE_UPDATED", received["kind"])
	assert.Equal(t, "USER_PURCHASED_OWNED_ITEM", received["outcome"])
	assert.Equal(t, "2024-01-01T12:00:00Z", received["delivered_at"])
}

func TestHTTPNotificationSender_SetupFailureOmitsOutcome(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&received)
	}))
	defer server.Close()

	n, err := domain.NewSetupFailureNotification("n-2", domain.RealClock{})
	require.NoError(t, err)

	require.NoError(t, NewHTTPNotificationSender(server.Client(), server.URL).Send(context.Background(), n))

	assert.Equal(t, "BILLING_SETUP_FAILED", received["kind"])
	assert.NotContains(t, received, "outcome")
}

func TestHTTPNotificationSender_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	n, _ := domain.NewSetupFailureNotification("n-3", domain.RealClock{})
	err := NewHTTPNotificationSender(server.Client(), server.URL).Send(context.Background(), n)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream down")
}

func TestHTTPNotificationSender_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, _ := domain.NewSetupFailureNotification("n-4", domain.RealClock{})
	err := NewHTTPNotificationSender(server.Client(), server.URL).Send(ctx, n)

	assert.ErrorIs(t, err, context.Canceled)
}
