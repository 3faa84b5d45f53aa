package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mercato/backend/internal/domain/payment"
	"github.com/mercato/backend/internal/infrastructure/config"
)

func newTestGateway(t *testing.T, baseURL string) *HTTPGateway {
	t.Helper()

	g, err := NewHTTPGateway(&config.GatewayConfig{
		BaseURL:       baseURL,
		APIKey:        "test-api-key",
		WebhookSecret: "test-webhook-secret",
		ReturnURL:     "https://shop.example.com/checkout/done",
		Timeout:       5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	return g
}

func TestNewHTTPGateway_Validation(t *testing.T) {
	_, err := NewHTTPGateway(&config.GatewayConfig{APIKey: "k"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewHTTPGateway(&config.GatewayConfig{BaseURL: "https://pay.example.com"}, zap.NewNop())
	assert.Error(t, err)
}

func TestHTTPGateway_CreateCharge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/charges", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pay-1", body["payment_id"])
		assert.Equal(t, "ORD-20250312-0001", body["order_no"])
		assert.Equal(t, "54.90", body["amount"])
		assert.Equal(t, "EUR", body["currency"])
		assert.Equal(t, "https://shop.example.com/checkout/done", body["return_url"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ch_123","redirect_url":"https://pay.example.com/r/ch_123","client_token":"tok_abc"}`))
	}))
	defer server.Close()

	g := newTestGateway(t, server.URL)

	resp, err := g.CreateCharge(context.Background(), payment.GatewayChargeRequest{
		PaymentID: "pay-1",
		OrderNo:   "ORD-20250312-0001",
		Amount:    decimal.RequireFromString("54.90"),
		Currency:  "EUR",
		Method:    payment.PaymentMethodCard,
	})

	require.NoError(t, err)
	assert.Equal(t, "ch_123", resp.GatewayRef)
	assert.Equal(t, "https://pay.example.com/r/ch_123", resp.RedirectURL)
	assert.Equal(t, "tok_abc", resp.ClientToken)
}

func TestHTTPGateway_CreateCharge_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"currency_unsupported","message":"currency not supported"}}`))
	}))
	defer server.Close()

	g := newTestGateway(t, server.URL)

	_, err := g.CreateCharge(context.Background(), payment.GatewayChargeRequest{
		PaymentID: "pay-1",
		OrderNo:   "ORD-1",
		Amount:    decimal.NewFromInt(10),
		Currency:  "XXX",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "currency_unsupported")
}

func TestHTTPGateway_RefundCharge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/charges/ch_123/refunds", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ref-1", body["refund_id"])
		assert.Equal(t, "12.50", body["amount"])

		_, _ = w.Write([]byte(`{"id":"re_456"}`))
	}))
	defer server.Close()

	g := newTestGateway(t, server.URL)

	resp, err := g.RefundCharge(context.Background(), payment.GatewayRefundRequest{
		RefundID:   "ref-1",
		GatewayRef: "ch_123",
		Amount:     decimal.RequireFromString("12.50"),
		Currency:   "EUR",
		Reason:     "return approved",
	})

	require.NoError(t, err)
	assert.Equal(t, "re_456", resp.GatewayRefundRef)
}

func TestHTTPGateway_SubmitTransfer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transfers", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "po-1", body["payout_id"])
		assert.Equal(t, "DE89****3000", body["bank_ref"])
		assert.Equal(t, "230.00", body["amount"])

		_, _ = w.Write([]byte(`{"id":"tr_789"}`))
	}))
	defer server.Close()

	g := newTestGateway(t, server.URL)

	resp, err := g.SubmitTransfer(context.Background(), payment.TransferRequest{
		PayoutID: "po-1",
		BankRef:  "DE89****3000",
		Amount:   decimal.NewFromInt(230),
		Currency: "EUR",
	})

	require.NoError(t, err)
	assert.Equal(t, "tr_789", resp.TransferRef)
}

func TestHTTPGateway_VerifyWebhook(t *testing.T) {
	g := newTestGateway(t, "https://pay.example.com")

	payload := []byte(`{"type":"charge.succeeded","payment_id":"pay-1","charge_id":"ch_123","amount":"54.90"}`)
	signature := g.SignPayload(payload)

	t.Run("ValidSignature", func(t *testing.T) {
		event, err := g.VerifyWebhook(payload, signature)

		require.NoError(t, err)
		assert.Equal(t, payment.WebhookChargeSucceeded, event.Type)
		assert.Equal(t, "pay-1", event.PaymentID)
		assert.Equal(t, "ch_123", event.GatewayRef)
		assert.True(t, event.Amount.Equal(decimal.RequireFromString("54.90")))
		assert.Equal(t, payload, event.Raw)
	})

	t.Run("TamperedPayload", func(t *testing.T) {
		tampered := []byte(`{"type":"charge.succeeded","payment_id":"pay-2","charge_id":"ch_123","amount":"54.90"}`)

		_, err := g.VerifyWebhook(tampered, signature)

		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("MalformedSignature", func(t *testing.T) {
		_, err := g.VerifyWebhook(payload, "not-hex")

		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("UnknownEventType", func(t *testing.T) {
		unknown := []byte(`{"type":"charge.disputed","payment_id":"pay-1"}`)

		_, err := g.VerifyWebhook(unknown, g.SignPayload(unknown))

		assert.ErrorIs(t, err, ErrUnknownEventType)
	})

	t.Run("FailedChargeEvent", func(t *testing.T) {
		failed := []byte(`{"type":"charge.failed","payment_id":"pay-1","charge_id":"ch_123","reason":"insufficient_funds"}`)

		event, err := g.VerifyWebhook(failed, g.SignPayload(failed))

		require.NoError(t, err)
		assert.Equal(t, payment.WebhookChargeFailed, event.Type)
		assert.Equal(t, "insufficient_funds", event.Reason)
	})
}

func TestHTTPGateway_InterfaceCompliance(t *testing.T) {
	g := newTestGateway(t, "https://pay.example.com")

	var _ payment.Gateway = g
	var _ payment.PayoutRail = g
}
