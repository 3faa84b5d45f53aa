package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mercato/backend/internal/domain/payment"
	"github.com/mercato/backend/internal/infrastructure/config"
)

const (
	chargesPath   = "/v1/charges"
	refundsPath   = "/v1/charges/%s/refunds"
	transfersPath = "/v1/transfers"

	defaultTimeout = 30 * time.Second
)

var (
	// ErrInvalidSignature is returned when a webhook payload fails HMAC verification
	ErrInvalidSignature = errors.New("gateway: invalid webhook signature")

	// ErrUnknownEventType is returned for webhook events this service does not handle
	ErrUnknownEventType = errors.New("gateway: unknown webhook event type")
)

// HTTPGateway talks to the external payment provider over its REST API.
// It implements both the charge-side Gateway port and the PayoutRail port,
// since the provider exposes transfers on the same API surface.
type HTTPGateway struct {
	config     *config.GatewayConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPGateway creates a gateway client from configuration
func NewHTTPGateway(cfg *config.GatewayConfig, logger *zap.Logger) (*HTTPGateway, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("gateway: base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("gateway: API key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &HTTPGateway{
		config:     cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

type chargeRequestBody struct {
	PaymentID string `json:"payment_id"`
	OrderNo   string `json:"order_no"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Method    string `json:"method"`
	ReturnURL string `json:"return_url,omitempty"`
}

type chargeResponseBody struct {
	ID          string `json:"id"`
	RedirectURL string `json:"redirect_url"`
	ClientToken string `json:"client_token"`
}

// CreateCharge starts a charge with the provider and returns the reference
// the buyer needs to complete it.
func (g *HTTPGateway) CreateCharge(ctx context.Context, req payment.GatewayChargeRequest) (*payment.GatewayChargeResponse, error) {
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = g.config.ReturnURL
	}

	body := chargeRequestBody{
		PaymentID: req.PaymentID,
		OrderNo:   req.OrderNo,
		Amount:    req.Amount.StringFixed(2),
		Currency:  req.Currency,
		Method:    string(req.Method),
		ReturnURL: returnURL,
	}

	var resp chargeResponseBody
	if err := g.post(ctx, chargesPath, body, &resp); err != nil {
		g.logger.Error("Gateway charge creation failed",
			zap.String("payment_id", req.PaymentID),
			zap.String("order_no", req.OrderNo),
			zap.Error(err),
		)
		return nil, err
	}

	g.logger.Info("Gateway charge created",
		zap.String("payment_id", req.PaymentID),
		zap.String("gateway_ref", resp.ID),
	)

	return &payment.GatewayChargeResponse{
		GatewayRef:  resp.ID,
		RedirectURL: resp.RedirectURL,
		ClientToken: resp.ClientToken,
	}, nil
}

type refundRequestBody struct {
	RefundID string `json:"refund_id"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Reason   string `json:"reason,omitempty"`
}

type refundResponseBody struct {
	ID string `json:"id"`
}

// RefundCharge asks the provider to return funds to the buyer.
func (g *HTTPGateway) RefundCharge(ctx context.Context, req payment.GatewayRefundRequest) (*payment.GatewayRefundResponse, error) {
	body := refundRequestBody{
		RefundID: req.RefundID,
		Amount:   req.Amount.StringFixed(2),
		Currency: req.Currency,
		Reason:   req.Reason,
	}

	var resp refundResponseBody
	if err := g.post(ctx, fmt.Sprintf(refundsPath, req.GatewayRef), body, &resp); err != nil {
		g.logger.Error("Gateway refund failed",
			zap.String("refund_id", req.RefundID),
			zap.String("gateway_ref", req.GatewayRef),
			zap.Error(err),
		)
		return nil, err
	}

	g.logger.Info("Gateway refund accepted",
		zap.String("refund_id", req.RefundID),
		zap.String("gateway_refund_ref", resp.ID),
	)

	return &payment.GatewayRefundResponse{GatewayRefundRef: resp.ID}, nil
}

type transferRequestBody struct {
	PayoutID string `json:"payout_id"`
	BankRef  string `json:"bank_ref"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type transferResponseBody struct {
	ID string `json:"id"`
}

// SubmitTransfer moves a seller's released balance to their bank account.
func (g *HTTPGateway) SubmitTransfer(ctx context.Context, req payment.TransferRequest) (*payment.TransferResponse, error) {
	body := transferRequestBody{
		PayoutID: req.PayoutID,
		BankRef:  req.BankRef,
		Amount:   req.Amount.StringFixed(2),
		Currency: req.Currency,
	}

	var resp transferResponseBody
	if err := g.post(ctx, transfersPath, body, &resp); err != nil {
		g.logger.Error("Gateway transfer failed",
			zap.String("payout_id", req.PayoutID),
			zap.Error(err),
		)
		return nil, err
	}

	g.logger.Info("Gateway transfer submitted",
		zap.String("payout_id", req.PayoutID),
		zap.String("transfer_ref", resp.ID),
	)

	return &payment.TransferResponse{TransferRef: resp.ID}, nil
}

type webhookBody struct {
	Type      string `json:"type"`
	PaymentID string `json:"payment_id"`
	ChargeID  string `json:"charge_id"`
	Amount    string `json:"amount"`
	Reason    string `json:"reason"`
}

// VerifyWebhook authenticates a callback payload against the shared HMAC
// secret and decodes it into a typed event. The signature header carries
// hex-encoded HMAC-SHA256 over the raw body.
func (g *HTTPGateway) VerifyWebhook(payload []byte, signature string) (*payment.WebhookEvent, error) {
	mac := hmac.New(sha256.New, []byte(g.config.WebhookSecret))
	mac.Write(payload)

	provided, err := hex.DecodeString(signature)
	if err != nil || !hmac.Equal(provided, mac.Sum(nil)) {
		g.logger.Warn("Webhook signature mismatch")
		return nil, ErrInvalidSignature
	}

	var body webhookBody
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("gateway: malformed webhook payload: %w", err)
	}

	switch body.Type {
	case payment.WebhookChargeSucceeded, payment.WebhookChargeFailed:
	default:
		return nil, ErrUnknownEventType
	}

	amount := decimal.Zero
	if body.Amount != "" {
		amount, err = decimal.NewFromString(body.Amount)
		if err != nil {
			return nil, fmt.Errorf("gateway: invalid webhook amount %q: %w", body.Amount, err)
		}
	}

	return &payment.WebhookEvent{
		Type:       body.Type,
		PaymentID:  body.PaymentID,
		GatewayRef: body.ChargeID,
		Amount:     amount,
		Reason:     body.Reason,
		Raw:        payload,
	}, nil
}

// SignPayload computes the webhook signature for a payload. Exposed for
// tests and for the sandbox replay tool.
func (g *HTTPGateway) SignPayload(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(g.config.WebhookSecret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

type errorResponseBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *HTTPGateway) post(ctx context.Context, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("gateway: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("gateway: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("gateway: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr errorResponseBody
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Code != "" {
			return fmt.Errorf("gateway: %s (%s)", apiErr.Error.Message, apiErr.Error.Code)
		}
		return fmt.Errorf("gateway: unexpected status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("gateway: failed to decode response: %w", err)
		}
	}

	return nil
}
