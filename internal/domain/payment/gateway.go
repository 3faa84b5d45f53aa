package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// GatewayChargeRequest asks the gateway to start a charge for an order
type GatewayChargeRequest struct {
	PaymentID string
	OrderNo   string
	Amount    decimal.Decimal
	Currency  string
	Method    PaymentMethod
	ReturnURL string
}

// GatewayChargeResponse carries the gateway's redirect or client secret
type GatewayChargeResponse struct {
	GatewayRef  string
	RedirectURL string
	ClientToken string
}

// GatewayRefundRequest asks the gateway to hand money back to the buyer
type GatewayRefundRequest struct {
	RefundID   string
	GatewayRef string
	Amount     decimal.Decimal
	Currency   string
	Reason     string
}

// GatewayRefundResponse carries the gateway's refund reference
type GatewayRefundResponse struct {
	GatewayRefundRef string
}

// Webhook event types delivered by the gateway
const (
	WebhookChargeSucceeded = "charge.succeeded"
	WebhookChargeFailed    = "charge.failed"
)

// WebhookEvent is a verified gateway callback
type WebhookEvent struct {
	Type       string
	PaymentID  string
	GatewayRef string
	Amount     decimal.Decimal
	Reason     string
	Raw        []byte
}

// Gateway is the port to the external payment provider. Implementations
// live in infrastructure; the domain only depends on this interface.
type Gateway interface {
	CreateCharge(ctx context.Context, req GatewayChargeRequest) (*GatewayChargeResponse, error)
	RefundCharge(ctx context.Context, req GatewayRefundRequest) (*GatewayRefundResponse, error)
	// VerifyWebhook authenticates a raw callback payload and signature
	// and decodes it into a typed event.
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// TransferRequest asks the payout rail to move a seller's released balance
type TransferRequest struct {
	PayoutID string
	BankRef  string
	Amount   decimal.Decimal
	Currency string
}

// TransferResponse carries the rail's transfer reference
type TransferResponse struct {
	TransferRef string
}

// PayoutRail is the port to the bank transfer provider used for seller
// payouts.
type PayoutRail interface {
	SubmitTransfer(ctx context.Context, req TransferRequest) (*TransferResponse, error)
}
