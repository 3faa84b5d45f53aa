package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mercato/backend/internal/domain/catalog"
	"github.com/mercato/backend/internal/domain/order"
	"github.com/mercato/backend/internal/domain/payment"
	"github.com/mercato/backend/internal/domain/shared"
)

// PaymentService handles the gateway-facing payment lifecycle: opening
// charges, consuming webhook callbacks and splitting captured money into
// per-seller escrow.
type PaymentService struct {
	paymentRepo    payment.PaymentRepository
	orderRepo      order.OrderRepository
	productRepo    catalog.ProductRepository
	escrowRepo     payment.EscrowRepository
	commissionRepo payment.CommissionRecordRepository
	ruleRepo       payment.CommissionRuleRepository
	gateway        payment.Gateway
	captureService *payment.CaptureService
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo payment.PaymentRepository,
	orderRepo order.OrderRepository,
	productRepo catalog.ProductRepository,
	escrowRepo payment.EscrowRepository,
	commissionRepo payment.CommissionRecordRepository,
	ruleRepo payment.CommissionRuleRepository,
	gateway payment.Gateway,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo:    paymentRepo,
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		escrowRepo:     escrowRepo,
		commissionRepo: commissionRepo,
		ruleRepo:       ruleRepo,
		gateway:        gateway,
		captureService: payment.NewCaptureService(),
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// StartCharge opens a gateway charge for an initiated payment and stores
// the gateway reference so the webhook can find its way back.
func (s *PaymentService) StartCharge(ctx context.Context, input StartChargeInput) (*StartChargeResult, error) {
	p, err := s.paymentRepo.FindByID(ctx, input.PaymentID)
	if err != nil {
		return nil, err
	}
	if p.BuyerID != input.BuyerID {
		return nil, shared.ErrForbidden
	}
	if p.Status != payment.PaymentStatusInitiated {
		return nil, shared.NewDomainError("INVALID_STATUS",
			"Only initiated payments can be charged, current status: "+p.Status.String())
	}

	o, err := s.orderRepo.FindByID(ctx, p.OrderID)
	if err != nil {
		return nil, err
	}

	resp, err := s.gateway.CreateCharge(ctx, payment.GatewayChargeRequest{
		PaymentID: p.ID.String(),
		OrderNo:   o.OrderNumber,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Method:    p.Method,
		ReturnURL: input.ReturnURL,
	})
	if err != nil {
		s.logger.Error("Gateway charge creation failed",
			zap.String("payment_id", p.ID.String()), zap.Error(err))
		return nil, shared.NewDomainError("GATEWAY_ERROR", "Payment provider rejected the charge")
	}

	p.GatewayRef = resp.GatewayRef
	if err := s.paymentRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}

	return &StartChargeResult{
		PaymentID:   p.ID,
		GatewayRef:  resp.GatewayRef,
		RedirectURL: resp.RedirectURL,
		ClientToken: resp.ClientToken,
	}, nil
}

// HandleWebhook verifies and applies a gateway callback. Redelivered
// events are acknowledged without side effects so the gateway stops
// retrying.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		s.logger.Warn("Rejected webhook with bad signature", zap.Error(err))
		return shared.NewDomainError("INVALID_SIGNATURE", "Webhook signature verification failed")
	}

	p, err := s.lookupPayment(ctx, event)
	if err != nil {
		return err
	}

	switch event.Type {
	case payment.WebhookChargeSucceeded:
		return s.applyCapture(ctx, p, event)
	case payment.WebhookChargeFailed:
		return s.applyFailure(ctx, p, event)
	default:
		s.logger.Debug("Ignoring webhook event type", zap.String("type", event.Type))
		return nil
	}
}

func (s *PaymentService) lookupPayment(ctx context.Context, event *payment.WebhookEvent) (*payment.Payment, error) {
	if event.PaymentID != "" {
		id, err := uuid.Parse(event.PaymentID)
		if err == nil {
			return s.paymentRepo.FindByID(ctx, id)
		}
	}
	return s.paymentRepo.FindByGatewayRef(ctx, event.GatewayRef)
}

// applyCapture marks the payment succeeded and carves it into per-seller
// escrow entries with their commission records. Runs once; a redelivered
// capture on an already captured payment is a no-op.
func (s *PaymentService) applyCapture(ctx context.Context, p *payment.Payment, event *payment.WebhookEvent) error {
	if p.IsCaptured() {
		return nil
	}
	if !event.Amount.IsZero() && !event.Amount.Equal(p.Amount) {
		return shared.NewDomainError("AMOUNT_MISMATCH",
			fmt.Sprintf("Gateway captured %s but the payment expects %s", event.Amount, p.Amount))
	}

	if err := p.MarkSucceeded(event.GatewayRef); err != nil {
		return err
	}

	o, err := s.orderRepo.FindByID(ctx, p.OrderID)
	if err != nil {
		return err
	}

	shares, err := s.sellerShares(ctx, o)
	if err != nil {
		return err
	}
	rules, err := s.candidateRules(ctx, shares)
	if err != nil {
		return err
	}

	splits, err := s.captureService.Split(p, shares, o.ShippingFee, rules)
	if err != nil {
		return err
	}

	for _, split := range splits {
		if err := s.escrowRepo.Save(ctx, split.Entry); err != nil {
			return err
		}
		if err := s.commissionRepo.Save(ctx, split.Commission); err != nil {
			return err
		}
	}
	if err := s.paymentRepo.SaveWithLock(ctx, p); err != nil {
		return err
	}

	s.logger.Info("Payment captured and split into escrow",
		zap.String("payment_id", p.ID.String()),
		zap.String("order_id", p.OrderID.String()),
		zap.Int("sellers", len(splits)))

	s.publishEvents(ctx, p.GetDomainEvents())
	p.ClearDomainEvents()
	return nil
}

func (s *PaymentService) applyFailure(ctx context.Context, p *payment.Payment, event *payment.WebhookEvent) error {
	if p.Status == payment.PaymentStatusFailed {
		return nil
	}

	reason := event.Reason
	if reason == "" {
		reason = "Payment provider declined the charge"
	}
	if err := p.MarkFailed(reason); err != nil {
		return err
	}
	if err := s.paymentRepo.SaveWithLock(ctx, p); err != nil {
		return err
	}

	s.logger.Info("Payment failed",
		zap.String("payment_id", p.ID.String()), zap.String("reason", reason))

	s.publishEvents(ctx, p.GetDomainEvents())
	p.ClearDomainEvents()
	return nil
}

// sellerShares builds the escrow split input from the order: one share
// per seller with their merchandise subtotal and the category of their
// first line, which anchors commission rule matching.
func (s *PaymentService) sellerShares(ctx context.Context, o *order.Order) ([]payment.SellerShareInput, error) {
	sellerIDs := o.SellerIDs()
	shares := make([]payment.SellerShareInput, 0, len(sellerIDs))
	for _, sellerID := range sellerIDs {
		lines := o.SellerLines(sellerID)
		if len(lines) == 0 {
			continue
		}
		categoryID, err := s.lineCategory(ctx, lines[0].ProductID)
		if err != nil {
			return nil, err
		}
		shares = append(shares, payment.SellerShareInput{
			SellerID:   sellerID,
			Subtotal:   o.SellerSubtotal(sellerID),
			CategoryID: categoryID,
		})
	}
	return shares, nil
}

// lineCategory resolves a product's category; a product deleted after
// checkout degrades to no category rather than blocking the capture.
func (s *PaymentService) lineCategory(ctx context.Context, productID uuid.UUID) (uuid.UUID, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, nil
		}
		return uuid.Nil, err
	}
	return product.CategoryID, nil
}

func (s *PaymentService) candidateRules(ctx context.Context, shares []payment.SellerShareInput) ([]*payment.CommissionRule, error) {
	seen := make(map[uuid.UUID]bool)
	var rules []*payment.CommissionRule
	for _, share := range shares {
		candidates, err := s.ruleRepo.FindCandidates(ctx, share.SellerID, share.CategoryID)
		if err != nil {
			return nil, err
		}
		for _, rule := range candidates {
			if !seen[rule.ID] {
				seen[rule.ID] = true
				rules = append(rules, rule)
			}
		}
	}
	return rules, nil
}

// GetPayment returns a payment visible to its buyer or an admin
func (s *PaymentService) GetPayment(ctx context.Context, paymentID uuid.UUID, buyerID *uuid.UUID) (*PaymentInfo, error) {
	p, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if buyerID != nil && p.BuyerID != *buyerID {
		return nil, shared.ErrForbidden
	}
	return ToPaymentInfo(p), nil
}

// ListOrderPayments returns every payment attempt recorded for an order
func (s *PaymentService) ListOrderPayments(ctx context.Context, orderID uuid.UUID) ([]*PaymentInfo, error) {
	payments, err := s.paymentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	infos := make([]*PaymentInfo, 0, len(payments))
	for i := range payments {
		infos = append(infos, ToPaymentInfo(&payments[i]))
	}
	return infos, nil
}

// ListOrderEscrow returns the escrow entries carved out of an order
func (s *PaymentService) ListOrderEscrow(ctx context.Context, orderID uuid.UUID) ([]*EscrowInfo, error) {
	entries, err := s.escrowRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	infos := make([]*EscrowInfo, 0, len(entries))
	for i := range entries {
		infos = append(infos, ToEscrowInfo(&entries[i]))
	}
	return infos, nil
}

// ListSellerEscrow returns a seller's escrow entries, newest first
func (s *PaymentService) ListSellerEscrow(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]*EscrowInfo, error) {
	entries, err := s.escrowRepo.FindBySeller(ctx, sellerID, filter)
	if err != nil {
		return nil, err
	}
	infos := make([]*EscrowInfo, 0, len(entries))
	for i := range entries {
		infos = append(infos, ToEscrowInfo(&entries[i]))
	}
	return infos, nil
}

func (s *PaymentService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range events {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish event",
				zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
}
