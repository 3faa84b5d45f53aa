package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mercato/backend/internal/domain/order"
	"github.com/mercato/backend/internal/domain/payment"
	"github.com/mercato/backend/internal/domain/shared"
)

// CreateRefundInput carries a received return into refund creation
type CreateRefundInput struct {
	ReturnRequestID uuid.UUID
	OrderID         uuid.UUID
	OrderItemID     uuid.UUID
	SellerID        uuid.UUID
	Amount          decimal.Decimal
	Reason          string
}

// RefundService creates refunds for received returns and drives them
// through the gateway. Completion ripples across the money ledger: the
// payment's refunded total, the seller's escrow entry, the commission
// record and the return request are all updated together.
type RefundService struct {
	refundRepo     payment.RefundRepository
	paymentRepo    payment.PaymentRepository
	escrowRepo     payment.EscrowRepository
	commissionRepo payment.CommissionRecordRepository
	returnRepo     order.ReturnRequestRepository
	gateway        payment.Gateway
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewRefundService creates a new refund service
func NewRefundService(
	refundRepo payment.RefundRepository,
	paymentRepo payment.PaymentRepository,
	escrowRepo payment.EscrowRepository,
	commissionRepo payment.CommissionRecordRepository,
	returnRepo order.ReturnRequestRepository,
	gateway payment.Gateway,
	logger *zap.Logger,
) *RefundService {
	return &RefundService{
		refundRepo:     refundRepo,
		paymentRepo:    paymentRepo,
		escrowRepo:     escrowRepo,
		commissionRepo: commissionRepo,
		returnRepo:     returnRepo,
		gateway:        gateway,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *RefundService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateForReturn opens a PENDING refund for a received return. A return
// that already has a refund is left alone, so redelivered events create
// no duplicates.
func (s *RefundService) CreateForReturn(ctx context.Context, input CreateRefundInput) (*RefundInfo, error) {
	existing, err := s.refundRepo.FindByReturnRequestID(ctx, input.ReturnRequestID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return ToRefundInfo(existing), nil
	}

	p, err := s.capturedPayment(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	reason := input.Reason
	if reason == "" {
		reason = "Returned item received"
	}
	refund, err := payment.NewRefund(p, input.SellerID, input.Amount, reason)
	if err != nil {
		return nil, err
	}
	if err := refund.LinkReturn(input.ReturnRequestID, input.OrderItemID); err != nil {
		return nil, err
	}
	if err := s.refundRepo.Save(ctx, refund); err != nil {
		return nil, err
	}

	s.logger.Info("Refund created for return",
		zap.String("refund_id", refund.ID.String()),
		zap.String("return_request_id", input.ReturnRequestID.String()),
		zap.String("amount", input.Amount.String()))
	return ToRefundInfo(refund), nil
}

// ProcessPending submits pending refunds to the gateway and applies the
// money movements for each confirmation. Gateway rejections mark the
// refund failed and leave it for operator review; errors on one refund
// never block the rest of the batch. Returns the number completed.
func (s *RefundService) ProcessPending(ctx context.Context, limit int) (int, error) {
	pending, err := s.refundRepo.FindPending(ctx, limit)
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range pending {
		refund := &pending[i]
		if err := s.processOne(ctx, refund); err != nil {
			s.logger.Error("Failed to process refund",
				zap.String("refund_id", refund.ID.String()), zap.Error(err))
			continue
		}
		if refund.Status == payment.RefundStatusCompleted {
			completed++
		}
	}
	return completed, nil
}

func (s *RefundService) processOne(ctx context.Context, refund *payment.Refund) error {
	p, err := s.paymentRepo.FindByID(ctx, refund.PaymentID)
	if err != nil {
		return err
	}

	resp, err := s.gateway.RefundCharge(ctx, payment.GatewayRefundRequest{
		RefundID:   refund.ID.String(),
		GatewayRef: p.GatewayRef,
		Amount:     refund.Amount,
		Currency:   p.Currency,
		Reason:     refund.Reason,
	})
	if err != nil {
		if markErr := refund.MarkFailed(err.Error()); markErr != nil {
			return markErr
		}
		if saveErr := s.refundRepo.SaveWithLock(ctx, refund); saveErr != nil {
			return saveErr
		}
		s.publishEvents(ctx, refund.GetDomainEvents())
		refund.ClearDomainEvents()
		return nil
	}

	if err := refund.MarkCompleted(resp.GatewayRefundRef); err != nil {
		return err
	}
	if err := s.applyMoneyMovements(ctx, refund, p); err != nil {
		return err
	}
	if err := s.refundRepo.SaveWithLock(ctx, refund); err != nil {
		return err
	}

	s.logger.Info("Refund completed",
		zap.String("refund_id", refund.ID.String()),
		zap.String("amount", refund.Amount.String()))

	s.publishEvents(ctx, refund.GetDomainEvents())
	refund.ClearDomainEvents()
	return nil
}

// applyMoneyMovements records the completed refund against the payment,
// the seller's escrow entry, the commission record and, when the refund
// came from a return, the return request itself.
func (s *RefundService) applyMoneyMovements(ctx context.Context, refund *payment.Refund, p *payment.Payment) error {
	if err := p.RecordRefund(refund.Amount); err != nil {
		return err
	}
	if err := s.paymentRepo.SaveWithLock(ctx, p); err != nil {
		return err
	}

	entry, err := s.escrowRepo.FindByOrderAndSeller(ctx, refund.OrderID, refund.SellerID)
	if err != nil {
		return err
	}
	record, err := s.commissionRepo.FindByEscrowEntryID(ctx, entry.ID)
	if err != nil {
		return err
	}
	reversal, err := record.AdjustForRefund(refund.Amount, refund.Reason)
	if err != nil {
		return err
	}
	if err := entry.ApplyRefund(refund.Amount, reversal); err != nil {
		return err
	}
	if err := s.commissionRepo.Save(ctx, record); err != nil {
		return err
	}
	if err := s.escrowRepo.SaveWithLock(ctx, entry); err != nil {
		return err
	}
	s.publishEvents(ctx, entry.GetDomainEvents())
	entry.ClearDomainEvents()

	if refund.ReturnRequestID == nil {
		return nil
	}
	ret, err := s.returnRepo.FindByID(ctx, *refund.ReturnRequestID)
	if err != nil {
		return err
	}
	if err := ret.MarkRefunded(); err != nil {
		return err
	}
	return s.returnRepo.SaveWithLock(ctx, ret)
}

// GetRefund finds a refund by ID
func (s *RefundService) GetRefund(ctx context.Context, refundID uuid.UUID) (*RefundInfo, error) {
	refund, err := s.refundRepo.FindByID(ctx, refundID)
	if err != nil {
		return nil, err
	}
	return ToRefundInfo(refund), nil
}

// ListPaymentRefunds returns all refunds issued against a payment
func (s *RefundService) ListPaymentRefunds(ctx context.Context, paymentID uuid.UUID) ([]*RefundInfo, error) {
	refunds, err := s.refundRepo.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	infos := make([]*RefundInfo, 0, len(refunds))
	for i := range refunds {
		infos = append(infos, ToRefundInfo(&refunds[i]))
	}
	return infos, nil
}

func (s *RefundService) capturedPayment(ctx context.Context, orderID uuid.UUID) (*payment.Payment, error) {
	payments, err := s.paymentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	for i := range payments {
		if payments[i].IsCaptured() {
			return &payments[i], nil
		}
	}
	return nil, shared.NewDomainError("PAYMENT_NOT_CAPTURED", "Order has no captured payment to refund")
}

func (s *RefundService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
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
