package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/order"
	"github.com/mercato/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReturnService handles the return and refund flow for delivered
// order lines
type ReturnService struct {
	returnRepo     order.ReturnRequestRepository
	orderRepo      order.OrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReturnService creates a new return service
func NewReturnService(
	returnRepo order.ReturnRequestRepository,
	orderRepo order.OrderRepository,
	logger *zap.Logger,
) *ReturnService {
	return &ReturnService{
		returnRepo: returnRepo,
		orderRepo:  orderRepo,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ReturnService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// RequestReturn opens a return for a delivered order line. The
// requested quantity plus quantities already in open or refunded
// returns may not exceed the line quantity.
func (s *ReturnService) RequestReturn(ctx context.Context, input RequestReturnInput) (*ReturnInfo, error) {
	o, err := s.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}
	if o.BuyerID != input.BuyerID {
		return nil, shared.ErrForbidden
	}
	if o.DeliveredAt == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Returns are only allowed for delivered orders")
	}

	item := o.GetItem(input.OrderItemID)
	if item == nil {
		return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}

	alreadyClaimed, err := s.returnRepo.SumReturnedQty(ctx, input.OrderItemID)
	if err != nil {
		s.logger.Error("Failed to sum prior return quantities", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to open return")
	}
	if alreadyClaimed+input.Quantity > item.Quantity {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity exceeds remaining quantity")
	}

	r, err := order.NewReturnRequest(o, input.OrderItemID, input.Quantity, input.Reason, *o.DeliveredAt)
	if err != nil {
		return nil, err
	}

	if err := s.returnRepo.Save(ctx, r); err != nil {
		s.logger.Error("Failed to save return request", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to open return")
	}

	s.publishEvents(ctx, r)

	s.logger.Info("Return requested",
		zap.String("return_id", r.ID.String()),
		zap.String("order_id", o.ID.String()),
		zap.Int("quantity", r.Quantity))

	info := ToReturnInfo(r)
	return &info, nil
}

// ApproveReturn lets the seller accept a requested return
func (s *ReturnService) ApproveReturn(ctx context.Context, returnID, sellerID uuid.UUID) error {
	r, err := s.findSellerReturn(ctx, returnID, sellerID)
	if err != nil {
		return err
	}

	if err := r.Approve(); err != nil {
		return err
	}

	if err := s.returnRepo.SaveWithLock(ctx, r); err != nil {
		s.logger.Error("Failed to save return approval", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to approve return")
	}

	s.publishEvents(ctx, r)
	return nil
}

// RejectReturn lets the seller decline a requested return
func (s *ReturnService) RejectReturn(ctx context.Context, input RejectReturnInput) error {
	r, err := s.findSellerReturn(ctx, input.ReturnID, input.SellerID)
	if err != nil {
		return err
	}

	if err := r.Reject(input.Reason); err != nil {
		return err
	}

	if err := s.returnRepo.SaveWithLock(ctx, r); err != nil {
		s.logger.Error("Failed to save return rejection", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reject return")
	}

	s.publishEvents(ctx, r)
	return nil
}

// MarkShippedBack records that the buyer sent the item back
func (s *ReturnService) MarkShippedBack(ctx context.Context, returnID, buyerID uuid.UUID) error {
	r, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return shared.NewDomainError("RETURN_NOT_FOUND", "Return request not found")
	}
	if r.BuyerID != buyerID {
		return shared.ErrForbidden
	}

	if err := r.MarkShippedBack(); err != nil {
		return err
	}

	if err := s.returnRepo.SaveWithLock(ctx, r); err != nil {
		s.logger.Error("Failed to save return shipment", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to record shipment")
	}
	return nil
}

// ConfirmReceived records that the seller received the returned item
// and updates the order line's returned quantity. The refund is
// processed off the ReturnReceived event.
func (s *ReturnService) ConfirmReceived(ctx context.Context, returnID, sellerID uuid.UUID) error {
	r, err := s.findSellerReturn(ctx, returnID, sellerID)
	if err != nil {
		return err
	}

	if err := r.ConfirmReceived(); err != nil {
		return err
	}

	o, err := s.orderRepo.FindByID(ctx, r.OrderID)
	if err != nil {
		return shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}
	if err := o.RecordReturn(r.OrderItemID, r.Quantity); err != nil {
		return err
	}

	if err := s.returnRepo.SaveWithLock(ctx, r); err != nil {
		s.logger.Error("Failed to save return receipt", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to confirm receipt")
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		s.logger.Error("Failed to save returned quantity", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to confirm receipt")
	}

	s.publishEvents(ctx, r)

	s.logger.Info("Return received",
		zap.String("return_id", r.ID.String()),
		zap.String("refund_amount", r.RefundAmount.String()))
	return nil
}

// CloseReturn closes a rejected or stalled return without a refund
func (s *ReturnService) CloseReturn(ctx context.Context, returnID uuid.UUID) error {
	r, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return shared.NewDomainError("RETURN_NOT_FOUND", "Return request not found")
	}

	if err := r.Close(); err != nil {
		return err
	}

	if err := s.returnRepo.SaveWithLock(ctx, r); err != nil {
		s.logger.Error("Failed to save return closure", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to close return")
	}
	return nil
}

// PostMessage appends a message to a return's discussion thread
func (s *ReturnService) PostMessage(ctx context.Context, input PostReturnMessageInput) (*ReturnMessageInfo, error) {
	r, err := s.returnRepo.FindByID(ctx, input.ReturnID)
	if err != nil {
		return nil, shared.NewDomainError("RETURN_NOT_FOUND", "Return request not found")
	}

	msg, err := r.AddMessage(input.AuthorID, order.MessageAuthorRole(input.AuthorRole), input.Body)
	if err != nil {
		return nil, err
	}

	if err := s.returnRepo.Save(ctx, r); err != nil {
		s.logger.Error("Failed to save return message", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to post message")
	}

	return &ReturnMessageInfo{
		ID:         msg.ID,
		AuthorID:   msg.AuthorID,
		AuthorRole: string(msg.AuthorRole),
		Body:       msg.Body,
		CreatedAt:  msg.CreatedAt,
	}, nil
}

// GetReturn returns a single return request with its thread
func (s *ReturnService) GetReturn(ctx context.Context, returnID uuid.UUID) (*ReturnInfo, error) {
	r, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, shared.NewDomainError("RETURN_NOT_FOUND", "Return request not found")
	}
	info := ToReturnInfo(r)
	return &info, nil
}

// ListBuyerReturns returns a buyer's return requests
func (s *ReturnService) ListBuyerReturns(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) (*shared.Paginated[ReturnInfo], error) {
	returns, err := s.returnRepo.FindByBuyer(ctx, buyerID, filter)
	if err != nil {
		s.logger.Error("Failed to list buyer returns", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list returns")
	}
	total, err := s.returnRepo.Count(ctx, filter)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list returns")
	}
	return paginateReturns(returns, total, filter), nil
}

// ListSellerReturns returns return requests against a seller
func (s *ReturnService) ListSellerReturns(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (*shared.Paginated[ReturnInfo], error) {
	returns, err := s.returnRepo.FindBySeller(ctx, sellerID, filter)
	if err != nil {
		s.logger.Error("Failed to list seller returns", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list returns")
	}
	total, err := s.returnRepo.Count(ctx, filter)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list returns")
	}
	return paginateReturns(returns, total, filter), nil
}

func (s *ReturnService) findSellerReturn(ctx context.Context, returnID, sellerID uuid.UUID) (*order.ReturnRequest, error) {
	r, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, shared.NewDomainError("RETURN_NOT_FOUND", "Return request not found")
	}
	if r.SellerID != sellerID {
		return nil, shared.ErrForbidden
	}
	return r, nil
}

func (s *ReturnService) publishEvents(ctx context.Context, r *order.ReturnRequest) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range r.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	r.ClearDomainEvents()
}

func paginateReturns(returns []order.ReturnRequest, total int64, filter shared.Filter) *shared.Paginated[ReturnInfo] {
	infos := make([]ReturnInfo, 0, len(returns))
	for idx := range returns {
		infos = append(infos, ToReturnInfo(&returns[idx]))
	}
	return shared.NewPaginated(infos, total, filter.Page, filter.PageSize)
}
