package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/cart"
	"github.com/mercato/backend/internal/domain/catalog"
	"github.com/mercato/backend/internal/domain/order"
	"github.com/mercato/backend/internal/domain/payment"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/mercato/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// AutoCompleteWindow is how long after delivery an order completes on
// its own when the buyer takes no action
const AutoCompleteWindow = 7 * 24 * time.Hour

// OrderService handles checkout and the order lifecycle
type OrderService struct {
	orderRepo      order.OrderRepository
	cartRepo       cart.CartRepository
	productRepo    catalog.ProductRepository
	paymentRepo    payment.PaymentRepository
	shippingFee    valueobject.Money
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new order service. shippingFee is the flat
// per-order shipping fee charged at checkout.
func NewOrderService(
	orderRepo order.OrderRepository,
	cartRepo cart.CartRepository,
	productRepo catalog.ProductRepository,
	paymentRepo payment.PaymentRepository,
	shippingFee valueobject.Money,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		paymentRepo: paymentRepo,
		shippingFee: shippingFee,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Checkout converts the buyer's active cart into an order. Stock is
// reserved line by line at current catalog prices; the cart freezes and
// a payment in INITIATED status is created for the grand total.
func (s *OrderService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	method := payment.PaymentMethod(input.PaymentMethod)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	address, err := input.ShippingAddress.ToAddress()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}

	buyerCart, err := s.cartRepo.FindActiveByBuyer(ctx, input.BuyerID)
	if err != nil {
		return nil, shared.NewDomainError("CART_NOT_FOUND", "No active cart")
	}
	if buyerCart.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_CART", "Cannot check out an empty cart")
	}

	lines, reserved, err := s.reserveStock(ctx, buyerCart)
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx)
	if err != nil {
		s.releaseStock(ctx, reserved)
		s.logger.Error("Failed to generate order number", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create order")
	}

	o, err := order.NewOrder(orderNumber, input.BuyerID, address, s.shippingFee, lines)
	if err != nil {
		s.releaseStock(ctx, reserved)
		return nil, err
	}

	p, err := payment.NewPayment(o.ID, input.BuyerID, o.GetGrandTotalMoney(), method)
	if err != nil {
		s.releaseStock(ctx, reserved)
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		s.releaseStock(ctx, reserved)
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create order")
	}
	if err := s.paymentRepo.Save(ctx, p); err != nil {
		s.logger.Error("Failed to save payment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create order")
	}

	if err := buyerCart.Checkout(); err == nil {
		if err := s.cartRepo.Save(ctx, buyerCart); err != nil {
			s.logger.Error("Failed to freeze cart after checkout", zap.Error(err))
		}
	}

	s.publishOrderEvents(ctx, o)
	s.publishPaymentEvents(ctx, p)

	s.logger.Info("Order created",
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
		zap.String("grand_total", o.GrandTotal.String()))

	return &CheckoutResult{
		Order:     ToOrderInfo(o),
		PaymentID: p.ID,
	}, nil
}

// CancelOrder cancels an unpaid order and restores reserved stock
func (s *OrderService) CancelOrder(ctx context.Context, input CancelOrderInput) error {
	o, err := s.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		return shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}
	if o.BuyerID != input.BuyerID {
		return shared.ErrForbidden
	}

	if err := o.Cancel(input.Reason); err != nil {
		return err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		s.logger.Error("Failed to save order cancellation", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to cancel order")
	}

	for idx := range o.Items {
		item := &o.Items[idx]
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			s.logger.Error("Failed to load product for restock",
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err))
			continue
		}
		if err := product.RestoreStock(item.Quantity); err == nil {
			if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
				s.logger.Error("Failed to restock product",
					zap.String("product_id", product.ID.String()),
					zap.Error(err))
			}
		}
	}

	s.publishOrderEvents(ctx, o)

	s.logger.Info("Order cancelled",
		zap.String("order_id", o.ID.String()),
		zap.String("reason", input.Reason))
	return nil
}

// ShipLine records shipment of one line by its seller
func (s *OrderService) ShipLine(ctx context.Context, input ShipLineInput) (*OrderInfo, error) {
	o, err := s.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}

	if err := o.ShipLine(input.ItemID, input.SellerID, input.Carrier, input.TrackingRef); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		s.logger.Error("Failed to save line shipment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record shipment")
	}

	s.publishOrderEvents(ctx, o)

	info := ToOrderInfo(o)
	return &info, nil
}

// ConfirmDelivery records that the buyer received the goods
func (s *OrderService) ConfirmDelivery(ctx context.Context, orderID, buyerID uuid.UUID) error {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}
	if o.BuyerID != buyerID {
		return shared.ErrForbidden
	}

	if err := o.ConfirmDelivery(); err != nil {
		return err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		s.logger.Error("Failed to save delivery confirmation", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to confirm delivery")
	}

	s.publishOrderEvents(ctx, o)
	return nil
}

// CompleteOrder finalizes a delivered order at the buyer's request,
// releasing the sellers' escrow
func (s *OrderService) CompleteOrder(ctx context.Context, orderID, buyerID uuid.UUID) error {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}
	if o.BuyerID != buyerID {
		return shared.ErrForbidden
	}
	return s.complete(ctx, o)
}

// AutoCompleteDelivered completes delivered orders older than the
// auto-completion window. Called by the scheduler; returns the number
// of orders completed.
func (s *OrderService) AutoCompleteDelivered(ctx context.Context, limit int) (int, error) {
	cutoff := time.Now().Add(-AutoCompleteWindow)
	orders, err := s.orderRepo.FindDeliveredBefore(ctx, cutoff, limit)
	if err != nil {
		return 0, err
	}

	completed := 0
	for idx := range orders {
		if err := s.complete(ctx, &orders[idx]); err != nil {
			s.logger.Error("Failed to auto-complete order",
				zap.String("order_id", orders[idx].ID.String()),
				zap.Error(err))
			continue
		}
		completed++
	}

	if completed > 0 {
		s.logger.Info("Auto-completed delivered orders", zap.Int("count", completed))
	}
	return completed, nil
}

// GetOrder returns an order visible to the requesting buyer
func (s *OrderService) GetOrder(ctx context.Context, orderID, buyerID uuid.UUID) (*OrderInfo, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}
	if o.BuyerID != buyerID {
		return nil, shared.ErrForbidden
	}
	info := ToOrderInfo(o)
	return &info, nil
}

// ListBuyerOrders returns a buyer's order history
func (s *OrderService) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) (*shared.Paginated[OrderInfo], error) {
	orders, err := s.orderRepo.FindByBuyer(ctx, buyerID, filter)
	if err != nil {
		s.logger.Error("Failed to list buyer orders", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orders")
	}
	total, err := s.orderRepo.CountByBuyer(ctx, buyerID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orders")
	}
	return paginateOrders(orders, total, filter), nil
}

// ListSellerOrders returns orders containing the seller's lines
func (s *OrderService) ListSellerOrders(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (*shared.Paginated[OrderInfo], error) {
	orders, err := s.orderRepo.FindBySeller(ctx, sellerID, filter)
	if err != nil {
		s.logger.Error("Failed to list seller orders", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orders")
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orders")
	}
	return paginateOrders(orders, total, filter), nil
}

func (s *OrderService) complete(ctx context.Context, o *order.Order) error {
	if err := o.Complete(); err != nil {
		return err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		s.logger.Error("Failed to save order completion", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to complete order")
	}
	s.publishOrderEvents(ctx, o)
	return nil
}

type reservedLine struct {
	productID uuid.UUID
	quantity  int
}

// reserveStock decrements stock for every cart line at current catalog
// prices. On failure all prior reservations are released.
func (s *OrderService) reserveStock(ctx context.Context, buyerCart *cart.Cart) ([]order.NewOrderItemInput, []reservedLine, error) {
	lines := make([]order.NewOrderItemInput, 0, len(buyerCart.Items))
	reserved := make([]reservedLine, 0, len(buyerCart.Items))

	for idx := range buyerCart.Items {
		item := &buyerCart.Items[idx]
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			s.releaseStock(ctx, reserved)
			return nil, nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "A product in the cart is no longer available")
		}

		if err := product.ReserveStock(item.Quantity); err != nil {
			s.releaseStock(ctx, reserved)
			return nil, nil, err
		}
		if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
			s.releaseStock(ctx, reserved)
			s.logger.Error("Failed to save stock reservation", zap.Error(err))
			return nil, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to reserve stock")
		}
		reserved = append(reserved, reservedLine{productID: product.ID, quantity: item.Quantity})

		lines = append(lines, order.NewOrderItemInput{
			ProductID:   product.ID,
			SellerID:    product.SellerID,
			ProductName: product.Name,
			SKU:         product.SKU,
			UnitPrice:   product.GetPriceMoney(),
			Quantity:    item.Quantity,
		})
	}

	return lines, reserved, nil
}

func (s *OrderService) releaseStock(ctx context.Context, reserved []reservedLine) {
	for _, line := range reserved {
		product, err := s.productRepo.FindByID(ctx, line.productID)
		if err != nil {
			s.logger.Error("Failed to load product for stock release",
				zap.String("product_id", line.productID.String()),
				zap.Error(err))
			continue
		}
		if err := product.RestoreStock(line.quantity); err == nil {
			if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
				s.logger.Error("Failed to release reserved stock",
					zap.String("product_id", product.ID.String()),
					zap.Error(err))
			}
		}
	}
}

func (s *OrderService) publishOrderEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range o.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	o.ClearDomainEvents()
}

func (s *OrderService) publishPaymentEvents(ctx context.Context, p *payment.Payment) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range p.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	p.ClearDomainEvents()
}

func paginateOrders(orders []order.Order, total int64, filter shared.Filter) *shared.Paginated[OrderInfo] {
	infos := make([]OrderInfo, 0, len(orders))
	for idx := range orders {
		infos = append(infos, ToOrderInfo(&orders[idx]))
	}
	return shared.NewPaginated(infos, total, filter.Page, filter.PageSize)
}
