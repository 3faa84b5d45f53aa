package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mercato/backend/internal/domain/catalog"
	"github.com/mercato/backend/internal/domain/order"
	"github.com/mercato/backend/internal/domain/payment"
	"github.com/mercato/backend/internal/domain/seller"
	"github.com/mercato/backend/internal/domain/shared"
)

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]payment.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByGatewayRef(ctx context.Context, gatewayRef string) (*payment.Payment, error) {
	args := m.Called(ctx, gatewayRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payment.Payment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) SaveWithLock(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockEscrowRepository struct {
	mock.Mock
}

func (m *MockEscrowRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.EscrowEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.EscrowEntry), args.Error(1)
}

func (m *MockEscrowRepository) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]payment.EscrowEntry, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.EscrowEntry), args.Error(1)
}

func (m *MockEscrowRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]payment.EscrowEntry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.EscrowEntry), args.Error(1)
}

func (m *MockEscrowRepository) FindByOrderAndSeller(ctx context.Context, orderID, sellerID uuid.UUID) (*payment.EscrowEntry, error) {
	args := m.Called(ctx, orderID, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.EscrowEntry), args.Error(1)
}

func (m *MockEscrowRepository) FindReleasedUnsettled(ctx context.Context, sellerID uuid.UUID, from, to time.Time) ([]payment.EscrowEntry, error) {
	args := m.Called(ctx, sellerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.EscrowEntry), args.Error(1)
}

func (m *MockEscrowRepository) FindPayable(ctx context.Context, sellerID uuid.UUID) ([]payment.EscrowEntry, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.EscrowEntry), args.Error(1)
}

func (m *MockEscrowRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]payment.EscrowEntry, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.EscrowEntry), args.Error(1)
}

func (m *MockEscrowRepository) SellersWithReleasedUnsettled(ctx context.Context, from, to time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockEscrowRepository) Save(ctx context.Context, e *payment.EscrowEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEscrowRepository) SaveWithLock(ctx context.Context, e *payment.EscrowEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

type MockCommissionRuleRepository struct {
	mock.Mock
}

func (m *MockCommissionRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.CommissionRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CommissionRule), args.Error(1)
}

func (m *MockCommissionRuleRepository) FindCandidates(ctx context.Context, sellerID, categoryID uuid.UUID) ([]*payment.CommissionRule, error) {
	args := m.Called(ctx, sellerID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.CommissionRule), args.Error(1)
}

func (m *MockCommissionRuleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payment.CommissionRule, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.CommissionRule), args.Error(1)
}

func (m *MockCommissionRuleRepository) Save(ctx context.Context, r *payment.CommissionRule) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockCommissionRuleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockCommissionRecordRepository struct {
	mock.Mock
}

func (m *MockCommissionRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.CommissionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CommissionRecord), args.Error(1)
}

func (m *MockCommissionRecordRepository) FindByEscrowEntryID(ctx context.Context, escrowEntryID uuid.UUID) (*payment.CommissionRecord, error) {
	args := m.Called(ctx, escrowEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CommissionRecord), args.Error(1)
}

func (m *MockCommissionRecordRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]payment.CommissionRecord, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.CommissionRecord), args.Error(1)
}

func (m *MockCommissionRecordRepository) Save(ctx context.Context, r *payment.CommissionRecord) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type MockRefundRepository struct {
	mock.Mock
}

func (m *MockRefundRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Refund, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Refund), args.Error(1)
}

func (m *MockRefundRepository) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]payment.Refund, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Refund), args.Error(1)
}

func (m *MockRefundRepository) FindByReturnRequestID(ctx context.Context, returnRequestID uuid.UUID) (*payment.Refund, error) {
	args := m.Called(ctx, returnRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Refund), args.Error(1)
}

func (m *MockRefundRepository) FindPending(ctx context.Context, limit int) ([]payment.Refund, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Refund), args.Error(1)
}

func (m *MockRefundRepository) Save(ctx context.Context, r *payment.Refund) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRefundRepository) SaveWithLock(ctx context.Context, r *payment.Refund) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Settlement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) FindCurrent(ctx context.Context, sellerID uuid.UUID, year int, month time.Month) (*payment.Settlement, error) {
	args := m.Called(ctx, sellerID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]payment.Settlement, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payment.Settlement, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) Save(ctx context.Context, s *payment.Settlement) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSettlementRepository) SaveWithLock(ctx context.Context, s *payment.Settlement) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSettlementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payout), args.Error(1)
}

func (m *MockPayoutRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]payment.Payout, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Payout), args.Error(1)
}

func (m *MockPayoutRepository) FindDue(ctx context.Context, at time.Time, limit int) ([]payment.Payout, error) {
	args := m.Called(ctx, at, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Payout), args.Error(1)
}

func (m *MockPayoutRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]payment.Payout, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Payout), args.Error(1)
}

func (m *MockPayoutRepository) Save(ctx context.Context, p *payment.Payout) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPayoutRepository) SaveWithLock(ctx context.Context, p *payment.Payout) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, buyerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status order.OrderStatus, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindDeliveredBefore(ctx context.Context, cutoff time.Time, limit int) ([]order.Order, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) CountByBuyer(ctx context.Context, buyerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, buyerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockReturnRequestRepository struct {
	mock.Mock
}

func (m *MockReturnRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.ReturnRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.ReturnRequest), args.Error(1)
}

func (m *MockReturnRequestRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]order.ReturnRequest, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.ReturnRequest), args.Error(1)
}

func (m *MockReturnRequestRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]order.ReturnRequest, error) {
	args := m.Called(ctx, buyerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.ReturnRequest), args.Error(1)
}

func (m *MockReturnRequestRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]order.ReturnRequest, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.ReturnRequest), args.Error(1)
}

func (m *MockReturnRequestRepository) FindByStatus(ctx context.Context, status order.ReturnStatus, filter shared.Filter) ([]order.ReturnRequest, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.ReturnRequest), args.Error(1)
}

func (m *MockReturnRequestRepository) SumReturnedQty(ctx context.Context, orderItemID uuid.UUID) (int, error) {
	args := m.Called(ctx, orderItemID)
	return args.Int(0), args.Error(1)
}

func (m *MockReturnRequestRepository) Save(ctx context.Context, r *order.ReturnRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReturnRequestRepository) SaveWithLock(ctx context.Context, r *order.ReturnRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReturnRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sellerID uuid.UUID, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sellerID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByStatus(ctx context.Context, status catalog.ProductStatus, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sellerID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, sellerID, sku)
	return args.Bool(0), args.Error(1)
}

type MockSellerProfileRepository struct {
	mock.Mock
}

func (m *MockSellerProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*seller.SellerProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seller.SellerProfile), args.Error(1)
}

func (m *MockSellerProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*seller.SellerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seller.SellerProfile), args.Error(1)
}

func (m *MockSellerProfileRepository) FindBySlug(ctx context.Context, slug string) (*seller.SellerProfile, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seller.SellerProfile), args.Error(1)
}

func (m *MockSellerProfileRepository) FindAll(ctx context.Context, filter shared.Filter) ([]seller.SellerProfile, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seller.SellerProfile), args.Error(1)
}

func (m *MockSellerProfileRepository) FindByStatus(ctx context.Context, status seller.ProfileStatus, filter shared.Filter) ([]seller.SellerProfile, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seller.SellerProfile), args.Error(1)
}

func (m *MockSellerProfileRepository) Save(ctx context.Context, p *seller.SellerProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockSellerProfileRepository) SaveWithLock(ctx context.Context, p *seller.SellerProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockSellerProfileRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSellerProfileRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSellerProfileRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCharge(ctx context.Context, req payment.GatewayChargeRequest) (*payment.GatewayChargeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.GatewayChargeResponse), args.Error(1)
}

func (m *MockGateway) RefundCharge(ctx context.Context, req payment.GatewayRefundRequest) (*payment.GatewayRefundResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.GatewayRefundResponse), args.Error(1)
}

func (m *MockGateway) VerifyWebhook(payload []byte, signature string) (*payment.WebhookEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.WebhookEvent), args.Error(1)
}

type MockPayoutRail struct {
	mock.Mock
}

func (m *MockPayoutRail) SubmitTransfer(ctx context.Context, req payment.TransferRequest) (*payment.TransferResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.TransferResponse), args.Error(1)
}
