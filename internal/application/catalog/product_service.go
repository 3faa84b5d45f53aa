package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/catalog"
	"github.com/mercato/backend/internal/domain/seller"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/mercato/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// ProductService handles seller listing management and admin moderation
type ProductService struct {
	productRepo    catalog.ProductRepository
	categoryRepo   catalog.CategoryRepository
	profileRepo    seller.SellerProfileRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	profileRepo seller.SellerProfileRepository,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		profileRepo:  profileRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateProduct creates a new draft listing for an approved seller
func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductInfo, error) {
	if err := s.requireApprovedSeller(ctx, input.SellerID); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
	}
	if !category.Active {
		return nil, shared.NewDomainError("CATEGORY_INACTIVE", "Cannot list products in an inactive category")
	}

	exists, err := s.productRepo.ExistsBySKU(ctx, input.SellerID, input.SKU)
	if err != nil {
		s.logger.Error("Failed to check SKU uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create product")
	}
	if exists {
		return nil, shared.NewDomainError("SKU_TAKEN", "A product with this SKU already exists in your catalog")
	}

	product, err := catalog.NewProduct(
		input.SellerID,
		input.CategoryID,
		input.SKU,
		input.Name,
		input.Description,
		valueobject.NewMoneyUSDFromFloat(input.Price),
		input.StockQty,
	)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create product")
	}

	s.publishEvents(ctx, product)

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("seller_id", product.SellerID.String()),
		zap.String("sku", product.SKU))

	info := ToProductInfo(product)
	return &info, nil
}

// UpdateProduct edits a draft or rejected listing owned by the seller
func (s *ProductService) UpdateProduct(ctx context.Context, input UpdateProductInput) (*ProductInfo, error) {
	product, err := s.findOwnedProduct(ctx, input.ProductID, input.SellerID)
	if err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
	}

	if err := product.Update(input.Name, input.Description, input.CategoryID); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update product")
	}

	info := ToProductInfo(product)
	return &info, nil
}

// ChangePrice updates a listing's unit price
func (s *ProductService) ChangePrice(ctx context.Context, input ChangePriceInput) error {
	product, err := s.findOwnedProduct(ctx, input.ProductID, input.SellerID)
	if err != nil {
		return err
	}

	if err := product.ChangePrice(valueobject.NewMoneyUSDFromFloat(input.Price)); err != nil {
		return err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		s.logger.Error("Failed to save price change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change price")
	}

	s.logger.Info("Product price changed",
		zap.String("product_id", product.ID.String()),
		zap.String("price", product.Price.String()))

	return nil
}

// AdjustStock applies a relative stock adjustment to a listing
func (s *ProductService) AdjustStock(ctx context.Context, input AdjustStockInput) error {
	product, err := s.findOwnedProduct(ctx, input.ProductID, input.SellerID)
	if err != nil {
		return err
	}

	if err := product.AdjustStock(input.Delta); err != nil {
		return err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		s.logger.Error("Failed to save stock adjustment", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to adjust stock")
	}

	return nil
}

// SubmitForReview moves a listing into the admin review queue
func (s *ProductService) SubmitForReview(ctx context.Context, productID, sellerID uuid.UUID) error {
	if err := s.requireApprovedSeller(ctx, sellerID); err != nil {
		return err
	}

	product, err := s.findOwnedProduct(ctx, productID, sellerID)
	if err != nil {
		return err
	}

	if err := product.SubmitForReview(); err != nil {
		return err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product submission", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to submit product")
	}

	s.publishEvents(ctx, product)
	return nil
}

// ApproveProduct activates a listing after admin review
func (s *ProductService) ApproveProduct(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	if err := product.Approve(); err != nil {
		return err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product approval", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to approve product")
	}

	s.publishEvents(ctx, product)

	s.logger.Info("Product approved", zap.String("product_id", product.ID.String()))
	return nil
}

// RejectProduct returns a listing to the seller with a reason
func (s *ProductService) RejectProduct(ctx context.Context, input RejectProductInput) error {
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	if err := product.Reject(input.Reason); err != nil {
		return err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product rejection", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reject product")
	}

	s.publishEvents(ctx, product)

	s.logger.Info("Product rejected",
		zap.String("product_id", product.ID.String()),
		zap.String("reason", input.Reason))
	return nil
}

// ArchiveProduct takes a listing off sale. Sellers archive their own
// listings; admins may archive any listing.
func (s *ProductService) ArchiveProduct(ctx context.Context, productID uuid.UUID, sellerID *uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	if sellerID != nil && !product.IsOwnedBy(*sellerID) {
		return shared.NewDomainError("FORBIDDEN", "Product belongs to another seller")
	}

	if err := product.Archive(); err != nil {
		return err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product archive", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to archive product")
	}

	s.publishEvents(ctx, product)
	return nil
}

// GetProduct returns a single product
func (s *ProductService) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductInfo, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	info := ToProductInfo(product)
	return &info, nil
}

// ListActiveProducts returns publicly visible products
func (s *ProductService) ListActiveProducts(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductInfo], error) {
	products, err := s.productRepo.FindActive(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list active products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list products")
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list products")
	}
	return paginateProducts(products, total, filter), nil
}

// ListSellerProducts returns a seller's own listings in any status
func (s *ProductService) ListSellerProducts(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (*shared.Paginated[ProductInfo], error) {
	products, err := s.productRepo.FindBySeller(ctx, sellerID, filter)
	if err != nil {
		s.logger.Error("Failed to list seller products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list products")
	}
	total, err := s.productRepo.CountBySeller(ctx, sellerID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list products")
	}
	return paginateProducts(products, total, filter), nil
}

// ListReviewQueue returns listings awaiting admin review
func (s *ProductService) ListReviewQueue(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductInfo], error) {
	products, err := s.productRepo.FindByStatus(ctx, catalog.ProductStatusPendingReview, filter)
	if err != nil {
		s.logger.Error("Failed to list review queue", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list review queue")
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list review queue")
	}
	return paginateProducts(products, total, filter), nil
}

func (s *ProductService) findOwnedProduct(ctx context.Context, productID, sellerID uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}
	if !product.IsOwnedBy(sellerID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Product belongs to another seller")
	}
	return product, nil
}

func (s *ProductService) requireApprovedSeller(ctx context.Context, sellerID uuid.UUID) error {
	profile, err := s.profileRepo.FindByUserID(ctx, sellerID)
	if err != nil {
		return shared.NewDomainError("SELLER_NOT_FOUND", "Seller profile not found")
	}
	if !profile.CanSell() {
		return shared.NewDomainError("SELLER_NOT_APPROVED", "Seller is not approved to sell")
	}
	return nil
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range product.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	product.ClearDomainEvents()
}

func paginateProducts(products []catalog.Product, total int64, filter shared.Filter) *shared.Paginated[ProductInfo] {
	infos := make([]ProductInfo, 0, len(products))
	for i := range products {
		infos = append(infos, ToProductInfo(&products[i]))
	}
	return shared.NewPaginated(infos, total, filter.Page, filter.PageSize)
}
