package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spicedepot/backend/internal/domain/catalog"
	"github.com/spicedepot/backend/internal/domain/inventory"
	"github.com/spicedepot/backend/internal/domain/shared"
	"github.com/spicedepot/backend/internal/domain/shared/valueobject"
)

// DefaultAveragePriceTTL is how long a computed average price stays cached
const DefaultAveragePriceTTL = 5 * time.Minute

// AveragePriceCache caches computed average purchase prices by product name
type AveragePriceCache interface {
	Get(ctx context.Context, productName string) (decimal.Decimal, bool, error)
	Set(ctx context.Context, productName string, price decimal.Decimal, ttl time.Duration) error
	Invalidate(ctx context.Context, productName string) error
}

// ProductService handles catalog business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	batchRepo   inventory.BatchRepository
	priceCache  AveragePriceCache
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, batchRepo inventory.BatchRepository, priceCache AveragePriceCache, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		batchRepo:   batchRepo,
		priceCache:  priceCache,
		logger:      logger,
	}
}

// Create creates a new catalog product. Product names are unique.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	existing, err := s.productRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "A product with this name already exists")
	}

	unit, ok := valueobject.ParseUnit(req.Unit)
	if !ok {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unknown unit code: "+req.Unit)
	}

	product, err := catalog.NewProduct(req.Name, req.Category, unit, req.RatePerKg, req.GSTPercentage)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}

	var products []catalog.Product
	var err error
	if filter.ActiveOnly {
		products, err = s.productRepo.FindActive(ctx, domainFilter)
	} else {
		products, err = s.productRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, ToProductResponse(&products[i]))
	}
	result := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Category != nil {
		product.Category = *req.Category
		product.UpdatedAt = time.Now()
	}
	if req.RatePerKg != nil {
		if err := product.UpdateRate(*req.RatePerKg); err != nil {
			return nil, err
		}
	}
	if req.GSTPercentage != nil {
		if err := product.UpdateGST(*req.GSTPercentage); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		product.Description = *req.Description
		product.UpdatedAt = time.Now()
	}
	if req.Status != nil {
		switch catalog.ProductStatus(*req.Status) {
		case catalog.ProductStatusActive:
			product.Activate()
		case catalog.ProductStatusInactive:
			product.Deactivate()
		default:
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown product status: "+*req.Status)
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Deactivate marks a product inactive. Products are never hard-deleted while
// historical bills reference them.
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	product.Deactivate()
	return s.productRepo.Save(ctx, product)
}

// GetAveragePrice returns the quantity-weighted average purchase price across
// a product's eligible batches, looked up by product name. Results are cached;
// a cache failure falls through to computation.
func (s *ProductService) GetAveragePrice(ctx context.Context, productName string) (*AveragePriceResponse, error) {
	product, err := s.productRepo.FindByName(ctx, productName)
	if err != nil {
		return nil, err
	}

	if s.priceCache != nil {
		if price, ok, cacheErr := s.priceCache.Get(ctx, productName); cacheErr == nil && ok {
			return &AveragePriceResponse{
				ProductID:    product.ID,
				ProductName:  product.Name,
				AveragePrice: price,
				Unit:         product.Unit.String(),
				FromCache:    true,
			}, nil
		} else if cacheErr != nil {
			s.logger.Warn("average price cache lookup failed",
				zap.String("product", productName),
				zap.Error(cacheErr))
		}
	}

	batches, err := s.batchRepo.FindEligibleByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	price := inventory.WeightedAverageUnitPrice(batches)

	if s.priceCache != nil {
		if cacheErr := s.priceCache.Set(ctx, productName, price, DefaultAveragePriceTTL); cacheErr != nil {
			s.logger.Warn("average price cache write failed",
				zap.String("product", productName),
				zap.Error(cacheErr))
		}
	}

	return &AveragePriceResponse{
		ProductID:    product.ID,
		ProductName:  product.Name,
		AveragePrice: price,
		Unit:         product.Unit.String(),
		BatchCount:   len(batches),
	}, nil
}
