package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spicedepot/backend/internal/domain/shared"
	"github.com/spicedepot/backend/internal/domain/shared/valueobject"
)

// ProductStatus represents the lifecycle status of a catalog product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// IsValid checks if the status is a valid ProductStatus
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive:
		return true
	}
	return false
}

// Product represents a spice in the wholesaler catalog.
// Rate is always the price per kilogram, independent of the unit the product
// is stocked or billed in.
type Product struct {
	shared.BaseAggregateRoot
	Name          string
	Category      string
	Unit          valueobject.Unit // default stocking/billing unit
	RatePerKg     decimal.Decimal  // selling price per kilogram
	GSTPercentage decimal.Decimal
	Status        ProductStatus
	Description   string
}

// NewProduct creates a new catalog product
func NewProduct(name, category string, unit valueobject.Unit, ratePerKg, gstPercentage decimal.Decimal) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 100 characters")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unknown unit code: "+unit.String())
	}
	if ratePerKg.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Rate per kg cannot be negative")
	}
	if gstPercentage.IsNegative() || gstPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_GST", "GST percentage must be between 0 and 100")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Category:          category,
		Unit:              unit,
		RatePerKg:         ratePerKg,
		GSTPercentage:     gstPercentage,
		Status:            ProductStatusActive,
	}, nil
}

// UpdateRate updates the per-kg selling rate
func (p *Product) UpdateRate(ratePerKg decimal.Decimal) error {
	if ratePerKg.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Rate per kg cannot be negative")
	}
	p.RatePerKg = ratePerKg
	p.UpdatedAt = time.Now()
	return nil
}

// UpdateGST updates the GST percentage
func (p *Product) UpdateGST(gstPercentage decimal.Decimal) error {
	if gstPercentage.IsNegative() || gstPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_GST", "GST percentage must be between 0 and 100")
	}
	p.GSTPercentage = gstPercentage
	p.UpdatedAt = time.Now()
	return nil
}

// Deactivate marks the product inactive; inactive products are hidden from
// new bills but stay referenced by historical ones
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
}

// Activate marks the product active again
func (p *Product) Activate() {
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
}

// IsActive returns true if the product can be sold
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// RateMoney returns the per-kg rate as a Money value object
func (p *Product) RateMoney() valueobject.Money {
	return valueobject.NewMoneyINR(p.RatePerKg)
}
