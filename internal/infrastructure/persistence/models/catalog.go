package models

import (
	"github.com/shopspring/decimal"

	"github.com/spicedepot/backend/internal/domain/catalog"
	"github.com/spicedepot/backend/internal/domain/shared/valueobject"
)

// ProductModel is the persistence model for catalog products
type ProductModel struct {
	AggregateModel
	Name          string          `gorm:"size:100;not null;uniqueIndex"`
	Category      string          `gorm:"size:100;index"`
	Unit          string          `gorm:"size:10;not null"`
	RatePerKg     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	GSTPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Status        string          `gorm:"size:20;not null;index"`
	Description   string          `gorm:"size:500"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Category:          m.Category,
		Unit:              valueobject.Unit(m.Unit),
		RatePerKg:         m.RatePerKg,
		GSTPercentage:     m.GSTPercentage,
		Status:            catalog.ProductStatus(m.Status),
		Description:       m.Description,
	}
}

// ProductModelFromDomain converts a domain product to its persistence model
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Name:          p.Name,
		Category:      p.Category,
		Unit:          p.Unit.String(),
		RatePerKg:     p.RatePerKg,
		GSTPercentage: p.GSTPercentage,
		Status:        string(p.Status),
		Description:   p.Description,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}
