package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spicedepot/backend/internal/domain/inventory"
	"github.com/spicedepot/backend/internal/domain/shared/valueobject"
)

// InventoryBatchModel is the persistence model for inventory batches
type InventoryBatchModel struct {
	BaseModel
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber string          `gorm:"size:50;not null;index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	Unit        string          `gorm:"size:10;not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ExpiryDate  *time.Time      `gorm:"index"`
	Status      string          `gorm:"size:20;not null;index"`
}

// TableName returns the table name for GORM
func (InventoryBatchModel) TableName() string {
	return "inventory_batches"
}

// ToDomain converts the model to a domain batch
func (m *InventoryBatchModel) ToDomain() *inventory.InventoryBatch {
	return &inventory.InventoryBatch{
		BaseEntity:  m.BaseModel.ToDomain(),
		ProductID:   m.ProductID,
		BatchNumber: m.BatchNumber,
		Quantity:    m.Quantity,
		Unit:        valueobject.Unit(m.Unit),
		UnitPrice:   m.UnitPrice,
		ExpiryDate:  m.ExpiryDate,
		Status:      inventory.BatchStatus(m.Status),
	}
}

// BatchModelFromDomain converts a domain batch to its persistence model
func BatchModelFromDomain(b *inventory.InventoryBatch) *InventoryBatchModel {
	m := &InventoryBatchModel{
		ProductID:   b.ProductID,
		BatchNumber: b.BatchNumber,
		Quantity:    b.Quantity,
		Unit:        b.Unit.String(),
		UnitPrice:   b.UnitPrice,
		ExpiryDate:  b.ExpiryDate,
		Status:      b.Status.String(),
	}
	m.FromDomainBaseEntity(b.BaseEntity)
	return m
}
