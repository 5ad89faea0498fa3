package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spicedepot/backend/internal/domain/shared"
	"github.com/spicedepot/backend/internal/domain/shared/valueobject"
)

// BatchStatus represents the lifecycle status of an inventory batch
type BatchStatus string

const (
	BatchStatusActive   BatchStatus = "active"
	BatchStatusInactive BatchStatus = "inactive"
	BatchStatusDepleted BatchStatus = "depleted"
)

// IsValid checks if the status is a valid BatchStatus
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusActive, BatchStatusInactive, BatchStatusDepleted:
		return true
	}
	return false
}

// String returns the string representation
func (s BatchStatus) String() string {
	return string(s)
}

// InventoryBatch represents a batch of spice stock received from a supplier
// purchase. Quantity is stored in the batch's own unit; depleted batches stay
// visible but are never selectable for new bills.
type InventoryBatch struct {
	shared.BaseEntity
	ProductID   uuid.UUID
	BatchNumber string
	Quantity    decimal.Decimal  // quantity remaining, in Unit
	Unit        valueobject.Unit // unit the batch is stocked in
	UnitPrice   decimal.Decimal  // purchase cost per unit
	ExpiryDate  *time.Time
	Status      BatchStatus
}

// NewInventoryBatch creates a new inventory batch from a supplier purchase
func NewInventoryBatch(productID uuid.UUID, batchNumber string, quantity decimal.Decimal, unit valueobject.Unit, unitPrice decimal.Decimal, expiryDate *time.Time) (*InventoryBatch, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity must be positive")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unknown unit code: "+unit.String())
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &InventoryBatch{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		BatchNumber: batchNumber,
		Quantity:    quantity,
		Unit:        unit,
		UnitPrice:   unitPrice,
		ExpiryDate:  expiryDate,
		Status:      BatchStatusActive,
	}, nil
}

// IsEligible returns true if the batch can be allocated to a bill.
// Eligibility is status and quantity only; expired batches remain eligible,
// FEFO ordering exists precisely to move them out first.
func (b *InventoryBatch) IsEligible() bool {
	return b.Status == BatchStatusActive && b.Quantity.GreaterThan(decimal.Zero)
}

// IsExpired returns true if the batch has passed its expiry date
func (b *InventoryBatch) IsExpired() bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(time.Now())
}

// Deduct reduces the batch quantity.
// Returns the actual quantity deducted (may be less than requested if the
// batch has insufficient stock). A batch drained to zero becomes depleted.
func (b *InventoryBatch) Deduct(quantity decimal.Decimal) (decimal.Decimal, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Deduction quantity must be positive")
	}

	deducted := decimal.Min(quantity, b.Quantity)
	b.Quantity = b.Quantity.Sub(deducted)
	if b.Quantity.IsZero() {
		b.Status = BatchStatusDepleted
	}
	b.UpdatedAt = time.Now()
	return deducted, nil
}

// Add increases the batch quantity (returns or corrections).
// A depleted batch regaining stock becomes active again.
func (b *InventoryBatch) Add(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Addition quantity must be positive")
	}

	b.Quantity = b.Quantity.Add(quantity)
	if b.Status == BatchStatusDepleted {
		b.Status = BatchStatusActive
	}
	b.UpdatedAt = time.Now()
	return nil
}

// Adjust applies a signed quantity change as requested by the quantity API:
// isAddition true adds stock, false deducts it
func (b *InventoryBatch) Adjust(quantity decimal.Decimal, isAddition bool) (decimal.Decimal, error) {
	if isAddition {
		if err := b.Add(quantity); err != nil {
			return decimal.Zero, err
		}
		return quantity, nil
	}
	return b.Deduct(quantity)
}

// Deactivate removes the batch from selection without touching its quantity
func (b *InventoryBatch) Deactivate() {
	b.Status = BatchStatusInactive
	b.UpdatedAt = time.Now()
}

// TotalValue returns the purchase value of the remaining stock
func (b *InventoryBatch) TotalValue() decimal.Decimal {
	return b.Quantity.Mul(b.UnitPrice)
}
