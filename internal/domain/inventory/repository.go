package inventory

import (
	"context"

	"github.com/google/uuid"
)

// BatchRepository defines persistence operations for inventory batches
type BatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryBatch, error)
	// FindByProduct returns all batches for a product, eligible or not,
	// ordered by ascending expiry date
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]InventoryBatch, error)
	// FindEligibleByProduct returns only batches selectable for new bills
	FindEligibleByProduct(ctx context.Context, productID uuid.UUID) ([]InventoryBatch, error)
	Save(ctx context.Context, batch *InventoryBatch) error
	Delete(ctx context.Context, id uuid.UUID) error
}
