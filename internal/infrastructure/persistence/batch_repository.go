package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spicedepot/backend/internal/domain/inventory"
	"github.com/spicedepot/backend/internal/domain/shared"
	"github.com/spicedepot/backend/internal/infrastructure/persistence/models"
)

// GormBatchRepository implements inventory.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryBatch, error) {
	var model models.InventoryBatchModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProduct returns all batches for a product ordered FEFO: ascending
// expiry date with null expiries last, creation time as tiebreak
func (r *GormBatchRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.InventoryBatch, error) {
	return r.findByProduct(ctx, productID, false)
}

// FindEligibleByProduct returns only batches selectable for new bills:
// active status with positive quantity
func (r *GormBatchRepository) FindEligibleByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.InventoryBatch, error) {
	return r.findByProduct(ctx, productID, true)
}

func (r *GormBatchRepository) findByProduct(ctx context.Context, productID uuid.UUID, eligibleOnly bool) ([]inventory.InventoryBatch, error) {
	query := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("expiry_date IS NULL, expiry_date ASC, created_at ASC")
	if eligibleOnly {
		query = query.Where("status = ? AND quantity > 0", inventory.BatchStatusActive.String())
	}

	var rows []models.InventoryBatchModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	batches := make([]inventory.InventoryBatch, 0, len(rows))
	for i := range rows {
		batches = append(batches, *rows[i].ToDomain())
	}
	return batches, nil
}

// Save creates or updates a batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *inventory.InventoryBatch) error {
	model := models.BatchModelFromDomain(batch)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a batch
func (r *GormBatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InventoryBatchModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
