package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spicedepot/backend/internal/domain/billing"
	"github.com/spicedepot/backend/internal/domain/shared"
	"github.com/spicedepot/backend/internal/infrastructure/persistence/models"
)

// GormDistributionRepository implements billing.DistributionRepository using
// GORM. Line items and allocations are saved and loaded with the aggregate.
type GormDistributionRepository struct {
	db *gorm.DB
}

// NewGormDistributionRepository creates a new GormDistributionRepository
func NewGormDistributionRepository(db *gorm.DB) *GormDistributionRepository {
	return &GormDistributionRepository{db: db}
}

// FindByID finds a bill by its ID
func (r *GormDistributionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Distribution, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByBillNo finds a bill by its bill number
func (r *GormDistributionRepository) FindByBillNo(ctx context.Context, billNo string) (*billing.Distribution, error) {
	return r.findOne(ctx, "bill_no = ?", billNo)
}

func (r *GormDistributionRepository) findOne(ctx context.Context, cond string, arg interface{}) (*billing.Distribution, error) {
	var model models.DistributionModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Allocations").
		First(&model, cond, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds bills matching the filter, paginated
func (r *GormDistributionRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*billing.Distribution], error) {
	base := r.applyFilterConditions(r.db.WithContext(ctx).Model(&models.DistributionModel{}), filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "distribution_date"
	}
	orderDir := filter.OrderDir
	if orderDir != "asc" {
		orderDir = "desc"
	}

	query := base.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Allocations").
		Order(fmt.Sprintf("%s %s", orderBy, orderDir))
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 1 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	var rows []models.DistributionModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]*billing.Distribution, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].ToDomain())
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindByCaterer returns all bills for one caterer, newest first
func (r *GormDistributionRepository) FindByCaterer(ctx context.Context, catererID uuid.UUID) ([]*billing.Distribution, error) {
	return r.findMany(ctx, r.db.WithContext(ctx).Where("caterer_id = ?", catererID))
}

// FindByDateRange returns bills within an inclusive date range, newest first
func (r *GormDistributionRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]*billing.Distribution, error) {
	return r.findMany(ctx, r.db.WithContext(ctx).Where("distribution_date BETWEEN ? AND ?", from, to))
}

func (r *GormDistributionRepository) findMany(ctx context.Context, query *gorm.DB) ([]*billing.Distribution, error) {
	var rows []models.DistributionModel
	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Allocations").
		Order("distribution_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]*billing.Distribution, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].ToDomain())
	}
	return items, nil
}

// Save writes the bill and replaces its line items and allocations in one
// transaction
func (r *GormDistributionRepository) Save(ctx context.Context, distribution *billing.Distribution) error {
	model := models.DistributionModelFromDomain(distribution)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("distribution_id = ?", model.ID).Delete(&models.LineItemModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("distribution_id = ?", model.ID).Delete(&models.ItemAllocationModel{}).Error; err != nil {
			return err
		}
		return tx.Save(model).Error
	})
}

// Delete removes a bill with its children
func (r *GormDistributionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("distribution_id = ?", id).Delete(&models.LineItemModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("distribution_id = ?", id).Delete(&models.ItemAllocationModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.DistributionModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormDistributionRepository) applyFilterConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("bill_no LIKE ? OR caterer_name LIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if catererID, ok := filter.Filters["caterer_id"].(uuid.UUID); ok {
		query = query.Where("caterer_id = ?", catererID)
	}
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if from, ok := filter.Filters["from"].(time.Time); ok {
		query = query.Where("distribution_date >= ?", from)
	}
	if to, ok := filter.Filters["to"].(time.Time); ok {
		query = query.Where("distribution_date <= ?", to)
	}
	return query
}
