package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spicedepot/backend/internal/domain/billing"
	"github.com/spicedepot/backend/internal/domain/shared"
	"github.com/spicedepot/backend/internal/infrastructure/persistence/models"
)

// GormReminderRepository implements billing.PaymentReminderRepository using GORM
type GormReminderRepository struct {
	db *gorm.DB
}

// NewGormReminderRepository creates a new GormReminderRepository
func NewGormReminderRepository(db *gorm.DB) *GormReminderRepository {
	return &GormReminderRepository{db: db}
}

// FindByID finds a reminder by its ID
func (r *GormReminderRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PaymentReminder, error) {
	var model models.PaymentReminderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDistribution returns all reminders for one bill
func (r *GormReminderRepository) FindByDistribution(ctx context.Context, distributionID uuid.UUID) ([]*billing.PaymentReminder, error) {
	return r.findMany(ctx, r.db.WithContext(ctx).Where("distribution_id = ?", distributionID))
}

// FindDue returns open reminders whose reminder date has arrived
func (r *GormReminderRepository) FindDue(ctx context.Context, asOf time.Time) ([]*billing.PaymentReminder, error) {
	return r.findMany(ctx, r.db.WithContext(ctx).
		Where("reminder_date <= ?", asOf).
		Where("status IN ?", []string{
			string(billing.ReminderStatusPending),
			string(billing.ReminderStatusNotified),
		}))
}

// FindOpen returns all reminders still awaiting collection
func (r *GormReminderRepository) FindOpen(ctx context.Context) ([]*billing.PaymentReminder, error) {
	return r.findMany(ctx, r.db.WithContext(ctx).
		Where("status IN ?", []string{
			string(billing.ReminderStatusPending),
			string(billing.ReminderStatusNotified),
		}))
}

func (r *GormReminderRepository) findMany(ctx context.Context, query *gorm.DB) ([]*billing.PaymentReminder, error) {
	var rows []models.PaymentReminderModel
	if err := query.Order("reminder_date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	reminders := make([]*billing.PaymentReminder, 0, len(rows))
	for i := range rows {
		reminders = append(reminders, rows[i].ToDomain())
	}
	return reminders, nil
}

// Save creates or updates a reminder
func (r *GormReminderRepository) Save(ctx context.Context, reminder *billing.PaymentReminder) error {
	model := models.ReminderModelFromDomain(reminder)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a reminder
func (r *GormReminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PaymentReminderModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
