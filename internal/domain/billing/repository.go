package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spicedepot/backend/internal/domain/shared"
)

// DistributionRepository persists caterer bills
type DistributionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Distribution, error)
	FindByBillNo(ctx context.Context, billNo string) (*Distribution, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Distribution], error)
	FindByCaterer(ctx context.Context, catererID uuid.UUID) ([]*Distribution, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]*Distribution, error)
	Save(ctx context.Context, distribution *Distribution) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentReminderRepository persists payment follow-ups
type PaymentReminderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentReminder, error)
	FindByDistribution(ctx context.Context, distributionID uuid.UUID) ([]*PaymentReminder, error)
	FindDue(ctx context.Context, asOf time.Time) ([]*PaymentReminder, error)
	FindOpen(ctx context.Context) ([]*PaymentReminder, error)
	Save(ctx context.Context, reminder *PaymentReminder) error
	Delete(ctx context.Context, id uuid.UUID) error
}
