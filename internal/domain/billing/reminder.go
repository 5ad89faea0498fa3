package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spicedepot/backend/internal/domain/shared"
)

// ReminderStatus tracks a payment reminder through its lifecycle
type ReminderStatus string

const (
	ReminderStatusPending   ReminderStatus = "pending"
	ReminderStatusNotified  ReminderStatus = "notified"
	ReminderStatusCollected ReminderStatus = "collected"
	ReminderStatusCancelled ReminderStatus = "cancelled"
)

// IsValid checks if the status is a valid ReminderStatus
func (s ReminderStatus) IsValid() bool {
	switch s {
	case ReminderStatusPending, ReminderStatusNotified, ReminderStatusCollected, ReminderStatusCancelled:
		return true
	}
	return false
}

// PaymentReminder is a standalone follow-up record for an unpaid balance.
// Reminders are created alongside half/later bills and can be rolled forward
// when a caterer asks for more time.
type PaymentReminder struct {
	shared.BaseEntity
	DistributionID  uuid.UUID
	BillNo          string
	CatererName     string
	BalanceDue      decimal.Decimal
	NextPaymentDate time.Time
	ReminderDate    time.Time
	Status          ReminderStatus
	Notes           string
}

// NewPaymentReminder creates a pending reminder for a bill's outstanding balance
func NewPaymentReminder(distributionID uuid.UUID, billNo, catererName string, balanceDue decimal.Decimal, nextPaymentDate, reminderDate time.Time) (*PaymentReminder, error) {
	if distributionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DISTRIBUTION", "Distribution ID cannot be empty")
	}
	if !balanceDue.GreaterThan(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Reminder requires a positive outstanding balance")
	}
	if reminderDate.After(nextPaymentDate) {
		return nil, shared.NewDomainError("INVALID_REMINDER", "Reminder date cannot be after the next payment date")
	}

	return &PaymentReminder{
		BaseEntity:      shared.NewBaseEntity(),
		DistributionID:  distributionID,
		BillNo:          billNo,
		CatererName:     catererName,
		BalanceDue:      balanceDue,
		NextPaymentDate: nextPaymentDate,
		ReminderDate:    reminderDate,
		Status:          ReminderStatusPending,
	}, nil
}

// RollForward moves an open reminder to a new date pair. Collected and
// cancelled reminders are terminal.
func (r *PaymentReminder) RollForward(nextPaymentDate, reminderDate time.Time) error {
	if r.Status == ReminderStatusCollected || r.Status == ReminderStatusCancelled {
		return shared.NewDomainError("REMINDER_CLOSED", "Reminder is already closed")
	}
	if reminderDate.After(nextPaymentDate) {
		return shared.NewDomainError("INVALID_REMINDER", "Reminder date cannot be after the next payment date")
	}
	r.NextPaymentDate = nextPaymentDate
	r.ReminderDate = reminderDate
	r.Status = ReminderStatusPending
	r.UpdatedAt = time.Now()
	return nil
}

// MarkNotified records that the caterer was contacted
func (r *PaymentReminder) MarkNotified() error {
	if r.Status != ReminderStatusPending {
		return shared.NewDomainError("INVALID_STATUS", "Only pending reminders can be notified")
	}
	r.Status = ReminderStatusNotified
	r.UpdatedAt = time.Now()
	return nil
}

// MarkCollected closes the reminder after the balance is settled
func (r *PaymentReminder) MarkCollected() error {
	if r.Status == ReminderStatusCancelled {
		return shared.NewDomainError("REMINDER_CLOSED", "Cancelled reminders cannot be collected")
	}
	r.Status = ReminderStatusCollected
	r.UpdatedAt = time.Now()
	return nil
}

// Cancel closes the reminder without collection
func (r *PaymentReminder) Cancel() error {
	if r.Status == ReminderStatusCollected {
		return shared.NewDomainError("REMINDER_CLOSED", "Collected reminders cannot be cancelled")
	}
	r.Status = ReminderStatusCancelled
	r.UpdatedAt = time.Now()
	return nil
}

// IsOpen reports whether the reminder still awaits collection
func (r *PaymentReminder) IsOpen() bool {
	return r.Status == ReminderStatusPending || r.Status == ReminderStatusNotified
}

// IsDue reports whether the reminder date has arrived for an open reminder
func (r *PaymentReminder) IsDue(now time.Time) bool {
	if !r.IsOpen() {
		return false
	}
	return !now.Before(r.ReminderDate)
}
