package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spicedepot/backend/internal/domain/billing"
	"github.com/spicedepot/backend/internal/domain/shared"
)

// ReminderService handles payment follow-up operations
type ReminderService struct {
	reminderRepo     billing.PaymentReminderRepository
	distributionRepo billing.DistributionRepository
	logger           *zap.Logger
}

// NewReminderService creates a new ReminderService
func NewReminderService(reminderRepo billing.PaymentReminderRepository, distributionRepo billing.DistributionRepository, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		reminderRepo:     reminderRepo,
		distributionRepo: distributionRepo,
		logger:           logger,
	}
}

// Create opens a follow-up reminder for an existing bill with an outstanding
// balance. This is the recovery path for bills submitted with the reminder
// sub-flow skipped; a bill carries at most one open reminder at a time.
func (s *ReminderService) Create(ctx context.Context, req CreateReminderRequest) (*PaymentReminderResponse, error) {
	distribution, err := s.distributionRepo.FindByID(ctx, req.DistributionID)
	if err != nil {
		return nil, err
	}

	existing, err := s.reminderRepo.FindByDistribution(ctx, req.DistributionID)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if r.IsOpen() {
			return nil, shared.NewDomainError("REMINDER_EXISTS", "Bill already has an open payment reminder")
		}
	}

	if err := distribution.ScheduleReminder(req.NextPaymentDate, req.ReminderDate); err != nil {
		return nil, err
	}

	reminder, err := billing.NewPaymentReminder(
		distribution.ID,
		distribution.BillNo,
		distribution.CatererName,
		distribution.Totals.BalanceDue,
		req.NextPaymentDate,
		req.ReminderDate,
	)
	if err != nil {
		return nil, err
	}
	reminder.Notes = req.Notes

	if err := s.distributionRepo.Save(ctx, distribution); err != nil {
		return nil, err
	}
	if err := s.reminderRepo.Save(ctx, reminder); err != nil {
		return nil, err
	}

	s.logger.Info("payment reminder created",
		zap.String("reminder_id", reminder.ID.String()),
		zap.String("bill_no", reminder.BillNo),
		zap.Time("next_payment_date", req.NextPaymentDate))

	response := ToPaymentReminderResponse(reminder)
	return &response, nil
}

// GetByID retrieves a reminder by ID
func (s *ReminderService) GetByID(ctx context.Context, id uuid.UUID) (*PaymentReminderResponse, error) {
	reminder, err := s.reminderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPaymentReminderResponse(reminder)
	return &response, nil
}

// ListOpen returns all reminders still awaiting collection
func (s *ReminderService) ListOpen(ctx context.Context) ([]PaymentReminderResponse, error) {
	reminders, err := s.reminderRepo.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	return toReminderResponses(reminders), nil
}

// ListDue returns open reminders whose reminder date has arrived
func (s *ReminderService) ListDue(ctx context.Context, asOf time.Time) ([]PaymentReminderResponse, error) {
	reminders, err := s.reminderRepo.FindDue(ctx, asOf)
	if err != nil {
		return nil, err
	}
	return toReminderResponses(reminders), nil
}

// NextReminder rolls an open reminder forward to a new date pair, the
// "caterer asked for more time" action
func (s *ReminderService) NextReminder(ctx context.Context, id uuid.UUID, req NextReminderRequest) (*PaymentReminderResponse, error) {
	reminder, err := s.reminderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := reminder.RollForward(req.NextPaymentDate, req.ReminderDate); err != nil {
		return nil, err
	}
	if req.Notes != "" {
		reminder.Notes = req.Notes
	}

	if err := s.reminderRepo.Save(ctx, reminder); err != nil {
		return nil, err
	}

	s.logger.Info("payment reminder rolled forward",
		zap.String("reminder_id", id.String()),
		zap.String("bill_no", reminder.BillNo),
		zap.Time("next_payment_date", req.NextPaymentDate))

	response := ToPaymentReminderResponse(reminder)
	return &response, nil
}

// MarkCollected closes a reminder after the balance is settled
func (s *ReminderService) MarkCollected(ctx context.Context, id uuid.UUID) (*PaymentReminderResponse, error) {
	reminder, err := s.reminderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := reminder.MarkCollected(); err != nil {
		return nil, err
	}
	if err := s.reminderRepo.Save(ctx, reminder); err != nil {
		return nil, err
	}
	response := ToPaymentReminderResponse(reminder)
	return &response, nil
}

// Cancel closes a reminder without collection
func (s *ReminderService) Cancel(ctx context.Context, id uuid.UUID) (*PaymentReminderResponse, error) {
	reminder, err := s.reminderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := reminder.Cancel(); err != nil {
		return nil, err
	}
	if err := s.reminderRepo.Save(ctx, reminder); err != nil {
		return nil, err
	}
	response := ToPaymentReminderResponse(reminder)
	return &response, nil
}

func toReminderResponses(reminders []*billing.PaymentReminder) []PaymentReminderResponse {
	responses := make([]PaymentReminderResponse, 0, len(reminders))
	for _, r := range reminders {
		responses = append(responses, ToPaymentReminderResponse(r))
	}
	return responses
}
