package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spicedepot/backend/internal/domain/billing"
	"github.com/spicedepot/backend/internal/domain/shared"
	"github.com/spicedepot/backend/internal/domain/shared/valueobject"
)

func seedReminder(t *testing.T, repo *fakeReminderRepo) *billing.PaymentReminder {
	t.Helper()
	next := time.Now().AddDate(0, 0, 14)
	reminder, err := billing.NewPaymentReminder(uuid.New(), "CB-20260901-007", "Sharma Caterers",
		decimal.NewFromInt(450), next, next.AddDate(0, 0, -2))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), reminder))
	return reminder
}

// seedUnpaidDistribution saves a pay-later bill that skipped the reminder
// sub-flow, the state the create endpoint exists to recover from.
func seedUnpaidDistribution(t *testing.T, repo *fakeDistributionRepo) *billing.Distribution {
	t.Helper()
	d, err := billing.NewDistribution("CB-20260901-042", uuid.New(), "Sharma Caterers", time.Now())
	require.NoError(t, err)
	item, err := billing.NewLineItem(uuid.New(), "Turmeric", decimal.NewFromInt(2),
		valueobject.UnitKG, decimal.NewFromInt(300), decimal.Zero)
	require.NoError(t, err)
	d.AddItem(*item)
	require.NoError(t, d.ApplyPaymentMode(billing.PaymentModeLater, decimal.Zero))
	d.SkipReminder()
	require.NoError(t, repo.Save(context.Background(), d))
	return d
}

func TestReminderService(t *testing.T) {
	ctx := context.Background()

	t.Run("next reminder rolls the dates forward", func(t *testing.T) {
		repo := &fakeReminderRepo{}
		service := NewReminderService(repo, newFakeDistributionRepo(), zap.NewNop())
		reminder := seedReminder(t, repo)

		next := time.Now().AddDate(0, 1, 0)
		resp, err := service.NextReminder(ctx, reminder.ID, NextReminderRequest{
			NextPaymentDate: next,
			ReminderDate:    next.AddDate(0, 0, -3),
			Notes:           "asked for another month",
		})
		require.NoError(t, err)
		assert.Equal(t, string(billing.ReminderStatusPending), resp.Status)
		assert.True(t, resp.NextPaymentDate.Equal(next))
		assert.Equal(t, "asked for another month", resp.Notes)
	})

	t.Run("collect settles the reminder", func(t *testing.T) {
		repo := &fakeReminderRepo{}
		service := NewReminderService(repo, newFakeDistributionRepo(), zap.NewNop())
		reminder := seedReminder(t, repo)

		resp, err := service.MarkCollected(ctx, reminder.ID)
		require.NoError(t, err)
		assert.Equal(t, string(billing.ReminderStatusCollected), resp.Status)

		_, err = service.Cancel(ctx, reminder.ID)
		assert.Error(t, err, "collected reminders are closed")
	})

	t.Run("due list honors the as-of date", func(t *testing.T) {
		repo := &fakeReminderRepo{}
		service := NewReminderService(repo, newFakeDistributionRepo(), zap.NewNop())
		reminder := seedReminder(t, repo)

		due, err := service.ListDue(ctx, time.Now())
		require.NoError(t, err)
		assert.Empty(t, due)

		due, err = service.ListDue(ctx, reminder.ReminderDate.Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, reminder.BillNo, due[0].BillNo)
	})

	t.Run("unknown reminders are not found", func(t *testing.T) {
		service := NewReminderService(&fakeReminderRepo{}, newFakeDistributionRepo(), zap.NewNop())
		_, err := service.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCreateReminder(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a follow-up for a bill that skipped the sub-flow", func(t *testing.T) {
		reminderRepo := &fakeReminderRepo{}
		distributionRepo := newFakeDistributionRepo()
		service := NewReminderService(reminderRepo, distributionRepo, zap.NewNop())
		d := seedUnpaidDistribution(t, distributionRepo)

		next := d.DistributionDate.AddDate(0, 0, 14)
		resp, err := service.Create(ctx, CreateReminderRequest{
			DistributionID:  d.ID,
			NextPaymentDate: next,
			ReminderDate:    next.AddDate(0, 0, -2),
			Notes:           "caterer will pay after the wedding season",
		})
		require.NoError(t, err)

		assert.Equal(t, d.ID, resp.DistributionID)
		assert.Equal(t, d.BillNo, resp.BillNo)
		assert.Equal(t, string(billing.ReminderStatusPending), resp.Status)
		assert.True(t, resp.BalanceDue.Equal(decimal.NewFromInt(600)))
		assert.Equal(t, "caterer will pay after the wedding season", resp.Notes)

		// Scheduling replaces the skip on the bill itself.
		assert.False(t, d.ReminderSkipped)
		require.NotNil(t, d.NextPaymentDate)
		assert.True(t, d.NextPaymentDate.Equal(next))
	})

	t.Run("rejects a second open reminder for the same bill", func(t *testing.T) {
		reminderRepo := &fakeReminderRepo{}
		distributionRepo := newFakeDistributionRepo()
		service := NewReminderService(reminderRepo, distributionRepo, zap.NewNop())
		d := seedUnpaidDistribution(t, distributionRepo)

		next := d.DistributionDate.AddDate(0, 0, 14)
		req := CreateReminderRequest{
			DistributionID:  d.ID,
			NextPaymentDate: next,
			ReminderDate:    next.AddDate(0, 0, -2),
		}
		_, err := service.Create(ctx, req)
		require.NoError(t, err)

		_, err = service.Create(ctx, req)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "REMINDER_EXISTS", derr.Code)
	})

	t.Run("a collected reminder does not block a new one", func(t *testing.T) {
		reminderRepo := &fakeReminderRepo{}
		distributionRepo := newFakeDistributionRepo()
		service := NewReminderService(reminderRepo, distributionRepo, zap.NewNop())
		d := seedUnpaidDistribution(t, distributionRepo)

		next := d.DistributionDate.AddDate(0, 0, 14)
		req := CreateReminderRequest{
			DistributionID:  d.ID,
			NextPaymentDate: next,
			ReminderDate:    next.AddDate(0, 0, -2),
		}
		first, err := service.Create(ctx, req)
		require.NoError(t, err)
		_, err = service.MarkCollected(ctx, first.ID)
		require.NoError(t, err)

		_, err = service.Create(ctx, req)
		require.NoError(t, err)
	})

	t.Run("rejects bills with no outstanding balance", func(t *testing.T) {
		reminderRepo := &fakeReminderRepo{}
		distributionRepo := newFakeDistributionRepo()
		service := NewReminderService(reminderRepo, distributionRepo, zap.NewNop())

		d, err := billing.NewDistribution("CB-20260901-043", uuid.New(), "Sharma Caterers", time.Now())
		require.NoError(t, err)
		item, err := billing.NewLineItem(uuid.New(), "Turmeric", decimal.NewFromInt(1),
			valueobject.UnitKG, decimal.NewFromInt(100), decimal.Zero)
		require.NoError(t, err)
		d.AddItem(*item)
		require.NoError(t, d.ApplyPaymentMode(billing.PaymentModeFull, decimal.Zero))
		require.NoError(t, distributionRepo.Save(ctx, d))

		next := d.DistributionDate.AddDate(0, 0, 14)
		_, err = service.Create(ctx, CreateReminderRequest{
			DistributionID:  d.ID,
			NextPaymentDate: next,
			ReminderDate:    next.AddDate(0, 0, -2),
		})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_BALANCE", derr.Code)
	})

	t.Run("unknown bills are not found", func(t *testing.T) {
		service := NewReminderService(&fakeReminderRepo{}, newFakeDistributionRepo(), zap.NewNop())
		next := time.Now().AddDate(0, 0, 14)
		_, err := service.Create(ctx, CreateReminderRequest{
			DistributionID:  uuid.New(),
			NextPaymentDate: next,
			ReminderDate:    next.AddDate(0, 0, -2),
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
