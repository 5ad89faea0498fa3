package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicedepot/backend/internal/domain/shared"
	"github.com/spicedepot/backend/internal/domain/shared/valueobject"
)

func makeBatch(t *testing.T, number string, qty float64, unit valueobject.Unit, expiry *time.Time) InventoryBatch {
	t.Helper()
	b, err := NewInventoryBatch(uuid.New(), number, decimal.NewFromFloat(qty), unit, decimal.NewFromInt(100), expiry)
	require.NoError(t, err)
	return *b
}

func datePtr(t time.Time) *time.Time { return &t }

func TestSortFEFO(t *testing.T) {
	now := time.Now()
	early := makeBatch(t, "EARLY", 5, valueobject.UnitKG, datePtr(now.AddDate(0, 1, 0)))
	late := makeBatch(t, "LATE", 5, valueobject.UnitKG, datePtr(now.AddDate(0, 6, 0)))
	noExpiry := makeBatch(t, "NOEXP", 5, valueobject.UnitKG, nil)

	batches := []InventoryBatch{noExpiry, late, early}
	SortFEFO(batches)

	assert.Equal(t, "EARLY", batches[0].BatchNumber)
	assert.Equal(t, "LATE", batches[1].BatchNumber)
	assert.Equal(t, "NOEXP", batches[2].BatchNumber)
}

func TestNewSelection(t *testing.T) {
	t.Run("rejects non-positive requirement", func(t *testing.T) {
		_, err := NewSelection(decimal.Zero, valueobject.UnitKG, nil)
		assert.Error(t, err)
	})

	t.Run("rejects unknown unit", func(t *testing.T) {
		_, err := NewSelection(decimal.NewFromInt(1), valueobject.Unit("stone"), nil)
		assert.Error(t, err)
	})

	t.Run("rejects mixing discrete and continuous units", func(t *testing.T) {
		pieces := makeBatch(t, "PCS", 10, valueobject.UnitPCS, nil)
		_, err := NewSelection(decimal.NewFromInt(1), valueobject.UnitKG, []InventoryBatch{pieces})
		assert.ErrorIs(t, err, shared.ErrIncompatibleUnits)
	})

	t.Run("drops ineligible batches", func(t *testing.T) {
		active := makeBatch(t, "ACTIVE", 5, valueobject.UnitKG, nil)
		inactive := makeBatch(t, "INACTIVE", 5, valueobject.UnitKG, nil)
		inactive.Deactivate()

		sel, err := NewSelection(decimal.NewFromInt(3), valueobject.UnitKG, []InventoryBatch{active, inactive})
		require.NoError(t, err)
		assert.Len(t, sel.Batches(), 1)
	})

	t.Run("converts availability into the required unit", func(t *testing.T) {
		grams := makeBatch(t, "G", 500, valueobject.UnitG, nil)
		sel, err := NewSelection(decimal.NewFromInt(1), valueobject.UnitKG, []InventoryBatch{grams})
		require.NoError(t, err)

		views := sel.Batches()
		require.Len(t, views, 1)
		assert.True(t, views[0].Available.Equal(decimal.NewFromFloat(0.5)), "got %s", views[0].Available)
	})
}

func TestSelectionSetQuantity(t *testing.T) {
	batch := makeBatch(t, "B1", 5, valueobject.UnitKG, nil)

	t.Run("entry above availability clamps and reports it", func(t *testing.T) {
		sel, err := NewSelection(decimal.NewFromInt(10), valueobject.UnitKG, []InventoryBatch{batch})
		require.NoError(t, err)

		result, err := sel.SetQuantity(batch.ID, decimal.NewFromInt(8))
		require.NoError(t, err)
		assert.True(t, result.Clamped)
		assert.True(t, result.Applied.Equal(decimal.NewFromInt(5)))
	})

	t.Run("non-positive entry removes the batch", func(t *testing.T) {
		sel, err := NewSelection(decimal.NewFromInt(10), valueobject.UnitKG, []InventoryBatch{batch})
		require.NoError(t, err)

		_, err = sel.SetQuantity(batch.ID, decimal.NewFromInt(3))
		require.NoError(t, err)
		result, err := sel.SetQuantity(batch.ID, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, result.Removed)
		assert.True(t, sel.TotalAllocated().IsZero())
	})

	t.Run("unknown batch is rejected", func(t *testing.T) {
		sel, err := NewSelection(decimal.NewFromInt(10), valueobject.UnitKG, []InventoryBatch{batch})
		require.NoError(t, err)

		_, err = sel.SetQuantity(uuid.New(), decimal.NewFromInt(1))
		assert.Error(t, err)
	})
}

func TestSelectionAutoAllocate(t *testing.T) {
	now := time.Now()

	t.Run("fills FEFO order until the requirement is met", func(t *testing.T) {
		first := makeBatch(t, "FIRST", 5, valueobject.UnitKG, datePtr(now.AddDate(0, 1, 0)))
		second := makeBatch(t, "SECOND", 8, valueobject.UnitKG, datePtr(now.AddDate(0, 3, 0)))

		sel, err := NewSelection(decimal.NewFromInt(10), valueobject.UnitKG, []InventoryBatch{second, first})
		require.NoError(t, err)
		sel.AutoAllocate()

		allocs := sel.Allocations()
		require.Len(t, allocs, 2)
		assert.Equal(t, "FIRST", allocs[0].BatchNumber)
		assert.True(t, allocs[0].Quantity.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, "SECOND", allocs[1].BatchNumber)
		assert.True(t, allocs[1].Quantity.Equal(decimal.NewFromInt(5)))

		status, diff := sel.Status()
		assert.Equal(t, FulfillmentExact, status)
		assert.True(t, diff.IsZero())
	})

	t.Run("stock shortage leaves the selection under", func(t *testing.T) {
		only := makeBatch(t, "ONLY", 4, valueobject.UnitKG, nil)
		sel, err := NewSelection(decimal.NewFromInt(10), valueobject.UnitKG, []InventoryBatch{only})
		require.NoError(t, err)
		sel.AutoAllocate()

		status, shortfall := sel.Status()
		assert.Equal(t, FulfillmentUnder, status)
		assert.True(t, shortfall.Equal(decimal.NewFromInt(6)))
		assert.True(t, sel.Remaining().Equal(decimal.NewFromInt(6)))
	})
}

func TestSelectionManualActions(t *testing.T) {
	batchA := makeBatch(t, "A", 5, valueobject.UnitKG, nil)
	batchB := makeBatch(t, "B", 8, valueobject.UnitKG, nil)

	t.Run("SelectRemaining takes only the outstanding amount", func(t *testing.T) {
		sel, err := NewSelection(decimal.NewFromInt(6), valueobject.UnitKG, []InventoryBatch{batchA, batchB})
		require.NoError(t, err)

		_, err = sel.SetQuantity(batchA.ID, decimal.NewFromInt(5))
		require.NoError(t, err)

		applied, err := sel.SelectRemaining(batchB.ID)
		require.NoError(t, err)
		assert.True(t, applied.Equal(decimal.NewFromInt(1)))

		status, _ := sel.Status()
		assert.Equal(t, FulfillmentExact, status)
	})

	t.Run("SelectAll can push the total over the requirement", func(t *testing.T) {
		sel, err := NewSelection(decimal.NewFromInt(6), valueobject.UnitKG, []InventoryBatch{batchB})
		require.NoError(t, err)

		applied, err := sel.SelectAll(batchB.ID)
		require.NoError(t, err)
		assert.True(t, applied.Equal(decimal.NewFromInt(8)))

		status, excess := sel.Status()
		assert.Equal(t, FulfillmentOver, status)
		assert.True(t, excess.Equal(decimal.NewFromInt(2)))
	})
}

func TestWeightedAverageUnitPrice(t *testing.T) {
	t.Run("weights by remaining quantity", func(t *testing.T) {
		cheap, err := NewInventoryBatch(uuid.New(), "CHEAP", decimal.NewFromInt(3), valueobject.UnitKG, decimal.NewFromInt(100), nil)
		require.NoError(t, err)
		dear, err := NewInventoryBatch(uuid.New(), "DEAR", decimal.NewFromInt(1), valueobject.UnitKG, decimal.NewFromInt(500), nil)
		require.NoError(t, err)

		// (3*100 + 1*500) / 4 = 200
		avg := WeightedAverageUnitPrice([]InventoryBatch{*cheap, *dear})
		assert.True(t, avg.Equal(decimal.NewFromInt(200)), "got %s", avg)
	})

	t.Run("ignores ineligible batches", func(t *testing.T) {
		b, err := NewInventoryBatch(uuid.New(), "B", decimal.NewFromInt(3), valueobject.UnitKG, decimal.NewFromInt(100), nil)
		require.NoError(t, err)
		b.Deactivate()
		assert.True(t, WeightedAverageUnitPrice([]InventoryBatch{*b}).IsZero())
	})
}
