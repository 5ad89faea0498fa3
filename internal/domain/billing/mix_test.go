package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMix(t *testing.T) {
	products := []MixProduct{
		{ProductID: uuid.New(), Name: "Turmeric", PricePerKg: decimal.NewFromInt(50)},
		{ProductID: uuid.New(), Name: "Chilli", PricePerKg: decimal.NewFromInt(75)},
	}

	t.Run("price mode splits the budget and derives quantities", func(t *testing.T) {
		result, err := SplitMix(MixModePrice, decimal.NewFromInt(300), products)
		require.NoError(t, err)
		require.Len(t, result, 2)

		// 150 per product: 150/50 = 3 kg, 150/75 = 2 kg
		assert.True(t, result[0].AllocatedPrice.Equal(decimal.NewFromInt(150)))
		assert.True(t, result[0].CalculatedQuantity.Equal(decimal.NewFromInt(3)), "got %s", result[0].CalculatedQuantity)
		assert.True(t, result[1].AllocatedPrice.Equal(decimal.NewFromInt(150)))
		assert.True(t, result[1].CalculatedQuantity.Equal(decimal.NewFromInt(2)), "got %s", result[1].CalculatedQuantity)
	})

	t.Run("quantity mode splits the target and derives prices", func(t *testing.T) {
		result, err := SplitMix(MixModeQuantity, decimal.NewFromInt(4), products)
		require.NoError(t, err)

		// 2 kg per product: 2*50 = 100, 2*75 = 150
		assert.True(t, result[0].CalculatedQuantity.Equal(decimal.NewFromInt(2)))
		assert.True(t, result[0].AllocatedPrice.Equal(decimal.NewFromInt(100)))
		assert.True(t, result[1].AllocatedPrice.Equal(decimal.NewFromInt(150)))
	})

	t.Run("rounds money to 2 and quantity to 3 decimals", func(t *testing.T) {
		three := []MixProduct{
			{ProductID: uuid.New(), Name: "A", PricePerKg: decimal.NewFromInt(100)},
			{ProductID: uuid.New(), Name: "B", PricePerKg: decimal.NewFromInt(100)},
			{ProductID: uuid.New(), Name: "C", PricePerKg: decimal.NewFromInt(100)},
		}
		result, err := SplitMix(MixModePrice, decimal.NewFromInt(100), three)
		require.NoError(t, err)

		assert.True(t, result[0].AllocatedPrice.Equal(decimal.NewFromFloat(33.33)), "got %s", result[0].AllocatedPrice)
		assert.True(t, result[0].CalculatedQuantity.Equal(decimal.NewFromFloat(0.333)), "got %s", result[0].CalculatedQuantity)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := SplitMix(MixMode("ratio"), decimal.NewFromInt(100), products)
		assert.Error(t, err)
		_, err = SplitMix(MixModePrice, decimal.Zero, products)
		assert.Error(t, err)
		_, err = SplitMix(MixModePrice, decimal.NewFromInt(100), nil)
		assert.Error(t, err)
		_, err = SplitMix(MixModePrice, decimal.NewFromInt(100), []MixProduct{{Name: "Free", PricePerKg: decimal.Zero}})
		assert.Error(t, err)
	})
}

func TestComboMembers(t *testing.T) {
	calculated := []MixProduct{
		{ProductID: uuid.New(), Name: "Turmeric", PricePerKg: decimal.NewFromInt(50), AllocatedPrice: decimal.NewFromInt(150), CalculatedQuantity: decimal.NewFromInt(3)},
	}

	members := ComboMembers(calculated)
	require.Len(t, members, 1)
	assert.Equal(t, "Turmeric", members[0].ProductName)
	assert.True(t, members[0].Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, members[0].Amount.Equal(decimal.NewFromInt(150)))
}

func TestMixRoundTripIntoCombo(t *testing.T) {
	// Budget 300 over two spices, then fold the result into one combo line.
	products := []MixProduct{
		{ProductID: uuid.New(), Name: "Turmeric", PricePerKg: decimal.NewFromInt(50)},
		{ProductID: uuid.New(), Name: "Chilli", PricePerKg: decimal.NewFromInt(75)},
	}
	calculated, err := SplitMix(MixModePrice, decimal.NewFromInt(300), products)
	require.NoError(t, err)

	item, err := NewComboLineItem("Biryani Mix", ComboMembers(calculated), decimal.Zero)
	require.NoError(t, err)

	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(5)), "got %s", item.Quantity)
	// 300 over 5 kg = 60/kg weighted average
	assert.True(t, item.Rate.Equal(decimal.NewFromInt(60)), "got %s", item.Rate)
	assert.True(t, item.Amount.Equal(decimal.NewFromInt(300)))
}
