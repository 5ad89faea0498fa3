package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spicedepot/backend/internal/domain/shared"
)

// MixMode selects which side of the price/quantity pair the mix calculator
// takes as input
type MixMode string

const (
	// MixModePrice splits a money budget evenly and derives quantities
	MixModePrice MixMode = "price"
	// MixModeQuantity splits a target quantity (kg) evenly and derives prices
	MixModeQuantity MixMode = "quantity"
)

// IsValid checks if the mode is a valid MixMode
func (m MixMode) IsValid() bool {
	return m == MixModePrice || m == MixModeQuantity
}

// MixProduct is one product participating in a mix/combo session. The
// calculator fills AllocatedPrice and CalculatedQuantity; batch selection
// for each member happens independently afterwards.
type MixProduct struct {
	ProductID          uuid.UUID
	Name               string
	PricePerKg         decimal.Decimal
	AllocatedPrice     decimal.Decimal
	CalculatedQuantity decimal.Decimal // kg
}

// SplitMix distributes a budget or target quantity evenly across the chosen
// products and derives the complementary value for each:
//
//	price mode:    perProduct = budget/count, quantity = perProduct/price
//	quantity mode: perProduct = target/count, price = perProduct*price
//
// Money values round to 2 decimals, quantities to 3.
func SplitMix(mode MixMode, input decimal.Decimal, products []MixProduct) ([]MixProduct, error) {
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_MIX_MODE", "Unknown mix mode")
	}
	if input.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_MIX_INPUT", "Mix budget or quantity must be positive")
	}
	if len(products) == 0 {
		return nil, shared.NewDomainError("INVALID_MIX", "Mix must contain at least one product")
	}

	perProduct := input.Div(decimal.NewFromInt(int64(len(products))))

	result := make([]MixProduct, len(products))
	for i, p := range products {
		if p.PricePerKg.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_PRICE", "Mix product price must be positive")
		}
		out := p
		switch mode {
		case MixModePrice:
			out.AllocatedPrice = perProduct.Round(2)
			out.CalculatedQuantity = perProduct.Div(p.PricePerKg).Round(3)
		case MixModeQuantity:
			out.CalculatedQuantity = perProduct.Round(3)
			out.AllocatedPrice = perProduct.Mul(p.PricePerKg).Round(2)
		}
		result[i] = out
	}
	return result, nil
}

// ComboMembers converts calculated mix products into combo line members
func ComboMembers(products []MixProduct) []ComboMember {
	members := make([]ComboMember, 0, len(products))
	for _, p := range products {
		members = append(members, ComboMember{
			ProductID:   p.ProductID,
			ProductName: p.Name,
			PricePerKg:  p.PricePerKg,
			Quantity:    p.CalculatedQuantity,
			Amount:      p.AllocatedPrice,
		})
	}
	return members
}
