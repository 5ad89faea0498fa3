package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spicedepot/backend/internal/domain/shared"
	"github.com/spicedepot/backend/internal/domain/shared/valueobject"
)

// LineItemKind distinguishes regular product lines from mix/combo lines.
// Combos carry their member products explicitly instead of hiding behind a
// sentinel product ID.
type LineItemKind string

const (
	LineItemRegular LineItemKind = "regular"
	LineItemCombo   LineItemKind = "combo"
)

// ComboMember records one product folded into a combo line, with the share
// of price and quantity it contributed
type ComboMember struct {
	ProductID   uuid.UUID
	ProductName string
	PricePerKg  decimal.Decimal
	Quantity    decimal.Decimal // kg
	Amount      decimal.Decimal
}

// LineItem is one billed line on a distribution. Amount and GST are always
// derived from quantity, unit, rate, and GST percentage; they are never
// stored independently of their inputs.
type LineItem struct {
	ID            uuid.UUID
	Kind          LineItemKind
	ProductID     uuid.UUID // uuid.Nil for combos
	ProductName   string    // combo display name for combo lines
	Quantity      decimal.Decimal
	Unit          valueobject.Unit
	Rate          decimal.Decimal // price per kilogram, regardless of Unit
	GSTPercentage decimal.Decimal
	Amount        decimal.Decimal
	GSTAmount     decimal.Decimal
	Members       []ComboMember // combo lines only
}

// PricingQuantity returns the quantity used for pricing against the per-kg
// rate. Only grams are converted to kilograms before pricing; all other
// units (including lb/oz/l/ml) price their raw quantity. This mirrors the
// billing behavior the rest of the system is reconciled against.
func PricingQuantity(quantity decimal.Decimal, unit valueobject.Unit) decimal.Decimal {
	if unit == valueobject.UnitG {
		return quantity.Div(decimal.NewFromInt(1000))
	}
	return quantity
}

// ComputeAmount calculates the monetary amount for a quantity/unit/rate
// triple, rounded to 2 decimal places
func ComputeAmount(quantity decimal.Decimal, unit valueobject.Unit, rate decimal.Decimal) decimal.Decimal {
	return PricingQuantity(quantity, unit).Mul(rate).Round(2)
}

// ComputeGST calculates the GST amount for an already-rounded line amount,
// rounded to 2 decimal places
func ComputeGST(amount, gstPercentage decimal.Decimal) decimal.Decimal {
	return amount.Mul(gstPercentage).Div(decimal.NewFromInt(100)).Round(2)
}

// NewLineItem creates a regular product line with derived amounts
func NewLineItem(productID uuid.UUID, productName string, quantity decimal.Decimal, unit valueobject.Unit, rate, gstPercentage decimal.Decimal) (*LineItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unknown unit code: "+unit.String())
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Rate cannot be negative")
	}
	if gstPercentage.IsNegative() || gstPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_GST", "GST percentage must be between 0 and 100")
	}

	item := &LineItem{
		ID:            uuid.New(),
		Kind:          LineItemRegular,
		ProductID:     productID,
		ProductName:   productName,
		Quantity:      quantity,
		Unit:          unit,
		Rate:          rate,
		GSTPercentage: gstPercentage,
	}
	item.Recalculate()
	return item, nil
}

// NewComboLineItem creates a single combo line from mix members. Quantity is
// the member sum in kilograms and the rate is the quantity-weighted average
// of the member prices.
func NewComboLineItem(name string, members []ComboMember, gstPercentage decimal.Decimal) (*LineItem, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_COMBO_NAME", "Combo name cannot be empty")
	}
	if len(members) == 0 {
		return nil, shared.NewDomainError("INVALID_COMBO", "Combo must contain at least one product")
	}

	totalQty := decimal.Zero
	totalAmount := decimal.Zero
	for _, m := range members {
		totalQty = totalQty.Add(m.Quantity)
		totalAmount = totalAmount.Add(m.Amount)
	}
	if totalQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_COMBO", "Combo quantity must be positive")
	}

	rate := totalAmount.Div(totalQty).Round(2)

	item := &LineItem{
		ID:            uuid.New(),
		Kind:          LineItemCombo,
		ProductID:     uuid.Nil,
		ProductName:   name,
		Quantity:      totalQty.Round(3),
		Unit:          valueobject.UnitKG,
		Rate:          rate,
		GSTPercentage: gstPercentage,
		Members:       members,
	}
	item.Recalculate()
	return item, nil
}

// Recalculate rederives Amount and GSTAmount from the line's inputs
func (i *LineItem) Recalculate() {
	i.Amount = ComputeAmount(i.Quantity, i.Unit, i.Rate)
	i.GSTAmount = ComputeGST(i.Amount, i.GSTPercentage)
}

// UpdateQuantity changes the quantity and rederives the amounts
func (i *LineItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Quantity = quantity
	i.Recalculate()
	return nil
}

// UpdateRate changes the per-kg rate and rederives the amounts
func (i *LineItem) UpdateRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Rate cannot be negative")
	}
	i.Rate = rate
	i.Recalculate()
	return nil
}

// UpdateGST changes the GST percentage and rederives the amounts
func (i *LineItem) UpdateGST(gstPercentage decimal.Decimal) error {
	if gstPercentage.IsNegative() || gstPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_GST", "GST percentage must be between 0 and 100")
	}
	i.GSTPercentage = gstPercentage
	i.Recalculate()
	return nil
}

// IsBillable reports whether the line participates in totals: it must carry
// a product name and a positive quantity
func (i *LineItem) IsBillable() bool {
	return i.ProductName != "" && i.Quantity.GreaterThan(decimal.Zero)
}

// IsCombo reports whether the line is a mix/combo line
func (i *LineItem) IsCombo() bool {
	return i.Kind == LineItemCombo
}

// AllocationKey returns the key batch allocations are stored under: the
// product ID for regular lines, the combo name for combo lines (combos have
// no per-product line to key against)
func (i *LineItem) AllocationKey() string {
	if i.IsCombo() {
		return i.ProductName
	}
	return i.ProductID.String()
}
