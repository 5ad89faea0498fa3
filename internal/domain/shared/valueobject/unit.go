package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is a value object representing a unit of measure for spice stock.
// Continuous units (mass/volume) convert between each other through a fixed
// factor table with kilograms as the base. Discrete units (pieces, boxes,
// packs, bags) have no cross-unit conversion defined.
type Unit string

// Supported unit codes. Codes are stored lowercase, matching how batches and
// bill items carry them on the wire.
const (
	UnitKG   Unit = "kg"
	UnitG    Unit = "g"
	UnitLB   Unit = "lb"
	UnitOZ   Unit = "oz"
	UnitL    Unit = "l"
	UnitML   Unit = "ml"
	UnitPCS  Unit = "pcs"
	UnitBox  Unit = "box"
	UnitPack Unit = "pack"
	UnitBag  Unit = "bag"
)

// Conversion factors relative to 1 kg. Liters map 1:1 onto kilograms by the
// density convention used throughout the catalog (spices are priced per kg
// even when measured by volume).
var kgFactor = map[Unit]decimal.Decimal{
	UnitKG: decimal.NewFromInt(1),
	UnitG:  decimal.NewFromFloat(0.001),
	UnitLB: decimal.NewFromInt(1).Div(decimal.NewFromFloat(2.20462)),
	UnitOZ: decimal.NewFromInt(1).Div(decimal.NewFromFloat(35.274)),
	UnitL:  decimal.NewFromInt(1),
	UnitML: decimal.NewFromFloat(0.001),
}

// AllUnits returns every supported unit code
func AllUnits() []Unit {
	return []Unit{UnitKG, UnitG, UnitLB, UnitOZ, UnitL, UnitML, UnitPCS, UnitBox, UnitPack, UnitBag}
}

// ParseUnit normalizes and validates a unit code
func ParseUnit(s string) (Unit, bool) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllUnits() {
		if u == known {
			return u, true
		}
	}
	return "", false
}

// IsValid reports whether the unit is a supported code
func (u Unit) IsValid() bool {
	_, ok := ParseUnit(string(u))
	return ok
}

// IsDiscrete reports whether the unit counts whole items (pcs/box/pack/bag)
func (u Unit) IsDiscrete() bool {
	switch u {
	case UnitPCS, UnitBox, UnitPack, UnitBag:
		return true
	}
	return false
}

// IsContinuous reports whether the unit is a mass or volume unit
func (u Unit) IsContinuous() bool {
	_, ok := kgFactor[u]
	return ok
}

// String returns the unit code
func (u Unit) String() string {
	return string(u)
}

// Convert converts a quantity between units.
//
// Discrete units pass through unchanged regardless of the requested target;
// callers must not mix discrete and continuous units. Continuous conversions
// go through the kilogram base and are rounded by precision policy: results
// targeting g/ml round to integers, results targeting kg/l round to 3
// decimals, and any other target rounds by magnitude (>=1000 to integer,
// [100,1000) to 1 decimal, below 100 to 3 decimals).
func Convert(quantity decimal.Decimal, from, to Unit) decimal.Decimal {
	if from == to {
		return quantity
	}
	if from.IsDiscrete() || to.IsDiscrete() {
		// No cross-unit conversion defined for discrete units.
		return quantity
	}

	fromFactor, okFrom := kgFactor[from]
	toFactor, okTo := kgFactor[to]
	if !okFrom || !okTo {
		return quantity
	}

	converted := quantity.Mul(fromFactor).Div(toFactor)
	return roundConverted(converted, to)
}

// ToKilograms converts a continuous quantity to kilograms without the
// display-precision rounding applied by Convert. Discrete quantities pass
// through unchanged.
func ToKilograms(quantity decimal.Decimal, from Unit) decimal.Decimal {
	factor, ok := kgFactor[from]
	if !ok {
		return quantity
	}
	return quantity.Mul(factor)
}

// roundConverted applies the display precision policy for converted values
func roundConverted(q decimal.Decimal, target Unit) decimal.Decimal {
	switch target {
	case UnitG, UnitML:
		return q.Round(0)
	case UnitKG, UnitL:
		return q.Round(3)
	}

	switch {
	case q.GreaterThanOrEqual(decimal.NewFromInt(1000)):
		return q.Round(0)
	case q.GreaterThanOrEqual(decimal.NewFromInt(100)):
		return q.Round(1)
	default:
		return q.Round(3)
	}
}
