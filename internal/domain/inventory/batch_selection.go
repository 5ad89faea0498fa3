package inventory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spicedepot/backend/internal/domain/shared"
	"github.com/spicedepot/backend/internal/domain/shared/valueobject"
)

// FulfillmentStatus describes how a selection total compares to the
// required quantity
type FulfillmentStatus string

const (
	// FulfillmentUnder means the selection covers less than required
	FulfillmentUnder FulfillmentStatus = "under"
	// FulfillmentExact means the selection matches the requirement
	FulfillmentExact FulfillmentStatus = "exact"
	// FulfillmentOver means the selection exceeds the requirement
	FulfillmentOver FulfillmentStatus = "over"
)

// BatchView exposes one candidate batch with its availability converted into
// the selection's required unit
type BatchView struct {
	BatchID     uuid.UUID
	BatchNumber string
	Available   decimal.Decimal // in the required unit
	Allocated   decimal.Decimal // in the required unit
	Unit        valueobject.Unit
	Expired     bool
}

// Allocation is one batch's share of a confirmed selection
type Allocation struct {
	BatchID     uuid.UUID
	BatchNumber string
	Quantity    decimal.Decimal // in the required unit
}

// SetResult reports the outcome of a manual quantity entry
type SetResult struct {
	Applied decimal.Decimal
	Clamped bool // true when the entry exceeded the batch maximum
	Removed bool // true when a non-positive entry removed the batch
}

// Selection allocates a required quantity across inventory batches using
// FEFO ordering (earliest expiry first). Per-batch caps are hard; the total
// is a soft target: the selection can be confirmed under, at, or over the
// requirement, and Status reports which case holds.
type Selection struct {
	requiredQuantity decimal.Decimal
	requiredUnit     valueobject.Unit
	batches          []InventoryBatch // eligible, FEFO sorted
	available        map[uuid.UUID]decimal.Decimal
	allocations      map[uuid.UUID]decimal.Decimal
	order            []uuid.UUID // insertion order of allocations
}

// NewSelection builds a selection session over the candidate batches.
// Ineligible batches (inactive, depleted, empty) are dropped; the rest are
// ordered by ascending expiry date, batches without an expiry date last,
// ties broken by creation time.
func NewSelection(requiredQuantity decimal.Decimal, requiredUnit valueobject.Unit, candidates []InventoryBatch) (*Selection, error) {
	if requiredQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Required quantity must be positive")
	}
	if !requiredUnit.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unknown unit code: "+requiredUnit.String())
	}

	eligible := make([]InventoryBatch, 0, len(candidates))
	for _, b := range candidates {
		if !b.IsEligible() {
			continue
		}
		if b.Unit.IsDiscrete() != requiredUnit.IsDiscrete() {
			return nil, shared.ErrIncompatibleUnits
		}
		eligible = append(eligible, b)
	}

	SortFEFO(eligible)

	available := make(map[uuid.UUID]decimal.Decimal, len(eligible))
	for _, b := range eligible {
		available[b.ID] = valueobject.Convert(b.Quantity, b.Unit, requiredUnit)
	}

	return &Selection{
		requiredQuantity: requiredQuantity,
		requiredUnit:     requiredUnit,
		batches:          eligible,
		available:        available,
		allocations:      make(map[uuid.UUID]decimal.Decimal),
		order:            make([]uuid.UUID, 0),
	}, nil
}

// SortFEFO orders batches by ascending expiry date; batches without expiry
// go last, ties fall back to creation time
func SortFEFO(batches []InventoryBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		ei, ej := batches[i].ExpiryDate, batches[j].ExpiryDate
		if ei != nil && ej != nil {
			if !ei.Equal(*ej) {
				return ei.Before(*ej)
			}
		} else if ei != nil {
			return true
		} else if ej != nil {
			return false
		}
		return batches[i].CreatedAt.Before(batches[j].CreatedAt)
	})
}

// RequiredQuantity returns the selection target
func (s *Selection) RequiredQuantity() decimal.Decimal {
	return s.requiredQuantity
}

// RequiredUnit returns the unit the target and all allocations are kept in
func (s *Selection) RequiredUnit() valueobject.Unit {
	return s.requiredUnit
}

// Batches returns the candidate batches in FEFO order with converted
// availability and current allocation
func (s *Selection) Batches() []BatchView {
	views := make([]BatchView, 0, len(s.batches))
	for _, b := range s.batches {
		views = append(views, BatchView{
			BatchID:     b.ID,
			BatchNumber: b.BatchNumber,
			Available:   s.available[b.ID],
			Allocated:   s.allocations[b.ID],
			Unit:        s.requiredUnit,
			Expired:     b.IsExpired(),
		})
	}
	return views
}

// SetQuantity enters a manual allocation for a batch. Entries above the
// batch's converted availability are clamped to that maximum and reported,
// not silently dropped; entries of zero or less remove the batch from the
// allocation.
func (s *Selection) SetQuantity(batchID uuid.UUID, quantity decimal.Decimal) (SetResult, error) {
	avail, ok := s.available[batchID]
	if !ok {
		return SetResult{}, shared.NewDomainError("BATCH_NOT_FOUND", "Batch is not part of this selection")
	}

	if quantity.LessThanOrEqual(decimal.Zero) {
		s.remove(batchID)
		return SetResult{Removed: true}, nil
	}

	applied := quantity
	clamped := false
	if quantity.GreaterThan(avail) {
		applied = avail
		clamped = true
	}

	s.put(batchID, applied)
	return SetResult{Applied: applied, Clamped: clamped}, nil
}

// SelectRemaining allocates min(outstanding requirement, batch availability)
// to the batch, the one-shot "select what I still need" action
func (s *Selection) SelectRemaining(batchID uuid.UUID) (decimal.Decimal, error) {
	avail, ok := s.available[batchID]
	if !ok {
		return decimal.Zero, shared.NewDomainError("BATCH_NOT_FOUND", "Batch is not part of this selection")
	}

	outstanding := s.Remaining().Add(s.allocations[batchID])
	applied := decimal.Min(outstanding, avail)
	if applied.LessThanOrEqual(decimal.Zero) {
		s.remove(batchID)
		return decimal.Zero, nil
	}

	s.put(batchID, applied)
	return applied, nil
}

// SelectAll allocates the batch's full availability
func (s *Selection) SelectAll(batchID uuid.UUID) (decimal.Decimal, error) {
	avail, ok := s.available[batchID]
	if !ok {
		return decimal.Zero, shared.NewDomainError("BATCH_NOT_FOUND", "Batch is not part of this selection")
	}
	s.put(batchID, avail)
	return avail, nil
}

// AutoAllocate fills the selection greedily in FEFO order until the
// requirement is met or the batches run out. Existing allocations are
// replaced.
func (s *Selection) AutoAllocate() {
	s.allocations = make(map[uuid.UUID]decimal.Decimal)
	s.order = s.order[:0]

	remaining := s.requiredQuantity
	for _, b := range s.batches {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		take := decimal.Min(remaining, s.available[b.ID])
		if take.LessThanOrEqual(decimal.Zero) {
			continue
		}
		s.put(b.ID, take)
		remaining = remaining.Sub(take)
	}
}

// TotalAllocated returns the sum of all batch allocations
func (s *Selection) TotalAllocated() decimal.Decimal {
	total := decimal.Zero
	for _, q := range s.allocations {
		total = total.Add(q)
	}
	return total
}

// Remaining returns the unmet part of the requirement, never negative
func (s *Selection) Remaining() decimal.Decimal {
	remaining := s.requiredQuantity.Sub(s.TotalAllocated())
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// Status reports whether the allocation is under, at, or over the
// requirement, together with the shortfall or excess amount
func (s *Selection) Status() (FulfillmentStatus, decimal.Decimal) {
	total := s.TotalAllocated()
	switch {
	case total.LessThan(s.requiredQuantity):
		return FulfillmentUnder, s.requiredQuantity.Sub(total)
	case total.GreaterThan(s.requiredQuantity):
		return FulfillmentOver, total.Sub(s.requiredQuantity)
	default:
		return FulfillmentExact, decimal.Zero
	}
}

// Allocations returns the confirmed allocations in the order batches were
// selected
func (s *Selection) Allocations() []Allocation {
	result := make([]Allocation, 0, len(s.order))
	for _, id := range s.order {
		q, ok := s.allocations[id]
		if !ok {
			continue
		}
		result = append(result, Allocation{
			BatchID:     id,
			BatchNumber: s.batchNumber(id),
			Quantity:    q,
		})
	}
	return result
}

func (s *Selection) batchNumber(id uuid.UUID) string {
	for _, b := range s.batches {
		if b.ID == id {
			return b.BatchNumber
		}
	}
	return ""
}

func (s *Selection) put(batchID uuid.UUID, quantity decimal.Decimal) {
	if _, exists := s.allocations[batchID]; !exists {
		s.order = append(s.order, batchID)
	}
	s.allocations[batchID] = quantity
}

func (s *Selection) remove(batchID uuid.UUID) {
	delete(s.allocations, batchID)
	for i, id := range s.order {
		if id == batchID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// WeightedAverageUnitPrice computes the quantity-weighted average purchase
// price across eligible batches, used by the average-price lookup
func WeightedAverageUnitPrice(batches []InventoryBatch) decimal.Decimal {
	totalQty := decimal.Zero
	totalValue := decimal.Zero
	for _, b := range batches {
		if !b.IsEligible() {
			continue
		}
		totalQty = totalQty.Add(b.Quantity)
		totalValue = totalValue.Add(b.Quantity.Mul(b.UnitPrice))
	}
	if totalQty.IsZero() {
		return decimal.Zero
	}
	return totalValue.Div(totalQty).Round(2)
}
