package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spicedepot/backend/internal/domain/shared"
	"github.com/spicedepot/backend/internal/domain/shared/valueobject"
)

// DistributionStatus is the payment status of a bill
type DistributionStatus string

const (
	DistributionStatusPaid    DistributionStatus = "paid"
	DistributionStatusPartial DistributionStatus = "partial"
)

// IsValid checks if the status is a valid DistributionStatus
func (s DistributionStatus) IsValid() bool {
	return s == DistributionStatusPaid || s == DistributionStatusPartial
}

// ItemAllocation records one batch's share of a billed line. Allocations are
// keyed by the line's AllocationKey: the product ID for regular lines, the
// combo name for combo lines.
type ItemAllocation struct {
	Key         string
	BatchID     uuid.UUID
	BatchNumber string
	Quantity    decimal.Decimal
	Unit        valueobject.Unit
}

// Distribution is a caterer bill: line items, batch allocations, derived
// totals, and payment state. Totals are recomputed from scratch on every
// mutation; they are never edited directly.
type Distribution struct {
	shared.BaseAggregateRoot
	BillNo           string
	CatererID        uuid.UUID
	CatererName      string
	DistributionDate time.Time
	Items            []LineItem
	Allocations      []ItemAllocation
	Totals           BillTotals
	AmountPaid       decimal.Decimal
	CustomAmount     decimal.Decimal // preserved custom entry, never auto-overwritten
	PaymentMode      PaymentMode
	Status           DistributionStatus
	Notes            string
	ReceiptImage     string
	NextPaymentDate  *time.Time
	ReminderDate     *time.Time
	ReminderSkipped  bool
}

// NewDistribution creates a new draft bill. An empty bill number is
// generated in CB-YYYYMMDD-NNN form.
func NewDistribution(billNo string, catererID uuid.UUID, catererName string, distributionDate time.Time) (*Distribution, error) {
	if catererID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATERER", "Caterer ID cannot be empty")
	}
	if catererName == "" {
		return nil, shared.NewDomainError("INVALID_CATERER_NAME", "Caterer name cannot be empty")
	}
	if billNo == "" {
		billNo = GenerateBillNumber(time.Now())
	}
	if distributionDate.IsZero() {
		distributionDate = time.Now()
	}

	d := &Distribution{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BillNo:            billNo,
		CatererID:         catererID,
		CatererName:       catererName,
		DistributionDate:  distributionDate,
		Items:             make([]LineItem, 0),
		Allocations:       make([]ItemAllocation, 0),
		AmountPaid:        decimal.Zero,
		CustomAmount:      decimal.Zero,
		Status:            DistributionStatusPartial,
	}
	d.recalculate()
	return d, nil
}

// AddItem appends a line item and recomputes totals
func (d *Distribution) AddItem(item LineItem) {
	d.Items = append(d.Items, item)
	d.recalculate()
}

// RemoveItem drops a line item and its batch allocations
func (d *Distribution) RemoveItem(itemID uuid.UUID) error {
	for i := range d.Items {
		if d.Items[i].ID == itemID {
			key := d.Items[i].AllocationKey()
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			d.clearAllocations(key)
			d.recalculate()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found on bill")
}

// UpdateItemQuantity changes a line's quantity and recomputes totals
func (d *Distribution) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	item := d.findItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found on bill")
	}
	if err := item.UpdateQuantity(quantity); err != nil {
		return err
	}
	d.recalculate()
	return nil
}

// UpdateItemRate changes a line's rate and recomputes totals
func (d *Distribution) UpdateItemRate(itemID uuid.UUID, rate decimal.Decimal) error {
	item := d.findItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found on bill")
	}
	if err := item.UpdateRate(rate); err != nil {
		return err
	}
	d.recalculate()
	return nil
}

// SetAllocations replaces the batch allocations stored under a line's key
func (d *Distribution) SetAllocations(key string, allocations []ItemAllocation) {
	d.clearAllocations(key)
	for _, a := range allocations {
		a.Key = key
		d.Allocations = append(d.Allocations, a)
	}
}

// AllocationsFor returns the batch allocations stored under a line's key
func (d *Distribution) AllocationsFor(key string) []ItemAllocation {
	result := make([]ItemAllocation, 0)
	for _, a := range d.Allocations {
		if a.Key == key {
			result = append(result, a)
		}
	}
	return result
}

// ApplyPaymentMode sets the payment mode and resolves the amount paid from
// the current grand total. The custom amount survives mode flips so that
// returning to custom restores the user's entry.
func (d *Distribution) ApplyPaymentMode(mode PaymentMode, customAmount decimal.Decimal) error {
	if !mode.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_MODE", "Unknown payment mode: "+mode.String())
	}
	if mode == PaymentModeCustom {
		if customAmount.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Custom amount cannot be negative")
		}
		d.CustomAmount = customAmount
	}
	d.PaymentMode = mode
	d.AmountPaid = mode.AmountPaid(d.Totals.GrandTotal, d.CustomAmount)
	d.recalculate()
	return nil
}

// ScheduleReminder records the reminder sub-flow result required before a
// half/later bill with an outstanding balance can be persisted
func (d *Distribution) ScheduleReminder(nextPaymentDate, reminderDate time.Time) error {
	if nextPaymentDate.Before(d.DistributionDate) {
		return shared.NewDomainError("INVALID_REMINDER", "Next payment date cannot be before the bill date")
	}
	if reminderDate.After(nextPaymentDate) {
		return shared.NewDomainError("INVALID_REMINDER", "Reminder date cannot be after the next payment date")
	}
	d.NextPaymentDate = &nextPaymentDate
	d.ReminderDate = &reminderDate
	d.ReminderSkipped = false
	d.UpdatedAt = time.Now()
	return nil
}

// SkipReminder explicitly skips the reminder sub-flow
func (d *Distribution) SkipReminder() {
	d.ReminderSkipped = true
	d.UpdatedAt = time.Now()
}

// ReminderPending reports whether the reminder gate still blocks submission
func (d *Distribution) ReminderPending() bool {
	if !d.PaymentMode.RequiresReminder(d.Totals.BalanceDue) {
		return false
	}
	if d.ReminderSkipped {
		return false
	}
	return d.NextPaymentDate == nil || d.ReminderDate == nil
}

// Shortfall describes a line whose batch allocation does not cover its
// billed quantity
type Shortfall struct {
	Key       string
	ItemName  string
	Required  decimal.Decimal
	Allocated decimal.Decimal
}

// AllocationShortfalls lists lines whose allocations total less than the
// billed quantity. Shortfalls do not block submission but require an
// explicit override.
func (d *Distribution) AllocationShortfalls() []Shortfall {
	shortfalls := make([]Shortfall, 0)
	for i := range d.Items {
		item := &d.Items[i]
		if !item.IsBillable() {
			continue
		}
		allocated := decimal.Zero
		allocs := d.AllocationsFor(item.AllocationKey())
		if len(allocs) == 0 {
			continue // unallocated lines are billed without batch tracking
		}
		for _, a := range allocs {
			allocated = allocated.Add(a.Quantity)
		}
		if allocated.LessThan(item.Quantity) {
			shortfalls = append(shortfalls, Shortfall{
				Key:       item.AllocationKey(),
				ItemName:  item.ProductName,
				Required:  item.Quantity,
				Allocated: allocated,
			})
		}
	}
	return shortfalls
}

// Validate checks the bill is complete enough to persist: it needs billable
// items, a payment mode, and a settled reminder gate
func (d *Distribution) Validate() error {
	billable := 0
	for i := range d.Items {
		if d.Items[i].IsBillable() {
			billable++
		}
	}
	if billable == 0 {
		return shared.NewDomainError("NO_ITEMS", "Bill must contain at least one item")
	}
	if d.PaymentMode == "" {
		return shared.NewDomainError("MISSING_PAYMENT_MODE", "Payment mode is required")
	}
	if d.ReminderPending() {
		return shared.NewDomainError("REMINDER_PENDING", "Payment reminder must be scheduled or explicitly skipped")
	}
	return nil
}

// SetReceiptImage attaches an uploaded receipt filename
func (d *Distribution) SetReceiptImage(filename string) {
	d.ReceiptImage = filename
	d.UpdatedAt = time.Now()
}

// SetNotes sets free-form notes
func (d *Distribution) SetNotes(notes string) {
	d.Notes = notes
	d.UpdatedAt = time.Now()
}

// recalculate rederives totals, amount paid, and status after any mutation
func (d *Distribution) recalculate() {
	// Re-resolve non-custom modes so half/full track the moving grand total.
	if d.PaymentMode != "" && d.PaymentMode != PaymentModeCustom {
		preliminary := CalculateTotals(d.Items, decimal.Zero)
		d.AmountPaid = d.PaymentMode.AmountPaid(preliminary.GrandTotal, d.CustomAmount)
	}
	d.Totals = CalculateTotals(d.Items, d.AmountPaid)
	// An empty draft owes nothing yet; that does not make it a paid bill.
	if len(d.Items) == 0 {
		d.Status = DistributionStatusPartial
	} else {
		d.Status = d.Totals.Status()
	}
	d.UpdatedAt = time.Now()
}

func (d *Distribution) findItem(itemID uuid.UUID) *LineItem {
	for i := range d.Items {
		if d.Items[i].ID == itemID {
			return &d.Items[i]
		}
	}
	return nil
}

func (d *Distribution) clearAllocations(key string) {
	kept := d.Allocations[:0]
	for _, a := range d.Allocations {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	d.Allocations = kept
}
