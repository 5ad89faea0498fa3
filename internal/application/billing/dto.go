package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spicedepot/backend/internal/domain/billing"
)

// BatchAllocationRequest assigns part of a line's quantity to one batch.
// Quantities are in the line's billing unit.
type BatchAllocationRequest struct {
	BatchID  uuid.UUID       `json:"batch_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// ComboMemberRequest is one product folded into a combo line, carrying the
// price/quantity split the mix calculator produced
type ComboMemberRequest struct {
	ProductID   uuid.UUID                `json:"product_id" binding:"required"`
	Quantity    decimal.Decimal          `json:"quantity" binding:"required"`
	Amount      decimal.Decimal          `json:"amount" binding:"required"`
	Allocations []BatchAllocationRequest `json:"allocations" binding:"dive"`
}

// LineItemRequest is one line of a bill submission. Regular lines name a
// product; combo lines carry a combo name and their member products instead.
type LineItemRequest struct {
	Kind        string                   `json:"kind" binding:"required,oneof=regular combo"`
	ProductID   uuid.UUID                `json:"product_id"`
	ComboName   string                   `json:"combo_name"`
	Quantity    decimal.Decimal          `json:"quantity"`
	Unit        string                   `json:"unit" binding:"omitempty,unitcode"`
	Rate        *decimal.Decimal         `json:"rate"` // overrides the catalog rate when set
	GST         *decimal.Decimal         `json:"gst"`  // overrides the catalog GST when set
	Allocations []BatchAllocationRequest `json:"allocations" binding:"dive"`
	Members     []ComboMemberRequest     `json:"members" binding:"dive"`
}

// ReminderRequest carries the reminder sub-flow result for half/later bills
type ReminderRequest struct {
	NextPaymentDate time.Time `json:"next_payment_date" binding:"required"`
	ReminderDate    time.Time `json:"reminder_date" binding:"required"`
}

// CreateDistributionRequest is a full bill submission. Submissions are
// idempotent on the bill number: resubmitting the same bill returns the
// stored record instead of creating a duplicate.
type CreateDistributionRequest struct {
	BillNo           string            `json:"bill_no" binding:"max=30"`
	CatererID        uuid.UUID         `json:"caterer_id" binding:"required"`
	CatererName      string            `json:"caterer_name" binding:"required,max=100"`
	DistributionDate *time.Time        `json:"distribution_date"`
	Items            []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMode      string            `json:"payment_mode" binding:"required,oneof=full half custom later"`
	CustomAmount     decimal.Decimal   `json:"custom_amount"`
	Reminder         *ReminderRequest  `json:"reminder"`
	SkipReminder     bool              `json:"skip_reminder"`
	Notes            string            `json:"notes" binding:"max=500"`
	ReceiptImage     string            `json:"receipt_image" binding:"max=255"`
	AllowShortfall   bool              `json:"allow_shortfall"`
}

// ComboMemberResponse mirrors a combo member in API responses
type ComboMemberResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	PricePerKg  decimal.Decimal `json:"price_per_kg"`
	Quantity    decimal.Decimal `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
}

// LineItemResponse represents a billed line in API responses
type LineItemResponse struct {
	ID          uuid.UUID             `json:"id"`
	Kind        string                `json:"kind"`
	ProductID   *uuid.UUID            `json:"product_id,omitempty"`
	ProductName string                `json:"product_name"`
	Quantity    decimal.Decimal       `json:"quantity"`
	Unit        string                `json:"unit"`
	Rate        decimal.Decimal       `json:"rate"`
	GST         decimal.Decimal       `json:"gst"`
	Amount      decimal.Decimal       `json:"amount"`
	GSTAmount   decimal.Decimal       `json:"gst_amount"`
	Members     []ComboMemberResponse `json:"members,omitempty"`
}

// AllocationResponse represents one stored batch allocation
type AllocationResponse struct {
	Key         string          `json:"key"`
	BatchID     uuid.UUID       `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
}

// ReconciliationOutcome reports one batch decrement attempted after bill
// creation. Failures do not fail the bill.
type ReconciliationOutcome struct {
	BatchID   uuid.UUID       `json:"batch_id"`
	Requested decimal.Decimal `json:"requested"`
	Deducted  decimal.Decimal `json:"deducted"`
	Succeeded bool            `json:"succeeded"`
	Error     string          `json:"error,omitempty"`
}

// DistributionResponse represents a bill in API responses
type DistributionResponse struct {
	ID               uuid.UUID               `json:"id"`
	BillNo           string                  `json:"bill_no"`
	CatererID        uuid.UUID               `json:"caterer_id"`
	CatererName      string                  `json:"caterer_name"`
	DistributionDate time.Time               `json:"distribution_date"`
	Items            []LineItemResponse      `json:"items"`
	Allocations      []AllocationResponse    `json:"allocations"`
	TotalAmount      decimal.Decimal         `json:"total_amount"`
	TotalGSTAmount   decimal.Decimal         `json:"total_gst_amount"`
	GrandTotal       decimal.Decimal         `json:"grand_total"`
	AmountPaid       decimal.Decimal         `json:"amount_paid"`
	BalanceDue       decimal.Decimal         `json:"balance_due"`
	PaymentMode      string                  `json:"payment_mode"`
	Status           string                  `json:"status"`
	Notes            string                  `json:"notes,omitempty"`
	ReceiptImage     string                  `json:"receipt_image,omitempty"`
	NextPaymentDate  *time.Time              `json:"next_payment_date,omitempty"`
	ReminderDate     *time.Time              `json:"reminder_date,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	Duplicate        bool                    `json:"duplicate,omitempty"`
	Reconciliation   []ReconciliationOutcome `json:"reconciliation,omitempty"`
}

// ToDistributionResponse converts a domain distribution to its response form
func ToDistributionResponse(d *billing.Distribution) DistributionResponse {
	items := make([]LineItemResponse, 0, len(d.Items))
	for i := range d.Items {
		items = append(items, toLineItemResponse(&d.Items[i]))
	}

	allocations := make([]AllocationResponse, 0, len(d.Allocations))
	for _, a := range d.Allocations {
		allocations = append(allocations, AllocationResponse{
			Key:         a.Key,
			BatchID:     a.BatchID,
			BatchNumber: a.BatchNumber,
			Quantity:    a.Quantity,
			Unit:        a.Unit.String(),
		})
	}

	return DistributionResponse{
		ID:               d.ID,
		BillNo:           d.BillNo,
		CatererID:        d.CatererID,
		CatererName:      d.CatererName,
		DistributionDate: d.DistributionDate,
		Items:            items,
		Allocations:      allocations,
		TotalAmount:      d.Totals.TotalAmount,
		TotalGSTAmount:   d.Totals.TotalGSTAmount,
		GrandTotal:       d.Totals.GrandTotal,
		AmountPaid:       d.AmountPaid,
		BalanceDue:       d.Totals.BalanceDue,
		PaymentMode:      d.PaymentMode.String(),
		Status:           string(d.Status),
		Notes:            d.Notes,
		ReceiptImage:     d.ReceiptImage,
		NextPaymentDate:  d.NextPaymentDate,
		ReminderDate:     d.ReminderDate,
		CreatedAt:        d.CreatedAt,
	}
}

func toLineItemResponse(item *billing.LineItem) LineItemResponse {
	response := LineItemResponse{
		ID:          item.ID,
		Kind:        string(item.Kind),
		ProductName: item.ProductName,
		Quantity:    item.Quantity,
		Unit:        item.Unit.String(),
		Rate:        item.Rate,
		GST:         item.GSTPercentage,
		Amount:      item.Amount,
		GSTAmount:   item.GSTAmount,
	}
	if !item.IsCombo() {
		id := item.ProductID
		response.ProductID = &id
	}
	for _, m := range item.Members {
		response.Members = append(response.Members, ComboMemberResponse{
			ProductID:   m.ProductID,
			ProductName: m.ProductName,
			PricePerKg:  m.PricePerKg,
			Quantity:    m.Quantity,
			Amount:      m.Amount,
		})
	}
	return response
}

// DistributionListFilter represents filter options for the bill list
type DistributionListFilter struct {
	Search   string     `form:"search"`
	Caterer  *uuid.UUID `form:"caterer_id"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Status   string     `form:"status" binding:"omitempty,oneof=paid partial"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// MixCalcProductRequest is one product entering the mix calculator
type MixCalcProductRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// MixCalcRequest asks the calculator to split a budget (price mode) or a
// target quantity (quantity mode) evenly across the chosen products
type MixCalcRequest struct {
	Mode     string                  `json:"mode" binding:"required,oneof=price quantity"`
	Input    decimal.Decimal         `json:"input" binding:"required"`
	Products []MixCalcProductRequest `json:"products" binding:"required,min=1,dive"`
}

// MixCalcProductResponse is one product's computed split
type MixCalcProductResponse struct {
	ProductID          uuid.UUID       `json:"product_id"`
	ProductName        string          `json:"product_name"`
	PricePerKg         decimal.Decimal `json:"price_per_kg"`
	AllocatedPrice     decimal.Decimal `json:"allocated_price"`
	CalculatedQuantity decimal.Decimal `json:"calculated_quantity"`
}

// MixCalcResponse is the calculator result; each member still needs its own
// batch selection before the combo can be billed
type MixCalcResponse struct {
	Mode     string                   `json:"mode"`
	Input    decimal.Decimal          `json:"input"`
	Products []MixCalcProductResponse `json:"products"`
}

// PaymentReminderResponse represents a payment follow-up in API responses
type PaymentReminderResponse struct {
	ID              uuid.UUID       `json:"id"`
	DistributionID  uuid.UUID       `json:"distribution_id"`
	BillNo          string          `json:"bill_no"`
	CatererName     string          `json:"caterer_name"`
	BalanceDue      decimal.Decimal `json:"balance_due"`
	NextPaymentDate time.Time       `json:"next_payment_date"`
	ReminderDate    time.Time       `json:"reminder_date"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToPaymentReminderResponse converts a domain reminder to its response form
func ToPaymentReminderResponse(r *billing.PaymentReminder) PaymentReminderResponse {
	return PaymentReminderResponse{
		ID:              r.ID,
		DistributionID:  r.DistributionID,
		BillNo:          r.BillNo,
		CatererName:     r.CatererName,
		BalanceDue:      r.BalanceDue,
		NextPaymentDate: r.NextPaymentDate,
		ReminderDate:    r.ReminderDate,
		Status:          string(r.Status),
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
	}
}

// CreateReminderRequest opens a follow-up reminder for a bill that was
// submitted with the reminder sub-flow skipped
type CreateReminderRequest struct {
	DistributionID  uuid.UUID `json:"distribution_id" binding:"required"`
	NextPaymentDate time.Time `json:"next_payment_date" binding:"required"`
	ReminderDate    time.Time `json:"reminder_date" binding:"required"`
	Notes           string    `json:"notes" binding:"max=500"`
}

// NextReminderRequest rolls an open reminder forward to new dates
type NextReminderRequest struct {
	NextPaymentDate time.Time `json:"next_payment_date" binding:"required"`
	ReminderDate    time.Time `json:"reminder_date" binding:"required"`
	Notes           string    `json:"notes" binding:"max=500"`
}
