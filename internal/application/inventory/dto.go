package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spicedepot/backend/internal/domain/inventory"
)

// BatchResponse represents an inventory batch in API responses
type BatchResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	Status      string          `json:"status"`
	Expired     bool            `json:"expired"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToBatchResponse converts a domain batch to its response form
func ToBatchResponse(b *inventory.InventoryBatch) BatchResponse {
	return BatchResponse{
		ID:          b.ID,
		ProductID:   b.ProductID,
		BatchNumber: b.BatchNumber,
		Quantity:    b.Quantity,
		Unit:        b.Unit.String(),
		UnitPrice:   b.UnitPrice,
		ExpiryDate:  b.ExpiryDate,
		Status:      b.Status.String(),
		Expired:     b.IsExpired(),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// AdjustQuantityRequest represents a manual stock correction on one batch
type AdjustQuantityRequest struct {
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	IsAddition bool            `json:"is_addition"`
	Reason     string          `json:"reason" binding:"max=255"`
}

// AdjustQuantityResponse reports the applied change; deductions larger than
// the batch clamp to what was available
type AdjustQuantityResponse struct {
	Batch   BatchResponse   `json:"batch"`
	Applied decimal.Decimal `json:"applied"`
	Clamped bool            `json:"clamped"`
}

// PurchaseItemRequest is one line of a supplier purchase
type PurchaseItemRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	BatchNumber string          `json:"batch_number" binding:"required,max=50"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Unit        string          `json:"unit" binding:"required,unitcode"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
}

// RecordPurchaseRequest represents a supplier purchase; each item becomes a
// new inventory batch
type RecordPurchaseRequest struct {
	SupplierName string                `json:"supplier_name" binding:"required,max=100"`
	InvoiceNo    string                `json:"invoice_no" binding:"max=50"`
	PurchaseDate *time.Time            `json:"purchase_date"`
	Items        []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
}

// RecordPurchaseResponse lists the batches created by a purchase
type RecordPurchaseResponse struct {
	SupplierName string          `json:"supplier_name"`
	InvoiceNo    string          `json:"invoice_no,omitempty"`
	Batches      []BatchResponse `json:"batches"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// SelectionPreviewRequest asks for a FEFO allocation preview for a required
// quantity without touching stock
type SelectionPreviewRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Unit     string          `json:"unit" binding:"required,unitcode"`
}

// SelectionBatchView is one candidate batch with availability converted into
// the requested unit
type SelectionBatchView struct {
	BatchID     uuid.UUID       `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	Available   decimal.Decimal `json:"available"`
	Allocated   decimal.Decimal `json:"allocated"`
	Unit        string          `json:"unit"`
	Expired     bool            `json:"expired"`
}

// SelectionPreviewResponse is the auto-allocated FEFO plan for a requirement
type SelectionPreviewResponse struct {
	RequiredQuantity decimal.Decimal      `json:"required_quantity"`
	Unit             string               `json:"unit"`
	TotalAllocated   decimal.Decimal      `json:"total_allocated"`
	Remaining        decimal.Decimal      `json:"remaining"`
	Status           string               `json:"status"`
	Batches          []SelectionBatchView `json:"batches"`
}
