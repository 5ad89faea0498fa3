package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spicedepot/backend/internal/domain/catalog"
)

// ProductResponse represents a catalog product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	RatePerKg     decimal.Decimal `json:"rate_per_kg"`
	GSTPercentage decimal.Decimal `json:"gst_percentage"`
	Status        string          `json:"status"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product to its response form
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Unit:          p.Unit.String(),
		RatePerKg:     p.RatePerKg,
		GSTPercentage: p.GSTPercentage,
		Status:        string(p.Status),
		Description:   p.Description,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=100"`
	Category      string          `json:"category" binding:"max=100"`
	Unit          string          `json:"unit" binding:"required,unitcode"`
	RatePerKg     decimal.Decimal `json:"rate_per_kg" binding:"required"`
	GSTPercentage decimal.Decimal `json:"gst_percentage"`
	Description   string          `json:"description" binding:"max=500"`
}

// UpdateProductRequest represents a request to update a product. Nil fields
// are left unchanged.
type UpdateProductRequest struct {
	Category      *string          `json:"category" binding:"omitempty,max=100"`
	RatePerKg     *decimal.Decimal `json:"rate_per_kg"`
	GSTPercentage *decimal.Decimal `json:"gst_percentage"`
	Description   *string          `json:"description" binding:"omitempty,max=500"`
	Status        *string          `json:"status" binding:"omitempty,oneof=active inactive"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search     string `form:"search"`
	Category   string `form:"category"`
	ActiveOnly bool   `form:"active_only"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AveragePriceResponse is the cached weighted-average purchase price lookup
type AveragePriceResponse struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	AveragePrice decimal.Decimal `json:"average_price"`
	Unit         string          `json:"unit"`
	BatchCount   int             `json:"batch_count"`
	FromCache    bool            `json:"-"`
}
