package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/spicedepot/backend/internal/application/inventory"
)

// InventoryHandler handles batch inventory and supplier purchase endpoints
type InventoryHandler struct {
	BaseHandler
	batchService *inventoryapp.BatchService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(batchService *inventoryapp.BatchService) *InventoryHandler {
	return &InventoryHandler{batchService: batchService}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inventory := rg.Group("/inventory")
	{
		inventory.GET("/by-product/:productId", h.ListByProduct)
		inventory.POST("/by-product/:productId/selection-preview", h.PreviewSelection)
		inventory.GET("/:id", h.GetByID)
		inventory.POST("/:id/quantity", h.AdjustQuantity)
		inventory.DELETE("/:id", h.Deactivate)
	}
	rg.POST("/purchases", h.RecordPurchase)
}

// ListByProduct returns a product's batches in first-expiry-first-out order.
// With eligible_only=true only active batches with stock remaining are
// returned; expired batches stay listed until deactivated.
func (h *InventoryHandler) ListByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	eligibleOnly := c.Query("eligible_only") == "true"

	batches, err := h.batchService.ListByProduct(c.Request.Context(), productID, eligibleOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batches)
}

// PreviewSelection returns the FEFO allocation plan for a required quantity
// without modifying stock
func (h *InventoryHandler) PreviewSelection(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req inventoryapp.SelectionPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	preview, err := h.batchService.PreviewSelection(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// GetByID returns a single batch
func (h *InventoryHandler) GetByID(c *gin.Context) {
	id, ok := h.parseBatchID(c)
	if !ok {
		return
	}

	batch, err := h.batchService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// AdjustQuantity applies a manual stock correction to one batch. Deductions
// larger than the remaining quantity clamp to zero and are reported as such.
func (h *InventoryHandler) AdjustQuantity(c *gin.Context) {
	id, ok := h.parseBatchID(c)
	if !ok {
		return
	}

	var req inventoryapp.AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.batchService.AdjustQuantity(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Deactivate removes a batch from the eligible pool
func (h *InventoryHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseBatchID(c)
	if !ok {
		return
	}

	if err := h.batchService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RecordPurchase records a supplier purchase; every line becomes a new
// inventory batch
func (h *InventoryHandler) RecordPurchase(c *gin.Context) {
	var req inventoryapp.RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.batchService.RecordPurchase(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

func (h *InventoryHandler) parseBatchID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return uuid.Nil, false
	}
	return id, true
}
