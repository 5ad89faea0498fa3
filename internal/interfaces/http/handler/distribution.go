package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/spicedepot/backend/internal/application/billing"
	"github.com/spicedepot/backend/internal/interfaces/http/dto"
)

// DistributionHandler handles caterer bill endpoints
type DistributionHandler struct {
	BaseHandler
	distributionService *billingapp.DistributionService
}

// NewDistributionHandler creates a new DistributionHandler
func NewDistributionHandler(distributionService *billingapp.DistributionService) *DistributionHandler {
	return &DistributionHandler{distributionService: distributionService}
}

// RegisterRoutes registers distribution routes
func (h *DistributionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	distributions := rg.Group("/distributions")
	{
		distributions.POST("", h.Create)
		distributions.GET("", h.List)
		distributions.GET("/:id", h.GetByID)
		distributions.GET("/by-bill/:billNo", h.GetByBillNo)
	}
	rg.POST("/mix-calculator", h.CalculateMix)
}

// Create submits a caterer bill. Submission is idempotent on the bill
// number: resubmitting an already-recorded bill returns the stored bill
// with a 200 instead of creating a second one.
func (h *DistributionHandler) Create(c *gin.Context) {
	var req billingapp.CreateDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.distributionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Duplicate {
		h.Success(c, result)
		return
	}
	h.Created(c, result)
}

// List returns bills with filtering and pagination
func (h *DistributionHandler) List(c *gin.Context) {
	var filter billingapp.DistributionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.distributionService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, dto.NewMeta(result.Page, result.PageSize, result.Total))
}

// GetByID returns a single bill with its line items and batch allocations
func (h *DistributionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid distribution ID format")
		return
	}

	distribution, err := h.distributionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, distribution)
}

// GetByBillNo returns a bill looked up by its bill number
func (h *DistributionHandler) GetByBillNo(c *gin.Context) {
	billNo := c.Param("billNo")
	if billNo == "" {
		h.BadRequest(c, "Bill number is required")
		return
	}

	distribution, err := h.distributionService.GetByBillNo(c.Request.Context(), billNo)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, distribution)
}

// CalculateMix splits a budget or target quantity evenly across the chosen
// products. The result is advisory; nothing is billed or reserved.
func (h *DistributionHandler) CalculateMix(c *gin.Context) {
	var req billingapp.MixCalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.distributionService.CalculateMix(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
