package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/spicedepot/backend/internal/application/billing"
)

// ReminderHandler handles payment follow-up endpoints
type ReminderHandler struct {
	BaseHandler
	reminderService *billingapp.ReminderService
}

// NewReminderHandler creates a new ReminderHandler
func NewReminderHandler(reminderService *billingapp.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// RegisterRoutes registers payment reminder routes
func (h *ReminderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reminders := rg.Group("/payment-reminders")
	{
		reminders.GET("", h.List)
		reminders.POST("", h.Create)
		reminders.GET("/:id", h.GetByID)
		reminders.POST("/:id/next-reminder", h.NextReminder)
		reminders.POST("/:id/collect", h.MarkCollected)
		reminders.POST("/:id/cancel", h.Cancel)
	}
}

// List returns open reminders; with due=true only the ones whose reminder
// date has passed (as_of overrides the reference date, format 2006-01-02)
func (h *ReminderHandler) List(c *gin.Context) {
	if c.Query("due") == "true" {
		asOf := time.Now()
		if raw := c.Query("as_of"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				h.BadRequest(c, "Invalid as_of date, expected YYYY-MM-DD")
				return
			}
			asOf = parsed
		}
		reminders, err := h.reminderService.ListDue(c.Request.Context(), asOf)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, reminders)
		return
	}

	reminders, err := h.reminderService.ListOpen(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reminders)
}

// Create opens a follow-up reminder for a bill with an outstanding balance
func (h *ReminderHandler) Create(c *gin.Context) {
	var req billingapp.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	reminder, err := h.reminderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, reminder)
}

// GetByID returns a single reminder
func (h *ReminderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	reminder, err := h.reminderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reminder)
}

// NextReminder rolls an open reminder forward to new follow-up dates
func (h *ReminderHandler) NextReminder(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req billingapp.NextReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	reminder, err := h.reminderService.NextReminder(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reminder)
}

// MarkCollected closes a reminder after the balance was paid
func (h *ReminderHandler) MarkCollected(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	reminder, err := h.reminderService.MarkCollected(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reminder)
}

// Cancel closes a reminder without collection
func (h *ReminderHandler) Cancel(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	reminder, err := h.reminderService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reminder)
}

func (h *ReminderHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reminder ID format")
		return uuid.Nil, false
	}
	return id, true
}
