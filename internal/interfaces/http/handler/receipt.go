package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/spicedepot/backend/internal/application/billing"
)

// ReceiptHandler handles receipt image upload and retrieval
type ReceiptHandler struct {
	BaseHandler
	receiptService *billingapp.ReceiptService
	maxFileSize    int64
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *billingapp.ReceiptService, maxFileSize int64) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService, maxFileSize: maxFileSize}
}

// RegisterRoutes registers receipt routes
func (h *ReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receipts := rg.Group("/receipts")
	{
		receipts.POST("/upload", h.Upload)
		receipts.GET("/download-url", h.DownloadURL)
	}
}

// Upload stores a receipt image. The multipart form takes a "file" part and
// an optional "distribution_id" field to attach the receipt to a bill.
func (h *ReceiptHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Receipt file is required")
		return
	}
	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		h.BadRequest(c, "Receipt file exceeds the maximum allowed size")
		return
	}

	var distributionID *uuid.UUID
	if raw := c.PostForm("distribution_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid distribution ID format")
			return
		}
		distributionID = &id
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	result, err := h.receiptService.Upload(c.Request.Context(), distributionID, fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// DownloadURL returns a time-limited download link for a stored receipt
func (h *ReceiptHandler) DownloadURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		h.BadRequest(c, "Storage key is required")
		return
	}

	expiresIn := 15 * time.Minute
	if raw := c.Query("expires_in"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			h.BadRequest(c, "Invalid expires_in duration")
			return
		}
		expiresIn = parsed
	}

	url, expiresAt, err := h.receiptService.DownloadURL(c.Request.Context(), key, expiresIn)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"url":        url,
		"expires_at": expiresAt,
	})
}
