package dto

import "net/http"

// Standardized API error codes. Domain errors carry their own codes; the
// handler layer normalizes them to these before mapping to HTTP status.
const (
	// Generic errors
	ErrCodeInternal         = "ERR_INTERNAL"
	ErrCodeNotFound         = "ERR_NOT_FOUND"
	ErrCodeInvalidInput     = "ERR_INVALID_INPUT"
	ErrCodeAlreadyExists    = "ERR_ALREADY_EXISTS"
	ErrCodeValidationFailed = "ERR_VALIDATION_FAILED"
	ErrCodeConflict         = "ERR_CONFLICT"
	ErrCodeUnprocessable    = "ERR_UNPROCESSABLE"
	ErrCodeRequestTooLarge  = "ERR_REQUEST_TOO_LARGE"
	ErrCodeRateLimited      = "ERR_RATE_LIMITED"
	ErrCodeTimeout          = "ERR_TIMEOUT"

	// Catalog errors
	ErrCodeDuplicateProduct = "ERR_DUPLICATE_PRODUCT"
	ErrCodeProductInactive  = "ERR_PRODUCT_INACTIVE"

	// Inventory errors
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	ErrCodeIncompatibleUnits = "ERR_INCOMPATIBLE_UNITS"

	// Billing errors
	ErrCodeAllocationShortfall = "ERR_ALLOCATION_SHORTFALL"
	ErrCodeReminderPending     = "ERR_REMINDER_PENDING"
	ErrCodeMissingPaymentMode  = "ERR_MISSING_PAYMENT_MODE"
	ErrCodeNoItems             = "ERR_NO_ITEMS"
	ErrCodeUploadTimeout       = "ERR_UPLOAD_TIMEOUT"
	ErrCodeUnsupportedFileType = "ERR_UNSUPPORTED_FILE_TYPE"
)

// ErrorCodeHTTPStatus maps API error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:         http.StatusInternalServerError,
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeValidationFailed: http.StatusBadRequest,
	ErrCodeConflict:         http.StatusConflict,
	ErrCodeUnprocessable:    http.StatusUnprocessableEntity,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:      http.StatusTooManyRequests,
	ErrCodeTimeout:          http.StatusGatewayTimeout,

	ErrCodeDuplicateProduct: http.StatusConflict,
	ErrCodeProductInactive:  http.StatusUnprocessableEntity,

	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeIncompatibleUnits: http.StatusBadRequest,

	ErrCodeAllocationShortfall: http.StatusUnprocessableEntity,
	ErrCodeReminderPending:     http.StatusUnprocessableEntity,
	ErrCodeMissingPaymentMode:  http.StatusBadRequest,
	ErrCodeNoItems:             http.StatusBadRequest,
	ErrCodeUploadTimeout:       http.StatusGatewayTimeout,
	ErrCodeUnsupportedFileType: http.StatusBadRequest,
}

// domainCodeMapping translates domain error codes to API error codes
var domainCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ITEM_NOT_FOUND":       ErrCodeNotFound,
	"BATCH_NOT_FOUND":      ErrCodeNotFound,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"CONCURRENCY_CONFLICT": ErrCodeConflict,
	"REMINDER_CLOSED":      ErrCodeConflict,
	"REMINDER_EXISTS":      ErrCodeConflict,
	"DUPLICATE_PRODUCT":    ErrCodeDuplicateProduct,
	"PRODUCT_INACTIVE":     ErrCodeProductInactive,
	"INSUFFICIENT_STOCK":   ErrCodeInsufficientStock,
	"INCOMPATIBLE_UNITS":   ErrCodeIncompatibleUnits,
	"ALLOCATION_SHORTFALL": ErrCodeAllocationShortfall,
	"REMINDER_PENDING":     ErrCodeReminderPending,
	"MISSING_PAYMENT_MODE": ErrCodeMissingPaymentMode,
	"NO_ITEMS":             ErrCodeNoItems,
	"UPLOAD_TIMEOUT":       ErrCodeUploadTimeout,
	"INVALID_FILE":         ErrCodeInvalidInput,
	"INVALID_FILE_TYPE":    ErrCodeUnsupportedFileType,
	"INVALID_STATE":        ErrCodeUnprocessable,

	"INVALID_QUANTITY":     ErrCodeInvalidInput,
	"INVALID_RATE":         ErrCodeInvalidInput,
	"INVALID_GST":          ErrCodeInvalidInput,
	"INVALID_UNIT":         ErrCodeInvalidInput,
	"INVALID_PAYMENT_MODE": ErrCodeInvalidInput,
	"INVALID_AMOUNT":       ErrCodeInvalidInput,
	"INVALID_BALANCE":      ErrCodeInvalidInput,
	"INVALID_BATCH_NUMBER": ErrCodeInvalidInput,
	"INVALID_CATERER":      ErrCodeInvalidInput,
	"INVALID_CATERER_NAME": ErrCodeInvalidInput,
	"INVALID_COMBO":        ErrCodeInvalidInput,
	"INVALID_COMBO_NAME":   ErrCodeInvalidInput,
	"INVALID_DISTRIBUTION": ErrCodeInvalidInput,
	"INVALID_KEY":          ErrCodeInvalidInput,
	"INVALID_MIX":          ErrCodeInvalidInput,
	"INVALID_MIX_INPUT":    ErrCodeInvalidInput,
	"INVALID_MIX_MODE":     ErrCodeInvalidInput,
	"INVALID_PRICE":        ErrCodeInvalidInput,
	"INVALID_PRODUCT":      ErrCodeInvalidInput,
	"INVALID_PRODUCT_NAME": ErrCodeInvalidInput,
	"INVALID_REMINDER":     ErrCodeInvalidInput,
	"INVALID_STATUS":       ErrCodeInvalidInput,
}

// NormalizeErrorCode maps a domain error code to a standardized API code.
// Unknown codes pass through unchanged so callers still see something useful.
func NormalizeErrorCode(code string) string {
	if normalized, ok := domainCodeMapping[code]; ok {
		return normalized
	}
	return code
}

// GetHTTPStatus returns the HTTP status for an API error code,
// defaulting to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
