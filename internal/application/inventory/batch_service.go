package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spicedepot/backend/internal/domain/catalog"
	"github.com/spicedepot/backend/internal/domain/inventory"
	"github.com/spicedepot/backend/internal/domain/shared"
	"github.com/spicedepot/backend/internal/domain/shared/valueobject"
)

// BatchService handles inventory batch operations
type BatchService struct {
	batchRepo   inventory.BatchRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewBatchService creates a new BatchService
func NewBatchService(batchRepo inventory.BatchRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *BatchService {
	return &BatchService{
		batchRepo:   batchRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetByID retrieves a single batch
func (s *BatchService) GetByID(ctx context.Context, id uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBatchResponse(batch)
	return &response, nil
}

// ListByProduct returns a product's batches in FEFO order. With eligibleOnly
// set, depleted and inactive batches are excluded.
func (s *BatchService) ListByProduct(ctx context.Context, productID uuid.UUID, eligibleOnly bool) ([]BatchResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	var batches []inventory.InventoryBatch
	var err error
	if eligibleOnly {
		batches, err = s.batchRepo.FindEligibleByProduct(ctx, productID)
	} else {
		batches, err = s.batchRepo.FindByProduct(ctx, productID)
	}
	if err != nil {
		return nil, err
	}

	inventory.SortFEFO(batches)

	responses := make([]BatchResponse, 0, len(batches))
	for i := range batches {
		responses = append(responses, ToBatchResponse(&batches[i]))
	}
	return responses, nil
}

// AdjustQuantity applies a manual stock correction to one batch. Deductions
// clamp to the available quantity; the response reports what was applied.
func (s *BatchService) AdjustQuantity(ctx context.Context, batchID uuid.UUID, req AdjustQuantityRequest) (*AdjustQuantityResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	applied, err := batch.Adjust(req.Quantity, req.IsAddition)
	if err != nil {
		return nil, err
	}

	if err := s.batchRepo.Save(ctx, batch); err != nil {
		return nil, err
	}

	s.logger.Info("batch quantity adjusted",
		zap.String("batch_id", batchID.String()),
		zap.String("batch_number", batch.BatchNumber),
		zap.Bool("is_addition", req.IsAddition),
		zap.String("requested", req.Quantity.String()),
		zap.String("applied", applied.String()),
		zap.String("reason", req.Reason))

	response := ToBatchResponse(batch)
	return &AdjustQuantityResponse{
		Batch:   response,
		Applied: applied,
		Clamped: !req.IsAddition && applied.LessThan(req.Quantity),
	}, nil
}

// RecordPurchase books a supplier purchase: every item becomes a new batch.
// All products are validated before any batch is written.
func (s *BatchService) RecordPurchase(ctx context.Context, req RecordPurchaseRequest) (*RecordPurchaseResponse, error) {
	prepared := make([]*inventory.InventoryBatch, 0, len(req.Items))
	for _, item := range req.Items {
		if _, err := s.productRepo.FindByID(ctx, item.ProductID); err != nil {
			return nil, err
		}
		unit, ok := valueobject.ParseUnit(item.Unit)
		if !ok {
			return nil, shared.NewDomainError("INVALID_UNIT", "Unknown unit code: "+item.Unit)
		}
		batch, err := inventory.NewInventoryBatch(item.ProductID, item.BatchNumber, item.Quantity, unit, item.UnitPrice, item.ExpiryDate)
		if err != nil {
			return nil, err
		}
		prepared = append(prepared, batch)
	}

	totalValue := decimal.Zero
	responses := make([]BatchResponse, 0, len(prepared))
	for _, batch := range prepared {
		if err := s.batchRepo.Save(ctx, batch); err != nil {
			return nil, err
		}
		totalValue = totalValue.Add(batch.TotalValue())
		responses = append(responses, ToBatchResponse(batch))
	}

	s.logger.Info("supplier purchase recorded",
		zap.String("supplier", req.SupplierName),
		zap.String("invoice_no", req.InvoiceNo),
		zap.Int("batches", len(responses)),
		zap.String("total_value", totalValue.String()))

	return &RecordPurchaseResponse{
		SupplierName: req.SupplierName,
		InvoiceNo:    req.InvoiceNo,
		Batches:      responses,
		TotalValue:   totalValue,
	}, nil
}

// PreviewSelection runs the FEFO auto-allocation for a required quantity
// against a product's eligible batches without modifying stock
func (s *BatchService) PreviewSelection(ctx context.Context, productID uuid.UUID, req SelectionPreviewRequest) (*SelectionPreviewResponse, error) {
	unit, ok := valueobject.ParseUnit(req.Unit)
	if !ok {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unknown unit code: "+req.Unit)
	}

	batches, err := s.batchRepo.FindEligibleByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	selection, err := inventory.NewSelection(req.Quantity, unit, batches)
	if err != nil {
		return nil, err
	}
	selection.AutoAllocate()

	status, _ := selection.Status()

	views := make([]SelectionBatchView, 0)
	for _, v := range selection.Batches() {
		views = append(views, SelectionBatchView{
			BatchID:     v.BatchID,
			BatchNumber: v.BatchNumber,
			Available:   v.Available,
			Allocated:   v.Allocated,
			Unit:        v.Unit.String(),
			Expired:     v.Expired,
		})
	}

	return &SelectionPreviewResponse{
		RequiredQuantity: req.Quantity,
		Unit:             unit.String(),
		TotalAllocated:   selection.TotalAllocated(),
		Remaining:        selection.Remaining(),
		Status:           string(status),
		Batches:          views,
	}, nil
}

// Deactivate removes a batch from future selection without touching quantity
func (s *BatchService) Deactivate(ctx context.Context, batchID uuid.UUID) error {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return err
	}
	batch.Deactivate()
	return s.batchRepo.Save(ctx, batch)
}
