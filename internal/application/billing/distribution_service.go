package billing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spicedepot/backend/internal/domain/billing"
	"github.com/spicedepot/backend/internal/domain/catalog"
	"github.com/spicedepot/backend/internal/domain/inventory"
	"github.com/spicedepot/backend/internal/domain/shared"
	"github.com/spicedepot/backend/internal/domain/shared/valueobject"
)

// idempotencyKeyPrefix namespaces bill submission keys in the shared store
const idempotencyKeyPrefix = "bill:"

// DistributionService handles bill creation and lookup. Creation is
// idempotent on the bill number and is followed by a best-effort concurrent
// inventory reconciliation: batch decrements that fail are reported, never
// rolled back.
type DistributionService struct {
	distributionRepo billing.DistributionRepository
	reminderRepo     billing.PaymentReminderRepository
	productRepo      catalog.ProductRepository
	batchRepo        inventory.BatchRepository
	idempotency      shared.IdempotencyStore
	idempotencyCfg   shared.IdempotencyConfig
	logger           *zap.Logger
}

// NewDistributionService creates a new DistributionService
func NewDistributionService(
	distributionRepo billing.DistributionRepository,
	reminderRepo billing.PaymentReminderRepository,
	productRepo catalog.ProductRepository,
	batchRepo inventory.BatchRepository,
	idempotency shared.IdempotencyStore,
	logger *zap.Logger,
) *DistributionService {
	return &DistributionService{
		distributionRepo: distributionRepo,
		reminderRepo:     reminderRepo,
		productRepo:      productRepo,
		batchRepo:        batchRepo,
		idempotency:      idempotency,
		idempotencyCfg:   shared.DefaultIdempotencyConfig(),
		logger:           logger,
	}
}

// SetIdempotencyConfig overrides the idempotency settings
func (s *DistributionService) SetIdempotencyConfig(cfg shared.IdempotencyConfig) {
	s.idempotencyCfg = cfg
}

// Create submits a bill. Resubmitting an already-stored bill number returns
// the existing record flagged as a duplicate instead of creating another.
func (s *DistributionService) Create(ctx context.Context, req CreateDistributionRequest) (*DistributionResponse, error) {
	billNo := req.BillNo
	if billNo == "" {
		billNo = billing.GenerateBillNumber(time.Now())
	}

	if existing, err := s.findDuplicate(ctx, billNo); err != nil {
		return nil, err
	} else if existing != nil {
		s.logger.Info("duplicate bill submission ignored", zap.String("bill_no", billNo))
		response := ToDistributionResponse(existing)
		response.Duplicate = true
		return &response, nil
	}

	distributionDate := time.Now()
	if req.DistributionDate != nil {
		distributionDate = *req.DistributionDate
	}

	distribution, err := billing.NewDistribution(billNo, req.CatererID, req.CatererName, distributionDate)
	if err != nil {
		return nil, err
	}

	for i := range req.Items {
		if err := s.addLine(ctx, distribution, &req.Items[i]); err != nil {
			return nil, err
		}
	}

	if err := distribution.ApplyPaymentMode(billing.PaymentMode(req.PaymentMode), req.CustomAmount); err != nil {
		return nil, err
	}

	if req.Reminder != nil {
		if err := distribution.ScheduleReminder(req.Reminder.NextPaymentDate, req.Reminder.ReminderDate); err != nil {
			return nil, err
		}
	} else if req.SkipReminder {
		distribution.SkipReminder()
	}

	if req.Notes != "" {
		distribution.SetNotes(req.Notes)
	}
	if req.ReceiptImage != "" {
		distribution.SetReceiptImage(req.ReceiptImage)
	}

	if shortfalls := distribution.AllocationShortfalls(); len(shortfalls) > 0 && !req.AllowShortfall {
		first := shortfalls[0]
		return nil, shared.NewDomainError("ALLOCATION_SHORTFALL",
			fmt.Sprintf("Allocated %s of %s for %s; resubmit with allow_shortfall to bill anyway",
				first.Allocated.String(), first.Required.String(), first.ItemName))
	}

	if err := distribution.Validate(); err != nil {
		return nil, err
	}

	if err := s.distributionRepo.Save(ctx, distribution); err != nil {
		return nil, err
	}

	if s.idempotency != nil {
		if _, markErr := s.idempotency.MarkProcessed(ctx, idempotencyKeyPrefix+billNo, s.idempotencyCfg.TTL); markErr != nil {
			s.logger.Warn("idempotency mark failed", zap.String("bill_no", billNo), zap.Error(markErr))
		}
	}

	s.createReminderRecord(ctx, distribution)

	outcomes := s.reconcileInventory(ctx, distribution)

	response := ToDistributionResponse(distribution)
	response.Reconciliation = outcomes
	return &response, nil
}

// findDuplicate checks the idempotency store and the repository for an
// already-stored bill with this number
func (s *DistributionService) findDuplicate(ctx context.Context, billNo string) (*billing.Distribution, error) {
	if s.idempotency != nil && s.idempotencyCfg.Enabled {
		processed, err := s.idempotency.IsProcessed(ctx, idempotencyKeyPrefix+billNo)
		if err != nil {
			s.logger.Warn("idempotency check failed, falling back to repository",
				zap.String("bill_no", billNo), zap.Error(err))
		} else if processed {
			existing, err := s.distributionRepo.FindByBillNo(ctx, billNo)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			if existing != nil {
				return existing, nil
			}
		}
	}

	existing, err := s.distributionRepo.FindByBillNo(ctx, billNo)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return existing, nil
}

// addLine resolves one line request against the catalog, builds the line
// item, and validates its batch allocations
func (s *DistributionService) addLine(ctx context.Context, d *billing.Distribution, req *LineItemRequest) error {
	if req.Kind == "combo" {
		return s.addComboLine(ctx, d, req)
	}
	return s.addRegularLine(ctx, d, req)
}

func (s *DistributionService) addRegularLine(ctx context.Context, d *billing.Distribution, req *LineItemRequest) error {
	if req.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Regular lines require a product ID")
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return err
	}
	if !product.IsActive() {
		return shared.NewDomainError("PRODUCT_INACTIVE", "Product is not available for billing: "+product.Name)
	}

	unit := product.Unit
	if req.Unit != "" {
		parsed, ok := valueobject.ParseUnit(req.Unit)
		if !ok {
			return shared.NewDomainError("INVALID_UNIT", "Unknown unit code: "+req.Unit)
		}
		unit = parsed
	}
	rate := product.RatePerKg
	if req.Rate != nil {
		rate = *req.Rate
	}
	gst := product.GSTPercentage
	if req.GST != nil {
		gst = *req.GST
	}

	item, err := billing.NewLineItem(product.ID, product.Name, req.Quantity, unit, rate, gst)
	if err != nil {
		return err
	}

	allocations, err := s.resolveAllocations(ctx, product.ID, req.Quantity, unit, req.Allocations)
	if err != nil {
		return err
	}

	d.AddItem(*item)
	d.SetAllocations(item.AllocationKey(), allocations)
	return nil
}

func (s *DistributionService) addComboLine(ctx context.Context, d *billing.Distribution, req *LineItemRequest) error {
	if req.ComboName == "" {
		return shared.NewDomainError("INVALID_COMBO_NAME", "Combo lines require a combo name")
	}
	if len(req.Members) == 0 {
		return shared.NewDomainError("INVALID_COMBO", "Combo lines require at least one member product")
	}

	members := make([]billing.ComboMember, 0, len(req.Members))
	allocations := make([]billing.ItemAllocation, 0)
	for _, m := range req.Members {
		product, err := s.productRepo.FindByID(ctx, m.ProductID)
		if err != nil {
			return err
		}
		if !product.IsActive() {
			return shared.NewDomainError("PRODUCT_INACTIVE", "Product is not available for billing: "+product.Name)
		}

		members = append(members, billing.ComboMember{
			ProductID:   product.ID,
			ProductName: product.Name,
			PricePerKg:  product.RatePerKg,
			Quantity:    m.Quantity,
			Amount:      m.Amount,
		})

		memberAllocs, err := s.resolveAllocations(ctx, product.ID, m.Quantity, valueobject.UnitKG, m.Allocations)
		if err != nil {
			return err
		}
		allocations = append(allocations, memberAllocs...)
	}

	gst := decimal.Zero
	if req.GST != nil {
		gst = *req.GST
	}

	item, err := billing.NewComboLineItem(req.ComboName, members, gst)
	if err != nil {
		return err
	}

	d.AddItem(*item)
	d.SetAllocations(item.AllocationKey(), allocations)
	return nil
}

// resolveAllocations validates requested batch allocations against the
// product's eligible stock. Per-batch quantities clamp to availability; the
// line total is a soft target and may stay under-allocated.
func (s *DistributionService) resolveAllocations(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal, unit valueobject.Unit, requests []BatchAllocationRequest) ([]billing.ItemAllocation, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	candidates, err := s.batchRepo.FindEligibleByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	selection, err := inventory.NewSelection(quantity, unit, candidates)
	if err != nil {
		return nil, err
	}
	for _, r := range requests {
		if _, err := selection.SetQuantity(r.BatchID, r.Quantity); err != nil {
			return nil, err
		}
	}

	allocations := make([]billing.ItemAllocation, 0, len(requests))
	for _, a := range selection.Allocations() {
		allocations = append(allocations, billing.ItemAllocation{
			BatchID:     a.BatchID,
			BatchNumber: a.BatchNumber,
			Quantity:    a.Quantity,
			Unit:        unit,
		})
	}
	return allocations, nil
}

// createReminderRecord persists the payment follow-up for bills that
// scheduled one. A failed write only logs; the bill itself is already saved.
func (s *DistributionService) createReminderRecord(ctx context.Context, d *billing.Distribution) {
	if d.NextPaymentDate == nil || d.ReminderDate == nil {
		return
	}
	if !d.PaymentMode.RequiresReminder(d.Totals.BalanceDue) {
		return
	}

	reminder, err := billing.NewPaymentReminder(d.ID, d.BillNo, d.CatererName, d.Totals.BalanceDue, *d.NextPaymentDate, *d.ReminderDate)
	if err != nil {
		s.logger.Warn("reminder creation skipped", zap.String("bill_no", d.BillNo), zap.Error(err))
		return
	}
	if err := s.reminderRepo.Save(ctx, reminder); err != nil {
		s.logger.Error("reminder save failed", zap.String("bill_no", d.BillNo), zap.Error(err))
	}
}

// reconcileInventory decrements the allocated batches concurrently after the
// bill is stored. Each decrement is independent; a failure or clamp is
// reported in the outcome and logged, and nothing is rolled back.
func (s *DistributionService) reconcileInventory(ctx context.Context, d *billing.Distribution) []ReconciliationOutcome {
	if len(d.Allocations) == 0 {
		return nil
	}

	outcomes := make([]ReconciliationOutcome, len(d.Allocations))
	var wg sync.WaitGroup
	for i, alloc := range d.Allocations {
		wg.Add(1)
		go func(i int, alloc billing.ItemAllocation) {
			defer wg.Done()
			outcomes[i] = s.deductBatch(ctx, alloc)
		}(i, alloc)
	}
	wg.Wait()

	for _, o := range outcomes {
		if !o.Succeeded {
			s.logger.Warn("inventory reconciliation incomplete",
				zap.String("bill_no", d.BillNo),
				zap.String("batch_id", o.BatchID.String()),
				zap.String("requested", o.Requested.String()),
				zap.String("error", o.Error))
		}
	}
	return outcomes
}

func (s *DistributionService) deductBatch(ctx context.Context, alloc billing.ItemAllocation) ReconciliationOutcome {
	outcome := ReconciliationOutcome{BatchID: alloc.BatchID, Requested: alloc.Quantity}

	batch, err := s.batchRepo.FindByID(ctx, alloc.BatchID)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	deducted, err := batch.Deduct(valueobject.Convert(alloc.Quantity, alloc.Unit, batch.Unit))
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}
	if err := s.batchRepo.Save(ctx, batch); err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Deducted = valueobject.Convert(deducted, batch.Unit, alloc.Unit)
	outcome.Succeeded = true
	return outcome
}

// GetByID retrieves a bill by ID
func (s *DistributionService) GetByID(ctx context.Context, id uuid.UUID) (*DistributionResponse, error) {
	distribution, err := s.distributionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToDistributionResponse(distribution)
	return &response, nil
}

// GetByBillNo retrieves a bill by its bill number
func (s *DistributionService) GetByBillNo(ctx context.Context, billNo string) (*DistributionResponse, error) {
	distribution, err := s.distributionRepo.FindByBillNo(ctx, billNo)
	if err != nil {
		return nil, err
	}
	response := ToDistributionResponse(distribution)
	return &response, nil
}

// List retrieves bills with filtering and pagination
func (s *DistributionService) List(ctx context.Context, filter DistributionListFilter) (*shared.Paginated[DistributionResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Caterer != nil {
		domainFilter.Filters["caterer_id"] = *filter.Caterer
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.From != nil {
		domainFilter.Filters["from"] = *filter.From
	}
	if filter.To != nil {
		domainFilter.Filters["to"] = *filter.To
	}

	page, err := s.distributionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]DistributionResponse, 0, len(page.Items))
	for _, d := range page.Items {
		items = append(items, ToDistributionResponse(d))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// CalculateMix runs the mix calculator against catalog prices
func (s *DistributionService) CalculateMix(ctx context.Context, req MixCalcRequest) (*MixCalcResponse, error) {
	products := make([]billing.MixProduct, 0, len(req.Products))
	for _, p := range req.Products {
		product, err := s.productRepo.FindByID(ctx, p.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive() {
			return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product is not available for billing: "+product.Name)
		}
		products = append(products, billing.MixProduct{
			ProductID:  product.ID,
			Name:       product.Name,
			PricePerKg: product.RatePerKg,
		})
	}

	result, err := billing.SplitMix(billing.MixMode(req.Mode), req.Input, products)
	if err != nil {
		return nil, err
	}

	responses := make([]MixCalcProductResponse, 0, len(result))
	for _, p := range result {
		responses = append(responses, MixCalcProductResponse{
			ProductID:          p.ProductID,
			ProductName:        p.Name,
			PricePerKg:         p.PricePerKg,
			AllocatedPrice:     p.AllocatedPrice,
			CalculatedQuantity: p.CalculatedQuantity,
		})
	}

	return &MixCalcResponse{
		Mode:     req.Mode,
		Input:    req.Input,
		Products: responses,
	}, nil
}
