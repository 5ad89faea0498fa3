package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spicedepot/backend/internal/domain/billing"
	"github.com/spicedepot/backend/internal/domain/shared/valueobject"
)

// DistributionModel is the persistence model for caterer bills. Line items
// and batch allocations live in child tables loaded with the aggregate.
type DistributionModel struct {
	AggregateModel
	BillNo           string                   `gorm:"size:30;not null;uniqueIndex"`
	CatererID        uuid.UUID                `gorm:"type:uuid;not null;index"`
	CatererName      string                   `gorm:"size:100;not null"`
	DistributionDate time.Time                `gorm:"not null;index"`
	TotalAmount      decimal.Decimal          `gorm:"type:decimal(14,2);not null"`
	TotalGSTAmount   decimal.Decimal          `gorm:"type:decimal(14,2);not null"`
	GrandTotal       decimal.Decimal          `gorm:"type:decimal(14,2);not null"`
	AmountPaid       decimal.Decimal          `gorm:"type:decimal(14,2);not null"`
	CustomAmount     decimal.Decimal          `gorm:"type:decimal(14,2);not null"`
	BalanceDue       decimal.Decimal          `gorm:"type:decimal(14,2);not null"`
	PaymentMode      string                   `gorm:"size:10;not null"`
	Status           string                   `gorm:"size:10;not null;index"`
	Notes            string                   `gorm:"size:500"`
	ReceiptImage     string                   `gorm:"size:255"`
	NextPaymentDate  *time.Time
	ReminderDate     *time.Time
	ReminderSkipped  bool                  `gorm:"not null;default:false"`
	Items            []LineItemModel       `gorm:"foreignKey:DistributionID;constraint:OnDelete:CASCADE"`
	Allocations      []ItemAllocationModel `gorm:"foreignKey:DistributionID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (DistributionModel) TableName() string {
	return "distributions"
}

// LineItemModel is the persistence model for billed lines. Combo members are
// stored as a JSON column; they are a snapshot, never queried relationally.
type LineItemModel struct {
	ID             uuid.UUID             `gorm:"type:uuid;primary_key"`
	DistributionID uuid.UUID             `gorm:"type:uuid;not null;index"`
	Position       int                   `gorm:"not null"`
	Kind           string                `gorm:"size:10;not null"`
	ProductID      uuid.UUID             `gorm:"type:uuid;index"`
	ProductName    string                `gorm:"size:100;not null"`
	Quantity       decimal.Decimal       `gorm:"type:decimal(14,3);not null"`
	Unit           string                `gorm:"size:10;not null"`
	Rate           decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	GSTPercentage  decimal.Decimal       `gorm:"type:decimal(5,2);not null"`
	Amount         decimal.Decimal       `gorm:"type:decimal(14,2);not null"`
	GSTAmount      decimal.Decimal       `gorm:"type:decimal(14,2);not null"`
	Members        []billing.ComboMember `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (LineItemModel) TableName() string {
	return "distribution_items"
}

// ItemAllocationModel is the persistence model for batch allocations
type ItemAllocationModel struct {
	ID             uint            `gorm:"primaryKey;autoIncrement"`
	DistributionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Key            string          `gorm:"size:100;not null;index"`
	BatchID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber    string          `gorm:"size:50;not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	Unit           string          `gorm:"size:10;not null"`
}

// TableName returns the table name for GORM
func (ItemAllocationModel) TableName() string {
	return "distribution_allocations"
}

// ToDomain converts the model and its children to a domain distribution
func (m *DistributionModel) ToDomain() *billing.Distribution {
	items := make([]billing.LineItem, 0, len(m.Items))
	for i := range m.Items {
		items = append(items, m.Items[i].toDomain())
	}

	allocations := make([]billing.ItemAllocation, 0, len(m.Allocations))
	for _, a := range m.Allocations {
		allocations = append(allocations, billing.ItemAllocation{
			Key:         a.Key,
			BatchID:     a.BatchID,
			BatchNumber: a.BatchNumber,
			Quantity:    a.Quantity,
			Unit:        valueobject.Unit(a.Unit),
		})
	}

	return &billing.Distribution{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BillNo:            m.BillNo,
		CatererID:         m.CatererID,
		CatererName:       m.CatererName,
		DistributionDate:  m.DistributionDate,
		Items:             items,
		Allocations:       allocations,
		Totals: billing.BillTotals{
			TotalAmount:    m.TotalAmount,
			TotalGSTAmount: m.TotalGSTAmount,
			GrandTotal:     m.GrandTotal,
			BalanceDue:     m.BalanceDue,
		},
		AmountPaid:      m.AmountPaid,
		CustomAmount:    m.CustomAmount,
		PaymentMode:     billing.PaymentMode(m.PaymentMode),
		Status:          billing.DistributionStatus(m.Status),
		Notes:           m.Notes,
		ReceiptImage:    m.ReceiptImage,
		NextPaymentDate: m.NextPaymentDate,
		ReminderDate:    m.ReminderDate,
		ReminderSkipped: m.ReminderSkipped,
	}
}

func (m *LineItemModel) toDomain() billing.LineItem {
	return billing.LineItem{
		ID:            m.ID,
		Kind:          billing.LineItemKind(m.Kind),
		ProductID:     m.ProductID,
		ProductName:   m.ProductName,
		Quantity:      m.Quantity,
		Unit:          valueobject.Unit(m.Unit),
		Rate:          m.Rate,
		GSTPercentage: m.GSTPercentage,
		Amount:        m.Amount,
		GSTAmount:     m.GSTAmount,
		Members:       m.Members,
	}
}

// DistributionModelFromDomain converts a domain distribution to its
// persistence model with children
func DistributionModelFromDomain(d *billing.Distribution) *DistributionModel {
	m := &DistributionModel{
		BillNo:           d.BillNo,
		CatererID:        d.CatererID,
		CatererName:      d.CatererName,
		DistributionDate: d.DistributionDate,
		TotalAmount:      d.Totals.TotalAmount,
		TotalGSTAmount:   d.Totals.TotalGSTAmount,
		GrandTotal:       d.Totals.GrandTotal,
		AmountPaid:       d.AmountPaid,
		CustomAmount:     d.CustomAmount,
		BalanceDue:       d.Totals.BalanceDue,
		PaymentMode:      d.PaymentMode.String(),
		Status:           string(d.Status),
		Notes:            d.Notes,
		ReceiptImage:     d.ReceiptImage,
		NextPaymentDate:  d.NextPaymentDate,
		ReminderDate:     d.ReminderDate,
		ReminderSkipped:  d.ReminderSkipped,
	}
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)

	for i := range d.Items {
		item := &d.Items[i]
		m.Items = append(m.Items, LineItemModel{
			ID:             item.ID,
			DistributionID: d.ID,
			Position:       i,
			Kind:           string(item.Kind),
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			Unit:           item.Unit.String(),
			Rate:           item.Rate,
			GSTPercentage:  item.GSTPercentage,
			Amount:         item.Amount,
			GSTAmount:      item.GSTAmount,
			Members:        item.Members,
		})
	}

	for _, a := range d.Allocations {
		m.Allocations = append(m.Allocations, ItemAllocationModel{
			DistributionID: d.ID,
			Key:            a.Key,
			BatchID:        a.BatchID,
			BatchNumber:    a.BatchNumber,
			Quantity:       a.Quantity,
			Unit:           a.Unit.String(),
		})
	}

	return m
}

// PaymentReminderModel is the persistence model for payment follow-ups
type PaymentReminderModel struct {
	BaseModel
	DistributionID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	BillNo          string          `gorm:"size:30;not null;index"`
	CatererName     string          `gorm:"size:100;not null"`
	BalanceDue      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	NextPaymentDate time.Time       `gorm:"not null"`
	ReminderDate    time.Time       `gorm:"not null;index"`
	Status          string          `gorm:"size:20;not null;index"`
	Notes           string          `gorm:"size:500"`
}

// TableName returns the table name for GORM
func (PaymentReminderModel) TableName() string {
	return "payment_reminders"
}

// ToDomain converts the model to a domain reminder
func (m *PaymentReminderModel) ToDomain() *billing.PaymentReminder {
	return &billing.PaymentReminder{
		BaseEntity:      m.BaseModel.ToDomain(),
		DistributionID:  m.DistributionID,
		BillNo:          m.BillNo,
		CatererName:     m.CatererName,
		BalanceDue:      m.BalanceDue,
		NextPaymentDate: m.NextPaymentDate,
		ReminderDate:    m.ReminderDate,
		Status:          billing.ReminderStatus(m.Status),
		Notes:           m.Notes,
	}
}

// ReminderModelFromDomain converts a domain reminder to its persistence model
func ReminderModelFromDomain(r *billing.PaymentReminder) *PaymentReminderModel {
	m := &PaymentReminderModel{
		DistributionID:  r.DistributionID,
		BillNo:          r.BillNo,
		CatererName:     r.CatererName,
		BalanceDue:      r.BalanceDue,
		NextPaymentDate: r.NextPaymentDate,
		ReminderDate:    r.ReminderDate,
		Status:          string(r.Status),
		Notes:           r.Notes,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}
