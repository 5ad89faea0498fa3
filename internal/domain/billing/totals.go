package billing

import (
	"github.com/shopspring/decimal"
)

// BillTotals is the derived money summary of a distribution. It is always
// recomputed from the full line-item set plus the amount paid, never
// mutated field by field.
type BillTotals struct {
	TotalAmount    decimal.Decimal
	TotalGSTAmount decimal.Decimal
	GrandTotal     decimal.Decimal
	BalanceDue     decimal.Decimal
}

// CalculateTotals sums billable line items into bill totals. Items without a
// product name or with non-positive quantity are skipped. Per-item amounts
// arrive already rounded to 2 decimals, so the sums stay exact.
func CalculateTotals(items []LineItem, amountPaid decimal.Decimal) BillTotals {
	totalAmount := decimal.Zero
	totalGST := decimal.Zero

	for i := range items {
		if !items[i].IsBillable() {
			continue
		}
		totalAmount = totalAmount.Add(items[i].Amount)
		totalGST = totalGST.Add(items[i].GSTAmount)
	}

	grandTotal := totalAmount.Add(totalGST)
	balanceDue := grandTotal.Sub(amountPaid)
	if balanceDue.IsNegative() {
		balanceDue = decimal.Zero
	}

	return BillTotals{
		TotalAmount:    totalAmount,
		TotalGSTAmount: totalGST,
		GrandTotal:     grandTotal,
		BalanceDue:     balanceDue,
	}
}

// Status derives the payment status: paid when nothing is due, partial
// otherwise
func (t BillTotals) Status() DistributionStatus {
	if t.BalanceDue.LessThanOrEqual(decimal.Zero) {
		return DistributionStatusPaid
	}
	return DistributionStatusPartial
}
