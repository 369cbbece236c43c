package report

import (
	"github.com/shopspring/decimal"
)

// StatusLine is one invoice status's aggregate in a summary report
type StatusLine struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// InvoiceSummary aggregates invoice counts and totals by status. Grand
// totals always equal the sum of the per-status subtotals.
type InvoiceSummary struct {
	Lines      []StatusLine    `json:"lines"`
	TotalCount int64           `json:"total_count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// NewInvoiceSummary builds a summary from per-status lines, computing the
// grand totals from the subtotals.
func NewInvoiceSummary(lines []StatusLine) *InvoiceSummary {
	s := &InvoiceSummary{
		Lines:      lines,
		TotalValue: decimal.Zero,
	}
	for _, l := range lines {
		s.TotalCount += l.Count
		s.TotalValue = s.TotalValue.Add(l.Total)
	}
	return s
}
