// Package report contains the reporting application service: aging
// receivables and invoice summaries.
package report

import (
	"context"
	"time"

	"github.com/finvoice/backend/internal/domain/report"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// dateLayout is the wire format for report date-range parameters
const dateLayout = "2006-01-02"

// Service computes reporting aggregates over a company's invoices
type Service struct {
	repo   report.Repository
	logger *zap.Logger
}

// NewService creates a new report service
func NewService(repo report.Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ParseDateRange parses optional "YYYY-MM-DD" range parameters. Empty
// strings mean an unbounded side; an all-empty range means all time.
func ParseDateRange(startStr, endStr string) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if startStr != "" {
		t, err := time.Parse(dateLayout, startStr)
		if err != nil {
			return nil, nil, shared.NewDomainError("INVALID_DATE", "start_date must be YYYY-MM-DD")
		}
		start = &t
	}
	if endStr != "" {
		t, err := time.Parse(dateLayout, endStr)
		if err != nil {
			return nil, nil, shared.NewDomainError("INVALID_DATE", "end_date must be YYYY-MM-DD")
		}
		// Inclusive end of day
		t = t.Add(24*time.Hour - time.Nanosecond)
		end = &t
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, shared.NewDomainError("INVALID_DATE", "end_date must not precede start_date")
	}
	return start, end, nil
}

// AgingReceivables buckets the company's open invoices by days overdue at
// the evaluation time. Invoices on or before their due date land in the
// current bucket; buckets with no invoices stay at zero.
func (s *Service) AgingReceivables(ctx context.Context, companyID uuid.UUID, start, end *time.Time, now time.Time) (*report.AgingReport, error) {
	rows, err := s.repo.OpenInvoices(ctx, companyID, start, end)
	if err != nil {
		return nil, err
	}

	aging := report.NewAgingReport(now, start, end)
	for _, row := range rows {
		days := 0
		if now.After(row.DueDate) {
			days = int(now.Sub(row.DueDate).Hours() / 24)
		}
		aging.Add(report.ClassifyOverdue(days), row.Outstanding)
	}

	s.logger.Debug("Aging report computed",
		zap.String("company_id", companyID.String()),
		zap.Int("open_invoices", len(rows)))
	return aging, nil
}

// InvoiceSummary aggregates the company's invoices by status with grand
// totals across all statuses.
func (s *Service) InvoiceSummary(ctx context.Context, companyID uuid.UUID) (*report.InvoiceSummary, error) {
	lines, err := s.repo.InvoiceTotalsByStatus(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return report.NewInvoiceSummary(lines), nil
}
