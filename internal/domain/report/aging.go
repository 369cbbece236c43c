package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// AgingBucket is a day-range classification of an invoice's overdue status
type AgingBucket string

const (
	BucketCurrent AgingBucket = "current"
	Bucket1To30   AgingBucket = "1-30"
	Bucket31To60  AgingBucket = "31-60"
	Bucket61To90  AgingBucket = "61-90"
	BucketOver90  AgingBucket = "90+"
)

// AgingBuckets returns all buckets in display order
func AgingBuckets() []AgingBucket {
	return []AgingBucket{BucketCurrent, Bucket1To30, Bucket31To60, Bucket61To90, BucketOver90}
}

// ClassifyOverdue maps days-overdue to its aging bucket. Zero days means
// the invoice is not yet past due.
func ClassifyOverdue(daysOverdue int) AgingBucket {
	switch {
	case daysOverdue <= 0:
		return BucketCurrent
	case daysOverdue <= 30:
		return Bucket1To30
	case daysOverdue <= 60:
		return Bucket31To60
	case daysOverdue <= 90:
		return Bucket61To90
	default:
		return BucketOver90
	}
}

// AgingLine is one bucket's aggregate in an aging report
type AgingLine struct {
	Bucket AgingBucket     `json:"bucket"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// AgingReport buckets open invoices by days overdue at the evaluation
// date; amounts are the unpaid remainder per invoice.
type AgingReport struct {
	EvaluatedAt time.Time       `json:"evaluated_at"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	Lines       []AgingLine     `json:"lines"`
	Total       decimal.Decimal `json:"total"`
}

// NewAgingReport returns a report with all-zero buckets
func NewAgingReport(evaluatedAt time.Time, start, end *time.Time) *AgingReport {
	lines := make([]AgingLine, 0, 5)
	for _, b := range AgingBuckets() {
		lines = append(lines, AgingLine{Bucket: b, Amount: decimal.Zero})
	}
	return &AgingReport{
		EvaluatedAt: evaluatedAt,
		StartDate:   start,
		EndDate:     end,
		Lines:       lines,
		Total:       decimal.Zero,
	}
}

// Add accumulates one open invoice's outstanding amount into its bucket
func (r *AgingReport) Add(bucket AgingBucket, amount decimal.Decimal) {
	for i := range r.Lines {
		if r.Lines[i].Bucket == bucket {
			r.Lines[i].Count++
			r.Lines[i].Amount = r.Lines[i].Amount.Add(amount)
			break
		}
	}
	r.Total = r.Total.Add(amount)
}

// Line returns the aggregate for the given bucket
func (r *AgingReport) Line(bucket AgingBucket) AgingLine {
	for _, l := range r.Lines {
		if l.Bucket == bucket {
			return l
		}
	}
	return AgingLine{Bucket: bucket, Amount: decimal.Zero}
}
