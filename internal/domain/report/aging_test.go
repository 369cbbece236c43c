package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassifyOverdue(t *testing.T) {
	tests := []struct {
		days int
		want AgingBucket
	}{
		{-5, BucketCurrent},
		{0, BucketCurrent},
		{1, Bucket1To30},
		{30, Bucket1To30},
		{31, Bucket31To60},
		{45, Bucket31To60},
		{60, Bucket31To60},
		{61, Bucket61To90},
		{90, Bucket61To90},
		{91, BucketOver90},
		{365, BucketOver90},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyOverdue(tt.days), "days=%d", tt.days)
	}
}

func TestNewAgingReport(t *testing.T) {
	now := time.Now().UTC()
	r := NewAgingReport(now, nil, nil)

	assert.Len(t, r.Lines, 5)
	assert.True(t, r.Total.IsZero())
	for _, b := range AgingBuckets() {
		line := r.Line(b)
		assert.Equal(t, b, line.Bucket)
		assert.Zero(t, line.Count)
		assert.True(t, line.Amount.IsZero())
	}
}

func TestAgingReportAdd(t *testing.T) {
	r := NewAgingReport(time.Now().UTC(), nil, nil)

	r.Add(Bucket1To30, decimal.NewFromInt(100))
	r.Add(Bucket1To30, decimal.NewFromInt(50))
	r.Add(BucketOver90, decimal.NewFromInt(25))

	line := r.Line(Bucket1To30)
	assert.Equal(t, 2, line.Count)
	assert.True(t, line.Amount.Equal(decimal.NewFromInt(150)))

	assert.Equal(t, 1, r.Line(BucketOver90).Count)
	assert.True(t, r.Total.Equal(decimal.NewFromInt(175)))
	assert.Zero(t, r.Line(BucketCurrent).Count)
}

func TestNewInvoiceSummary(t *testing.T) {
	summary := NewInvoiceSummary([]StatusLine{
		{Status: "sent", Count: 3, Total: decimal.NewFromInt(300)},
		{Status: "paid", Count: 2, Total: decimal.NewFromInt(450)},
	})

	assert.Equal(t, int64(5), summary.TotalCount)
	assert.True(t, summary.TotalValue.Equal(decimal.NewFromInt(750)))

	t.Run("empty", func(t *testing.T) {
		s := NewInvoiceSummary(nil)
		assert.Zero(t, s.TotalCount)
		assert.True(t, s.TotalValue.IsZero())
	})
}
