package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemInput is one invoice line in a create/update request
type LineItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// CreateInvoiceInput carries data for creating a draft invoice
type CreateInvoiceInput struct {
	ClientID  uuid.UUID
	Number    string
	Currency  string
	IssueDate time.Time
	DueDate   time.Time
	Notes     string
	TaxRate   decimal.Decimal
	Items     []LineItemInput
}

// UpdateInvoiceInput carries mutable draft-invoice fields
type UpdateInvoiceInput struct {
	IssueDate time.Time
	DueDate   time.Time
	Notes     string
	TaxRate   decimal.Decimal
	Items     []LineItemInput
}

// RecordPaymentInput carries a payment against an open invoice.
// AccountID names the financial account the money lands in.
type RecordPaymentInput struct {
	AccountID uuid.UUID
	Amount    decimal.Decimal
	Date      time.Time
}
