package billing

import (
	"strings"
	"time"

	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	InvoiceStatusVoid    InvoiceStatus = "void"
)

// IsValid checks if the invoice status is valid
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPartial,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusVoid:
		return true
	}
	return false
}

// IsOpen reports whether the invoice still carries an outstanding balance
// to collect. Open invoices are the population of aging reports.
func (s InvoiceStatus) IsOpen() bool {
	switch s {
	case InvoiceStatusSent, InvoiceStatusPartial, InvoiceStatusOverdue:
		return true
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusVoid
}

// OpenStatuses returns the statuses counted as open receivables
func OpenStatuses() []InvoiceStatus {
	return []InvoiceStatus{InvoiceStatusSent, InvoiceStatusPartial, InvoiceStatusOverdue}
}

// LineItem is a single invoice line. Amount is always quantity times unit
// price; it is stored denormalized for reporting.
type LineItem struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Description string          `gorm:"size:500;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Position    int             `gorm:"not null;default:0" json:"position"`
}

// TableName returns the table name for GORM
func (LineItem) TableName() string {
	return "invoice_line_items"
}

// Invoice is a company- and client-scoped receivable document. The
// outstanding balance (total minus paid) drives the aging report.
type Invoice struct {
	shared.TenantAggregateRoot
	ClientID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	Number     string          `gorm:"size:50;not null" json:"number"`
	Status     InvoiceStatus   `gorm:"size:20;not null;default:'draft'" json:"status"`
	Currency   string          `gorm:"size:3;not null" json:"currency"`
	IssueDate  time.Time       `gorm:"not null" json:"issue_date"`
	DueDate    time.Time       `gorm:"not null" json:"due_date"`
	Notes      string          `gorm:"size:1000" json:"notes"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"subtotal"`
	TaxRate    decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0" json:"tax_rate"`
	TaxAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"tax_amount"`
	Total      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total"`
	PaidAmount decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"paid_amount"`
	SentAt     *time.Time      `json:"sent_at,omitempty"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
	Items      []LineItem      `gorm:"foreignKey:InvoiceID" json:"items"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new draft invoice
func NewInvoice(companyID, clientID uuid.UUID, number, currency string, issueDate, dueDate time.Time) (*Invoice, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "invoice number is required")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "client is required")
	}
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "currency must be a 3-letter ISO code")
	}
	if dueDate.Before(issueDate) {
		return nil, shared.NewDomainError("INVALID_DATES", "due date must not precede issue date")
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		ClientID:            clientID,
		Number:              strings.ToUpper(number),
		Status:              InvoiceStatusDraft,
		Currency:            strings.ToUpper(currency),
		IssueDate:           issueDate,
		DueDate:             dueDate,
		Subtotal:            decimal.Zero,
		TaxAmount:           decimal.Zero,
		Total:               decimal.Zero,
		PaidAmount:          decimal.Zero,
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv.ID, companyID, inv.Number))
	return inv, nil
}

// AddLineItem appends a line to a draft invoice and recomputes totals
func (i *Invoice) AddLineItem(description string, quantity, unitPrice decimal.Decimal) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "only draft invoices can be edited")
	}
	if strings.TrimSpace(description) == "" {
		return shared.NewDomainError("INVALID_ITEM", "line item description is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_ITEM", "line item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_ITEM", "line item unit price must not be negative")
	}

	item := LineItem{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceID:   i.ID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      quantity.Mul(unitPrice),
		Position:    len(i.Items),
	}
	i.Items = append(i.Items, item)
	i.recalculate()
	return nil
}

// ReplaceLineItems swaps the full line set of a draft invoice
func (i *Invoice) ReplaceLineItems(items []LineItem) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "only draft invoices can be edited")
	}
	i.Items = nil
	for _, it := range items {
		if err := i.AddLineItem(it.Description, it.Quantity, it.UnitPrice); err != nil {
			return err
		}
	}
	return nil
}

// SetTaxRate sets the tax rate (percent) on a draft invoice
func (i *Invoice) SetTaxRate(rate decimal.Decimal) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "only draft invoices can be edited")
	}
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_TAX", "tax rate must not be negative")
	}
	i.TaxRate = rate
	i.recalculate()
	return nil
}

// UpdateDates changes issue and due dates on a draft invoice
func (i *Invoice) UpdateDates(issueDate, dueDate time.Time) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "only draft invoices can be edited")
	}
	if dueDate.Before(issueDate) {
		return shared.NewDomainError("INVALID_DATES", "due date must not precede issue date")
	}
	i.IssueDate = issueDate
	i.DueDate = dueDate
	i.Touch()
	i.IncrementVersion()
	return nil
}

// Send transitions the invoice from draft to sent
func (i *Invoice) Send(at time.Time) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "only draft invoices can be sent")
	}
	if len(i.Items) == 0 {
		return shared.NewDomainError("INVALID_STATE", "invoice has no line items")
	}
	i.Status = InvoiceStatusSent
	i.SentAt = &at
	i.Touch()
	i.IncrementVersion()
	i.AddDomainEvent(NewInvoiceSentEvent(i.ID, i.CompanyID, i.Number))
	return nil
}

// ApplyPayment records a payment against the outstanding balance and
// advances the status. The caller is responsible for running this inside
// the same transaction as the account and ledger writes.
func (i *Invoice) ApplyPayment(amount decimal.Decimal, at time.Time) error {
	if !i.Status.IsOpen() {
		return shared.NewDomainError("INVALID_STATE", "invoice is not open for payment")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "payment amount must be positive")
	}
	if amount.GreaterThan(i.OutstandingBalance()) {
		return shared.NewDomainError("INVALID_AMOUNT", "payment exceeds outstanding balance")
	}

	i.PaidAmount = i.PaidAmount.Add(amount)
	if i.OutstandingBalance().IsZero() {
		i.Status = InvoiceStatusPaid
		i.PaidAt = &at
	} else {
		i.Status = InvoiceStatusPartial
	}
	i.Touch()
	i.IncrementVersion()
	i.AddDomainEvent(NewInvoicePaymentRecordedEvent(i.ID, i.CompanyID, amount))
	return nil
}

// Void cancels the invoice. Paid invoices cannot be voided.
func (i *Invoice) Void() error {
	if i.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "invoice is already closed")
	}
	i.Status = InvoiceStatusVoid
	i.Touch()
	i.IncrementVersion()
	return nil
}

// MarkOverdue flags an open invoice whose due date has passed
func (i *Invoice) MarkOverdue(now time.Time) error {
	if !i.Status.IsOpen() {
		return shared.ErrInvalidState
	}
	if !now.After(i.DueDate) {
		return shared.NewDomainError("INVALID_STATE", "invoice is not past due")
	}
	i.Status = InvoiceStatusOverdue
	i.Touch()
	i.IncrementVersion()
	return nil
}

// OutstandingBalance returns the unpaid remainder of the invoice total
func (i *Invoice) OutstandingBalance() decimal.Decimal {
	return i.Total.Sub(i.PaidAmount)
}

// DaysOverdue returns whole days past the due date at the evaluation time,
// zero when not yet due.
func (i *Invoice) DaysOverdue(at time.Time) int {
	if !at.After(i.DueDate) {
		return 0
	}
	return int(at.Sub(i.DueDate).Hours() / 24)
}

func (i *Invoice) recalculate() {
	subtotal := decimal.Zero
	for _, item := range i.Items {
		subtotal = subtotal.Add(item.Amount)
	}
	i.Subtotal = subtotal
	i.TaxAmount = subtotal.Mul(i.TaxRate).Div(decimal.NewFromInt(100))
	i.Total = i.Subtotal.Add(i.TaxAmount)
	i.Touch()
	i.IncrementVersion()
}

// InvoiceCreatedEvent is raised when an invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(invoiceID, companyID uuid.UUID, number string) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("billing.invoice.created", "Invoice", invoiceID, companyID),
		Number:          number,
	}
}

// InvoiceSentEvent is raised when an invoice is sent to the client
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewInvoiceSentEvent creates a new InvoiceSentEvent
func NewInvoiceSentEvent(invoiceID, companyID uuid.UUID, number string) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("billing.invoice.sent", "Invoice", invoiceID, companyID),
		Number:          number,
	}
}

// InvoicePaymentRecordedEvent is raised when a payment is applied
type InvoicePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	Amount decimal.Decimal `json:"amount"`
}

// NewInvoicePaymentRecordedEvent creates a new InvoicePaymentRecordedEvent
func NewInvoicePaymentRecordedEvent(invoiceID, companyID uuid.UUID, amount decimal.Decimal) *InvoicePaymentRecordedEvent {
	return &InvoicePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("billing.invoice.payment_recorded", "Invoice", invoiceID, companyID),
		Amount:          amount,
	}
}
