package handler

import (
	"fmt"
	"net/http"
	"time"

	billingapp "github.com/finvoice/backend/internal/application/billing"
	"github.com/finvoice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// dateLayout is the wire format for date-only fields
const dateLayout = "2006-01-02"

// InvoiceHandler handles invoice lifecycle endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// LineItemRequest is one invoice line in a create/update request
type LineItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreateInvoiceRequest is the create-invoice request body
type CreateInvoiceRequest struct {
	ClientID  string            `json:"client_id" binding:"required,uuid"`
	Number    string            `json:"number" binding:"required,min=1,max=50"`
	Currency  string            `json:"currency" binding:"omitempty,len=3"`
	IssueDate string            `json:"issue_date" binding:"required,datetime=2006-01-02"`
	DueDate   string            `json:"due_date" binding:"required,datetime=2006-01-02"`
	Notes     string            `json:"notes" binding:"omitempty,max=2000"`
	TaxRate   decimal.Decimal   `json:"tax_rate"`
	Items     []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest is the update-invoice request body; only drafts
// accept updates.
type UpdateInvoiceRequest struct {
	IssueDate string            `json:"issue_date" binding:"required,datetime=2006-01-02"`
	DueDate   string            `json:"due_date" binding:"required,datetime=2006-01-02"`
	Notes     string            `json:"notes" binding:"omitempty,max=2000"`
	TaxRate   decimal.Decimal   `json:"tax_rate"`
	Items     []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// RecordPaymentRequest is the record-payment request body
type RecordPaymentRequest struct {
	AccountID string          `json:"account_id" binding:"required,uuid"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Date      string          `json:"date" binding:"required,datetime=2006-01-02"`
}

func toLineItemInputs(items []LineItemRequest) []billingapp.LineItemInput {
	inputs := make([]billingapp.LineItemInput, len(items))
	for i, item := range items {
		inputs[i] = billingapp.LineItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	return inputs
}

// Create creates a draft invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	issueDate, _ := time.Parse(dateLayout, req.IssueDate)
	dueDate, _ := time.Parse(dateLayout, req.DueDate)

	invoice, err := h.invoiceService.Create(c.Request.Context(), companyID, billingapp.CreateInvoiceInput{
		ClientID:  mustUUID(req.ClientID),
		Number:    req.Number,
		Currency:  req.Currency,
		IssueDate: issueDate,
		DueDate:   dueDate,
		Notes:     req.Notes,
		TaxRate:   req.TaxRate,
		Items:     toLineItemInputs(req.Items),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// Get returns one invoice of the company
func (h *InvoiceHandler) Get(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), companyID, mustUUID(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List returns the company's invoices, optionally filtered by status
func (h *InvoiceHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	filter := req.ToFilter()

	invoices, total, err := h.invoiceService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// Update replaces a draft invoice's dates, notes, tax rate and lines
func (h *InvoiceHandler) Update(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	issueDate, _ := time.Parse(dateLayout, req.IssueDate)
	dueDate, _ := time.Parse(dateLayout, req.DueDate)

	invoice, err := h.invoiceService.Update(c.Request.Context(), companyID, mustUUID(uri.ID), billingapp.UpdateInvoiceInput{
		IssueDate: issueDate,
		DueDate:   dueDate,
		Notes:     req.Notes,
		TaxRate:   req.TaxRate,
		Items:     toLineItemInputs(req.Items),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Send transitions a draft invoice to sent
func (h *InvoiceHandler) Send(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.Send(c.Request.Context(), companyID, mustUUID(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Void cancels an invoice that has received no payments
func (h *InvoiceHandler) Void(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.Void(c.Request.Context(), companyID, mustUUID(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// RecordPayment applies a payment to an open invoice. The invoice state,
// the income entry and the account balance move together or not at all.
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	date, _ := time.Parse(dateLayout, req.Date)

	invoice, err := h.invoiceService.RecordPayment(c.Request.Context(), companyID, mustUUID(uri.ID), billingapp.RecordPaymentInput{
		AccountID: mustUUID(req.AccountID),
		Amount:    req.Amount,
		Date:      date,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// MarkOverdue sweeps the company's open invoices and flags the ones past
// their due date. Intended to be hit by a scheduler; calling it twice is
// harmless.
func (h *InvoiceHandler) MarkOverdue(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	marked, err := h.invoiceService.MarkOverdue(c.Request.Context(), companyID, time.Now().UTC())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"marked": marked})
}

// DownloadPDF renders the invoice as a PDF document
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	pdf, filename, err := h.invoiceService.RenderPDF(c.Request.Context(), companyID, mustUUID(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
