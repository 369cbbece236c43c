package handler

import (
	"time"

	financeapp "github.com/finvoice/backend/internal/application/finance"
	"github.com/finvoice/backend/internal/domain/finance"
	"github.com/finvoice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RecurringHandler handles recurring-rule endpoints and the scheduler
// trigger that posts due occurrences.
type RecurringHandler struct {
	BaseHandler
	recurringService *financeapp.RecurringService
}

// NewRecurringHandler creates a new RecurringHandler
func NewRecurringHandler(recurringService *financeapp.RecurringService) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// CreateRecurringRequest is the create-recurring-rule request body
type CreateRecurringRequest struct {
	Kind        string          `json:"kind" binding:"required,oneof=expense income"`
	Frequency   string          `json:"frequency" binding:"required,oneof=daily weekly monthly yearly"`
	CategoryID  string          `json:"category_id" binding:"required,uuid"`
	AccountID   string          `json:"account_id" binding:"required,uuid"`
	VendorID    *string         `json:"vendor_id" binding:"omitempty,uuid"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"omitempty,len=3"`
	Description string          `json:"description" binding:"omitempty,max=2000"`
	FirstRunAt  time.Time       `json:"first_run_at" binding:"required"`
}

// ProcessDueRequest tunes one processing run; both fields are optional
type ProcessDueRequest struct {
	Limit int `json:"limit" binding:"omitempty,min=1,max=1000"`
}

// Create adds a recurring rule to the company
func (h *RecurringHandler) Create(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	vendorID, _ := parseOptionalUUID(req.VendorID)

	rule, err := h.recurringService.Create(c.Request.Context(), companyID, financeapp.CreateRecurringInput{
		Kind:        finance.RecurringKind(req.Kind),
		Frequency:   finance.RecurringFrequency(req.Frequency),
		CategoryID:  mustUUID(req.CategoryID),
		AccountID:   mustUUID(req.AccountID),
		VendorID:    vendorID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		FirstRunAt:  req.FirstRunAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, rule)
}

// Get returns one recurring rule of the company
func (h *RecurringHandler) Get(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid rule ID format")
		return
	}

	rule, err := h.recurringService.Get(c.Request.Context(), companyID, mustUUID(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rule)
}

// List returns the company's recurring rules
func (h *RecurringHandler) List(c *gin.Context) {
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

	rules, total, err := h.recurringService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, rules, total, filter.Page, filter.PageSize)
}

// Deactivate stops a rule from firing
func (h *RecurringHandler) Deactivate(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid rule ID format")
		return
	}

	rule, err := h.recurringService.Deactivate(c.Request.Context(), companyID, mustUUID(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rule)
}

// Delete removes a recurring rule
func (h *RecurringHandler) Delete(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid rule ID format")
		return
	}

	if err := h.recurringService.Delete(c.Request.Context(), companyID, mustUUID(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ProcessDue posts ledger entries for the caller's due occurrences. The
// endpoint is hit by an external scheduler once per tenant; the sweep is
// scoped to the caller's company, and duplicate triggers are safe because
// each occurrence is claimed exactly once.
func (h *RecurringHandler) ProcessDue(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ProcessDueRequest
	// Body is optional
	_ = c.ShouldBindJSON(&req)

	result, err := h.recurringService.ProcessDue(c.Request.Context(), companyID, time.Now().UTC(), req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
