package handler

import (
	"time"

	financeapp "github.com/finvoice/backend/internal/application/finance"
	"github.com/finvoice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// LedgerHandler handles expense and income entry endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *financeapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *financeapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// PostExpenseRequest is the post-expense request body
type PostExpenseRequest struct {
	CategoryID  string          `json:"category_id" binding:"required,uuid"`
	VendorID    *string         `json:"vendor_id" binding:"omitempty,uuid"`
	AccountID   string          `json:"account_id" binding:"required,uuid"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"omitempty,len=3"`
	Date        string          `json:"date" binding:"required,datetime=2006-01-02"`
	Description string          `json:"description" binding:"omitempty,max=2000"`
}

// PostIncomeRequest is the post-income request body
type PostIncomeRequest struct {
	CategoryID  *string         `json:"category_id" binding:"omitempty,uuid"`
	AccountID   string          `json:"account_id" binding:"required,uuid"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"omitempty,len=3"`
	Date        string          `json:"date" binding:"required,datetime=2006-01-02"`
	Description string          `json:"description" binding:"omitempty,max=2000"`
}

// PostExpense records an expense entry and debits its account
func (h *LedgerHandler) PostExpense(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req PostExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	date, _ := time.Parse(dateLayout, req.Date)
	vendorID, _ := parseOptionalUUID(req.VendorID)

	expense, err := h.ledgerService.PostExpense(c.Request.Context(), companyID, financeapp.PostExpenseInput{
		CategoryID:  mustUUID(req.CategoryID),
		VendorID:    vendorID,
		AccountID:   mustUUID(req.AccountID),
		Amount:      req.Amount,
		Currency:    req.Currency,
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, expense)
}

// GetExpense returns one expense entry of the company
func (h *LedgerHandler) GetExpense(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	expense, err := h.ledgerService.GetExpense(c.Request.Context(), companyID, mustUUID(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, expense)
}

// ListExpenses returns the company's expense entries
func (h *LedgerHandler) ListExpenses(c *gin.Context) {
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
	for _, key := range []string{"category_id", "vendor_id", "account_id"} {
		if v := c.Query(key); v != "" {
			filter.Filters[key] = v
		}
	}

	expenses, total, err := h.ledgerService.ListExpenses(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, expenses, total, filter.Page, filter.PageSize)
}

// DeleteExpense removes an expense entry and refunds its account
func (h *LedgerHandler) DeleteExpense(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	if err := h.ledgerService.DeleteExpense(c.Request.Context(), companyID, mustUUID(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// PostIncome records an income entry and credits its account
func (h *LedgerHandler) PostIncome(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req PostIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	date, _ := time.Parse(dateLayout, req.Date)
	categoryID, _ := parseOptionalUUID(req.CategoryID)

	income, err := h.ledgerService.PostIncome(c.Request.Context(), companyID, financeapp.PostIncomeInput{
		CategoryID:  categoryID,
		AccountID:   mustUUID(req.AccountID),
		Amount:      req.Amount,
		Currency:    req.Currency,
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, income)
}

// GetIncome returns one income entry of the company
func (h *LedgerHandler) GetIncome(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid income ID format")
		return
	}

	income, err := h.ledgerService.GetIncome(c.Request.Context(), companyID, mustUUID(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, income)
}

// ListIncome returns the company's income entries
func (h *LedgerHandler) ListIncome(c *gin.Context) {
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
	for _, key := range []string{"category_id", "account_id", "invoice_id"} {
		if v := c.Query(key); v != "" {
			filter.Filters[key] = v
		}
	}

	entries, total, err := h.ledgerService.ListIncome(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// DeleteIncome removes an income entry and debits its account back
func (h *LedgerHandler) DeleteIncome(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid income ID format")
		return
	}

	if err := h.ledgerService.DeleteIncome(c.Request.Context(), companyID, mustUUID(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
