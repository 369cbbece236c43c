package handler

import (
	financeapp "github.com/finvoice/backend/internal/application/finance"
	"github.com/finvoice/backend/internal/domain/finance"
	"github.com/finvoice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// FinanceHandler handles account and category endpoints
type FinanceHandler struct {
	BaseHandler
	accountService  *financeapp.AccountService
	categoryService *financeapp.CategoryService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(accountService *financeapp.AccountService, categoryService *financeapp.CategoryService) *FinanceHandler {
	return &FinanceHandler{
		accountService:  accountService,
		categoryService: categoryService,
	}
}

// CreateAccountRequest is the create-account request body
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required,min=1,max=200"`
	Type           string          `json:"type" binding:"required,oneof=bank cash credit other"`
	Currency       string          `json:"currency" binding:"omitempty,len=3"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// RenameRequest carries a new display name
type RenameRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// CreateCategoryRequest is the create-category request body
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
	Kind string `json:"kind" binding:"required,oneof=expense income"`
}

// CreateAccount adds a financial account to the company
func (h *FinanceHandler) CreateAccount(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	account, err := h.accountService.Create(c.Request.Context(), companyID, financeapp.CreateAccountInput{
		Name:           req.Name,
		Type:           finance.AccountType(req.Type),
		Currency:       req.Currency,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, account)
}

// GetAccount returns one account of the company
func (h *FinanceHandler) GetAccount(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	account, err := h.accountService.Get(c.Request.Context(), companyID, mustUUID(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// ListAccounts returns the company's accounts
func (h *FinanceHandler) ListAccounts(c *gin.Context) {
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

	accounts, total, err := h.accountService.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, accounts, total, filter.Page, filter.PageSize)
}

// RenameAccount changes an account's display name
func (h *FinanceHandler) RenameAccount(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	account, err := h.accountService.Rename(c.Request.Context(), companyID, mustUUID(uri.ID), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// DeactivateAccount marks an account inactive
func (h *FinanceHandler) DeactivateAccount(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	account, err := h.accountService.Deactivate(c.Request.Context(), companyID, mustUUID(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// CreateCategory adds an expense or income category
func (h *FinanceHandler) CreateCategory(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), companyID, financeapp.CreateCategoryInput{
		Name: req.Name,
		Kind: finance.CategoryKind(req.Kind),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, category)
}

// ListCategories returns the company's categories, optionally by kind
func (h *FinanceHandler) ListCategories(c *gin.Context) {
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

	kind := finance.CategoryKind(c.Query("kind"))
	categories, err := h.categoryService.List(c.Request.Context(), companyID, kind, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, categories)
}

// RenameCategory changes a category's name
func (h *FinanceHandler) RenameCategory(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.categoryService.Rename(c.Request.Context(), companyID, mustUUID(uri.ID), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// DeleteCategory removes a category
func (h *FinanceHandler) DeleteCategory(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), companyID, mustUUID(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
