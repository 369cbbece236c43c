// Package router wires the HTTP routes to their handlers and attaches
// the per-resource permission middleware.
package router

import (
	identityapp "github.com/finvoice/backend/internal/application/identity"
	"github.com/finvoice/backend/internal/interfaces/http/handler"
	"github.com/finvoice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Resource names used in permission keys ("resource:action")
const (
	ResourceUsers     = "users"
	ResourceCompany   = "company"
	ResourceTokens    = "tokens"
	ResourceClients   = "clients"
	ResourceVendors   = "vendors"
	ResourceInvoices  = "invoices"
	ResourceAccounts  = "accounts"
	ResourceLedger    = "ledger"
	ResourceRecurring = "recurring"
	ResourceReports   = "reports"
)

// Actions used in permission keys
const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionDelete = "delete"
)

// Handlers bundles every route handler the router mounts
type Handlers struct {
	System    *handler.SystemHandler
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Company   *handler.CompanyHandler
	Token     *handler.TokenHandler
	Client    *handler.ClientHandler
	Vendor    *handler.VendorHandler
	Invoice   *handler.InvoiceHandler
	Finance   *handler.FinanceHandler
	Ledger    *handler.LedgerHandler
	Recurring *handler.RecurringHandler
	Report    *handler.ReportHandler
}

// Router mounts the API surface onto a gin engine
type Router struct {
	handlers Handlers
	guard    *identityapp.Guard
}

// New creates a Router
func New(handlers Handlers, guard *identityapp.Guard) *Router {
	return &Router{handlers: handlers, guard: guard}
}

// requires builds the permission middleware for one resource/action pair
func (r *Router) requires(action, resource string) gin.HandlerFunc {
	return middleware.RequirePermission(r.guard, action, resource)
}

// Setup registers all routes. The authentication middleware must already
// be installed on the engine; public paths are listed in its skip set.
func (r *Router) Setup(engine *gin.Engine) {
	api := engine.Group("/api/v1")

	api.GET("/health", r.handlers.System.Health)

	auth := api.Group("/auth")
	{
		auth.POST("/login", r.handlers.Auth.Login)
		auth.POST("/refresh", r.handlers.Auth.Refresh)
		auth.POST("/signup", r.handlers.Auth.Signup)
		auth.POST("/logout", r.handlers.Auth.Logout)
	}

	users := api.Group("/users")
	{
		users.GET("", r.requires(ActionRead, ResourceUsers), r.handlers.User.List)
		users.POST("", r.requires(ActionWrite, ResourceUsers), r.handlers.User.Create)
		users.GET("/:id", r.requires(ActionRead, ResourceUsers), r.handlers.User.Get)
		users.PUT("/:id", r.requires(ActionWrite, ResourceUsers), r.handlers.User.Update)
		users.DELETE("/:id", r.requires(ActionDelete, ResourceUsers), r.handlers.User.Delete)
	}
	api.POST("/me/password", r.handlers.User.ChangePassword)

	company := api.Group("/company")
	{
		company.GET("", r.requires(ActionRead, ResourceCompany), r.handlers.Company.Get)
		company.PUT("", r.requires(ActionWrite, ResourceCompany), r.handlers.Company.Update)
		company.POST("/logo/upload-url", r.requires(ActionWrite, ResourceCompany), r.handlers.Company.RequestLogoUpload)
		company.POST("/logo/confirm", r.requires(ActionWrite, ResourceCompany), r.handlers.Company.ConfirmLogoUpload)
		company.GET("/logo/download-url", r.requires(ActionRead, ResourceCompany), r.handlers.Company.LogoDownloadURL)
	}

	tokens := api.Group("/tokens")
	{
		tokens.GET("", r.requires(ActionRead, ResourceTokens), r.handlers.Token.List)
		tokens.POST("", r.requires(ActionWrite, ResourceTokens), r.handlers.Token.Issue)
		tokens.DELETE("/:id", r.requires(ActionDelete, ResourceTokens), r.handlers.Token.Revoke)
	}

	clients := api.Group("/clients")
	{
		clients.GET("", r.requires(ActionRead, ResourceClients), r.handlers.Client.List)
		clients.POST("", r.requires(ActionWrite, ResourceClients), r.handlers.Client.Create)
		clients.GET("/:id", r.requires(ActionRead, ResourceClients), r.handlers.Client.Get)
		clients.PUT("/:id", r.requires(ActionWrite, ResourceClients), r.handlers.Client.Update)
		clients.POST("/:id/deactivate", r.requires(ActionWrite, ResourceClients), r.handlers.Client.Deactivate)
		clients.DELETE("/:id", r.requires(ActionDelete, ResourceClients), r.handlers.Client.Delete)
	}

	vendors := api.Group("/vendors")
	{
		vendors.GET("", r.requires(ActionRead, ResourceVendors), r.handlers.Vendor.List)
		vendors.POST("", r.requires(ActionWrite, ResourceVendors), r.handlers.Vendor.Create)
		vendors.GET("/:id", r.requires(ActionRead, ResourceVendors), r.handlers.Vendor.Get)
		vendors.PUT("/:id", r.requires(ActionWrite, ResourceVendors), r.handlers.Vendor.Update)
		vendors.POST("/:id/deactivate", r.requires(ActionWrite, ResourceVendors), r.handlers.Vendor.Deactivate)
		vendors.DELETE("/:id", r.requires(ActionDelete, ResourceVendors), r.handlers.Vendor.Delete)
	}

	invoices := api.Group("/invoices")
	{
		invoices.GET("", r.requires(ActionRead, ResourceInvoices), r.handlers.Invoice.List)
		invoices.POST("", r.requires(ActionWrite, ResourceInvoices), r.handlers.Invoice.Create)
		invoices.GET("/:id", r.requires(ActionRead, ResourceInvoices), r.handlers.Invoice.Get)
		invoices.PUT("/:id", r.requires(ActionWrite, ResourceInvoices), r.handlers.Invoice.Update)
		invoices.POST("/:id/send", r.requires(ActionWrite, ResourceInvoices), r.handlers.Invoice.Send)
		invoices.POST("/:id/void", r.requires(ActionWrite, ResourceInvoices), r.handlers.Invoice.Void)
		invoices.POST("/:id/payments", r.requires(ActionWrite, ResourceInvoices), r.handlers.Invoice.RecordPayment)
		invoices.POST("/mark-overdue", r.requires(ActionWrite, ResourceInvoices), r.handlers.Invoice.MarkOverdue)
		invoices.GET("/:id/pdf", r.requires(ActionRead, ResourceInvoices), r.handlers.Invoice.DownloadPDF)
	}

	accounts := api.Group("/accounts")
	{
		accounts.GET("", r.requires(ActionRead, ResourceAccounts), r.handlers.Finance.ListAccounts)
		accounts.POST("", r.requires(ActionWrite, ResourceAccounts), r.handlers.Finance.CreateAccount)
		accounts.GET("/:id", r.requires(ActionRead, ResourceAccounts), r.handlers.Finance.GetAccount)
		accounts.PUT("/:id", r.requires(ActionWrite, ResourceAccounts), r.handlers.Finance.RenameAccount)
		accounts.POST("/:id/deactivate", r.requires(ActionWrite, ResourceAccounts), r.handlers.Finance.DeactivateAccount)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", r.requires(ActionRead, ResourceLedger), r.handlers.Finance.ListCategories)
		categories.POST("", r.requires(ActionWrite, ResourceLedger), r.handlers.Finance.CreateCategory)
		categories.PUT("/:id", r.requires(ActionWrite, ResourceLedger), r.handlers.Finance.RenameCategory)
		categories.DELETE("/:id", r.requires(ActionDelete, ResourceLedger), r.handlers.Finance.DeleteCategory)
	}

	expenses := api.Group("/expenses")
	{
		expenses.GET("", r.requires(ActionRead, ResourceLedger), r.handlers.Ledger.ListExpenses)
		expenses.POST("", r.requires(ActionWrite, ResourceLedger), r.handlers.Ledger.PostExpense)
		expenses.GET("/:id", r.requires(ActionRead, ResourceLedger), r.handlers.Ledger.GetExpense)
		expenses.DELETE("/:id", r.requires(ActionDelete, ResourceLedger), r.handlers.Ledger.DeleteExpense)
	}

	income := api.Group("/income")
	{
		income.GET("", r.requires(ActionRead, ResourceLedger), r.handlers.Ledger.ListIncome)
		income.POST("", r.requires(ActionWrite, ResourceLedger), r.handlers.Ledger.PostIncome)
		income.GET("/:id", r.requires(ActionRead, ResourceLedger), r.handlers.Ledger.GetIncome)
		income.DELETE("/:id", r.requires(ActionDelete, ResourceLedger), r.handlers.Ledger.DeleteIncome)
	}

	recurring := api.Group("/recurring")
	{
		recurring.GET("", r.requires(ActionRead, ResourceRecurring), r.handlers.Recurring.List)
		recurring.POST("", r.requires(ActionWrite, ResourceRecurring), r.handlers.Recurring.Create)
		recurring.GET("/:id", r.requires(ActionRead, ResourceRecurring), r.handlers.Recurring.Get)
		recurring.POST("/:id/deactivate", r.requires(ActionWrite, ResourceRecurring), r.handlers.Recurring.Deactivate)
		recurring.DELETE("/:id", r.requires(ActionDelete, ResourceRecurring), r.handlers.Recurring.Delete)
		recurring.POST("/process", r.requires(ActionWrite, ResourceRecurring), r.handlers.Recurring.ProcessDue)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/aging-receivables", r.requires(ActionRead, ResourceReports), r.handlers.Report.AgingReceivables)
		reports.GET("/invoice-summary", r.requires(ActionRead, ResourceReports), r.handlers.Report.InvoiceSummary)
	}
}

// PublicPaths lists the paths the authentication middleware must skip
func PublicPaths() []string {
	return []string{
		"/api/v1/health",
		"/api/v1/auth/login",
		"/api/v1/auth/refresh",
		"/api/v1/auth/signup",
	}
}
