// Package billing contains the invoice application service: lifecycle,
// payments and document rendering.
package billing

import (
	"context"
	"strings"
	"time"

	"github.com/finvoice/backend/internal/domain/billing"
	"github.com/finvoice/backend/internal/domain/finance"
	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/finvoice/backend/internal/domain/partner"
	"github.com/finvoice/backend/internal/domain/shared"
	identityapp "github.com/finvoice/backend/internal/application/identity"
	"github.com/finvoice/backend/internal/infrastructure/printing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvoiceService manages a company's invoices
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
	clientRepo  partner.ClientRepository
	accountRepo finance.AccountRepository
	incomeRepo  finance.IncomeRepository
	companyRepo identity.CompanyRepository
	txManager   shared.TxManager
	renderer    printing.PDFRenderer
	storage     identityapp.ObjectStorage
	logger      *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	clientRepo partner.ClientRepository,
	accountRepo finance.AccountRepository,
	incomeRepo finance.IncomeRepository,
	companyRepo identity.CompanyRepository,
	txManager shared.TxManager,
	renderer printing.PDFRenderer,
	storage identityapp.ObjectStorage,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		accountRepo: accountRepo,
		incomeRepo:  incomeRepo,
		companyRepo: companyRepo,
		txManager:   txManager,
		renderer:    renderer,
		storage:     storage,
		logger:      logger,
	}
}

// Create builds a draft invoice with its line items
func (s *InvoiceService) Create(ctx context.Context, companyID uuid.UUID, input CreateInvoiceInput) (*billing.Invoice, error) {
	client, err := s.clientRepo.FindByIDForCompany(ctx, companyID, input.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.IsActive() {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client is inactive")
	}

	exists, err := s.invoiceRepo.ExistsByNumber(ctx, companyID, strings.ToUpper(input.Number))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("NUMBER_TAKEN", "An invoice with this number already exists")
	}

	invoice, err := billing.NewInvoice(companyID, input.ClientID, input.Number, input.Currency, input.IssueDate, input.DueDate)
	if err != nil {
		return nil, err
	}
	invoice.Notes = input.Notes

	for _, item := range input.Items {
		if err := invoice.AddLineItem(item.Description, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}
	if !input.TaxRate.IsZero() {
		if err := invoice.SetTaxRate(input.TaxRate); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number),
		zap.String("company_id", companyID.String()))
	return invoice, nil
}

// Get returns one invoice with its line items
func (s *InvoiceService) Get(ctx context.Context, companyID, invoiceID uuid.UUID) (*billing.Invoice, error) {
	return s.invoiceRepo.FindByIDForCompany(ctx, companyID, invoiceID)
}

// List returns the company's invoices with a total count
func (s *InvoiceService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]billing.Invoice, int64, error) {
	invoices, err := s.invoiceRepo.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// Update modifies a draft invoice
func (s *InvoiceService) Update(ctx context.Context, companyID, invoiceID uuid.UUID, input UpdateInvoiceInput) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDForCompany(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.UpdateDates(input.IssueDate, input.DueDate); err != nil {
		return nil, err
	}
	invoice.Notes = input.Notes

	items := make([]billing.LineItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, billing.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	if err := invoice.ReplaceLineItems(items); err != nil {
		return nil, err
	}
	if err := invoice.SetTaxRate(input.TaxRate); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Send transitions a draft invoice to sent
func (s *InvoiceService) Send(ctx context.Context, companyID, invoiceID uuid.UUID) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDForCompany(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := invoice.Send(time.Now()); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice sent",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number))
	return invoice, nil
}

// Void cancels an invoice
func (s *InvoiceService) Void(ctx context.Context, companyID, invoiceID uuid.UUID) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDForCompany(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := invoice.Void(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// RecordPayment applies a payment to an open invoice. The invoice update,
// the income ledger row and the account credit commit in one database
// transaction; any failure rolls back all three.
func (s *InvoiceService) RecordPayment(ctx context.Context, companyID, invoiceID uuid.UUID, input RecordPaymentInput) (*billing.Invoice, error) {
	var invoice *billing.Invoice
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		invoice, err = s.invoiceRepo.FindByIDForCompany(txCtx, companyID, invoiceID)
		if err != nil {
			return err
		}

		account, err := s.accountRepo.FindByIDForCompany(txCtx, companyID, input.AccountID)
		if err != nil {
			return err
		}

		paidAt := input.Date
		if paidAt.IsZero() {
			paidAt = time.Now()
		}

		if err := invoice.ApplyPayment(input.Amount, paidAt); err != nil {
			return err
		}
		if err := s.invoiceRepo.SaveWithLock(txCtx, invoice); err != nil {
			return err
		}

		income, err := finance.NewIncome(companyID, account.ID, input.Amount, invoice.Currency, paidAt,
			"Payment for invoice "+invoice.Number)
		if err != nil {
			return err
		}
		income.AttachInvoice(invoice.ID)
		if err := s.incomeRepo.Save(txCtx, income); err != nil {
			return err
		}

		if err := account.Credit(input.Amount); err != nil {
			return err
		}
		return s.accountRepo.SaveWithLock(txCtx, account)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoice payment recorded",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("amount", input.Amount.String()),
		zap.String("company_id", companyID.String()))
	return invoice, nil
}

// MarkOverdue flags open invoices past their due date. Returns how many
// invoices changed status.
func (s *InvoiceService) MarkOverdue(ctx context.Context, companyID uuid.UUID, now time.Time) (int, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 200

	marked := 0
	for _, status := range []billing.InvoiceStatus{billing.InvoiceStatusSent, billing.InvoiceStatusPartial} {
		filter.Filters["status"] = string(status)
		filter.Page = 1
		for {
			invoices, err := s.invoiceRepo.FindAllForCompany(ctx, companyID, filter)
			if err != nil {
				return marked, err
			}
			markedThisPage := 0
			for i := range invoices {
				inv := &invoices[i]
				if inv.MarkOverdue(now) != nil {
					continue
				}
				if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
					return marked, err
				}
				marked++
				markedThisPage++
			}
			if len(invoices) < filter.PageSize {
				break
			}
			// Marked invoices leave the status filter, shifting later rows
			// into this page; re-read it until a full page yields nothing.
			if markedThisPage == 0 {
				filter.Page++
			}
		}
	}
	return marked, nil
}

// RenderPDF renders the invoice as a PDF document
func (s *InvoiceService) RenderPDF(ctx context.Context, companyID, invoiceID uuid.UUID) ([]byte, string, error) {
	if s.renderer == nil {
		return nil, "", shared.NewDomainError("PRINTING_DISABLED", "PDF rendering is not configured")
	}

	invoice, err := s.invoiceRepo.FindByIDForCompany(ctx, companyID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	client, err := s.clientRepo.FindByIDForCompany(ctx, companyID, invoice.ClientID)
	if err != nil {
		return nil, "", err
	}
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, "", err
	}

	logoURL := ""
	if s.storage != nil && company.LogoKey != "" {
		if url, _, err := s.storage.GenerateDownloadURL(ctx, company.LogoKey, 5*time.Minute); err == nil {
			logoURL = url
		} else {
			s.logger.Warn("Failed to presign logo for PDF", zap.Error(err))
		}
	}

	html, err := printing.RenderInvoiceHTML(&printing.InvoiceDocument{
		Company: company,
		Client:  client,
		Invoice: invoice,
		LogoURL: logoURL,
	})
	if err != nil {
		return nil, "", err
	}

	result, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:       html,
		Title:      "Invoice " + invoice.Number,
		FooterHTML: printing.InvoiceFooterHTML(invoice.Number, time.Now()),
	})
	if err != nil {
		s.logger.Error("Invoice PDF rendering failed", zap.Error(err),
			zap.String("invoice_id", invoiceID.String()))
		return nil, "", shared.NewDomainError("RENDER_FAILED", "Failed to render invoice PDF")
	}

	filename := "invoice-" + strings.ToLower(invoice.Number) + ".pdf"
	return result.PDFData, filename, nil
}
