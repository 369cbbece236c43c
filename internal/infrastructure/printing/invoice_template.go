package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/finvoice/backend/internal/domain/billing"
	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/finvoice/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// InvoiceDocument is the data an invoice PDF is rendered from
type InvoiceDocument struct {
	Company *identity.Company
	Client  *partner.Client
	Invoice *billing.Invoice
	LogoURL string
}

type invoiceTemplateData struct {
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
	CompanyPhone   string
	CompanyTaxNo   string
	LogoURL        string

	ClientName    string
	ClientAddress string
	ClientEmail   string

	Number    string
	Status    string
	IssueDate string
	DueDate   string
	Notes     string

	Items []invoiceTemplateItem

	Subtotal    string
	TaxRate     string
	TaxAmount   string
	Total       string
	PaidAmount  string
	Outstanding string
	ShowPaid    bool
}

type invoiceTemplateItem struct {
	Description string
	Quantity    string
	UnitPrice   string
	Amount      string
}

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Invoice {{.Number}}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 12px; color: #1a1a1a; margin: 0; }
  .header { display: flex; justify-content: space-between; margin-bottom: 32px; }
  .logo { max-height: 64px; }
  h1 { font-size: 24px; margin: 0 0 4px 0; letter-spacing: 1px; }
  .muted { color: #666; }
  .parties { display: flex; justify-content: space-between; margin-bottom: 24px; }
  .party h3 { font-size: 11px; text-transform: uppercase; color: #888; margin: 0 0 6px 0; }
  table.items { width: 100%; border-collapse: collapse; margin-bottom: 16px; }
  table.items th { text-align: left; font-size: 11px; text-transform: uppercase; color: #888;
    border-bottom: 2px solid #ddd; padding: 6px 8px; }
  table.items td { padding: 6px 8px; border-bottom: 1px solid #eee; }
  table.items th.num, table.items td.num { text-align: right; }
  .totals { width: 280px; margin-left: auto; }
  .totals .row { display: flex; justify-content: space-between; padding: 4px 8px; }
  .totals .grand { border-top: 2px solid #1a1a1a; font-weight: bold; font-size: 14px; }
  .status { display: inline-block; padding: 2px 10px; border: 1px solid #888; border-radius: 3px;
    text-transform: uppercase; font-size: 10px; letter-spacing: 1px; }
  .notes { margin-top: 24px; white-space: pre-wrap; }
</style>
</head>
<body>
<div class="header">
  <div>
    <h1>INVOICE</h1>
    <div class="muted">{{.Number}}</div>
    <div><span class="status">{{.Status}}</span></div>
  </div>
  {{if .LogoURL}}<img class="logo" src="{{.LogoURL}}" alt="">{{end}}
</div>

<div class="parties">
  <div class="party">
    <h3>From</h3>
    <div><strong>{{.CompanyName}}</strong></div>
    {{if .CompanyAddress}}<div>{{.CompanyAddress}}</div>{{end}}
    {{if .CompanyEmail}}<div>{{.CompanyEmail}}</div>{{end}}
    {{if .CompanyPhone}}<div>{{.CompanyPhone}}</div>{{end}}
    {{if .CompanyTaxNo}}<div class="muted">Tax No. {{.CompanyTaxNo}}</div>{{end}}
  </div>
  <div class="party">
    <h3>Bill To</h3>
    <div><strong>{{.ClientName}}</strong></div>
    {{if .ClientAddress}}<div>{{.ClientAddress}}</div>{{end}}
    {{if .ClientEmail}}<div>{{.ClientEmail}}</div>{{end}}
  </div>
  <div class="party">
    <h3>Dates</h3>
    <div>Issued: {{.IssueDate}}</div>
    <div>Due: {{.DueDate}}</div>
  </div>
</div>

<table class="items">
  <thead>
    <tr><th>Description</th><th class="num">Qty</th><th class="num">Unit Price</th><th class="num">Amount</th></tr>
  </thead>
  <tbody>
    {{range .Items}}
    <tr>
      <td>{{.Description}}</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{.UnitPrice}}</td>
      <td class="num">{{.Amount}}</td>
    </tr>
    {{end}}
  </tbody>
</table>

<div class="totals">
  <div class="row"><span>Subtotal</span><span>{{.Subtotal}}</span></div>
  <div class="row"><span>Tax ({{.TaxRate}}%)</span><span>{{.TaxAmount}}</span></div>
  <div class="row grand"><span>Total</span><span>{{.Total}}</span></div>
  {{if .ShowPaid}}
  <div class="row"><span>Paid</span><span>{{.PaidAmount}}</span></div>
  <div class="row"><span>Balance Due</span><span>{{.Outstanding}}</span></div>
  {{end}}
</div>

{{if .Notes}}<div class="notes">{{.Notes}}</div>{{end}}
</body>
</html>
`))

// RenderInvoiceHTML produces the invoice document HTML fed to the PDF
// renderer. Money values carry the invoice's currency symbol.
func RenderInvoiceHTML(doc *InvoiceDocument) (string, error) {
	if doc == nil || doc.Invoice == nil || doc.Company == nil || doc.Client == nil {
		return "", fmt.Errorf("invoice document is incomplete")
	}

	inv := doc.Invoice
	fm := newMoneyFormatter(inv.Currency)

	data := invoiceTemplateData{
		CompanyName:    doc.Company.Name,
		CompanyAddress: doc.Company.Address,
		CompanyEmail:   doc.Company.Email,
		CompanyPhone:   doc.Company.Phone,
		CompanyTaxNo:   doc.Company.TaxNumber,
		LogoURL:        doc.LogoURL,
		ClientName:     doc.Client.Name,
		ClientAddress:  doc.Client.Address,
		ClientEmail:    doc.Client.Email,
		Number:         inv.Number,
		Status:         string(inv.Status),
		IssueDate:      inv.IssueDate.Format("Jan 2, 2006"),
		DueDate:        inv.DueDate.Format("Jan 2, 2006"),
		Notes:          inv.Notes,
		Subtotal:       fm.format(inv.Subtotal),
		TaxRate:        inv.TaxRate.StringFixed(2),
		TaxAmount:      fm.format(inv.TaxAmount),
		Total:          fm.format(inv.Total),
		PaidAmount:     fm.format(inv.PaidAmount),
		Outstanding:    fm.format(inv.OutstandingBalance()),
		ShowPaid:       inv.PaidAmount.IsPositive(),
	}
	for _, item := range inv.Items {
		data.Items = append(data.Items, invoiceTemplateItem{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			UnitPrice:   fm.format(item.UnitPrice),
			Amount:      fm.format(item.Amount),
		})
	}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render invoice template: %w", err)
	}
	return buf.String(), nil
}

// InvoiceFooterHTML returns the Chrome footer template with page numbers
func InvoiceFooterHTML(number string, generatedAt time.Time) string {
	return fmt.Sprintf(`<div style="font-size:8px;width:100%%;text-align:center;color:#888;">`+
		`%s &middot; generated %s &middot; page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`,
		template.HTMLEscapeString(number), generatedAt.Format("2006-01-02"))
}

// moneyFormatter formats decimal amounts with an ISO currency symbol.
// Unknown currency codes fall back to the bare code prefix.
type moneyFormatter struct {
	printer *message.Printer
	unit    currency.Unit
	known   bool
	code    string
}

func newMoneyFormatter(code string) *moneyFormatter {
	f := &moneyFormatter{
		printer: message.NewPrinter(language.English),
		code:    code,
	}
	if unit, err := currency.ParseISO(code); err == nil {
		f.unit = unit
		f.known = true
	}
	return f
}

func (f *moneyFormatter) format(amount decimal.Decimal) string {
	v, _ := amount.Round(2).Float64()
	if f.known {
		return f.printer.Sprint(currency.NarrowSymbol(f.unit.Amount(v)))
	}
	return fmt.Sprintf("%s %s", f.code, amount.StringFixed(2))
}
