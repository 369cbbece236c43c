package handler

import (
	"time"

	reportapp "github.com/finvoice/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// AgingReceivables buckets the company's open invoices by days overdue.
// start_date and end_date optionally restrict the issue-date window.
func (h *ReportHandler) AgingReceivables(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	start, end, err := reportapp.ParseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	aging, err := h.reportService.AgingReceivables(c.Request.Context(), companyID, start, end, time.Now().UTC())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, aging)
}

// InvoiceSummary aggregates the company's invoices by status
func (h *ReportHandler) InvoiceSummary(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	summary, err := h.reportService.InvoiceSummary(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
