package handler

import (
	identityapp "github.com/finvoice/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// CompanyHandler handles company profile and logo endpoints
type CompanyHandler struct {
	BaseHandler
	companyService *identityapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *identityapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// UpdateCompanyRequest is the update-company request body
type UpdateCompanyRequest struct {
	Name      string `json:"name" binding:"omitempty,min=1,max=200"`
	LegalName string `json:"legal_name" binding:"omitempty,max=200"`
	TaxNumber string `json:"tax_number" binding:"omitempty,max=100"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone" binding:"omitempty,max=50"`
	Address   string `json:"address" binding:"omitempty,max=500"`
	Currency  string `json:"currency" binding:"omitempty,len=3"`
}

// LogoUploadRequest asks for a presigned upload URL for the given content type
type LogoUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// LogoConfirmRequest confirms that the object at the key was uploaded
type LogoConfirmRequest struct {
	Key string `json:"key" binding:"required"`
}

// Get returns the authenticated company's profile
func (h *CompanyHandler) Get(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	company, err := h.companyService.Get(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// Update changes the company profile
func (h *CompanyHandler) Update(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	company, err := h.companyService.Update(c.Request.Context(), companyID, identityapp.UpdateCompanyInput{
		Name:      req.Name,
		LegalName: req.LegalName,
		TaxNumber: req.TaxNumber,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Currency:  req.Currency,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// RequestLogoUpload returns a presigned URL the client uploads the logo to.
// The object is not part of the company profile until confirmed.
func (h *CompanyHandler) RequestLogoUpload(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req LogoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.companyService.RequestLogoUpload(c.Request.Context(), companyID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ConfirmLogoUpload attaches an uploaded object as the company logo
func (h *CompanyHandler) ConfirmLogoUpload(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req LogoConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	company, err := h.companyService.ConfirmLogoUpload(c.Request.Context(), companyID, req.Key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// LogoDownloadURL returns a short-lived presigned download URL for the logo
func (h *CompanyHandler) LogoDownloadURL(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.companyService.LogoDownloadURL(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
