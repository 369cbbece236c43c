package handler

import (
	"time"

	identityapp "github.com/finvoice/backend/internal/application/identity"
	"github.com/finvoice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// TokenHandler handles API token management endpoints
type TokenHandler struct {
	BaseHandler
	tokenService *identityapp.TokenService
}

// NewTokenHandler creates a new TokenHandler
func NewTokenHandler(tokenService *identityapp.TokenService) *TokenHandler {
	return &TokenHandler{tokenService: tokenService}
}

// IssueTokenRequest is the issue-token request body
type IssueTokenRequest struct {
	Name      string     `json:"name" binding:"required,min=1,max=200"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Issue creates a new API token. The response is the only time the
// plaintext token is ever returned.
func (h *TokenHandler) Issue(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.tokenService.Issue(c.Request.Context(), companyID, userID, identityapp.IssueTokenInput{
		Name:      req.Name,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List returns the company's API tokens without secret material
func (h *TokenHandler) List(c *gin.Context) {
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

	tokens, err := h.tokenService.List(c.Request.Context(), companyID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tokens)
}

// Revoke permanently disables an API token
func (h *TokenHandler) Revoke(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid token ID format")
		return
	}

	if err := h.tokenService.Revoke(c.Request.Context(), companyID, mustUUID(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
