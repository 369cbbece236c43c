package handler

import (
	identityapp "github.com/finvoice/backend/internal/application/identity"
	"github.com/finvoice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles session endpoints: login, refresh, logout, signup
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest is the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=1"`
}

// RefreshRequest carries the refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest carries the refresh token to revoke alongside the session
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SignupRequest is the self-service signup request body
type SignupRequest struct {
	CompanyName string `json:"company_name" binding:"required,min=1,max=200"`
	Currency    string `json:"currency" binding:"omitempty,len=3"`
	Email       string `json:"email" binding:"required,email"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
}

// Login authenticates credentials and returns a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Logout revokes the current session and, when supplied, the refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	// Body is optional; logout still revokes the access token without it
	_ = c.ShouldBindJSON(&req)

	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims, req.RefreshToken); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Signup creates a company with its owner user and logs them in
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), identityapp.SignupInput{
		CompanyName: req.CompanyName,
		Currency:    req.Currency,
		Email:       req.Email,
		Name:        req.Name,
		Password:    req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
