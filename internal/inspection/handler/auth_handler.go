package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hygiatech/sanicheck/internal/inspection/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Parâmetros inválidos: "+err.Error())
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		Error(c, 40101, err.Error())
		return
	}

	Success(c, pair)
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Parâmetros inválidos: "+err.Error())
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		Error(c, 40101, err.Error())
		return
	}

	Success(c, pair)
}

// Me GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.svc.Me(c.Request.Context(), GetUserID(c))
	if err != nil {
		NotFound(c, err.Error())
		return
	}
	Success(c, user)
}

// Logout POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), GetUserID(c)); err != nil {
		InternalError(c, "Falha ao encerrar sessão: "+err.Error())
		return
	}
	Success(c, gin.H{"logged_out": true})
}
