package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hygiatech/sanicheck/internal/inspection/service"
)

type AdminHandler struct {
	svc *service.AdminService
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// CreateCompany POST /api/v1/admin/companies
func (h *AdminHandler) CreateCompany(c *gin.Context) {
	var req service.CreateCompanyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Parâmetros inválidos: "+err.Error())
		return
	}
	company, err := h.svc.CreateCompany(c.Request.Context(), req)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, company)
}

// ListCompanies GET /api/v1/admin/companies
func (h *AdminHandler) ListCompanies(c *gin.Context) {
	companies, err := h.svc.ListCompanies(c.Request.Context())
	if err != nil {
		InternalError(c, "Falha ao listar empresas: "+err.Error())
		return
	}
	Success(c, companies)
}

// CreateEstablishment POST /api/v1/admin/establishments
func (h *AdminHandler) CreateEstablishment(c *gin.Context) {
	var req service.CreateEstablishmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Parâmetros inválidos: "+err.Error())
		return
	}
	est, err := h.svc.CreateEstablishment(c.Request.Context(), req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, est)
}

// ListEstablishments GET /api/v1/admin/establishments
func (h *AdminHandler) ListEstablishments(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"company_id":    c.Query("company_id"),
		"consultant_id": c.Query("consultant_id"),
		"status":        c.Query("status"),
	}
	items, total, err := h.svc.ListEstablishments(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "Falha ao listar estabelecimentos: "+err.Error())
		return
	}
	Success(c, listResponse(items, page, pageSize, total))
}

// GetEstablishment GET /api/v1/admin/establishments/:id
func (h *AdminHandler) GetEstablishment(c *gin.Context) {
	est, err := h.svc.GetEstablishment(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, err.Error())
		return
	}
	Success(c, est)
}

// UpdateEstablishment PUT /api/v1/admin/establishments/:id
func (h *AdminHandler) UpdateEstablishment(c *gin.Context) {
	var req service.UpdateEstablishmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Parâmetros inválidos: "+err.Error())
		return
	}
	est, err := h.svc.UpdateEstablishment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, est)
}

// CreateContact POST /api/v1/admin/establishments/:id/contacts
func (h *AdminHandler) CreateContact(c *gin.Context) {
	var req service.CreateContactReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Parâmetros inválidos: "+err.Error())
		return
	}
	contact, err := h.svc.CreateContact(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, contact)
}

// CreateUser POST /api/v1/admin/users
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Parâmetros inválidos: "+err.Error())
		return
	}
	user, err := h.svc.CreateUser(c.Request.Context(), req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, user)
}

// ListUsers GET /api/v1/admin/users?role=CONSULTANT
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context(), c.Query("role"))
	if err != nil {
		InternalError(c, "Falha ao listar usuários: "+err.Error())
		return
	}
	Success(c, users)
}

// UpdateUser PUT /api/v1/admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req service.UpdateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Parâmetros inválidos: "+err.Error())
		return
	}
	user, err := h.svc.UpdateUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, user)
}
