package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hygiatech/sanicheck/internal/inspection/service"
)

type PlanHandler struct {
	svc *service.PlanService
}

func NewPlanHandler(svc *service.PlanService) *PlanHandler {
	return &PlanHandler{svc: svc}
}

// SavePlan PUT /api/v1/inspections/:id/plan
func (h *PlanHandler) SavePlan(c *gin.Context) {
	var req service.SavePlanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Parâmetros inválidos: "+err.Error())
		return
	}

	plan, err := h.svc.SavePlan(c.Request.Context(), c.Param("id"), req, GetUserID(c), GetUserName(c))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	c.JSON(200, Response{
		Code:    0,
		Message: "Plano salvo com sucesso!",
		Data:    plan,
	})
}

// Approve POST /api/v1/inspections/:id/approve
func (h *PlanHandler) Approve(c *gin.Context) {
	inspection, err := h.svc.Approve(c.Request.Context(), c.Param("id"), GetUserID(c), GetUserName(c))
	if err != nil {
		TransitionError(c, err)
		return
	}
	Success(c, inspection)
}

// StartVerification POST /api/v1/inspections/:id/verification/start
func (h *PlanHandler) StartVerification(c *gin.Context) {
	inspection, err := h.svc.StartVerification(c.Request.Context(), c.Param("id"), GetUserID(c), GetUserName(c))
	if err != nil {
		TransitionError(c, err)
		return
	}
	Success(c, inspection)
}

type reviewReq struct {
	Items []service.ReviewItemReq `json:"items" binding:"required"`
}

// SaveReview PUT /api/v1/inspections/:id/review
func (h *PlanHandler) SaveReview(c *gin.Context) {
	var req reviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Parâmetros inválidos: "+err.Error())
		return
	}

	inspection, err := h.svc.SaveReview(c.Request.Context(), c.Param("id"), req.Items, GetUserID(c), GetUserName(c))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, inspection)
}

// FinishVerification POST /api/v1/inspections/:id/verification/finish
func (h *PlanHandler) FinishVerification(c *gin.Context) {
	inspection, err := h.svc.FinishVerification(c.Request.Context(), c.Param("id"), GetUserID(c), GetUserName(c))
	if err != nil {
		TransitionError(c, err)
		return
	}
	Success(c, inspection)
}

type cancelReq struct {
	Reason string `json:"reason"`
}

// Cancel POST /api/v1/inspections/:id/cancel
func (h *PlanHandler) Cancel(c *gin.Context) {
	var req cancelReq
	c.ShouldBindJSON(&req) // reason is optional

	inspection, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), req.Reason, GetUserID(c), GetUserName(c))
	if err != nil {
		TransitionError(c, err)
		return
	}
	Success(c, inspection)
}

// ShareLink GET /api/v1/inspections/:id/share
func (h *PlanHandler) ShareLink(c *gin.Context) {
	link, err := h.svc.ShareLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, gin.H{"whatsapp_url": link})
}
