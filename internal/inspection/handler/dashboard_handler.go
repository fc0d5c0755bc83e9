package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hygiatech/sanicheck/internal/inspection/service"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Manager GET /api/v1/dashboard/manager
func (h *DashboardHandler) Manager(c *gin.Context) {
	dashboard, err := h.svc.Manager(c.Request.Context())
	if err != nil {
		InternalError(c, "Falha ao montar painel: "+err.Error())
		return
	}
	Success(c, dashboard)
}
