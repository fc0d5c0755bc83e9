package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hygiatech/sanicheck/internal/inspection/service"
)

type InspectionHandler struct {
	svc       *service.InspectionService
	exportSvc *service.ExportService
}

func NewInspectionHandler(svc *service.InspectionService, exportSvc *service.ExportService) *InspectionHandler {
	return &InspectionHandler{svc: svc, exportSvc: exportSvc}
}

// ListInspections GET /api/v1/inspections?status=xxx&establishment_id=xxx
func (h *InspectionHandler) ListInspections(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":           c.Query("status"),
		"establishment_id": c.Query("establishment_id"),
		"uploaded_by":      c.Query("uploaded_by"),
	}

	result, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "Falha ao listar inspeções: "+err.Error())
		return
	}

	Success(c, listResponse(result.Items, page, pageSize, result.Total))
}

// GetInspection GET /api/v1/inspections/:id
func (h *InspectionHandler) GetInspection(c *gin.Context) {
	inspection, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, err.Error())
		return
	}
	Success(c, inspection)
}

// GetTracker GET /api/v1/inspections/:id/tracker
func (h *InspectionHandler) GetTracker(c *gin.Context) {
	tracker, err := h.svc.Tracker(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, err.Error())
		return
	}
	Success(c, tracker)
}

// GetReport GET /api/v1/inspections/:id/report
func (h *InspectionHandler) GetReport(c *gin.Context) {
	report, err := h.svc.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, err.Error())
		return
	}
	Success(c, report)
}

// GetActivity GET /api/v1/inspections/:id/activity
func (h *InspectionHandler) GetActivity(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.Activity(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		InternalError(c, "Falha ao listar atividades: "+err.Error())
		return
	}
	Success(c, listResponse(items, page, pageSize, total))
}

// ExportPlan GET /api/v1/inspections/:id/export
func (h *InspectionHandler) ExportPlan(c *gin.Context) {
	f, filename, err := h.exportSvc.ExportPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "Falha ao gerar planilha: "+err.Error())
	}
}

// ListJobs GET /api/v1/jobs?status=xxx&inspection_id=xxx
func (h *InspectionHandler) ListJobs(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":        c.Query("status"),
		"inspection_id": c.Query("inspection_id"),
	}

	items, total, err := h.svc.Jobs(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "Falha ao listar jobs: "+err.Error())
		return
	}
	Success(c, listResponse(items, page, pageSize, total))
}

// GetJob GET /api/v1/jobs/:id
func (h *InspectionHandler) GetJob(c *gin.Context) {
	job, err := h.svc.Job(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, err.Error())
		return
	}
	Success(c, job)
}

// presigned download links stay valid long enough for one viewing session
const presignExpiry = 15 * time.Minute
