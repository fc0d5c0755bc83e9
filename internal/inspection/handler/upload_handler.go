package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hygiatech/sanicheck/internal/inspection/service"
)

type UploadHandler struct {
	svc *service.UploadService
}

func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// UploadInspection POST /api/v1/inspections/upload
// multipart form: file + establishment_id
func (h *UploadHandler) UploadInspection(c *gin.Context) {
	establishmentID := c.PostForm("establishment_id")
	if establishmentID == "" {
		BadRequest(c, "establishment_id é obrigatório")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "Arquivo não enviado: "+err.Error())
		return
	}
	defer file.Close()

	result, err := h.svc.Upload(c.Request.Context(), establishmentID, header.Filename, file, header.Size, GetUserID(c), GetUserName(c))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	if result.Duplicate {
		Success(c, result)
		return
	}
	Created(c, result)
}

// GetFileURL GET /api/v1/inspections/:id/file
func (h *UploadHandler) GetFileURL(c *gin.Context) {
	link, err := h.svc.FileLink(c.Request.Context(), c.Param("id"), presignExpiry)
	if err != nil {
		NotFound(c, err.Error())
		return
	}
	Success(c, gin.H{"url": link})
}

// UploadEvidence POST /api/v1/inspections/:id/evidence
// multipart form: file. Returns the stored object path; the client then
// attaches it to an item via the review endpoint.
func (h *UploadHandler) UploadEvidence(c *gin.Context) {
	inspectionID := c.Param("id")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "Arquivo não enviado: "+err.Error())
		return
	}
	defer file.Close()

	objectName, err := h.svc.UploadEvidence(c.Request.Context(), inspectionID, header.Filename, file, header.Size)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	Created(c, gin.H{"evidence_image_url": objectName})
}
