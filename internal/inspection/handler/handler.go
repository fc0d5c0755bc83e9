package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"github.com/hygiatech/sanicheck/internal/inspection/service"
)

// Handlers groups all HTTP handlers.
type Handlers struct {
	Auth       *AuthHandler
	Upload     *UploadHandler
	Inspection *InspectionHandler
	Plan       *PlanHandler
	Dashboard  *DashboardHandler
	Admin      *AdminHandler
}

func NewHandlers(
	authSvc *service.AuthService,
	uploadSvc *service.UploadService,
	inspectionSvc *service.InspectionService,
	planSvc *service.PlanService,
	dashboardSvc *service.DashboardService,
	exportSvc *service.ExportService,
	adminSvc *service.AdminService,
) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(authSvc),
		Upload:     NewUploadHandler(uploadSvc),
		Inspection: NewInspectionHandler(inspectionSvc, exportSvc),
		Plan:       NewPlanHandler(planSvc),
		Dashboard:  NewDashboardHandler(dashboardSvc),
		Admin:      NewAdminHandler(adminSvc),
	}
}

// === response helpers ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// TransitionError maps an invalid lifecycle transition to 409 and anything
// else to 500.
func TransitionError(c *gin.Context, err error) {
	var invalid *entity.InvalidTransitionError
	if errors.As(err, &invalid) {
		Conflict(c, invalid.Error())
		return
	}
	InternalError(c, err.Error())
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

func GetUserName(c *gin.Context) string {
	userName, _ := c.Get("user_name")
	if name, ok := userName.(string); ok {
		return name
	}
	return ""
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}

func listResponse(items interface{}, page, pageSize int, total int64) ListResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	}
}
