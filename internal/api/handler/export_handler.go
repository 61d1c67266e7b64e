package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"skilltree/backend/internal/service"
	"skilltree/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器（管理端）
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportTestResults 导出测试成绩表为 Excel
// GET /api/v1/admin/tests/:id/export
func (h *ExportHandler) ExportTestResults(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "测试ID不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportTestResults(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// handleExportError 统一处理导出模块业务错误
func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTestNotFound):
		response.NotFound(c, 17001, "测试不存在")
	case errors.Is(err, service.ErrExportNoAssignments):
		response.NotFound(c, 19001, "该测试尚未分配给任何学生")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
