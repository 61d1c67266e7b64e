package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"skilltree/backend/internal/dto"
	"skilltree/backend/internal/service"
	"skilltree/backend/pkg/response"
)

// EventHandler 学生日程模块 HTTP 处理器
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// CreateEvent 创建日程
// POST /api/v1/student/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Created(c, event)
}

// GetEvent 日程详情
// GET /api/v1/student/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "日程ID不能为空")
		return
	}

	event, err := h.eventSvc.Get(c.Request.Context(), studentID, id)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// UpdateEvent 更新日程
// PUT /api/v1/student/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "日程ID不能为空")
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	event, err := h.eventSvc.Update(c.Request.Context(), studentID, id, &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// DeleteEvent 删除日程
// DELETE /api/v1/student/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "日程ID不能为空")
		return
	}

	if err := h.eventSvc.Delete(c.Request.Context(), studentID, id); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListEvents 日程列表（可按月过滤）
// GET /api/v1/student/events?month=9&year=2026
func (h *EventHandler) ListEvents(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.eventSvc.ListForStudent(c.Request.Context(), studentID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ExportCalendar 导出日程为 .ics 文件
// GET /api/v1/student/events/export
func (h *EventHandler) ExportCalendar(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	content, err := h.eventSvc.ExportICS(c.Request.Context(), studentID)
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "calendar.ics"))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}

// handleEventError 统一处理日程模块业务错误
func (h *EventHandler) handleEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 16001, "日程不存在")
	case errors.Is(err, service.ErrEventNotOwned):
		response.Forbidden(c, 16002, "无权操作该日程")
	case errors.Is(err, service.ErrEventTimeInvalid):
		response.BadRequest(c, 16003, "日程时间格式无效")
	case errors.Is(err, service.ErrEventTimeReversed):
		response.BadRequest(c, 16004, "结束时间必须晚于开始时间")
	default:
		response.InternalError(c)
	}
}
