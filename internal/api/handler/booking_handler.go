package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"skilltree/backend/internal/dto"
	"skilltree/backend/internal/service"
	"skilltree/backend/pkg/response"
)

// BookingHandler 试听课预约模块 HTTP 处理器
type BookingHandler struct {
	bookingSvc service.BookingService
}

// NewBookingHandler 创建 BookingHandler
func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

// AvailableSlots 查询某日期在请求者时区下的可用时段
// POST /api/v1/bookings/available-slots
func (h *BookingHandler) AvailableSlots(c *gin.Context) {
	var req dto.AvailableSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.bookingSvc.AvailableSlots(c.Request.Context(), &req)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, result)
}

// BookSlot 预约试听课
// POST /api/v1/bookings
func (h *BookingHandler) BookSlot(c *gin.Context) {
	var req dto.BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	booking, err := h.bookingSvc.BookSlot(c.Request.Context(), &req)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.Created(c, booking)
}

// GetBooking 预约详情（确认页）
// GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "预约ID不能为空")
		return
	}

	booking, err := h.bookingSvc.GetBooking(c.Request.Context(), id)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

// ListTimezones 时区选项列表（带 GMT 偏移标签）
// GET /api/v1/bookings/timezones
func (h *BookingHandler) ListTimezones(c *gin.Context) {
	response.OK(c, gin.H{"timezones": h.bookingSvc.ListTimezones()})
}

// ListBookings 预约列表（管理端）
// GET /api/v1/admin/bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	var req dto.BookingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.bookingSvc.ListBookings(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ConfirmBooking 确认预约（管理端）
// POST /api/v1/admin/bookings/:id/confirm
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "预约ID不能为空")
		return
	}

	if err := h.bookingSvc.ConfirmBooking(c.Request.Context(), id); err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleBookingError 统一处理预约模块业务错误
func (h *BookingHandler) handleBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTimezone):
		response.BadRequest(c, 13001, "无法识别的时区")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13002, "日期格式无效")
	case errors.Is(err, service.ErrInvalidSlotTime):
		response.BadRequest(c, 13003, "时间格式无效")
	case errors.Is(err, service.ErrInvalidGrade):
		response.BadRequest(c, 13004, "年级无效")
	case errors.Is(err, service.ErrDateInPast):
		response.BadRequest(c, 13005, "预约日期不能早于今天")
	case errors.Is(err, service.ErrSlotAlreadyBooked):
		response.Conflict(c, 13006, "该时段已被预约")
	case errors.Is(err, service.ErrBookingNotFound):
		response.NotFound(c, 13007, "预约记录不存在")
	default:
		response.InternalError(c)
	}
}
