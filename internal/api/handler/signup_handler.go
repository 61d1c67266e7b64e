package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skilltree/backend/internal/dto"
	"skilltree/backend/internal/service"
	"skilltree/backend/pkg/response"
)

// SignupHandler 注册模块 HTTP 处理器
type SignupHandler struct {
	signupSvc service.SignupService
}

// NewSignupHandler 创建 SignupHandler
func NewSignupHandler(signupSvc service.SignupService) *SignupHandler {
	return &SignupHandler{signupSvc: signupSvc}
}

// Signup 注册第一步：提交资料并发送 OTP 邮件
// POST /api/v1/auth/signup
func (h *SignupHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.signupSvc.SendOTP(c.Request.Context(), &req)
	if err != nil {
		h.handleSignupError(c, err)
		return
	}

	response.OK(c, result)
}

// ConfirmSignup 注册第二步：校验 OTP 并创建账号
// POST /api/v1/auth/signup/confirm
func (h *SignupHandler) ConfirmSignup(c *gin.Context) {
	var req dto.ConfirmSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	student, err := h.signupSvc.ConfirmOTP(c.Request.Context(), &req)
	if err != nil {
		h.handleSignupError(c, err)
		return
	}

	response.Created(c, student)
}

// handleSignupError 统一处理注册模块业务错误
func (h *SignupHandler) handleSignupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, 12001, "该邮箱已注册")
	case errors.Is(err, service.ErrInvalidGrade):
		response.BadRequest(c, 12002, "年级无效")
	case errors.Is(err, service.ErrSignupInvalid):
		response.Error(c, http.StatusBadRequest, 12003, "注册凭证无效")
	case errors.Is(err, service.ErrSignupExpired):
		response.Error(c, http.StatusGone, 12004, "验证码已过期，请重新注册")
	case errors.Is(err, service.ErrOTPMismatch):
		response.BadRequest(c, 12005, "验证码错误")
	default:
		response.InternalError(c)
	}
}
