package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skilltree/backend/internal/dto"
	"skilltree/backend/internal/service"
	"skilltree/backend/pkg/jwt"
	"skilltree/backend/pkg/response"
)

// AssignmentHandler 测试分配与作答模块 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// AssignTest 分配测试给学生（管理端，幂等）
// POST /api/v1/admin/tests/:id/assign
func (h *AssignmentHandler) AssignTest(c *gin.Context) {
	testID := c.Param("id")
	if testID == "" {
		response.BadRequest(c, 10001, "测试ID不能为空")
		return
	}

	var req dto.AssignTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.assignmentSvc.Assign(c.Request.Context(), testID, &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, result)
}

// RevokeAssignment 撤销测试分配（管理端）
// DELETE /api/v1/admin/assignments/:id
func (h *AssignmentHandler) RevokeAssignment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "分配ID不能为空")
		return
	}

	if err := h.assignmentSvc.Revoke(c.Request.Context(), id); err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// ExtendValidity 延长测试有效期（管理端）
// PATCH /api/v1/admin/assignments/:id/validity
func (h *AssignmentHandler) ExtendValidity(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "分配ID不能为空")
		return
	}

	var req dto.ExtendValidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.assignmentSvc.ExtendValidity(c.Request.Context(), id, &req); err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// MyTests 学生查看本人的测试分配
// GET /api/v1/student/tests
func (h *AssignmentHandler) MyTests(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.assignmentSvc.ListForStudent(c.Request.Context(), studentID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// TakeTest 学生打开测试答题
// GET /api/v1/student/assignments/:id/take
func (h *AssignmentHandler) TakeTest(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "分配ID不能为空")
		return
	}

	result, err := h.assignmentSvc.TakeTest(c.Request.Context(), studentID, id)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, result)
}

// SubmitTest 学生提交答卷并判分（一次性）
// POST /api/v1/student/assignments/:id/submit
func (h *AssignmentHandler) SubmitTest(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "分配ID不能为空")
		return
	}

	var req dto.SubmitTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.assignmentSvc.Submit(c.Request.Context(), studentID, id, &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, result)
}

// Results 成绩单：学生只能看本人的，管理员可看全部
// GET /api/v1/assignments/:id/results
func (h *AssignmentHandler) Results(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "分配ID不能为空")
		return
	}

	result, err := h.assignmentSvc.Results(c.Request.Context(), id)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	if role == jwt.RoleStudent {
		userID, ok := MustGetUserID(c)
		if !ok {
			return
		}
		if result.StudentID != userID {
			response.Forbidden(c, 18004, "无权查看该成绩单")
			return
		}
	}

	response.OK(c, result)
}

// handleAssignmentError 统一处理测试分配模块业务错误
func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTestNotFound):
		response.NotFound(c, 17001, "测试不存在")
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 18001, "测试分配不存在")
	case errors.Is(err, service.ErrAlreadyCompleted):
		response.Conflict(c, 18002, "该测试已提交，不能重复提交")
	case errors.Is(err, service.ErrAssignmentExpired):
		response.Error(c, http.StatusGone, 18003, "该测试已过有效期")
	case errors.Is(err, service.ErrAssignmentNotOwned):
		response.Forbidden(c, 18004, "无权操作该测试")
	case errors.Is(err, service.ErrNotCompleted):
		response.BadRequest(c, 18005, "该测试尚未提交")
	case errors.Is(err, service.ErrValidUntilInvalid):
		response.BadRequest(c, 18006, "有效期日期格式无效")
	default:
		response.InternalError(c)
	}
}
