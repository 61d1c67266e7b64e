package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"skilltree/backend/internal/dto"
	"skilltree/backend/internal/service"
	"skilltree/backend/pkg/response"
)

// TestHandler 测试管理模块 HTTP 处理器（管理端）
type TestHandler struct {
	testSvc service.TestService
}

// NewTestHandler 创建 TestHandler
func NewTestHandler(testSvc service.TestService) *TestHandler {
	return &TestHandler{testSvc: testSvc}
}

// CreateTest 创建测试
// POST /api/v1/admin/tests
func (h *TestHandler) CreateTest(c *gin.Context) {
	var req dto.CreateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	test, err := h.testSvc.Create(c.Request.Context(), adminID, &req)
	if err != nil {
		h.handleTestError(c, err)
		return
	}

	response.Created(c, test)
}

// GetTest 测试详情（含题目与分配统计）
// GET /api/v1/admin/tests/:id
func (h *TestHandler) GetTest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "测试ID不能为空")
		return
	}

	test, err := h.testSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleTestError(c, err)
		return
	}

	response.OK(c, test)
}

// ListTests 测试列表
// GET /api/v1/admin/tests
func (h *TestHandler) ListTests(c *gin.Context) {
	var req dto.TestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.testSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// EditTest 编辑测试，携带题目时整体原子替换
// PUT /api/v1/admin/tests/:id
func (h *TestHandler) EditTest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "测试ID不能为空")
		return
	}

	var req dto.EditTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	test, err := h.testSvc.Edit(c.Request.Context(), id, &req)
	if err != nil {
		h.handleTestError(c, err)
		return
	}

	response.OK(c, test)
}

// DeleteTest 删除测试（级联删除题目与选项）
// DELETE /api/v1/admin/tests/:id
func (h *TestHandler) DeleteTest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "测试ID不能为空")
		return
	}

	if err := h.testSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleTestError(c, err)
		return
	}

	response.OK(c, nil)
}

// StudentsForAssignment 可分配学生列表（标记已分配）
// GET /api/v1/admin/tests/:id/students
func (h *TestHandler) StudentsForAssignment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "测试ID不能为空")
		return
	}

	list, err := h.testSvc.StudentsForAssignment(c.Request.Context(), id)
	if err != nil {
		h.handleTestError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// handleTestError 统一处理测试模块业务错误
func (h *TestHandler) handleTestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTestNotFound):
		response.NotFound(c, 17001, "测试不存在")
	case errors.Is(err, service.ErrInvalidCorrectOption):
		response.BadRequest(c, 17002, "每道题必须恰好有一个正确选项")
	default:
		response.InternalError(c)
	}
}
