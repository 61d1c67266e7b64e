package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"skilltree/backend/internal/dto"
	"skilltree/backend/internal/service"
	"skilltree/backend/pkg/response"
)

// MaterialHandler 学习资料模块 HTTP 处理器
type MaterialHandler struct {
	materialSvc service.MaterialService
}

// NewMaterialHandler 创建 MaterialHandler
func NewMaterialHandler(materialSvc service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialSvc: materialSvc}
}

// CreateMaterial 上传学习资料（管理端）
// POST /api/v1/admin/materials
func (h *MaterialHandler) CreateMaterial(c *gin.Context) {
	var req dto.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	material, err := h.materialSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleMaterialError(c, err)
		return
	}

	response.Created(c, material)
}

// GetMaterial 资料详情（管理端）
// GET /api/v1/admin/materials/:id
func (h *MaterialHandler) GetMaterial(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "资料ID不能为空")
		return
	}

	material, err := h.materialSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleMaterialError(c, err)
		return
	}

	response.OK(c, material)
}

// UpdateMaterial 更新资料（管理端）
// PUT /api/v1/admin/materials/:id
func (h *MaterialHandler) UpdateMaterial(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "资料ID不能为空")
		return
	}

	var req dto.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	material, err := h.materialSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleMaterialError(c, err)
		return
	}

	response.OK(c, material)
}

// DeleteMaterial 删除资料（管理端）
// DELETE /api/v1/admin/materials/:id
func (h *MaterialHandler) DeleteMaterial(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "资料ID不能为空")
		return
	}

	if err := h.materialSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleMaterialError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListMaterials 资料列表（管理端）
// GET /api/v1/admin/materials
func (h *MaterialHandler) ListMaterials(c *gin.Context) {
	var req dto.MaterialListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.materialSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ListTopics 主题/子主题下拉选项（管理端）
// GET /api/v1/admin/materials/topics?subject=Maths
func (h *MaterialHandler) ListTopics(c *gin.Context) {
	list, err := h.materialSvc.ListTopics(c.Request.Context(), c.Query("subject"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// AssignMaterial 分配资料给学生（管理端）
// POST /api/v1/admin/students/:id/materials/:materialId
func (h *MaterialHandler) AssignMaterial(c *gin.Context) {
	studentID := c.Param("id")
	materialID := c.Param("materialId")
	if studentID == "" || materialID == "" {
		response.BadRequest(c, 10001, "学生ID和资料ID不能为空")
		return
	}

	var req dto.AssignMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	assignment, err := h.materialSvc.Assign(c.Request.Context(), studentID, materialID, &req)
	if err != nil {
		h.handleMaterialError(c, err)
		return
	}

	response.Created(c, assignment)
}

// RemoveAssignment 取消资料分配（管理端）
// DELETE /api/v1/admin/material-assignments/:id
func (h *MaterialHandler) RemoveAssignment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "分配ID不能为空")
		return
	}

	if err := h.materialSvc.RemoveAssignment(c.Request.Context(), id); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// MyMaterials 学生查看本人资料
// GET /api/v1/student/materials
func (h *MaterialHandler) MyMaterials(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.materialSvc.ListForStudent(c.Request.Context(), studentID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// handleMaterialError 统一处理资料模块业务错误
func (h *MaterialHandler) handleMaterialError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMaterialNotFound):
		response.NotFound(c, 15001, "学习资料不存在")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 14001, "学生不存在")
	case errors.Is(err, service.ErrMaterialAlreadyAssigned):
		response.Conflict(c, 15002, "该资料已分配给此学生")
	case errors.Is(err, service.ErrAssignmentDateInvalid):
		response.BadRequest(c, 15003, "有效期日期格式无效")
	default:
		response.InternalError(c)
	}
}
