package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"skilltree/backend/internal/dto"
	"skilltree/backend/internal/model"
	"skilltree/backend/internal/repository"
)

var (
	ErrMaterialNotFound        = errors.New("学习资料不存在")
	ErrMaterialAlreadyAssigned = errors.New("该资料已分配给此学生")
	ErrAssignmentDateInvalid   = errors.New("有效期日期格式无效，应为 YYYY-MM-DD")
)

// MaterialService 学习资料业务接口
type MaterialService interface {
	Create(ctx context.Context, req *dto.CreateMaterialRequest) (*dto.MaterialResponse, error)
	Get(ctx context.Context, id string) (*dto.MaterialResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateMaterialRequest) (*dto.MaterialResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, req *dto.MaterialListRequest) ([]dto.MaterialResponse, int64, error)
	// ListTopics 按科目列出去重后的主题/子主题，供录入与筛选下拉框使用
	ListTopics(ctx context.Context, subject string) ([]dto.TopicResponse, error)

	Assign(ctx context.Context, studentID, materialID string, req *dto.AssignMaterialRequest) (*dto.StudentMaterialResponse, error)
	ListForStudent(ctx context.Context, studentID string) ([]dto.StudentMaterialResponse, error)
	RemoveAssignment(ctx context.Context, assignmentID string) error
}

type materialService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMaterialService 创建 MaterialService 实例
func NewMaterialService(repo *repository.Repository, logger *zap.Logger) MaterialService {
	return &materialService{repo: repo, logger: logger}
}

func (s *materialService) Create(ctx context.Context, req *dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	material := &model.StudyMaterial{
		FileLink:       req.FileLink,
		Subject:        req.Subject,
		Grades:         model.IntArray(req.Grades),
		Topic:          req.Topic,
		SubTopic:       req.SubTopic,
		ShortVideoLink: req.ShortVideoLink,
	}
	if err := s.repo.Material.Create(ctx, material); err != nil {
		s.logger.Error("创建学习资料失败", zap.Error(err))
		return nil, err
	}
	resp := toMaterialResponse(material)
	return &resp, nil
}

func (s *materialService) Get(ctx context.Context, id string) (*dto.MaterialResponse, error) {
	material, err := s.repo.Material.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		s.logger.Error("查询学习资料失败", zap.Error(err))
		return nil, err
	}
	resp := toMaterialResponse(material)
	return &resp, nil
}

func (s *materialService) Update(ctx context.Context, id string, req *dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	material, err := s.repo.Material.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		s.logger.Error("查询学习资料失败", zap.Error(err))
		return nil, err
	}

	if req.FileLink != nil {
		material.FileLink = *req.FileLink
	}
	if req.Subject != nil {
		material.Subject = *req.Subject
	}
	if req.Grades != nil {
		material.Grades = model.IntArray(req.Grades)
	}
	if req.Topic != nil {
		material.Topic = *req.Topic
	}
	if req.SubTopic != nil {
		material.SubTopic = *req.SubTopic
	}
	if req.ShortVideoLink != nil {
		material.ShortVideoLink = *req.ShortVideoLink
	}

	if err := s.repo.Material.Update(ctx, material); err != nil {
		s.logger.Error("更新学习资料失败", zap.Error(err))
		return nil, err
	}
	resp := toMaterialResponse(material)
	return &resp, nil
}

func (s *materialService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Material.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		s.logger.Error("查询学习资料失败", zap.Error(err))
		return err
	}
	if err := s.repo.Material.Delete(ctx, id); err != nil {
		s.logger.Error("删除学习资料失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *materialService) List(ctx context.Context, req *dto.MaterialListRequest) ([]dto.MaterialResponse, int64, error) {
	filter := repository.MaterialFilter{
		Subject: req.Subject,
		Grade:   req.Grade,
		Topic:   req.Topic,
	}
	materials, total, err := s.repo.Material.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询资料列表失败", zap.Error(err))
		return nil, 0, err
	}
	list := make([]dto.MaterialResponse, len(materials))
	for i := range materials {
		list[i] = toMaterialResponse(&materials[i])
	}
	return list, total, nil
}

func (s *materialService) ListTopics(ctx context.Context, subject string) ([]dto.TopicResponse, error) {
	pairs, err := s.repo.Material.ListTopics(ctx, subject)
	if err != nil {
		s.logger.Error("查询主题列表失败", zap.Error(err))
		return nil, err
	}
	list := make([]dto.TopicResponse, len(pairs))
	for i, p := range pairs {
		list[i] = dto.TopicResponse{Topic: p.Topic, SubTopic: p.SubTopic}
	}
	return list, nil
}

func (s *materialService) Assign(ctx context.Context, studentID, materialID string, req *dto.AssignMaterialRequest) (*dto.StudentMaterialResponse, error) {
	if _, err := time.Parse("2006-01-02", req.ValidUntil); err != nil {
		return nil, ErrAssignmentDateInvalid
	}
	if _, err := s.repo.Student.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	material, err := s.repo.Material.GetByID(ctx, materialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}

	assignment := &model.StudentMaterial{
		StudentID:  studentID,
		MaterialID: materialID,
		Topic:      req.Topic,
		ValidUntil: req.ValidUntil,
	}
	if err := s.repo.Material.Assign(ctx, assignment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMaterialAlreadyAssigned
		}
		s.logger.Error("分配学习资料失败", zap.Error(err))
		return nil, err
	}

	assignment.Material = material
	resp := toStudentMaterialResponse(assignment, time.Now().Format("2006-01-02"))
	return &resp, nil
}

func (s *materialService) ListForStudent(ctx context.Context, studentID string) ([]dto.StudentMaterialResponse, error) {
	assignments, err := s.repo.Material.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生资料失败", zap.Error(err))
		return nil, err
	}
	today := time.Now().Format("2006-01-02")
	list := make([]dto.StudentMaterialResponse, len(assignments))
	for i := range assignments {
		list[i] = toStudentMaterialResponse(&assignments[i], today)
	}
	return list, nil
}

func (s *materialService) RemoveAssignment(ctx context.Context, assignmentID string) error {
	return s.repo.Material.RemoveAssignment(ctx, assignmentID)
}

func toMaterialResponse(m *model.StudyMaterial) dto.MaterialResponse {
	return dto.MaterialResponse{
		ID:             m.MaterialID,
		FileLink:       m.FileLink,
		Subject:        m.Subject,
		Grades:         []int(m.Grades),
		Topic:          m.Topic,
		SubTopic:       m.SubTopic,
		ShortVideoLink: m.ShortVideoLink,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}

// toStudentMaterialResponse today 为 YYYY-MM-DD，用于计算资料是否仍在有效期内
func toStudentMaterialResponse(sm *model.StudentMaterial, today string) dto.StudentMaterialResponse {
	resp := dto.StudentMaterialResponse{
		ID:         sm.StudentMaterialID,
		Topic:      sm.Topic,
		ValidUntil: sm.ValidUntil,
		AssignedAt: sm.AssignedAt.Format(time.RFC3339),
		IsValid:    sm.ValidUntil >= today,
	}
	if sm.Material != nil {
		resp.Material = toMaterialResponse(sm.Material)
	}
	return resp
}
