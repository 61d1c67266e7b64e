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

var ErrStudentNotFound = errors.New("学生不存在")

// StudentService 学生管理业务接口
type StudentService interface {
	List(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error)
	Get(ctx context.Context, id string) (*dto.StudentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	Delete(ctx context.Context, id string) error
	// Dashboard 聚合学生的资料、日程与测试，一次请求返回
	Dashboard(ctx context.Context, studentID string) (*dto.StudentDashboardResponse, error)
}

type studentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, logger: logger}
}

func (s *studentService) List(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error) {
	filter := repository.StudentFilter{
		Grade:    req.Grade,
		Verified: req.Verified,
		Search:   req.Search,
	}
	students, total, err := s.repo.Student.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询学生列表失败", zap.Error(err))
		return nil, 0, err
	}
	list := make([]dto.StudentResponse, len(students))
	for i := range students {
		list[i] = toStudentResponse(&students[i])
	}
	return list, total, nil
}

func (s *studentService) Get(ctx context.Context, id string) (*dto.StudentResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}
	resp := toStudentResponse(student)
	return &resp, nil
}

func (s *studentService) Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}

	if req.ParentName != nil {
		student.ParentName = *req.ParentName
	}
	if req.StudentName != nil {
		student.StudentName = *req.StudentName
	}
	if req.Grade != nil {
		student.Grade = *req.Grade
	}
	if req.ProfilePictureURL != nil {
		student.ProfilePictureURL = *req.ProfilePictureURL
	}

	if err := s.repo.Student.Update(ctx, student); err != nil {
		s.logger.Error("更新学生失败", zap.Error(err))
		return nil, err
	}
	resp := toStudentResponse(student)
	return &resp, nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Student.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return err
	}
	if err := s.repo.Student.Delete(ctx, id); err != nil {
		s.logger.Error("删除学生失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *studentService) Dashboard(ctx context.Context, studentID string) (*dto.StudentDashboardResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}

	materials, err := s.repo.Material.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生资料失败", zap.Error(err))
		return nil, err
	}
	events, err := s.repo.Event.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生日程失败", zap.Error(err))
		return nil, err
	}
	assignments, err := s.repo.Assignment.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生测试失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.StudentDashboardResponse{
		Student:       toStudentResponse(student),
		Materials:     make([]dto.StudentMaterialResponse, 0, len(materials)),
		Events:        make([]dto.EventResponse, 0, len(events)),
		AssignedTests: []dto.AssignedTestResponse{},
		PracticeTests: []dto.AssignedTestResponse{},
	}
	today := time.Now().Format("2006-01-02")
	for i := range materials {
		resp.Materials = append(resp.Materials, toStudentMaterialResponse(&materials[i], today))
	}
	for i := range events {
		resp.Events = append(resp.Events, toEventResponse(&events[i]))
	}
	for i := range assignments {
		at := toAssignedTestResponse(&assignments[i], today)
		if assignments[i].Test != nil && assignments[i].Test.IsPractice {
			resp.PracticeTests = append(resp.PracticeTests, at)
		} else {
			resp.AssignedTests = append(resp.AssignedTests, at)
		}
	}
	return resp, nil
}

func toStudentResponse(st *model.Student) dto.StudentResponse {
	return dto.StudentResponse{
		ID:                st.StudentID,
		ParentName:        st.ParentName,
		StudentName:       st.StudentName,
		Grade:             st.Grade,
		Email:             st.Email,
		IsVerified:        st.IsVerified,
		ProfilePictureURL: st.ProfilePictureURL,
		CreatedAt:         st.CreatedAt.Format(time.RFC3339),
	}
}
