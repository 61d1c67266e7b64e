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
	ErrTestNotFound         = errors.New("测试不存在")
	ErrInvalidCorrectOption = errors.New("每道题必须恰好有一个正确选项")
)

// TestService 测试管理业务接口（管理端）
type TestService interface {
	Create(ctx context.Context, adminID string, req *dto.CreateTestRequest) (*dto.TestDetailResponse, error)
	Get(ctx context.Context, id string) (*dto.TestDetailResponse, error)
	List(ctx context.Context, req *dto.TestListRequest) ([]dto.TestResponse, int64, error)
	// Edit 更新测试元信息；请求携带题目时整体原子替换
	Edit(ctx context.Context, id string, req *dto.EditTestRequest) (*dto.TestDetailResponse, error)
	Delete(ctx context.Context, id string) error
	// StudentsForAssignment 列出测试年级下的学生并标记是否已分配
	StudentsForAssignment(ctx context.Context, testID string) ([]dto.AssignableStudentResponse, error)
}

type testService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTestService 创建 TestService 实例
func NewTestService(repo *repository.Repository, logger *zap.Logger) TestService {
	return &testService{repo: repo, logger: logger}
}

func (s *testService) Create(ctx context.Context, adminID string, req *dto.CreateTestRequest) (*dto.TestDetailResponse, error) {
	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	test := &model.Test{
		Name:            req.Name,
		Subject:         req.Subject,
		DurationMinutes: req.DurationMinutes,
		Grade:           req.Grade,
		IsPractice:      req.IsPractice,
		Questions:       questions,
	}
	if adminID != "" {
		test.CreatedBy = &adminID
	}

	if err := s.repo.Test.CreateWithQuestions(ctx, test); err != nil {
		s.logger.Error("创建测试失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("测试创建成功",
		zap.String("test_id", test.TestID),
		zap.Int("questions", len(test.Questions)))

	return s.Get(ctx, test.TestID)
}

func (s *testService) Get(ctx context.Context, id string) (*dto.TestDetailResponse, error) {
	test, err := s.repo.Test.GetWithQuestions(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestNotFound
		}
		s.logger.Error("查询测试失败", zap.Error(err))
		return nil, err
	}

	assignments, err := s.repo.Assignment.ListByTest(ctx, id)
	if err != nil {
		s.logger.Error("查询测试分配失败", zap.Error(err))
		return nil, err
	}

	detail := &dto.TestDetailResponse{
		TestResponse: toTestResponse(test),
		Questions:    make([]dto.QuestionResponse, 0, len(test.Questions)),
	}
	for i := range test.Questions {
		detail.Questions = append(detail.Questions, toQuestionResponse(&test.Questions[i], true))
	}

	detail.AssignedCount = len(assignments)
	var scoreSum float64
	for i := range assignments {
		if assignments[i].Completed {
			detail.CompletedCount++
			if assignments[i].Score != nil {
				scoreSum += *assignments[i].Score
			}
		}
	}
	if detail.CompletedCount > 0 {
		avg := scoreSum / float64(detail.CompletedCount)
		detail.AverageScore = &avg
	}

	return detail, nil
}

func (s *testService) List(ctx context.Context, req *dto.TestListRequest) ([]dto.TestResponse, int64, error) {
	filter := repository.TestFilter{
		Subject: req.Subject,
		Grade:   req.Grade,
		Search:  req.Search,
	}
	tests, total, err := s.repo.Test.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询测试列表失败", zap.Error(err))
		return nil, 0, err
	}
	list := make([]dto.TestResponse, len(tests))
	for i := range tests {
		list[i] = toTestResponse(&tests[i])
	}
	return list, total, nil
}

func (s *testService) Edit(ctx context.Context, id string, req *dto.EditTestRequest) (*dto.TestDetailResponse, error) {
	test, err := s.repo.Test.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestNotFound
		}
		s.logger.Error("查询测试失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		test.Name = *req.Name
	}
	if req.Subject != nil {
		test.Subject = *req.Subject
	}
	if req.DurationMinutes != nil {
		test.DurationMinutes = *req.DurationMinutes
	}
	if req.Grade != nil {
		test.Grade = req.Grade
	}
	if req.IsPractice != nil {
		test.IsPractice = *req.IsPractice
	}

	if err := s.repo.Test.Update(ctx, test); err != nil {
		s.logger.Error("更新测试失败", zap.Error(err))
		return nil, err
	}

	if len(req.Questions) > 0 {
		questions, err := buildQuestions(req.Questions)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Test.ReplaceQuestions(ctx, id, questions); err != nil {
			s.logger.Error("替换测试题目失败", zap.Error(err))
			return nil, err
		}
	}

	return s.Get(ctx, id)
}

func (s *testService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Test.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTestNotFound
		}
		s.logger.Error("查询测试失败", zap.Error(err))
		return err
	}
	if err := s.repo.Test.Delete(ctx, id); err != nil {
		s.logger.Error("删除测试失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *testService) StudentsForAssignment(ctx context.Context, testID string) ([]dto.AssignableStudentResponse, error) {
	test, err := s.repo.Test.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestNotFound
		}
		s.logger.Error("查询测试失败", zap.Error(err))
		return nil, err
	}

	var students []model.Student
	if test.Grade != nil {
		students, err = s.repo.Student.ListByGrade(ctx, *test.Grade)
	} else {
		students, _, err = s.repo.Student.List(ctx, repository.StudentFilter{}, 0, 1000)
	}
	if err != nil {
		s.logger.Error("查询学生列表失败", zap.Error(err))
		return nil, err
	}

	assignedIDs, err := s.repo.Assignment.ListStudentIDsByTest(ctx, testID)
	if err != nil {
		s.logger.Error("查询已分配学生失败", zap.Error(err))
		return nil, err
	}
	assigned := make(map[string]struct{}, len(assignedIDs))
	for _, id := range assignedIDs {
		assigned[id] = struct{}{}
	}

	list := make([]dto.AssignableStudentResponse, len(students))
	for i := range students {
		_, already := assigned[students[i].StudentID]
		list[i] = dto.AssignableStudentResponse{
			StudentResponse: toStudentResponse(&students[i]),
			AlreadyAssigned: already,
		}
	}
	return list, nil
}

// buildQuestions 把请求转为模型并校验每题恰好一个正确选项
func buildQuestions(reqs []dto.CreateQuestionRequest) ([]model.Question, error) {
	questions := make([]model.Question, 0, len(reqs))
	for qi, q := range reqs {
		correct := 0
		options := make([]model.Option, 0, len(q.Options))
		for oi, o := range q.Options {
			if o.IsCorrect {
				correct++
			}
			options = append(options, model.Option{
				OptionText: o.Text,
				ImageURL:   o.ImageURL,
				IsCorrect:  o.IsCorrect,
				OrderIndex: oi,
			})
		}
		if correct != 1 {
			return nil, ErrInvalidCorrectOption
		}
		points := q.Points
		if points == 0 {
			points = 1
		}
		questions = append(questions, model.Question{
			QuestionText: q.Text,
			ImageURL:     q.ImageURL,
			Points:       points,
			OrderIndex:   qi,
			Options:      options,
		})
	}
	return questions, nil
}

func toTestResponse(t *model.Test) dto.TestResponse {
	resp := dto.TestResponse{
		ID:              t.TestID,
		Name:            t.Name,
		Subject:         t.Subject,
		DurationMinutes: t.DurationMinutes,
		Grade:           t.Grade,
		IsPractice:      t.IsPractice,
		QuestionCount:   len(t.Questions),
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
	}
	for i := range t.Questions {
		resp.TotalPoints += t.Questions[i].Points
	}
	if t.Creator != nil {
		resp.CreatedBy = t.Creator.Name
	}
	return resp
}

// toQuestionResponse withAnswers 控制是否携带 is_correct（学生答题视图隐藏）
func toQuestionResponse(q *model.Question, withAnswers bool) dto.QuestionResponse {
	resp := dto.QuestionResponse{
		ID:       q.QuestionID,
		Text:     q.QuestionText,
		ImageURL: q.ImageURL,
		Points:   q.Points,
		Options:  make([]dto.OptionResponse, 0, len(q.Options)),
	}
	for i := range q.Options {
		opt := dto.OptionResponse{
			ID:       q.Options[i].OptionID,
			Text:     q.Options[i].OptionText,
			ImageURL: q.Options[i].ImageURL,
		}
		if withAnswers {
			isCorrect := q.Options[i].IsCorrect
			opt.IsCorrect = &isCorrect
		}
		resp.Options = append(resp.Options, opt)
	}
	return resp
}
