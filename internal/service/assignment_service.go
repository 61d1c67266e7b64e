package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"skilltree/backend/internal/dto"
	"skilltree/backend/internal/model"
	"skilltree/backend/internal/repository"
)

var (
	ErrAssignmentNotFound   = errors.New("测试分配不存在")
	ErrAssignmentNotOwned   = errors.New("无权操作该测试")
	ErrAlreadyCompleted     = errors.New("该测试已提交，不能重复提交")
	ErrAssignmentExpired    = errors.New("该测试已过有效期")
	ErrNotCompleted         = errors.New("该测试尚未提交")
	ErrValidUntilInvalid    = errors.New("有效期日期格式无效，应为 YYYY-MM-DD")
)

// AssignmentService 测试分配与作答业务接口
type AssignmentService interface {
	// Assign 为多个学生分配测试；已分配的学生幂等跳过
	Assign(ctx context.Context, testID string, req *dto.AssignTestRequest) (*dto.AssignTestResponse, error)
	Revoke(ctx context.Context, assignmentID string) error
	ExtendValidity(ctx context.Context, assignmentID string, req *dto.ExtendValidityRequest) error
	ListForStudent(ctx context.Context, studentID string) ([]dto.AssignedTestResponse, error)
	// TakeTest 学生打开测试：返回题目但不含正确答案
	TakeTest(ctx context.Context, studentID, assignmentID string) (*dto.TakeTestResponse, error)
	// Submit 一次性提交并判分；已完成的分配拒绝再次提交
	Submit(ctx context.Context, studentID, assignmentID string, req *dto.SubmitTestRequest) (*dto.SubmitTestResponse, error)
	// Results 已完成测试的成绩单（学生本人或管理员）
	Results(ctx context.Context, assignmentID string) (*dto.ResultsResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

func (s *assignmentService) Assign(ctx context.Context, testID string, req *dto.AssignTestRequest) (*dto.AssignTestResponse, error) {
	if _, err := s.repo.Test.GetByID(ctx, testID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestNotFound
		}
		s.logger.Error("查询测试失败", zap.Error(err))
		return nil, err
	}
	if req.ValidUntil != nil {
		if _, err := time.Parse("2006-01-02", *req.ValidUntil); err != nil {
			return nil, ErrValidUntilInvalid
		}
	}

	resp := &dto.AssignTestResponse{TotalRequested: len(req.StudentIDs)}
	for _, studentID := range req.StudentIDs {
		if _, err := s.repo.Student.GetByID(ctx, studentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				resp.SkippedCount++
				continue
			}
			s.logger.Error("查询学生失败", zap.Error(err))
			return nil, err
		}

		assignment := &model.AssignedTest{
			TestID:     testID,
			StudentID:  studentID,
			ValidUntil: req.ValidUntil,
		}
		if err := s.repo.Assignment.Create(ctx, assignment); err != nil {
			// (test_id, student_id) 唯一约束冲突视为重复分配，静默跳过
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				resp.SkippedCount++
				continue
			}
			s.logger.Error("创建测试分配失败", zap.Error(err))
			return nil, err
		}
		resp.AssignedCount++
	}

	s.logger.Info("测试分配完成",
		zap.String("test_id", testID),
		zap.Int("assigned", resp.AssignedCount),
		zap.Int("skipped", resp.SkippedCount))
	return resp, nil
}

func (s *assignmentService) Revoke(ctx context.Context, assignmentID string) error {
	if _, err := s.repo.Assignment.GetByID(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		s.logger.Error("查询测试分配失败", zap.Error(err))
		return err
	}
	if err := s.repo.Assignment.Delete(ctx, assignmentID); err != nil {
		s.logger.Error("撤销测试分配失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *assignmentService) ExtendValidity(ctx context.Context, assignmentID string, req *dto.ExtendValidityRequest) error {
	if _, err := time.Parse("2006-01-02", req.ValidUntil); err != nil {
		return ErrValidUntilInvalid
	}
	if err := s.repo.Assignment.UpdateValidUntil(ctx, assignmentID, req.ValidUntil); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		s.logger.Error("延长有效期失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *assignmentService) ListForStudent(ctx context.Context, studentID string) ([]dto.AssignedTestResponse, error) {
	assignments, err := s.repo.Assignment.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询测试分配失败", zap.Error(err))
		return nil, err
	}
	today := time.Now().Format("2006-01-02")
	list := make([]dto.AssignedTestResponse, len(assignments))
	for i := range assignments {
		list[i] = toAssignedTestResponse(&assignments[i], today)
	}
	return list, nil
}

func (s *assignmentService) TakeTest(ctx context.Context, studentID, assignmentID string) (*dto.TakeTestResponse, error) {
	assignment, err := s.getOwnedAssignment(ctx, studentID, assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.Completed {
		return nil, ErrAlreadyCompleted
	}
	if isExpired(assignment, time.Now().Format("2006-01-02")) {
		return nil, ErrAssignmentExpired
	}

	test, err := s.repo.Test.GetWithQuestions(ctx, assignment.TestID)
	if err != nil {
		s.logger.Error("查询测试失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.TakeTestResponse{
		AssignmentID:    assignment.AssignmentID,
		TestID:          test.TestID,
		Name:            test.Name,
		Subject:         test.Subject,
		DurationMinutes: test.DurationMinutes,
		Questions:       make([]dto.QuestionResponse, 0, len(test.Questions)),
	}
	for i := range test.Questions {
		resp.Questions = append(resp.Questions, toQuestionResponse(&test.Questions[i], false))
	}
	return resp, nil
}

func (s *assignmentService) Submit(ctx context.Context, studentID, assignmentID string, req *dto.SubmitTestRequest) (*dto.SubmitTestResponse, error) {
	assignment, err := s.getOwnedAssignment(ctx, studentID, assignmentID)
	if err != nil {
		return nil, err
	}
	// 提交是一次性的：已完成的分配直接拒绝，原成绩不变
	if assignment.Completed {
		return nil, ErrAlreadyCompleted
	}

	test, err := s.repo.Test.GetWithQuestions(ctx, assignment.TestID)
	if err != nil {
		s.logger.Error("查询测试失败", zap.Error(err))
		return nil, err
	}

	// 题目按 order_index 升序判分
	questions := make([]model.Question, len(test.Questions))
	copy(questions, test.Questions)
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].OrderIndex < questions[j].OrderIndex
	})

	var (
		totalPoints  int
		earnedPoints int
		answers      []model.StudentAnswer
		results      []dto.QuestionResult
	)
	for i := range questions {
		q := &questions[i]
		totalPoints += q.Points

		// 该题的唯一正确选项；一个都没有时本题永远判错
		var correctID string
		validOptions := make(map[string]struct{}, len(q.Options))
		for j := range q.Options {
			validOptions[q.Options[j].OptionID] = struct{}{}
			if q.Options[j].IsCorrect {
				correctID = q.Options[j].OptionID
			}
		}

		selectedID, answered := req.Answers[q.QuestionID]
		if answered {
			if _, ok := validOptions[selectedID]; !ok {
				// 选项 ID 无法解析视为未作答，记录但不中断判分
				s.logger.Warn("作答选项不存在，按未作答处理",
					zap.String("question_id", q.QuestionID),
					zap.String("option_id", selectedID))
				answered = false
				selectedID = ""
			}
		}

		isCorrect := answered && correctID != "" && selectedID == correctID
		earned := 0
		if isCorrect {
			earned = q.Points
			earnedPoints += q.Points
		}

		if answered {
			answers = append(answers, model.StudentAnswer{
				AssignmentID:     assignment.AssignmentID,
				QuestionID:       q.QuestionID,
				SelectedOptionID: selectedID,
				IsCorrect:        isCorrect,
				Feedback:         req.Feedback[q.QuestionID],
			})
		}

		results = append(results, dto.QuestionResult{
			QuestionID:       q.QuestionID,
			SelectedOptionID: selectedID,
			CorrectOptionID:  correctID,
			IsCorrect:        isCorrect,
			Points:           q.Points,
			EarnedPoints:     earned,
		})
	}

	// totalPoints 为 0 时成绩直接记 0，避免除零
	score := 0.0
	if totalPoints > 0 {
		score = float64(earnedPoints) / float64(totalPoints) * 100
	}

	assignment.Score = &score
	assignment.StudentFeedback = req.GeneralFeedback
	if err := s.repo.Assignment.SubmitResult(ctx, assignment, answers); err != nil {
		s.logger.Error("保存测试成绩失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("测试提交完成",
		zap.String("assignment_id", assignment.AssignmentID),
		zap.Float64("score", score))

	return &dto.SubmitTestResponse{
		AssignmentID: assignment.AssignmentID,
		Score:        score,
		EarnedPoints: earnedPoints,
		TotalPoints:  totalPoints,
		Results:      results,
	}, nil
}

func (s *assignmentService) Results(ctx context.Context, assignmentID string) (*dto.ResultsResponse, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询测试分配失败", zap.Error(err))
		return nil, err
	}
	if !assignment.Completed {
		return nil, ErrNotCompleted
	}

	test, err := s.repo.Test.GetWithQuestions(ctx, assignment.TestID)
	if err != nil {
		s.logger.Error("查询测试失败", zap.Error(err))
		return nil, err
	}
	storedAnswers, err := s.repo.Assignment.ListAnswers(ctx, assignmentID)
	if err != nil {
		s.logger.Error("查询作答记录失败", zap.Error(err))
		return nil, err
	}
	answerByQuestion := make(map[string]*model.StudentAnswer, len(storedAnswers))
	for i := range storedAnswers {
		answerByQuestion[storedAnswers[i].QuestionID] = &storedAnswers[i]
	}

	resp := &dto.ResultsResponse{
		AssignmentID:    assignment.AssignmentID,
		TestID:          test.TestID,
		Name:            test.Name,
		StudentID:       assignment.StudentID,
		GeneralFeedback: assignment.StudentFeedback,
		Answers:         make([]dto.AnswerResultResponse, 0, len(test.Questions)),
	}
	if assignment.Score != nil {
		resp.Score = *assignment.Score
	}
	if assignment.CompletedAt != nil {
		resp.CompletedAt = assignment.CompletedAt.Format(time.RFC3339)
	}
	if assignment.Student != nil {
		resp.StudentName = assignment.Student.StudentName
	}

	for i := range test.Questions {
		q := &test.Questions[i]
		row := dto.AnswerResultResponse{
			QuestionID:   q.QuestionID,
			QuestionText: q.QuestionText,
			Points:       q.Points,
		}
		optionText := make(map[string]string, len(q.Options))
		for j := range q.Options {
			optionText[q.Options[j].OptionID] = q.Options[j].OptionText
			if q.Options[j].IsCorrect {
				row.CorrectOptionID = q.Options[j].OptionID
				row.CorrectText = q.Options[j].OptionText
			}
		}
		if ans, ok := answerByQuestion[q.QuestionID]; ok {
			row.SelectedOptionID = ans.SelectedOptionID
			row.SelectedText = optionText[ans.SelectedOptionID]
			row.IsCorrect = ans.IsCorrect
			row.Feedback = ans.Feedback
		}
		resp.Answers = append(resp.Answers, row)
	}
	return resp, nil
}

func (s *assignmentService) getOwnedAssignment(ctx context.Context, studentID, assignmentID string) (*model.AssignedTest, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询测试分配失败", zap.Error(err))
		return nil, err
	}
	if assignment.StudentID != studentID {
		return nil, ErrAssignmentNotOwned
	}
	return assignment, nil
}

func isExpired(a *model.AssignedTest, today string) bool {
	return a.ValidUntil != nil && *a.ValidUntil < today
}

func toAssignedTestResponse(a *model.AssignedTest, today string) dto.AssignedTestResponse {
	resp := dto.AssignedTestResponse{
		AssignmentID: a.AssignmentID,
		TestID:       a.TestID,
		AssignedAt:   a.AssignedAt.Format(time.RFC3339),
		ValidUntil:   a.ValidUntil,
		Completed:    a.Completed,
		Score:        a.Score,
		Expired:      isExpired(a, today),
	}
	if a.CompletedAt != nil {
		ts := a.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &ts
	}
	if a.Test != nil {
		resp.Name = a.Test.Name
		resp.Subject = a.Test.Subject
	}
	return resp
}
