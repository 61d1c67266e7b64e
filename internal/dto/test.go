package dto

// ── 在线测试模块 DTO ──

// CreateOptionRequest 创建选项
type CreateOptionRequest struct {
	Text      string `json:"text"       binding:"required,max=1000"`
	ImageURL  string `json:"image_url"  binding:"omitempty,max=500"`
	IsCorrect bool   `json:"is_correct"`
}

// CreateQuestionRequest 创建题目，选项中必须恰好一个正确答案
type CreateQuestionRequest struct {
	Text     string                `json:"text"      binding:"required,max=2000"`
	ImageURL string                `json:"image_url" binding:"omitempty,max=500"`
	Points   int                   `json:"points"    binding:"omitempty,min=0,max=100"`
	Options  []CreateOptionRequest `json:"options"   binding:"required,min=2,max=10,dive"`
}

// CreateTestRequest 创建测试请求
type CreateTestRequest struct {
	Name            string                  `json:"name"             binding:"required,max=200"`
	Subject         string                  `json:"subject"          binding:"required,max=50"`
	DurationMinutes int                     `json:"duration_minutes" binding:"omitempty,min=0,max=600"`
	Grade           *int                    `json:"grade"            binding:"omitempty,min=1,max=12"`
	IsPractice      bool                    `json:"is_practice"`
	Questions       []CreateQuestionRequest `json:"questions"        binding:"required,min=1,dive"`
}

// EditTestRequest 编辑测试；Questions 非空时整体原子替换现有题目
type EditTestRequest struct {
	Name            *string                 `json:"name"             binding:"omitempty,max=200"`
	Subject         *string                 `json:"subject"          binding:"omitempty,max=50"`
	DurationMinutes *int                    `json:"duration_minutes" binding:"omitempty,min=0,max=600"`
	Grade           *int                    `json:"grade"            binding:"omitempty,min=1,max=12"`
	IsPractice      *bool                   `json:"is_practice"      binding:"omitempty"`
	Questions       []CreateQuestionRequest `json:"questions"        binding:"omitempty,min=1,dive"`
}

// TestListRequest 测试列表查询
type TestListRequest struct {
	PaginationRequest
	Subject string `form:"subject" binding:"omitempty,max=50"`
	Grade   *int   `form:"grade"   binding:"omitempty,min=1,max=12"`
	Search  string `form:"search"  binding:"omitempty,max=200"`
}

// OptionResponse 选项响应，is_correct 仅管理员视图携带
type OptionResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	ImageURL  string `json:"image_url,omitempty"`
	IsCorrect *bool  `json:"is_correct,omitempty"`
}

// QuestionResponse 题目响应
type QuestionResponse struct {
	ID       string           `json:"id"`
	Text     string           `json:"text"`
	ImageURL string           `json:"image_url,omitempty"`
	Points   int              `json:"points"`
	Options  []OptionResponse `json:"options"`
}

// TestResponse 测试摘要
type TestResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Subject         string `json:"subject"`
	DurationMinutes int    `json:"duration_minutes"`
	Grade           *int   `json:"grade,omitempty"`
	IsPractice      bool   `json:"is_practice"`
	QuestionCount   int    `json:"question_count"`
	TotalPoints     int    `json:"total_points"`
	CreatedBy       string `json:"created_by,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// TestDetailResponse 测试详情，含题目与分配统计
type TestDetailResponse struct {
	TestResponse
	Questions      []QuestionResponse `json:"questions"`
	AssignedCount  int                `json:"assigned_count"`
	CompletedCount int                `json:"completed_count"`
	AverageScore   *float64           `json:"average_score,omitempty"`
}

// AssignTestRequest 分配测试给学生
type AssignTestRequest struct {
	StudentIDs []string `json:"student_ids" binding:"required,min=1,dive,uuid"`
	ValidUntil *string  `json:"valid_until" binding:"omitempty"` // YYYY-MM-DD
}

// AssignTestResponse 分配结果，已分配过的学生幂等跳过
type AssignTestResponse struct {
	AssignedCount  int `json:"assigned_count"`
	SkippedCount   int `json:"skipped_count"`
	TotalRequested int `json:"total_requested"`
}

// AssignableStudentResponse 可分配学生视图，标记是否已分配
type AssignableStudentResponse struct {
	StudentResponse
	AlreadyAssigned bool `json:"already_assigned"`
}

// ExtendValidityRequest 延长测试有效期
type ExtendValidityRequest struct {
	ValidUntil string `json:"valid_until" binding:"required"` // YYYY-MM-DD
}

// SubmitTestRequest 学生提交答卷，两个 map 的键均为题目 ID，值为选项 ID / 反馈文本
type SubmitTestRequest struct {
	Answers         map[string]string `json:"answers"          binding:"required"`
	Feedback        map[string]string `json:"feedback"         binding:"omitempty"`
	GeneralFeedback string            `json:"general_feedback" binding:"omitempty,max=2000"`
}

// QuestionResult 单题判分结果
type QuestionResult struct {
	QuestionID       string `json:"question_id"`
	SelectedOptionID string `json:"selected_option_id,omitempty"`
	CorrectOptionID  string `json:"correct_option_id,omitempty"`
	IsCorrect        bool   `json:"is_correct"`
	Points           int    `json:"points"`
	EarnedPoints     int    `json:"earned_points"`
}

// SubmitTestResponse 判分汇总
type SubmitTestResponse struct {
	AssignmentID string           `json:"assignment_id"`
	Score        float64          `json:"score"`
	EarnedPoints int              `json:"earned_points"`
	TotalPoints  int              `json:"total_points"`
	Results      []QuestionResult `json:"results"`
}

// AssignedTestResponse 学生视角的已分配测试
type AssignedTestResponse struct {
	AssignmentID string   `json:"assignment_id"`
	TestID       string   `json:"test_id"`
	Name         string   `json:"name"`
	Subject      string   `json:"subject,omitempty"`
	AssignedAt   string   `json:"assigned_at"`
	ValidUntil   *string  `json:"valid_until,omitempty"`
	Completed    bool     `json:"completed"`
	CompletedAt  *string  `json:"completed_at,omitempty"`
	Score        *float64 `json:"score,omitempty"`
	Expired      bool     `json:"expired"`
}

// TakeTestResponse 学生答题视图，选项不含正确答案标记
type TakeTestResponse struct {
	AssignmentID    string             `json:"assignment_id"`
	TestID          string             `json:"test_id"`
	Name            string             `json:"name"`
	Subject         string             `json:"subject"`
	DurationMinutes int                `json:"duration_minutes"`
	Questions       []QuestionResponse `json:"questions"`
}

// AnswerResultResponse 已完成测试的单题回顾
type AnswerResultResponse struct {
	QuestionID       string `json:"question_id"`
	QuestionText     string `json:"question_text"`
	SelectedOptionID string `json:"selected_option_id,omitempty"`
	SelectedText     string `json:"selected_text,omitempty"`
	CorrectOptionID  string `json:"correct_option_id,omitempty"`
	CorrectText      string `json:"correct_text,omitempty"`
	IsCorrect        bool   `json:"is_correct"`
	Points           int    `json:"points"`
	Feedback         string `json:"feedback,omitempty"`
}

// ResultsResponse 已完成测试的成绩单
type ResultsResponse struct {
	AssignmentID    string                 `json:"assignment_id"`
	TestID          string                 `json:"test_id"`
	Name            string                 `json:"name"`
	StudentID       string                 `json:"student_id"`
	StudentName     string                 `json:"student_name"`
	Score           float64                `json:"score"`
	CompletedAt     string                 `json:"completed_at"`
	GeneralFeedback string                 `json:"general_feedback,omitempty"`
	Answers         []AnswerResultResponse `json:"answers"`
}
