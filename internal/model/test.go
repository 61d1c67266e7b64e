package model

import "time"

// Test 练习测试表 — 对应 tests
// 题目归测试独占所有（级联删除）
type Test struct {
	TestID          string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"test_id"`
	Name            string `gorm:"type:varchar(200);not null"                     json:"name"`
	Subject         string `gorm:"type:varchar(50);not null"                      json:"subject"`
	DurationMinutes int    `gorm:"not null;default:0"                             json:"duration_minutes"`
	Grade           *int   `gorm:"type:smallint"                                  json:"grade,omitempty"`
	IsPractice      bool   `gorm:"not null;default:false"                         json:"is_practice"`
	CreatedBy       *string `gorm:"type:uuid"                                     json:"created_by,omitempty"`
	BaseModel

	// 关联
	Questions []Question `gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	Creator   *AdminUser `gorm:"foreignKey:CreatedBy;references:AdminID"       json:"creator,omitempty"`
}

func (Test) TableName() string { return "tests" }

// Question 题目表 — 对应 questions
type Question struct {
	QuestionID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"question_id"`
	TestID       string `gorm:"type:uuid;not null"                             json:"test_id"`
	QuestionText string `gorm:"type:text;not null"                             json:"question_text"`
	ImageURL     string `gorm:"type:varchar(500)"                              json:"image_url,omitempty"`
	Points       int    `gorm:"not null;default:1"                             json:"points"`
	OrderIndex   int    `gorm:"not null;default:0"                             json:"order_index"`

	// 关联
	Options []Option `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

func (Question) TableName() string { return "questions" }

// Option 选项表 — 对应 options
// 校验规则：每题恰好一个选项 is_correct=true（创建/编辑测试时强制）
type Option struct {
	OptionID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"option_id"`
	QuestionID string `gorm:"type:uuid;not null"                             json:"question_id"`
	OptionText string `gorm:"type:text;not null"                             json:"option_text"`
	ImageURL   string `gorm:"type:varchar(500)"                              json:"image_url,omitempty"`
	IsCorrect  bool   `gorm:"not null;default:false"                         json:"is_correct"`
	OrderIndex int    `gorm:"not null;default:0"                             json:"order_index"`
}

func (Option) TableName() string { return "options" }

// AssignedTest 测试分配表 — 对应 assigned_tests
// (test_id, student_id) 唯一；提交为单向一次性转换：completed 置位后不再接受提交
type AssignedTest struct {
	AssignmentID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	TestID          string     `gorm:"type:uuid;not null"                             json:"test_id"`
	StudentID       string     `gorm:"type:uuid;not null"                             json:"student_id"`
	AssignedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"assigned_at"`
	Completed       bool       `gorm:"not null;default:false"                         json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	Score           *float64   `json:"score,omitempty"` // 百分比，提交前为空
	ValidUntil      *string    `gorm:"type:date"        json:"valid_until,omitempty"` // YYYY-MM-DD
	StudentFeedback string     `gorm:"type:text"        json:"student_feedback,omitempty"`

	// 关联
	Test    *Test    `gorm:"foreignKey:TestID;references:TestID"       json:"test,omitempty"`
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
}

func (AssignedTest) TableName() string { return "assigned_tests" }

// StudentAnswer 学生作答表 — 对应 student_answers
// (assignment_id, question_id) 唯一；is_correct 在提交时计算并固化
type StudentAnswer struct {
	AnswerID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"answer_id"`
	AssignmentID     string    `gorm:"type:uuid;not null"                             json:"assignment_id"`
	QuestionID       string    `gorm:"type:uuid;not null"                             json:"question_id"`
	SelectedOptionID string    `gorm:"type:uuid;not null"                             json:"selected_option_id"`
	IsCorrect        bool      `gorm:"not null"                                       json:"is_correct"`
	Feedback         string    `gorm:"type:text"                                      json:"feedback,omitempty"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (StudentAnswer) TableName() string { return "student_answers" }

// [自证通过] internal/model/test.go
