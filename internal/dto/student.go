package dto

// ── 学生模块 DTO ──

// StudentResponse 学生信息响应（脱敏）
type StudentResponse struct {
	ID                string `json:"id"`
	ParentName        string `json:"parent_name"`
	StudentName       string `json:"student_name"`
	Grade             int    `json:"grade"`
	Email             string `json:"email"`
	IsVerified        bool   `json:"is_verified"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
	CreatedAt         string `json:"created_at"`
}

// StudentListRequest 学生列表查询参数
type StudentListRequest struct {
	PaginationRequest
	Grade    *int   `form:"grade"    binding:"omitempty,min=1,max=12"`
	Verified *bool  `form:"verified" binding:"omitempty"`
	Search   string `form:"search"   binding:"omitempty,max=100"`
}

// UpdateStudentRequest 更新学生信息请求（管理端）
type UpdateStudentRequest struct {
	ParentName        *string `json:"parent_name"         binding:"omitempty,min=2,max=100"`
	StudentName       *string `json:"student_name"        binding:"omitempty,min=2,max=100"`
	Grade             *int    `json:"grade"               binding:"omitempty,min=1,max=12"`
	ProfilePictureURL *string `json:"profile_picture_url" binding:"omitempty,url"`
}

// StudentDashboardResponse 学生仪表盘聚合响应
type StudentDashboardResponse struct {
	Student       StudentResponse           `json:"student"`
	Materials     []StudentMaterialResponse `json:"materials"`
	Events        []EventResponse           `json:"events"`
	AssignedTests []AssignedTestResponse    `json:"assigned_tests"`
	PracticeTests []AssignedTestResponse    `json:"practice_tests"`
}
