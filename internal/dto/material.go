package dto

// ── 学习资料模块 DTO ──

// CreateMaterialRequest 上传学习资料请求
type CreateMaterialRequest struct {
	FileLink       string `json:"file_link"        binding:"required,url,max=500"`
	Subject        string `json:"subject"          binding:"required,oneof=Maths 'Public Speaking' ELA 'Personalized Courses'"`
	Grades         []int  `json:"grades"           binding:"required,min=1,dive,min=1,max=12"`
	Topic          string `json:"topic"            binding:"omitempty,max=200"`
	SubTopic       string `json:"sub_topic"        binding:"omitempty,max=200"`
	ShortVideoLink string `json:"short_video_link" binding:"omitempty,max=1000"`
}

// UpdateMaterialRequest 更新学习资料请求
type UpdateMaterialRequest struct {
	FileLink       *string `json:"file_link"        binding:"omitempty,url,max=500"`
	Subject        *string `json:"subject"          binding:"omitempty,oneof=Maths 'Public Speaking' ELA 'Personalized Courses'"`
	Grades         []int   `json:"grades"           binding:"omitempty,min=1,dive,min=1,max=12"`
	Topic          *string `json:"topic"            binding:"omitempty,max=200"`
	SubTopic       *string `json:"sub_topic"        binding:"omitempty,max=200"`
	ShortVideoLink *string `json:"short_video_link" binding:"omitempty,max=1000"`
}

// MaterialListRequest 资料列表查询参数
type MaterialListRequest struct {
	PaginationRequest
	Subject string `form:"subject" binding:"omitempty"`
	Grade   *int   `form:"grade"   binding:"omitempty,min=1,max=12"`
	Topic   string `form:"topic"   binding:"omitempty,max=200"`
}

// MaterialResponse 学习资料响应
type MaterialResponse struct {
	ID             string `json:"id"`
	FileLink       string `json:"file_link"`
	Subject        string `json:"subject"`
	Grades         []int  `json:"grades"`
	Topic          string `json:"topic,omitempty"`
	SubTopic       string `json:"sub_topic,omitempty"`
	ShortVideoLink string `json:"short_video_link,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// TopicResponse 去重后的主题/子主题组合
type TopicResponse struct {
	Topic    string `json:"topic"`
	SubTopic string `json:"sub_topic,omitempty"`
}

// AssignMaterialRequest 分配资料给学生请求
type AssignMaterialRequest struct {
	ValidUntil string `json:"valid_until" binding:"required"` // YYYY-MM-DD
	Topic      string `json:"topic"       binding:"omitempty,max=200"`
}

// StudentMaterialResponse 学生已分配资料响应
type StudentMaterialResponse struct {
	ID         string           `json:"id"`
	Material   MaterialResponse `json:"material"`
	Topic      string           `json:"topic,omitempty"`
	ValidUntil string           `json:"valid_until"`
	AssignedAt string           `json:"assigned_at"`
	IsValid    bool             `json:"is_valid"`
}
