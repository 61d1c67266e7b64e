package dto

// ── 学生日程模块 DTO ──

// CreateEventRequest 创建日程请求，时间均为学生本地时区
type CreateEventRequest struct {
	Title       string `json:"title"       binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	EventType   string `json:"event_type"  binding:"omitempty,oneof='Study Session' 'Test/Practice'"`
	EventDate   string `json:"event_date"  binding:"required"` // YYYY-MM-DD
	StartTime   string `json:"start_time"  binding:"required"` // HH:MM
	EndTime     string `json:"end_time"    binding:"required"`
	Timezone    string `json:"timezone"    binding:"required,max=50"`
	ClassLink   string `json:"class_link"  binding:"omitempty,max=500"`
	Notes       string `json:"notes"       binding:"omitempty,max=2000"`
}

// UpdateEventRequest 更新日程请求
type UpdateEventRequest struct {
	Title       *string `json:"title"        binding:"omitempty,max=200"`
	Description *string `json:"description"  binding:"omitempty,max=2000"`
	EventType   *string `json:"event_type"   binding:"omitempty,oneof='Study Session' 'Test/Practice'"`
	EventDate   *string `json:"event_date"   binding:"omitempty"`
	StartTime   *string `json:"start_time"   binding:"omitempty"`
	EndTime     *string `json:"end_time"     binding:"omitempty"`
	Timezone    *string `json:"timezone"     binding:"omitempty,max=50"`
	ClassLink   *string `json:"class_link"   binding:"omitempty,max=500"`
	Notes       *string `json:"notes"        binding:"omitempty,max=2000"`
	IsCompleted *bool   `json:"is_completed" binding:"omitempty"`
}

// EventListRequest 按月查询日程
type EventListRequest struct {
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
	Year  int `form:"year"  binding:"omitempty,min=2000,max=2100"`
}

// EventResponse 日程响应，同时携带学生本地时间与 IST 时间
type EventResponse struct {
	ID           string `json:"id"`
	StudentID    string `json:"student_id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	EventType    string `json:"event_type"`
	EventDate    string `json:"event_date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Timezone     string `json:"timezone"`
	ClassLink    string `json:"class_link,omitempty"`
	EventDateIST string `json:"event_date_ist,omitempty"`
	StartTimeIST string `json:"start_time_ist,omitempty"`
	EndTimeIST   string `json:"end_time_ist,omitempty"`
	IsCompleted  bool   `json:"is_completed"`
	Notes        string `json:"notes,omitempty"`
	CreatedAt    string `json:"created_at"`
}
