package dto

// ── 试听课预约模块 DTO ──

// AvailableSlotsRequest 查询可用时段请求
type AvailableSlotsRequest struct {
	Date     string `json:"date"     binding:"required"` // YYYY-MM-DD
	Timezone string `json:"timezone" binding:"required"` // IANA 时区名
}

// AvailableSlotsResponse 可用时段响应
// 时段均为请求者时区下的本地 HH:MM，按目录顺序排列
type AvailableSlotsResponse struct {
	AvailableSlots []string `json:"available_slots"`
}

// BookSlotRequest 预约请求
type BookSlotRequest struct {
	ParentName  string `json:"parent_name"  binding:"required,min=2,max=100"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,max=20"`
	Email       string `json:"email"        binding:"required,email"`
	StudentName string `json:"student_name" binding:"required,min=2,max=100"`
	Grade       string `json:"grade"        binding:"required"` // "7" 或 "Grade 7"，入口处规范化
	Date        string `json:"date"         binding:"required"` // YYYY-MM-DD
	Time        string `json:"time"         binding:"required"` // HH:MM（预约者本地时间）
	Timezone    string `json:"timezone"     binding:"required"`
}

// BookingResponse 预约信息响应
type BookingResponse struct {
	ID             string `json:"booking_id"`
	ParentName     string `json:"parent_name"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	Email          string `json:"email"`
	StudentName    string `json:"student_name"`
	Grade          int    `json:"grade"`
	BookingDate    string `json:"booking_date"`
	BookingTime    string `json:"booking_time"`
	Timezone       string `json:"timezone"`
	BookingTimeIST string `json:"booking_time_ist"`
	IsConfirmed    bool   `json:"is_confirmed"`
	CreatedAt      string `json:"created_at"`
}

// BookingListRequest 预约列表查询参数（管理端）
type BookingListRequest struct {
	PaginationRequest
	Date      string `form:"date"      binding:"omitempty"`
	Confirmed *bool  `form:"confirmed" binding:"omitempty"`
}

// TimezoneOption 时区选项（带 GMT 偏移标签）
type TimezoneOption struct {
	Value string `json:"value"` // "Asia/Kolkata"
	Label string `json:"label"` // "(GMT+05:30) Asia/Kolkata"
}
