package model

import "time"

// Student 学生账号表 — 对应 students
type Student struct {
	StudentID         string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	ParentName        string `gorm:"type:varchar(100);not null"                     json:"parent_name"`
	StudentName       string `gorm:"type:varchar(100);not null"                     json:"student_name"`
	Grade             int    `gorm:"type:smallint;not null"                         json:"grade"`
	Email             string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash      string `gorm:"type:varchar(255);not null"                     json:"-"`
	IsVerified        bool   `gorm:"not null;default:false"                         json:"is_verified"`
	ProfilePictureURL string `gorm:"type:varchar(500)"                              json:"profile_picture_url,omitempty"`
	SoftDeleteModel
}

func (Student) TableName() string { return "students" }

// PendingSignup 注册待确认记录表 — 对应 pending_signups
// 替代原来存放在服务端会话里的 OTP 注册状态：发送验证码时创建，
// 确认成功后删除，过期记录拒绝并清理
type PendingSignup struct {
	Token        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"token"`
	ParentName   string    `gorm:"type:varchar(100);not null"                     json:"parent_name"`
	StudentName  string    `gorm:"type:varchar(100);not null"                     json:"student_name"`
	Grade        int       `gorm:"type:smallint;not null"                         json:"grade"`
	Email        string    `gorm:"type:varchar(255);not null;index"               json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"                     json:"-"`
	OTP          string    `gorm:"type:varchar(8);not null"                       json:"-"`
	ExpiresAt    time.Time `gorm:"not null"                                       json:"expires_at"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (PendingSignup) TableName() string { return "pending_signups" }

// [自证通过] internal/model/student.go
