package repository

import (
	"context"

	"gorm.io/gorm"

	"skilltree/backend/internal/model"
)

// EventRepository 学生日程数据访问接口
type EventRepository interface {
	Create(ctx context.Context, event *model.StudentEvent) error
	GetByID(ctx context.Context, id string) (*model.StudentEvent, error)
	Update(ctx context.Context, event *model.StudentEvent) error
	Delete(ctx context.Context, id string) error
	ListByStudent(ctx context.Context, studentID string) ([]model.StudentEvent, error)
	ListByStudentMonth(ctx context.Context, studentID string, year, month int) ([]model.StudentEvent, error)
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo 创建 EventRepository 实例
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.StudentEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.StudentEvent, error) {
	var event model.StudentEvent
	err := r.db.WithContext(ctx).
		Where("event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) Update(ctx context.Context, event *model.StudentEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", id).
		Delete(&model.StudentEvent{}).Error
}

func (r *eventRepo) ListByStudent(ctx context.Context, studentID string) ([]model.StudentEvent, error) {
	var events []model.StudentEvent
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("event_date ASC, start_time ASC").
		Find(&events).Error
	return events, err
}

// ListByStudentMonth 按月过滤基于 IST 派生日期，与日历视图一致
func (r *eventRepo) ListByStudentMonth(ctx context.Context, studentID string, year, month int) ([]model.StudentEvent, error) {
	var events []model.StudentEvent
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("EXTRACT(YEAR FROM event_date_ist) = ? AND EXTRACT(MONTH FROM event_date_ist) = ?", year, month).
		Order("event_date_ist ASC, start_time_ist ASC").
		Find(&events).Error
	return events, err
}
