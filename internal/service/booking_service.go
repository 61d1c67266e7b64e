package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"skilltree/backend/config"
	"skilltree/backend/internal/dto"
	"skilltree/backend/internal/model"
	"skilltree/backend/internal/repository"
)

var (
	ErrInvalidTimezone   = errors.New("无法识别的时区")
	ErrInvalidDate       = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrInvalidSlotTime   = errors.New("时间格式无效，应为 HH:MM")
	ErrDateInPast        = errors.New("预约日期不能早于今天")
	ErrSlotAlreadyBooked = errors.New("该时段已被预约")
	ErrBookingNotFound   = errors.New("预约记录不存在")
)

// BookingService 试听课预约业务接口
type BookingService interface {
	// AvailableSlots 计算某日期在请求者时区下的可用时段，
	// 按时段目录顺序返回 HH:MM 本地时间串
	AvailableSlots(ctx context.Context, req *dto.AvailableSlotsRequest) (*dto.AvailableSlotsResponse, error)
	BookSlot(ctx context.Context, req *dto.BookSlotRequest) (*dto.BookingResponse, error)
	GetBooking(ctx context.Context, id string) (*dto.BookingResponse, error)
	ListBookings(ctx context.Context, req *dto.BookingListRequest) ([]dto.BookingResponse, int64, error)
	ConfirmBooking(ctx context.Context, id string) error
	ListTimezones() []dto.TimezoneOption
}

type bookingService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
	// now 可注入，测试时固定当前时间
	now func() time.Time
}

// NewBookingService 创建 BookingService 实例
func NewBookingService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) BookingService {
	return &bookingService{
		cfg:    cfg,
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *bookingService) AvailableSlots(ctx context.Context, req *dto.AvailableSlotsRequest) (*dto.AvailableSlotsResponse, error) {
	reqLoc, err := time.LoadLocation(req.Timezone)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	bookings, err := s.repo.Booking.ListByDate(ctx, req.Date)
	if err != nil {
		s.logger.Error("查询预约失败", zap.Error(err))
		return nil, err
	}

	// 已占用时段：用预约自身存储的时区还原绝对时刻，
	// 再换算为请求者时区下的本地 HH:MM
	taken := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		instant, err := localInstant(b.BookingDate, b.BookingTime, b.Timezone)
		if err != nil {
			s.logger.Warn("预约记录时区无法解析，跳过",
				zap.String("booking_id", b.BookingID),
				zap.String("timezone", b.Timezone))
			continue
		}
		taken[instant.In(reqLoc).Format("15:04")] = struct{}{}
	}

	// 时段目录定义在参考时区，投影到请求者时区后过滤冲突
	available := make([]string, 0, len(s.cfg.Booking.Slots))
	for _, slot := range s.cfg.Booking.Slots {
		instant, err := localInstant(date.Format("2006-01-02"), slot, s.cfg.Booking.ReferenceTimezone)
		if err != nil {
			return nil, ErrInvalidSlotTime
		}
		local := instant.In(reqLoc).Format("15:04")
		if _, ok := taken[local]; !ok {
			available = append(available, local)
		}
	}

	return &dto.AvailableSlotsResponse{AvailableSlots: available}, nil
}

func (s *bookingService) BookSlot(ctx context.Context, req *dto.BookSlotRequest) (*dto.BookingResponse, error) {
	loc, err := time.LoadLocation(req.Timezone)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	grade, err := model.ParseGrade(req.Grade)
	if err != nil {
		return nil, ErrInvalidGrade
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, loc)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return nil, ErrInvalidSlotTime
	}

	// 预约者本地今天之前的日期拒绝
	today := s.now().In(loc)
	todayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	if date.Before(todayStart) {
		return nil, ErrDateInPast
	}

	// 派生 IST（参考时区）时间，供管理端按统一时区排序查看
	istTime := req.Time
	if instant, err := localInstant(req.Date, req.Time, req.Timezone); err == nil {
		if refLoc, err := time.LoadLocation(s.cfg.Booking.ReferenceTimezone); err == nil {
			istTime = instant.In(refLoc).Format("15:04")
		}
	}

	booking := &model.DemoBooking{
		ParentName:     req.ParentName,
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
		StudentName:    req.StudentName,
		Grade:          grade,
		BookingDate:    req.Date,
		BookingTime:    req.Time,
		Timezone:       req.Timezone,
		BookingTimeIST: istTime,
	}
	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlotAlreadyBooked
		}
		s.logger.Error("创建预约失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("预约成功",
		zap.String("booking_id", booking.BookingID),
		zap.String("date", booking.BookingDate),
		zap.String("time", booking.BookingTime),
		zap.String("timezone", booking.Timezone))

	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id string) (*dto.BookingResponse, error) {
	booking, err := s.repo.Booking.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("查询预约失败", zap.Error(err))
		return nil, err
	}
	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListBookings(ctx context.Context, req *dto.BookingListRequest) ([]dto.BookingResponse, int64, error) {
	filter := repository.BookingFilter{
		Date:      req.Date,
		Confirmed: req.Confirmed,
	}
	bookings, total, err := s.repo.Booking.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询预约列表失败", zap.Error(err))
		return nil, 0, err
	}
	list := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		list[i] = toBookingResponse(&bookings[i])
	}
	return list, total, nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, id string) error {
	if err := s.repo.Booking.Confirm(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("确认预约失败", zap.Error(err))
		return err
	}
	return nil
}

// supportedZones 预约表单展示的时区选项。
// Go 标准库无法枚举 IANA 时区数据库，这里维护一份面向目标用户的列表
var supportedZones = []string{
	"Asia/Kolkata",
	"Asia/Dubai",
	"Asia/Singapore",
	"Asia/Tokyo",
	"Australia/Sydney",
	"Europe/London",
	"Europe/Paris",
	"Europe/Berlin",
	"America/New_York",
	"America/Chicago",
	"America/Denver",
	"America/Los_Angeles",
	"America/Toronto",
	"UTC",
}

func (s *bookingService) ListTimezones() []dto.TimezoneOption {
	now := s.now()
	options := make([]dto.TimezoneOption, 0, len(supportedZones))
	for _, name := range supportedZones {
		loc, err := time.LoadLocation(name)
		if err != nil {
			continue
		}
		_, offset := now.In(loc).Zone()
		options = append(options, dto.TimezoneOption{
			Value: name,
			Label: fmt.Sprintf("(GMT%s) %s", formatOffset(offset), name),
		})
	}
	return options
}

// localInstant 把 (日期, HH:MM, 时区名) 组合为绝对时刻
func localInstant(date, hhmm, tz string) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, loc)
}

func formatOffset(seconds int) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%02d:%02d", sign, seconds/3600, (seconds%3600)/60)
}

func toBookingResponse(b *model.DemoBooking) dto.BookingResponse {
	return dto.BookingResponse{
		ID:             b.BookingID,
		ParentName:     b.ParentName,
		PhoneNumber:    b.PhoneNumber,
		Email:          b.Email,
		StudentName:    b.StudentName,
		Grade:          b.Grade,
		BookingDate:    b.BookingDate,
		BookingTime:    b.BookingTime,
		Timezone:       b.Timezone,
		BookingTimeIST: b.BookingTimeIST,
		IsConfirmed:    b.IsConfirmed,
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
	}
}
