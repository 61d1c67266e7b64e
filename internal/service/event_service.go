package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"skilltree/backend/config"
	"skilltree/backend/internal/dto"
	"skilltree/backend/internal/model"
	"skilltree/backend/internal/repository"
)

var (
	ErrEventNotFound     = errors.New("日程不存在")
	ErrEventNotOwned     = errors.New("无权操作该日程")
	ErrEventTimeInvalid  = errors.New("日程时间格式无效")
	ErrEventTimeReversed = errors.New("结束时间必须晚于开始时间")
)

// EventService 学生日程业务接口
type EventService interface {
	Create(ctx context.Context, studentID string, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	Get(ctx context.Context, studentID, eventID string) (*dto.EventResponse, error)
	Update(ctx context.Context, studentID, eventID string, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	Delete(ctx context.Context, studentID, eventID string) error
	ListForStudent(ctx context.Context, studentID string, req *dto.EventListRequest) ([]dto.EventResponse, error)
	// ExportICS 将学生日程导出为 iCalendar (RFC 5545) 文本
	ExportICS(ctx context.Context, studentID string) (string, error)
}

type eventService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEventService 创建 EventService 实例
func NewEventService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) EventService {
	return &eventService{cfg: cfg, repo: repo, logger: logger}
}

func (s *eventService) Create(ctx context.Context, studentID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if err := validateEventTimes(req.EventDate, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	event := &model.StudentEvent{
		StudentID:   studentID,
		Title:       req.Title,
		Description: req.Description,
		EventType:   req.EventType,
		EventDate:   req.EventDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Timezone:    req.Timezone,
		ClassLink:   req.ClassLink,
		Notes:       req.Notes,
	}
	if event.EventType == "" {
		event.EventType = "Study Session"
	}
	s.deriveIST(event)

	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.logger.Error("创建日程失败", zap.Error(err))
		return nil, err
	}
	resp := toEventResponse(event)
	return &resp, nil
}

func (s *eventService) Get(ctx context.Context, studentID, eventID string) (*dto.EventResponse, error) {
	event, err := s.getOwned(ctx, studentID, eventID)
	if err != nil {
		return nil, err
	}
	resp := toEventResponse(event)
	return &resp, nil
}

func (s *eventService) Update(ctx context.Context, studentID, eventID string, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.getOwned(ctx, studentID, eventID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.EventType != nil {
		event.EventType = *req.EventType
	}
	if req.EventDate != nil {
		event.EventDate = *req.EventDate
	}
	if req.StartTime != nil {
		event.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = *req.EndTime
	}
	if req.Timezone != nil {
		event.Timezone = *req.Timezone
	}
	if req.ClassLink != nil {
		event.ClassLink = *req.ClassLink
	}
	if req.Notes != nil {
		event.Notes = *req.Notes
	}
	if req.IsCompleted != nil {
		event.IsCompleted = *req.IsCompleted
	}

	if err := validateEventTimes(event.EventDate, event.StartTime, event.EndTime); err != nil {
		return nil, err
	}
	s.deriveIST(event)

	if err := s.repo.Event.Update(ctx, event); err != nil {
		s.logger.Error("更新日程失败", zap.Error(err))
		return nil, err
	}
	resp := toEventResponse(event)
	return &resp, nil
}

func (s *eventService) Delete(ctx context.Context, studentID, eventID string) error {
	if _, err := s.getOwned(ctx, studentID, eventID); err != nil {
		return err
	}
	if err := s.repo.Event.Delete(ctx, eventID); err != nil {
		s.logger.Error("删除日程失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *eventService) ListForStudent(ctx context.Context, studentID string, req *dto.EventListRequest) ([]dto.EventResponse, error) {
	var (
		events []model.StudentEvent
		err    error
	)
	if req != nil && req.Month > 0 {
		year := req.Year
		if year == 0 {
			year = time.Now().Year()
		}
		events, err = s.repo.Event.ListByStudentMonth(ctx, studentID, year, req.Month)
	} else {
		events, err = s.repo.Event.ListByStudent(ctx, studentID)
	}
	if err != nil {
		s.logger.Error("查询日程失败", zap.Error(err))
		return nil, err
	}
	list := make([]dto.EventResponse, len(events))
	for i := range events {
		list[i] = toEventResponse(&events[i])
	}
	return list, nil
}

func (s *eventService) ExportICS(ctx context.Context, studentID string) (string, error) {
	events, err := s.repo.Event.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询日程失败", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//SkillTree//Student Calendar//EN")

	for i := range events {
		e := &events[i]
		start, err := localInstant(e.EventDate, e.StartTime, e.Timezone)
		if err != nil {
			s.logger.Warn("日程时区无法解析，跳过导出",
				zap.String("event_id", e.EventID),
				zap.String("timezone", e.Timezone))
			continue
		}
		end, err := localInstant(e.EventDate, e.EndTime, e.Timezone)
		if err != nil {
			continue
		}

		vEvent := cal.AddEvent(fmt.Sprintf("%s@skilltree", e.EventID))
		vEvent.SetCreatedTime(e.CreatedAt)
		vEvent.SetStartAt(start)
		vEvent.SetEndAt(end)
		vEvent.SetSummary(e.Title)
		if e.Description != "" {
			vEvent.SetDescription(e.Description)
		}
		if e.ClassLink != "" {
			vEvent.SetURL(e.ClassLink)
		}
	}

	return cal.Serialize(), nil
}

func (s *eventService) getOwned(ctx context.Context, studentID, eventID string) (*model.StudentEvent, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询日程失败", zap.Error(err))
		return nil, err
	}
	if event.StudentID != studentID {
		return nil, ErrEventNotOwned
	}
	return event, nil
}

// deriveIST 把事件本地时间换算为参考时区（IST）写入派生字段。
// 时区无法识别时回退为原值，保持日程可见
func (s *eventService) deriveIST(event *model.StudentEvent) {
	refLoc, err := time.LoadLocation(s.cfg.Booking.ReferenceTimezone)
	if err != nil {
		event.EventDateIST = event.EventDate
		event.StartTimeIST = event.StartTime
		event.EndTimeIST = event.EndTime
		return
	}

	start, errStart := localInstant(event.EventDate, event.StartTime, event.Timezone)
	end, errEnd := localInstant(event.EventDate, event.EndTime, event.Timezone)
	if errStart != nil || errEnd != nil {
		s.logger.Warn("日程时区无法识别，IST 字段回退为原值",
			zap.String("timezone", event.Timezone))
		event.EventDateIST = event.EventDate
		event.StartTimeIST = event.StartTime
		event.EndTimeIST = event.EndTime
		return
	}

	startIST := start.In(refLoc)
	event.EventDateIST = startIST.Format("2006-01-02")
	event.StartTimeIST = startIST.Format("15:04")
	event.EndTimeIST = end.In(refLoc).Format("15:04")
}

func validateEventTimes(date, start, end string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrEventTimeInvalid
	}
	st, err := time.Parse("15:04", start)
	if err != nil {
		return ErrEventTimeInvalid
	}
	et, err := time.Parse("15:04", end)
	if err != nil {
		return ErrEventTimeInvalid
	}
	if !et.After(st) {
		return ErrEventTimeReversed
	}
	return nil
}

func toEventResponse(e *model.StudentEvent) dto.EventResponse {
	return dto.EventResponse{
		ID:           e.EventID,
		StudentID:    e.StudentID,
		Title:        e.Title,
		Description:  e.Description,
		EventType:    e.EventType,
		EventDate:    e.EventDate,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		Timezone:     e.Timezone,
		ClassLink:    e.ClassLink,
		EventDateIST: e.EventDateIST,
		StartTimeIST: e.StartTimeIST,
		EndTimeIST:   e.EndTimeIST,
		IsCompleted:  e.IsCompleted,
		Notes:        e.Notes,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
	}
}
