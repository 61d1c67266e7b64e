package handler

import "skilltree/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Signup     *SignupHandler
	Booking    *BookingHandler
	Student    *StudentHandler
	Material   *MaterialHandler
	Event      *EventHandler
	Test       *TestHandler
	Assignment *AssignmentHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Signup:     NewSignupHandler(svc.Signup),
		Booking:    NewBookingHandler(svc.Booking),
		Student:    NewStudentHandler(svc.Student),
		Material:   NewMaterialHandler(svc.Material),
		Event:      NewEventHandler(svc.Event),
		Test:       NewTestHandler(svc.Test),
		Assignment: NewAssignmentHandler(svc.Assignment),
		Export:     NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
