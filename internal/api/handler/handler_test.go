package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"

	"skilltree/backend/internal/dto"
	"skilltree/backend/internal/service"
	"skilltree/backend/pkg/jwt"
	"skilltree/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	adminLoginResult *dto.TokenResponse
	adminLoginErr    error
	signinResult     *dto.TokenResponse
	signinErr        error
	logoutErr        error
	refreshResult    *dto.TokenResponse
	refreshErr       error
}

func (m *mockAuthService) AdminLogin(_ context.Context, _ *dto.AdminLoginRequest) (*dto.TokenResponse, error) {
	return m.adminLoginResult, m.adminLoginErr
}
func (m *mockAuthService) StudentSignin(_ context.Context, _ *dto.SigninRequest) (*dto.TokenResponse, error) {
	return m.signinResult, m.signinErr
}
func (m *mockAuthService) Logout(_ context.Context, _ *jwt.Claims) error {
	return m.logoutErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ *dto.RefreshRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}

// ── Mock SignupService ──

type mockSignupService struct {
	sendResult    *dto.SignupOTPResponse
	sendErr       error
	confirmResult *dto.StudentResponse
	confirmErr    error
}

func (m *mockSignupService) SendOTP(_ context.Context, _ *dto.SignupRequest) (*dto.SignupOTPResponse, error) {
	return m.sendResult, m.sendErr
}
func (m *mockSignupService) ConfirmOTP(_ context.Context, _ *dto.ConfirmSignupRequest) (*dto.StudentResponse, error) {
	return m.confirmResult, m.confirmErr
}

// ── Mock BookingService ──

type mockBookingService struct {
	slotsResult   *dto.AvailableSlotsResponse
	slotsErr      error
	bookResult    *dto.BookingResponse
	bookErr       error
	getResult     *dto.BookingResponse
	getErr        error
	listResult    []dto.BookingResponse
	listTotal     int64
	listErr       error
	confirmErr    error
	timezonesList []dto.TimezoneOption
}

func (m *mockBookingService) AvailableSlots(_ context.Context, _ *dto.AvailableSlotsRequest) (*dto.AvailableSlotsResponse, error) {
	return m.slotsResult, m.slotsErr
}
func (m *mockBookingService) BookSlot(_ context.Context, _ *dto.BookSlotRequest) (*dto.BookingResponse, error) {
	return m.bookResult, m.bookErr
}
func (m *mockBookingService) GetBooking(_ context.Context, _ string) (*dto.BookingResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockBookingService) ListBookings(_ context.Context, _ *dto.BookingListRequest) ([]dto.BookingResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockBookingService) ConfirmBooking(_ context.Context, _ string) error {
	return m.confirmErr
}
func (m *mockBookingService) ListTimezones() []dto.TimezoneOption {
	return m.timezonesList
}

// ── Mock AssignmentService ──

type mockAssignmentService struct {
	assignResult  *dto.AssignTestResponse
	assignErr     error
	revokeErr     error
	extendErr     error
	listResult    []dto.AssignedTestResponse
	listErr       error
	takeResult    *dto.TakeTestResponse
	takeErr       error
	submitResult  *dto.SubmitTestResponse
	submitErr     error
	resultsResult *dto.ResultsResponse
	resultsErr    error
}

func (m *mockAssignmentService) Assign(_ context.Context, _ string, _ *dto.AssignTestRequest) (*dto.AssignTestResponse, error) {
	return m.assignResult, m.assignErr
}
func (m *mockAssignmentService) Revoke(_ context.Context, _ string) error {
	return m.revokeErr
}
func (m *mockAssignmentService) ExtendValidity(_ context.Context, _ string, _ *dto.ExtendValidityRequest) error {
	return m.extendErr
}
func (m *mockAssignmentService) ListForStudent(_ context.Context, _ string) ([]dto.AssignedTestResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockAssignmentService) TakeTest(_ context.Context, _, _ string) (*dto.TakeTestResponse, error) {
	return m.takeResult, m.takeErr
}
func (m *mockAssignmentService) Submit(_ context.Context, _, _ string, _ *dto.SubmitTestRequest) (*dto.SubmitTestResponse, error) {
	return m.submitResult, m.submitErr
}
func (m *mockAssignmentService) Results(_ context.Context, _ string) (*dto.ResultsResponse, error) {
	return m.resultsResult, m.resultsErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportTestResults(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupGin() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

func setAuth(c *gin.Context, userID, role string) {
	c.Set("user_id", userID)
	c.Set("role", role)
	c.Set("claims", &jwt.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        "test-jti",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	})
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Signin_Success(t *testing.T) {
	mock := &mockAuthService{
		signinResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
			Role:         jwt.RoleStudent,
		},
	}
	h := NewAuthHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/signin", jsonBody(dto.SigninRequest{
		Email:    "dev@example.com",
		Password: "super-secret-1",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/signin", h.Signin)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Signin_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/signin", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/signin", h.Signin)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Signin_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{signinErr: service.ErrInvalidCredentials})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/signin", jsonBody(dto.SigninRequest{
		Email:    "dev@example.com",
		Password: "wrong-password",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/signin", h.Signin)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Signin_NotVerified(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{signinErr: service.ErrAccountNotVerified})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/signin", jsonBody(dto.SigninRequest{
		Email:    "dev@example.com",
		Password: "super-secret-1",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/signin", h.Signin)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11002 {
		t.Errorf("expected error code 11002, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", h.Logout)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		setAuth(c, "student-1", jwt.RoleStudent)
		h.Logout(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Refresh_Invalid(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrRefreshInvalid})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/refresh", jsonBody(dto.RefreshRequest{
		RefreshToken: "stale-token",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11003 {
		t.Errorf("expected error code 11003, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// SignupHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSignupHandler_Signup_Success(t *testing.T) {
	mock := &mockSignupService{
		sendResult: &dto.SignupOTPResponse{
			Token:     "11111111-1111-1111-1111-111111111111",
			ExpiresAt: time.Now().Add(10 * time.Minute).Format(time.RFC3339),
		},
	}
	h := NewSignupHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/signup", jsonBody(dto.SignupRequest{
		ParentName:  "Asha Nair",
		StudentName: "Dev Nair",
		Grade:       "Grade 7",
		Email:       "dev@example.com",
		Password:    "super-secret-1",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/signup", h.Signup)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestSignupHandler_Signup_EmailTaken(t *testing.T) {
	h := NewSignupHandler(&mockSignupService{sendErr: service.ErrEmailTaken})

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/signup", jsonBody(dto.SignupRequest{
		ParentName:  "Asha Nair",
		StudentName: "Dev Nair",
		Grade:       "7",
		Email:       "dev@example.com",
		Password:    "super-secret-1",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/signup", h.Signup)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12001 {
		t.Errorf("expected error code 12001, got %d", resp.Code)
	}
}

func TestSignupHandler_Confirm_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"InvalidToken", service.ErrSignupInvalid, 400, 12003},
		{"Expired", service.ErrSignupExpired, 410, 12004},
		{"WrongOTP", service.ErrOTPMismatch, 400, 12005},
		{"EmailTaken", service.ErrEmailTaken, 409, 12001},
		{"Internal", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSignupHandler(&mockSignupService{confirmErr: tt.err})

			w := setupGin()
			req := httptest.NewRequest("POST", "/auth/signup/confirm", jsonBody(dto.ConfirmSignupRequest{
				Token: "11111111-1111-1111-1111-111111111111",
				OTP:   "1234",
			}))
			req.Header.Set("Content-Type", "application/json")

			r := gin.New()
			r.POST("/auth/signup/confirm", h.ConfirmSignup)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// BookingHandler Tests
// ═══════════════════════════════════════════════════════════

func TestBookingHandler_AvailableSlots_Success(t *testing.T) {
	mock := &mockBookingService{
		slotsResult: &dto.AvailableSlotsResponse{
			AvailableSlots: []string{"09:00", "10:00"},
		},
	}
	h := NewBookingHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/bookings/available-slots", jsonBody(dto.AvailableSlotsRequest{
		Date:     "2026-03-10",
		Timezone: "Asia/Kolkata",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/bookings/available-slots", h.AvailableSlots)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestBookingHandler_BookSlot_Created(t *testing.T) {
	mock := &mockBookingService{
		bookResult: &dto.BookingResponse{ID: "booking-1", BookingTime: "09:00"},
	}
	h := NewBookingHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/bookings", jsonBody(dto.BookSlotRequest{
		ParentName:  "Asha Nair",
		Email:       "asha@example.com",
		StudentName: "Dev Nair",
		Grade:       "7",
		Date:        "2026-03-10",
		Time:        "09:00",
		Timezone:    "Asia/Kolkata",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/bookings", h.BookSlot)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestBookingHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"InvalidTimezone", service.ErrInvalidTimezone, 400, 13001},
		{"InvalidDate", service.ErrInvalidDate, 400, 13002},
		{"InvalidSlotTime", service.ErrInvalidSlotTime, 400, 13003},
		{"InvalidGrade", service.ErrInvalidGrade, 400, 13004},
		{"DateInPast", service.ErrDateInPast, 400, 13005},
		{"SlotTaken", service.ErrSlotAlreadyBooked, 409, 13006},
		{"NotFound", service.ErrBookingNotFound, 404, 13007},
		{"Internal", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBookingHandler(&mockBookingService{bookErr: tt.err})

			w := setupGin()
			req := httptest.NewRequest("POST", "/bookings", jsonBody(dto.BookSlotRequest{
				ParentName:  "Asha Nair",
				Email:       "asha@example.com",
				StudentName: "Dev Nair",
				Grade:       "7",
				Date:        "2026-03-10",
				Time:        "09:00",
				Timezone:    "Asia/Kolkata",
			}))
			req.Header.Set("Content-Type", "application/json")

			r := gin.New()
			r.POST("/bookings", h.BookSlot)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestBookingHandler_ListTimezones(t *testing.T) {
	mock := &mockBookingService{
		timezonesList: []dto.TimezoneOption{
			{Value: "Asia/Kolkata", Label: "(GMT+05:30) Asia/Kolkata"},
		},
	}
	h := NewBookingHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("GET", "/bookings/timezones", nil)

	r := gin.New()
	r.GET("/bookings/timezones", h.ListTimezones)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AssignmentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAssignmentHandler_SubmitTest_Success(t *testing.T) {
	mock := &mockAssignmentService{
		submitResult: &dto.SubmitTestResponse{
			AssignmentID: "assign-1",
			Score:        100,
		},
	}
	h := NewAssignmentHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/student/assignments/assign-1/submit", jsonBody(dto.SubmitTestRequest{
		Answers: map[string]string{"q-1": "opt-1"},
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/student/assignments/:id/submit", func(c *gin.Context) {
		setAuth(c, "student-1", jwt.RoleStudent)
		h.SubmitTest(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAssignmentHandler_SubmitTest_Unauthenticated(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{})

	w := setupGin()
	req := httptest.NewRequest("POST", "/student/assignments/assign-1/submit", jsonBody(dto.SubmitTestRequest{
		Answers: map[string]string{},
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/student/assignments/:id/submit", h.SubmitTest)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAssignmentHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"TestNotFound", service.ErrTestNotFound, 404, 17001},
		{"AssignmentNotFound", service.ErrAssignmentNotFound, 404, 18001},
		{"AlreadyCompleted", service.ErrAlreadyCompleted, 409, 18002},
		{"Expired", service.ErrAssignmentExpired, 410, 18003},
		{"NotOwned", service.ErrAssignmentNotOwned, 403, 18004},
		{"NotCompleted", service.ErrNotCompleted, 400, 18005},
		{"BadValidUntil", service.ErrValidUntilInvalid, 400, 18006},
		{"Internal", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAssignmentHandler(&mockAssignmentService{takeErr: tt.err})

			w := setupGin()
			req := httptest.NewRequest("GET", "/student/assignments/assign-1/take", nil)

			r := gin.New()
			r.GET("/student/assignments/:id/take", func(c *gin.Context) {
				setAuth(c, "student-1", jwt.RoleStudent)
				h.TakeTest(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestAssignmentHandler_Results_StudentOwnershipEnforced(t *testing.T) {
	mock := &mockAssignmentService{
		resultsResult: &dto.ResultsResponse{
			AssignmentID: "assign-1",
			StudentID:    "student-1",
			Score:        80,
		},
	}
	h := NewAssignmentHandler(mock)

	// 本人可以查看
	w := setupGin()
	req := httptest.NewRequest("GET", "/assignments/assign-1/results", nil)
	r := gin.New()
	r.GET("/assignments/:id/results", func(c *gin.Context) {
		setAuth(c, "student-1", jwt.RoleStudent)
		h.Results(c)
	})
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for owner, got %d", w.Code)
	}

	// 其他学生被拒绝
	w = setupGin()
	req = httptest.NewRequest("GET", "/assignments/assign-1/results", nil)
	r = gin.New()
	r.GET("/assignments/:id/results", func(c *gin.Context) {
		setAuth(c, "student-2", jwt.RoleStudent)
		h.Results(c)
	})
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for other student, got %d", w.Code)
	}

	// 管理员可以查看任意成绩单
	w = setupGin()
	req = httptest.NewRequest("GET", "/assignments/assign-1/results", nil)
	r = gin.New()
	r.GET("/assignments/:id/results", func(c *gin.Context) {
		setAuth(c, "admin-1", jwt.RoleAdmin)
		h.Results(c)
	})
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("excel content"),
		filename: "test_results_20260310.xlsx",
	}
	h := NewExportHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("GET", "/admin/tests/test-1/export", nil)

	r := gin.New()
	r.GET("/admin/tests/:id/export", h.ExportTestResults)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type: %s", ct)
	}
	if w.Header().Get("Content-Disposition") == "" {
		t.Error("expected Content-Disposition header")
	}
}

func TestExportHandler_NoAssignments(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportNoAssignments})

	w := setupGin()
	req := httptest.NewRequest("GET", "/admin/tests/test-1/export", nil)

	r := gin.New()
	r.GET("/admin/tests/:id/export", h.ExportTestResults)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 19001 {
		t.Errorf("expected error code 19001, got %d", resp.Code)
	}
}
