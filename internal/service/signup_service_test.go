package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"skilltree/backend/internal/dto"
	"skilltree/backend/internal/model"
)

// mockMailer 记录发出的邮件，便于断言验证码内容
type mockMailer struct {
	to      []string
	bodies  []string
	sendErr error
}

func (m *mockMailer) Send(to, subject, body string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.to = append(m.to, to)
	m.bodies = append(m.bodies, body)
	return nil
}

func setupTestSignupService(t *testing.T) (SignupService, *mockRepos, *mockMailer) {
	t.Helper()
	repo, mocks := newMockRepository()
	mail := &mockMailer{}
	return NewSignupService(testAuthConfig(), repo, mail, zap.NewNop()), mocks, mail
}

func validSignupRequest() *dto.SignupRequest {
	return &dto.SignupRequest{
		ParentName:  "Asha Nair",
		StudentName: "Dev Nair",
		Grade:       "Grade 7",
		Email:       "dev@example.com",
		Password:    "super-secret-1",
	}
}

func TestSendOTP_Success(t *testing.T) {
	svc, mocks, mail := setupTestSignupService(t)

	resp, err := svc.SendOTP(context.Background(), validSignupRequest())
	if err != nil {
		t.Fatalf("SendOTP 失败: %v", err)
	}
	if resp.Token == "" {
		t.Error("期望返回注册凭证 token")
	}
	if len(mail.to) != 1 || mail.to[0] != "dev@example.com" {
		t.Fatalf("期望给 dev@example.com 发一封邮件，实际=%v", mail.to)
	}

	pending, err := mocks.pendingSignup.GetByToken(context.Background(), resp.Token)
	if err != nil {
		t.Fatalf("查询注册记录失败: %v", err)
	}
	if len(pending.OTP) != 4 {
		t.Errorf("期望 4 位验证码，实际=%q", pending.OTP)
	}
	if !strings.Contains(mail.bodies[0], pending.OTP) {
		t.Error("邮件正文应包含验证码")
	}
	if pending.Grade != 7 {
		t.Errorf("期望年级 7，实际=%d", pending.Grade)
	}
	// 密码只存哈希
	if pending.PasswordHash == "super-secret-1" {
		t.Error("密码不应明文存储")
	}
}

func TestSendOTP_EmailTaken(t *testing.T) {
	svc, mocks, _ := setupTestSignupService(t)
	if err := mocks.student.Create(context.Background(), &model.Student{
		Email: "dev@example.com", StudentName: "Dev", Grade: 7,
	}); err != nil {
		t.Fatalf("创建学生失败: %v", err)
	}

	_, err := svc.SendOTP(context.Background(), validSignupRequest())
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}
}

func TestSendOTP_InvalidGrade(t *testing.T) {
	svc, _, _ := setupTestSignupService(t)

	req := validSignupRequest()
	req.Grade = "Kindergarten"
	_, err := svc.SendOTP(context.Background(), req)
	if !errors.Is(err, ErrInvalidGrade) {
		t.Errorf("期望 ErrInvalidGrade，实际: %v", err)
	}
}

func TestSendOTP_ResendInvalidatesOld(t *testing.T) {
	svc, mocks, _ := setupTestSignupService(t)

	first, err := svc.SendOTP(context.Background(), validSignupRequest())
	if err != nil {
		t.Fatalf("首次 SendOTP 失败: %v", err)
	}
	second, err := svc.SendOTP(context.Background(), validSignupRequest())
	if err != nil {
		t.Fatalf("二次 SendOTP 失败: %v", err)
	}

	if _, err := mocks.pendingSignup.GetByToken(context.Background(), first.Token); err == nil {
		t.Error("重新注册后旧凭证应作废")
	}
	if _, err := mocks.pendingSignup.GetByToken(context.Background(), second.Token); err != nil {
		t.Errorf("新凭证应有效: %v", err)
	}
}

func TestConfirmOTP_Success(t *testing.T) {
	svc, mocks, _ := setupTestSignupService(t)

	resp, err := svc.SendOTP(context.Background(), validSignupRequest())
	if err != nil {
		t.Fatalf("SendOTP 失败: %v", err)
	}
	pending, _ := mocks.pendingSignup.GetByToken(context.Background(), resp.Token)

	student, err := svc.ConfirmOTP(context.Background(), &dto.ConfirmSignupRequest{
		Token: resp.Token,
		OTP:   pending.OTP,
	})
	if err != nil {
		t.Fatalf("ConfirmOTP 失败: %v", err)
	}
	if !student.IsVerified {
		t.Error("注册完成的账号应标记为已验证")
	}
	if student.Email != "dev@example.com" || student.Grade != 7 {
		t.Errorf("账号资料不符：email=%s grade=%d", student.Email, student.Grade)
	}

	// 注册记录应被消费掉
	if _, err := mocks.pendingSignup.GetByToken(context.Background(), resp.Token); err == nil {
		t.Error("已完成的注册记录应被删除")
	}
	// 建号后可凭原密码登录（哈希已迁移）
	if _, err := mocks.student.GetByEmail(context.Background(), "dev@example.com"); err != nil {
		t.Errorf("应存在正式账号: %v", err)
	}
}

func TestConfirmOTP_WrongCode(t *testing.T) {
	svc, mocks, _ := setupTestSignupService(t)

	resp, err := svc.SendOTP(context.Background(), validSignupRequest())
	if err != nil {
		t.Fatalf("SendOTP 失败: %v", err)
	}
	pending, _ := mocks.pendingSignup.GetByToken(context.Background(), resp.Token)
	wrong := "0000"
	if pending.OTP == wrong {
		wrong = "1111"
	}

	_, err = svc.ConfirmOTP(context.Background(), &dto.ConfirmSignupRequest{
		Token: resp.Token,
		OTP:   wrong,
	})
	if !errors.Is(err, ErrOTPMismatch) {
		t.Errorf("期望 ErrOTPMismatch，实际: %v", err)
	}
	// 验证码错误不消费记录，允许重试
	if _, err := mocks.pendingSignup.GetByToken(context.Background(), resp.Token); err != nil {
		t.Errorf("验证码错误后记录应保留: %v", err)
	}
}

func TestConfirmOTP_Expired(t *testing.T) {
	svc, mocks, _ := setupTestSignupService(t)

	resp, err := svc.SendOTP(context.Background(), validSignupRequest())
	if err != nil {
		t.Fatalf("SendOTP 失败: %v", err)
	}
	pending, _ := mocks.pendingSignup.GetByToken(context.Background(), resp.Token)
	pending.ExpiresAt = time.Now().Add(-time.Minute)

	_, err = svc.ConfirmOTP(context.Background(), &dto.ConfirmSignupRequest{
		Token: resp.Token,
		OTP:   pending.OTP,
	})
	if !errors.Is(err, ErrSignupExpired) {
		t.Fatalf("期望 ErrSignupExpired，实际: %v", err)
	}
	// 过期记录顺手清理
	if _, err := mocks.pendingSignup.GetByToken(context.Background(), resp.Token); err == nil {
		t.Error("过期记录应被清理")
	}
}

func TestConfirmOTP_UnknownToken(t *testing.T) {
	svc, _, _ := setupTestSignupService(t)

	_, err := svc.ConfirmOTP(context.Background(), &dto.ConfirmSignupRequest{
		Token: "11111111-1111-1111-1111-111111111111",
		OTP:   "1234",
	})
	if !errors.Is(err, ErrSignupInvalid) {
		t.Errorf("期望 ErrSignupInvalid，实际: %v", err)
	}
}

func TestGenerateOTP_Format(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := generateOTP()
		if err != nil {
			t.Fatalf("generateOTP 失败: %v", err)
		}
		if len(otp) != 4 {
			t.Fatalf("期望 4 位验证码，实际=%q", otp)
		}
		for _, ch := range otp {
			if ch < '0' || ch > '9' {
				t.Fatalf("验证码应为纯数字，实际=%q", otp)
			}
		}
	}
}
