package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"skilltree/backend/config"
	"skilltree/backend/internal/dto"
	"skilltree/backend/internal/model"
	"skilltree/backend/internal/repository"
	"skilltree/backend/pkg/mailer"
)

var (
	ErrEmailTaken    = errors.New("该邮箱已注册")
	ErrInvalidGrade  = errors.New("年级无效")
	ErrSignupExpired = errors.New("验证码已过期，请重新注册")
	ErrSignupInvalid = errors.New("注册凭证无效")
	ErrOTPMismatch   = errors.New("验证码错误")
)

// SignupService 注册业务接口（两步：发送 OTP、校验 OTP 建号）
type SignupService interface {
	SendOTP(ctx context.Context, req *dto.SignupRequest) (*dto.SignupOTPResponse, error)
	ConfirmOTP(ctx context.Context, req *dto.ConfirmSignupRequest) (*dto.StudentResponse, error)
}

type signupService struct {
	cfg    *config.Config
	repo   *repository.Repository
	mail   mailer.Mailer
	logger *zap.Logger
}

// NewSignupService 创建 SignupService 实例
func NewSignupService(
	cfg *config.Config,
	repo *repository.Repository,
	mail mailer.Mailer,
	logger *zap.Logger,
) SignupService {
	return &signupService{
		cfg:    cfg,
		repo:   repo,
		mail:   mail,
		logger: logger,
	}
}

func (s *signupService) SendOTP(ctx context.Context, req *dto.SignupRequest) (*dto.SignupOTPResponse, error) {
	grade, err := model.ParseGrade(req.Grade)
	if err != nil {
		return nil, ErrInvalidGrade
	}

	// 邮箱已有正式账号则直接拒绝
	if _, err := s.repo.Student.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	otp, err := generateOTP()
	if err != nil {
		s.logger.Error("生成验证码失败", zap.Error(err))
		return nil, err
	}

	// 同邮箱重复注册时旧记录作废，只有最新一封验证码有效
	if err := s.repo.PendingSignup.DeleteByEmail(ctx, req.Email); err != nil {
		s.logger.Error("清理旧注册记录失败", zap.Error(err))
		return nil, err
	}

	pending := &model.PendingSignup{
		ParentName:   req.ParentName,
		StudentName:  req.StudentName,
		Grade:        grade,
		Email:        req.Email,
		PasswordHash: string(hash),
		OTP:          otp,
		ExpiresAt:    time.Now().Add(s.cfg.Auth.SignupOTPTTL),
	}
	if err := s.repo.PendingSignup.Create(ctx, pending); err != nil {
		s.logger.Error("创建注册记录失败", zap.Error(err))
		return nil, err
	}

	subject := "SkillTree 注册验证码"
	body := fmt.Sprintf("你好 %s，\n\n你的注册验证码是：%s\n\n验证码 %d 分钟内有效。",
		req.ParentName, otp, int(s.cfg.Auth.SignupOTPTTL.Minutes()))
	if err := s.mail.Send(req.Email, subject, body); err != nil {
		s.logger.Error("发送验证码邮件失败", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	return &dto.SignupOTPResponse{
		Token:     pending.Token,
		ExpiresAt: pending.ExpiresAt.Format(time.RFC3339),
	}, nil
}

func (s *signupService) ConfirmOTP(ctx context.Context, req *dto.ConfirmSignupRequest) (*dto.StudentResponse, error) {
	pending, err := s.repo.PendingSignup.GetByToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSignupInvalid
		}
		s.logger.Error("查询注册记录失败", zap.Error(err))
		return nil, err
	}

	if time.Now().After(pending.ExpiresAt) {
		// 过期记录顺手清理
		_ = s.repo.PendingSignup.Delete(ctx, pending.Token)
		return nil, ErrSignupExpired
	}

	if pending.OTP != req.OTP {
		return nil, ErrOTPMismatch
	}

	student := &model.Student{
		ParentName:   pending.ParentName,
		StudentName:  pending.StudentName,
		Grade:        pending.Grade,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		IsVerified:   true,
	}
	if err := s.repo.Student.Create(ctx, student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("创建学生账号失败", zap.Error(err))
		return nil, err
	}

	if err := s.repo.PendingSignup.Delete(ctx, pending.Token); err != nil {
		s.logger.Warn("删除注册记录失败", zap.String("token", pending.Token), zap.Error(err))
	}

	s.logger.Info("学生注册成功",
		zap.String("student_id", student.StudentID),
		zap.String("email", student.Email))

	return &dto.StudentResponse{
		ID:          student.StudentID,
		ParentName:  student.ParentName,
		StudentName: student.StudentName,
		Grade:       student.Grade,
		Email:       student.Email,
		IsVerified:  student.IsVerified,
		CreatedAt:   student.CreatedAt.Format(time.RFC3339),
	}, nil
}

// generateOTP 生成 4 位数字验证码（crypto/rand）
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
