package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"skilltree/backend/internal/model"
)

// PendingSignupRepository 注册待确认记录数据访问接口
type PendingSignupRepository interface {
	Create(ctx context.Context, signup *model.PendingSignup) error
	GetByToken(ctx context.Context, token string) (*model.PendingSignup, error)
	Delete(ctx context.Context, token string) error
	DeleteByEmail(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type pendingSignupRepo struct {
	db *gorm.DB
}

// NewPendingSignupRepo 创建 PendingSignupRepository 实例
func NewPendingSignupRepo(db *gorm.DB) PendingSignupRepository {
	return &pendingSignupRepo{db: db}
}

func (r *pendingSignupRepo) Create(ctx context.Context, signup *model.PendingSignup) error {
	return r.db.WithContext(ctx).Create(signup).Error
}

func (r *pendingSignupRepo) GetByToken(ctx context.Context, token string) (*model.PendingSignup, error) {
	var signup model.PendingSignup
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&signup).Error
	if err != nil {
		return nil, err
	}
	return &signup, nil
}

func (r *pendingSignupRepo) Delete(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&model.PendingSignup{}).Error
}

// DeleteByEmail 重发验证码前清理同邮箱的旧记录
func (r *pendingSignupRepo) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Where("email = ?", email).
		Delete(&model.PendingSignup{}).Error
}

func (r *pendingSignupRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&model.PendingSignup{})
	return result.RowsAffected, result.Error
}
