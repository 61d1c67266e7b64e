package repository

import (
	"context"

	"gorm.io/gorm"

	"skilltree/backend/internal/model"
)

// TestRepository 测试数据访问接口
type TestRepository interface {
	// CreateWithQuestions 在单事务内创建测试及其题目、选项
	CreateWithQuestions(ctx context.Context, test *model.Test) error
	GetByID(ctx context.Context, id string) (*model.Test, error)
	// GetWithQuestions 级联预加载题目与选项，按 order_index 排序
	GetWithQuestions(ctx context.Context, id string) (*model.Test, error)
	Update(ctx context.Context, test *model.Test) error
	// ReplaceQuestions 在单事务内删除旧题目并写入新题目，原子替换
	ReplaceQuestions(ctx context.Context, testID string, questions []model.Question) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TestFilter, offset, limit int) ([]model.Test, int64, error)
}

// TestFilter 测试列表过滤条件
type TestFilter struct {
	Subject string
	Grade   *int
	Search  string
}

type testRepo struct {
	db *gorm.DB
}

// NewTestRepo 创建 TestRepository 实例
func NewTestRepo(db *gorm.DB) TestRepository {
	return &testRepo{db: db}
}

func (r *testRepo) CreateWithQuestions(ctx context.Context, test *model.Test) error {
	// GORM 对关联的级联写入本身在单事务内完成，这里显式包一层
	// 保证后续扩展（如审计日志）仍保持原子性
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(test).Error
	})
}

func (r *testRepo) GetByID(ctx context.Context, id string) (*model.Test, error) {
	var test model.Test
	err := r.db.WithContext(ctx).
		Where("test_id = ?", id).
		First(&test).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepo) GetWithQuestions(ctx context.Context, id string) (*model.Test, error) {
	var test model.Test
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Creator").
		Where("test_id = ?", id).
		First(&test).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepo) Update(ctx context.Context, test *model.Test) error {
	return r.db.WithContext(ctx).
		Omit("Questions", "Creator").
		Save(test).Error
}

func (r *testRepo) ReplaceQuestions(ctx context.Context, testID string, questions []model.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var questionIDs []string
		if err := tx.Model(&model.Question{}).
			Where("test_id = ?", testID).
			Pluck("question_id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).
				Delete(&model.Option{}).Error; err != nil {
				return err
			}
			if err := tx.Where("test_id = ?", testID).
				Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
		for i := range questions {
			questions[i].TestID = testID
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var questionIDs []string
		if err := tx.Model(&model.Question{}).
			Where("test_id = ?", id).
			Pluck("question_id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).
				Delete(&model.Option{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("test_id = ?", id).
			Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Where("test_id = ?", id).
			Delete(&model.Test{}).Error
	})
}

func (r *testRepo) List(ctx context.Context, filter TestFilter, offset, limit int) ([]model.Test, int64, error) {
	var tests []model.Test
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Test{})
	if filter.Subject != "" {
		db = db.Where("subject = ?", filter.Subject)
	}
	if filter.Grade != nil {
		db = db.Where("grade = ?", *filter.Grade)
	}
	if filter.Search != "" {
		db = db.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Questions").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&tests).Error; err != nil {
		return nil, 0, err
	}

	return tests, total, nil
}
