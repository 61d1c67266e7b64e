package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"skilltree/backend/internal/model"
)

// AssignmentRepository 测试分配与作答数据访问接口
type AssignmentRepository interface {
	// Create 原子插入，(test_id, student_id) 冲突时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, assignment *model.AssignedTest) error
	GetByID(ctx context.Context, id string) (*model.AssignedTest, error)
	GetByTestAndStudent(ctx context.Context, testID, studentID string) (*model.AssignedTest, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.AssignedTest, error)
	ListByTest(ctx context.Context, testID string) ([]model.AssignedTest, error)
	ListStudentIDsByTest(ctx context.Context, testID string) ([]string, error)
	UpdateValidUntil(ctx context.Context, id string, validUntil string) error
	Delete(ctx context.Context, id string) error

	// SubmitResult 在单事务内写入全部作答记录并把分配标记为已完成
	SubmitResult(ctx context.Context, assignment *model.AssignedTest, answers []model.StudentAnswer) error
	ListAnswers(ctx context.Context, assignmentID string) ([]model.StudentAnswer, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.AssignedTest) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.AssignedTest, error) {
	var assignment model.AssignedTest
	err := r.db.WithContext(ctx).
		Preload("Test").
		Preload("Student").
		Where("assignment_id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) GetByTestAndStudent(ctx context.Context, testID, studentID string) (*model.AssignedTest, error) {
	var assignment model.AssignedTest
	err := r.db.WithContext(ctx).
		Where("test_id = ? AND student_id = ?", testID, studentID).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) ListByStudent(ctx context.Context, studentID string) ([]model.AssignedTest, error) {
	var assignments []model.AssignedTest
	err := r.db.WithContext(ctx).
		Preload("Test").
		Where("student_id = ?", studentID).
		Order("assigned_at DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListByTest(ctx context.Context, testID string) ([]model.AssignedTest, error) {
	var assignments []model.AssignedTest
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("test_id = ?", testID).
		Order("assigned_at DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListStudentIDsByTest(ctx context.Context, testID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.AssignedTest{}).
		Where("test_id = ?", testID).
		Pluck("student_id", &ids).Error
	return ids, err
}

func (r *assignmentRepo) UpdateValidUntil(ctx context.Context, id string, validUntil string) error {
	result := r.db.WithContext(ctx).
		Model(&model.AssignedTest{}).
		Where("assignment_id = ?", id).
		Update("valid_until", validUntil)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *assignmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", id).
			Delete(&model.StudentAnswer{}).Error; err != nil {
			return err
		}
		return tx.Where("assignment_id = ?", id).
			Delete(&model.AssignedTest{}).Error
	})
}

func (r *assignmentRepo) SubmitResult(ctx context.Context, assignment *model.AssignedTest, answers []model.StudentAnswer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		now := time.Now()
		return tx.Model(&model.AssignedTest{}).
			Where("assignment_id = ?", assignment.AssignmentID).
			Updates(map[string]interface{}{
				"completed":        true,
				"completed_at":     now,
				"score":            assignment.Score,
				"student_feedback": assignment.StudentFeedback,
			}).Error
	})
}

func (r *assignmentRepo) ListAnswers(ctx context.Context, assignmentID string) ([]model.StudentAnswer, error) {
	var answers []model.StudentAnswer
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("created_at ASC").
		Find(&answers).Error
	return answers, err
}
