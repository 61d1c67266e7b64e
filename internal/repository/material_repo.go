package repository

import (
	"context"

	"gorm.io/gorm"

	"skilltree/backend/internal/model"
)

// MaterialRepository 学习资料数据访问接口
type MaterialRepository interface {
	Create(ctx context.Context, material *model.StudyMaterial) error
	GetByID(ctx context.Context, id string) (*model.StudyMaterial, error)
	Update(ctx context.Context, material *model.StudyMaterial) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter MaterialFilter, offset, limit int) ([]model.StudyMaterial, int64, error)
	// ListTopics 按科目去重列出主题与子主题，供前端下拉选择
	ListTopics(ctx context.Context, subject string) ([]TopicPair, error)

	// ── 学生-资料分配 ──
	Assign(ctx context.Context, assignment *model.StudentMaterial) error
	GetAssignment(ctx context.Context, studentID, materialID string) (*model.StudentMaterial, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.StudentMaterial, error)
	RemoveAssignment(ctx context.Context, id string) error
	UpdateAssignment(ctx context.Context, assignment *model.StudentMaterial) error
}

// MaterialFilter 资料列表过滤条件
type MaterialFilter struct {
	Subject string
	Grade   *int
	Topic   string
}

// TopicPair 去重后的主题/子主题组合
type TopicPair struct {
	Topic    string `gorm:"column:topic"`
	SubTopic string `gorm:"column:sub_topic"`
}

type materialRepo struct {
	db *gorm.DB
}

// NewMaterialRepo 创建 MaterialRepository 实例
func NewMaterialRepo(db *gorm.DB) MaterialRepository {
	return &materialRepo{db: db}
}

func (r *materialRepo) Create(ctx context.Context, material *model.StudyMaterial) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *materialRepo) GetByID(ctx context.Context, id string) (*model.StudyMaterial, error) {
	var material model.StudyMaterial
	err := r.db.WithContext(ctx).
		Where("material_id = ?", id).
		First(&material).Error
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *materialRepo) Update(ctx context.Context, material *model.StudyMaterial) error {
	return r.db.WithContext(ctx).Save(material).Error
}

func (r *materialRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("material_id = ?", id).
		Delete(&model.StudyMaterial{}).Error
}

func (r *materialRepo) List(ctx context.Context, filter MaterialFilter, offset, limit int) ([]model.StudyMaterial, int64, error) {
	var materials []model.StudyMaterial
	var total int64

	db := r.db.WithContext(ctx).Model(&model.StudyMaterial{})
	if filter.Subject != "" {
		db = db.Where("subject = ?", filter.Subject)
	}
	if filter.Grade != nil {
		db = db.Where("? = ANY(grades)", *filter.Grade)
	}
	if filter.Topic != "" {
		db = db.Where("topic ILIKE ?", "%"+filter.Topic+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&materials).Error; err != nil {
		return nil, 0, err
	}

	return materials, total, nil
}

func (r *materialRepo) ListTopics(ctx context.Context, subject string) ([]TopicPair, error) {
	var pairs []TopicPair
	db := r.db.WithContext(ctx).Model(&model.StudyMaterial{}).
		Distinct("topic", "sub_topic")
	if subject != "" {
		db = db.Where("subject = ?", subject)
	}
	err := db.Order("topic").Scan(&pairs).Error
	return pairs, err
}

func (r *materialRepo) Assign(ctx context.Context, assignment *model.StudentMaterial) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *materialRepo) GetAssignment(ctx context.Context, studentID, materialID string) (*model.StudentMaterial, error) {
	var assignment model.StudentMaterial
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND material_id = ?", studentID, materialID).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *materialRepo) ListByStudent(ctx context.Context, studentID string) ([]model.StudentMaterial, error) {
	var assignments []model.StudentMaterial
	err := r.db.WithContext(ctx).
		Preload("Material").
		Where("student_id = ?", studentID).
		Order("assigned_at DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *materialRepo) RemoveAssignment(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("student_material_id = ?", id).
		Delete(&model.StudentMaterial{}).Error
}

func (r *materialRepo) UpdateAssignment(ctx context.Context, assignment *model.StudentMaterial) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}
