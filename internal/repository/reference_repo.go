package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/rhazelina/TA-12-sub000/internal/model"
)

// ReferenceRepository 参考数据（学生、教师、班级、企业、学校信息）只读访问接口
// 记录不存在时返回 gorm.ErrRecordNotFound
type ReferenceRepository interface {
	GetStudent(ctx context.Context, id string) (*model.Student, error)
	ListStudentsByIDs(ctx context.Context, ids []string) ([]model.Student, error)
	GetTeacher(ctx context.Context, id string) (*model.Teacher, error)
	GetClass(ctx context.Context, id string) (*model.SchoolClass, error)
	GetIndustry(ctx context.Context, id string) (*model.Industry, error)
	GetSchoolProfile(ctx context.Context) (*model.SchoolProfile, error)
}

type referenceRepo struct {
	db *gorm.DB
}

func NewReferenceRepo(db *gorm.DB) ReferenceRepository {
	return &referenceRepo{db: db}
}

func (r *referenceRepo) GetStudent(ctx context.Context, id string) (*model.Student, error) {
	var s model.Student
	err := r.db.WithContext(ctx).
		Preload("Class").
		Where("student_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *referenceRepo) ListStudentsByIDs(ctx context.Context, ids []string) ([]model.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []model.Student
	err := r.db.WithContext(ctx).
		Preload("Class").
		Where("student_id IN ?", ids).
		Order("full_name ASC").
		Find(&list).Error
	return list, err
}

func (r *referenceRepo) GetTeacher(ctx context.Context, id string) (*model.Teacher, error) {
	var t model.Teacher
	if err := r.db.WithContext(ctx).Where("teacher_id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *referenceRepo) GetClass(ctx context.Context, id string) (*model.SchoolClass, error) {
	var c model.SchoolClass
	if err := r.db.WithContext(ctx).Where("class_id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *referenceRepo) GetIndustry(ctx context.Context, id string) (*model.Industry, error) {
	var ind model.Industry
	if err := r.db.WithContext(ctx).Where("industry_id = ?", id).First(&ind).Error; err != nil {
		return nil, err
	}
	return &ind, nil
}

func (r *referenceRepo) GetSchoolProfile(ctx context.Context) (*model.SchoolProfile, error) {
	var p model.SchoolProfile
	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
