package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rhazelina/TA-12-sub000/internal/model"
)

// PlacementQuery 安置查询条件
type PlacementQuery struct {
	Status       model.PlacementStatus
	StudentID    string
	IndustryID   string
	SupervisorID string
}

// PlacementRepository 实习安置数据访问接口
type PlacementRepository interface {
	// Create 单条插入；违反唯一生效安置索引时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, p *model.Placement) error
	GetByID(ctx context.Context, id string) (*model.Placement, error)
	// LockActiveByStudents 对学生的生效安置加行锁（SELECT ... FOR UPDATE），须在事务内调用
	LockActiveByStudents(ctx context.Context, studentIDs []string) ([]model.Placement, error)
	HasActive(ctx context.Context, studentID string) (bool, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Placement, error)
	ListBySource(ctx context.Context, source model.PlacementSource, sourceID string) ([]model.Placement, error)
	ListViews(ctx context.Context, q PlacementQuery, offset, limit int) ([]model.PlacementView, int64, error)
	// UpdateIfStatus 仅当当前状态为 from 时写入状态与结束日期；返回是否生效
	UpdateIfStatus(ctx context.Context, p *model.Placement, from model.PlacementStatus) (bool, error)
}

type placementRepo struct {
	db *gorm.DB
}

func NewPlacementRepo(db *gorm.DB) PlacementRepository {
	return &placementRepo{db: db}
}

func (r *placementRepo) Create(ctx context.Context, p *model.Placement) error {
	return r.db.WithContext(ctx).Omit("Student", "Industry", "Supervisor").Create(p).Error
}

func (r *placementRepo) GetByID(ctx context.Context, id string) (*model.Placement, error) {
	var p model.Placement
	err := r.db.WithContext(ctx).
		Preload("Student").Preload("Student.Class").
		Preload("Industry").
		Preload("Supervisor").
		Where("placement_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *placementRepo) LockActiveByStudents(ctx context.Context, studentIDs []string) ([]model.Placement, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	var list []model.Placement
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("student_id IN ? AND status = ?", studentIDs, model.PlacementActive).
		Order("student_id ASC").
		Find(&list).Error
	return list, err
}

func (r *placementRepo) HasActive(ctx context.Context, studentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Placement{}).
		Where("student_id = ? AND status = ?", studentID, model.PlacementActive).
		Count(&count).Error
	return count > 0, err
}

func (r *placementRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Placement, error) {
	var list []model.Placement
	err := r.db.WithContext(ctx).
		Preload("Industry").
		Preload("Supervisor").
		Where("student_id = ?", studentID).
		Order("start_date DESC, created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *placementRepo) ListBySource(ctx context.Context, source model.PlacementSource, sourceID string) ([]model.Placement, error) {
	var list []model.Placement
	err := r.db.WithContext(ctx).
		Preload("Student").Preload("Student.Class").
		Preload("Industry").
		Preload("Supervisor").
		Where("source_type = ? AND source_id = ?", source, sourceID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

const placementViewColumns = `p.placement_id, p.student_id, s.full_name AS student_name, s.nisn,
	COALESCE(c.name, '') AS class_name, p.industry_id, i.name AS industry_name, i.address AS industry_addr,
	p.supervisor_id, t.full_name AS supervisor_name, p.start_date, p.end_date, p.status, p.source_type`

func (r *placementRepo) ListViews(ctx context.Context, q PlacementQuery, offset, limit int) ([]model.PlacementView, int64, error) {
	db := r.db.WithContext(ctx).
		Table("placements AS p").
		Joins("JOIN students AS s ON s.student_id = p.student_id").
		Joins("LEFT JOIN school_classes AS c ON c.class_id = s.class_id").
		Joins("JOIN industries AS i ON i.industry_id = p.industry_id").
		Joins("JOIN teachers AS t ON t.teacher_id = p.supervisor_id")

	if q.Status != "" {
		db = db.Where("p.status = ?", q.Status)
	}
	if q.StudentID != "" {
		db = db.Where("p.student_id = ?", q.StudentID)
	}
	if q.IndustryID != "" {
		db = db.Where("p.industry_id = ?", q.IndustryID)
	}
	if q.SupervisorID != "" {
		db = db.Where("p.supervisor_id = ?", q.SupervisorID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.PlacementView
	err := db.Select(placementViewColumns).
		Order("c.name ASC, s.full_name ASC, p.start_date ASC").
		Scopes(paginate(offset, limit)).
		Scan(&rows).Error
	return rows, total, err
}

func (r *placementRepo) UpdateIfStatus(ctx context.Context, p *model.Placement, from model.PlacementStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Placement{}).
		Where("placement_id = ? AND status = ?", p.PlacementID, from).
		Updates(map[string]interface{}{
			"status":   p.Status,
			"end_date": p.EndDate,
			"version":  gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	p.Version++
	return true, nil
}
