package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rhazelina/TA-12-sub000/internal/model"
)

// ApplicationQuery 申请查询条件
type ApplicationQuery struct {
	Status     model.ApplicationStatus
	Search     string // 学生姓名 / NISN / 企业名模糊匹配
	StudentID  string
	IndustryID string
}

// ApplicationCursor 键集分页游标，按 (submitted_at, application_id) 升序
type ApplicationCursor struct {
	SubmittedAt time.Time
	ID          string
}

// ApplicationRepository 个人申请数据访问接口
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, id string) (*model.Application, error)
	HasPending(ctx context.Context, studentID string) (bool, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Application, error)
	// ListViewsAfter 读取游标之后的一批投影行；after 为 nil 时从头开始
	ListViewsAfter(ctx context.Context, q ApplicationQuery, after *ApplicationCursor, limit int) ([]model.ApplicationView, error)
	ListViews(ctx context.Context, q ApplicationQuery, offset, limit int) ([]model.ApplicationView, int64, error)
	// UpdateIfStatus 仅当当前状态为 from 时写入决策字段；返回是否生效
	UpdateIfStatus(ctx context.Context, app *model.Application, from model.ApplicationStatus) (bool, error)
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Omit("Student", "Industry").Create(app).Error
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Preload("Student").Preload("Student.Class").
		Preload("Industry").
		Where("application_id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) HasPending(ctx context.Context, studentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("student_id = ? AND status = ?", studentID, model.ApplicationPending).
		Count(&count).Error
	return count > 0, err
}

func (r *applicationRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Application, error) {
	var list []model.Application
	err := r.db.WithContext(ctx).
		Preload("Industry").
		Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Find(&list).Error
	return list, err
}

// ── 投影查询 ──

const applicationViewColumns = `a.application_id, a.student_id, s.full_name AS student_name, s.nisn,
	COALESCE(c.name, '') AS class_name, a.industry_id, i.name AS industry_name,
	a.status, a.note, a.decision_note, a.withdrawn, a.submitted_at, a.decided_at`

func (r *applicationRepo) viewQuery(ctx context.Context, q ApplicationQuery) *gorm.DB {
	db := r.db.WithContext(ctx).
		Table("applications AS a").
		Joins("JOIN students AS s ON s.student_id = a.student_id").
		Joins("LEFT JOIN school_classes AS c ON c.class_id = s.class_id").
		Joins("JOIN industries AS i ON i.industry_id = a.industry_id")

	if q.Status != "" {
		db = db.Where("a.status = ?", q.Status)
	}
	if q.StudentID != "" {
		db = db.Where("a.student_id = ?", q.StudentID)
	}
	if q.IndustryID != "" {
		db = db.Where("a.industry_id = ?", q.IndustryID)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		db = db.Where("(s.full_name ILIKE ? OR s.nisn ILIKE ? OR i.name ILIKE ?)", like, like, like)
	}
	return db
}

func (r *applicationRepo) ListViewsAfter(ctx context.Context, q ApplicationQuery, after *ApplicationCursor, limit int) ([]model.ApplicationView, error) {
	db := r.viewQuery(ctx, q)
	if after != nil {
		db = db.Where("(a.submitted_at, a.application_id) > (?, ?)", after.SubmittedAt, after.ID)
	}

	var rows []model.ApplicationView
	err := db.Select(applicationViewColumns).
		Order("a.submitted_at ASC, a.application_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *applicationRepo) ListViews(ctx context.Context, q ApplicationQuery, offset, limit int) ([]model.ApplicationView, int64, error) {
	var total int64
	if err := r.viewQuery(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.ApplicationView
	err := r.viewQuery(ctx, q).
		Select(applicationViewColumns).
		Order("a.submitted_at ASC, a.application_id ASC").
		Scopes(paginate(offset, limit)).
		Scan(&rows).Error
	return rows, total, err
}

func (r *applicationRepo) UpdateIfStatus(ctx context.Context, app *model.Application, from model.ApplicationStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("application_id = ? AND status = ?", app.ApplicationID, from).
		Updates(map[string]interface{}{
			"status":        app.Status,
			"decision_note": app.DecisionNote,
			"withdrawn":     app.Withdrawn,
			"decided_at":    app.DecidedAt,
			"decided_by":    app.DecidedBy,
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	app.Version++
	return true, nil
}
