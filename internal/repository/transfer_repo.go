package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/rhazelina/TA-12-sub000/internal/model"
)

// TransferRepository 调动申请数据访问接口
type TransferRepository interface {
	// Create 违反"每条安置一条进行中调动"索引时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, t *model.TransferRequest) error
	GetByID(ctx context.Context, id string) (*model.TransferRequest, error)
	HasOpen(ctx context.Context, placementID string) (bool, error)
	ListByPlacement(ctx context.Context, placementID string) ([]model.TransferRequest, error)
	List(ctx context.Context, status model.TransferStatus, offset, limit int) ([]model.TransferRequest, int64, error)
	// ListBySupervisor 指定指导教师名下安置的调动申请
	ListBySupervisor(ctx context.Context, supervisorID string, status model.TransferStatus) ([]model.TransferRequest, error)
	// UpdateIfStatus 仅当当前状态为 from 时写入决策字段；返回是否生效
	UpdateIfStatus(ctx context.Context, t *model.TransferRequest, from model.TransferStatus) (bool, error)
}

type transferRepo struct {
	db *gorm.DB
}

func NewTransferRepo(db *gorm.DB) TransferRepository {
	return &transferRepo{db: db}
}

func (r *transferRepo) Create(ctx context.Context, t *model.TransferRequest) error {
	return r.db.WithContext(ctx).Omit("Placement").Create(t).Error
}

func (r *transferRepo) GetByID(ctx context.Context, id string) (*model.TransferRequest, error) {
	var t model.TransferRequest
	err := r.db.WithContext(ctx).
		Preload("Placement").
		Where("transfer_id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transferRepo) HasOpen(ctx context.Context, placementID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TransferRequest{}).
		Where("placement_id = ? AND status IN ?", placementID,
			[]model.TransferStatus{model.TransferPendingCoordinator, model.TransferPendingSupervisor}).
		Count(&count).Error
	return count > 0, err
}

func (r *transferRepo) ListByPlacement(ctx context.Context, placementID string) ([]model.TransferRequest, error) {
	var list []model.TransferRequest
	err := r.db.WithContext(ctx).
		Where("placement_id = ?", placementID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *transferRepo) List(ctx context.Context, status model.TransferStatus, offset, limit int) ([]model.TransferRequest, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.TransferRequest{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.TransferRequest
	err := db.Order("created_at ASC").
		Scopes(paginate(offset, limit)).
		Find(&list).Error
	return list, total, err
}

func (r *transferRepo) ListBySupervisor(ctx context.Context, supervisorID string, status model.TransferStatus) ([]model.TransferRequest, error) {
	db := r.db.WithContext(ctx).
		Joins("JOIN placements ON placements.placement_id = transfer_requests.placement_id").
		Where("placements.supervisor_id = ?", supervisorID)
	if status != "" {
		db = db.Where("transfer_requests.status = ?", status)
	}

	var list []model.TransferRequest
	err := db.Order("transfer_requests.created_at ASC").Find(&list).Error
	return list, err
}

func (r *transferRepo) UpdateIfStatus(ctx context.Context, t *model.TransferRequest, from model.TransferStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.TransferRequest{}).
		Where("transfer_id = ? AND status = ?", t.TransferID, from).
		Updates(map[string]interface{}{
			"status":                 t.Status,
			"coordinator_id":         t.CoordinatorID,
			"coordinator_approved":   t.CoordinatorApproved,
			"coordinator_note":       t.CoordinatorNote,
			"coordinator_decided_at": t.CoordinatorDecidedAt,
			"supervisor_id":          t.SupervisorID,
			"supervisor_approved":    t.SupervisorApproved,
			"supervisor_note":        t.SupervisorNote,
			"supervisor_decided_at":  t.SupervisorDecidedAt,
			"new_placement_id":       t.NewPlacementID,
			"decided_at":             t.DecidedAt,
			"version":                gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	t.Version++
	return true, nil
}
