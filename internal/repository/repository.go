package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Reference    ReferenceRepository
	Application  ApplicationRepository
	Group        GroupRepository
	Placement    PlacementRepository
	Transfer     TransferRepository
	Notification NotificationRepository

	// Transactor 事务执行器；为 nil 时直接在当前连接上执行 fn
	Transactor Transactor
}

// Transactor 在单个事务中执行 fn，fn 拿到的 Repository 全部绑定到该事务
// fn 返回错误时整体回滚
type Transactor interface {
	Transaction(ctx context.Context, fn func(txRepo *Repository) error) error
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	r := newRepository(db)
	r.Transactor = &gormTransactor{db: db}
	return r
}

func newRepository(db *gorm.DB) *Repository {
	return &Repository{
		Reference:    NewReferenceRepo(db),
		Application:  NewApplicationRepo(db),
		Group:        NewGroupRepo(db),
		Placement:    NewPlacementRepo(db),
		Transfer:     NewTransferRepo(db),
		Notification: NewNotificationRepo(db),
	}
}

// WithTx 返回绑定到事务连接的 Repository
// 事务内不再嵌套开启事务
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	txRepo := newRepository(tx)
	txRepo.Transactor = nil
	return txRepo
}

// Transaction 在事务中执行 fn
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.Transactor == nil {
		return fn(r)
	}
	return r.Transactor.Transaction(ctx, fn)
}

type gormTransactor struct {
	db *gorm.DB
}

func (t *gormTransactor) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := newRepository(tx)
		return fn(txRepo)
	})
}

// ── 分页辅助 ──

func paginate(offset, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Offset(offset).Limit(limit)
	}
}
