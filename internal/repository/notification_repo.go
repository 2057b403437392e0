package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/rhazelina/TA-12-sub000/internal/model"
)

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	BatchCreate(ctx context.Context, list []model.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error)
	// MarkRead 仅标记属于 recipientID 的通知；返回是否命中
	MarkRead(ctx context.Context, id, recipientID string) (bool, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
}

type notificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) BatchCreate(ctx context.Context, list []model.Notification) error {
	if len(list) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&list).Error
}

func (r *notificationRepo) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ?", recipientID)
	if unreadOnly {
		db = db.Where("is_read = ?", false)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Notification
	err := db.Order("created_at DESC").
		Scopes(paginate(offset, limit)).
		Find(&list).Error
	return list, total, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, recipientID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("notification_id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}
