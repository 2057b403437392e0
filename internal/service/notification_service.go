package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/rhazelina/TA-12-sub000/internal/dto"
	"github.com/rhazelina/TA-12-sub000/internal/model"
	"github.com/rhazelina/TA-12-sub000/internal/repository"
)

// NotificationService 通知查询接口；通知本身由各流程在事务内写入
type NotificationService interface {
	List(ctx context.Context, actor dto.Actor, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error)
	MarkRead(ctx context.Context, id string, actor dto.Actor) error
	MarkAllRead(ctx context.Context, actor dto.Actor) (int64, error)
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) List(ctx context.Context, actor dto.Actor, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	list, total, err := s.repo.Notification.ListByRecipient(ctx, actor.ID, req.UnreadOnly, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询通知失败", zap.String("recipient_id", actor.ID), zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.NotificationResponse, 0, len(list))
	for i := range list {
		out = append(out, toNotificationResponse(&list[i]))
	}
	return out, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string, actor dto.Actor) error {
	ok, err := s.repo.Notification.MarkRead(ctx, id, actor.ID)
	if err != nil {
		s.logger.Error("标记通知已读失败", zap.String("notification_id", id), zap.Error(err))
		return err
	}
	if !ok {
		return ErrNotificationAbsent
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, actor dto.Actor) (int64, error) {
	n, err := s.repo.Notification.MarkAllRead(ctx, actor.ID)
	if err != nil {
		s.logger.Error("全部标记已读失败", zap.String("recipient_id", actor.ID), zap.Error(err))
		return 0, err
	}
	return n, nil
}

func toNotificationResponse(n *model.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:          n.NotificationID,
		Type:        n.Type,
		Title:       n.Title,
		Content:     n.Content,
		IsRead:      n.IsRead,
		RelatedType: n.RelatedType,
		RelatedID:   n.RelatedID,
		CreatedAt:   formatTime(n.CreatedAt),
	}
}
