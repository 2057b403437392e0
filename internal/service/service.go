package service

import (
	"go.uber.org/zap"

	"github.com/rhazelina/TA-12-sub000/config"
	"github.com/rhazelina/TA-12-sub000/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Application  ApplicationService
	Group        GroupService
	Approval     ApprovalService
	Transfer     TransferService
	Placement    PlacementService
	Notification NotificationService
	Export       ExportService
	Calendar     CalendarService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	logger *zap.Logger,
) *Service {
	wf := &cfg.Workflow
	return &Service{
		Application:  NewApplicationService(repo, wf, logger),
		Group:        NewGroupService(repo, logger),
		Approval:     NewApprovalService(repo, wf, logger),
		Transfer:     NewTransferService(repo, wf, logger),
		Placement:    NewPlacementService(repo, logger),
		Notification: NewNotificationService(repo, logger),
		Export:       NewExportService(repo, logger),
		Calendar:     NewCalendarService(repo, cfg.Server.BaseURL, logger),
	}
}
