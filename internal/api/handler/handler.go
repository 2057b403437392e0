package handler

import "github.com/rhazelina/TA-12-sub000/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Application  *ApplicationHandler
	Group        *GroupHandler
	Approval     *ApprovalHandler
	Transfer     *TransferHandler
	Placement    *PlacementHandler
	Export       *ExportHandler
	Notification *NotificationHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Application:  NewApplicationHandler(svc.Application),
		Group:        NewGroupHandler(svc.Group),
		Approval:     NewApprovalHandler(svc.Approval),
		Transfer:     NewTransferHandler(svc.Transfer),
		Placement:    NewPlacementHandler(svc.Placement),
		Export:       NewExportHandler(svc.Export, svc.Calendar),
		Notification: NewNotificationHandler(svc.Notification),
	}
}
